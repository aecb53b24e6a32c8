package main

import (
	"os"

	"github.com/bianoble/hyperkit-recipe/cmd/hyperkit-recipe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
