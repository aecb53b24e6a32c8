package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/hyperkit-recipe/internal/config"
	"github.com/bianoble/hyperkit-recipe/internal/install"
	"github.com/bianoble/hyperkit-recipe/internal/layout"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about the recipe, cache and install layout",
	Long: `Displays the hyperkit-recipe version, the recipe path and its resolution
strategies, the install prefix, the archive cache directory and size, and the
install layout (built-in and custom artifact directories).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := config.Load(recipePath) // ok if the recipe doesn't exist
		if err != nil {
			detail("recipe not loaded: %s", err)
		}

		fmt.Printf("hyperkit-recipe %s\n", buildVersion)
		fmt.Printf("  recipe:        %s\n", recipePath)
		fmt.Printf("  prefix:        %s\n", config.Prefix())

		c, err := newCache()
		if err == nil {
			size, _ := c.Size()
			fmt.Printf("  cache dir:     %s\n", c.Path())
			fmt.Printf("  cache size:    %s\n", humanSize(size))
		}

		if r == nil {
			return nil
		}

		fmt.Printf("  build file:    %s (%s)\n", r.BuildFile, r.Format)
		fmt.Printf("  release:       %s\n", install.SelectStrategy(install.ModeRelease, r))
		fmt.Printf("  head:          %s %s\n", install.SelectStrategy(install.ModeHead, r), r.Head.Branch)

		l := layout.New(r.Install.Layout)
		fmt.Println("\nInstall layout:")
		for _, kind := range l.Kinds() {
			dir, _ := l.Resolve(kind)
			custom := ""
			if l.IsCustom(kind) {
				custom = " (custom)"
			}
			fmt.Printf("  %-8s → %s%s\n", kind, dir, custom)
		}
		return nil
	},
}

func humanSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
