package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/hyperkit-recipe/internal/install"
)

var (
	resolveMode string
	resolvePath string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the build identity for a build mode",
	Long: `Resolves the build identity the way install would and prints it as
<version>-<commit>. Release builds read it from the archive name or the
stable.resource record; head builds query the git history of the checkout at
--build-path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRecipe()
		if err != nil {
			return err
		}
		mode, err := install.ParseMode(resolveMode)
		if err != nil {
			return err
		}
		buildPath, err := resolveBuildPath(resolvePath)
		if err != nil {
			return err
		}

		inst := newInstaller(r, buildPath, "")
		pair, err := inst.Identity(cmd.Context(), mode)
		if err != nil {
			return err
		}

		detail("strategy: %s", install.SelectStrategy(mode, r))
		detail("version:  %s", pair.Version)
		detail("commit:   %s", pair.Commit)
		fmt.Println(pair)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveMode, "mode", "release", "build mode: release or head")
	resolveCmd.Flags().StringVar(&resolvePath, "build-path", "", "hyperkit source tree (default: recipe directory)")
	rootCmd.AddCommand(resolveCmd)
}
