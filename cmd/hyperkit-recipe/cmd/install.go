package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/hyperkit-recipe/internal/config"
	"github.com/bianoble/hyperkit-recipe/internal/install"
)

var (
	installMode      string
	installBuildPath string
	installPrefix    string
	installSkipDeps  bool
	installDryRun    bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Build hyperkit and install it under the prefix",
	Long: `Runs the install procedure in the source tree at --build-path:

  1. check the depends_on tools and install the OPAM packages (both
     skipped with --skip-deps)
  2. resolve the build identity
  3. stamp it into the build file
  4. run make
  5. copy the binary and man page under --prefix

Bottle builds skip steps 2 and 3. If the identity cannot be determined the
install stops before make.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRecipe()
		if err != nil {
			return err
		}
		mode, err := install.ParseMode(installMode)
		if err != nil {
			return err
		}
		buildPath, err := resolveBuildPath(installBuildPath)
		if err != nil {
			return err
		}
		prefix := installPrefix
		if prefix == "" {
			prefix = config.Prefix()
		}

		inst := newInstaller(r, buildPath, prefix)
		result, err := inst.Install(cmd.Context(), mode, install.Options{DryRun: installDryRun, SkipDeps: installSkipDeps})
		if err != nil {
			return err
		}

		if installDryRun {
			info("Dry run — nothing built or installed.")
		}
		for _, s := range result.Steps {
			if s.Action == install.ActionSkipped {
				detail("%-8s %-9s %s", s.Name, s.Action, s.Detail)
				continue
			}
			info("  %-8s %-9s %s", s.Name, s.Action, s.Detail)
		}

		info("")
		if result.Mode == install.ModeBottle {
			info("Install complete (%s).", result.Mode)
		} else {
			info("Install complete (%s %s).", result.Mode, result.Pair)
		}
		return nil
	},
}

func init() {
	installCmd.Flags().StringVar(&installMode, "mode", "release", "build mode: release, head or bottle")
	installCmd.Flags().StringVar(&installBuildPath, "build-path", "", "hyperkit source tree (default: recipe directory)")
	installCmd.Flags().StringVar(&installPrefix, "prefix", "", "install prefix (default: $HYPERKIT_RECIPE_PREFIX or /usr/local)")
	installCmd.Flags().BoolVar(&installSkipDeps, "skip-deps", false, "do not check depends_on tools or install OPAM packages")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "show the steps without running them")
	rootCmd.AddCommand(installCmd)
}
