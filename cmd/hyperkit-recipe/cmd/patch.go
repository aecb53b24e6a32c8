package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bianoble/hyperkit-recipe/internal/buildfile"
	"github.com/bianoble/hyperkit-recipe/internal/install"
	"github.com/bianoble/hyperkit-recipe/internal/version"
)

var (
	patchMode      string
	patchBuildPath string
	patchVersion   string
	patchCommit    string
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Stamp the build identity into the Makefile",
	Long: `Rewrites the GIT_VERSION and GIT_VERSION_SHA1 assignments of the recipe's
build file. The identity is resolved for --mode unless both --version and
--commit are given. The original file is kept as <build_file>.bak; use
'hyperkit-recipe restore' to put it back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRecipe()
		if err != nil {
			return err
		}
		buildPath, err := resolveBuildPath(patchBuildPath)
		if err != nil {
			return err
		}

		var pair version.Pair
		switch {
		case patchVersion != "" && patchCommit != "":
			pair = version.Pair{Version: patchVersion, Commit: patchCommit}
		case patchVersion != "" || patchCommit != "":
			return errors.New("--version and --commit must be given together")
		default:
			mode, err := install.ParseMode(patchMode)
			if err != nil {
				return err
			}
			pair, err = newInstaller(r, buildPath, "").Identity(cmd.Context(), mode)
			if err != nil {
				return err
			}
		}

		format, err := buildfile.ParseFormat(r.Format)
		if err != nil {
			return err
		}
		path := filepath.Join(buildPath, r.BuildFile)
		if err := buildfile.Patch(path, pair, format); err != nil {
			return fmt.Errorf("%w: %w", install.ErrBuildIdentity, err)
		}

		logger.Debug("patched build file", "path", path, "format", format)
		info("Patched %s: %s", path, pair)
		return nil
	},
}

var restoreBuildPath string

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the Makefile from its .bak backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRecipe()
		if err != nil {
			return err
		}
		buildPath, err := resolveBuildPath(restoreBuildPath)
		if err != nil {
			return err
		}

		path := filepath.Join(buildPath, r.BuildFile)
		if err := buildfile.Restore(path); err != nil {
			return err
		}
		info("Restored %s", path)
		return nil
	},
}

func init() {
	patchCmd.Flags().StringVar(&patchMode, "mode", "release", "build mode used to resolve the identity: release or head")
	patchCmd.Flags().StringVar(&patchBuildPath, "build-path", "", "hyperkit source tree (default: recipe directory)")
	patchCmd.Flags().StringVar(&patchVersion, "version", "", "version to stamp instead of resolving")
	patchCmd.Flags().StringVar(&patchCommit, "commit", "", "commit to stamp instead of resolving")
	restoreCmd.Flags().StringVar(&restoreBuildPath, "build-path", "", "hyperkit source tree (default: recipe directory)")
	rootCmd.AddCommand(patchCmd, restoreCmd)
}
