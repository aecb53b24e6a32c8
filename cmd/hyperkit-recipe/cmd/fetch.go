package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/hyperkit-recipe/internal/install"
	"github.com/bianoble/hyperkit-recipe/internal/source"
	"github.com/bianoble/hyperkit-recipe/internal/version"
)

var (
	fetchMode      string
	fetchBuildPath string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and unpack the hyperkit sources",
	Long: `Release builds download stable.url, verify it against stable.sha256 and
unpack it into --build-path, reusing a cached copy when one exists. Head builds
clone head.branch of head.repo into --build-path, which must be empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRecipe()
		if err != nil {
			return err
		}
		mode, err := install.ParseMode(fetchMode)
		if err != nil {
			return err
		}
		buildPath, err := resolveBuildPath(fetchBuildPath)
		if err != nil {
			return err
		}

		if mode == install.ModeHead {
			g := &source.GitCheckout{Runner: version.ExecRunner{Env: []string{"GIT_TERMINAL_PROMPT=0"}}}
			logger.Info("cloning", "repo", r.Head.Repo, "branch", r.Head.Branch)
			if err := g.Checkout(cmd.Context(), r.Head.Repo, r.Head.Branch, buildPath); err != nil {
				return err
			}
			info("Checked out %s (%s) into %s", r.Head.Repo, r.Head.Branch, buildPath)
			return nil
		}

		c, err := newCache()
		if err != nil {
			return err
		}
		f := source.NewArchiveFetcher(c)
		logger.Info("fetching", "url", r.Stable.URL)
		data, hit, err := f.Fetch(cmd.Context(), r.Stable.URL, r.Stable.SHA256)
		if err != nil {
			return err
		}
		if hit {
			detail("served from cache %s", c.Path())
		}

		n, err := source.Extract(data, buildPath, 1)
		if err != nil {
			return err
		}
		info("Unpacked %d files into %s", n, buildPath)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchMode, "mode", "release", "build mode: release or head")
	fetchCmd.Flags().StringVar(&fetchBuildPath, "build-path", "", "destination source tree (default: recipe directory)")
	rootCmd.AddCommand(fetchCmd)
}
