package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// Global flags.
var (
	recipePath string
	verbose    bool
	quiet      bool
	noColor    bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "hyperkit-recipe"})

var rootCmd = &cobra.Command{
	Use:   "hyperkit-recipe",
	Short: "Build and install hyperkit from a recipe",
	Long: `hyperkit-recipe builds hyperkit from a declarative recipe. It resolves the
build identity (a version and an abbreviated commit) from the release archive
name, a declared resource record or the git history of a checkout, stamps it
into the Makefile's GIT_VERSION and GIT_VERSION_SHA1 assignments, runs make and
installs the binary and man page under the install prefix.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogger()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hyperkit-recipe %s\n", buildVersion)
		fmt.Printf("  commit:  %s\n", buildCommit)
		fmt.Printf("  built:   %s\n", buildDate)
		fmt.Printf("  recipe:  v1\n")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&recipePath, "recipe", "hyperkit-recipe.yaml", "path to recipe file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

func configureLogger() {
	switch {
	case verbose:
		logger.SetLevel(log.DebugLevel)
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	if noColor {
		logger.SetColorProfile(termenv.Ascii)
	}
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		return err
	}
	return nil
}
