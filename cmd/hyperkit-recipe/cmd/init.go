package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

// initTemplate is the default hyperkit-recipe.yaml scaffold.
const initTemplate = `# hyperkit-recipe build recipe
version: 1
name: hyperkit

# Makefile holding the GIT_VERSION and GIT_VERSION_SHA1 assignments,
# relative to the build path.
build_file: Makefile

# plain:  GIT_VERSION := <version>-<commit>
# quoted: GIT_VERSION := '<version> (<commit>)'
format: plain

stable:
  # The archive name carries the identity: hyperkit-<YYYYMMDD>-<commit>.tar.gz
  url: https://github.com/your-org/hyperkit/releases/download/v0.20170515/hyperkit-20170515-fa78d94.tar.gz
  sha256: 0000000000000000000000000000000000000000000000000000000000000000
  # Or pin the identity explicitly:
  # resource:
  #   tag: v0.20170515
  #   revision: fa78d9406e6c4e7dfbd2a59cf4c1ff4ee2349fd5

head:
  repo: https://github.com/moby/hyperkit.git
  branch: master

opam:
  packages: [uri, qcow-format, io-page, conf-libev, mirage-block-unix, qcow-tool, mirage-unix, lwt]

# Tools that must be on PATH before the build starts.
depends_on: [aspcud, ocaml, opam, make]

install:
  binary: build/hyperkit
  man_page: hyperkit.1
  # layout:
  #   bin: sbin

smoke_test:
  kernel: /tmp/hyperkit-imgs/vmlinuz
  initrd: /tmp/hyperkit-imgs/initrd.gz
  timeout: 20
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter hyperkit-recipe.yaml recipe",
	Long: `Creates a hyperkit-recipe.yaml file with a commented template covering the
release archive, an optional resource record, the head checkout, OPAM
dependencies, install artifacts and the boot smoke test.

Use --force to overwrite an existing recipe file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := recipePath
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing recipe: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Set stable.url and stable.sha256 for the release to build")
		info("  2. Run 'hyperkit-recipe fetch' to download and unpack the sources")
		info("  3. Run 'hyperkit-recipe install' to build and install")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing recipe file")
	rootCmd.AddCommand(initCmd)
}
