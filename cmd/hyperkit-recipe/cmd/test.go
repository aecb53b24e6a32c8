package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/hyperkit-recipe/internal/config"
)

var (
	testPrefix  string
	testWorkDir string
	testKeep    bool
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Boot tinycore linux with the installed hyperkit",
	Long: `Copies the recipe's tinycore kernel and initrd into a work directory and
runs an expect script that boots them with the installed hyperkit binary,
waits for the shell prompt and halts the guest. Requires expect.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRecipe()
		if err != nil {
			return err
		}
		prefix := testPrefix
		if prefix == "" {
			prefix = config.Prefix()
		}

		workDir := testWorkDir
		keep := testKeep || workDir != ""
		if workDir == "" {
			workDir, err = os.MkdirTemp("", "hyperkit-recipe-test-*")
			if err != nil {
				return fmt.Errorf("creating work directory: %w", err)
			}
			defer func() {
				if !keep {
					_ = os.RemoveAll(workDir)
				}
			}()
		}
		detail("work directory: %s", workDir)

		inst := newInstaller(r, workDir, prefix)
		if err := inst.SmokeTest(cmd.Context(), workDir); err != nil {
			errorf("boot test failed, scripts kept in %s", workDir)
			keep = true
			return err
		}
		info("PASS")
		return nil
	},
}

func init() {
	testCmd.Flags().StringVar(&testPrefix, "prefix", "", "install prefix holding the binary (default: $HYPERKIT_RECIPE_PREFIX or /usr/local)")
	testCmd.Flags().StringVar(&testWorkDir, "work-dir", "", "directory for the staged images and scripts (default: temporary)")
	testCmd.Flags().BoolVar(&testKeep, "keep", false, "keep the temporary work directory")
	rootCmd.AddCommand(testCmd)
}
