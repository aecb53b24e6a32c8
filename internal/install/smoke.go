package install

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/bianoble/hyperkit-recipe/internal/layout"
	"github.com/bianoble/hyperkit-recipe/internal/sandbox"
	"github.com/bianoble/hyperkit-recipe/internal/script"
)

// Script names written into the smoke test work directory.
const (
	StageScript = "stage.sh"
	BootScript  = "boot.exp"
)

// bootWaits is how many expect timeouts the boot script can spend: the
// prompt, the halt message and eof.
const bootWaits = 3

// SmokeTest boots the installed binary against the recipe's tinycore images.
// Both scripts are written to workDir; the staging script runs under sh and
// the boot script under expect. Either exiting nonzero fails the test.
func (i *Installer) SmokeTest(ctx context.Context, workDir string) error {
	stage, err := i.stageScript(workDir)
	if err != nil {
		return err
	}
	boot, err := i.bootScript()
	if err != nil {
		return err
	}

	if err := sandbox.SafeWrite(workDir, StageScript, []byte(stage), 0755); err != nil {
		return fmt.Errorf("writing %s: %w", StageScript, err)
	}
	if err := sandbox.SafeWrite(workDir, BootScript, []byte(boot), 0755); err != nil {
		return fmt.Errorf("writing %s: %w", BootScript, err)
	}

	smoke := &Installer{Runner: i.Runner, Logger: i.Logger, BuildPath: workDir}
	if err := smoke.run(ctx, "stage images", []string{"sh", StageScript}); err != nil {
		return fmt.Errorf("smoke test: %w", err)
	}

	bootCtx := ctx
	if d := i.Recipe.SmokeTest.TimeoutDuration(); d > 0 {
		var cancel context.CancelFunc
		bootCtx, cancel = context.WithTimeout(ctx, bootWaits*d)
		defer cancel()
	}
	if err := smoke.run(bootCtx, "boot test", []string{"expect", BootScript}); err != nil {
		return fmt.Errorf("smoke test: %w", err)
	}

	i.logger().Info("smoke test passed", "binary", i.installedBinary())
	return nil
}

func (i *Installer) stageScript(workDir string) (string, error) {
	st := i.Recipe.SmokeTest
	vars := make(map[string]string, 3)
	for name, value := range map[string]string{"kernel": st.Kernel, "initrd": st.Initrd, "dir": workDir} {
		q, err := script.QuoteWord(value)
		if err != nil {
			return "", fmt.Errorf("smoke test: %w", err)
		}
		vars[name] = q
	}

	src, err := script.Render(script.StageImages, vars)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", StageScript, err)
	}
	if err := script.Validate(StageScript, src); err != nil {
		return "", err
	}
	return src, nil
}

func (i *Installer) bootScript() (string, error) {
	st := i.Recipe.SmokeTest
	vars := map[string]string{"timeout": strconv.Itoa(st.Timeout)}
	for name, value := range map[string]string{"binary": i.installedBinary(), "cmdline": st.Cmdline, "memory": st.Memory} {
		w, err := script.TclWord(value)
		if err != nil {
			return "", fmt.Errorf("smoke test %s: %w", name, err)
		}
		vars[name] = w
	}

	src, err := script.Render(script.BootTest, vars)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", BootScript, err)
	}
	return src, nil
}

// installedBinary is where Install copied the hyperkit binary.
func (i *Installer) installedBinary() string {
	rel, err := i.layoutOrDefault().Path(layout.KindBin, i.Recipe.Install.Binary)
	if err != nil {
		return filepath.Join(i.Prefix, "bin", filepath.Base(i.Recipe.Install.Binary))
	}
	return filepath.Join(i.Prefix, rel)
}
