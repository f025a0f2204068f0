package toolchain

import (
	"context"
	"os/exec"
)

// Command is exec.CommandContext, but prevents Windows from opening
// a console window for every compiler process.
func Command(ctx context.Context, name string, arg ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.SysProcAttr = sysProcAttr()
	return cmd
}
