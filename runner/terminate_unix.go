//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// terminate asks the process to exit cooperatively.
func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Signal(syscall.SIGTERM)
}
