//go:build !windows

package sidecar

import (
	"os/exec"
	"syscall"
)

// setSysProcAttr puts the worker in its own process group so Stop can signal
// the whole group, including any children the worker forks.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminateGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGTERM)
}

func killGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
