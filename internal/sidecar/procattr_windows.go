//go:build windows

package sidecar

import (
	"os"
	"os/exec"
)

func setSysProcAttr(_ *exec.Cmd) {}

func terminateGroup(pid int) {
	if p, err := os.FindProcess(pid); err == nil {
		_ = p.Kill()
	}
}

func killGroup(pid int) {
	terminateGroup(pid)
}
