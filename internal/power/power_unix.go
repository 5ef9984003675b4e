//go:build !windows

// Package power verifies and issues the privileged host power-off request.
package power

import (
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

const (
	sudoBin     = "sudo"
	shutdownBin = "/sbin/shutdown"
)

// Check verifies that the privileged shutdown command can be invoked.
// It is the run's first step: if the tooling is missing there is no point
// in arming an alarm for a machine that cannot power itself off.
func Check() error {
	if _, err := exec.LookPath(sudoBin); err != nil {
		return fmt.Errorf("%s not available: %w", sudoBin, err)
	}
	if _, err := exec.LookPath(shutdownBin); err != nil {
		return fmt.Errorf("%s not available: %w", shutdownBin, err)
	}
	return nil
}

// Off flushes filesystem buffers and requests an immediate halt.
// Requires a sudo rule allowing the shutdown command without a password;
// a privilege failure surfaces as the command's error.
func Off() error {
	unix.Sync()
	out, err := exec.Command(sudoBin, shutdownBin, "-h", "now").CombinedOutput()
	if err != nil {
		return fmt.Errorf("shutdown failed: %w (output: %s)", err, out)
	}
	return nil
}
