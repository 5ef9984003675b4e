//go:build windows

// Package power verifies and issues the privileged host power-off request.
package power

import (
	"fmt"
	"os/exec"
)

const shutdownBin = "shutdown"

// Check verifies that the shutdown command can be invoked.
func Check() error {
	if _, err := exec.LookPath(shutdownBin); err != nil {
		return fmt.Errorf("%s not available: %w", shutdownBin, err)
	}
	return nil
}

// Off requests an immediate shutdown.
func Off() error {
	out, err := exec.Command(shutdownBin, "/s", "/t", "0").CombinedOutput()
	if err != nil {
		return fmt.Errorf("shutdown failed: %w (output: %s)", err, out)
	}
	return nil
}
