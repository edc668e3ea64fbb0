// Package daemonctl orchestrates the casement daemon process from the CLI:
// detached launch, waiting for the control socket, and idempotent startup.
package daemonctl

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"casement/internal/control"
)

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
}

// StartState describes the outcome of EnsureStarted.
type StartState string

const (
	StartStateLaunched       StartState = "launched"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State StartState
}

// Launch starts a detached casementd process.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	var args []string
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}

	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForClient waits for control socket availability and returns a
// connected client.
func WaitForClient(address string, timeout time.Duration) (*control.Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := control.Dial(address)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted connects to a running daemon or launches one and waits for
// its control socket to come up.
func EnsureStarted(address, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	client, err := control.Dial(address)
	if err == nil {
		client.Close()
		return StartResult{State: StartStateAlreadyRunning}, nil
	}

	if err := Launch(executablePath, opts); err != nil {
		return StartResult{}, err
	}
	client, err = WaitForClient(address, waitTimeout)
	if err != nil {
		return StartResult{}, err
	}
	client.Close()
	return StartResult{State: StartStateLaunched}, nil
}
