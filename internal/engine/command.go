package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultCommandTimeout bounds an external maintenance command. DISM
// component cleanup routinely takes several minutes.
const DefaultCommandTimeout = 30 * time.Minute

// CommandRunner runs an external maintenance command and returns its
// captured output. The output is never shown in a separate window.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes cmd with its timeout and returns stdout followed by stderr.
func (ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	hideWindow(c)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	output := append(stdout.Bytes(), stderr.Bytes()...)
	if err != nil {
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return output, fmt.Errorf("%s timed out after %s", cmd.Name, timeout)
		}
		return output, handleExitError(cmd.Name, err, output)
	}
	return output, nil
}

// handleExitError wraps an exec error with contextual information.
// Restart-required exit codes mean the command itself succeeded.
func handleExitError(name string, err error, output []byte) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("%s: %w", name, err)
	}
	code := exitErr.ExitCode()
	switch code {
	case 1641, 3010:
		return nil
	case 740:
		return fmt.Errorf("%s requires elevation (exit code 740)", name)
	}
	outputStr := strings.TrimSpace(string(output))
	if len(outputStr) > 200 {
		// Truncate at a valid UTF-8 boundary.
		outputStr = outputStr[len(outputStr)-200:]
		for len(outputStr) > 0 && !utf8.ValidString(outputStr) {
			outputStr = outputStr[1:]
		}
		outputStr = "..." + outputStr
	}
	if outputStr != "" {
		return fmt.Errorf("%s failed (exit code %d): %s", name, code, outputStr)
	}
	return fmt.Errorf("%s failed (exit code %d)", name, code)
}

// outputLines splits captured output into trimmed, non-empty lines.
func outputLines(output []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
