// Package probe runs the external tools the scanner consults: git for
// repository introspection, Spotlight for application usage, du/fd for fast
// size accounting. Every invocation carries an explicit timeout and callers
// are expected to substitute a safe default on any error.
package probe

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

// Default timeouts for external queries.
const (
	GitTimeout      = 10 * time.Second
	MetadataTimeout = 5 * time.Second
	SizeTimeout     = 60 * time.Second
)

// ErrTimeout is returned when an external command exceeds its deadline.
var ErrTimeout = errors.New("command timed out")

// Runner executes an external command and returns its standard output.
type Runner interface {
	Output(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output runs name with args, bounded by timeout, and returns stdout.
func (ExecRunner) Output(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	// Children that inherit stdout must not hold Output open past the deadline.
	cmd.WaitDelay = time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return out, fmt.Errorf("%s: %w after %s", name, ErrTimeout, timeout)
		}
		return out, handleExitError(name, err, stderr.Bytes())
	}
	return out, nil
}

// handleExitError wraps an exec error with the exit code and a truncated
// excerpt of stderr.
func handleExitError(name string, err error, stderr []byte) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		msg := strings.TrimSpace(string(stderr))
		if len(msg) > 200 {
			// Truncate at a valid UTF-8 boundary.
			msg = msg[:200]
			for len(msg) > 0 && !utf8.ValidString(msg) {
				msg = msg[:len(msg)-1]
			}
			msg += "..."
		}
		if msg != "" {
			return fmt.Errorf("%s failed (exit code %d): %s", name, code, msg)
		}
		return fmt.Errorf("%s failed (exit code %d)", name, code)
	}
	return fmt.Errorf("%s: %w", name, err)
}
