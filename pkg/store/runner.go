package store

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
)

// Runner executes a JXA script and returns its stdout. The DEVONthink
// backend takes a Runner so tests can substitute canned script output for
// an osascript invocation.
type Runner interface {
	Run(ctx context.Context, script string, args ...string) ([]byte, error)
}

// execRunner shells out to osascript.
type execRunner struct{}

// Run implements the Runner interface for execRunner.
func (execRunner) Run(ctx context.Context, script string, args ...string) ([]byte, error) {
	cmdArgs := append([]string{"-l", "JavaScript", "-e", script, "--"}, args...)
	cmd := exec.CommandContext(ctx, "osascript", cmdArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &errors.ProcessError{
			Operation: "run JXA script",
			Command:   "osascript",
			Output:    stderr.String(),
			Err:       err,
		}
	}
	return stdout.Bytes(), nil
}

// checkOsascript verifies the osascript binary is on PATH.
func checkOsascript() error {
	if _, err := exec.LookPath("osascript"); err != nil {
		return &errors.DependencyError{
			Dependency: "osascript",
			Message:    "DEVONthink backend requires macOS scripting support",
		}
	}
	return nil
}
