// Package shell provides a CommandRunner backed by os/exec.
package shell

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// Ensure Runner implements the interface.
var _ driven.CommandRunner = (*Runner)(nil)

// Runner executes external commands on the local machine.
type Runner struct{}

// New creates a new shell command runner.
func New() *Runner {
	return &Runner{}
}

// Run executes the command and returns its combined stdout. Stderr is
// folded into the error so callers can surface tool diagnostics.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return output, nil
}
