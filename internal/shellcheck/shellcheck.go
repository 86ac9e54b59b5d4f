// Package shellcheck wraps the external shellcheck binary used to vet the
// shell fragments embedded in SBUILD descriptors.
package shellcheck

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Checker invokes shellcheck over stdin. The zero value is not usable;
// construct with New so the binary is resolved once.
type Checker struct {
	path string
}

// New locates the shellcheck binary on PATH.
func New() (*Checker, error) {
	p, err := exec.LookPath("shellcheck")
	if err != nil {
		return nil, fmt.Errorf("shellcheck not found: %w", err)
	}
	return &Checker{path: p}, nil
}

// Check feeds script to shellcheck for the given shell dialect. A non-nil
// error means findings were reported (or the tool itself failed); the
// combined output carries shellcheck's own report either way.
func (c *Checker) Check(ctx context.Context, shell, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.path, "--shell", shell, "--severity", "error", "-")
	cmd.Stdin = strings.NewReader(script)
	return cmd.CombinedOutput()
}
