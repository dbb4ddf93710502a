package ai

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// newCopilot returns the Copilot CLI provider. Availability is whether
// the copilot binary is on PATH; there is no credential to check from
// here (the CLI manages its own auth).
func newCopilot() Provider {
	if _, err := exec.LookPath("copilot"); err != nil {
		return Unavailable("copilot")
	}
	return &client{
		name: "copilot",
		gen: func(ctx context.Context, system, user string) (string, error) {
			prompt := system + "\n\n" + user
			cmd := exec.CommandContext(ctx, "copilot", "-p", prompt)
			out, err := cmd.Output()
			if err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					return "", fmt.Errorf("copilot CLI: %s", strings.TrimSpace(string(exitErr.Stderr)))
				}
				return "", fmt.Errorf("copilot CLI: %w", err)
			}
			return strings.TrimSpace(string(out)), nil
		},
	}
}
