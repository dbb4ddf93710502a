package wizard

import (
	"context"
	"fmt"
)

// RetryPush pushes branch to origin with a bounded number of attempts.
// Used only for the push-after-merge path; the regular push step makes
// exactly one attempt.
func (e *Engine) RetryPush(ctx context.Context, branch string, attempts int) error {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		err := e.Prompt.Spin(ctx, fmt.Sprintf("Pushing %s (attempt %d/%d)", branch, i, attempts), func() error {
			_, err := e.git("push", "origin", branch)
			return err
		})
		if err == nil {
			return nil
		}
		lastErr = err
		e.UI.Warning("Push attempt %d/%d failed: %v", i, attempts, err)
	}
	return fmt.Errorf("push %s to origin failed after %d attempts: %w", branch, attempts, lastErr)
}
