// Package ai drafts branch names and commit messages using whichever
// provider the user configured. A provider with missing credentials
// degrades to "no suggestion" instead of failing the wizard.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable means the configured provider cannot be used (missing
// credential, missing binary). Callers fall back to manual entry.
var ErrUnavailable = errors.New("ai provider unavailable")

// Provider turns a diff or free-text title into git-ready text.
type Provider interface {
	Name() string
	Available() bool
	BranchName(ctx context.Context, hint, diff string) (string, error)
	CommitMessage(ctx context.Context, diff string) (string, error)
}

// Config selects and credentials a provider.
type Config struct {
	Provider string // anthropic, gemini, openrouter, copilot

	AnthropicAPIKey string
	AnthropicModel  string

	GeminiAPIKey string
	GeminiModel  string

	OpenRouterAPIKey string
	OpenRouterModel  string
}

// New returns the configured provider. An unknown or uncredentialed
// provider yields the unavailable null object, never an error.
func New(cfg Config) Provider {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		return newAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case "gemini":
		return newGemini(cfg.GeminiAPIKey, cfg.GeminiModel, "")
	case "openrouter":
		return newOpenRouter(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, "")
	case "copilot":
		return newCopilot()
	default:
		return Unavailable(cfg.Provider)
	}
}

// Unavailable returns the null provider for the given name.
func Unavailable(name string) Provider {
	if name == "" {
		name = "none"
	}
	return &unavailable{name: name}
}

type unavailable struct {
	name string
}

func (u *unavailable) Name() string    { return u.name }
func (u *unavailable) Available() bool { return false }

func (u *unavailable) BranchName(ctx context.Context, hint, diff string) (string, error) {
	return "", ErrUnavailable
}

func (u *unavailable) CommitMessage(ctx context.Context, diff string) (string, error) {
	return "", ErrUnavailable
}

// generateFunc is the single operation each backend implements.
type generateFunc func(ctx context.Context, system, user string) (string, error)

// client adapts a generateFunc into a Provider.
type client struct {
	name string
	gen  generateFunc
}

func (c *client) Name() string    { return c.name }
func (c *client) Available() bool { return true }

func (c *client) BranchName(ctx context.Context, hint, diff string) (string, error) {
	system, user := branchPrompt(hint, diff)
	out, err := c.gen(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("%s branch suggestion: %w", c.name, err)
	}
	name := SanitizeBranch(firstLine(stripFences(out)))
	if name == "" {
		return "", fmt.Errorf("%s returned no usable branch name", c.name)
	}
	return name, nil
}

func (c *client) CommitMessage(ctx context.Context, diff string) (string, error) {
	system, user := commitPrompt(diff)
	out, err := c.gen(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("%s commit message: %w", c.name, err)
	}
	msg := strings.TrimSpace(stripFences(out))
	if msg == "" {
		return "", fmt.Errorf("%s returned no usable commit message", c.name)
	}
	return msg, nil
}

const maxDiffBytes = 16 * 1024

func branchPrompt(hint, diff string) (system, user string) {
	system = `You name git branches. Return ONLY a branch name, no explanation.

Rules:
- Format: <type>/<short-kebab-case-slug>, where type is one of feat, fix, chore
- Lowercase letters, digits and hyphens only in the slug, max 40 characters
- Base the type and slug on what the change actually does`

	var sb strings.Builder
	if hint != "" {
		sb.WriteString("Task title: ")
		sb.WriteString(hint)
		sb.WriteString("\n\n")
	}
	if diff != "" {
		sb.WriteString("Staged diff:\n\n")
		sb.WriteString(truncateDiff(diff))
	}
	user = sb.String()
	return
}

func commitPrompt(diff string) (system, user string) {
	system = `You write git commit messages. Return ONLY the commit message, no explanation and no markdown fencing.

Rules:
- First line: conventional commit summary (type: summary), max 72 characters
- Optionally a blank line and a short body explaining the why
- Describe what the diff does, not what you did`

	user = "Write a commit message for this staged diff:\n\n" + truncateDiff(diff)
	return
}

func truncateDiff(diff string) string {
	if len(diff) <= maxDiffBytes {
		return diff
	}
	return diff[:maxDiffBytes] + "\n... (diff truncated)"
}

// stripFences removes markdown code fencing if the model added it anyway.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.SplitN(text, "\n", 2)
	if len(lines) > 1 {
		text = lines[1]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

// SanitizeBranch reduces arbitrary text to a safe branch name:
// lowercase, [a-z0-9/-] only, runs of other characters collapsed to a
// single hyphen.
func SanitizeBranch(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	var sb strings.Builder
	lastHyphen := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '/':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(sb.String(), "-/")
}
