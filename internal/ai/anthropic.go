package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// newAnthropic returns the Anthropic-backed provider, or the null
// provider when no API key is configured.
func newAnthropic(apiKey, model string) Provider {
	if apiKey == "" {
		return Unavailable("anthropic")
	}
	if model == "" {
		model = "claude-haiku-4-5-20251001"
	}
	api := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &client{
		name: "anthropic",
		gen: func(ctx context.Context, system, user string) (string, error) {
			msg, err := api.Messages.New(ctx, anthropic.MessageNewParams{
				Model:     anthropic.Model(model),
				MaxTokens: 1024,
				System: []anthropic.TextBlockParam{
					{Text: system},
				},
				Messages: []anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
				},
			})
			if err != nil {
				return "", fmt.Errorf("anthropic API call: %w", err)
			}
			for _, block := range msg.Content {
				if block.Type == "text" {
					return block.Text, nil
				}
			}
			return "", fmt.Errorf("no text content in API response")
		},
	}
}
