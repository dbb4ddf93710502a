package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// newOpenRouter returns the OpenRouter REST provider. baseURL overrides
// the API host for tests; empty means the real endpoint.
func newOpenRouter(apiKey, model, baseURL string) Provider {
	if apiKey == "" {
		return Unavailable("openrouter")
	}
	if model == "" {
		model = "openrouter/auto"
	}
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}
	return &client{
		name: "openrouter",
		gen: func(ctx context.Context, system, user string) (string, error) {
			payload, err := json.Marshal(chatRequest{
				Model: model,
				Messages: []chatMessage{
					{Role: "system", Content: system},
					{Role: "user", Content: user},
				},
			})
			if err != nil {
				return "", fmt.Errorf("encode request: %w", err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(payload))
			if err != nil {
				return "", err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+apiKey)

			resp, err := httpClient.Do(req)
			if err != nil {
				return "", fmt.Errorf("openrouter API call: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return "", err
			}
			if resp.StatusCode != http.StatusOK {
				return "", fmt.Errorf("openrouter API status %d: %s", resp.StatusCode, snippet(body))
			}

			var out chatResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return "", fmt.Errorf("parse openrouter response: %w", err)
			}
			if len(out.Choices) == 0 {
				return "", fmt.Errorf("no choices in openrouter response")
			}
			return out.Choices[0].Message.Content, nil
		},
	}
}
