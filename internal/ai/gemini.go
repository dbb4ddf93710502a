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

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type geminiRequest struct {
	SystemInstruction geminiContent   `json:"system_instruction"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// newGemini returns the Gemini REST provider. baseURL overrides the
// API host for tests; empty means the real endpoint.
func newGemini(apiKey, model, baseURL string) Provider {
	if apiKey == "" {
		return Unavailable("gemini")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if baseURL == "" {
		baseURL = geminiBaseURL
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}
	return &client{
		name: "gemini",
		gen: func(ctx context.Context, system, user string) (string, error) {
			reqBody := geminiRequest{
				SystemInstruction: geminiContent{Parts: []geminiPart{{Text: system}}},
				Contents: []geminiContent{
					{Role: "user", Parts: []geminiPart{{Text: user}}},
				},
			}
			payload, err := json.Marshal(reqBody)
			if err != nil {
				return "", fmt.Errorf("encode request: %w", err)
			}

			url := fmt.Sprintf("%s/models/%s:generateContent", baseURL, model)
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
			if err != nil {
				return "", err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("x-goog-api-key", apiKey)

			resp, err := httpClient.Do(req)
			if err != nil {
				return "", fmt.Errorf("gemini API call: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return "", err
			}
			if resp.StatusCode != http.StatusOK {
				return "", fmt.Errorf("gemini API status %d: %s", resp.StatusCode, snippet(body))
			}

			var out geminiResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return "", fmt.Errorf("parse gemini response: %w", err)
			}
			if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
				return "", fmt.Errorf("no candidates in gemini response")
			}
			return out.Candidates[0].Content.Parts[0].Text, nil
		},
	}
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
