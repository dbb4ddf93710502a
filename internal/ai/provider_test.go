package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MissingCredentialDegradesToUnavailable(t *testing.T) {
	p := New(Config{Provider: "gemini"})
	assert.False(t, p.Available())

	_, err := p.BranchName(context.Background(), "add parser", "")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = p.CommitMessage(context.Background(), "diff")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNew_UnknownProvider(t *testing.T) {
	p := New(Config{Provider: "skynet"})
	assert.False(t, p.Available())
	assert.Equal(t, "skynet", p.Name())
}

func TestNew_AnthropicWithKeyIsAvailable(t *testing.T) {
	p := New(Config{Provider: "anthropic", AnthropicAPIKey: "sk-test"})
	assert.True(t, p.Available())
	assert.Equal(t, "anthropic", p.Name())
}

func TestSanitizeBranch(t *testing.T) {
	assert.Equal(t, "feat/add-parser", SanitizeBranch("feat/add-parser"))
	assert.Equal(t, "feat/add-parser", SanitizeBranch("Feat/Add Parser!"))
	assert.Equal(t, "fix/issue-42", SanitizeBranch("  fix/issue #42  "))
	assert.Equal(t, "", SanitizeBranch("!!!"))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "feat/x", stripFences("```\nfeat/x\n```"))
	assert.Equal(t, "feat/x", stripFences("```text\nfeat/x\n```"))
	assert.Equal(t, "plain", stripFences("plain"))
}

func TestGemini_BranchName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.SystemInstruction.Parts[0].Text, "branch")

		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{
				{Content: geminiContent{Parts: []geminiPart{{Text: "feat/Add Parser\n"}}}},
			},
		})
	}))
	defer srv.Close()

	p := newGemini("test-key", "", srv.URL)
	name, err := p.BranchName(context.Background(), "add parser", "diff --git a/x b/x")
	require.NoError(t, err)
	assert.Equal(t, "feat/add-parser", name)
}

func TestGemini_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := newGemini("test-key", "", srv.URL)
	_, err := p.CommitMessage(context.Background(), "diff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenRouter_CommitMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: "```\nfeat: add parser\n\nAdds the reflog parser.\n```"}},
			},
		})
	}))
	defer srv.Close()

	p := newOpenRouter("or-key", "test-model", srv.URL)
	msg, err := p.CommitMessage(context.Background(), "diff --git a/x b/x")
	require.NoError(t, err)
	assert.Equal(t, "feat: add parser\n\nAdds the reflog parser.", msg)
}

func TestOpenRouter_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer srv.Close()

	p := newOpenRouter("or-key", "", srv.URL)
	_, err := p.CommitMessage(context.Background(), "diff")
	assert.Error(t, err)
}

func TestTruncateDiff(t *testing.T) {
	small := "short diff"
	assert.Equal(t, small, truncateDiff(small))

	big := make([]byte, maxDiffBytes+100)
	for i := range big {
		big[i] = 'a'
	}
	out := truncateDiff(string(big))
	assert.Contains(t, out, "truncated")
	assert.Less(t, len(out), len(big)+50)
}
