package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/geetocli/geeto/pulls", r.URL.Path)
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "feat: add parser", req["title"])
		assert.Equal(t, "feat/add-parser", req["head"])
		assert.Equal(t, "development", req["base"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"number":   12,
			"title":    req["title"],
			"state":    "open",
			"html_url": "https://github.com/geetocli/geeto/pull/12",
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("ghp_test", srv.URL)
	pr, err := c.CreatePull(context.Background(), "geetocli", "geeto", "feat: add parser", "feat/add-parser", "development", "")
	require.NoError(t, err)
	assert.Equal(t, 12, pr.Number)
	assert.Equal(t, "open", pr.State)
	assert.Contains(t, pr.URL, "/pull/12")
}

func TestListPulls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/geetocli/geeto/pulls", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		json.NewEncoder(w).Encode([]map[string]any{
			{"number": 1, "title": "first", "head": map[string]string{"ref": "feat/a"}},
			{"number": 2, "title": "second", "head": map[string]string{"ref": "feat/b"}},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("ghp_test", srv.URL)
	prs, err := c.ListPulls(context.Background(), "geetocli", "geeto")
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, "feat/a", prs[0].Head.Ref)
}

func TestListLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/geetocli/geeto/labels", r.URL.Path)
		json.NewEncoder(w).Encode([]Label{{Name: "bug", Color: "d73a4a"}})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("ghp_test", srv.URL)
	labels, err := c.ListLabels(context.Background(), "geetocli", "geeto")
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "bug", labels[0].Name)
}

func TestNon2xxSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Validation Failed"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("ghp_test", srv.URL)
	_, err := c.CreatePull(context.Background(), "o", "r", "t", "h", "b", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "Validation Failed")
}
