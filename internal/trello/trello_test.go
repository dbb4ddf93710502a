package trello

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLists_AuthParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boards/b1/lists", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		json.NewEncoder(w).Encode([]List{
			{ID: "l1", Name: "To Do"},
			{ID: "l2", Name: "Doing"},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "tok", srv.URL)
	lists, err := c.Lists(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "To Do", lists[0].Name)
}

func TestCreateCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cards", r.URL.Path)
		assert.Equal(t, "l1", r.URL.Query().Get("idList"))
		assert.Equal(t, "feat/add-parser", r.URL.Query().Get("name"))
		json.NewEncoder(w).Encode(Card{ID: "c1", Name: "feat/add-parser", ListID: "l1"})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "tok", srv.URL)
	card, err := c.CreateCard(context.Background(), "l1", "feat/add-parser", "")
	require.NoError(t, err)
	assert.Equal(t, "c1", card.ID)
}

func TestMoveCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cards/c1", r.URL.Path)
		assert.Equal(t, "l2", r.URL.Query().Get("idList"))
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "tok", srv.URL)
	assert.NoError(t, c.MoveCard(context.Background(), "c1", "l2"))
}

func TestNon2xxSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "bad", srv.URL)
	_, err := c.Cards(context.Background(), "l1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFindList(t *testing.T) {
	lists := []List{{ID: "l1", Name: "To Do"}, {ID: "l2", Name: "Done"}}
	assert.Equal(t, "l2", FindList(lists, "done").ID)
	assert.Nil(t, FindList(lists, "missing"))
}
