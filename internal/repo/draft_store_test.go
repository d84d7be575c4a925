package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "recipe:draft:abc", draftKey("abc"))
}

func TestNewDraftStore_BadURL(t *testing.T) {
	_, err := NewDraftStore(context.Background(), "://nope", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

// Runs only against a real Redis: REDIS_TEST_URL=redis://localhost:6379/15
func TestDraftStore_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	s, err := NewDraftStore(ctx, url, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	id, err := s.Save(ctx, domain.GeneratedRecipe{Title: "Tarte", Servings: 2})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tarte", got.Title)
	assert.Equal(t, id, got.DraftID)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
