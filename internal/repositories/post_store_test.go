package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

func newTestPost(slug string) *models.Post {
	now := models.NewTimestamp(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	return &models.Post{
		Slug:           slug,
		Title:          "Test post",
		Description:    "description",
		Content:        "some content here",
		ContentPreview: "some content here",
		Author:         "alice@lemmy.ml",
		Tags:           []string{"go", "test"},
		WordCount:      3,
		ReadTime:       1,
		Published:      true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// runPostStoreContract exercises the behaviour every PostStore backend shares.
func runPostStoreContract(t *testing.T, store PostStore) {
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		post := newTestPost("set-and-get-1")
		require.NoError(t, store.Set(ctx, post.Slug, post))

		got, err := store.Get(ctx, post.Slug)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, post.Title, got.Title)
		assert.Equal(t, post.Tags, got.Tags)
		assert.True(t, post.CreatedAt.Equal(got.CreatedAt.Time))
	})

	t.Run("Get missing key returns nil", func(t *testing.T) {
		got, err := store.Get(ctx, "does-not-exist")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		post := newTestPost("overwrite-1")
		require.NoError(t, store.Set(ctx, post.Slug, post))

		post.Title = "Second title"
		require.NoError(t, store.Set(ctx, post.Slug, post))

		got, err := store.Get(ctx, post.Slug)
		require.NoError(t, err)
		assert.Equal(t, "Second title", got.Title)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		post := newTestPost("delete-1")
		require.NoError(t, store.Set(ctx, post.Slug, post))

		assert.NoError(t, store.Delete(ctx, post.Slug))
		assert.NoError(t, store.Delete(ctx, post.Slug))

		got, err := store.Get(ctx, post.Slug)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "list-a", newTestPost("list-a")))
		require.NoError(t, store.Set(ctx, "list-b", newTestPost("list-b")))

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, "list-a")
		assert.Contains(t, keys, "list-b")
		assert.NotContains(t, keys, "delete-1")
	})
}
