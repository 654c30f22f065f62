package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

// PostStore is a key/value store of posts keyed by slug.
//
// Implementations give no multi-key atomicity and no compare-and-swap: Set
// always overwrites, so concurrent writers to one key resolve as
// last-writer-wins. Whether List reflects a just-completed Set depends on the
// backend.
type PostStore interface {
	// Get returns the post stored under key, or (nil, nil) when there is none.
	Get(ctx context.Context, key string) (*models.Post, error)
	// Set stores post under key, replacing any previous value.
	Set(ctx context.Context, key string, post *models.Post) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every stored key.
	List(ctx context.Context) ([]string, error)
	// Name identifies the backend, e.g. in API responses.
	Name() string
	Close(ctx context.Context) error
}

func encodePost(post *models.Post) ([]byte, error) {
	data, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("encode post %q: %w", post.Slug, err)
	}
	return data, nil
}

func decodePost(key string, data []byte) (*models.Post, error) {
	var post models.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("decode post %q: %w", key, err)
	}
	return &post, nil
}
