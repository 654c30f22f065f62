package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

const blobSuffix = ".json"

// FirebasePostStore stores each post as a JSON object in a Firebase (Cloud
// Storage) bucket, named <prefix><slug>.json. Object listings are not
// guaranteed to include a just-written object.
type FirebasePostStore struct {
	bucket *storage.BucketHandle
	prefix string
}

// NewFirebasePostStore creates a FirebasePostStore over bucket. Object names
// are prefixed with prefix, e.g. "blog-posts/".
func NewFirebasePostStore(bucket *storage.BucketHandle, prefix string) *FirebasePostStore {
	return &FirebasePostStore{bucket: bucket, prefix: prefix}
}

func (s *FirebasePostStore) objectName(key string) string {
	return s.prefix + key + blobSuffix
}

func (s *FirebasePostStore) Get(ctx context.Context, key string) (*models.Post, error) {
	r, err := s.bucket.Object(s.objectName(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open blob %q: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read blob %q: %w", key, err)
	}
	return decodePost(key, data)
}

func (s *FirebasePostStore) Set(ctx context.Context, key string, post *models.Post) error {
	data, err := encodePost(post)
	if err != nil {
		return err
	}

	w := s.bucket.Object(s.objectName(key)).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write blob %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write blob %q: %w", key, err)
	}
	return nil
}

func (s *FirebasePostStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(s.objectName(key)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	return nil
}

func (s *FirebasePostStore) List(ctx context.Context) ([]string, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: s.prefix})
	var keys []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list blobs: %w", err)
		}
		name := strings.TrimPrefix(attrs.Name, s.prefix)
		if !strings.HasSuffix(name, blobSuffix) || strings.Contains(name, "/") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, blobSuffix))
	}
	return keys, nil
}

func (s *FirebasePostStore) Name() string {
	return "firebase_storage_persistent"
}

// Close is a no-op; the underlying client belongs to the Firebase app.
func (s *FirebasePostStore) Close(ctx context.Context) error {
	return nil
}
