package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

// MemoryPostStore keeps posts in a process-local map. It is volatile: its
// contents are lost when the process exits. Values are stored encoded so
// callers never share a *models.Post with the store.
type MemoryPostStore struct {
	mu    sync.RWMutex
	posts map[string][]byte
}

// NewMemoryPostStore creates an empty MemoryPostStore
func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{posts: make(map[string][]byte)}
}

func (s *MemoryPostStore) Get(ctx context.Context, key string) (*models.Post, error) {
	s.mu.RLock()
	data, ok := s.posts[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodePost(key, data)
}

func (s *MemoryPostStore) Set(ctx context.Context, key string, post *models.Post) error {
	data, err := encodePost(post)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[key] = data
	return nil
}

func (s *MemoryPostStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, key)
	return nil
}

// List returns the keys in lexical order.
func (s *MemoryPostStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.posts))
	for key := range s.posts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryPostStore) Name() string {
	return "in_memory_temporary"
}

// Close drops every stored post.
func (s *MemoryPostStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = make(map[string][]byte)
	return nil
}
