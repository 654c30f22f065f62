// Package services implements the blog's post operations on top of a
// repositories.PostStore.
//
// Every mutation is a read followed by a full overwrite of the stored post.
// The store offers no compare-and-swap, so two concurrent updates of the same
// slug resolve as last-writer-wins; UpdatePostRequest.ExpectedUpdatedAt lets
// a caller detect a write that happened since it read the post, but does not
// close the window between that check and the write.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"golang.org/x/sync/errgroup"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
	"github.com/anonto42/lemmy-blog/backend/internal/repositories"
	"github.com/anonto42/lemmy-blog/backend/pkg/content"
)

const (
	// MaxPageSize caps the limit of a listing page.
	MaxPageSize = 50
	// DefaultPageSize is used when a listing asks for no limit.
	DefaultPageSize = 10

	defaultFetchConcurrency = 16
)

// Mirror publishes a copy of a newly created post somewhere else, such as a
// git repository. Mirroring is best-effort.
type Mirror interface {
	MirrorPost(ctx context.Context, post *models.Post) error
}

// PostService creates, lists, fetches, updates and deletes posts.
type PostService struct {
	store            repositories.PostStore
	mirror           Mirror
	validate         *validator.Validate
	now              func() time.Time
	fetchConcurrency int
}

// Option configures a PostService.
type Option func(*PostService)

// WithMirror mirrors every created post through m.
func WithMirror(m Mirror) Option {
	return func(s *PostService) { s.mirror = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *PostService) { s.now = now }
}

// WithFetchConcurrency bounds how many posts a listing fetches at once.
func WithFetchConcurrency(n int) Option {
	return func(s *PostService) {
		if n > 0 {
			s.fetchConcurrency = n
		}
	}
}

// NewPostService creates a PostService backed by store.
func NewPostService(store repositories.PostStore, opts ...Option) *PostService {
	validate := validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	s := &PostService{
		store:            store,
		validate:         validate,
		now:              time.Now,
		fetchConcurrency: defaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StorageType names the active backend.
func (s *PostService) StorageType() string {
	return s.store.Name()
}

// CreateResult is the outcome of Create.
type CreateResult struct {
	Post     *models.Post
	Mirrored bool
}

type createInput struct {
	Title   string `json:"title" validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
}

// Create stores a new post authored by author. The slug is derived from the
// title and the creation time and is returned exactly as stored.
func (s *PostService) Create(ctx context.Context, req *models.CreatePostRequest, author models.Identity) (*CreateResult, error) {
	if err := s.validate.Struct(createInput{Title: req.Title, Content: req.Content}); err != nil {
		return nil, toValidationError(err, "Title and content are required")
	}

	now := s.now()
	derived := content.Derive(req.Content)
	tags := []string(req.Tags)
	if tags == nil {
		tags = []string{}
	}
	post := &models.Post{
		Slug:           content.UniqueSlug(req.Title, now),
		Title:          req.Title,
		Description:    req.Description,
		Content:        req.Content,
		ContentPreview: derived.ContentPreview,
		Author:         author.String(),
		Tags:           tags,
		WordCount:      derived.WordCount,
		ReadTime:       derived.ReadTime,
		Draft:          req.IsDraft,
		Published:      !req.IsDraft,
		CreatedAt:      models.NewTimestamp(now),
		UpdatedAt:      models.NewTimestamp(now),
	}

	if err := s.store.Set(ctx, post.Slug, post); err != nil {
		return nil, backendError("set", err)
	}
	log.Printf("Post %s saved to %s by %s", post.Slug, s.store.Name(), post.Author)

	result := &CreateResult{Post: post}
	if s.mirror != nil {
		if err := s.mirror.MirrorPost(ctx, post); err != nil {
			log.Printf("Mirroring post %s failed: %v", post.Slug, err)
		} else {
			result.Mirrored = true
		}
	}
	return result, nil
}

// ListFilter narrows a listing. Empty fields do not filter.
type ListFilter struct {
	Search string
	Tag    string
	Author string
}

func (f ListFilter) matches(post *models.Post) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Description), needle) &&
			!strings.Contains(strings.ToLower(post.Content), needle) {
			return false
		}
	}
	if f.Tag != "" && !hasTag(post.Tags, f.Tag) {
		return false
	}
	if f.Author != "" && post.Author != f.Author {
		return false
	}
	return true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// List returns one page of published posts matching filter. Drafts are never
// listed, whoever asks. A post written moments ago may be missing if the
// backend's listing lags its writes.
func (s *PostService) List(ctx context.Context, filter ListFilter, page, limit int) (*models.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	all, stored, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Post, 0, len(all))
	for _, post := range all {
		if !post.Draft && filter.matches(post) {
			filtered = append(filtered, post)
		}
	}
	sortForListing(filtered)

	total := len(filtered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &models.PostPage{
		Posts: filtered[start:end],
		Pagination: models.Pagination{
			CurrentPage: page,
			PerPage:     limit,
			TotalPosts:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			HasNext:     end < total,
			HasPrev:     page > 1,
		},
		Filters: models.ListFilters{
			Search: optional(filter.Search),
			Tag:    optional(filter.Tag),
			Author: optional(filter.Author),
		},
		Meta: models.ListMeta{
			TotalStoredPosts: stored,
			StorageType:      s.store.Name(),
		},
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// sortForListing orders featured posts first, then newest first. Posts
// without a usable created_at sort as the oldest.
func sortForListing(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if !a.CreatedAt.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.After(b.CreatedAt.Time)
		}
		return a.Slug < b.Slug
	})
}

// loadAll fetches every stored post. A key that cannot be fetched or decoded
// is logged and skipped. It also returns the number of stored keys.
func (s *PostService) loadAll(ctx context.Context) ([]*models.Post, int, error) {
	keys, err := s.store.List(ctx)
	if err != nil {
		return nil, 0, backendError("list", err)
	}

	fetched := make([]*models.Post, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			post, err := s.store.Get(gctx, key)
			if err != nil {
				log.Printf("Error fetching post %s: %v", key, err)
				return nil
			}
			fetched[i] = post
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	posts := make([]*models.Post, 0, len(fetched))
	for _, post := range fetched {
		if post != nil {
			posts = append(posts, post)
		}
	}
	return posts, len(keys), nil
}

// GetBySlug returns the post stored under slug. A draft is only returned to
// its author; anyone else gets ErrNotFound. viewer may be nil.
func (s *PostService) GetBySlug(ctx context.Context, slug string, viewer *models.Identity) (*models.Post, error) {
	post, err := s.get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Draft && (viewer == nil || viewer.String() != post.Author) {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *PostService) get(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.store.Get(ctx, slug)
	if err != nil {
		return nil, backendError("get", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// getOwned fetches slug and checks that caller wrote it.
func (s *PostService) getOwned(ctx context.Context, slug string, caller models.Identity) (*models.Post, error) {
	post, err := s.get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Author != caller.String() {
		return nil, ErrForbidden
	}
	return post, nil
}

// Update applies the fields present in req to the post under slug. Only the
// post's author may update it. Changing the content recomputes word count,
// read time and preview together.
func (s *PostService) Update(ctx context.Context, slug string, req *models.UpdatePostRequest, caller models.Identity) (*models.Post, error) {
	post, err := s.getOwned(ctx, slug, caller)
	if err != nil {
		return nil, err
	}
	if req.ExpectedUpdatedAt != nil && !req.ExpectedUpdatedAt.Equal(post.UpdatedAt.Time) {
		return nil, ErrConflict
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		post.Title = *req.Title
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) != "" && *req.Content != post.Content {
		post.Content = *req.Content
		derived := content.Derive(post.Content)
		post.WordCount = derived.WordCount
		post.ReadTime = derived.ReadTime
		post.ContentPreview = derived.ContentPreview
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Tags != nil {
		post.Tags = []string(*req.Tags)
		if post.Tags == nil {
			post.Tags = []string{}
		}
	}
	if req.IsDraft != nil {
		post.Draft = *req.IsDraft
	}
	post.Published = !post.Draft
	post.UpdatedAt = models.NewTimestamp(s.now())

	if err := s.store.Set(ctx, slug, post); err != nil {
		return nil, backendError("set", err)
	}
	log.Printf("Post %s updated in %s", slug, s.store.Name())
	return post, nil
}

// Delete removes the post under slug. Only the post's author may delete it.
func (s *PostService) Delete(ctx context.Context, slug string, caller models.Identity) error {
	if _, err := s.getOwned(ctx, slug, caller); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, slug); err != nil {
		return backendError("delete", err)
	}
	log.Printf("Post %s deleted from %s", slug, s.store.Name())
	return nil
}

// ListByAuthor returns every post written by caller, drafts included, newest
// first, with summary statistics.
func (s *PostService) ListByAuthor(ctx context.Context, caller models.Identity) (*models.AuthorPosts, error) {
	all, _, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	author := caller.String()
	posts := make([]*models.Post, 0)
	for _, post := range all {
		if post.Author == author {
			posts = append(posts, post)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt.Time)
	})

	return &models.AuthorPosts{Posts: posts, Stats: authorStats(posts)}, nil
}

func authorStats(posts []*models.Post) models.AuthorStats {
	stats := models.AuthorStats{TotalPosts: len(posts), MostUsedTags: []string{}}
	if len(posts) == 0 {
		return stats
	}

	readTime := 0
	tagCounts := make(map[string]int)
	var tagOrder []string
	for _, post := range posts {
		if post.Draft {
			stats.DraftPosts++
		} else {
			stats.PublishedPosts++
		}
		stats.TotalWords += post.WordCount
		readTime += post.ReadTime
		for _, tag := range post.Tags {
			if tagCounts[tag] == 0 {
				tagOrder = append(tagOrder, tag)
			}
			tagCounts[tag]++
		}
	}
	stats.AvgReadTime = math.Round(float64(readTime)/float64(len(posts))*10) / 10

	sort.SliceStable(tagOrder, func(i, j int) bool {
		return tagCounts[tagOrder[i]] > tagCounts[tagOrder[j]]
	})
	if len(tagOrder) > 5 {
		tagOrder = tagOrder[:5]
	}
	stats.MostUsedTags = tagOrder

	latest := posts[0].CreatedAt
	stats.LatestPostDate = &latest
	return stats
}

func toValidationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Message: fmt.Sprintf("%s: %v", message, err)}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields, Message: message}
}
