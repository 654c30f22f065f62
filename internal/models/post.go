package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/anonto42/lemmy-blog/backend/pkg/content"
)

// Post represents a blog post as persisted in a PostStore. Every backend
// stores the JSON encoding of this struct under the post's slug.
type Post struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Content        string    `json:"content"`
	ContentPreview string    `json:"content_preview"`
	Author         string    `json:"author"` // username@instance of the creator, never changes
	Tags           []string  `json:"tags"`
	WordCount      int       `json:"word_count"`
	ReadTime       int       `json:"read_time"`
	Draft          bool      `json:"draft"`
	Published      bool      `json:"published"`
	Featured       bool      `json:"featured,omitempty"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}

// Status returns "draft" or "published".
func (p *Post) Status() string {
	if p.Draft {
		return "draft"
	}
	return "published"
}

// Timestamp is an ISO-8601 instant that decodes leniently: a missing or
// unparseable value yields the zero time instead of failing the record.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// NewTimestamp wraps t, normalised to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// MarshalJSON encodes the zero time as null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return nil
}

// TagList accepts either a JSON array of strings or a single
// comma-separated string. Entries are trimmed and empty entries dropped.
type TagList []string

func (l *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var raw []string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*l = content.NormalizeTags(raw)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = content.ParseTags(s)
	return nil
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Description string  `json:"description"`
	Tags        TagList `json:"tags"`
	IsDraft     bool    `json:"isDraft"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Absent fields are left unchanged.
type UpdatePostRequest struct {
	Title             *string    `json:"title,omitempty"`
	Content           *string    `json:"content,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Tags              *TagList   `json:"tags,omitempty"`
	IsDraft           *bool      `json:"isDraft,omitempty"`
	ExpectedUpdatedAt *Timestamp `json:"expected_updated_at,omitempty"`
}

// ListPostsQuery is the public listing query string. Page and limit are
// clamped by the service rather than rejected.
type ListPostsQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search" validate:"max=200"`
	Tag    string `query:"tag" validate:"max=100"`
	Author string `query:"author" validate:"max=200"`
}

// Pagination describes where a page sits within the filtered result set.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	TotalPosts  int  `json:"total_posts"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

// ListFilters echoes the filters applied to a listing; empty filters are null.
type ListFilters struct {
	Search *string `json:"search"`
	Tag    *string `json:"tag"`
	Author *string `json:"author"`
}

// ListMeta carries storage information for a listing.
type ListMeta struct {
	TotalStoredPosts int    `json:"total_stored_posts"`
	StorageType      string `json:"storage_type"`
}

// PostPage is one page of the public post listing.
type PostPage struct {
	Posts      []*Post     `json:"posts"`
	Pagination Pagination  `json:"pagination"`
	Filters    ListFilters `json:"filters"`
	Meta       ListMeta    `json:"meta"`
}

// AuthorStats summarises an author's own posts, drafts included.
type AuthorStats struct {
	TotalPosts     int        `json:"total_posts"`
	PublishedPosts int        `json:"published_posts"`
	DraftPosts     int        `json:"draft_posts"`
	TotalWords     int        `json:"total_words"`
	AvgReadTime    float64    `json:"avg_read_time"`
	MostUsedTags   []string   `json:"most_used_tags"`
	LatestPostDate *Timestamp `json:"latest_post_date"`
}

// AuthorPosts is the response for an author's own post listing.
type AuthorPosts struct {
	Posts []*Post     `json:"posts"`
	Stats AuthorStats `json:"stats"`
}
