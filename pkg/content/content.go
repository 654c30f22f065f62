// Package content derives the computed fields of a post from its raw input:
// slugs, word count, read time and preview.
package content

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// WordsPerMinute is the reading speed used for read time estimates.
	WordsPerMinute = 200
	// PreviewLength is the number of characters kept in a content preview.
	PreviewLength = 200
	// PreviewEllipsis is appended to a truncated preview.
	PreviewEllipsis = "..."
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug lower-cases title, strips everything except word characters,
// whitespace and hyphens, and joins words with single hyphens. The result is
// not unique on its own.
func GenerateSlug(title string) string {
	s := strings.ToLower(title)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlug appends the Unix millisecond timestamp of now to the slug of title.
func UniqueSlug(title string, now time.Time) string {
	return GenerateSlug(title) + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Derived holds the fields computed from a post's content. They are always
// recomputed together.
type Derived struct {
	WordCount      int
	ReadTime       int
	ContentPreview string
}

// Derive computes word count, read time and preview for content.
func Derive(content string) Derived {
	words := len(strings.Fields(content))
	return Derived{
		WordCount:      words,
		ReadTime:       int(math.Ceil(float64(words) / WordsPerMinute)),
		ContentPreview: Preview(content),
	}
}

// Preview returns the first PreviewLength characters of content, followed by
// an ellipsis when content was longer.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewLength {
		return content
	}
	return string([]rune(content)[:PreviewLength]) + PreviewEllipsis
}

// ParseTags splits a comma-separated tag string, trimming entries and
// dropping empty ones.
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

// NormalizeTags trims every tag and drops empty ones, preserving order.
// Duplicates are kept.
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
