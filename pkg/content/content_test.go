package content

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Go: Tips & Tricks!  ", "go-tips-tricks"},
		{"multiple   spaces--here", "multiple-spaces-here"},
		{"-leading and trailing-", "leading-and-trailing"},
		{"snake_case stays", "snake_case-stays"},
		{"Émigré café", "migr-caf"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GenerateSlug(tc.title), "title %q", tc.title)
	}
}

func TestUniqueSlug(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "hello-world-1700000000123", UniqueSlug("Hello World", now))
	assert.NotEqual(t, UniqueSlug("Hello World", now), UniqueSlug("Hello World", now.Add(time.Millisecond)))
}

func TestDerive(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		d := Derive("")
		assert.Equal(t, 0, d.WordCount)
		assert.Equal(t, 0, d.ReadTime)
		assert.Equal(t, "", d.ContentPreview)
	})

	t.Run("whitespace only", func(t *testing.T) {
		d := Derive(" \n\t ")
		assert.Equal(t, 0, d.WordCount)
		assert.Equal(t, 0, d.ReadTime)
	})

	t.Run("250 words", func(t *testing.T) {
		body := strings.TrimSpace(strings.Repeat("word ", 250))
		d := Derive(body)
		assert.Equal(t, 250, d.WordCount)
		assert.Equal(t, 2, d.ReadTime)
		assert.Equal(t, body[:PreviewLength]+PreviewEllipsis, d.ContentPreview)
	})

	t.Run("exactly 200 words", func(t *testing.T) {
		d := Derive(strings.Repeat("a ", 200))
		assert.Equal(t, 200, d.WordCount)
		assert.Equal(t, 1, d.ReadTime)
	})
}

func TestPreview(t *testing.T) {
	short := strings.Repeat("x", PreviewLength)
	assert.Equal(t, short, Preview(short))

	long := strings.Repeat("y", PreviewLength+1)
	assert.Equal(t, strings.Repeat("y", PreviewLength)+"...", Preview(long))

	multibyte := strings.Repeat("ж", PreviewLength+5)
	assert.Equal(t, strings.Repeat("ж", PreviewLength)+"...", Preview(multibyte))
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"go", "web", "go"}, ParseTags(" go, web ,,go "))
	assert.Empty(t, ParseTags(""))
	assert.Equal(t, []string{"a", "b"}, NormalizeTags([]string{" a", "", "b "}))
}

func TestRenderMarkdown(t *testing.T) {
	created := time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC)
	fm := NewFrontmatter("It's: quoted", "desc", "alice@lemmy.ml", []string{"go", "blog"}, true, created)

	doc, err := RenderMarkdown(fm, "# Title\n\nBody")
	require.NoError(t, err)

	text := string(doc)
	require.True(t, strings.HasPrefix(text, "---\n"))
	end := strings.Index(text[4:], "\n---\n")
	require.Greater(t, end, 0)

	var decoded Frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(text[4:4+end+1]), &decoded))
	assert.Equal(t, fm, decoded)
	assert.Equal(t, "2025-03-09", decoded.Date)
	assert.True(t, strings.HasSuffix(text, "---\n\n# Title\n\nBody\n"))
}

func TestNewFrontmatterNilTags(t *testing.T) {
	fm := NewFrontmatter("t", "", "a@b", nil, false, time.Now())
	assert.NotNil(t, fm.Tags)
	assert.Equal(t, "Post", fm.Type)
}
