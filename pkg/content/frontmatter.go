package content

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header block of a mirrored markdown post.
type Frontmatter struct {
	Type        string   `yaml:"type"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
}

// NewFrontmatter builds a post header dated on the calendar day of created.
func NewFrontmatter(title, description, author string, tags []string, draft bool, created time.Time) Frontmatter {
	if tags == nil {
		tags = []string{}
	}
	return Frontmatter{
		Type:        "Post",
		Title:       title,
		Description: description,
		Date:        created.UTC().Format(time.DateOnly),
		Author:      author,
		Tags:        tags,
		Draft:       draft,
	}
}

// RenderMarkdown returns body prefixed by fm as a "---" delimited YAML block.
func RenderMarkdown(fm Frontmatter, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
