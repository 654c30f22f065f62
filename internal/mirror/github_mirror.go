// Package mirror commits newly created posts to a GitHub repository as
// markdown files with a YAML frontmatter header.
package mirror

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
	"github.com/anonto42/lemmy-blog/backend/pkg/content"
)

// DefaultPostsDir is the repository directory posts are committed to.
const DefaultPostsDir = "posts"

const commitTimeout = 15 * time.Second

// GitHubMirror writes posts through the GitHub contents API.
type GitHubMirror struct {
	client *github.Client
	owner  string
	repo   string
	dir    string
}

// NewGitHubMirror returns a mirror committing to repoSlug ("owner/name")
// with token. dir defaults to DefaultPostsDir.
func NewGitHubMirror(token, repoSlug, dir string) (*GitHubMirror, error) {
	return newGitHubMirror(github.NewClient(nil).WithAuthToken(token), repoSlug, dir)
}

func newGitHubMirror(client *github.Client, repoSlug, dir string) (*GitHubMirror, error) {
	owner, repo, ok := strings.Cut(repoSlug, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("invalid GitHub repository %q, expected owner/name", repoSlug)
	}
	dir = strings.Trim(dir, "/")
	if dir == "" {
		dir = DefaultPostsDir
	}
	return &GitHubMirror{client: client, owner: owner, repo: repo, dir: dir}, nil
}

// Path returns the repository path a post is committed to.
func (m *GitHubMirror) Path(post *models.Post) string {
	return path.Join(m.dir, post.Slug+".mdx")
}

// MirrorPost commits post as a new file. The commit is attributed to the
// post's author.
func (m *GitHubMirror) MirrorPost(ctx context.Context, post *models.Post) error {
	fm := content.NewFrontmatter(post.Title, post.Description, post.Author, post.Tags, post.Draft, post.CreatedAt.Time)
	body, err := content.RenderMarkdown(fm, post.Content)
	if err != nil {
		return err
	}

	username, _, _ := strings.Cut(post.Author, "@")
	opts := &github.RepositoryContentFileOptions{
		Message: github.String("Add new blog post: " + post.Title),
		Content: body,
		Author: &github.CommitAuthor{
			Name:  github.String(username),
			Email: github.String(post.Author),
		},
	}

	ctx, cancel := context.WithTimeout(ctx, commitTimeout)
	defer cancel()
	if _, _, err := m.client.Repositories.CreateFile(ctx, m.owner, m.repo, m.Path(post), opts); err != nil {
		return fmt.Errorf("commit %s to %s/%s: %w", m.Path(post), m.owner, m.repo, err)
	}
	return nil
}
