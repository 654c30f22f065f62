package services

import (
	"context"
	"log"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
	"github.com/anonto42/lemmy-blog/backend/pkg/content"
)

// WelcomeSlug is the key of the seeded welcome post.
const WelcomeSlug = "welcome-to-community"

const welcomeContent = `# Welcome to Our Blog!

This is your blog platform where you can share your thoughts, tutorials, and insights with the world.

## Getting Started

To contribute:

1. **Login** with your Lemmy account credentials
2. **Click "New Post"** to create content
3. **Share your expertise** with readers
4. **Engage and learn** from others

## Writing Tips

- **Use clear, descriptive titles**
- **Add relevant tags** to categorize your posts
- **Write for your audience**
- **Include examples when helpful**

**Ready to get started?** Login with your Lemmy account and share something amazing!

---

*Happy blogging!*`

// SeedWelcomePost stores a featured welcome post unless one already exists.
// It reports whether a post was written.
func (s *PostService) SeedWelcomePost(ctx context.Context) (bool, error) {
	existing, err := s.store.Get(ctx, WelcomeSlug)
	if err != nil {
		return false, backendError("get", err)
	}
	if existing != nil {
		return false, nil
	}

	now := models.NewTimestamp(s.now())
	derived := content.Derive(welcomeContent)
	post := &models.Post{
		Slug:           WelcomeSlug,
		Title:          "Welcome to Our Blog!",
		Description:    "Start sharing your thoughts and ideas",
		Content:        welcomeContent,
		ContentPreview: derived.ContentPreview,
		Author:         "Admin",
		Tags:           []string{"welcome", "getting-started", "blogging"},
		WordCount:      derived.WordCount,
		ReadTime:       derived.ReadTime,
		Published:      true,
		Featured:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Set(ctx, WelcomeSlug, post); err != nil {
		return false, backendError("set", err)
	}
	log.Println("Welcome post created successfully")
	return true, nil
}
