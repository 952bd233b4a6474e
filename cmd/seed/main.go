// seed inserts a demo user and a handful of blog posts into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/blog-platform/internal/password"
)

const (
	seedEmail    = "demo@blog.local"
	seedPassword = "password123"
)

type seedPost struct {
	title   string
	content string
	status  domain.BlogStatus
}

var posts = []seedPost{
	{"Hello, world", "The first post on the demo blog.", domain.BlogStatusPublished},
	{"Cookies vs headers", "Why the session lives in an HttpOnly cookie.", domain.BlogStatusPublished},
	{"Cursor pagination", "Keyset pages stay stable while new posts arrive.", domain.BlogStatusPublished},
	{"Draft: image uploads", "Images go to MinIO, URLs go to postgres.", domain.BlogStatusDraft},
	{"Draft: metrics", "Post counts by status are exported to Prometheus.", domain.BlogStatusDraft},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	blogs := postgres.NewBlogRepository(pool)

	user, err := users.FindByEmail(ctx, seedEmail)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		digest, err := password.NewHasher(password.DefaultCost).Hash(seedPassword)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		user, err = users.Create(ctx, seedEmail, digest)
		if err != nil {
			log.Fatalf("create user: %v", err)
		}
	case err != nil:
		log.Fatalf("find user: %v", err)
	}

	counts, err := blogs.CountByStatus(ctx)
	if err != nil {
		log.Fatalf("count blogs: %v", err)
	}

	var inserted int
	if counts[domain.BlogStatusDraft]+counts[domain.BlogStatusPublished] == 0 {
		for _, p := range posts {
			if _, err := blogs.Create(ctx, &domain.Blog{
				Title:    p.title,
				Content:  p.content,
				Status:   p.status,
				AuthorID: user.ID,
			}); err != nil {
				log.Fatalf("insert post %q: %v", p.title, err)
			}
			inserted++
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:          %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:       %d\n", user.ID)
	fmt.Printf("  Posts created: %d\n", inserted)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  curl -s -c cookies.txt -X POST http://localhost:8080/auth/login \\")
	fmt.Println("    -H 'Content-Type: application/json' \\")
	fmt.Printf("    -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  curl -s -b cookies.txt http://localhost:8080/auth/profile")
	fmt.Println("  curl -s http://localhost:8080/blogs")
}
