package repo

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/core/database"
	"go-gin-mongo-blog/internal/domain"
)

type backend struct {
	name       string
	posts      domain.PostRepository
	comments   domain.CommentRepository
	tags       domain.TagRepository
	categories domain.CategoryRepository
	setClock   func(func() time.Time)
}

// ticker 每次调用前进一秒，保证 createdAt 严格递增
func ticker() func() time.Time {
	var mu sync.Mutex
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func memoryBackend() backend {
	s := NewMemoryStore()
	return backend{
		name:       "memory",
		posts:      s.Posts(),
		comments:   s.Comments(),
		tags:       s.Tags(),
		categories: s.Categories(),
		setClock:   func(fn func() time.Time) { s.now = fn },
	}
}

// mongoBackend 需要 MONGODB_TEST_URI；每个用例独立数据库，结束时删除
func mongoBackend(t *testing.T) (backend, bool) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		return backend{}, false
	}
	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, database.MongoOpts{URI: uri, Timeout: 5 * time.Second})
	require.NoError(t, err)
	db := client.Database(fmt.Sprintf("blog_test_%s", primitive.NewObjectID().Hex()))
	require.NoError(t, database.EnsureSchema(ctx, db))
	require.NoError(t, database.EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	posts, comments := NewPostRepo(db), NewCommentRepo(db)
	tags, cats := NewTagRepo(db), NewCategoryRepo(db)
	return backend{
		name:       "mongo",
		posts:      posts,
		comments:   comments,
		tags:       tags,
		categories: cats,
		setClock: func(fn func() time.Time) {
			posts.now, comments.now, tags.now, cats.now = fn, fn, fn, fn
		},
	}, true
}

// eachBackend runs fn against the memory store, and against MongoDB when available.
func eachBackend(t *testing.T, fn func(t *testing.T, b backend)) {
	t.Run("memory", func(t *testing.T) { fn(t, memoryBackend()) })
	t.Run("mongo", func(t *testing.T) {
		b, ok := mongoBackend(t)
		if !ok {
			t.Skip("MONGODB_TEST_URI not set")
		}
		fn(t, b)
	})
}

func mustCategory(t *testing.T, b backend, name string) *domain.Category {
	t.Helper()
	c, err := b.categories.Create(context.Background(), name)
	require.NoError(t, err)
	return c
}

func mustPost(t *testing.T, b backend, title string, cat primitive.ObjectID, tags ...primitive.ObjectID) *domain.Post {
	t.Helper()
	p, err := b.posts.Create(context.Background(), domain.PostInput{
		Title: title, Content: "body of " + title, Author: "Jo", Category: cat, Tags: tags,
	})
	require.NoError(t, err)
	return p
}
