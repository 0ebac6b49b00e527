package repo

import (
	"context"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/domain"
)

type MemoryPostRepo struct{ s *MemoryStore }

func isActivePost(p *domain.Post) bool { return p.Active() }

func clonePost(p domain.Post) domain.Post {
	p.Tags = slices.Clone(p.Tags)
	return p
}

func (r *MemoryPostRepo) Create(_ context.Context, in domain.PostInput) (*domain.Post, error) {
	p := newPost(in)
	p.CreatedAt = stamp(r.s.now)
	p.UpdatedAt = p.CreatedAt
	if _, err := r.s.posts.insert(clonePost(p)); err != nil {
		return nil, fault("creating Post", err)
	}
	return &p, nil
}

func (r *MemoryPostRepo) CreateMany(_ context.Context, in []domain.PostInput) ([]domain.Post, error) {
	now := stamp(r.s.now)
	posts := make([]domain.Post, len(in))
	for i := range in {
		posts[i] = newPost(in[i])
		posts[i].CreatedAt, posts[i].UpdatedAt = now, now
	}
	docs := make([]domain.Post, len(posts))
	for i := range posts {
		docs[i] = clonePost(posts[i])
	}
	if _, err := r.s.posts.insert(docs...); err != nil {
		return nil, fault("creating multiple posts", err)
	}
	return posts, nil
}

func (r *MemoryPostRepo) FindAll(ctx context.Context) ([]domain.PopulatedPost, error) {
	posts := r.scan(isActivePost)
	slices.SortStableFunc(posts, func(a, b domain.Post) int {
		return compareCreated(b.CreatedAt, a.CreatedAt, b.ID, a.ID)
	})
	out, err := populatePosts(ctx, posts, memLookup[domain.Category](r.s.categories), memLookup[domain.Tag](r.s.tags))
	if err != nil {
		return nil, fault("populating Posts", err)
	}
	return out, nil
}

func (r *MemoryPostRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	p, ok := r.s.posts.get(id, isActivePost)
	if !ok {
		return nil, nil
	}
	p = clonePost(p)
	return &p, nil
}

func (r *MemoryPostRepo) FindByCategoryID(_ context.Context, categoryID primitive.ObjectID) ([]domain.Post, error) {
	return r.scan(func(p *domain.Post) bool {
		return p.Active() && p.Category == categoryID
	}), nil
}

func (r *MemoryPostRepo) FindByQuery(_ context.Context, q domain.PostQuery) ([]domain.Post, error) {
	kw := strings.ToLower(q.Keyword)
	posts := r.scan(func(p *domain.Post) bool {
		return p.Active() && strings.Contains(strings.ToLower(p.Title), kw)
	})
	if len(posts) > domain.QueryLimit {
		posts = posts[:domain.QueryLimit]
	}
	return posts, nil
}

func (r *MemoryPostRepo) UpdateByID(_ context.Context, id primitive.ObjectID, patch domain.PostPatch) (*domain.Post, error) {
	now := stamp(r.s.now)
	return r.modify(id, "updating post", func(p *domain.Post) {
		applyPostPatch(p, patch)
		p.UpdatedAt = now
	})
}

func (r *MemoryPostRepo) SoftDelete(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	now := stamp(r.s.now)
	return r.modify(id, "soft-deleting post", func(p *domain.Post) {
		p.DeletedAt = &now
		p.UpdatedAt = now
	})
}

func (r *MemoryPostRepo) FindDeleted(_ context.Context, limit int) ([]domain.Post, error) {
	posts := r.scan(func(p *domain.Post) bool { return !p.Active() })
	slices.SortStableFunc(posts, func(a, b domain.Post) int { return compareDeleted(b.DeletedAt, a.DeletedAt) })
	if n := clampLimit(limit); len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}

func (r *MemoryPostRepo) modify(id primitive.ObjectID, op string, fn func(*domain.Post)) (*domain.Post, error) {
	p, ok, err := r.s.posts.modify(id, isActivePost, func(p *domain.Post) {
		*p = clonePost(*p)
		fn(p)
	})
	if err != nil {
		return nil, fault(op, err)
	}
	if !ok {
		return nil, nil
	}
	p = clonePost(p)
	return &p, nil
}

func (r *MemoryPostRepo) scan(match func(*domain.Post) bool) []domain.Post {
	posts := r.s.posts.scan(match)
	for i := range posts {
		posts[i] = clonePost(posts[i])
	}
	return posts
}

func memLookup[T domain.Named](t *table[namedDoc]) lookup[T] {
	return func(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]T, error) {
		out := make(map[primitive.ObjectID]T, len(ids))
		for _, id := range ids {
			if d, ok := t.get(id, nil); ok {
				out[id] = T(d)
			}
		}
		return out, nil
	}
}
