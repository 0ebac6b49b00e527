package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/domain"
)

// lookup 按 id 批量取被引用文档；缺失的 id 不出现在结果里
type lookup[T any] func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]T, error)

// populatePosts resolves category and tag references. Tag order follows the
// post's tag list; dangling tag ids are dropped and a dangling category
// becomes nil.
func populatePosts(ctx context.Context, posts []domain.Post, cats lookup[domain.Category], tags lookup[domain.Tag]) ([]domain.PopulatedPost, error) {
	catIDs, tagIDs := referencedIDs(posts)
	cm, err := cats(ctx, catIDs)
	if err != nil {
		return nil, err
	}
	tm, err := tags(ctx, tagIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PopulatedPost, 0, len(posts))
	for _, p := range posts {
		pp := domain.PopulatedPost{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			ImageURL:  p.ImageURL,
			Author:    p.Author,
			Tags:      make([]domain.Tag, 0, len(p.Tags)),
			DeletedAt: p.DeletedAt,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
		if c, ok := cm[p.Category]; ok {
			pp.Category = &c
		}
		for _, id := range p.Tags {
			if t, ok := tm[id]; ok {
				pp.Tags = append(pp.Tags, t)
			}
		}
		out = append(out, pp)
	}
	return out, nil
}

func referencedIDs(posts []domain.Post) (cats, tags []primitive.ObjectID) {
	seenCat := map[primitive.ObjectID]struct{}{}
	seenTag := map[primitive.ObjectID]struct{}{}
	for _, p := range posts {
		if _, ok := seenCat[p.Category]; !ok && !p.Category.IsZero() {
			seenCat[p.Category] = struct{}{}
			cats = append(cats, p.Category)
		}
		for _, id := range p.Tags {
			if _, ok := seenTag[id]; !ok {
				seenTag[id] = struct{}{}
				tags = append(tags, id)
			}
		}
	}
	return cats, tags
}
