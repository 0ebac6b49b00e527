package repo

import (
	"context"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/domain"
)

type MemoryCommentRepo struct{ s *MemoryStore }

func isActiveComment(c *domain.Comment) bool { return c.Active() }

func (r *MemoryCommentRepo) Create(_ context.Context, in domain.CommentInput) (*domain.Comment, error) {
	now := stamp(r.s.now)
	c := domain.Comment{
		ID:        primitive.NewObjectID(),
		Content:   in.Content,
		Name:      in.Name,
		Email:     in.Email,
		PostID:    in.PostID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.s.comments.insert(c); err != nil {
		return nil, fault("creating comment", err)
	}
	return &c, nil
}

func (r *MemoryCommentRepo) FindAll(_ context.Context) ([]domain.Comment, error) {
	return r.sorted(isActiveComment), nil
}

func (r *MemoryCommentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	c, ok := r.s.comments.get(id, isActiveComment)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryCommentRepo) FindByPostID(_ context.Context, postID primitive.ObjectID) ([]domain.Comment, error) {
	return r.sorted(func(c *domain.Comment) bool { return c.Active() && c.PostID == postID }), nil
}

func (r *MemoryCommentRepo) UpdateByID(_ context.Context, id primitive.ObjectID, patch domain.CommentPatch) (*domain.Comment, error) {
	now := stamp(r.s.now)
	return r.modify(id, "updating comment", func(c *domain.Comment) {
		applyCommentPatch(c, patch)
		c.UpdatedAt = now
	})
}

func (r *MemoryCommentRepo) SoftDelete(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	now := stamp(r.s.now)
	return r.modify(id, "soft-deleting comment", func(c *domain.Comment) {
		c.DeletedAt = &now
		c.UpdatedAt = now
	})
}

func (r *MemoryCommentRepo) FindDeleted(_ context.Context, limit int) ([]domain.Comment, error) {
	out := r.s.comments.scan(func(c *domain.Comment) bool { return !c.Active() })
	slices.SortStableFunc(out, func(a, b domain.Comment) int { return compareDeleted(b.DeletedAt, a.DeletedAt) })
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *MemoryCommentRepo) sorted(match func(*domain.Comment) bool) []domain.Comment {
	out := r.s.comments.scan(match)
	slices.SortStableFunc(out, func(a, b domain.Comment) int {
		return compareCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out
}

func (r *MemoryCommentRepo) modify(id primitive.ObjectID, op string, fn func(*domain.Comment)) (*domain.Comment, error) {
	c, ok, err := r.s.comments.modify(id, isActiveComment, fn)
	if err != nil {
		return nil, fault(op, err)
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}
