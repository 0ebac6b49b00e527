package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-gin-mongo-blog/internal/core/database"
	"go-gin-mongo-blog/internal/domain"
)

type CommentRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewCommentRepo(db *mongo.Database) *CommentRepo {
	return &CommentRepo{col: db.Collection(database.CollComments), now: time.Now}
}

func (r *CommentRepo) Create(ctx context.Context, in domain.CommentInput) (*domain.Comment, error) {
	now := stamp(r.now)
	c := domain.Comment{
		ID:        primitive.NewObjectID(),
		Content:   in.Content,
		Name:      in.Name,
		Email:     in.Email,
		PostID:    in.PostID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return nil, fault("creating comment", err)
	}
	return &c, nil
}

func (r *CommentRepo) FindAll(ctx context.Context) ([]domain.Comment, error) {
	out, err := findAll[domain.Comment](ctx, r.col, active(nil), options.Find().SetSort(oldestFirst))
	if err != nil {
		return nil, fault("fetching comments", err)
	}
	return out, nil
}

func (r *CommentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	var c domain.Comment
	err := r.col.FindOne(ctx, active(bson.M{"_id": id})).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fault("finding comment by ID", err)
	}
	return &c, nil
}

func (r *CommentRepo) FindByPostID(ctx context.Context, postID primitive.ObjectID) ([]domain.Comment, error) {
	out, err := findAll[domain.Comment](ctx, r.col, active(bson.M{"postId": postID}), options.Find().SetSort(oldestFirst))
	if err != nil {
		return nil, fault("fetching comments", err)
	}
	return out, nil
}

func (r *CommentRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, patch domain.CommentPatch) (*domain.Comment, error) {
	set := commentSet(patch)
	set["updatedAt"] = stamp(r.now)
	return r.findOneAndSet(ctx, id, set, "updating comment")
}

func (r *CommentRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	now := stamp(r.now)
	return r.findOneAndSet(ctx, id, bson.M{"deletedAt": now, "updatedAt": now}, "soft-deleting comment")
}

func (r *CommentRepo) FindDeleted(ctx context.Context, limit int) ([]domain.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "deletedAt", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))
	out, err := findAll[domain.Comment](ctx, r.col, trashed(), opts)
	if err != nil {
		return nil, fault("fetching deleted comments", err)
	}
	return out, nil
}

func (r *CommentRepo) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M, op string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.col.FindOneAndUpdate(ctx, active(bson.M{"_id": id}), bson.M{"$set": set}, afterUpdate).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fault(op, err)
	}
	return &c, nil
}
