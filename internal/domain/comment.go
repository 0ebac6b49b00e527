package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Content   string             `bson:"content" json:"content"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	PostID    primitive.ObjectID `bson:"postId,omitempty" json:"postId"`
	DeletedAt *time.Time         `bson:"deletedAt" json:"deletedAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (c *Comment) Active() bool { return c.DeletedAt == nil }

type CommentInput struct {
	Content string
	Name    string
	Email   string
	PostID  primitive.ObjectID
}

type CommentPatch struct {
	Content *string
	Name    *string
	Email   *string
	PostID  *primitive.ObjectID
}

// CommentRepository follows the same visibility rules as PostRepository.
type CommentRepository interface {
	Create(ctx context.Context, in CommentInput) (*Comment, error)
	FindAll(ctx context.Context) ([]Comment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Comment, error)
	FindByPostID(ctx context.Context, postID primitive.ObjectID) ([]Comment, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch CommentPatch) (*Comment, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (*Comment, error)
	FindDeleted(ctx context.Context, limit int) ([]Comment, error)
}
