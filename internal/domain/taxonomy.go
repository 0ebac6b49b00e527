package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Named is the shape shared by tags and categories.
type Named interface {
	Tag | Category
}

// NamedRepository is plain CRUD without soft delete. Delete is permanent and
// does not touch posts that reference the record.
type NamedRepository[T Named] interface {
	Create(ctx context.Context, name string) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, name *string) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*T, error)
}

type (
	TagRepository      = NamedRepository[Tag]
	CategoryRepository = NamedRepository[Category]
)
