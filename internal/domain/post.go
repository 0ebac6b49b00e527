package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the stored form of a blog post. Category and Tags hold bare references.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	ImageURL  string               `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Author    string               `bson:"author" json:"author"`
	Category  primitive.ObjectID   `bson:"category,omitempty" json:"category"`
	Tags      []primitive.ObjectID `bson:"tags" json:"tags"`
	DeletedAt *time.Time           `bson:"deletedAt" json:"deletedAt"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the post has not been soft deleted.
func (p *Post) Active() bool { return p.DeletedAt == nil }

// PopulatedPost is a Post whose category and tag references were resolved.
// Category is nil when the referenced category no longer exists.
type PopulatedPost struct {
	ID        primitive.ObjectID `json:"_id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	ImageURL  string             `json:"imageUrl,omitempty"`
	Author    string             `json:"author"`
	Category  *Category          `json:"category"`
	Tags      []Tag              `json:"tags"`
	DeletedAt *time.Time         `json:"deletedAt"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// PostInput carries the user supplied fields of a new post.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
	Author   string
	Category primitive.ObjectID
	Tags     []primitive.ObjectID
}

// PostPatch is a partial update; nil fields are left untouched.
type PostPatch struct {
	Title    *string
	Content  *string
	ImageURL *string
	Author   *string
	Category *primitive.ObjectID
	Tags     *[]primitive.ObjectID
}

// PostQuery filters FindByQuery. An empty Keyword matches every active post.
type PostQuery struct {
	Keyword string
}

// QueryLimit caps FindByQuery and the trash listings.
const QueryLimit = 1000

// PostRepository is the persistence contract for posts. Soft-deleted posts are
// invisible to every method except FindDeleted; "not found" is reported as a
// nil post with a nil error.
type PostRepository interface {
	Create(ctx context.Context, in PostInput) (*Post, error)
	// CreateMany inserts in order and is not atomic: when the store rejects a
	// document, the ones before it remain inserted and a *StoreError is returned.
	CreateMany(ctx context.Context, in []PostInput) ([]Post, error)
	FindAll(ctx context.Context) ([]PopulatedPost, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Post, error)
	FindByCategoryID(ctx context.Context, categoryID primitive.ObjectID) ([]Post, error)
	FindByQuery(ctx context.Context, q PostQuery) ([]Post, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch PostPatch) (*Post, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (*Post, error)
	FindDeleted(ctx context.Context, limit int) ([]Post, error)
}
