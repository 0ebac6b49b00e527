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

// namedDoc 与 domain.Tag / domain.Category 结构一致，可直接类型转换
type namedDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// NamedRepo backs both tags and categories; entity only changes error text.
type NamedRepo[T domain.Named] struct {
	col    *mongo.Collection
	entity string
	now    func() time.Time
}

func NewTagRepo(db *mongo.Database) *NamedRepo[domain.Tag] {
	return &NamedRepo[domain.Tag]{col: db.Collection(database.CollTags), entity: "tag", now: time.Now}
}

func NewCategoryRepo(db *mongo.Database) *NamedRepo[domain.Category] {
	return &NamedRepo[domain.Category]{col: db.Collection(database.CollCategories), entity: "category", now: time.Now}
}

func (r *NamedRepo[T]) Create(ctx context.Context, name string) (*T, error) {
	now := stamp(r.now)
	d := namedDoc{ID: primitive.NewObjectID(), Name: name, CreatedAt: now, UpdatedAt: now}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return nil, fault("creating "+r.entity, err)
	}
	v := T(d)
	return &v, nil
}

func (r *NamedRepo[T]) FindAll(ctx context.Context) ([]T, error) {
	docs, err := findAll[namedDoc](ctx, r.col, bson.M{}, options.Find().SetSort(oldestFirst))
	if err != nil {
		return nil, fault("fetching "+r.entity+" list", err)
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, T(d))
	}
	return out, nil
}

func (r *NamedRepo[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var d namedDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	return r.one(d, err, "finding "+r.entity+" by ID")
}

func (r *NamedRepo[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, name *string) (*T, error) {
	set := bson.M{"updatedAt": stamp(r.now)}
	if name != nil {
		set["name"] = *name
	}
	var d namedDoc
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate).Decode(&d)
	return r.one(d, err, "updating "+r.entity)
}

func (r *NamedRepo[T]) Delete(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var d namedDoc
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&d)
	return r.one(d, err, "deleting "+r.entity)
}

func (r *NamedRepo[T]) one(d namedDoc, err error, op string) (*T, error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fault(op, err)
	}
	v := T(d)
	return &v, nil
}
