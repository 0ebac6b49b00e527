package repo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-gin-mongo-blog/internal/core/database"
	"go-gin-mongo-blog/internal/domain"
)

type PostRepo struct {
	posts      *mongo.Collection
	categories *mongo.Collection
	tags       *mongo.Collection
	now        func() time.Time
}

func NewPostRepo(db *mongo.Database) *PostRepo {
	return &PostRepo{
		posts:      db.Collection(database.CollPosts),
		categories: db.Collection(database.CollCategories),
		tags:       db.Collection(database.CollTags),
		now:        time.Now,
	}
}

var (
	newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	oldestFirst = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	afterUpdate = options.FindOneAndUpdate().SetReturnDocument(options.After)
)

func (r *PostRepo) Create(ctx context.Context, in domain.PostInput) (*domain.Post, error) {
	p := newPost(in)
	p.CreatedAt = stamp(r.now)
	p.UpdatedAt = p.CreatedAt
	if _, err := r.posts.InsertOne(ctx, p); err != nil {
		return nil, fault("creating Post", err)
	}
	return &p, nil
}

// CreateMany 有序批量插入，非原子：失败时之前的文档已落库
func (r *PostRepo) CreateMany(ctx context.Context, in []domain.PostInput) ([]domain.Post, error) {
	if len(in) == 0 {
		return []domain.Post{}, nil
	}
	now := stamp(r.now)
	posts := make([]domain.Post, len(in))
	docs := make([]any, len(in))
	for i := range in {
		posts[i] = newPost(in[i])
		posts[i].CreatedAt, posts[i].UpdatedAt = now, now
		docs[i] = posts[i]
	}
	if _, err := r.posts.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fault("creating multiple posts", err)
	}
	return posts, nil
}

func (r *PostRepo) FindAll(ctx context.Context) ([]domain.PopulatedPost, error) {
	posts, err := r.find(ctx, active(nil), options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fault("fetching Posts", err)
	}
	out, err := populatePosts(ctx, posts, mongoLookup[domain.Category](r.categories), mongoLookup[domain.Tag](r.tags))
	if err != nil {
		return nil, fault("populating Posts", err)
	}
	return out, nil
}

func (r *PostRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var p domain.Post
	err := r.posts.FindOne(ctx, active(bson.M{"_id": id})).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fault("finding post by ID", err)
	}
	return &p, nil
}

func (r *PostRepo) FindByCategoryID(ctx context.Context, categoryID primitive.ObjectID) ([]domain.Post, error) {
	posts, err := r.find(ctx, active(bson.M{"category": categoryID}), nil)
	if err != nil {
		return nil, fault("finding posts by category", err)
	}
	return posts, nil
}

func (r *PostRepo) FindByQuery(ctx context.Context, q domain.PostQuery) ([]domain.Post, error) {
	filter := active(nil)
	if q.Keyword != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Keyword), Options: "i"}
	}
	posts, err := r.find(ctx, filter, options.Find().SetLimit(domain.QueryLimit))
	if err != nil {
		return nil, fault("searching Posts", err)
	}
	return posts, nil
}

func (r *PostRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, patch domain.PostPatch) (*domain.Post, error) {
	set := postSet(patch)
	set["updatedAt"] = stamp(r.now)
	return r.findOneAndSet(ctx, id, set, "updating post")
}

func (r *PostRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	now := stamp(r.now)
	return r.findOneAndSet(ctx, id, bson.M{"deletedAt": now, "updatedAt": now}, "soft-deleting post")
}

func (r *PostRepo) FindDeleted(ctx context.Context, limit int) ([]domain.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "deletedAt", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))
	posts, err := r.find(ctx, trashed(), opts)
	if err != nil {
		return nil, fault("fetching deleted Posts", err)
	}
	return posts, nil
}

func (r *PostRepo) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M, op string) (*domain.Post, error) {
	var p domain.Post
	err := r.posts.FindOneAndUpdate(ctx, active(bson.M{"_id": id}), bson.M{"$set": set}, afterUpdate).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fault(op, err)
	}
	return &p, nil
}

func (r *PostRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Post, error) {
	return findAll[domain.Post](ctx, r.posts, filter, opts)
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts *options.FindOptions) ([]T, error) {
	if opts == nil {
		opts = options.Find()
	}
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func mongoLookup[T domain.Named](col *mongo.Collection) lookup[T] {
	return func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]T, error) {
		out := make(map[primitive.ObjectID]T, len(ids))
		if len(ids) == 0 {
			return out, nil
		}
		docs, err := findAll[namedDoc](ctx, col, bson.M{"_id": bson.M{"$in": ids}}, nil)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			out[d.ID] = T(d)
		}
		return out, nil
	}
}
