package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 集合名
const (
	CollPosts      = "posts"
	CollComments   = "comments"
	CollTags       = "tags"
	CollCategories = "categories"
)

type MongoOpts struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// ConnectMongo 建立连接并 ping；调用方负责 client.Disconnect
func ConnectMongo(ctx context.Context, o MongoOpts) (*mongo.Client, error) {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(o.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// collection validators; the store rejects documents missing required fields
var schemas = map[string]bson.M{
	CollPosts: {
		"bsonType": "object",
		"required": bson.A{"title", "author", "category"},
		"properties": bson.M{
			"title":    bson.M{"bsonType": "string", "minLength": 1},
			"author":   bson.M{"bsonType": "string", "minLength": 1},
			"category": bson.M{"bsonType": "objectId"},
			"tags":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
		},
	},
	CollComments: {
		"bsonType": "object",
		"required": bson.A{"content", "name", "email", "postId"},
		"properties": bson.M{
			"content": bson.M{"bsonType": "string", "minLength": 1},
			"name":    bson.M{"bsonType": "string", "minLength": 1},
			"email":   bson.M{"bsonType": "string", "minLength": 1},
			"postId":  bson.M{"bsonType": "objectId"},
		},
	},
	CollTags: {
		"bsonType":   "object",
		"required":   bson.A{"name"},
		"properties": bson.M{"name": bson.M{"bsonType": "string", "minLength": 1}},
	},
	CollCategories: {
		"bsonType":   "object",
		"required":   bson.A{"name"},
		"properties": bson.M{"name": bson.M{"bsonType": "string", "minLength": 1}},
	},
}

// EnsureSchema 创建集合（带 $jsonSchema 校验）；已存在则 collMod 覆盖校验规则
func EnsureSchema(ctx context.Context, db *mongo.Database) error {
	for name, schema := range schemas {
		validator := bson.M{"$jsonSchema": schema}
		err := db.CreateCollection(ctx, name, options.CreateCollection().SetValidator(validator))
		if err == nil {
			continue
		}
		var ce mongo.CommandError
		if !errors.As(err, &ce) || ce.Code != 48 { // NamespaceExists
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		cmd := bson.D{{Key: "collMod", Value: name}, {Key: "validator", Value: validator}}
		if err := db.RunCommand(ctx, cmd).Err(); err != nil {
			return fmt.Errorf("collMod %s: %w", name, err)
		}
	}
	return nil
}

// EnsureIndexes 建立读路径所需索引（幂等）
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	idx := map[string][]mongo.IndexModel{
		CollPosts: {
			{Keys: bson.D{{Key: "deletedAt", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		CollComments: {
			{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}
	for name, models := range idx {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes %s: %w", name, err)
		}
	}
	return nil
}
