// Package app wires configuration into repositories, storage and HTTP modules
// shared by the api and admin binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"go-gin-mongo-blog/internal/core/config"
	"go-gin-mongo-blog/internal/core/database"
	"go-gin-mongo-blog/internal/domain"
	"go-gin-mongo-blog/internal/repo"
	"go-gin-mongo-blog/internal/storage"
	"go-gin-mongo-blog/internal/transport/http/handler"
	"go-gin-mongo-blog/internal/transport/http/router"
)

// Deps 进程级依赖；Close 在退出前调用
type Deps struct {
	Posts      domain.PostRepository
	Comments   domain.CommentRepository
	Tags       domain.TagRepository
	Categories domain.CategoryRepository

	Redis  *redis.Client
	Images storage.ImageStore
	Local  *storage.LocalStore // 仅 local 上传时不为空，用于挂静态目录

	mongo *mongo.Client
}

// Open 连接 Mongo（uri 为空则用内存存储）与 Redis
func Open(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Deps, error) {
	d := &Deps{}

	if cfg.Mongo.URI == "" {
		l.Warn("mongo.uri is empty, running on the in-memory store")
		d.useMemory(repo.NewMemoryStore())
	} else {
		if err := d.openMongo(ctx, cfg.Mongo, l); err != nil {
			return nil, err
		}
	}

	rdb, err := database.NewRedis(ctx, database.RedisOpts{
		Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB,
	})
	if err != nil {
		d.Close(ctx)
		return nil, err
	}
	if rdb != nil {
		l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}
	d.Redis = rdb
	return d, nil
}

func (d *Deps) useMemory(s *repo.MemoryStore) {
	d.Posts = s.Posts()
	d.Comments = s.Comments()
	d.Tags = s.Tags()
	d.Categories = s.Categories()
}

func (d *Deps) openMongo(ctx context.Context, mc config.Mongo, l *zap.Logger) error {
	timeout := time.Duration(mc.TimeoutSec) * time.Second
	client, err := database.ConnectMongo(ctx, database.MongoOpts{URI: mc.URI, Database: mc.Database, Timeout: timeout})
	if err != nil {
		return err
	}
	d.mongo = client
	db := client.Database(mc.Database)

	if mc.EnsureSchema {
		if err := database.EnsureSchema(ctx, db); err != nil {
			d.Close(ctx)
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		d.Close(ctx)
		return fmt.Errorf("ensure indexes: %w", err)
	}
	l.Info("mongo connected", zap.String("database", mc.Database))

	d.Posts = repo.NewPostRepo(db)
	d.Comments = repo.NewCommentRepo(db)
	d.Tags = repo.NewTagRepo(db)
	d.Categories = repo.NewCategoryRepo(db)
	return nil
}

// ErrNoSharedStore 单独运行的进程拿不到 API 进程的内存存储
var ErrNoSharedStore = errors.New("mongo.uri is empty: a standalone admin process would only see its own empty in-memory store")

// RequireSharedStore 独立的 admin 进程必须连到与 API 相同的 MongoDB
func RequireSharedStore(cfg *config.Config) error {
	if cfg.Mongo.URI == "" {
		return ErrNoSharedStore
	}
	return nil
}

// OpenImages 按 upload.backend 构建图片存储
func (d *Deps) OpenImages(ctx context.Context, cfg *config.Config) error {
	maxBytes := int64(cfg.Upload.MaxSizeMB) << 20
	switch cfg.Upload.Backend {
	case "minio":
		s, err := storage.NewMinIOStore(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
			PublicURL: cfg.MinIO.PublicURL,
		}, maxBytes)
		if err != nil {
			return err
		}
		d.Images = s
	case "local", "":
		s, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.URLPrefix, maxBytes)
		if err != nil {
			return err
		}
		d.Images, d.Local = s, s
	default:
		return fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
	return nil
}

// APIRegistry 公开 API 的模块
func (d *Deps) APIRegistry() *router.Registry {
	return router.NewRegistry(
		handler.NewPostHandler(d.Posts, d.Images),
		handler.NewCommentHandler(d.Comments),
		handler.NewTagHandler(d.Tags),
		handler.NewCategoryHandler(d.Categories),
	)
}

// AdminRegistry 管理端模块
func (d *Deps) AdminRegistry() *router.Registry {
	return router.NewRegistry(handler.NewTrashHandler(d.Posts, d.Comments))
}

// APIOptions 由配置与已打开的依赖拼出 API engine 选项
func (d *Deps) APIOptions(cfg *config.Config) router.APIOptions {
	opt := router.APIOptions{
		Title:   cfg.App.Name,
		Version: "1.0.0",
		Limits:  cfg.Limits,
		Redis:   d.Redis,
	}
	if d.Local != nil {
		opt.UploadDir, opt.UploadPrefix = d.Local.Dir(), d.Local.Prefix()
	}
	return opt
}

func (d *Deps) Close(ctx context.Context) {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.mongo != nil {
		_ = d.mongo.Disconnect(ctx)
	}
}
