package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"go-gin-mongo-blog/pkg/utils"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string // 对外访问地址，如 http://localhost:9000
}

// MinIOStore 把图片存进 bucket，URL = PublicURL/bucket/key
type MinIOStore struct {
	client   *minio.Client
	bucket   string
	public   string
	maxBytes int64
	now      func() time.Time
}

// NewMinIOStore 创建客户端并确保 bucket 存在
func NewMinIOStore(ctx context.Context, cfg MinIOConfig, maxBytes int64) (*MinIOStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		// 已存在也算成功
		exist, xerr := mc.BucketExists(ctx, cfg.Bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	public := cfg.PublicURL
	if public == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		public = scheme + "://" + cfg.Endpoint
	}
	return &MinIOStore{
		client:   mc,
		bucket:   cfg.Bucket,
		public:   strings.TrimRight(public, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}, nil
}

func (s *MinIOStore) Save(ctx context.Context, fh *multipart.FileHeader, _ string) (Image, error) {
	ct, err := check(fh, s.maxBytes)
	if err != nil {
		return Image{}, err
	}
	src, err := fh.Open()
	if err != nil {
		return Image{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key, err := s.freeKey(ctx, utils.UploadName(s.now(), fh.Filename))
	if err != nil {
		return Image{}, err
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, src, fh.Size, minio.PutObjectOptions{ContentType: ct}); err != nil {
		return Image{}, fmt.Errorf("minio put: %w", err)
	}
	return Image{Key: key, URL: s.public + "/" + s.bucket + "/" + url.PathEscape(key)}, nil
}

// freeKey PutObject 会覆盖同名对象，先 Stat 一下，重名则加随机后缀
func (s *MinIOStore) freeKey(ctx context.Context, key string) (string, error) {
	candidate := key
	for i := 0; i < maxNameAttempts; i++ {
		_, err := s.client.StatObject(ctx, s.bucket, candidate, minio.StatObjectOptions{})
		if err != nil {
			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				return candidate, nil
			}
			return "", fmt.Errorf("minio stat: %w", err)
		}
		candidate = utils.WithSuffix(key, utils.ShortID())
	}
	return "", fmt.Errorf("minio key %q still taken after %d attempts", key, maxNameAttempts)
}

func (s *MinIOStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove: %w", err)
	}
	return nil
}
