package repo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"go-gin-mongo-blog/internal/domain"
	"go-gin-mongo-blog/pkg/metrics"
)

// fault 记录并包装存储层错误
func fault(op string, err error) error {
	metrics.StoreFaults.WithLabelValues(op).Inc()
	return domain.NewStoreError(op, err)
}

// stamp 与 Mongo 的毫秒精度对齐，保证写入值与读回值一致
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}

// active 追加软删过滤：deletedAt 为 null 或不存在
func active(filter bson.M) bson.M {
	if filter == nil {
		filter = bson.M{}
	}
	filter["deletedAt"] = nil
	return filter
}

func trashed() bson.M {
	return bson.M{"deletedAt": bson.M{"$ne": nil}}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > domain.QueryLimit {
		return domain.QueryLimit
	}
	return limit
}

var (
	_ domain.PostRepository     = (*PostRepo)(nil)
	_ domain.CommentRepository  = (*CommentRepo)(nil)
	_ domain.TagRepository      = (*NamedRepo[domain.Tag])(nil)
	_ domain.CategoryRepository = (*NamedRepo[domain.Category])(nil)

	_ domain.PostRepository     = (*MemoryPostRepo)(nil)
	_ domain.CommentRepository  = (*MemoryCommentRepo)(nil)
	_ domain.TagRepository      = (*MemoryNamedRepo[domain.Tag])(nil)
	_ domain.CategoryRepository = (*MemoryNamedRepo[domain.Category])(nil)
)
