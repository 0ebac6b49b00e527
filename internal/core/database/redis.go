package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOpts struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis 返回已 ping 通的客户端；Addr 为空时返回 (nil, nil)，调用方退回进程内限流
func NewRedis(ctx context.Context, o RedisOpts) (*redis.Client, error) {
	if o.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
