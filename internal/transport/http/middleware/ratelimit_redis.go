package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"go-gin-mongo-blog/pkg/metrics"
)

// RedisRateLimit 基于 Redis 的固定窗口限速（多实例共享计数），按 IP 计。
// 每个窗口允许 floor(rps*窗口秒数)+burst 次；client 为空时退回进程内 RateLimitPerIP。
func RedisRateLimit(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitPerIP(rate.Limit(rps), burst)
	}
	windowSeconds := int64(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowed := int64(rps*float64(windowSeconds)) + int64(burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		key := fmt.Sprintf("blog:rl:ip:%s:%d", ip, time.Now().Unix()/windowSeconds)

		ctx := c.Request.Context()
		cnt, err := client.Incr(ctx, key).Result()
		if err != nil {
			// Redis 不可用时放行
			_ = c.Error(fmt.Errorf("rate limit check: %w", err))
			c.Next()
			return
		}
		if cnt == 1 {
			_ = client.Expire(ctx, key, time.Duration(windowSeconds+1)*time.Second).Err()
		}
		if cnt > allowed {
			c.Header("Retry-After", fmt.Sprint(windowSeconds))
			tooMany(c, "redis")
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
