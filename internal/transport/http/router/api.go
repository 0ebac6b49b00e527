package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-mongo-blog/internal/core/config"
	"go-gin-mongo-blog/internal/core/server"
	"go-gin-mongo-blog/internal/transport/http/ez"
	mdw "go-gin-mongo-blog/internal/transport/http/middleware"
)

type APIOptions struct {
	Title   string
	Version string
	Limits  config.Limits
	Redis   *redis.Client // 不为空时使用分布式限流

	// 本地上传目录与对外前缀；Dir 为空则不挂静态路由
	UploadDir    string
	UploadPrefix string
}

func NewAPIEngine(l *zap.Logger, reg *Registry, opt APIOptions) *gin.Engine {
	r := server.NewRouter(l)

	// 中间件
	r.Use(middlewares(l, opt.Limits, opt.Redis)...)

	// 健康检查
	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "Blog server is running") })

	if opt.UploadDir != "" {
		r.Static(opt.UploadPrefix, opt.UploadDir)
	}

	cat := ez.NewCatalog()
	reg.MountAllAPI(&r.RouterGroup, cat)
	MountDocs(r, cat, opt.Title, opt.Version)

	return r
}

func middlewares(l *zap.Logger, lim config.Limits, rdb *redis.Client) []gin.HandlerFunc {
	mws := []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
	}
	if lim.RPS > 0 {
		switch {
		case rdb != nil:
			mws = append(mws, mdw.RedisRateLimit(rdb, lim.RPS, lim.Burst, time.Second))
		case lim.PerIP:
			mws = append(mws, mdw.RateLimitPerIP(rate.Limit(lim.RPS), lim.Burst))
		default:
			mws = append(mws, mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
		}
	}
	if lim.Concurrency > 0 {
		mws = append(mws, mdw.ConcurrencyLimit(lim.Concurrency))
	}
	if lim.MaxBodyMB > 0 {
		mws = append(mws, mdw.MaxBodyBytes(lim.MaxBodyMB<<20))
	}
	if lim.TimeoutSec > 0 {
		mws = append(mws, mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second))
	}
	return mws
}
