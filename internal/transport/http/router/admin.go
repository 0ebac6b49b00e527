package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-gin-mongo-blog/internal/core/server"
	mdw "go-gin-mongo-blog/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：健康检查、Prometheus 指标、/admin/v1 下的模块
func NewAdminEngine(l *zap.Logger, reg *Registry, gatherer prometheus.Gatherer) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	admin := r.Group("/admin/v1")
	reg.MountAllAdmin(admin)

	return r
}
