package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-mongo-blog/internal/app"
	"go-gin-mongo-blog/internal/core/config"
	"go-gin-mongo-blog/internal/core/logger"
	"go-gin-mongo-blog/internal/core/server"
	"go-gin-mongo-blog/internal/transport/http/router"
	"go-gin-mongo-blog/pkg/metrics"
)

// 独立运行管理端（回收站 + 指标），不对外提供博客 API
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Rotate: logger.FileRotate(cfg.Log.Rotate),
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 依赖（失败直接 Fatal）；内存存储无法跨进程共享，回收站会永远为空
	if err := app.RequireSharedStore(cfg); err != nil {
		log.Fatal("admin needs a shared store", zap.Error(err))
	}
	deps, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("open dependencies", zap.Error(err))
	}
	defer deps.Close(context.Background())
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	// 路由（后台端）
	r := router.NewAdminEngine(log, deps.AdminRegistry(), prometheus.DefaultGatherer)

	// HTTP Server
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second, log)

	// 启动前打印可点击地址
	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	if err := server.Serve(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
		return
	}
	log.Info("admin api stopped gracefully")
}
