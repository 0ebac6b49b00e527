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
	"golang.org/x/sync/errgroup"

	"go-gin-mongo-blog/internal/app"
	"go-gin-mongo-blog/internal/core/config"
	"go-gin-mongo-blog/internal/core/logger"
	"go-gin-mongo-blog/internal/core/server"
	"go-gin-mongo-blog/internal/transport/http/router"
	"go-gin-mongo-blog/pkg/metrics"
)

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
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 依赖（失败直接 Fatal）
	deps, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("open dependencies", zap.Error(err))
	}
	defer deps.Close(context.Background())
	if err := deps.OpenImages(ctx, cfg); err != nil {
		log.Fatal("open image storage", zap.Error(err))
	}
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	// 路由（用户端 + 管理端）
	api := router.NewAPIEngine(log, deps.APIRegistry(), deps.APIOptions(cfg))
	admin := router.NewAdminEngine(log, deps.AdminRegistry(), prometheus.DefaultGatherer)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	apiSrv := server.BuildServer(
		addr, api,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
		log,
	)
	adminAddr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	adminSrv := server.BuildServer(adminAddr, admin, 5*time.Second, 10*time.Second, 60*time.Second, log)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("blog api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/healthcheck"),
		zap.String("docs", baseURL+"/api-docs"),
		zap.String("admin", adminAddr),
	)

	// 两个监听一起跑，任一失败则整体退出
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Serve(gctx, apiSrv, log, 10*time.Second) })
	g.Go(func() error { return server.Serve(gctx, adminSrv, log, 10*time.Second) })
	if err := g.Wait(); err != nil {
		log.Error("blog api stopped with error", zap.Error(err))
		return
	}
	log.Info("blog api stopped gracefully")
}
