package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/drostetom1-netizen/slimrooster-horeca/config"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/api/handler"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/api/router"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/repository"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/service"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/database"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/jwt"
	applogger "github.com/drostetom1-netizen/slimrooster-horeca/pkg/logger"
	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ROSTER_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("roster_timezone", cfg.Roster.Timezone),
	)

	// 3. 连接数据库并迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（失败时降级：不限流、不检查吊销名单）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，限流与 Token 吊销检查将不可用", zap.Error(err))
		rdb = nil
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 5. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc, err := service.NewService(cfg, repo, applogger.Named(logger, "roster"))
	if err != nil {
		logger.Fatal("初始化排班核心失败", zap.Error(err))
	}

	hydrateCtx, cancelHydrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Roster.Hydrate(hydrateCtx); err != nil {
		cancelHydrate()
		logger.Fatal("回填排班状态失败", zap.Error(err))
	}
	cancelHydrate()

	h := handler.NewHandler(svc)
	engine := router.Setup(cfg, h, jwtMgr, rdb, applogger.Named(logger, "http"))

	// 6. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
