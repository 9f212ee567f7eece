package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DilipkumarRajan/training-request-portal/config"
	"github.com/DilipkumarRajan/training-request-portal/internal/api/handler"
	"github.com/DilipkumarRajan/training-request-portal/internal/api/router"
	"github.com/DilipkumarRajan/training-request-portal/internal/repository"
	"github.com/DilipkumarRajan/training-request-portal/internal/service"
	"github.com/DilipkumarRajan/training-request-portal/pkg/database"
	"github.com/DilipkumarRajan/training-request-portal/pkg/gsheets"
	applogger "github.com/DilipkumarRajan/training-request-portal/pkg/logger"
	"github.com/DilipkumarRajan/training-request-portal/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml 与 ./config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
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
		zap.String("store", cfg.Store.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化存储
	ctx := context.Background()
	store, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("初始化存储失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时不限流，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，提交接口将不限流", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(store)
	svc := service.NewService(cfg, repo, logger)
	h := handler.NewHandler(svc, logger)

	// 6. 初始化路由
	engine, err := router.Setup(cfg, h, rdb, logger)
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 7. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 8. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// openStore 按 store.driver 创建追加存储
// postgres 驱动同时返回数据库连接，供关闭时释放
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.TrainingRequestStore, *gorm.DB, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSheets:
		clients, err := gsheets.NewClients(ctx, &cfg.Sheets)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewSheetsStore(clients, &cfg.Sheets, logger)

		// 启动时解析目标表格，凭证或表格名错误尽早暴露
		resolveCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if _, _, err := store.Resolve(resolveCtx); err != nil {
			return nil, nil, fmt.Errorf("解析目标表格失败: %w", err)
		}
		return store, nil, nil

	case config.StoreDriverXLSX:
		return repository.NewXLSXStore(&cfg.XLSX, logger), nil, nil

	case config.StoreDriverPostgres:
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresStore(db), db, nil

	default:
		return nil, nil, fmt.Errorf("未知的 store.driver %q", cfg.Store.Driver)
	}
}
