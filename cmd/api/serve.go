package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kevinluo6191/XDNMB/internal/api"
	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/core/database"
	"github.com/kevinluo6191/XDNMB/internal/core/logger"
	"github.com/kevinluo6191/XDNMB/internal/core/runtime"
	"github.com/kevinluo6191/XDNMB/internal/core/snowflake"
	"github.com/kevinluo6191/XDNMB/internal/pkg/pool"
	"github.com/kevinluo6191/XDNMB/internal/repository"
	"github.com/kevinluo6191/XDNMB/internal/service"
	"github.com/kevinluo6191/XDNMB/internal/xdapi"
)

func newServeCommand() *cobra.Command {
	var pprofAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the local JSON bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Get(), pprofAddr)
		},
	}
	cmd.Flags().StringVar(&pprofAddr, "pprof", "", "pprof listen address, e.g. localhost:6060")
	return cmd
}

// openRedis returns a live client, or nil when redis is disabled or unreachable.
func openRedis(ctx context.Context, cfg *config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without L2", logger.ErrorField(err))
		client.Close()
		return nil
	}
	return client
}

func serve(ctx context.Context, cfg *config.Config, pprofAddr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Info("Starting xdnmb bridge...")

	// 1. 初始化缓存库 (SQLite)
	if err := database.Init(&cfg.Database); err != nil {
		return err
	}
	defer database.Close()

	// 2. 初始化 Redis (可选 L2 Cache)
	redisClient := openRedis(ctx, &cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 3. 初始化 L1 Cache
	l1, err := pool.NewBigCache(cfg.Cache.L1Cap, 24*time.Hour)
	if err != nil {
		return err
	}
	defer l1.Close()

	// 4. 初始化 Snowflake
	if err := snowflake.Init(&cfg.Snowflake); err != nil {
		return err
	}

	// 5. 初始化 Repository / Service
	repos := repository.NewRepositories(database.Get())
	names := service.NewForumNameCache(repos.Forum, l1, redisClient, cfg.Cache.GetL2TTL())
	sdk := service.NewXdSDK(xdapi.New(&cfg.API), repos, names, &cfg.API)

	// 6. Runtime 预热
	rtConfig := &runtime.RuntimeConfig{Repos: repos, Names: names}
	if err := runtime.Init(ctx, rtConfig); err != nil {
		logger.Error("Failed to init runtime", logger.ErrorField(err))
	}
	logger.Info("Runtime warmup: " + runtime.WarmUpLog())

	// 7. 注册路由
	gin.SetMode(cfg.App.Mode)
	router := api.NewRouter(&api.RouterConfig{
		Config:  cfg,
		SDK:     sdk,
		Runtime: runtime.Get(),
		Ping:    func(ctx context.Context) error { return database.Get().PingContext(ctx) },
	})

	// 8. 启动 HTTP Server
	srv := &http.Server{
		Addr:              cfg.App.GetServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", logger.ErrorField(err))
		}
	}()

	// pprof Server (可选，用于性能分析)
	if pprofAddr != "" {
		go func() {
			logger.Info("PProf server starting", logger.String("addr", pprofAddr))
			if err := http.ListenAndServe(pprofAddr, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("PProf server error", logger.ErrorField(err))
			}
		}()
	}

	// Graceful shutdown (优雅关闭)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server exited gracefully")
	return nil
}
