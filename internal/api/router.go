package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kevinluo6191/XDNMB/internal/api/mgt"
	v1 "github.com/kevinluo6191/XDNMB/internal/api/v1"
	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/core/runtime"
	"github.com/kevinluo6191/XDNMB/internal/middleware"
	"github.com/kevinluo6191/XDNMB/internal/service"
)

// RouterConfig 路由依赖
type RouterConfig struct {
	Config  *config.Config
	SDK     *service.XdSDK
	Runtime *runtime.Runtime
	// Ping checks the cache store for /health.
	Ping func(ctx context.Context) error
}

// NewRouter 注册全部路由
func NewRouter(rc *RouterConfig) *gin.Engine {
	cfg := rc.Config

	forumV1Handler := v1.NewForumHandler(rc.SDK)
	threadV1Handler := v1.NewThreadHandler(rc.SDK)
	toolV1Handler := v1.NewToolHandler(rc.SDK)

	cookieMgtHandler := mgt.NewCookieHandler(rc.SDK)
	historyMgtHandler := mgt.NewHistoryHandler(rc.SDK)
	cacheMgtHandler := mgt.NewCacheHandler(rc.SDK)

	rateLimiter := middleware.NewIPLimiter(cfg.Security.RateLimit, time.Minute)

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RateLimitMW(rateLimiter))

	// Health Check (跳过 IP 检查)
	router.GET("/health", func(c *gin.Context) {
		if rc.Ping != nil {
			if err := rc.Ping(c.Request.Context()); err != nil {
				c.JSON(503, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		}
		if rc.Runtime != nil {
			body["runtime"] = rc.Runtime.Status()
		}
		c.JSON(200, body)
	})

	// Runtime Status
	router.GET("/runtime", func(c *gin.Context) {
		if rc.Runtime == nil {
			c.JSON(503, gin.H{"status": "runtime not initialized"})
			return
		}
		c.JSON(200, gin.H{"status": rc.Runtime.Status()})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public API (v1)
	v1Group := router.Group("/api/v1")
	v1Group.Use(middleware.PublicWhitelistMW(&cfg.Security))
	v1Group.Use(middleware.TimeoutMiddleware(cfg.API.GetTimeout() * 2))
	{
		v1Group.GET("/forums", forumV1Handler.List)
		v1Group.GET("/forum/:fid/name", forumV1Handler.Name)
		v1Group.GET("/forum/:fid/threads", forumV1Handler.Threads)

		v1Group.GET("/timeline", threadV1Handler.Timeline)
		v1Group.GET("/thread/:tid", threadV1Handler.Get)
		v1Group.GET("/history", threadV1Handler.History)
		v1Group.GET("/history/:tid", threadV1Handler.HistoryThread)

		v1Group.GET("/image", toolV1Handler.Image)
		v1Group.GET("/time", toolV1Handler.Time)
	}

	// Management API (mgt) - 强制 IP 白名单 + JWT
	mgtGroup := router.Group("/api/mgt")
	mgtGroup.Use(middleware.AdminWhitelistMW(&cfg.Security))
	mgtGroup.Use(middleware.JWTMW(&cfg.JWT))
	{
		mgtGroup.GET("/cookies", cookieMgtHandler.List)
		mgtGroup.POST("/cookies", cookieMgtHandler.Add)
		mgtGroup.GET("/cookies/selected", cookieMgtHandler.Selected)
		mgtGroup.DELETE("/cookies/:cookie", cookieMgtHandler.Delete)

		mgtGroup.DELETE("/history", historyMgtHandler.Clear)
		mgtGroup.DELETE("/history/:tid/:page", historyMgtHandler.ClearThread)

		mgtGroup.POST("/cache/flush", cacheMgtHandler.Flush)
	}

	return router
}
