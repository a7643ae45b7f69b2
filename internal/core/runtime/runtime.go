package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kevinluo6191/XDNMB/internal/core/logger"
	"github.com/kevinluo6191/XDNMB/internal/repository"
	"github.com/kevinluo6191/XDNMB/internal/service"
)

// Runtime 运行时数据管理
// Warm-up reads the local cache store only; it never touches the network.
type Runtime struct {
	groupCount  int
	forumCount  int
	primed      int
	historySize int
	cookieCount int
	mu          sync.RWMutex
	loadedAt    time.Time
}

// Singleton instance
var rt *Runtime
var once sync.Once

// RuntimeConfig Runtime 配置
type RuntimeConfig struct {
	Repos *repository.Repositories
	Names *service.ForumNameCache
}

// Init 初始化 Runtime
func Init(ctx context.Context, cfg *RuntimeConfig) error {
	var initErr error
	once.Do(func() {
		rt = &Runtime{}
		initErr = rt.warmup(ctx, cfg)
	})
	return initErr
}

// Get 获取 Runtime 实例
func Get() *Runtime {
	return rt
}

// New 创建独立的 Runtime（不经过单例）
func New() *Runtime {
	return &Runtime{}
}

// warmup 预热数据
func (r *Runtime) warmup(ctx context.Context, cfg *RuntimeConfig) error {
	start := time.Now()
	logger.Info("runtime warmup started")

	// 1. 版块树 -> 版块名 L1
	groups, err := cfg.Repos.Forum.GetAll(ctx)
	if err != nil {
		logger.Error("warmup forum list failed", logger.ErrorField(err))
		return err
	}
	forums := 0
	for _, g := range groups {
		forums += len(g.Forums)
	}
	primed := 0
	if cfg.Names != nil {
		primed = cfg.Names.Prime(groups)
	}
	logger.Info("warmup forum list",
		logger.Int("groups", len(groups)),
		logger.Int("forums", forums),
		logger.Int("primed", primed))

	// 2. 浏览记录与饼干只计数
	history, err := cfg.Repos.History.GetAll(ctx)
	if err != nil {
		logger.Error("warmup history failed", logger.ErrorField(err))
		return err
	}
	cookies, err := cfg.Repos.Cookie.GetAll(ctx)
	if err != nil {
		logger.Error("warmup cookies failed", logger.ErrorField(err))
		return err
	}

	r.mu.Lock()
	r.groupCount = len(groups)
	r.forumCount = forums
	r.primed = primed
	r.historySize = len(history)
	r.cookieCount = len(cookies)
	r.loadedAt = time.Now()
	r.mu.Unlock()

	logger.Info("runtime warmup completed", logger.Duration("duration", time.Since(start)))
	return nil
}

// Reload 重新加载所有运行时数据
func (r *Runtime) Reload(ctx context.Context, cfg *RuntimeConfig) error {
	return r.warmup(ctx, cfg)
}

// GetLoadedAt 获取加载时间
func (r *Runtime) GetLoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// FormatLoadedTime 格式化加载时间
func (r *Runtime) FormatLoadedTime() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt.Format("2006-01-02 15:04:05")
}

// Status 返回运行时状态
func (r *Runtime) Status() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string]interface{}{
		"group_count":   r.groupCount,
		"forum_count":   r.forumCount,
		"names_primed":  r.primed,
		"history_count": r.historySize,
		"cookie_count":  r.cookieCount,
		"loaded_at":     r.loadedAt.Format("2006-01-02 15:04:05"),
	}
}

// WarmUpLog 预热日志
func WarmUpLog() string {
	if rt == nil {
		return "runtime not initialized"
	}
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return fmt.Sprintf("Groups: %d, Forums: %d, History: %d, Loaded: %s",
		rt.groupCount, rt.forumCount, rt.historySize, rt.loadedAt.Format("2006-01-02 15:04:05"))
}
