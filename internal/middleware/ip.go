package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/core/logger"
)

// ipChecker IP 检查器（支持 CIDR）
type ipChecker struct {
	allowNets []*net.IPNet
	denyNets  []*net.IPNet
	allowSet  map[string]bool
	denySet   map[string]bool
}

// newIPChecker 创建 IP 检查器
func newIPChecker(cfg *config.SecurityConfig) *ipChecker {
	c := &ipChecker{
		allowSet: make(map[string]bool),
		denySet:  make(map[string]bool),
	}
	c.allowNets = parseList(cfg.AllowIPs, c.allowSet)
	c.denyNets = parseList(cfg.DenyIPs, c.denySet)
	return c
}

func parseList(ips []string, set map[string]bool) []*net.IPNet {
	var nets []*net.IPNet
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip == "" {
			continue
		}
		if _, n, err := net.ParseCIDR(ip); err == nil {
			nets = append(nets, n)
		} else {
			set[ip] = true
		}
	}
	return nets
}

// isLocalIP 回环或内网地址
func isLocalIP(ipStr string) bool {
	if ipStr == "localhost" {
		return true
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate()
}

func (c *ipChecker) denied(ipStr string, ip net.IP) bool {
	if c.denySet[ipStr] {
		return true
	}
	for _, n := range c.denyNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// isAllowed 黑名单优先，其次本地地址，最后白名单
func (c *ipChecker) isAllowed(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ipStr == "localhost" && !c.denySet[ipStr]
	}
	if c.denied(ipStr, ip) {
		return false
	}
	if isLocalIP(ipStr) {
		return true
	}
	if c.allowSet[ipStr] {
		return true
	}
	for _, n := range c.allowNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// PublicWhitelistMW Public API 白名单中间件
// No allow list configured means every non-denied address passes.
func PublicWhitelistMW(cfg *config.SecurityConfig) gin.HandlerFunc {
	checker := newIPChecker(cfg)
	open := len(cfg.AllowIPs) == 0

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		ip := net.ParseIP(clientIP)
		if ip != nil && checker.denied(clientIP, ip) {
			deny(c, clientIP)
			return
		}
		if open || checker.isAllowed(clientIP) {
			c.Next()
			return
		}
		deny(c, clientIP)
	}
}

// AdminWhitelistMW 管理接口白名单中间件：本地地址与白名单放行，其余拒绝
func AdminWhitelistMW(cfg *config.SecurityConfig) gin.HandlerFunc {
	checker := newIPChecker(cfg)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if checker.isAllowed(clientIP) {
			c.Next()
			return
		}
		deny(c, clientIP)
	}
}

func deny(c *gin.Context, clientIP string) {
	logger.Warn("access denied: IP not in whitelist",
		logger.String("ip", clientIP),
		logger.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code": 403,
		"msg":  "access denied: IP not in whitelist",
	})
}

// IPLimiter IP频率限制器（滑动窗口）
type IPLimiter struct {
	mu        sync.Mutex
	visits    map[string][]int64
	limit     int
	window    time.Duration
	lastSweep int64
	now       func() time.Time
}

// NewIPLimiter 创建IP限制器，limit <= 0 表示不限制
func NewIPLimiter(limit int, window time.Duration) *IPLimiter {
	return &IPLimiter{
		visits: make(map[string][]int64),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow 检查是否允许访问
func (l *IPLimiter) Allow(ip string) bool {
	if l.limit <= 0 {
		return true
	}
	now := l.now().UnixNano()
	cutoff := now - int64(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	valid := l.visits[ip][:0]
	for _, ts := range l.visits[ip] {
		if ts > cutoff {
			valid = append(valid, ts)
		}
	}
	if len(valid) >= l.limit {
		l.visits[ip] = valid
		return false
	}
	if now-l.lastSweep > int64(l.window) {
		l.sweep(cutoff)
		l.lastSweep = now
	}
	l.visits[ip] = append(valid, now)
	return true
}

// sweep drops clients whose last visit fell out of the window. Caller holds mu.
func (l *IPLimiter) sweep(cutoff int64) {
	for ip, ts := range l.visits {
		if len(ts) == 0 || ts[len(ts)-1] <= cutoff {
			delete(l.visits, ip)
		}
	}
}

// Len 当前跟踪的 IP 数
func (l *IPLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visits)
}

// RateLimitMW 频率限制中间件
func RateLimitMW(limiter *IPLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !limiter.Allow(ip) {
			logger.Warn("rate limit exceeded",
				logger.String("ip", ip),
				logger.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": 429,
				"msg":  "too many requests",
			})
			return
		}

		c.Next()
	}
}
