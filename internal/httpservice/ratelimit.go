package httpservice

import (
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// maxTrackedClients 限流器最多跟踪的客户端 IP 数，超出后淘汰最久未访问的
const maxTrackedClients = 4096

// LoginLimiter 按客户端 IP 的登录限流器（令牌桶）
type LoginLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	interval time.Duration
	burst    int
}

// NewLoginLimiter 创建限流器，perMinute <= 0 时返回 nil（不限流）
func NewLoginLimiter(perMinute, burst int) (*LoginLimiter, error) {
	if perMinute <= 0 {
		return nil, nil
	}
	if burst < 1 {
		burst = 1
	}
	limiters, err := lru.New[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		return nil, err
	}
	return &LoginLimiter{
		limiters: limiters,
		interval: time.Minute / time.Duration(perMinute),
		burst:    burst,
	}, nil
}

// Allow 检查该 IP 是否还有配额
func (l *LoginLimiter) Allow(ip string) bool {
	return l.limiter(ip).Allow()
}

func (l *LoginLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters.Get(ip); ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(l.interval), l.burst)
	l.limiters.Add(ip, lim)
	return lim
}

// retryAfter 建议的重试间隔（秒）
func (l *LoginLimiter) retryAfter() int {
	secs := int(math.Ceil(l.interval.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// ClientIP 取连接的对端地址（不含端口），不信任可被伪造的转发头
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
