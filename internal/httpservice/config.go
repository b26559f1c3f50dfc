package httpservice

import (
	"time"

	"msts/internal/config"
)

// HTTPServiceConfig HTTP 服务配置
type HTTPServiceConfig struct {
	ListenAddr string

	// 登录限流：每个客户端 IP 每分钟允许的 /token 请求数，0 表示不限
	LoginRateLimit int
	LoginBurst     int

	MaxBodySize    int64 // 请求体大小上限（字节）
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// DefaultHTTPServiceConfig 返回默认配置
func DefaultHTTPServiceConfig() *HTTPServiceConfig {
	return &HTTPServiceConfig{
		ListenAddr:     "127.0.0.1:8000",
		LoginBurst:     5,
		MaxBodySize:    64 << 10,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
	}
}

// ConfigFromSettings 由配置文件的 [http] 段生成服务配置
func ConfigFromSettings(settings config.HTTPConfig) *HTTPServiceConfig {
	cfg := DefaultHTTPServiceConfig()
	if settings.Listen != "" {
		cfg.ListenAddr = settings.Listen
	}
	cfg.LoginRateLimit = settings.LoginRateLimit
	if settings.LoginBurst > 0 {
		cfg.LoginBurst = settings.LoginBurst
	}
	return cfg
}
