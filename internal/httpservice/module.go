// Package httpservice 提供 msts 的 HTTP 服务框架
// 各模块自注册路由，公共依赖（认证服务、认证/限流中间件、日志）统一注入
package httpservice

import (
	"github.com/gorilla/mux"

	"msts/internal/auth"
	corelog "msts/internal/core/log"
	"msts/internal/core/metrics"
)

// HTTPModule HTTP 服务模块接口
type HTTPModule interface {
	// Name 模块名称（用于日志）
	Name() string

	// SetDependencies 注入依赖，在 RegisterRoutes 之前调用
	SetDependencies(deps *ModuleDependencies)

	// RegisterRoutes 注册路由到 router
	RegisterRoutes(router *mux.Router)
}

// ModuleDependencies 模块依赖
type ModuleDependencies struct {
	// Auth 令牌认证服务
	Auth *auth.Service

	// Logger 日志
	Logger corelog.Logger

	// Metrics 请求与登录计数
	Metrics metrics.Metrics

	// RequireAuth 要求有效 Bearer 令牌的中间件
	RequireAuth mux.MiddlewareFunc

	// LimitLogin 登录限流中间件，未启用限流时直接放行
	LimitLogin mux.MiddlewareFunc
}
