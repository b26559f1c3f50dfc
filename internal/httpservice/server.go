package httpservice

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"msts/internal/auth"
	"msts/internal/constants"
	corelog "msts/internal/core/log"
	"msts/internal/core/metrics"
	"msts/internal/version"
)

// HTTPService 统一 HTTP 服务
// 管理所有 HTTP 模块，提供统一的入口
type HTTPService struct {
	config  *HTTPServiceConfig
	router  *mux.Router
	server  *http.Server
	modules []HTTPModule
	deps    *ModuleDependencies
	logger  corelog.Logger
	metrics *metrics.MemoryMetrics

	routesOnce sync.Once
}

// NewHTTPService 创建统一 HTTP 服务
func NewHTTPService(config *HTTPServiceConfig, authSvc *auth.Service, logger corelog.Logger) (*HTTPService, error) {
	if config == nil {
		config = DefaultHTTPServiceConfig()
	}
	if logger == nil {
		logger = corelog.Default()
	}

	limiter, err := NewLoginLimiter(config.LoginRateLimit, config.LoginBurst)
	if err != nil {
		return nil, err
	}

	s := &HTTPService{
		config:  config,
		router:  mux.NewRouter(),
		modules: make([]HTTPModule, 0),
		logger:  logger,
		metrics: metrics.NewMemoryMetrics(),
	}

	// 初始化依赖
	s.deps = &ModuleDependencies{
		Auth:        authSvc,
		Logger:      logger,
		Metrics:     s.metrics,
		RequireAuth: authMiddleware(authSvc, logger, s.metrics),
		LimitLogin:  loginRateLimitMiddleware(limiter, logger, s.metrics),
	}

	// 创建 HTTP 服务器
	maxHeaderBytes := config.MaxHeaderBytes
	if maxHeaderBytes <= 0 {
		maxHeaderBytes = 1 << 20 // 默认 1MB
	}
	s.server = &http.Server{
		Addr:           config.ListenAddr,
		Handler:        s.router,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: maxHeaderBytes,
	}

	return s, nil
}

// RegisterModule 注册模块
func (s *HTTPService) RegisterModule(module HTTPModule) {
	if module == nil {
		return
	}

	// 注入依赖
	module.SetDependencies(s.deps)

	// 添加到模块列表
	s.modules = append(s.modules, module)

	s.logger.Debugf("HTTPService: registered module %s", module.Name())
}

// Handler 返回完整路由（首次调用时注册所有路由）
func (s *HTTPService) Handler() http.Handler {
	s.routesOnce.Do(s.setupRoutes)
	return s.router
}

func (s *HTTPService) setupRoutes() {
	// 注册通用中间件
	s.router.Use(requestIDMiddleware)
	s.router.Use(loggingMiddleware(s.logger, s.metrics))
	if s.config.MaxBodySize > 0 {
		s.router.Use(bodySizeLimitMiddleware(s.config.MaxBodySize))
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondDetail(w, http.StatusNotFound, "Not Found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// 注册健康检查端点（不需要认证）
	s.router.HandleFunc(constants.APIPathHealthz, s.handleHealthz).Methods(http.MethodGet)

	// 注册各模块路由
	for _, module := range s.modules {
		s.logger.Debugf("HTTPService: registering routes for module %s", module.Name())
		module.RegisterRoutes(s.router)
	}
}

// handleHealthz 健康检查
func (s *HTTPService) handleHealthz(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.GetShortVersion(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// Serve 在给定 listener 上提供服务，直到 Shutdown 被调用
func (s *HTTPService) Serve(ln net.Listener) error {
	s.server.Handler = s.Handler()
	s.logger.Infof("HTTPService: listening on http://%s", ln.Addr())
	for _, module := range s.modules {
		s.logger.Infof("HTTPService: module %s enabled", module.Name())
	}

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭，等待进行中的请求完成
func (s *HTTPService) Shutdown(ctx context.Context) error {
	s.logger.Infof("HTTPService: shutting down...")
	return s.server.Shutdown(ctx)
}

// Metrics 返回请求计数
func (s *HTTPService) Metrics() metrics.Metrics {
	return s.metrics
}
