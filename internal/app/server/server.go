// Package server 组装 msts 服务进程：认证服务 + HTTP 服务 + 生命周期管理
package server

import (
	"context"
	"io"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"msts/internal/auth"
	"msts/internal/config"
	corelog "msts/internal/core/log"
	"msts/internal/httpservice"
	"msts/internal/httpservice/modules/menu"
	"msts/internal/httpservice/modules/tokenapi"
)

// shutdownTimeout 优雅关闭等待进行中请求的时间
const shutdownTimeout = 5 * time.Second

// Options 服务器选项
type Options struct {
	// ConfigPath 配置文件路径（仅用于展示）
	ConfigPath string

	// Listen 覆盖配置中的 http.listen
	Listen string

	Logger corelog.Logger

	// Banner 启动横幅输出，为 nil 时不显示
	Banner io.Writer
}

// Server 服务器结构
type Server struct {
	config     *config.Config
	configPath string
	listenAddr string
	auth       *auth.Service
	http       *httpservice.HTTPService
	logger     corelog.Logger
	banner     io.Writer
}

// New 创建新服务器
func New(cfg *config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = corelog.Default()
	}

	authSvc, err := auth.NewService(cfg, auth.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	httpCfg := httpservice.ConfigFromSettings(cfg.HTTP)
	if opts.Listen != "" {
		httpCfg.ListenAddr = opts.Listen
	}

	httpSvc, err := httpservice.NewHTTPService(httpCfg, authSvc, logger)
	if err != nil {
		return nil, err
	}
	httpSvc.RegisterModule(tokenapi.NewModule())
	httpSvc.RegisterModule(menu.NewModule())

	return &Server{
		config:     cfg,
		configPath: opts.ConfigPath,
		listenAddr: httpCfg.ListenAddr,
		auth:       authSvc,
		http:       httpSvc,
		logger:     logger,
		banner:     opts.Banner,
	}, nil
}

// Auth 返回认证服务
func (s *Server) Auth() *auth.Service {
	return s.auth
}

// Run 监听配置的地址并运行，直到 ctx 被取消
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve 在 ln 上运行 HTTP 服务；ctx 取消后优雅关闭
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.banner != nil {
		s.DisplayStartupBanner(s.banner, ln.Addr().String())
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.http.Serve(ln)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	fields := make(map[string]interface{})
	for name, value := range s.http.Metrics().Snapshot() {
		fields[name] = value
	}
	s.logger.WithFields(fields).Info("Server: stopped")
	return nil
}
