package server

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"msts/internal/version"
)

const (
	bannerWidth = 60
)

var (
	bannerCyan    = color.New(color.FgCyan).SprintFunc()
	bannerBlue    = color.New(color.FgBlue).SprintFunc()
	bannerMagenta = color.New(color.FgMagenta).SprintFunc()
	bannerBold    = color.New(color.Bold).SprintFunc()
	bannerGreen   = color.New(color.FgGreen).SprintFunc()
	bannerFaint   = color.New(color.Faint).SprintFunc()
)

// DisplayStartupBanner 显示启动信息横幅
func (s *Server) DisplayStartupBanner(w io.Writer, addr string) {
	displayLogo(w)
	displayServerInfo(w, s, addr)
	displayEndpoints(w, addr)
	displayFooter(w)
}

// displayLogo 显示 Logo
func displayLogo(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", bannerCyan(` __  __ ____ _____ ____  `))
	fmt.Fprintf(w, "  %s    %s\n", bannerCyan(`|  \/  / ___|_   _/ ___| `), bannerBold("Minecraft Status Tracking Server"))
	fmt.Fprintf(w, "  %s\n", bannerBlue(`| |\/| \___ \ | | \___ \ `))
	fmt.Fprintf(w, "  %s    %s\n", bannerBlue(`| |  | |___) || |  ___) |`), bannerFaint("Version "+version.GetShortVersion()))
	fmt.Fprintf(w, "  %s\n", bannerMagenta(`|_|  |_|____/ |_| |____/ `))
	fmt.Fprintln(w)
}

// displayServerInfo 显示服务器信息，不输出任何凭据
func displayServerInfo(w io.Writer, s *Server, addr string) {
	fmt.Fprintln(w, bannerBold("  Server Information"))
	fmt.Fprintln(w, bannerFaint("  "+strings.Repeat("─", bannerWidth)))

	cfg := s.config
	loginLimit := "unlimited"
	if cfg.HTTP.LoginRateLimit > 0 {
		loginLimit = fmt.Sprintf("%d/min per IP (burst %d)", cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginBurst)
	}

	infoRows := []struct {
		label string
		value string
	}{
		{"Config File", absPath(s.configPath)},
		{"Start Time", time.Now().Format("2006-01-02 15:04:05")},
		{"Listen", addr},
		{"Token", fmt.Sprintf("%s, %d min", cfg.TokenAuth.Algorithm, cfg.TokenAuth.ExpireMinutes)},
		{"Password", cfg.Admin.PasswordScheme},
		{"Login Limit", loginLimit},
		{"Java", strings.TrimSpace(cfg.Java.Executable + " " + strings.Join(cfg.Java.ExtraArgs, " "))},
		{"Server Jar", cfg.Java.ServerJar},
		{"Log Level", cfg.Log.Level},
	}

	for _, row := range infoRows {
		fmt.Fprintf(w, "  %-18s %s\n", bannerBold(row.label+":"), row.value)
	}
	fmt.Fprintln(w)
}

// displayEndpoints 显示 HTTP 端点
func displayEndpoints(w io.Writer, addr string) {
	fmt.Fprintln(w, bannerBold("  HTTP Endpoints"))
	fmt.Fprintln(w, bannerFaint("  "+strings.Repeat("─", bannerWidth)))

	endpoints := []struct {
		method string
		path   string
		note   string
	}{
		{"POST", "/token", "username/password form"},
		{"GET", "/menu", "bearer token"},
		{"GET", "/healthz", "public"},
	}
	for _, ep := range endpoints {
		fmt.Fprintf(w, "  %-6s http://%s%-10s %s\n", ep.method, addr, ep.path, bannerFaint(ep.note))
	}
	fmt.Fprintln(w)
}

// displayFooter 显示页脚
func displayFooter(w io.Writer) {
	fmt.Fprintln(w, bannerFaint("  "+strings.Repeat("━", bannerWidth)))
	fmt.Fprintf(w, "  %s\n\n", bannerGreen("Server is starting..."))
}

// absPath 转为绝对路径，失败时原样返回
func absPath(p string) string {
	if p == "" {
		return "-"
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
