// Package menu 资源监控页面入口，目前只保留认证关口
package menu

import (
	"net/http"

	"github.com/gorilla/mux"

	"msts/internal/constants"
	coreerrors "msts/internal/core/errors"
	"msts/internal/httpservice"
)

// MenuModule /menu 路由模块
type MenuModule struct {
	deps *httpservice.ModuleDependencies
}

// NewModule 创建模块
func NewModule() *MenuModule {
	return &MenuModule{}
}

// Name 返回模块名称
func (m *MenuModule) Name() string {
	return "Menu"
}

// SetDependencies 注入依赖
func (m *MenuModule) SetDependencies(deps *httpservice.ModuleDependencies) {
	m.deps = deps
}

// RegisterRoutes 注册路由，所有路由都需要有效令牌
func (m *MenuModule) RegisterRoutes(router *mux.Router) {
	handler := m.deps.RequireAuth(http.HandlerFunc(m.handleMenu))
	router.Handle(constants.APIPathMenu, handler).Methods(http.MethodGet)
}

// handleMenu 认证通过后返回 501
func (m *MenuModule) handleMenu(w http.ResponseWriter, r *http.Request) {
	m.deps.Logger.WithFields(map[string]interface{}{
		constants.LogFieldRequestID: httpservice.RequestIDFromContext(r.Context()),
		constants.LogFieldSubject:   httpservice.SubjectFromContext(r.Context()),
	}).Debug("menu requested")
	httpservice.RespondError(w, coreerrors.ErrNotImplemented)
}
