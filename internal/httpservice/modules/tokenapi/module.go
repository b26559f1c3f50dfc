// Package tokenapi 提供 OAuth2 密码模式的令牌端点 POST /token
package tokenapi

import (
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"msts/internal/constants"
	coreerrors "msts/internal/core/errors"
	corelog "msts/internal/core/log"
	"msts/internal/core/metrics"
	"msts/internal/httpservice"
)

// maxMultipartMemory multipart 表单在内存中保留的上限
const maxMultipartMemory = 32 << 10

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenModule 令牌端点模块
type TokenModule struct {
	deps   *httpservice.ModuleDependencies
	logger corelog.Logger
}

// NewModule 创建令牌端点模块
func NewModule() *TokenModule {
	return &TokenModule{}
}

// Name 返回模块名称
func (m *TokenModule) Name() string {
	return "TokenAPI"
}

// SetDependencies 注入依赖
func (m *TokenModule) SetDependencies(deps *httpservice.ModuleDependencies) {
	m.deps = deps
	m.logger = deps.Logger
}

// RegisterRoutes 注册路由
func (m *TokenModule) RegisterRoutes(router *mux.Router) {
	handler := m.deps.LimitLogin(http.HandlerFunc(m.handleToken))
	router.Handle(constants.APIPathToken, handler).Methods(http.MethodPost)
}

// handleToken 用户名密码换取 Bearer 令牌
func (m *TokenModule) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		httpservice.RespondError(w, coreerrors.ErrInvalidRequest)
		return
	}

	// grant_type 可省略，出现时必须为 password
	if grantType := r.PostForm.Get("grant_type"); grantType != "" && grantType != "password" {
		httpservice.RespondError(w, coreerrors.New(coreerrors.CodeInvalidRequest, "Unsupported grant_type"))
		return
	}

	_, hasUser := r.PostForm["username"]
	_, hasPass := r.PostForm["password"]
	if !hasUser || !hasPass {
		httpservice.RespondError(w, coreerrors.New(coreerrors.CodeInvalidRequest, "username and password are required"))
		return
	}

	token, err := m.deps.Auth.Login(r.PostForm.Get("username"), r.PostForm.Get("password"))
	m.countLogin(err == nil)
	if err != nil {
		if coreerrors.IsAuthError(err) {
			m.logger.WithFields(map[string]interface{}{
				constants.LogFieldRequestID: httpservice.RequestIDFromContext(r.Context()),
				constants.LogFieldIPAddress: httpservice.ClientIP(r),
			}).Info("login failed")
		} else {
			m.logger.WithError(err).Error("TokenModule: failed to issue token")
		}
		httpservice.RespondError(w, err)
		return
	}

	m.logger.WithField(constants.LogFieldRequestID, httpservice.RequestIDFromContext(r.Context())).
		Info("administrator logged in")
	httpservice.RespondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   constants.TokenTypeBearer,
	})
}

// countLogin 记录登录结果
func (m *TokenModule) countLogin(ok bool) {
	if m.deps.Metrics == nil {
		return
	}
	result := metrics.ResultFailure
	if ok {
		result = metrics.ResultSuccess
	}
	m.deps.Metrics.IncrementCounter(metrics.LoginAttempts, map[string]string{metrics.LabelResult: result})
}

// parseForm 解析 urlencoded 或 multipart 表单
func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(constants.HTTPHeaderContentType))
	if mediaType == constants.ContentTypeMultipartForm {
		return r.ParseMultipartForm(maxMultipartMemory)
	}
	return r.ParseForm()
}
