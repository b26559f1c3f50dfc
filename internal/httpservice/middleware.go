package httpservice

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"msts/internal/auth"
	"msts/internal/constants"
	coreerrors "msts/internal/core/errors"
	corelog "msts/internal/core/log"
	"msts/internal/core/metrics"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	subjectKey
)

// RequestIDFromContext 返回当前请求 ID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// SubjectFromContext 返回认证中间件写入的令牌主体
func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey).(string)
	return sub
}

// statusRecorder 记录响应状态码
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestIDMiddleware 请求ID中间件
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constants.HTTPHeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(constants.HTTPHeaderXRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))
	})
}

// loggingMiddleware 日志中间件
func loggingMiddleware(logger corelog.Logger, m metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			// 调用下一个处理器
			next.ServeHTTP(rec, r)
			m.IncrementCounter(metrics.HTTPRequests, map[string]string{
				metrics.LabelStatus: metrics.StatusClass(rec.status),
			})

			entry := logger.WithFields(map[string]interface{}{
				constants.LogFieldRequestID: RequestIDFromContext(r.Context()),
				constants.LogFieldMethod:    r.Method,
				constants.LogFieldPath:      r.URL.Path,
				constants.LogFieldStatus:    rec.status,
				constants.LogFieldDuration:  time.Since(start).String(),
				constants.LogFieldIPAddress: ClientIP(r),
			})
			if rec.status >= http.StatusInternalServerError {
				entry.Warn("HTTP request failed")
			} else {
				entry.Debug("HTTP request")
			}
		})
	}
}

// bodySizeLimitMiddleware 请求体大小限制中间件
func bodySizeLimitMiddleware(maxBytes int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken 从 Authorization 头中取出 Bearer 令牌，方案名大小写不敏感
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get(constants.HTTPHeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.AuthSchemeBearer) {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// authMiddleware 认证中间件
// 缺失、格式错误、过期、签名不符或主体不是管理员，一律返回相同的 401
func authMiddleware(svc *auth.Service, logger corelog.Logger, m metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				m.IncrementCounter(metrics.AuthRejected, nil)
				RespondUnauthorized(w, constants.ResponseMsgInvalidCredentials)
				return
			}

			info, err := svc.Inspect(token)
			if err != nil {
				m.IncrementCounter(metrics.AuthRejected, nil)
				entry := logger.WithField(constants.LogFieldRequestID, RequestIDFromContext(r.Context())).WithError(err)
				if coreerrors.IsAuthError(err) {
					entry.Debug("bearer token rejected")
				} else {
					entry.Error("bearer token check failed")
				}
				RespondUnauthorized(w, constants.ResponseMsgInvalidCredentials)
				return
			}

			// 认证成功，继续处理
			ctx := context.WithValue(r.Context(), subjectKey, info.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// loginRateLimitMiddleware 登录限流中间件，limiter 为 nil 时直接放行
func loginRateLimitMiddleware(limiter *LoginLimiter, logger corelog.Logger, m metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !limiter.Allow(ip) {
				m.IncrementCounter(metrics.LoginRateLimited, nil)
				logger.WithField(constants.LogFieldIPAddress, ip).Warn("login rate limit exceeded")
				w.Header().Set(constants.HTTPHeaderRetryAfter, strconv.Itoa(limiter.retryAfter()))
				RespondError(w, coreerrors.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
