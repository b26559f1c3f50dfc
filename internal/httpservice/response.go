package httpservice

import (
	"encoding/json"
	"errors"
	"net/http"

	"msts/internal/constants"
	coreerrors "msts/internal/core/errors"
)

// DetailResponse 错误响应体，格式为 {"detail": "..."}
type DetailResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// RespondJSON 发送 JSON 响应
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set(constants.HTTPHeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondDetail 发送 {"detail": ...} 错误响应
func RespondDetail(w http.ResponseWriter, statusCode int, detail string) {
	RespondJSON(w, statusCode, DetailResponse{Detail: detail})
}

// RespondUnauthorized 发送 401 并附带 Bearer 质询头
func RespondUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set(constants.HTTPHeaderWWWAuthenticate, constants.AuthSchemeBearer)
	RespondDetail(w, http.StatusUnauthorized, detail)
}

// RespondError 按错误码转换为 HTTP 响应，不向调用方暴露内部细节
func RespondError(w http.ResponseWriter, err error) {
	switch coreerrors.GetCode(err) {
	case coreerrors.CodeInvalidCredentials:
		RespondUnauthorized(w, constants.ResponseMsgIncorrectCredentials)
	case coreerrors.CodeInvalidToken, coreerrors.CodeUnauthorizedSubject:
		RespondUnauthorized(w, constants.ResponseMsgInvalidCredentials)
	case coreerrors.CodeInvalidRequest:
		RespondDetail(w, http.StatusBadRequest, requestErrorDetail(err))
	case coreerrors.CodeRateLimited:
		RespondDetail(w, http.StatusTooManyRequests, constants.ResponseMsgTooManyRequests)
	case coreerrors.CodeNotImplemented:
		RespondDetail(w, http.StatusNotImplemented, constants.ResponseMsgNotImplemented)
	default:
		RespondDetail(w, http.StatusInternalServerError, constants.ResponseMsgInternalError)
	}
}

// requestErrorDetail 请求错误的消息由处理器给出，可以直接返回给客户端
func requestErrorDetail(err error) string {
	var e *coreerrors.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return constants.ResponseMsgBadRequest
}
