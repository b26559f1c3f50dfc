package constants

// HTTP头部常量
const (
	HTTPHeaderContentType     = "Content-Type"
	HTTPHeaderAuthorization   = "Authorization"
	HTTPHeaderWWWAuthenticate = "WWW-Authenticate"
	HTTPHeaderXRequestID      = "X-Request-ID"
	HTTPHeaderXForwardedFor   = "X-Forwarded-For"
	HTTPHeaderXRealIP         = "X-Real-IP"
	HTTPHeaderRetryAfter      = "Retry-After"
)

// Content-Type常量
const (
	ContentTypeJSON           = "application/json"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeMultipartForm  = "multipart/form-data"
)

// 认证方案
const (
	AuthSchemeBearer = "Bearer"
	TokenTypeBearer  = "bearer"
)

// 响应消息常量，保持与现有前端一致
const (
	ResponseMsgIncorrectCredentials = "Incorrect username or password"
	ResponseMsgInvalidCredentials   = "Could not validate credentials"
	ResponseMsgNotImplemented       = "Not Implemented"
	ResponseMsgTooManyRequests      = "Too many login attempts"
	ResponseMsgBadRequest           = "Invalid form data"
	ResponseMsgInternalError        = "Internal server error"
)

// API路径常量
const (
	APIPathToken   = "/token"
	APIPathMenu    = "/menu"
	APIPathHealthz = "/healthz"
)
