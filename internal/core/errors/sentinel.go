package errors

// 预定义哨兵错误（用于 errors.Is 比较）
// 这些错误用于快速类型检查，不包含详细信息
var (
	// 配置相关
	ErrConfigParse  = New(CodeConfigParse, "configuration is not valid TOML")
	ErrConfigSchema = New(CodeConfigSchema, "configuration does not match schema")
	ErrConfigIO     = New(CodeConfigIO, "configuration file access failed")

	// 认证相关
	ErrInvalidCredentials  = New(CodeInvalidCredentials, "incorrect username or password")
	ErrInvalidToken        = New(CodeInvalidToken, "invalid token")
	ErrUnauthorizedSubject = New(CodeUnauthorizedSubject, "token subject is not the administrator")

	// 请求错误
	ErrInvalidRequest = New(CodeInvalidRequest, "Invalid form data")
	ErrRateLimited    = New(CodeRateLimited, "rate limit exceeded")

	// 系统错误
	ErrNotImplemented = New(CodeNotImplemented, "not implemented")
)

// 错误检查辅助函数

// IsConfigError 检查是否为配置错误（启动期致命）
func IsConfigError(err error) bool {
	return IsCode(err, CodeConfigParse) ||
		IsCode(err, CodeConfigSchema) ||
		IsCode(err, CodeConfigIO)
}

// IsAuthError 检查是否为认证错误
// 对外统一表现为 401，不区分具体原因
func IsAuthError(err error) bool {
	return IsCode(err, CodeInvalidCredentials) ||
		IsCode(err, CodeInvalidToken) ||
		IsCode(err, CodeUnauthorizedSubject)
}
