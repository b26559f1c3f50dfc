package constants

// 日志级别常量
const (
	LogLevelTrace = "trace"
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// 日志字段名常量
const (
	LogFieldRequestID = "request_id"
	LogFieldTokenID   = "token_id"
	LogFieldSubject   = "subject"
	LogFieldIPAddress = "ip_address"
	LogFieldError     = "error"
	LogFieldDuration  = "duration"
	LogFieldStatus    = "status"
	LogFieldMethod    = "method"
	LogFieldPath      = "path"
	LogFieldConfig    = "config_path"
)

// 日志格式常量
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// 日志输出常量
const (
	LogOutputStdout = "stdout"
	LogOutputStderr = "stderr"
	LogOutputFile   = "file"
)
