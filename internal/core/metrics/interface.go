package metrics

// Metrics 指标收集接口
// 单进程使用内存实现；计数器按名称与标签集合区分
type Metrics interface {
	// IncrementCounter 计数器加一
	IncrementCounter(name string, labels map[string]string)

	// GetCounter 读取计数器当前值，不存在时为 0
	GetCounter(name string, labels map[string]string) int64

	// Snapshot 返回所有计数器的副本，键为 name{label=value}
	Snapshot() map[string]int64
}

// 指标名称
const (
	// HTTPRequests 处理完成的 HTTP 请求，标签 status 为状态码类别（2xx/4xx/5xx）
	HTTPRequests = "http_requests_total"

	// LoginAttempts 登录尝试，标签 result 为 success 或 failure
	LoginAttempts = "login_attempts_total"

	// AuthRejected 被认证中间件拒绝的请求
	AuthRejected = "auth_rejected_total"

	// LoginRateLimited 被登录限流拒绝的请求
	LoginRateLimited = "login_rate_limited_total"
)

// 标签
const (
	LabelStatus = "status"
	LabelResult = "result"

	ResultSuccess = "success"
	ResultFailure = "failure"
)
