package metrics

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// MemoryMetrics 内存指标实现
type MemoryMetrics struct {
	counters map[string]*int64
	mu       sync.RWMutex
}

// NewMemoryMetrics 创建内存指标收集器
func NewMemoryMetrics() *MemoryMetrics {
	return &MemoryMetrics{
		counters: make(map[string]*int64),
	}
}

// IncrementCounter 增加计数器
func (m *MemoryMetrics) IncrementCounter(name string, labels map[string]string) {
	key := buildKey(name, labels)

	m.mu.RLock()
	counter, exists := m.counters[key]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		if counter, exists = m.counters[key]; !exists {
			var val int64
			counter = &val
			m.counters[key] = counter
		}
		m.mu.Unlock()
	}
	atomic.AddInt64(counter, 1)
}

// GetCounter 获取计数器值
func (m *MemoryMetrics) GetCounter(name string, labels map[string]string) int64 {
	key := buildKey(name, labels)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if counter, exists := m.counters[key]; exists {
		return atomic.LoadInt64(counter)
	}
	return 0
}

// Snapshot 返回所有计数器的副本
func (m *MemoryMetrics) Snapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64, len(m.counters))
	for key, counter := range m.counters {
		out[key] = atomic.LoadInt64(counter)
	}
	return out
}

// buildKey 构建指标键名
func buildKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	// 按标签键名排序，确保相同标签集合生成相同的 key
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := name
	for _, k := range keys {
		key = fmt.Sprintf("%s{%s=%s}", key, k, labels[k])
	}
	return key
}

// StatusClass 将状态码归类为 1xx..5xx
func StatusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}
