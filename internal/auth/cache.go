package auth

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize 已验证令牌缓存的默认容量
const DefaultCacheSize = 256

// tokenCache 以完整令牌字符串为键的 LRU 缓存，命中时仍需检查过期时间
type tokenCache struct {
	entries *lru.Cache[string, TokenInfo]
}

func newTokenCache(size int) (*tokenCache, error) {
	entries, err := lru.New[string, TokenInfo](size)
	if err != nil {
		return nil, err
	}
	return &tokenCache{entries: entries}, nil
}

func (c *tokenCache) get(token string) (TokenInfo, bool) {
	return c.entries.Get(token)
}

func (c *tokenCache) put(token string, info TokenInfo) {
	c.entries.Add(token, info)
}

func (c *tokenCache) remove(token string) {
	c.entries.Remove(token)
}

func (c *tokenCache) len() int {
	return c.entries.Len()
}
