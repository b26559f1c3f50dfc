package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// 错误定义
var (
	ErrRandomFailed = errors.New("failed to generate random bytes")
)

// GenerateRandomBytes 生成指定长度的随机字节
func GenerateRandomBytes(length int) ([]byte, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return nil, ErrRandomFailed
	}
	return bytes, nil
}

// GenerateRandomHex 生成 length 个随机字节并以十六进制编码（结果长度为 2*length）
func GenerateRandomHex(length int) (string, error) {
	bytes, err := GenerateRandomBytes(length)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
