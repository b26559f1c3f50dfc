package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"msts/internal/config"
	coreerrors "msts/internal/core/errors"
)

// PasswordMatcher 校验提交的密码是否与配置中存储的管理员密码一致
type PasswordMatcher interface {
	Match(password string) bool
}

// plainMatcher 明文比较（大小写敏感，常量时间）
type plainMatcher struct {
	want []byte
}

func (m plainMatcher) Match(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), m.want) == 1
}

// bcryptMatcher 配置中存储的是 bcrypt 哈希
type bcryptMatcher struct {
	hash []byte
}

func (m bcryptMatcher) Match(password string) bool {
	return bcrypt.CompareHashAndPassword(m.hash, []byte(password)) == nil
}

// NewPasswordMatcher 根据 admin.password_scheme 创建密码校验器
func NewPasswordMatcher(scheme string, stored config.Secret) (PasswordMatcher, error) {
	switch scheme {
	case "", config.PasswordSchemePlain:
		return plainMatcher{want: []byte(stored.Value())}, nil
	case config.PasswordSchemeBcrypt:
		if _, err := bcrypt.Cost([]byte(stored.Value())); err != nil {
			return nil, coreerrors.Wrap(err, coreerrors.CodeConfigSchema, "admin password is not a bcrypt hash")
		}
		return bcryptMatcher{hash: []byte(stored.Value())}, nil
	default:
		return nil, coreerrors.Newf(coreerrors.CodeConfigSchema, "unsupported password scheme %q", scheme)
	}
}

// HashPassword 生成 bcrypt 哈希，cost 为 0 时使用默认值
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", coreerrors.Wrap(err, coreerrors.CodeInvalidParam, "hash password")
	}
	return string(hash), nil
}
