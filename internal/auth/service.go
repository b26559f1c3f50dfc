// Package auth 管理员认证与 Bearer 令牌签发/校验
//
// 只有一个管理员账号（来自配置文件），令牌为 HMAC 签名的 JWT，
// 携带 sub（管理员名）与 exp（绝对过期时间），无撤销机制。
package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"msts/internal/config"
	"msts/internal/constants"
	coreerrors "msts/internal/core/errors"
	corelog "msts/internal/core/log"
)

// Option 服务选项
type Option func(*Service)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger 设置日志
func WithLogger(logger corelog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCacheSize 设置已验证令牌缓存容量，<=0 表示禁用缓存
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

// Service 令牌认证服务，创建后只读，可并发使用
type Service struct {
	adminName string
	matcher   PasswordMatcher
	key       []byte
	method    jwt.SigningMethod
	ttl       time.Duration

	now       func() time.Time
	logger    corelog.Logger
	cacheSize int
	cache     *tokenCache
}

// NewService 根据配置创建认证服务
func NewService(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, coreerrors.New(coreerrors.CodeInvalidParam, "config is nil")
	}

	method, err := signingMethod(cfg.TokenAuth.Algorithm)
	if err != nil {
		return nil, err
	}
	if cfg.TokenAuth.SecretKey.IsEmpty() {
		return nil, coreerrors.New(coreerrors.CodeConfigSchema, "token_auth.secret_key is empty")
	}
	if cfg.TokenAuth.ExpireMinutes <= 0 || cfg.TokenAuth.ExpireMinutes > config.MaxExpireMinutes {
		return nil, coreerrors.Newf(coreerrors.CodeConfigSchema,
			"token_auth.expire_minutes must be in 1..%d, got %d", config.MaxExpireMinutes, cfg.TokenAuth.ExpireMinutes)
	}

	matcher, err := NewPasswordMatcher(cfg.Admin.PasswordScheme, cfg.Admin.Password)
	if err != nil {
		return nil, err
	}

	s := &Service{
		adminName: cfg.Admin.Name,
		matcher:   matcher,
		key:       []byte(cfg.TokenAuth.SecretKey.Value()),
		method:    method,
		ttl:       cfg.TokenAuth.Expiration(),
		now:       time.Now,
		logger:    corelog.Default(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.cacheSize > 0 {
		s.cache, err = newTokenCache(s.cacheSize)
		if err != nil {
			return nil, coreerrors.Wrap(err, coreerrors.CodeInternal, "create token cache")
		}
	}

	return s, nil
}

// signingMethod 只接受 HMAC 系列，密钥为共享密钥
func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case config.AlgorithmHS256:
		return jwt.SigningMethodHS256, nil
	case config.AlgorithmHS384:
		return jwt.SigningMethodHS384, nil
	case config.AlgorithmHS512:
		return jwt.SigningMethodHS512, nil
	default:
		return nil, coreerrors.Newf(coreerrors.CodeConfigSchema, "unsupported signing algorithm %q", alg)
	}
}

// AdminName 返回配置的管理员名
func (s *Service) AdminName() string {
	return s.adminName
}

// CheckCredentials 用户名与密码都精确匹配（大小写敏感）时返回 true
func (s *Service) CheckCredentials(username, password string) bool {
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminName)) == 1
	passOK := s.matcher.Match(password)
	return nameOK && passOK
}

// Login 校验凭据并为管理员签发令牌
func (s *Service) Login(username, password string) (string, error) {
	if !s.CheckCredentials(username, password) {
		s.logger.Debug("login rejected: credentials mismatch")
		return "", coreerrors.ErrInvalidCredentials
	}
	return s.IssueToken(s.adminName)
}

// IssueToken 使用配置的有效期签发令牌
func (s *Service) IssueToken(subject string) (string, error) {
	return s.IssueTokenTTL(subject, s.ttl)
}

// IssueTokenTTL 使用指定有效期签发令牌，exp = now + ttl
func (s *Service) IssueTokenTTL(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	tokenID := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        tokenID,
	}

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", coreerrors.Wrap(err, coreerrors.CodeInternal, "sign token failed")
	}

	s.logger.WithFields(map[string]interface{}{
		constants.LogFieldTokenID: tokenID,
		constants.LogFieldSubject: subject,
	}).Debugf("token issued, expires in %s", ttl)
	return signed, nil
}

// TokenInfo 已验证令牌的信息
type TokenInfo struct {
	Subject   string
	TokenID   string
	ExpiresAt time.Time
}

// ValidateToken 校验签名、算法与过期时间，返回令牌主体
//
// 格式错误、签名不符、已过期、缺少 sub 均返回 ErrInvalidToken；
// sub 不是管理员时返回 ErrUnauthorizedSubject。
func (s *Service) ValidateToken(tokenString string) (string, error) {
	info, err := s.Inspect(tokenString)
	if err != nil {
		return "", err
	}
	return info.Subject, nil
}

// Inspect 与 ValidateToken 校验规则相同，额外返回令牌 ID 与过期时间
func (s *Service) Inspect(tokenString string) (TokenInfo, error) {
	now := s.now()

	// 缓存命中也要检查过期时间
	if s.cache != nil {
		if cached, ok := s.cache.get(tokenString); ok {
			if now.Before(cached.ExpiresAt) {
				return cached, nil
			}
			s.cache.remove(tokenString)
			return TokenInfo{}, coreerrors.Wrap(jwt.ErrTokenExpired, coreerrors.CodeInvalidToken, "token expired")
		}
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return TokenInfo{}, coreerrors.Wrap(err, coreerrors.CodeInvalidToken, "parse token failed")
	}

	if claims.Subject == "" {
		return TokenInfo{}, coreerrors.New(coreerrors.CodeInvalidToken, "token has no subject")
	}
	if subtle.ConstantTimeCompare([]byte(claims.Subject), []byte(s.adminName)) != 1 {
		s.logger.WithField(constants.LogFieldTokenID, claims.ID).Debug("token subject is not the administrator")
		return TokenInfo{}, coreerrors.ErrUnauthorizedSubject
	}

	info := TokenInfo{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if s.cache != nil {
		s.cache.put(tokenString, info)
	}
	return info, nil
}

// IsAuthenticated 令牌有效且属于管理员时返回 true
func (s *Service) IsAuthenticated(tokenString string) bool {
	_, err := s.ValidateToken(tokenString)
	return err == nil
}
