package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "without cause",
			err:      New(CodeInvalidToken, "token expired"),
			expected: "[INVALID_TOKEN] token expired",
		},
		{
			name:     "with cause",
			err:      Wrap(errors.New("permission denied"), CodeConfigIO, "failed to write config"),
			expected: "[CONFIG_IO] failed to write config: permission denied",
		},
		{
			name:     "formatted message",
			err:      Newf(CodeConfigSchema, "unsupported version %d", 7),
			expected: "[CONFIG_SCHEMA] unsupported version 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err1 := New(CodeInvalidToken, "signature mismatch")
	err2 := New(CodeInvalidToken, "token expired")
	err3 := New(CodeUnauthorizedSubject, "wrong subject")

	// 相同错误码应该匹配
	if !errors.Is(err1, err2) {
		t.Error("errors with same code should match")
	}

	// 不同错误码不应该匹配
	if errors.Is(err1, err3) {
		t.Error("errors with different code should not match")
	}

	// 使用哨兵错误
	if !errors.Is(err1, ErrInvalidToken) {
		t.Error("should match sentinel error with same code")
	}
}

func TestError_WrappedChain(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := fmt.Errorf("load msts.toml: %w", Wrap(cause, CodeConfigParse, "parse failed"))

	if !errors.Is(err, ErrConfigParse) {
		t.Error("wrapped error should match sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should keep original cause")
	}
	if GetCode(err) != CodeConfigParse {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), CodeConfigParse)
	}
	if GetCode(cause) != CodeInternal {
		t.Errorf("GetCode() of plain error = %v, want %v", GetCode(cause), CodeInternal)
	}
}

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		config bool
		auth   bool
	}{
		{"parse", ErrConfigParse, true, false},
		{"schema", Wrap(errors.New("x"), CodeConfigSchema, "bad"), true, false},
		{"io", ErrConfigIO, true, false},
		{"credentials", ErrInvalidCredentials, false, true},
		{"token", ErrInvalidToken, false, true},
		{"subject", ErrUnauthorizedSubject, false, true},
		{"internal", New(CodeInternal, "boom"), false, false},
		{"plain", errors.New("plain"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfigError(tt.err); got != tt.config {
				t.Errorf("IsConfigError() = %v, want %v", got, tt.config)
			}
			if got := IsAuthError(tt.err); got != tt.auth {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.auth)
			}
		})
	}
}
