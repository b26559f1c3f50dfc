package config

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"msts/internal/constants"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string // Field path (e.g., "token_auth.expire_minutes")
	Value   string // Current value (masked for secrets)
	Message string // Error message
	Hint    string // Fix suggestion
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains all validation errors
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid returns true if there are no validation errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Error returns a formatted error message
func (r *ValidationResult) Error() string {
	if r.IsValid() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")

	for i, err := range r.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Field))
		if err.Value != "" {
			sb.WriteString(fmt.Sprintf("     Current value: %s\n", err.Value))
		}
		sb.WriteString(fmt.Sprintf("     Error: %s\n", err.Message))
		if err.Hint != "" {
			sb.WriteString(fmt.Sprintf("     Hint: %s\n", err.Hint))
		}
	}

	return sb.String()
}

// AddError adds a validation error
func (r *ValidationResult) AddError(field, value, message, hint string) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Hint:    hint,
	})
}

// HasField reports whether a validation error was recorded for field
func (r *ValidationResult) HasField(field string) bool {
	for _, err := range r.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ValidationRule is a function that validates configuration
type ValidationRule func(cfg *Config, result *ValidationResult)

var defaultRules = []ValidationRule{
	validateVersion,
	validateAdmin,
	validateTokenAuth,
	validateHTTP,
	validateLog,
}

// Validate runs every rule against cfg and collects the failures
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{
		Errors: make([]ValidationError, 0),
	}
	for _, rule := range defaultRules {
		rule(cfg, result)
	}
	return result
}

// ============================================================================
// Validation Rules
// ============================================================================

func validateVersion(cfg *Config, result *ValidationResult) {
	if cfg.Version != CurrentVersion {
		result.AddError("version",
			fmt.Sprintf("%d", cfg.Version),
			"unsupported schema version",
			fmt.Sprintf("Set version = %d and use the [java]/[admin]/[token_auth] layout", CurrentVersion))
	}
}

func validateAdmin(cfg *Config, result *ValidationResult) {
	if cfg.Admin.Name == "" {
		result.AddError("admin.name", "", "admin name is required", "Set a non-empty name")
	}
	if cfg.Admin.Password.IsEmpty() {
		result.AddError("admin.password", "", "admin password is required",
			"Set a password, or delete the file to generate a new one")
	}

	switch cfg.Admin.PasswordScheme {
	case PasswordSchemePlain:
	case PasswordSchemeBcrypt:
		if cfg.Admin.Password.IsEmpty() {
			return
		}
		if _, err := bcrypt.Cost([]byte(cfg.Admin.Password.Value())); err != nil {
			result.AddError("admin.password",
				cfg.Admin.Password.String(),
				"password is not a bcrypt hash",
				"Generate one with `msts config hash-password`")
		}
	default:
		result.AddError("admin.password_scheme",
			cfg.Admin.PasswordScheme,
			"invalid password scheme",
			"Use one of: plain, bcrypt")
	}
}

func validateTokenAuth(cfg *Config, result *ValidationResult) {
	if cfg.TokenAuth.SecretKey.IsEmpty() {
		result.AddError("token_auth.secret_key", "", "secret key is required",
			"Set a random value, e.g. 64 hex characters")
	}

	validAlgorithms := map[string]bool{
		AlgorithmHS256: true,
		AlgorithmHS384: true,
		AlgorithmHS512: true,
	}
	if !validAlgorithms[cfg.TokenAuth.Algorithm] {
		result.AddError("token_auth.algorithm",
			cfg.TokenAuth.Algorithm,
			"unsupported signing algorithm",
			"Use one of: HS256, HS384, HS512")
	}

	if cfg.TokenAuth.ExpireMinutes <= 0 {
		result.AddError("token_auth.expire_minutes",
			fmt.Sprintf("%d", cfg.TokenAuth.ExpireMinutes),
			"expire_minutes must be positive",
			"Set a value > 0, e.g., 30")
	} else if cfg.TokenAuth.ExpireMinutes > MaxExpireMinutes {
		result.AddError("token_auth.expire_minutes",
			fmt.Sprintf("%d", cfg.TokenAuth.ExpireMinutes),
			"expire_minutes is too large",
			fmt.Sprintf("Set a value <= %d (one year)", MaxExpireMinutes))
	}
}

func validateHTTP(cfg *Config, result *ValidationResult) {
	if cfg.HTTP.Listen == "" {
		result.AddError("http.listen", "", "listen address is required",
			"Use format host:port, e.g., 127.0.0.1:8000")
	} else if _, _, err := net.SplitHostPort(cfg.HTTP.Listen); err != nil {
		result.AddError("http.listen",
			cfg.HTTP.Listen,
			"invalid listen address",
			"Use format host:port, e.g., 127.0.0.1:8000")
	}

	if cfg.HTTP.LoginRateLimit < 0 {
		result.AddError("http.login_rate_limit",
			fmt.Sprintf("%d", cfg.HTTP.LoginRateLimit),
			"login_rate_limit must not be negative",
			"Set 0 to disable rate limiting")
	}
	if cfg.HTTP.LoginRateLimit > 0 && cfg.HTTP.LoginBurst < 1 {
		result.AddError("http.login_burst",
			fmt.Sprintf("%d", cfg.HTTP.LoginBurst),
			"login_burst must be at least 1 when rate limiting is enabled",
			"Set a positive value, e.g., 5")
	}
}

func validateLog(cfg *Config, result *ValidationResult) {
	validLevels := map[string]bool{
		constants.LogLevelTrace: true,
		constants.LogLevelDebug: true,
		constants.LogLevelInfo:  true,
		constants.LogLevelWarn:  true,
		constants.LogLevelError: true,
	}
	if !validLevels[cfg.Log.Level] && cfg.Log.Level != "" {
		result.AddError("log.level",
			cfg.Log.Level,
			"invalid log level",
			"Use one of: trace, debug, info, warn, error")
	}

	validFormats := map[string]bool{
		constants.LogFormatText: true,
		constants.LogFormatJSON: true,
	}
	if !validFormats[cfg.Log.Format] && cfg.Log.Format != "" {
		result.AddError("log.format",
			cfg.Log.Format,
			"invalid log format",
			"Use one of: text, json")
	}

	switch cfg.Log.Output {
	case "", constants.LogOutputStdout, constants.LogOutputStderr:
	case constants.LogOutputFile:
		if cfg.Log.File == "" {
			result.AddError("log.file", "", "log file is required when output is file",
				"Set log.file to a writable path")
		}
	default:
		result.AddError("log.output",
			cfg.Log.Output,
			"invalid log output",
			"Use one of: stdout, stderr, file")
	}
}
