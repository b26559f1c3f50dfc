// Package config resolves, loads and bootstraps the msts runtime configuration.
//
// The configuration lives in a single TOML document (msts.toml in the working
// directory unless MSTS_CONFIG_PATH points elsewhere). When the document does
// not exist it is created once with freshly generated admin credentials and a
// token signing key; afterwards it is only ever read.
package config

import "time"

// CurrentVersion is the only schema version this build reads and writes
const CurrentVersion = 1

// MaxExpireMinutes caps token_auth.expire_minutes at one year
const MaxExpireMinutes = 365 * 24 * 60

// Password schemes accepted in admin.password_scheme
const (
	PasswordSchemePlain  = "plain"
	PasswordSchemeBcrypt = "bcrypt"
)

// Signing algorithms accepted in token_auth.algorithm
const (
	AlgorithmHS256 = "HS256"
	AlgorithmHS384 = "HS384"
	AlgorithmHS512 = "HS512"
)

// Config is the root configuration document
type Config struct {
	Version   int             `toml:"version" yaml:"version" json:"version"`
	Java      JavaConfig      `toml:"java" yaml:"java" json:"java"`
	Admin     AdminConfig     `toml:"admin" yaml:"admin" json:"admin"`
	TokenAuth TokenAuthConfig `toml:"token_auth" yaml:"token_auth" json:"token_auth"`
	HTTP      HTTPConfig      `toml:"http" yaml:"http" json:"http"`
	Log       LogConfig       `toml:"log" yaml:"log" json:"log"`
}

// JavaConfig describes how the tracked Minecraft server is launched
type JavaConfig struct {
	Executable string   `toml:"executable" yaml:"executable" json:"executable"`
	ExtraArgs  []string `toml:"extra_args" yaml:"extra_args" json:"extra_args"`
	ServerJar  string   `toml:"server_jar" yaml:"server_jar" json:"server_jar"`
}

// AdminConfig holds the single administrator credential
type AdminConfig struct {
	Name           string `toml:"name" yaml:"name" json:"name"`
	Password       Secret `toml:"password" yaml:"password" json:"password"`
	PasswordScheme string `toml:"password_scheme" yaml:"password_scheme" json:"password_scheme"`
}

// TokenAuthConfig holds the bearer token signing settings
type TokenAuthConfig struct {
	SecretKey     Secret `toml:"secret_key" yaml:"secret_key" json:"secret_key"`
	Algorithm     string `toml:"algorithm" yaml:"algorithm" json:"algorithm"`
	ExpireMinutes int    `toml:"expire_minutes" yaml:"expire_minutes" json:"expire_minutes"`
}

// Expiration returns the default token lifetime
func (c TokenAuthConfig) Expiration() time.Duration {
	return time.Duration(c.ExpireMinutes) * time.Minute
}

// HTTPConfig contains the web listener settings
type HTTPConfig struct {
	Listen         string `toml:"listen" yaml:"listen" json:"listen"`
	LoginRateLimit int    `toml:"login_rate_limit" yaml:"login_rate_limit" json:"login_rate_limit"` // attempts per minute per IP, 0 = unlimited
	LoginBurst     int    `toml:"login_burst" yaml:"login_burst" json:"login_burst"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level"`
	Format string `toml:"format" yaml:"format" json:"format"`
	Output string `toml:"output" yaml:"output" json:"output"`
	File   string `toml:"file" yaml:"file" json:"file"`
}
