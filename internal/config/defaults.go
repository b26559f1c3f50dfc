package config

import (
	"fmt"

	"msts/internal/constants"
	"msts/internal/utils"
)

// Random material sizes, in bytes before hex encoding
const (
	adminNameBytes     = 16
	adminPasswordBytes = 16
	secretKeyBytes     = 32
)

// baseDefaults returns the schema defaults with every secret field left empty.
// Decoding starts from this value so that keys missing from the file keep
// their defaults, while missing secrets are caught by validation.
func baseDefaults() *Config {
	return &Config{
		Version: CurrentVersion,
		Java: JavaConfig{
			Executable: "java",
			ExtraArgs:  []string{"-Xmx4G"},
			ServerJar:  "minecraft_server.jar",
		},
		Admin: AdminConfig{
			PasswordScheme: PasswordSchemePlain,
		},
		TokenAuth: TokenAuthConfig{
			Algorithm:     AlgorithmHS256,
			ExpireMinutes: 30,
		},
		HTTP: HTTPConfig{
			Listen:         "127.0.0.1:8000",
			LoginRateLimit: 0,
			LoginBurst:     5,
		},
		Log: LogConfig{
			Level:  constants.LogLevelInfo,
			Format: constants.LogFormatText,
			Output: constants.LogOutputStderr,
		},
	}
}

// Default returns a complete configuration with freshly generated admin
// credentials and signing key. Every call produces new random values.
func Default() (*Config, error) {
	cfg := baseDefaults()

	name, err := utils.GenerateRandomHex(adminNameBytes)
	if err != nil {
		return nil, fmt.Errorf("generate admin name: %w", err)
	}
	password, err := utils.GenerateRandomHex(adminPasswordBytes)
	if err != nil {
		return nil, fmt.Errorf("generate admin password: %w", err)
	}
	key, err := utils.GenerateRandomHex(secretKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("generate secret key: %w", err)
	}

	cfg.Admin.Name = name
	cfg.Admin.Password = Secret(password)
	cfg.TokenAuth.SecretKey = Secret(key)
	return cfg, nil
}
