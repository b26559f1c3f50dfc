package config

import (
	"bytes"
	"io"

	"github.com/BurntSushi/toml"

	coreerrors "msts/internal/core/errors"
)

const fileHeader = `# msts configuration
# Generated on first start. Keep this file private: it holds the admin
# credentials and the token signing key.

`

// Encode writes cfg as a TOML document. Secrets are written in clear text.
func Encode(w io.Writer, cfg *Config) error {
	if _, err := io.WriteString(w, fileHeader); err != nil {
		return err
	}
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(cfg)
}

// Marshal returns the TOML encoding of cfg
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a TOML document into a validated Config.
//
// Invalid TOML fails with ErrConfigParse. Well-formed TOML that does not fit
// the schema (wrong types, unknown keys, missing version or secrets, invalid
// values) fails with ErrConfigSchema. Missing non-secret keys take their
// defaults.
func Decode(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeConfigParse, "configuration is not valid TOML")
	}

	cfg := baseDefaults()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeConfigSchema, "configuration does not match schema")
	}

	result := &ValidationResult{}
	for _, key := range md.Undecoded() {
		result.AddError(key.String(), "", "unknown key",
			"Remove it; only the version 1 layout is supported")
	}
	if !md.IsDefined("version") {
		result.AddError("version", "", "version is required",
			"Add `version = 1` at the top of the file")
		cfg.Version = CurrentVersion
	}
	result.Errors = append(result.Errors, Validate(cfg).Errors...)

	if !result.IsValid() {
		return nil, coreerrors.Wrap(result, coreerrors.CodeConfigSchema, "configuration does not match schema")
	}
	return cfg, nil
}
