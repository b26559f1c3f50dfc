package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Render formats
const (
	RenderTOML = "toml"
	RenderYAML = "yaml"
	RenderJSON = "json"
)

// Redacted returns a copy of cfg whose secrets hold their redacted form,
// so the TOML rendering of `config show` does not print them either
func Redacted(cfg *Config) *Config {
	out := *cfg
	out.Java.ExtraArgs = append([]string(nil), cfg.Java.ExtraArgs...)
	out.Admin.Password = Secret(cfg.Admin.Password.String())
	out.TokenAuth.SecretKey = Secret(cfg.TokenAuth.SecretKey.String())
	return &out
}

// Render writes a redacted view of cfg in the given format
func Render(w io.Writer, cfg *Config, format string) error {
	redacted := Redacted(cfg)

	switch format {
	case "", RenderTOML:
		enc := toml.NewEncoder(w)
		enc.Indent = ""
		return enc.Encode(redacted)
	case RenderYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(redacted)
	case RenderJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(redacted)
	default:
		return fmt.Errorf("unsupported format %q (use toml, yaml or json)", format)
	}
}
