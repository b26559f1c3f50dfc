package config

import (
	"encoding/json"
	"strconv"
)

// redactedSecret replaces every non-empty secret outside the configuration file
const redactedSecret = "[redacted]"

// Secret holds admin.password and token_auth.secret_key.
//
// The TOML codec reads and writes the real value, so the configuration file
// round-trips. Everywhere else the value is redacted: fmt verbs, log fields,
// `config show` and the JSON and YAML renderings. Use Value to get the key
// material.
type Secret string

// String returns the redacted form, or "" for an unset secret
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redactedSecret
}

// GoString keeps %#v from printing the value
func (s Secret) GoString() string {
	return "config.Secret(" + strconv.Quote(s.String()) + ")"
}

// Value returns the real secret
func (s Secret) Value() string {
	return string(s)
}

// IsEmpty reports whether the secret is unset
func (s Secret) IsEmpty() bool {
	return s == ""
}

// MarshalJSON writes the redacted form
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// MarshalYAML writes the redacted form
func (s Secret) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}
