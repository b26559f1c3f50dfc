package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath overrides the configuration file location
	EnvConfigPath = "MSTS_CONFIG_PATH"

	// DefaultFileName is the configuration file name used in the working directory
	DefaultFileName = "msts.toml"
)

// PathResolver decides where the configuration file lives
type PathResolver struct {
	LookupEnv func(key string) (string, bool)
	Getwd     func() (string, error)
}

// DefaultPathResolver reads the real process environment
func DefaultPathResolver() PathResolver {
	return PathResolver{
		LookupEnv: os.LookupEnv,
		Getwd:     os.Getwd,
	}
}

// Resolve returns the override path verbatim when EnvConfigPath is set,
// otherwise <cwd>/msts.toml. The override is not validated; a bad path
// surfaces when the store touches the file system.
func (r PathResolver) Resolve() (string, error) {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if p, ok := lookup(EnvConfigPath); ok {
		return p, nil
	}

	getwd := r.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	wd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, DefaultFileName), nil
}

// ResolvePath resolves the configuration path from the process environment
func ResolvePath() (string, error) {
	return DefaultPathResolver().Resolve()
}
