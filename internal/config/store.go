package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"msts/internal/constants"
	coreerrors "msts/internal/core/errors"
	corelog "msts/internal/core/log"
)

// StoreOptions configures a Store
type StoreOptions struct {
	// Path is used as-is when set; otherwise Resolver decides
	Path     string
	Resolver PathResolver
	Logger   corelog.Logger
}

// Store owns the configuration file: it loads an existing document or
// bootstraps a new one with fresh secrets.
type Store struct {
	path     string
	resolver PathResolver
	logger   corelog.Logger
}

// NewStore creates a Store
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = corelog.Default()
	}
	return &Store{
		path:     opts.Path,
		resolver: opts.Resolver,
		logger:   logger,
	}
}

// Path returns the file the store reads and writes
func (s *Store) Path() (string, error) {
	if s.path != "" {
		return s.path, nil
	}
	p, err := s.resolver.Resolve()
	if err != nil {
		return "", coreerrors.Wrap(err, coreerrors.CodeConfigIO, "resolve configuration path")
	}
	// an exported but empty MSTS_CONFIG_PATH resolves to ""
	if p == "" {
		return "", coreerrors.Newf(coreerrors.CodeConfigIO, "configuration path is empty (check %s)", EnvConfigPath)
	}
	return p, nil
}

// Create returns the active configuration, bootstrapping the file if needed
func (s *Store) Create() (*Config, error) {
	cfg, _, err := s.Open()
	return cfg, err
}

// Open loads the configuration file, or writes a freshly generated one when
// the file does not exist. created reports whether this call wrote the file.
func (s *Store) Open() (cfg *Config, created bool, err error) {
	path, err := s.Path()
	if err != nil {
		return nil, false, err
	}
	logger := s.logger.WithField(constants.LogFieldConfig, path)

	cfg, err = load(path)
	if err == nil {
		logger.Debug("configuration loaded")
		return cfg, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}

	return s.bootstrap(path, logger)
}

func (s *Store) bootstrap(path string, logger corelog.Logger) (*Config, bool, error) {
	lock, err := acquireLock(path + ".lock")
	if err != nil {
		return nil, false, coreerrors.Wrapf(err, coreerrors.CodeConfigIO, "lock %s", path)
	}
	defer func() {
		if err := lock.release(); err != nil {
			logger.WithError(err).Warn("failed to release configuration lock")
		}
	}()

	// another process may have finished bootstrapping while we waited
	cfg, err := load(path)
	if err == nil {
		logger.Info("configuration created by another process, loaded")
		return cfg, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}

	cfg, err = Default()
	if err != nil {
		return nil, false, coreerrors.Wrap(err, coreerrors.CodeInternal, "generate configuration")
	}
	data, err := Marshal(cfg)
	if err != nil {
		return nil, false, coreerrors.Wrap(err, coreerrors.CodeInternal, "encode configuration")
	}
	if err := writeFileAtomic(path, data, 0o600); err != nil {
		return nil, false, coreerrors.Wrapf(err, coreerrors.CodeConfigIO, "write %s", path)
	}

	logger.Info("configuration file created with new admin credentials")
	return cfg, true, nil
}

// load reads and decodes path. A missing file is returned as the raw
// fs error so callers can detect it with errors.Is(err, fs.ErrNotExist).
func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, coreerrors.Wrapf(err, coreerrors.CodeConfigIO, "read %s", path)
	}

	cfg, err := Decode(data)
	if err != nil {
		return nil, coreerrors.Wrapf(err, coreerrors.GetCode(err), "load %s", path)
	}
	return cfg, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never see a partial document.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// fileLock is an exclusive lock held on a sidecar file. The sidecar is left
// in place after release: removing it would let a waiter holding the old
// inode and a newcomer creating a new one both believe they own the lock.
type fileLock struct {
	f *os.File
}

func acquireLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &fileLock{f: f}, nil
}

func (l *fileLock) release() error {
	unlockErr := unlockFile(l.f)
	closeErr := l.f.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
