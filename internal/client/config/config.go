package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/sealbox/internal/filex"
)

const (
	ConfigFileName   = "config.toml"
	SessionFileName  = "session.toml"
	IdentityFileName = "identity.age"
)

// Config holds runtime settings for the sealbox CLI.
type Config struct {
	ServerAddr     string        `toml:"server_addr"`
	IdentityPath   string        `toml:"identity_path"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxFileBytes   int64         `toml:"max_file_bytes"`
}

// userConfigDir is a test seam for os.UserConfigDir.
var userConfigDir = os.UserConfigDir

// DefaultDir returns the directory holding the client files.
func DefaultDir() (string, error) {
	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, "sealbox"), nil
}

// LoadDefaults populates c with defaults rooted at dir.
func (c *Config) LoadDefaults(dir string) {
	c.ServerAddr = "127.0.0.1:50051"
	c.IdentityPath = filepath.Join(dir, IdentityFileName)
	c.RequestTimeout = 30 * time.Second
	c.MaxFileBytes = 64 << 20
}

// Read decodes TOML from r over the values already in c.
func (c *Config) Read(r io.Reader) error {
	if _, err := toml.NewDecoder(r).Decode(c); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load builds a Config from defaults rooted at dir and the optional
// config file in it.
func Load(dir string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults(dir)

	path := filepath.Join(dir, ConfigFileName)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := cfg.Read(f); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the config file in dir, creating dir if needed.
func Save(dir string, cfg *Config) error {
	return writeTOML(dir, ConfigFileName, 0o644, cfg.Write)
}

func writeTOML(dir, name string, perm os.FileMode, encode func(io.Writer) error) error {
	if _, err := filex.EnsureDir(dir); err != nil {
		return err
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
