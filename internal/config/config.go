// Package config resolves rollcall configuration. Sources are applied in
// order, each overriding the last: built-in defaults, the YAML config file,
// ROLLCALL_* environment variables, then command-line flags.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/rollcall/internal/logging"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/storage"
)

const (
	// ConfigFileName is the config file name under the XDG config directory.
	ConfigFileName = "config.yaml"
	// EnvConfigPath names the variable that points at a config file.
	EnvConfigPath = "ROLLCALL_CONFIG"
)

// Config holds every setting rollcall reads at startup.
type Config struct {
	// DataDir is the directory holding the stores and the lock file.
	DataDir string `yaml:"data_dir" env:"ROLLCALL_DATA_DIR"`

	// Backend is the storage backend: file, badger or sqlite.
	Backend string `yaml:"backend" env:"ROLLCALL_BACKEND"`

	// Departments is the closed department set, in display order.
	Departments []string `yaml:"departments" env:"ROLLCALL_DEPARTMENTS" envSeparator:","`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" env:"ROLLCALL_LOG_LEVEL"`

	// MinFreeSpace is the free space in bytes required before writing.
	MinFreeSpace uint64 `yaml:"min_free_space" env:"ROLLCALL_MIN_FREE_SPACE"`

	// Source is the config file that was loaded, if any.
	Source string `yaml:"-"`
}

// Overrides are values set by command-line flags. Empty fields are ignored.
type Overrides struct {
	DataDir string
	Backend string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:      storage.DefaultDir(),
		Backend:      string(storage.KindFile),
		Departments:  append([]string(nil), model.DefaultDepartments...),
		LogLevel:     "warn",
		MinFreeSpace: storage.MinFreeSpace,
	}
}

// DefaultPath returns the config file path under the XDG config directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, storage.AppName, ConfigFileName)
}

// Load resolves the configuration. path is the --config flag value; when it
// is empty, ROLLCALL_CONFIG is used, then DefaultPath if that file exists.
// An explicitly named file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}

	if err := cfg.loadFile(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			logging.DebugLog("no config file", logging.KeyPath, path)
		} else {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	} else {
		cfg.Source = path
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Departments = trimList(cfg.Departments)

	return cfg, nil
}

// loadFile decodes a YAML file over c. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Apply overlays command-line flag values.
func (c *Config) Apply(o Overrides) {
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.Backend != "" {
		c.Backend = o.Backend
	}
}

// Validate checks every setting and reports the first problem.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if _, err := c.StorageKind(); err != nil {
		return err
	}
	if _, err := c.DepartmentSet(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// StorageKind returns the parsed backend kind.
func (c *Config) StorageKind() (storage.Kind, error) {
	return storage.ParseKind(c.Backend)
}

// DepartmentSet builds the closed department set.
func (c *Config) DepartmentSet() (model.Departments, error) {
	d, err := model.NewDepartments(c.Departments...)
	if err != nil {
		return model.Departments{}, fmt.Errorf("departments: %w", err)
	}
	return d, nil
}

// StorageOptions returns the options for storage.Open.
func (c *Config) StorageOptions() (storage.Options, error) {
	kind, err := c.StorageKind()
	if err != nil {
		return storage.Options{}, err
	}
	return storage.Options{
		Kind:         kind,
		Dir:          c.DataDir,
		MinFreeSpace: c.MinFreeSpace,
	}, nil
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
