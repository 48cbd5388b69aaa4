package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds repository layout settings shared by the synodic binaries.
type Config struct {
	// MetadataDir is the directory holding the four trust documents.
	MetadataDir string `yaml:"metadata_dir"`
	// TargetsDir is the directory holding version subdirectories,
	// release records and the latest pointer files.
	TargetsDir string `yaml:"targets_dir"`
	// Timeout bounds each artifact download. A slow but progressing
	// transfer must finish within it, so it is generous.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for repository settings.
	DefaultConfigFilename = "synodic-repository.yaml"

	// DefaultMetadataDir is the trust-document directory used when unset.
	DefaultMetadataDir = "metadata"

	// DefaultTargetsDir is the release-artifact directory used when unset.
	DefaultTargetsDir = "targets"

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600

	// DefaultTimeout is the per-download deadline used when unset.
	DefaultTimeout = 10 * time.Minute
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errSameDirectory is returned when metadata and targets resolve to one directory.
	errSameDirectory = errors.New("metadata and targets directories must differ")
)

// Default returns settings pointing at the conventional repository layout
// relative to the working directory.
func Default() *Config {
	return &Config{
		MetadataDir: DefaultMetadataDir,
		TargetsDir:  DefaultTargetsDir,
		Timeout:     DefaultTimeout,
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults and checks the directory layout is sane.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.MetadataDir == "" {
		cfg.MetadataDir = DefaultMetadataDir
	}

	if cfg.TargetsDir == "" {
		cfg.TargetsDir = DefaultTargetsDir
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if filepath.Clean(cfg.MetadataDir) == filepath.Clean(cfg.TargetsDir) {
		return errSameDirectory
	}

	return nil
}
