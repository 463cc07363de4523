package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Descriptor string `toml:"descriptor"`
	Algorithm  string `toml:"algorithm"`
	Order      string `toml:"order"`
	Portable   *bool  `toml:"portable"`
	Watch      *bool  `toml:"watch"`
	Debounce   string `toml:"debounce"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
// Relative descriptor paths are resolved against the file's directory.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	if fc.Descriptor != "" && !filepath.IsAbs(fc.Descriptor) {
		fc.Descriptor = filepath.Join(filepath.Dir(path), fc.Descriptor)
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.bootprobe/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".bootprobe", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("descriptor", fc.Descriptor, &cfg.Descriptor)
	s.setString("algorithm", fc.Algorithm, &cfg.Algorithm)
	s.setString("order", fc.Order, &cfg.Order)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)

	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setBool("portable", fc.Portable, &cfg.Portable)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
