package cliconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/bootprobe/pkg/fingerprint"
	"github.com/bft-labs/bootprobe/pkg/log"
)

// ErrNoDescriptor is returned when run has no deployment descriptor.
var ErrNoDescriptor = errors.New("descriptor is required")

// Config holds CLI configuration for bootprobe.
type Config struct {
	Descriptor string

	Algorithm string
	Order     string
	Portable  bool

	Watch    bool
	Debounce time.Duration

	LogLevel  string
	LogFormat string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Algorithm: fingerprint.DefaultAlgorithm,
		Order:     fingerprint.OrderNative.String(),
		Debounce:  500 * time.Millisecond,
		LogLevel:  "info",
		LogFormat: log.FormatConsole,
	}
}

// Validate checks the configuration for errors and normalizes names.
func (c *Config) Validate() error {
	algo, err := fingerprint.LookupAlgorithm(c.Algorithm)
	if err != nil {
		return fmt.Errorf("algorithm: %w (supported: %s)", err, strings.Join(fingerprint.Algorithms(), ", "))
	}
	c.Algorithm = algo.Name

	if _, err := fingerprint.ParseOrder(c.Order); err != nil {
		return fmt.Errorf("order: %w", err)
	}

	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}

	switch c.LogFormat {
	case log.FormatConsole, log.FormatJSON:
	default:
		return fmt.Errorf("log format must be %q or %q, got %q", log.FormatConsole, log.FormatJSON, c.LogFormat)
	}

	return nil
}

// ValidateRun validates a configuration for the run command.
func (c *Config) ValidateRun() error {
	if c.Descriptor == "" {
		return ErrNoDescriptor
	}
	return c.Validate()
}

// FingerprintOrder returns the parsed traversal order.
func (c *Config) FingerprintOrder() fingerprint.Order {
	order, err := fingerprint.ParseOrder(c.Order)
	if err != nil {
		return fingerprint.OrderNative
	}
	return order
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
