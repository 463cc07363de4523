package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "BOOTPROBE_"

// ApplyEnvConfig applies BOOTPROBE_* environment variables to cfg.
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("descriptor", os.Getenv(EnvPrefix+"DESCRIPTOR"), &cfg.Descriptor)
	s.setString("algorithm", os.Getenv(EnvPrefix+"ALGORITHM"), &cfg.Algorithm)
	s.setString("order", os.Getenv(EnvPrefix+"ORDER"), &cfg.Order)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv(EnvPrefix+"LOG_FORMAT"), &cfg.LogFormat)

	if err := s.setDuration("debounce", os.Getenv(EnvPrefix+"DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setBoolFromString("portable", os.Getenv(EnvPrefix+"PORTABLE"), &cfg.Portable); err != nil {
		return err
	}
	if err := s.setBoolFromString("watch", os.Getenv(EnvPrefix+"WATCH"), &cfg.Watch); err != nil {
		return err
	}

	return nil
}
