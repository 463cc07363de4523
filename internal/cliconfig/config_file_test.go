package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Descriptor: "/etc/server.toml",
				Algorithm:  "md5",
				Order:      "sorted",
				Portable:   &trueVal,
				Watch:      &trueVal,
				Debounce:   "2s",
				LogLevel:   "debug",
				LogFormat:  "json",
			},
			changed: map[string]bool{},
			initial: DefaultConfig(),
			expected: Config{
				Descriptor: "/etc/server.toml",
				Algorithm:  "md5",
				Order:      "sorted",
				Portable:   true,
				Watch:      true,
				Debounce:   2 * time.Second,
				LogLevel:   "debug",
				LogFormat:  "json",
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Descriptor: "/file/server.toml",
				Algorithm:  "md5",
				Watch:      &trueVal,
			},
			changed: map[string]bool{"descriptor": true, "watch": true},
			initial: Config{Descriptor: "/flag/server.toml"},
			expected: Config{
				Descriptor: "/flag/server.toml",
				Algorithm:  "md5",
			},
		},
		{
			name:       "empty values keep defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{Debounce: "soon"},
			changed:    map[string]bool{},
			initial:    Config{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}
			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	content := `
descriptor = "server.toml"
algorithm = "blake3"
order = "sorted"
portable = true
debounce = "1s"
log_level = "debug"
log_format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error: %v", err)
	}

	if fc.Descriptor != filepath.Join(tmpDir, "server.toml") {
		t.Errorf("Descriptor = %v, want it resolved next to the config file", fc.Descriptor)
	}
	if fc.Algorithm != "blake3" || fc.Order != "sorted" || fc.Debounce != "1s" {
		t.Errorf("unexpected values: %+v", fc)
	}
	if fc.Portable == nil || !*fc.Portable {
		t.Errorf("Portable = %v, want true", fc.Portable)
	}
	if fc.Watch != nil {
		t.Errorf("Watch = %v, want unset", *fc.Watch)
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadFileConfig(filepath.Join(tmpDir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(tmpDir, "bad.toml")
	if err := os.WriteFile(bad, []byte("algorithm = ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFileConfig(bad); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := DefaultConfigPath(); got != "/home/tester/.bootprobe/config.toml" {
		t.Errorf("DefaultConfigPath() = %v", got)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	if FileExists(path) {
		t.Error("FileExists() = true before creation")
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !FileExists(path) {
		t.Error("FileExists() = false after creation")
	}
}
