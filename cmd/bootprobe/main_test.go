package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFingerprintCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "hello.txt")
	if err := os.WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"fingerprint", "--algorithm", "md5", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{
		path,
		"  length=6",
		"  md5sum=b1946ac92492d2347c6235b4d2611184",
	}
	lines := strings.Split(out.String(), "\n")
	for i, w := range want {
		if i >= len(lines) || lines[i] != w {
			t.Fatalf("output = %q, want prefix %q", out.String(), want)
		}
	}
	if !strings.HasPrefix(lines[3], "  lastModified=") {
		t.Errorf("line 4 = %q", lines[3])
	}
}

func TestFingerprintCommand_EnvAlgorithm(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BOOTPROBE_ALGORITHM", "sha1")
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"fingerprint", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out.String(), "sha1sum=da39a3ee5e6b4b0d3255bfef95601890afd80709") {
		t.Errorf("output = %q, want sha1 of empty input", out.String())
	}
}

func TestFingerprintCommand_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
	}{
		{"missing path", []string{"fingerprint", filepath.Join(t.TempDir(), "missing")}},
		{"no args", []string{"fingerprint"}},
		{"unknown algorithm", []string{"fingerprint", "--algorithm", "crc32", "."}},
		{"missing config", []string{"fingerprint", "--config", "/nonexistent/config.toml", "."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err == nil {
				t.Error("Execute() expected error")
			}
		})
	}
}

func TestRunCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	app := filepath.Join(dir, "app")
	if err := os.MkdirAll(app, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(app, "index.html"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	desc := filepath.Join(dir, "server.toml")
	content := `
[[service]]
name = "Catalina"
[[service.host]]
name = "localhost"
[[service.host.context]]
path = "/app"
docbase = "` + app + `"
`
	if err := os.WriteFile(desc, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--descriptor", desc, "--log-format", "json", "--log-level", "error"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	cmd = newRootCmd()
	cmd.SetArgs([]string{"run"})
	if err := cmd.Execute(); err == nil {
		t.Error("run without descriptor: expected error")
	}
}
