package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.ResultDir != "results" {
		t.Errorf("ResultDir = %q, want %q", c.ResultDir, "results")
	}
	if c.Database.Schema != "expkit" {
		t.Errorf("Schema = %q, want %q", c.Database.Schema, "expkit")
	}
	if c.Logging.Level != "warn" {
		t.Errorf("Level = %q, want %q", c.Logging.Level, "warn")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ResultDir != "results" {
		t.Errorf("ResultDir = %q, want defaults when no files exist", c.ResultDir)
	}
}

func TestLoad_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ProjectFile, "result_dir: out\ndatabase:\n  schema: trial7\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ResultDir != "out" {
		t.Errorf("ResultDir = %q, want %q", c.ResultDir, "out")
	}
	if c.Database.Schema != "trial7" {
		t.Errorf("Schema = %q, want %q", c.Database.Schema, "trial7")
	}
	// Unset fields keep their defaults.
	if c.Logging.Level != "warn" {
		t.Errorf("Level = %q, want default", c.Logging.Level)
	}
}

func TestLoad_LocalOverridesProject(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ProjectFile, "result_dir: out\n")
	writeConfig(t, dir, LocalFile, "result_dir: /tmp/scratch\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ResultDir != "/tmp/scratch" {
		t.Errorf("ResultDir = %q, want local override", c.ResultDir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ProjectFile, "result_dir: out\n")
	t.Setenv("EXPKIT_RESULTDIR", "envdir")
	t.Setenv("EXPKIT_SCHEMA", "envschema")
	t.Setenv("EXPKIT_LOG_LEVEL", "debug")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ResultDir != "envdir" || c.Database.Schema != "envschema" || c.Logging.Level != "debug" {
		t.Errorf("env overrides not applied: %+v", c)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ProjectFile, "result_dir: [unclosed\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty result dir", func(c *Config) { c.ResultDir = "" }, "result_dir"},
		{"empty schema", func(c *Config) { c.Database.Schema = "" }, "schema"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"empty log level ok", func(c *Config) { c.Logging.Level = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
