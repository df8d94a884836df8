package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crozier.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
catalog:
  host: cat.example.org
  port: 2247
  zone: testZone
  user: ann
max_connect_time: 30m
buffer_size: 65536
unbuffered: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Catalog.Host != "cat.example.org" {
		t.Errorf("Host = %q, want %q", cfg.Catalog.Host, "cat.example.org")
	}
	if cfg.Catalog.Port != 2247 {
		t.Errorf("Port = %d, want 2247", cfg.Catalog.Port)
	}
	if cfg.MaxConnectTime.Duration != 30*time.Minute {
		t.Errorf("MaxConnectTime = %v, want 30m", cfg.MaxConnectTime.Duration)
	}
	if cfg.BufferSize != 65536 {
		t.Errorf("BufferSize = %d, want 65536", cfg.BufferSize)
	}
	if !cfg.Unbuffered {
		t.Error("Unbuffered = false, want true")
	}
}

func TestLoad_DefaultsSurvivePartialFile(t *testing.T) {
	path := writeConfig(t, `
catalog:
  host: cat.example.org
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog.Port != DefaultPort {
		t.Errorf("Port = %d, want default %d", cfg.Catalog.Port, DefaultPort)
	}
	if cfg.MaxConnectTime.Duration != 10*time.Minute {
		t.Errorf("MaxConnectTime = %v, want default 10m", cfg.MaxConnectTime.Duration)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("CROZIER_TEST_SECRET", "hunter2")
	path := writeConfig(t, `
catalog:
  host: cat.example.org
  secret: ${CROZIER_TEST_SECRET}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog.Secret != "hunter2" {
		t.Errorf("Secret = %q, want expanded value", cfg.Catalog.Secret)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded, want error")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
max_connect_time: soon
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load with invalid duration succeeded, want error")
	}
}
