package server_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/connhold/connhold/errs"
	"github.com/connhold/connhold/server"
)

func TestDefaultConfig(t *testing.T) {
	config := server.DefaultConfig()
	if config.Addr != "tcp://127.0.0.1:6379" {
		t.Errorf("unexpected default addr %q", config.Addr)
	}
	if config.MaxConnections != 100 {
		t.Errorf("unexpected default maxConnections %d", config.MaxConnections)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config invalid: %s", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connholdd.yaml")
	content := []byte("addr: tcp://127.0.0.1:7000\nmaxConnections: 5\nidleTimeout: 30s\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %s", err)
	}

	config, err := server.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %s", err)
	}
	if config.Addr != "tcp://127.0.0.1:7000" {
		t.Errorf("unexpected addr %q", config.Addr)
	}
	if config.MaxConnections != 5 {
		t.Errorf("unexpected maxConnections %d", config.MaxConnections)
	}
	if config.IdleTimeout != 30*time.Second {
		t.Errorf("unexpected idleTimeout %s", config.IdleTimeout)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connholdd.yaml")
	if err := os.WriteFile(path, []byte("maxConnections: 7\n"), 0o644); err != nil {
		t.Fatalf("write config: %s", err)
	}

	config, err := server.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %s", err)
	}
	// unset fields keep their defaults
	if config.Addr != server.DefaultConfig().Addr {
		t.Errorf("unexpected addr %q", config.Addr)
	}
	if config.MaxConnections != 7 {
		t.Errorf("unexpected maxConnections %d", config.MaxConnections)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := server.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestConfigValidate(t *testing.T) {
	config := server.DefaultConfig()

	config.Addr = "foo://127.0.0.1:6379"
	if err := config.Validate(); err != errs.ErrBadTransport {
		t.Errorf("expected ErrBadTransport, got %v", err)
	}

	config = server.DefaultConfig()
	config.MaxConnections = 0
	if err := config.Validate(); err == nil {
		t.Errorf("expected error for zero maxConnections")
	}

	config = server.DefaultConfig()
	config.IdleTimeout = -time.Second
	if err := config.Validate(); err == nil {
		t.Errorf("expected error for negative idleTimeout")
	}
}
