package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

func init() {
	homedir.DisableCache = true
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigLayers(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("ASK_CONFIG_PATH", "")
	chdir(t, dir)

	yaml := "endpoint: http://from-yaml:3000\nhistory:\n  path: ~/answers\n"
	if err := os.WriteFile(filepath.Join(dir, ".ask.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ASK_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("ASK_LOG_LEVEL") })

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Endpoint(); got != "http://from-yaml:3000" {
		t.Fatalf("endpoint = %q", got)
	}
	if got := cfg.BasePath(); got != filepath.Join(dir, "answers") {
		t.Fatalf("history path = %q", got)
	}
	if got := cfg.LogLevel(); got != "debug" {
		t.Fatalf("log level from .env = %q", got)
	}
	if !cfg.HistoryEnabled() {
		t.Fatalf("history should default to enabled")
	}
}

func TestLoadConfigEnvironmentWins(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("ASK_CONFIG_PATH", "")
	t.Setenv("ASK_ENDPOINT", "http://from-env:9000")
	chdir(t, dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Endpoint(); got != "http://from-env:9000" {
		t.Fatalf("endpoint = %q", got)
	}
	if got := cfg.LogFile(); got != filepath.Join(dir, ".ask.log") {
		t.Fatalf("log file = %q", got)
	}
}
