package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Addr == "" || cfg.BaseRoot == "" || cfg.LogLevel == "" {
		t.Fatalf("Default() left required fields empty: %+v", cfg)
	}
	if cfg.MetricsAddr != "" {
		t.Fatalf("Default() MetricsAddr = %q, want empty (opt-in)", cfg.MetricsAddr)
	}
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load(missing): %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(missing) = %+v, want Default()", cfg)
	}
}

func TestLoadParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ftpd.toml")
	contents := "addr = \":2200\"\nbase_root = \"/srv/ftp\"\nlog_level = \"debug\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":2200" {
		t.Errorf("Addr = %q, want :2200", cfg.Addr)
	}
	if cfg.BaseRoot != "/srv/ftp" {
		t.Errorf("BaseRoot = %q, want /srv/ftp", cfg.BaseRoot)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	// Untouched fields keep their Default() values, TOML is applied on
	// top of Default(), not a zero-valued struct.
	if cfg.WelcomeBanner != Default().WelcomeBanner {
		t.Errorf("WelcomeBanner = %q, want default preserved", cfg.WelcomeBanner)
	}
}

func TestApplyFlagsOverridesNonEmptyOnly(t *testing.T) {
	base := Default()
	flags := &Flags{Addr: ":9999"}

	got := ApplyFlags(base, flags)
	if got.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", got.Addr)
	}
	if got.BaseRoot != base.BaseRoot {
		t.Errorf("BaseRoot = %q, want unchanged %q", got.BaseRoot, base.BaseRoot)
	}
}
