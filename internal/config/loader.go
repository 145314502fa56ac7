package config

import (
	"flag"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Flags holds command-line flag values that can override the config
// file, following infodancer-pop3d's ParseFlags/ApplyFlags split.
type Flags struct {
	ConfigPath    string
	Addr          string
	BaseRoot      string
	WelcomeBanner string
	LogLevel      string
	MetricsAddr   string
}

// ParseFlags parses os.Args into a Flags struct.
func ParseFlags() *Flags {
	f := &Flags{}
	flag.StringVar(&f.ConfigPath, "config", "./ftpd.toml", "path to TOML configuration file")
	flag.StringVar(&f.Addr, "addr", "", "control channel listen address")
	flag.StringVar(&f.BaseRoot, "base-root", "", "directory holding users.txt and users/")
	flag.StringVar(&f.WelcomeBanner, "welcome-banner", "", "text appended to the 220 reply")
	flag.StringVar(&f.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.StringVar(&f.MetricsAddr, "metrics-addr", "", "Prometheus metrics listen address, empty disables it")
	flag.Parse()
	return f
}

// Load parses a TOML configuration file at path and returns the
// resulting Config. If the file does not exist, Default() is returned
// unmodified.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// ApplyFlags overrides cfg with any non-empty flag values.
func ApplyFlags(cfg Config, f *Flags) Config {
	if f.Addr != "" {
		cfg.Addr = f.Addr
	}
	if f.BaseRoot != "" {
		cfg.BaseRoot = f.BaseRoot
	}
	if f.WelcomeBanner != "" {
		cfg.WelcomeBanner = f.WelcomeBanner
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.MetricsAddr != "" {
		cfg.MetricsAddr = f.MetricsAddr
	}
	return cfg
}
