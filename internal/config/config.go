package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alpmgo/alpm-go/pkg/alpm"
	"github.com/alpmgo/alpm-go/pkg/alpm/logging"
)

// Environment variables that override the file.
const (
	EnvRoot     = "ALPMGO_ROOT"
	EnvDBPath   = "ALPMGO_DBPATH"
	EnvLogLevel = "ALPMGO_LOG_LEVEL"
)

// Config is the root configuration.
type Config struct {
	Root   string `yaml:"root" toml:"root"`
	DBPath string `yaml:"dbpath" toml:"dbpath"`

	// Arch replaces $arch in server URLs. "auto" uses the machine the
	// program runs on.
	Arch string `yaml:"arch" toml:"arch"`

	// SigLevel is the default signature level of every repository, as
	// pacman.conf SigLevel words. Empty leaves the choice to libalpm.
	SigLevel []string `yaml:"siglevel" toml:"siglevel"`

	Log   LogConfig `yaml:"log" toml:"log"`
	Repos []Repo    `yaml:"repos" toml:"repos"`
}

// LogConfig controls the command's logger.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Repo describes one sync repository.
type Repo struct {
	Name string `yaml:"name" toml:"name"`

	// SigLevel words are applied on top of Config.SigLevel.
	SigLevel []string `yaml:"siglevel" toml:"siglevel"`

	// Usage words. Empty means All.
	Usage []string `yaml:"usage" toml:"usage"`

	// Servers may contain $repo and $arch.
	Servers []string `yaml:"servers" toml:"servers"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Root:   alpm.DefaultRoot,
		DBPath: alpm.DefaultDBPath,
		Arch:   "auto",
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the file at path, applies environment overrides and validates
// the result. An empty path loads the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path is chosen by the user
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvRoot); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.Root == "" {
		errs = append(errs, "root is required")
	}
	if c.DBPath == "" {
		errs = append(errs, "dbpath is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	if _, err := ParseSigLevel(0, c.SigLevel); err != nil {
		errs = append(errs, "siglevel: "+err.Error())
	}

	seen := make(map[string]struct{}, len(c.Repos))
	for i, r := range c.Repos {
		switch {
		case r.Name == "":
			errs = append(errs, fmt.Sprintf("repos[%d].name is required", i))
		case r.Name == "local":
			errs = append(errs, fmt.Sprintf("repos[%d].name %q is reserved", i, r.Name))
		case strings.ContainsAny(r.Name, "/\x00"):
			errs = append(errs, fmt.Sprintf("repos[%d].name %q is not a valid repository name", i, r.Name))
		}
		if _, dup := seen[r.Name]; dup && r.Name != "" {
			errs = append(errs, fmt.Sprintf("repos[%d].name %q is repeated", i, r.Name))
		}
		seen[r.Name] = struct{}{}

		if _, err := ParseSigLevel(0, r.SigLevel); err != nil {
			errs = append(errs, fmt.Sprintf("repos[%d].siglevel: %v", i, err))
		}
		if _, err := ParseUsage(r.Usage); err != nil {
			errs = append(errs, fmt.Sprintf("repos[%d].usage: %v", i, err))
		}
		for j, s := range r.Servers {
			if s == "" || strings.IndexByte(s, 0) >= 0 {
				errs = append(errs, fmt.Sprintf("repos[%d].servers[%d] is not a valid URL", i, j))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// MachineArch returns the value "auto" resolves to.
func MachineArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i686"
	case "arm":
		return "armv7h"
	case "riscv64":
		return "riscv64"
	default:
		return runtime.GOARCH
	}
}

func (c *Config) arch() string {
	if c.Arch == "" || c.Arch == "auto" {
		return MachineArch()
	}
	return c.Arch
}

// ServerURLs expands $repo and $arch in the servers of r.
func (c *Config) ServerURLs(r Repo) []string {
	urls := make([]string, 0, len(r.Servers))
	rep := strings.NewReplacer("$repo", r.Name, "$arch", c.arch())
	for _, s := range r.Servers {
		urls = append(urls, rep.Replace(s))
	}
	return urls
}

// RepoSigLevel combines the default and the repository signature level.
// Without any words it returns alpm.SigUseDefault.
func (c *Config) RepoSigLevel(r Repo) (alpm.SigLevel, error) {
	if len(c.SigLevel) == 0 && len(r.SigLevel) == 0 {
		return alpm.SigUseDefault, nil
	}
	level, err := ParseSigLevel(0, c.SigLevel)
	if err != nil {
		return 0, err
	}
	return ParseSigLevel(level, r.SigLevel)
}

// AlpmConfig returns the options for alpm.Open.
func (c *Config) AlpmConfig(logger logging.Logger) alpm.Config {
	return alpm.Config{Root: c.Root, DBPath: c.DBPath, Logger: logger}
}

// Register registers every repository on h, in file order, and configures
// its servers and usage. It stops at the first failure.
func (c *Config) Register(h *alpm.Handle) ([]*alpm.DB, error) {
	dbs := make([]*alpm.DB, 0, len(c.Repos))
	for _, r := range c.Repos {
		level, err := c.RepoSigLevel(r)
		if err != nil {
			return dbs, fmt.Errorf("repo %s: %w", r.Name, err)
		}
		usage, err := ParseUsage(r.Usage)
		if err != nil {
			return dbs, fmt.Errorf("repo %s: %w", r.Name, err)
		}

		db, err := h.RegisterSyncDB(r.Name, level)
		if err != nil {
			return dbs, fmt.Errorf("repo %s: %w", r.Name, err)
		}
		dbs = append(dbs, db)
		if err := db.SetServers(c.ServerURLs(r)); err != nil {
			return dbs, fmt.Errorf("repo %s: %w", r.Name, err)
		}
		if err := db.SetUsage(usage); err != nil {
			return dbs, fmt.Errorf("repo %s: %w", r.Name, err)
		}
	}
	return dbs, nil
}
