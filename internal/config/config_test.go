package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alpmgo/alpm-go/pkg/alpm"
	"github.com/alpmgo/alpm-go/pkg/alpm/alpmtest"
	"github.com/alpmgo/alpm-go/pkg/alpm/logging"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "alpm.yaml", `
root: /mnt
dbpath: /mnt/var/lib/pacman
arch: x86_64
log:
  level: debug
repos:
  - name: core
    servers:
      - https://mirror.example.org/$repo/os/$arch
  - name: extra
    usage: [Sync, Search]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Root != "/mnt" || cfg.DBPath != "/mnt/var/lib/pacman" {
		t.Errorf("Root, DBPath = %q, %q", cfg.Root, cfg.DBPath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if len(cfg.Repos) != 2 || cfg.Repos[1].Name != "extra" {
		t.Fatalf("Repos = %+v", cfg.Repos)
	}
	if got := cfg.ServerURLs(cfg.Repos[0]); len(got) != 1 || got[0] != "https://mirror.example.org/core/os/x86_64" {
		t.Errorf("ServerURLs = %v", got)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "alpm.toml", `
root = "/"
dbpath = "/var/lib/pacman/"
siglevel = ["Required", "DatabaseOptional"]

[[repos]]
name = "core"
servers = ["https://mirror.example.org/$repo/os/$arch"]

[[repos]]
name = "testing"
siglevel = ["PackageNever"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Repos) != 2 {
		t.Fatalf("Repos = %+v", cfg.Repos)
	}
	level, err := cfg.RepoSigLevel(cfg.Repos[0])
	if err != nil {
		t.Fatal(err)
	}
	if want := alpm.SigPackage | alpm.SigDatabase | alpm.SigDatabaseOptional; level != want {
		t.Errorf("core siglevel = %v, want %v", level, want)
	}
	level, err = cfg.RepoSigLevel(cfg.Repos[1])
	if err != nil {
		t.Fatal(err)
	}
	if want := alpm.SigDatabase | alpm.SigDatabaseOptional; level != want {
		t.Errorf("testing siglevel = %v, want %v", level, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name, file, content, want string
	}{
		{"unknown yaml key", "a.yaml", "rooot: /\n", "rooot"},
		{"unknown toml key", "a.toml", "rooot = \"/\"\n", "unknown keys"},
		{"format", "a.json", "{}", "unsupported config format"},
		{"reserved name", "a.yaml", "repos:\n  - name: local\n", "reserved"},
		{"duplicate", "a.yaml", "repos:\n  - name: core\n  - name: core\n", "repeated"},
		{"siglevel", "a.yaml", "siglevel: [Sometimes]\n", "Sometimes"},
		{"usage", "a.yaml", "repos:\n  - name: core\n    usage: [Everything]\n", "Everything"},
		{"log level", "a.yaml", "log:\n  level: loud\n", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	if _, err := Load("/nonexistent/path/alpm.yaml"); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvRoot, "/srv/root")
	t.Setenv(EnvDBPath, "/srv/db")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Root != "/srv/root" || cfg.DBPath != "/srv/db" || cfg.Log.Level != "warn" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestParseSigLevel(t *testing.T) {
	tests := []struct {
		words []string
		want  alpm.SigLevel
	}{
		{nil, 0},
		{[]string{"Never"}, 0},
		{[]string{"Optional"}, alpm.SigPackage | alpm.SigPackageOptional | alpm.SigDatabase | alpm.SigDatabaseOptional},
		{[]string{"Optional", "Required"}, alpm.SigPackage | alpm.SigDatabase},
		{[]string{"PackageRequired"}, alpm.SigPackage},
		{[]string{"DatabaseTrustAll"}, alpm.SigDatabaseMarginalOk | alpm.SigDatabaseUnknownOk},
		{[]string{"TrustAll", "PackageTrustedOnly"}, alpm.SigDatabaseMarginalOk | alpm.SigDatabaseUnknownOk},
	}
	for _, tt := range tests {
		got, err := ParseSigLevel(0, tt.words)
		if err != nil {
			t.Errorf("ParseSigLevel(%v) error = %v", tt.words, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSigLevel(%v) = %v, want %v", tt.words, got, tt.want)
		}
	}

	if _, err := ParseSigLevel(0, []string{"Package"}); err == nil {
		t.Error("a bare prefix should be rejected")
	}
}

func TestParseUsage(t *testing.T) {
	u, err := ParseUsage(nil)
	if err != nil || u != alpm.UsageAll {
		t.Errorf("ParseUsage(nil) = %v, %v", u, err)
	}
	u, err = ParseUsage([]string{"Sync", "Search"})
	if err != nil || u != alpm.UsageSync|alpm.UsageSearch {
		t.Errorf("ParseUsage(Sync, Search) = %v, %v", u, err)
	}
}

func TestRepoSigLevelDefault(t *testing.T) {
	cfg := Default()
	level, err := cfg.RepoSigLevel(Repo{Name: "core"})
	if err != nil || level != alpm.SigUseDefault {
		t.Errorf("RepoSigLevel = %v, %v; want SigUseDefault", level, err)
	}
}

func TestMachineArch(t *testing.T) {
	cfg := &Config{Arch: "auto"}
	got := cfg.ServerURLs(Repo{Name: "core", Servers: []string{"$arch"}})
	if got[0] != MachineArch() || got[0] == "" {
		t.Errorf("$arch = %q, want %q", got[0], MachineArch())
	}
}

func TestRegister(t *testing.T) {
	tree := alpmtest.NewTree(t)
	tree.SyncDB(t, "core", alpmtest.Zstd, alpmtest.Core()...)

	cfg := Default()
	cfg.Root, cfg.DBPath, cfg.Arch = tree.Root, tree.DBPath, "x86_64"
	cfg.Repos = []Repo{
		{Name: "core", Servers: []string{"https://a.example.org/$repo/os/$arch/", "https://b.example.org/$repo"}},
		{Name: "extra", Usage: []string{"Sync"}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	h, err := alpm.Open(cfg.AlpmConfig(logging.Discard()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer h.Close()

	dbs, err := cfg.Register(h)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(dbs) != 2 {
		t.Fatalf("registered %d databases, want 2", len(dbs))
	}

	servers, err := dbs[0].Servers()
	if err != nil {
		t.Fatal(err)
	}
	got := servers.Slice()
	want := []string{"https://a.example.org/core/os/x86_64", "https://b.example.org/core"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("servers = %v, want %v", got, want)
	}
	if u, err := dbs[1].Usage(); err != nil || u != alpm.UsageSync {
		t.Errorf("extra usage = %v, %v", u, err)
	}

	// Registering twice fails on the first repository.
	if _, err := cfg.Register(h); err == nil {
		t.Error("second Register should fail")
	}
}
