// Package cli implements the alpm-go command-line interface.
//
// The commands are read-only queries over the package databases named in a
// configuration file (see internal/config): listing repositories, searching,
// showing package details, listing groups, reverse dependencies and
// comparing versions.
//
// # Logging
//
// Every command supports --verbose (-v) for debug-level logging, which also
// shows libalpm's own debug output. Logging goes through charmbracelet/log,
// which backs the slog logger handed to the binding.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/alpmgo/alpm-go/internal/config"
	"github.com/alpmgo/alpm-go/pkg/alpm"
	"github.com/alpmgo/alpm-go/pkg/alpm/logging"
)

const appName = "alpm-go"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Query pacman package databases through libalpm",
		Long:         `alpm-go reads the sync and local package databases of an Arch Linux system through libalpm: list repositories, search packages, show package details and compare versions.`,
		Version:      alpm.WrapperVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\nlibalpm %s\n", appName, alpm.LibraryVersion()))
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "configuration file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.reposCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.groupCommand())
	root.AddCommand(c.requiredByCommand())
	root.AddCommand(c.vercmpCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// setup loads the configuration and sets the log level from it, unless
// --verbose asks for debug output.
func (c *CLI) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := LogDebug
	if !c.verbose {
		if level, err = log.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}
	c.SetLogLevel(level)
	c.Logger.Debug("loaded configuration", "path", c.configPath, "root", cfg.Root, "dbpath", cfg.DBPath, "repos", len(cfg.Repos))
	return nil
}

// session is an open handle with the configured repositories registered.
type session struct {
	h     *alpm.Handle
	dbs   []*alpm.DB
	local *alpm.DB
}

// open opens libalpm and registers the configured repositories. The caller
// must call close.
func (c *CLI) open(ctx context.Context) (*session, error) {
	logger := logging.New(slog.New(c.Logger)).With("component", "alpm")
	h, err := alpm.Open(c.cfg.AlpmConfig(logger))
	if err != nil {
		return nil, err
	}
	dbs, err := c.cfg.Register(h)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	local, err := h.LocalDB()
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	logger.Debug(ctx, "session ready", "sync", len(dbs))
	return &session{h: h, dbs: dbs, local: local}, nil
}

func (s *session) close() {
	_ = s.h.Close()
}

// withSession runs fn with an open session and closes it afterwards.
func (c *CLI) withSession(cmd *cobra.Command, fn func(*session) error) error {
	s, err := c.open(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}
