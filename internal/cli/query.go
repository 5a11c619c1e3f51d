package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alpmgo/alpm-go/pkg/alpm"
)

func (c *CLI) reposCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List the configured repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				out := cmd.OutOrStdout()
				st := newStyles(out)
				for _, db := range append(s.dbs, s.local) {
					if err := printRepo(out, st, db); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

// unavailable reports, with a warning, whether err means the database file
// has not been downloaded.
func (c *CLI) unavailable(db *alpm.DB, err error) bool {
	if !errors.Is(err, alpm.ErrnoDBOpen) {
		return false
	}
	c.Logger.Warn("database is not available", "repo", db.Name())
	return true
}

func printRepo(w io.Writer, st styles, db *alpm.DB) error {
	level, err := db.SigLevel()
	if err != nil {
		return err
	}
	usage, err := db.Usage()
	if err != nil {
		return err
	}
	servers, err := db.Servers()
	if err != nil {
		return err
	}

	count := "not available"
	if pkgs, err := db.Pkgs(); err == nil {
		count = fmt.Sprint(pkgs.Len())
	}

	fmt.Fprintln(w, st.repo.Render(db.Name()))
	st.field(w, "SigLevel", level.String())
	st.field(w, "Usage", usage.String())
	st.field(w, "Packages", count)
	st.field(w, "Servers", joinOrNone(servers.Slice()))
	fmt.Fprintln(w)
	return nil
}

func (c *CLI) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <regex>...",
		Short: "Search the sync databases",
		Long:  `Search matches every regular expression against package names, descriptions, provides and groups. A package is listed when all expressions match.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				out := cmd.OutOrStdout()
				st := newStyles(out)
				found := 0
				for _, db := range s.dbs {
					res, err := db.Search(args)
					if c.unavailable(db, err) {
						continue
					}
					if err != nil {
						return fmt.Errorf("search %s: %w", db.Name(), err)
					}
					for p := range res.All() {
						found++
						printSearchResult(out, st, s.local, db.Name(), p)
					}
				}
				c.Logger.Debug("search done", "patterns", args, "found", found)
				return nil
			})
		},
	}
}

func printSearchResult(w io.Writer, st styles, local *alpm.DB, repo string, p alpm.Package) {
	line := st.repo.Render(repo+"/") + st.name.Render(p.Name()) + " " + st.version.Render(p.Version())
	if groups := p.Groups().Slice(); len(groups) > 0 {
		line += " (" + strings.Join(groups, " ") + ")"
	}
	if lp, err := local.Pkg(p.Name()); err == nil {
		mark := "[installed]"
		if v := lp.Version(); v != p.Version() {
			mark = fmt.Sprintf("[installed: %s]", v)
		}
		line += " " + st.installed.Render(mark)
	}
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "    %s\n", p.Description())
}

func (c *CLI) infoCommand() *cobra.Command {
	var local bool
	var file bool

	cmd := &cobra.Command{
		Use:   "info <package>",
		Short: "Show package details",
		Long:  `Show the details of a package from the sync databases, the local database (--local) or a package file (--file).`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				out := cmd.OutOrStdout()
				st := newStyles(out)

				if file {
					p, err := s.h.LoadPackage(args[0], false, alpm.SigUseDefault)
					if err != nil {
						return err
					}
					defer p.Close()
					printInfo(out, st, "", p.Package)
					return nil
				}

				dbs := s.dbs
				if local {
					dbs = []*alpm.DB{s.local}
				}
				shown := 0
				for _, db := range dbs {
					p, err := db.Pkg(args[0])
					if errors.Is(err, alpm.ErrNotFound) || c.unavailable(db, err) {
						continue
					}
					if err != nil {
						return err
					}
					printInfo(out, st, db.Name(), p)
					shown++
				}
				if shown == 0 {
					return fmt.Errorf("package %q was not found", args[0])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&local, "local", "l", false, "query the local database")
	cmd.Flags().BoolVarP(&file, "file", "f", false, "treat the argument as a package file")
	cmd.MarkFlagsMutuallyExclusive("local", "file")
	return cmd
}

func printInfo(w io.Writer, st styles, repo string, p alpm.Package) {
	var provides, depends []string
	for d := range p.Provides().All() {
		provides = append(provides, d.String())
	}
	for d := range p.Depends().All() {
		depends = append(depends, d.String())
	}

	if repo != "" {
		st.field(w, "Repository", repo)
	}
	st.field(w, "Name", p.Name())
	st.field(w, "Version", p.Version())
	st.field(w, "Description", p.Description())
	st.field(w, "Architecture", p.Arch())
	st.field(w, "URL", p.URL())
	st.field(w, "Licenses", joinOrNone(p.Licenses().Slice()))
	st.field(w, "Groups", joinOrNone(p.Groups().Slice()))
	st.field(w, "Provides", joinOrNone(provides))
	st.field(w, "Depends On", joinOrNone(depends))
	if p.DB() != nil {
		st.field(w, "Required By", joinOrNone(p.ComputeRequiredBy().Slice()))
	}
	if repo != "local" {
		st.field(w, "Download Size", humanSize(p.Size()))
	}
	st.field(w, "Installed Size", humanSize(p.ISize()))
	packager := p.Packager()
	if packager == "" {
		packager = "Unknown Packager"
	}
	st.field(w, "Packager", packager)
	st.field(w, "Build Date", formatDate(p.BuildDate()))
	fmt.Fprintln(w)
}

func (c *CLI) groupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "group <name>...",
		Short: "List the members of groups",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				out := cmd.OutOrStdout()
				for _, name := range args {
					for _, db := range s.dbs {
						g, err := db.Group(name)
						if errors.Is(err, alpm.ErrNotFound) || c.unavailable(db, err) {
							continue
						}
						if err != nil {
							return err
						}
						for p := range g.Packages().All() {
							fmt.Fprintf(out, "%s %s\n", g.Name(), p.Name())
						}
					}
				}
				return nil
			})
		},
	}
}

func (c *CLI) requiredByCommand() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "requiredby <package>",
		Short: "List the packages that depend on a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				dbs := s.dbs
				if local {
					dbs = []*alpm.DB{s.local}
				}
				for _, db := range dbs {
					p, err := db.Pkg(args[0])
					if errors.Is(err, alpm.ErrNotFound) || c.unavailable(db, err) {
						continue
					}
					if err != nil {
						return err
					}
					for name := range p.ComputeRequiredBy().All() {
						fmt.Fprintln(cmd.OutOrStdout(), name)
					}
					return nil
				}
				return fmt.Errorf("package %q was not found", args[0])
			})
		},
	}

	cmd.Flags().BoolVarP(&local, "local", "l", false, "query the local database")
	return cmd
}
