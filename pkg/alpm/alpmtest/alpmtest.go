package alpmtest

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// DBVersion is the local database format written by LocalDB.
const DBVersion = "9"

// Compression selects the compression of written archives.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
)

func (c Compression) ext() string {
	switch c {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

// Package is the metadata of one fixture package.
type Package struct {
	Name      string
	Version   string
	Base      string
	Desc      string
	URL       string
	Arch      string
	Packager  string
	BuildDate int64
	CSize     int64
	ISize     int64
	Groups    []string
	Licenses  []string
	Depends   []string
	Provides  []string
}

// Filename is the package archive name, <name>-<version>-<arch>.pkg.tar.zst.
func (p Package) Filename() string {
	arch := p.Arch
	if arch == "" {
		arch = "any"
	}
	return fmt.Sprintf("%s-%s-%s.pkg.tar.zst", p.Name, p.Version, arch)
}

func (p Package) dir() string { return p.Name + "-" + p.Version }

// desc renders the desc file of a database entry. Sync entries carry
// FILENAME and CSIZE; local entries carry SIZE.
func (p Package) desc(local bool) []byte {
	var b bytes.Buffer
	field := func(name string, values ...string) {
		var kept []string
		for _, v := range values {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			return
		}
		fmt.Fprintf(&b, "%%%s%%\n%s\n\n", name, strings.Join(kept, "\n"))
	}
	num := func(n int64) string {
		if n == 0 {
			return ""
		}
		return strconv.FormatInt(n, 10)
	}
	if !local {
		field("FILENAME", p.Filename())
	}
	field("NAME", p.Name)
	field("BASE", p.Base)
	field("VERSION", p.Version)
	field("DESC", p.Desc)
	field("GROUPS", p.Groups...)
	if local {
		field("SIZE", num(p.ISize))
	} else {
		field("CSIZE", num(p.CSize))
		field("ISIZE", num(p.ISize))
	}
	field("URL", p.URL)
	field("LICENSE", p.Licenses...)
	field("ARCH", p.Arch)
	field("BUILDDATE", num(p.BuildDate))
	field("PACKAGER", p.Packager)
	field("DEPENDS", p.Depends...)
	field("PROVIDES", p.Provides...)
	return b.Bytes()
}

// pkginfo renders the .PKGINFO member of a package archive.
func (p Package) pkginfo() []byte {
	var b bytes.Buffer
	b.WriteString("# Generated by alpmtest\n")
	kv := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%s = %s\n", k, v)
		}
	}
	kv("pkgname", p.Name)
	kv("pkgbase", p.Base)
	kv("pkgver", p.Version)
	kv("pkgdesc", p.Desc)
	kv("url", p.URL)
	kv("builddate", strconv.FormatInt(p.BuildDate, 10))
	kv("packager", p.Packager)
	kv("size", strconv.FormatInt(p.ISize, 10))
	kv("arch", p.Arch)
	for _, v := range p.Licenses {
		kv("license", v)
	}
	for _, v := range p.Groups {
		kv("group", v)
	}
	for _, v := range p.Depends {
		kv("depend", v)
	}
	for _, v := range p.Provides {
		kv("provides", v)
	}
	return b.Bytes()
}

type entry struct {
	name string
	dir  bool
	data []byte
}

// writeArchive writes entries as a tar archive compressed with c.
func writeArchive(path string, c Compression, entries []entry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.WriteCloser
	switch c {
	case Gzip:
		w = gzip.NewWriter(f)
	case Zstd:
		zw, zerr := zstd.NewWriter(f)
		if zerr != nil {
			return zerr
		}
		w = zw
	default:
		w = nopCloser{f}
	}

	mtime := time.Unix(1700000000, 0)
	tw := tar.NewWriter(w)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.data)), ModTime: mtime, Typeflag: tar.TypeReg}
		if e.dir {
			hdr = &tar.Header{Name: e.name + "/", Mode: 0o755, ModTime: mtime, Typeflag: tar.TypeDir}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !e.dir {
			if _, err := tw.Write(e.data); err != nil {
				return err
			}
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// WriteSyncDB writes <dbpath>/sync/<repo>.db and returns its path.
func WriteSyncDB(dbpath, repo string, c Compression, pkgs ...Package) (string, error) {
	if repo == "" {
		return "", errors.New("alpmtest: empty repository name")
	}
	dir := filepath.Join(dbpath, "sync")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	var entries []entry
	for _, p := range pkgs {
		entries = append(entries,
			entry{name: p.dir(), dir: true},
			entry{name: p.dir() + "/desc", data: p.desc(false)},
		)
	}
	path := filepath.Join(dir, repo+".db")
	return path, writeArchive(path, c, entries)
}

// WriteLocalDB writes the local database under <dbpath>/local.
func WriteLocalDB(dbpath string, pkgs ...Package) error {
	dir := filepath.Join(dbpath, "local")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "ALPM_DB_VERSION"), []byte(DBVersion+"\n"), 0o644); err != nil {
		return err
	}
	for _, p := range pkgs {
		pdir := filepath.Join(dir, p.dir())
		if err := os.MkdirAll(pdir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(pdir, "desc"), p.desc(true), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// WritePackageFile writes a package archive for p into dir and returns its
// path. The archive holds .PKGINFO and one file per name in files.
func WritePackageFile(dir string, c Compression, p Package, files ...string) (string, error) {
	entries := []entry{{name: ".PKGINFO", data: p.pkginfo()}}
	for _, name := range files {
		entries = append(entries, entry{name: name, data: []byte(p.Name + "\n")})
	}
	name := strings.TrimSuffix(p.Filename(), ".zst") + c.ext()
	path := filepath.Join(dir, name)
	return path, writeArchive(path, c, entries)
}

// Tree is a fixture system: an installation root and a database path below
// a temporary directory.
type Tree struct {
	Root   string
	DBPath string
}

// NewTree creates an empty fixture system in tb.TempDir().
func NewTree(tb testing.TB) *Tree {
	tb.Helper()
	base := tb.TempDir()
	tr := &Tree{Root: filepath.Join(base, "root"), DBPath: filepath.Join(base, "db")}
	for _, dir := range []string{tr.Root, tr.DBPath} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			tb.Fatalf("alpmtest: %v", err)
		}
	}
	return tr
}

// SyncDB writes a sync database into the tree.
func (tr *Tree) SyncDB(tb testing.TB, repo string, c Compression, pkgs ...Package) string {
	tb.Helper()
	path, err := WriteSyncDB(tr.DBPath, repo, c, pkgs...)
	if err != nil {
		tb.Fatalf("alpmtest: write sync db %s: %v", repo, err)
	}
	return path
}

// LocalDB writes the local database into the tree.
func (tr *Tree) LocalDB(tb testing.TB, pkgs ...Package) {
	tb.Helper()
	if err := WriteLocalDB(tr.DBPath, pkgs...); err != nil {
		tb.Fatalf("alpmtest: write local db: %v", err)
	}
}

// PackageFile writes a package archive below the tree and returns its path.
func (tr *Tree) PackageFile(tb testing.TB, c Compression, p Package, files ...string) string {
	tb.Helper()
	dir := filepath.Join(filepath.Dir(tr.Root), "pkgs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		tb.Fatalf("alpmtest: %v", err)
	}
	path, err := WritePackageFile(dir, c, p, files...)
	if err != nil {
		tb.Fatalf("alpmtest: write package %s: %v", p.Name, err)
	}
	return path
}
