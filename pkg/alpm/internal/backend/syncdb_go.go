//go:build !libalpm || !cgo

package backend

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicBzip2 = []byte("BZh")
	magicXz    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// decompress sniffs the compression format of r and returns a reader over
// the decompressed stream.
func decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(6)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(head, magicGzip):
		return gzip.NewReader(br)
	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case bytes.HasPrefix(head, magicBzip2):
		return io.NopCloser(bzip2.NewReader(br)), nil
	case bytes.HasPrefix(head, magicXz):
		return nil, errors.New("xz compression is not supported")
	default:
		return io.NopCloser(br), nil
	}
}

// readSyncDB reads a repository database archive. Each package is a
// directory "<name>-<version>-<release>/" holding a "desc" file and, in
// older databases, a "depends" file.
func readSyncDB(h *handle, file string) ([]*pkg, Errno) {
	f, err := os.Open(file)
	if err != nil {
		h.logf(LogError, "could not open file %s: %v\n", file, err)
		return nil, ErrnoDBOpen
	}
	defer f.Close()

	rc, err := decompress(f)
	if err != nil {
		h.logf(LogError, "could not open file %s: %v\n", file, err)
		return nil, ErrnoLibarchive
	}
	defer rc.Close()

	entries := map[string]*pkg{}
	var order []string
	tr := tar.NewReader(rc)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.logf(LogError, "could not read db '%s' (%v)\n", file, err)
			return nil, ErrnoDBInvalid
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		dir, base := path.Split(strings.TrimPrefix(hdr.Name, "./"))
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" || strings.Contains(dir, "/") {
			continue
		}
		if base != "desc" && base != "depends" {
			continue
		}
		p, ok := entries[dir]
		if !ok {
			p = &pkg{h: h}
			entries[dir] = p
			order = append(order, dir)
		}
		if err := parseDesc(tr, p); err != nil {
			h.logf(LogError, "could not parse package description file '%s' from db '%s'\n", hdr.Name, file)
			return nil, ErrnoDBInvalid
		}
	}

	pkgs := make([]*pkg, 0, len(order))
	for _, dir := range order {
		p := entries[dir]
		if p.name == "" || p.version == "" {
			h.logf(LogWarning, "%s: missing name or version in entry '%s'\n", file, dir)
			continue
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, ErrnoOK
}

// readLocalDB reads the installed-package database directory. A missing
// directory is an empty database.
func readLocalDB(h *handle, dir string) ([]*pkg, Errno) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrnoOK
		}
		h.logf(LogError, "could not open local database directory %s: %v\n", dir, err)
		return nil, ErrnoDBInvalid
	}
	if v, err := os.ReadFile(filepath.Join(dir, "ALPM_DB_VERSION")); err == nil {
		if strings.TrimSpace(string(v)) != dbFormatVersion {
			return nil, ErrnoDBVersion
		}
	}
	var pkgs []*pkg
	for _, ent := range ents {
		if !ent.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(dir, ent.Name(), "desc"))
		if err != nil {
			h.logf(LogError, "could not open file %s: %v\n", filepath.Join(dir, ent.Name(), "desc"), err)
			continue
		}
		p := &pkg{h: h}
		err = parseDesc(f, p)
		f.Close()
		if err != nil || p.name == "" {
			h.logf(LogError, "corrupted database entry '%s'\n", ent.Name())
			continue
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, ErrnoOK
}

// parseDesc reads "%FIELD%" blocks terminated by an empty line.
func parseDesc(r io.Reader, p *pkg) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var field string
	var values []string
	flush := func() {
		if field != "" {
			p.setField(field, values)
		}
		field, values = "", nil
	}
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case field == "" && line == "":
		case field == "" && len(line) > 2 && line[0] == '%' && line[len(line)-1] == '%':
			field = line[1 : len(line)-1]
		case field == "":
			return errors.New("value outside of a field")
		case line == "":
			flush()
		default:
			values = append(values, line)
		}
	}
	flush()
	return sc.Err()
}

func (p *pkg) setField(field string, values []string) {
	first := ""
	if len(values) > 0 {
		first = values[0]
	}
	switch field {
	case "NAME":
		p.name = first
	case "VERSION":
		p.version = first
	case "BASE":
		p.base = first
	case "DESC":
		p.desc = first
	case "FILENAME":
		p.filename = first
	case "URL":
		p.url = first
	case "ARCH":
		p.arch = first
	case "PACKAGER":
		p.packager = first
	case "BUILDDATE":
		p.builddate, _ = strconv.ParseInt(first, 10, 64)
	case "CSIZE":
		p.size, _ = strconv.ParseInt(first, 10, 64)
	case "ISIZE", "SIZE":
		p.isize, _ = strconv.ParseInt(first, 10, 64)
	case "GROUPS":
		p.addGroups(values)
	case "LICENSE":
		p.licenses = listOf(values)
	case "DEPENDS":
		p.depends = dependList(values)
	case "PROVIDES":
		p.setProvides(values)
	}
}

func (p *pkg) addGroups(names []string) {
	p.groupNames = append(p.groupNames, names...)
	p.groups = listOf(p.groupNames)
}

func (p *pkg) setProvides(values []string) {
	p.provides = dependList(values)
	p.providesNames = p.providesNames[:0]
	for n := p.provides; n != nil; n = n.next {
		p.providesNames = append(p.providesNames, n.data.(*Depend).Name)
	}
}

func dependList(values []string) *node {
	deps := make([]*Depend, len(values))
	for i, v := range values {
		d := ParseDepend(v)
		deps[i] = &d
	}
	return listOf(deps)
}

// readPackageFile reads the .PKGINFO member of a package archive. With full
// set the whole archive is walked to verify it is readable.
func readPackageFile(h *handle, file string, full bool) (*pkg, Errno) {
	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrnoPkgNotFound
		}
		return nil, ErrnoPkgOpen
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, ErrnoPkgOpen
	}

	rc, err := decompress(f)
	if err != nil {
		h.logf(LogError, "could not open file %s: %v\n", file, err)
		return nil, ErrnoLibarchive
	}
	defer rc.Close()

	var p *pkg
	tr := tar.NewReader(rc)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ErrnoPkgInvalid
		}
		if strings.TrimPrefix(hdr.Name, "./") != ".PKGINFO" {
			if p != nil && !full {
				break
			}
			continue
		}
		p = &pkg{h: h}
		if err := parsePkgInfo(tr, p); err != nil {
			h.logf(LogError, "%s: could not parse package description file\n", file)
			return nil, ErrnoPkgInvalid
		}
		if !full {
			break
		}
	}
	if p == nil || p.name == "" || p.version == "" {
		h.logf(LogError, "%s: missing package metadata\n", file)
		return nil, ErrnoPkgInvalid
	}
	p.filename = filepath.Base(file)
	p.size = fi.Size()
	return p, ErrnoOK
}

// parsePkgInfo reads "key = value" lines from a .PKGINFO file.
func parsePkgInfo(r io.Reader, p *pkg) error {
	sc := bufio.NewScanner(r)
	var groups, licenses, depends, provides []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, " = ")
		if !ok {
			return errors.New("syntax error in .PKGINFO")
		}
		switch key {
		case "pkgname":
			p.name = value
		case "pkgbase":
			p.base = value
		case "pkgver":
			p.version = value
		case "pkgdesc":
			p.desc = value
		case "url":
			p.url = value
		case "arch":
			p.arch = value
		case "packager":
			p.packager = value
		case "builddate":
			p.builddate, _ = strconv.ParseInt(value, 10, 64)
		case "size":
			p.isize, _ = strconv.ParseInt(value, 10, 64)
		case "group":
			groups = append(groups, value)
		case "license":
			licenses = append(licenses, value)
		case "depend":
			depends = append(depends, value)
		case "provides":
			provides = append(provides, value)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	p.addGroups(groups)
	p.licenses = listOf(licenses)
	p.depends = dependList(depends)
	p.setProvides(provides)
	return nil
}

func sortPkgs(pkgs []*pkg) {
	sort.SliceStable(pkgs, func(i, j int) bool { return pkgs[i].name < pkgs[j].name })
}
