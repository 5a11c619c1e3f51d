//go:build !libalpm || !cgo

package backend

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Version reports the implementation in place of alpm_version().
func Version() string { return "go-" + dbFormatVersion }

// dbFormatVersion is the local database layout this implementation reads.
const dbFormatVersion = "9"

type handle struct {
	root     string
	dbpath   string
	errno    Errno
	logcb    LogFunc
	local    *db
	syncs    []*db
	siglevel int
}

// Handle is an open library session.
type Handle struct{ h *handle }

func (h Handle) IsNil() bool { return h.h == nil }

type pkgOrigin int

const (
	originFile pkgOrigin = iota + 1
	originLocal
	originSync
)

type db struct {
	h        *handle
	name     string
	local    bool
	siglevel int
	usage    int
	servers  *node

	once     sync.Once
	loadErr  Errno
	pkgs     *node
	byName   map[string]*pkg
	groups   *node
	grpIndex map[string]*group
}

// DB is a registered database.
type DB struct{ d *db }

func (d DB) IsNil() bool { return d.d == nil }

type pkg struct {
	h      *handle
	db     *db
	origin pkgOrigin

	name, version, desc, url  string
	arch, base, packager      string
	filename                  string
	builddate, size, isize    int64
	groups, licenses          *node
	depends, provides         *node
	groupNames, providesNames []string
	freed                     bool
}

// Pkg is a package owned by a database cache or, after PkgLoad, by the
// caller.
type Pkg struct{ p *pkg }

func (p Pkg) IsNil() bool { return p.p == nil }

type group struct {
	name string
	pkgs *node
}

// Group is a group owned by a database cache.
type Group struct{ g *group }

func (g Group) IsNil() bool { return g.g == nil }

func (h *handle) fail(e Errno) { h.errno = e }

func (h *handle) logf(level LogLevel, format string, args ...any) {
	if h.logcb != nil {
		h.logcb(level, fmt.Sprintf(format, args...))
	}
}

// Initialize opens a session for root and dbpath.
func Initialize(root, dbpath string) (Handle, Errno) {
	if root == "" || dbpath == "" {
		return Handle{}, ErrnoWrongArgs
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return Handle{}, ErrnoNotADir
	}
	h := &handle{root: root, dbpath: dbpath}
	h.local = &db{h: h, name: "local", local: true, usage: UsageAll}
	return Handle{h}, ErrnoOK
}

// Release closes the session and unregisters every database.
func Release(h Handle) int {
	if h.h == nil {
		return -1
	}
	UnregisterAllSyncDBs(h)
	if h.h.local != nil {
		h.h.local.h = nil
		h.h.local = nil
	}
	h.h.logcb = nil
	return 0
}

func LastErrno(h Handle) Errno {
	if h.h == nil {
		return ErrnoHandleNull
	}
	return h.h.errno
}

func Root(h Handle) string   { return h.h.root }
func DBPath(h Handle) string { return h.h.dbpath }

func SetLogCallback(h Handle, fn LogFunc) int {
	h.h.logcb = fn
	return 0
}

// RegisterSyncDB registers a sync database. Signature checking is not
// available here, so only level 0 or SigUseDefault is accepted.
func RegisterSyncDB(h Handle, name string, siglevel int) DB {
	hh := h.h
	hh.errno = ErrnoOK
	if name == "" {
		hh.fail(ErrnoWrongArgs)
		return DB{}
	}
	if name == "local" {
		hh.fail(ErrnoDBNotNull)
		return DB{}
	}
	for _, d := range hh.syncs {
		if d.name == name {
			hh.fail(ErrnoDBNotNull)
			return DB{}
		}
	}
	if siglevel == SigUseDefault {
		siglevel = hh.siglevel
	}
	if siglevel != 0 {
		hh.fail(ErrnoMissingCapabilitySignatures)
		return DB{}
	}
	hh.logf(LogDebug, "registering sync database '%s'\n", name)
	d := &db{h: hh, name: name, siglevel: siglevel, usage: UsageAll}
	hh.syncs = append(hh.syncs, d)
	return DB{d}
}

func UnregisterAllSyncDBs(h Handle) int {
	hh := h.h
	if hh == nil {
		return -1
	}
	hh.errno = ErrnoOK
	for _, d := range hh.syncs {
		hh.logf(LogDebug, "unregistering database '%s'\n", d.name)
		d.h = nil
	}
	hh.syncs = nil
	return 0
}

func SyncDBs(h Handle) List {
	return List{listOf(h.h.syncs)}
}

func LocalDB(h Handle) DB {
	if h.h.local == nil {
		h.h.fail(ErrnoDBNull)
		return DB{}
	}
	return DB{h.h.local}
}

func DBName(d DB) string { return d.d.name }

func DBUnregister(d DB) int {
	hh := d.d.h
	if hh == nil {
		return -1
	}
	hh.errno = ErrnoOK
	if d.d.local {
		hh.local = nil
	} else {
		found := false
		for i, s := range hh.syncs {
			if s == d.d {
				hh.syncs = append(hh.syncs[:i], hh.syncs[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			hh.fail(ErrnoDBNotFound)
			return -1
		}
	}
	hh.logf(LogDebug, "unregistering database '%s'\n", d.d.name)
	d.d.h = nil
	return 0
}

func sanitizeURL(url string) string {
	return strings.TrimRight(url, "/")
}

func DBAddServer(d DB, url string) int {
	hh := d.d.h
	hh.errno = ErrnoOK
	url = sanitizeURL(url)
	if url == "" {
		hh.fail(ErrnoWrongArgs)
		return -1
	}
	d.d.servers = appendNode(d.d.servers, url)
	hh.logf(LogDebug, "adding new server URL to database '%s': %s\n", d.d.name, url)
	return 0
}

// DBRemoveServer returns 1 when url is not in the server list.
func DBRemoveServer(d DB, url string) int {
	hh := d.d.h
	hh.errno = ErrnoOK
	url = sanitizeURL(url)
	if url == "" {
		hh.fail(ErrnoWrongArgs)
		return -1
	}
	var prev *node
	for n := d.d.servers; n != nil; prev, n = n, n.next {
		if n.data.(string) != url {
			continue
		}
		if prev == nil {
			d.d.servers = n.next
		} else {
			prev.next = n.next
		}
		hh.logf(LogDebug, "removed server URL from database '%s': %s\n", d.d.name, url)
		return 0
	}
	return 1
}

func DBServers(d DB) List { return List{d.d.servers} }

// DBSetServers replaces the server list and takes ownership of servers.
func DBSetServers(d DB, servers List) int {
	hh := d.d.h
	hh.errno = ErrnoOK
	for n := servers.n; n != nil; n = n.next {
		s, _ := n.data.(string)
		if s = sanitizeURL(s); s == "" {
			hh.fail(ErrnoWrongArgs)
			return -1
		}
		n.data = s
	}
	untrack(servers.n)
	d.d.servers = servers.n
	return 0
}

func DBSigLevel(d DB) int { return d.d.siglevel }

// DBValid checks that the database can be read. A sync database whose file
// does not exist yet is valid; it has simply not been downloaded.
func DBValid(d DB) int {
	hh := d.d.h
	hh.errno = ErrnoOK
	if !d.d.local {
		if _, err := os.Stat(d.d.path()); errors.Is(err, fs.ErrNotExist) {
			return 0
		}
	}
	if e := d.d.load(); e != ErrnoOK {
		hh.fail(e)
		return -1
	}
	return 0
}

func DBSetUsage(d DB, usage int) int {
	d.d.h.errno = ErrnoOK
	d.d.usage = usage
	return 0
}

func DBUsage(d DB) (int, int) {
	d.d.h.errno = ErrnoOK
	return d.d.usage, 0
}

func DBPkg(d DB, name string) Pkg {
	hh := d.d.h
	hh.errno = ErrnoOK
	if name == "" {
		hh.fail(ErrnoWrongArgs)
		return Pkg{}
	}
	if e := d.d.load(); e != ErrnoOK {
		hh.fail(e)
		return Pkg{}
	}
	p, ok := d.d.byName[name]
	if !ok {
		hh.fail(ErrnoPkgNotFound)
		return Pkg{}
	}
	return Pkg{p}
}

// DBPkgCache returns the package cache. An empty database yields a nil list
// with errno left at ErrnoOK.
func DBPkgCache(d DB) List {
	hh := d.d.h
	hh.errno = ErrnoOK
	if e := d.d.load(); e != ErrnoOK {
		hh.fail(e)
		return List{}
	}
	return List{d.d.pkgs}
}

// DBGroup returns nil with errno ErrnoOK when the group does not exist.
func DBGroup(d DB, name string) Group {
	hh := d.d.h
	hh.errno = ErrnoOK
	if name == "" {
		hh.fail(ErrnoWrongArgs)
		return Group{}
	}
	if e := d.d.load(); e != ErrnoOK {
		hh.fail(e)
		return Group{}
	}
	g, ok := d.d.grpIndex[name]
	if !ok {
		return Group{}
	}
	return Group{g}
}

func DBGroupCache(d DB) List {
	hh := d.d.h
	hh.errno = ErrnoOK
	if e := d.d.load(); e != ErrnoOK {
		hh.fail(e)
		return List{}
	}
	return List{d.d.groups}
}

// DBSearch matches needles as case-insensitive extended regular expressions
// against name, description, provides and groups; needles are AND-ed. The
// returned list is owned by the caller.
func DBSearch(d DB, needles List) (List, int) {
	hh := d.d.h
	hh.errno = ErrnoOK
	if d.d.usage&UsageSearch == 0 {
		return List{}, 0
	}
	if e := d.d.load(); e != ErrnoOK {
		hh.fail(e)
		return List{}, -1
	}
	var candidates []*pkg
	if needles.n != nil {
		for n := d.d.pkgs; n != nil; n = n.next {
			candidates = append(candidates, n.data.(*pkg))
		}
	}
	for n := needles.n; n != nil; n = n.next {
		targ, ok := n.data.(string)
		if !ok {
			continue
		}
		re, err := regexp.Compile("(?im)" + targ)
		if err != nil {
			hh.fail(ErrnoInvalidRegex)
			return List{}, -1
		}
		var next []*pkg
		for _, p := range candidates {
			if p.matches(re, targ) {
				next = append(next, p)
			}
		}
		candidates = next
	}
	head := listOf(candidates)
	track(head)
	return List{head}, 0
}

func (p *pkg) matches(re *regexp.Regexp, targ string) bool {
	if p.name == targ || re.MatchString(p.name) {
		return true
	}
	if p.desc != "" && re.MatchString(p.desc) {
		return true
	}
	for _, name := range p.providesNames {
		if re.MatchString(name) {
			return true
		}
	}
	for _, g := range p.groupNames {
		if re.MatchString(g) {
			return true
		}
	}
	return false
}

func (d *db) path() string {
	return filepath.Join(d.h.dbpath, "sync", d.name+".db")
}

// load populates the caches on first use.
func (d *db) load() Errno {
	d.once.Do(func() {
		var pkgs []*pkg
		var e Errno
		if d.local {
			pkgs, e = readLocalDB(d.h, filepath.Join(d.h.dbpath, "local"))
		} else {
			d.h.logf(LogDebug, "loading package cache for repository '%s'\n", d.name)
			pkgs, e = readSyncDB(d.h, d.path())
		}
		if e != ErrnoOK {
			d.loadErr = e
			return
		}
		d.index(pkgs)
	})
	return d.loadErr
}

func (d *db) index(pkgs []*pkg) {
	d.byName = make(map[string]*pkg, len(pkgs))
	d.grpIndex = map[string]*group{}
	var kept []*pkg
	for _, p := range pkgs {
		if _, dup := d.byName[p.name]; dup {
			d.h.logf(LogWarning, "%s: duplicated database entry '%s'\n", d.name, p.name)
			continue
		}
		p.db = d
		if d.local {
			p.origin = originLocal
		} else {
			p.origin = originSync
		}
		d.byName[p.name] = p
		kept = append(kept, p)
	}
	sortPkgs(kept)
	d.pkgs = listOf(kept)

	var groups []*group
	for _, p := range kept {
		for _, name := range p.groupNames {
			g, ok := d.grpIndex[name]
			if !ok {
				g = &group{name: name}
				d.grpIndex[name] = g
				groups = append(groups, g)
			}
			g.pkgs = appendNode(g.pkgs, p)
		}
	}
	d.groups = listOf(groups)
}

func GroupName(g Group) string   { return g.g.name }
func GroupPackages(g Group) List { return List{g.g.pkgs} }
func PkgName(p Pkg) string       { return p.p.name }
func PkgVersion(p Pkg) string    { return p.p.version }
func PkgDesc(p Pkg) string       { return p.p.desc }
func PkgURL(p Pkg) string        { return p.p.url }
func PkgArch(p Pkg) string       { return p.p.arch }
func PkgBase(p Pkg) string       { return p.p.base }
func PkgPackager(p Pkg) string   { return p.p.packager }
func PkgFilename(p Pkg) string   { return p.p.filename }
func PkgBuildDate(p Pkg) int64   { return p.p.builddate }
func PkgSize(p Pkg) int64        { return p.p.size }
func PkgISize(p Pkg) int64       { return p.p.isize }
func PkgGroups(p Pkg) List       { return List{p.p.groups} }
func PkgLicenses(p Pkg) List     { return List{p.p.licenses} }
func PkgDepends(p Pkg) List      { return List{p.p.depends} }
func PkgProvides(p Pkg) List     { return List{p.p.provides} }
func PkgDB(p Pkg) DB             { return DB{p.p.db} }

// PkgLoad reads a package file. The package is owned by the caller and must
// be released with PkgFree.
func PkgLoad(h Handle, path string, full bool, siglevel int) (Pkg, int) {
	hh := h.h
	hh.errno = ErrnoOK
	if path == "" {
		hh.fail(ErrnoWrongArgs)
		return Pkg{}, -1
	}
	if siglevel == SigUseDefault {
		siglevel = hh.siglevel
	}
	if siglevel != 0 {
		hh.fail(ErrnoMissingCapabilitySignatures)
		return Pkg{}, -1
	}
	p, e := readPackageFile(hh, path, full)
	if e != ErrnoOK {
		hh.fail(e)
		return Pkg{}, -1
	}
	p.origin = originFile
	return Pkg{p}, 0
}

func PkgFree(p Pkg) int {
	if p.p == nil {
		return -1
	}
	if p.p.origin != originFile {
		// cache packages belong to their database
		return -1
	}
	if p.p.freed {
		panic(fmt.Sprintf("alpm: double free of package %q", p.p.name))
	}
	p.p.freed = true
	p.p.groups, p.p.licenses, p.p.depends, p.p.provides = nil, nil, nil, nil
	return 0
}

// PkgComputeRequiredBy lists the names of packages depending on p. The list
// and its strings are owned by the caller.
func PkgComputeRequiredBy(p Pkg) List {
	hh := p.p.h
	hh.errno = ErrnoOK
	var dbs []*db
	switch p.p.origin {
	case originSync:
		dbs = hh.syncs
	default:
		if hh.local != nil {
			dbs = []*db{hh.local}
		}
	}
	var names []string
	seen := map[string]bool{}
	for _, d := range dbs {
		if d.load() != ErrnoOK {
			continue
		}
		for n := d.pkgs; n != nil; n = n.next {
			cp := n.data.(*pkg)
			for dn := cp.depends; dn != nil; dn = dn.next {
				if p.p.satisfies(*dn.data.(*Depend)) && !seen[cp.name] {
					seen[cp.name] = true
					names = append(names, cp.name)
					break
				}
			}
		}
	}
	// Names gathered across sync databases are merged in sorted order.
	if p.p.origin == originSync {
		slices.Sort(names)
	}
	head := listOf(names)
	track(head)
	return List{head}
}

// satisfies reports whether p, by name or through a provision, fulfils dep.
func (p *pkg) satisfies(dep Depend) bool {
	if p.name == dep.Name && versionSatisfies(p.version, dep) {
		return true
	}
	for n := p.provides; n != nil; n = n.next {
		prov := n.data.(*Depend)
		if prov.Name != dep.Name {
			continue
		}
		if dep.Mod == DepModAny {
			return true
		}
		if prov.Mod == DepModEQ && versionSatisfies(prov.Version, dep) {
			return true
		}
	}
	return false
}

func versionSatisfies(version string, dep Depend) bool {
	if dep.Mod == DepModAny || dep.Mod == 0 {
		return true
	}
	c := PkgVercmp(version, dep.Version)
	switch dep.Mod {
	case DepModEQ:
		return c == 0
	case DepModGE:
		return c >= 0
	case DepModLE:
		return c <= 0
	case DepModGT:
		return c > 0
	case DepModLT:
		return c < 0
	}
	return false
}
