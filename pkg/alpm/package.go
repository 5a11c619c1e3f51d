package alpm

import (
	"errors"
	"runtime"
	"time"

	"github.com/alpmgo/alpm-go/pkg/alpm/internal/backend"
)

// errNoPackage is reported by a zero Package.
var errNoPackage = errors.New("alpm: zero Package")

// Package is a read-only view of a package. Views returned by a DB point
// into the database cache and stay valid while that DB is registered and
// its Handle open; views of an OwnedPackage stay valid until it is closed.
//
// Accessors of a stale view return zero values. Valid reports why.
type Package struct {
	h   *Handle
	src validator
	p   backend.Pkg
}

// lock takes the Handle mutex if the view is still valid. On success the
// caller must unlock.
func (p Package) lock() error {
	if p.h == nil {
		return errNoPackage
	}
	p.h.mu.Lock()
	if err := p.validLocked(); err != nil {
		p.h.mu.Unlock()
		return err
	}
	return nil
}

func (p Package) validLocked() error {
	if p.h.closed {
		return ErrHandleClosed
	}
	return p.src.validLocked()
}

// Valid returns nil while the view can be used.
func (p Package) Valid() error {
	if err := p.lock(); err != nil {
		return opError("Package.Valid", err)
	}
	p.h.mu.Unlock()
	return nil
}

func (p Package) str(get func(backend.Pkg) string) string {
	if p.lock() != nil {
		return ""
	}
	defer p.h.mu.Unlock()
	return get(p.p)
}

func (p Package) num(get func(backend.Pkg) int64) int64 {
	if p.lock() != nil {
		return 0
	}
	defer p.h.mu.Unlock()
	return get(p.p)
}

func (p Package) Name() string        { return p.str(backend.PkgName) }
func (p Package) Version() string     { return p.str(backend.PkgVersion) }
func (p Package) Description() string { return p.str(backend.PkgDesc) }
func (p Package) URL() string         { return p.str(backend.PkgURL) }
func (p Package) Arch() string        { return p.str(backend.PkgArch) }
func (p Package) Base() string        { return p.str(backend.PkgBase) }
func (p Package) Packager() string    { return p.str(backend.PkgPackager) }
func (p Package) Filename() string    { return p.str(backend.PkgFilename) }

// BuildDate returns the build timestamp, or the zero time if unknown.
func (p Package) BuildDate() time.Time {
	if ts := p.num(backend.PkgBuildDate); ts != 0 {
		return time.Unix(ts, 0)
	}
	return time.Time{}
}

// Size is the size of the package archive in bytes.
func (p Package) Size() int64 { return p.num(backend.PkgSize) }

// ISize is the installed size in bytes.
func (p Package) ISize() int64 { return p.num(backend.PkgISize) }

// DB returns the database the package belongs to, or nil for a package
// loaded from a file.
func (p Package) DB() *DB {
	if p.lock() != nil {
		return nil
	}
	defer p.h.mu.Unlock()
	bd := backend.PkgDB(p.p)
	if bd.IsNil() {
		return nil
	}
	if d, ok := p.h.dbs[bd]; ok {
		return d
	}
	return nil
}

func (p Package) view(get func(backend.Pkg) backend.List) func() backend.List {
	return func() backend.List { return get(p.p) }
}

// Groups lists the groups the package is part of.
func (p Package) Groups() *List[string] {
	if p.h == nil {
		return emptyList[string]()
	}
	return newView(p.h, p, p.view(backend.PkgGroups), convString)
}

// Licenses lists the package licenses.
func (p Package) Licenses() *List[string] {
	if p.h == nil {
		return emptyList[string]()
	}
	return newView(p.h, p, p.view(backend.PkgLicenses), convString)
}

// Depends lists the run-time dependencies.
func (p Package) Depends() *List[Depend] {
	if p.h == nil {
		return emptyList[Depend]()
	}
	return newView(p.h, p, p.view(backend.PkgDepends), convDepend)
}

// Provides lists the virtual packages this package provides.
func (p Package) Provides() *List[Depend] {
	if p.h == nil {
		return emptyList[Depend]()
	}
	return newView(p.h, p, p.view(backend.PkgProvides), convDepend)
}

// ComputeRequiredBy lists the names of packages that depend on p. For a
// sync package every sync database is searched, otherwise the local
// database. The list owns its strings and is freed once iterated or closed.
func (p Package) ComputeRequiredBy() *List[string] {
	if p.lock() != nil {
		return emptyList[string]()
	}
	defer p.h.mu.Unlock()
	return newOwned(p.h, p, backend.PkgComputeRequiredBy(p.p), FreeFull, convString)
}

// ownedState holds a package loaded from a file. Every view of the package
// references it, so its finalizer runs only once no view is left.
type ownedState struct {
	h      *Handle
	p      backend.Pkg
	closed bool
}

func (s *ownedState) validLocked() error {
	if s.closed {
		return ErrPackageClosed
	}
	return nil
}

// free releases the package once. It runs with the Handle mutex held.
func (s *ownedState) free() int {
	if s.closed {
		return 0
	}
	s.closed = true
	return backend.PkgFree(s.p)
}

// OwnedPackage is a package loaded from a file. Unlike a cache view it is
// owned by the caller and must be closed; a finalizer frees it once neither
// the OwnedPackage nor any view of it is reachable.
type OwnedPackage struct {
	Package
	state *ownedState
}

func newOwnedPackage(h *Handle, bp backend.Pkg) *OwnedPackage {
	st := &ownedState{h: h, p: bp}
	runtime.SetFinalizer(st, func(s *ownedState) {
		s.h.mu.Lock()
		defer s.h.mu.Unlock()
		s.free()
	})
	return &OwnedPackage{Package: Package{h: h, src: st, p: bp}, state: st}
}

// Close frees the package. It is safe to call Close multiple times. Views
// obtained from the package report ErrPackageClosed afterwards.
func (p *OwnedPackage) Close() error {
	if p == nil || p.state == nil {
		return nil
	}
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	runtime.SetFinalizer(p.state, nil)
	if ret := p.state.free(); ret != 0 {
		return opError("OwnedPackage.Close", errors.New("alpm_pkg_free failed"))
	}
	return nil
}
