package alpm

import (
	"context"

	"github.com/alpmgo/alpm-go/pkg/alpm/internal/backend"
	"github.com/alpmgo/alpm-go/pkg/alpm/logging"
)

// DB is a registered package database, either a sync repository or the
// local database of installed packages. A DB is owned by its Handle.
//
// After Unregister, UnregisterAllSyncDBs or Handle.Close every method fails
// with ErrUnregistered or ErrHandleClosed without calling into libalpm.
type DB struct {
	h    *Handle
	db   backend.DB
	name string

	// err is set once the database is no longer usable. Guarded by h.mu.
	err error
}

// lock takes the Handle mutex and fails if the database or its Handle is no
// longer valid. On success the caller must unlock.
func (d *DB) lock(op string) error {
	if d == nil {
		return opError(op, ErrUnregistered)
	}
	if err := d.h.lock(op); err != nil {
		return err
	}
	if d.err != nil {
		d.h.mu.Unlock()
		return opError(op, d.err)
	}
	return nil
}

func (d *DB) validLocked() error {
	if d.h.closed {
		return ErrHandleClosed
	}
	return d.err
}

// Name returns the name the database was registered under. It is recorded
// at registration and stays readable after the database is unregistered.
func (d *DB) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// Valid reports whether the database can still be used.
func (d *DB) Valid() error {
	if err := d.lock("Valid"); err != nil {
		return err
	}
	d.h.mu.Unlock()
	return nil
}

// Unregister asks libalpm to forget the database. The DB must not be used
// afterwards; every later call fails with ErrUnregistered.
func (d *DB) Unregister() error {
	const op = "Unregister"
	if err := d.lock(op); err != nil {
		return err
	}
	defer d.h.mu.Unlock()

	if err := checkRet(d.h, op, backend.DBUnregister(d.db)); err != nil {
		return err
	}
	delete(d.h.dbs, d.db)
	d.err = ErrUnregistered
	d.h.log.Debug(context.Background(), "unregistered database", "name", d.name)
	return nil
}

// AddServer appends url to the server list. Trailing slashes are trimmed.
func (d *DB) AddServer(url string) error {
	const op = "AddServer"
	if err := checkString(op, url); err != nil {
		return err
	}
	if err := d.lock(op); err != nil {
		return err
	}
	defer d.h.mu.Unlock()

	if err := checkRet(d.h, op, backend.DBAddServer(d.db, url)); err != nil {
		return err
	}
	d.h.log.Debug(context.Background(), "added server", "db", d.name, logging.URL("url", url))
	return nil
}

// RemoveServer removes url from the server list. An unknown url yields
// ErrServerNotFound.
func (d *DB) RemoveServer(url string) error {
	const op = "RemoveServer"
	if err := checkString(op, url); err != nil {
		return err
	}
	if err := d.lock(op); err != nil {
		return err
	}
	defer d.h.mu.Unlock()

	switch ret := backend.DBRemoveServer(d.db, url); ret {
	case 0:
		return nil
	case 1:
		return opError(op, ErrServerNotFound)
	default:
		return checkRet(d.h, op, ret)
	}
}

// Servers returns the server URLs in the order they were added. The list is
// a view: every iteration reads the current server list.
func (d *DB) Servers() (*List[string], error) {
	if err := d.lock("Servers"); err != nil {
		return nil, err
	}
	defer d.h.mu.Unlock()
	return newView(d.h, d, func() backend.List { return backend.DBServers(d.db) }, convString), nil
}

// SetServers replaces the server list with urls. Nothing is changed if any
// url contains a NUL byte.
func (d *DB) SetServers(urls []string) error {
	const op = "SetServers"
	if err := checkStrings(op, urls); err != nil {
		return err
	}
	if err := d.lock(op); err != nil {
		return err
	}
	defer d.h.mu.Unlock()

	var list backend.List
	for _, u := range urls {
		list = backend.ListAddString(list, u)
	}
	// On success libalpm owns list.
	if ret := backend.DBSetServers(d.db, list); ret != 0 {
		backend.ListFreeFull(list)
		return checkRet(d.h, op, ret)
	}
	return nil
}

// Pkg looks up a package by exact name. A missing package yields an error
// matching ErrNotFound.
func (d *DB) Pkg(name string) (Package, error) {
	const op = "Pkg"
	if err := checkString(op, name); err != nil {
		return Package{}, err
	}
	if err := d.lock(op); err != nil {
		return Package{}, err
	}
	defer d.h.mu.Unlock()

	bp := backend.DBPkg(d.db, name)
	if err := checkNull(d.h, op, bp); err != nil {
		return Package{}, err
	}
	return Package{h: d.h, src: d, p: bp}, nil
}

// Pkgs returns every package in the database cache, in cache order.
func (d *DB) Pkgs() (*List[Package], error) {
	const op = "Pkgs"
	if err := d.lock(op); err != nil {
		return nil, err
	}
	defer d.h.mu.Unlock()

	// Populate the cache now so load failures surface here rather than as
	// an empty iteration.
	if backend.DBPkgCache(d.db).IsNil() {
		if code := d.h.errno(); code != ErrnoOK {
			return nil, nativeError(op, code, nil)
		}
	}
	return newView(d.h, d, func() backend.List { return backend.DBPkgCache(d.db) }, d.convPkg), nil
}

// Group looks up a group by exact name. A missing group yields ErrNotFound.
func (d *DB) Group(name string) (Group, error) {
	const op = "Group"
	if err := checkString(op, name); err != nil {
		return Group{}, err
	}
	if err := d.lock(op); err != nil {
		return Group{}, err
	}
	defer d.h.mu.Unlock()

	bg := backend.DBGroup(d.db, name)
	if err := checkNull(d.h, op, bg); err != nil {
		return Group{}, err
	}
	return Group{h: d.h, db: d, g: bg}, nil
}

// Groups returns every group in the database's group cache.
func (d *DB) Groups() (*List[Group], error) {
	const op = "Groups"
	if err := d.lock(op); err != nil {
		return nil, err
	}
	defer d.h.mu.Unlock()

	if backend.DBGroupCache(d.db).IsNil() {
		if code := d.h.errno(); code != ErrnoOK {
			return nil, nativeError(op, code, nil)
		}
	}
	return newView(d.h, d, func() backend.List { return backend.DBGroupCache(d.db) }, d.convGroup), nil
}

// Search returns the packages matching every pattern. Patterns are
// case-insensitive extended regular expressions tested against the package
// name, description, provides and groups; a pattern equal to a package name
// always matches it. The result list must be iterated or closed.
func (d *DB) Search(patterns []string) (*List[Package], error) {
	const op = "Search"
	if err := checkStrings(op, patterns); err != nil {
		return nil, err
	}
	if err := d.lock(op); err != nil {
		return nil, err
	}
	defer d.h.mu.Unlock()

	var needles backend.List
	for _, p := range patterns {
		needles = backend.ListAddString(needles, p)
	}
	defer backend.ListFreeFull(needles)

	res, ret := backend.DBSearch(d.db, needles)
	if err := checkRet(d.h, op, ret); err != nil {
		backend.ListFree(res)
		return nil, err
	}
	return newOwned(d.h, d, res, FreeList, d.convPkg), nil
}

// SigLevel returns the signature level the database was registered with.
func (d *DB) SigLevel() (SigLevel, error) {
	if err := d.lock("SigLevel"); err != nil {
		return 0, err
	}
	defer d.h.mu.Unlock()
	return SigLevel(backend.DBSigLevel(d.db)), nil
}

// IsValid checks the database file. A missing or corrupt database yields
// an error carrying the libalpm code.
func (d *DB) IsValid() error {
	const op = "IsValid"
	if err := d.lock(op); err != nil {
		return err
	}
	defer d.h.mu.Unlock()
	return checkRet(d.h, op, backend.DBValid(d.db))
}

// SetUsage sets what the database may be used for.
func (d *DB) SetUsage(u Usage) error {
	const op = "SetUsage"
	if err := d.lock(op); err != nil {
		return err
	}
	defer d.h.mu.Unlock()
	return checkRet(d.h, op, backend.DBSetUsage(d.db, int(u)))
}

// Usage reports what the database may be used for.
func (d *DB) Usage() (Usage, error) {
	const op = "Usage"
	if err := d.lock(op); err != nil {
		return 0, err
	}
	defer d.h.mu.Unlock()

	u, ret := backend.DBUsage(d.db)
	if err := checkRet(d.h, op, ret); err != nil {
		return 0, err
	}
	return Usage(u), nil
}

func (d *DB) convPkg(n backend.List) Package {
	return Package{h: d.h, src: d, p: n.Pkg()}
}

func (d *DB) convGroup(n backend.List) Group {
	return Group{h: d.h, db: d, g: n.Group()}
}
