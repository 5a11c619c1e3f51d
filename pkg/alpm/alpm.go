package alpm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alpmgo/alpm-go/pkg/alpm/internal/backend"
	"github.com/alpmgo/alpm-go/pkg/alpm/logging"
)

// Default locations used when Config leaves them empty.
const (
	DefaultRoot   = "/"
	DefaultDBPath = "/var/lib/pacman/"
)

// Config describes the session opened by Open.
type Config struct {
	// Root is the installation root. Empty means DefaultRoot.
	Root string

	// DBPath is the directory holding the local and sync databases. Empty
	// means DefaultDBPath.
	DBPath string

	// Logger receives libalpm log output and binding debug events. Nil binds
	// to slog.Default().
	Logger logging.Logger
}

func (c Config) withDefaults() Config {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
	if c.Logger == nil {
		c.Logger = logging.New(nil)
	}
	return c
}

// Handle is an open libalpm session. It owns every DB registered through it;
// Packages, Groups and Lists borrowed from those databases are valid only
// while the Handle is open.
//
// All methods are safe for concurrent use: a mutex serialises every native
// call together with the errno read that follows it.
type Handle struct {
	mu     sync.Mutex
	h      backend.Handle
	closed bool
	log    logging.Logger

	// dbs maps every live native database to its wrapper, so each database
	// has exactly one *DB.
	dbs map[backend.DB]*DB
}

// Open initialises libalpm for cfg.Root and cfg.DBPath.
func Open(cfg Config) (*Handle, error) {
	const op = "Open"
	cfg = cfg.withDefaults()
	if err := checkString(op, cfg.Root); err != nil {
		return nil, err
	}
	if err := checkString(op, cfg.DBPath); err != nil {
		return nil, err
	}

	bh, code := backend.Initialize(cfg.Root, cfg.DBPath)
	if code != backend.ErrnoOK {
		return nil, nativeError(op, Errno(code), nil)
	}

	h := &Handle{h: bh, log: cfg.Logger, dbs: map[backend.DB]*DB{}}
	backend.SetLogCallback(bh, h.forward)
	h.log.Debug(context.Background(), "opened handle", "root", cfg.Root, "dbpath", cfg.DBPath, "backend", backend.Version())
	return h, nil
}

// forward receives native log lines. It runs inside a native call, with the
// mutex already held.
func (h *Handle) forward(level backend.LogLevel, msg string) {
	msg = logging.Scrub(strings.TrimRight(msg, "\n"))
	if msg == "" {
		return
	}
	ctx := context.Background()
	switch level {
	case backend.LogError:
		h.log.Error(ctx, msg, "source", "libalpm")
	case backend.LogWarning:
		h.log.Warn(ctx, msg, "source", "libalpm")
	default:
		h.log.Debug(ctx, msg, "source", "libalpm")
	}
}

// Close releases the session and invalidates every DB registered through it.
// Calling Close twice returns ErrHandleClosed.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return opError("Close", ErrHandleClosed)
	}
	for _, d := range h.dbs {
		d.err = ErrHandleClosed
	}
	h.dbs = nil
	h.closed = true

	if ret := backend.Release(h.h); ret != 0 {
		return opError("Close", fmt.Errorf("alpm_release returned %d", ret))
	}
	h.log.Debug(context.Background(), "closed handle")
	return nil
}

// lock takes the mutex and fails if the handle is closed. On success the
// caller must unlock.
func (h *Handle) lock(op string) error {
	if h == nil {
		return opError(op, ErrHandleClosed)
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return opError(op, ErrHandleClosed)
	}
	return nil
}

func (h *Handle) validLocked() error {
	if h.closed {
		return ErrHandleClosed
	}
	return nil
}

// Root returns the installation root, or "" once closed.
func (h *Handle) Root() string {
	if h.lock("Root") != nil {
		return ""
	}
	defer h.mu.Unlock()
	return backend.Root(h.h)
}

// DBPath returns the database directory, or "" once closed.
func (h *Handle) DBPath() string {
	if h.lock("DBPath") != nil {
		return ""
	}
	defer h.mu.Unlock()
	return backend.DBPath(h.h)
}

// LastError returns the error libalpm recorded for the last failing call, or
// nil if the last call succeeded.
func (h *Handle) LastError() error {
	if err := h.lock("LastError"); err != nil {
		return err
	}
	defer h.mu.Unlock()
	if code := h.errno(); code != ErrnoOK {
		return code
	}
	return nil
}

func (h *Handle) errno() Errno {
	return Errno(backend.LastErrno(h.h))
}

// RegisterSyncDB registers the sync database name. The database file is
// expected at <dbpath>/sync/<name>.db; it is not read until first use.
func (h *Handle) RegisterSyncDB(name string, level SigLevel) (*DB, error) {
	const op = "RegisterSyncDB"
	if err := checkString(op, name); err != nil {
		return nil, opError(op, fmt.Errorf("%w: %w", ErrInvalidName, err))
	}
	if err := h.lock(op); err != nil {
		return nil, err
	}
	defer h.mu.Unlock()

	bd := backend.RegisterSyncDB(h.h, name, int(level))
	if err := checkNull(h, op, bd); err != nil {
		return nil, withCause(err, ErrRegistrationFailed)
	}
	h.log.Debug(context.Background(), "registered sync database", "name", name, "siglevel", level)
	return h.wrapDB(bd), nil
}

// UnregisterAllSyncDBs unregisters every sync database. Their wrappers start
// returning ErrUnregistered. It is idempotent.
func (h *Handle) UnregisterAllSyncDBs() error {
	const op = "UnregisterAllSyncDBs"
	if err := h.lock(op); err != nil {
		return err
	}
	defer h.mu.Unlock()

	local := backend.LocalDB(h.h)
	if err := checkRet(h, op, backend.UnregisterAllSyncDBs(h.h)); err != nil {
		return err
	}
	for bd, d := range h.dbs {
		if bd == local {
			continue
		}
		d.err = ErrUnregistered
		delete(h.dbs, bd)
	}
	return nil
}

// SyncDBs lists the registered sync databases in registration order.
func (h *Handle) SyncDBs() (*List[*DB], error) {
	if err := h.lock("SyncDBs"); err != nil {
		return nil, err
	}
	defer h.mu.Unlock()
	return newView(h, nil, func() backend.List { return backend.SyncDBs(h.h) }, h.convDB), nil
}

// LocalDB returns the database of installed packages.
func (h *Handle) LocalDB() (*DB, error) {
	const op = "LocalDB"
	if err := h.lock(op); err != nil {
		return nil, err
	}
	defer h.mu.Unlock()

	bd := backend.LocalDB(h.h)
	if err := checkNull(h, op, bd); err != nil {
		return nil, err
	}
	return h.wrapDB(bd), nil
}

// LoadPackage reads the package file at path. With full unset only the
// metadata is read. The returned package is owned by the caller.
func (h *Handle) LoadPackage(path string, full bool, level SigLevel) (*OwnedPackage, error) {
	const op = "LoadPackage"
	if err := checkString(op, path); err != nil {
		return nil, err
	}
	if err := h.lock(op); err != nil {
		return nil, err
	}
	defer h.mu.Unlock()

	bp, ret := backend.PkgLoad(h.h, path, full, int(level))
	if err := checkRet(h, op, ret); err != nil {
		return nil, err
	}
	return newOwnedPackage(h, bp), nil
}

// wrapDB returns the wrapper for bd, creating it on first sight. Runs with the
// mutex held.
func (h *Handle) wrapDB(bd backend.DB) *DB {
	if d, ok := h.dbs[bd]; ok {
		return d
	}
	d := &DB{h: h, db: bd, name: backend.DBName(bd)}
	h.dbs[bd] = d
	return d
}

func (h *Handle) convDB(n backend.List) *DB { return h.wrapDB(n.DB()) }

type nullable interface {
	IsNil() bool
}

// checkNull translates a null native result into an error. It must run with
// the mutex held, right after the call that produced p. A null result with
// no errno recorded means the lookup found nothing.
func checkNull[P nullable](h *Handle, op string, p P) error {
	if !p.IsNil() {
		return nil
	}
	switch code := h.errno(); code {
	case ErrnoOK:
		return opError(op, ErrNotFound)
	case ErrnoPkgNotFound, ErrnoDBNotFound:
		return nativeError(op, code, ErrNotFound)
	default:
		return nativeError(op, code, nil)
	}
}

// checkRet translates a non-zero native return code into an error. Same
// calling rules as checkNull.
func checkRet(h *Handle, op string, ret int) error {
	if ret == 0 {
		return nil
	}
	return nativeError(op, h.errno(), nil)
}

// withCause replaces the cause of an *Error produced by checkNull or checkRet.
func withCause(err, cause error) error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Op: e.Op, Code: e.Code, Err: cause}
	}
	return err
}

// checkString rejects strings that cannot cross into C.
func checkString(op, s string) error {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return &NulError{Op: op, Index: i}
	}
	return nil
}

func checkStrings(op string, ss []string) error {
	for _, s := range ss {
		if err := checkString(op, s); err != nil {
			return err
		}
	}
	return nil
}
