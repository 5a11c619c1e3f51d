// Package alpm is a Go binding for libalpm, the library behind pacman.
//
// It covers database registration, server lists, package and group lookup,
// search and version comparison. Building with the libalpm tag links the
// system libalpm through cgo:
//
//	go build -tags libalpm ./...
//
// Without the tag a pure Go implementation is used. It reads the same sync
// databases, local database and package files but cannot verify signatures.
//
// # Ownership
//
// A Handle owns every DB registered through it. A DB owns its package and
// group caches, so a Package or Group returned by a DB is only a view: it
// stays valid while the DB is registered and the Handle open, and reports
// ErrUnregistered or ErrHandleClosed through Valid afterwards. Packages
// loaded from a file are returned as *OwnedPackage and must be closed.
//
// Lists are lazy sequences with a FreePolicy:
//
//	pkgs, err := db.Search([]string{"^linux$"})
//	if err != nil {
//	    return err
//	}
//	for pkg := range pkgs.All() {
//	    fmt.Println(pkg.Name(), pkg.Version())
//	}
//
// Views (FreeNone) can be iterated again and always show current state.
// Owning lists (FreeList, FreeFull) release their memory exactly once: when
// the first iteration ends, on Close, or from a finalizer.
//
// # Errors
//
// Failures reported by libalpm are returned as *Error carrying the libalpm
// Errno, which can be matched with errors.Is:
//
//	if errors.Is(err, alpm.ErrnoDBNotNull) {
//	    // already registered
//	}
//
// Arguments containing NUL bytes are rejected with an error matching
// ErrNulByte before libalpm is called.
package alpm
