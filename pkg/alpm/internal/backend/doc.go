// Package backend hosts the thin layer that links the Go API to libalpm.
//
// Two implementations share one function set. Building with the libalpm tag
// (and cgo) links the system libalpm through cgo; every other build uses an
// in-process Go rendition that reads the same on-disk database and package
// formats. The public alpm package only ever talks to the functions declared
// here, so ownership rules are identical on both sides:
//
//   - Handle owns every DB; a DB owns its package and group caches.
//   - Lists returned by DBServers, DBPkgCache, DBGroupCache, SyncDBs and the
//     Pkg* list accessors are owned by the library and must not be freed.
//   - Lists returned by DBSearch must be released with ListFree; lists
//     returned by PkgComputeRequiredBy and built with ListAddString must be
//     released with ListFreeFull, unless ownership is handed over
//     (DBSetServers).
//
// Callers must serialise access per Handle.
package backend
