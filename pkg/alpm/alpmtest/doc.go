// Package alpmtest writes pacman databases and package files for tests and
// examples.
//
// It produces the on-disk layout libalpm reads:
//
//	<dbpath>/sync/<repo>.db              tar archive of <name>-<ver>/desc
//	<dbpath>/local/ALPM_DB_VERSION
//	<dbpath>/local/<name>-<ver>/desc
//	<name>-<ver>-<arch>.pkg.tar.zst      package with a .PKGINFO member
//
// The fixtures work with both the cgo libalpm backend and the built-in Go
// implementation.
//
// # Usage
//
//	tree := alpmtest.NewTree(t)
//	tree.SyncDB(t, "core", alpmtest.Zstd, alpmtest.Core()...)
//	tree.LocalDB(t, alpmtest.Installed()...)
//
//	h, err := alpm.Open(alpm.Config{Root: tree.Root, DBPath: tree.DBPath})
//
// Core returns a small snapshot of the Arch core repository with a "base"
// group of seven packages; Installed returns the subset installed on the
// fixture system.
//
// # Limitations
//
//   - No signatures are written
//   - Only the fields the binding reads are emitted
//   - Not suitable for anything but tests and examples
package alpmtest
