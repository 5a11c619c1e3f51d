// Package config loads the repository configuration used by the alpm-go
// command.
//
// A configuration names the installation root, the database directory and
// the sync repositories to register, much like the [options] and repository
// sections of pacman.conf. It is read from YAML (.yaml, .yml) or TOML
// (.toml), chosen by file extension:
//
//	root: /
//	dbpath: /var/lib/pacman/
//	arch: auto
//	siglevel: [Required, DatabaseOptional]
//	repos:
//	  - name: core
//	    servers:
//	      - https://geo.mirror.pkgbuild.com/$repo/os/$arch
//	  - name: extra
//	    usage: [Sync, Search]
//	    servers:
//	      - https://geo.mirror.pkgbuild.com/$repo/os/$arch
//
// Values are resolved in order: defaults, the file, then the environment
// variables ALPMGO_ROOT, ALPMGO_DBPATH and ALPMGO_LOG_LEVEL. Load validates
// the result.
package config
