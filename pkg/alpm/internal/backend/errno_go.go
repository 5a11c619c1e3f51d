//go:build !libalpm || !cgo

package backend

// Error codes, numbered as in alpm.h.
const (
	ErrnoOK                          Errno = 0
	ErrnoMemory                      Errno = 1
	ErrnoSystem                      Errno = 2
	ErrnoNotADir                     Errno = 5
	ErrnoWrongArgs                   Errno = 6
	ErrnoHandleNull                  Errno = 8
	ErrnoDBOpen                      Errno = 11
	ErrnoDBNull                      Errno = 13
	ErrnoDBNotNull                   Errno = 14
	ErrnoDBNotFound                  Errno = 15
	ErrnoDBInvalid                   Errno = 16
	ErrnoDBVersion                   Errno = 18
	ErrnoServerBadURL                Errno = 21
	ErrnoPkgNotFound                 Errno = 33
	ErrnoPkgInvalid                  Errno = 35
	ErrnoPkgOpen                     Errno = 39
	ErrnoPkgInvalidName              Errno = 41
	ErrnoInvalidRegex                Errno = 50
	ErrnoLibarchive                  Errno = 51
	ErrnoMissingCapabilitySignatures Errno = 55
)

var errnoText = map[Errno]string{
	ErrnoMemory:                      "out of memory!",
	ErrnoSystem:                      "unexpected system error",
	ErrnoNotADir:                     "could not find or read directory",
	ErrnoWrongArgs:                   "wrong or NULL argument passed",
	ErrnoHandleNull:                  "library not initialized",
	ErrnoDBOpen:                      "could not open database",
	ErrnoDBNull:                      "database not initialized",
	ErrnoDBNotNull:                   "database already registered",
	ErrnoDBNotFound:                  "could not find database",
	ErrnoDBInvalid:                   "invalid or corrupted database",
	ErrnoDBVersion:                   "database is incorrect version",
	ErrnoServerBadURL:                "invalid url for server",
	ErrnoPkgNotFound:                 "could not find or read package",
	ErrnoPkgInvalid:                  "invalid or corrupted package",
	ErrnoPkgOpen:                     "cannot open package file",
	ErrnoPkgInvalidName:              "package filename is not valid",
	ErrnoInvalidRegex:                "failed to compile regex",
	ErrnoLibarchive:                  "libarchive error",
	ErrnoMissingCapabilitySignatures: "compiled without signature support",
}

func strError(e Errno) string {
	if s, ok := errnoText[e]; ok {
		return s
	}
	return "unexpected error"
}
