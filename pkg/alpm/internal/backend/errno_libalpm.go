//go:build libalpm && cgo

package backend

// #include <alpm.h>
import "C"

// Error codes, taken from alpm.h so they track the linked library.
const (
	ErrnoOK                          = Errno(C.ALPM_ERR_OK)
	ErrnoMemory                      = Errno(C.ALPM_ERR_MEMORY)
	ErrnoSystem                      = Errno(C.ALPM_ERR_SYSTEM)
	ErrnoNotADir                     = Errno(C.ALPM_ERR_NOT_A_DIR)
	ErrnoWrongArgs                   = Errno(C.ALPM_ERR_WRONG_ARGS)
	ErrnoHandleNull                  = Errno(C.ALPM_ERR_HANDLE_NULL)
	ErrnoDBOpen                      = Errno(C.ALPM_ERR_DB_OPEN)
	ErrnoDBNull                      = Errno(C.ALPM_ERR_DB_NULL)
	ErrnoDBNotNull                   = Errno(C.ALPM_ERR_DB_NOT_NULL)
	ErrnoDBNotFound                  = Errno(C.ALPM_ERR_DB_NOT_FOUND)
	ErrnoDBInvalid                   = Errno(C.ALPM_ERR_DB_INVALID)
	ErrnoDBVersion                   = Errno(C.ALPM_ERR_DB_VERSION)
	ErrnoServerBadURL                = Errno(C.ALPM_ERR_SERVER_BAD_URL)
	ErrnoPkgNotFound                 = Errno(C.ALPM_ERR_PKG_NOT_FOUND)
	ErrnoPkgInvalid                  = Errno(C.ALPM_ERR_PKG_INVALID)
	ErrnoPkgOpen                     = Errno(C.ALPM_ERR_PKG_OPEN)
	ErrnoPkgInvalidName              = Errno(C.ALPM_ERR_PKG_INVALID_NAME)
	ErrnoInvalidRegex                = Errno(C.ALPM_ERR_INVALID_REGEX)
	ErrnoLibarchive                  = Errno(C.ALPM_ERR_LIBARCHIVE)
	ErrnoMissingCapabilitySignatures = Errno(C.ALPM_ERR_MISSING_CAPABILITY_SIGNATURES)
)

func strError(e Errno) string {
	return C.GoString(C.alpm_strerror(C.alpm_errno_t(e)))
}
