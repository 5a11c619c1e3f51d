package alpm

import (
	"errors"
	"fmt"

	"github.com/alpmgo/alpm-go/pkg/alpm/internal/backend"
)

var (
	// ErrHandleClosed is returned by every operation on a Handle, or on
	// anything borrowed from it, after Close.
	ErrHandleClosed = errors.New("alpm: handle closed")

	// ErrUnregistered is returned by every operation on a DB after it was
	// unregistered.
	ErrUnregistered = errors.New("alpm: database unregistered")

	// ErrInvalidName indicates a database name that cannot be passed to
	// libalpm.
	ErrInvalidName = errors.New("alpm: invalid database name")

	// ErrNulByte indicates a string argument with an embedded NUL byte.
	ErrNulByte = errors.New("alpm: string contains NUL byte")

	// ErrNotFound indicates a lookup that found nothing.
	ErrNotFound = errors.New("alpm: not found")

	// ErrRegistrationFailed indicates libalpm refused to register a database.
	ErrRegistrationFailed = errors.New("alpm: registration failed")

	// ErrServerNotFound indicates RemoveServer was given an unknown URL.
	ErrServerNotFound = errors.New("alpm: server not found")

	// ErrPackageClosed is returned by accessors of a closed OwnedPackage.
	ErrPackageClosed = errors.New("alpm: package closed")
)

// Errno is a libalpm error code. It implements error so a code can be used
// as an errors.Is target:
//
//	if errors.Is(err, alpm.ErrnoDBNotNull) { ... }
type Errno int

const (
	ErrnoOK                          = Errno(backend.ErrnoOK)
	ErrnoMemory                      = Errno(backend.ErrnoMemory)
	ErrnoSystem                      = Errno(backend.ErrnoSystem)
	ErrnoNotADir                     = Errno(backend.ErrnoNotADir)
	ErrnoWrongArgs                   = Errno(backend.ErrnoWrongArgs)
	ErrnoHandleNull                  = Errno(backend.ErrnoHandleNull)
	ErrnoDBOpen                      = Errno(backend.ErrnoDBOpen)
	ErrnoDBNull                      = Errno(backend.ErrnoDBNull)
	ErrnoDBNotNull                   = Errno(backend.ErrnoDBNotNull)
	ErrnoDBNotFound                  = Errno(backend.ErrnoDBNotFound)
	ErrnoDBInvalid                   = Errno(backend.ErrnoDBInvalid)
	ErrnoDBVersion                   = Errno(backend.ErrnoDBVersion)
	ErrnoServerBadURL                = Errno(backend.ErrnoServerBadURL)
	ErrnoPkgNotFound                 = Errno(backend.ErrnoPkgNotFound)
	ErrnoPkgInvalid                  = Errno(backend.ErrnoPkgInvalid)
	ErrnoPkgOpen                     = Errno(backend.ErrnoPkgOpen)
	ErrnoPkgInvalidName              = Errno(backend.ErrnoPkgInvalidName)
	ErrnoInvalidRegex                = Errno(backend.ErrnoInvalidRegex)
	ErrnoLibarchive                  = Errno(backend.ErrnoLibarchive)
	ErrnoMissingCapabilitySignatures = Errno(backend.ErrnoMissingCapabilitySignatures)
)

// Error returns the libalpm message for the code.
func (e Errno) Error() string { return backend.Errno(e).String() }

func (e Errno) String() string { return e.Error() }

// Error wraps a failed operation. Code is the libalpm errno observed right
// after the failing call, or ErrnoOK when the failure was detected before
// reaching libalpm.
type Error struct {
	Op   string // Operation that failed
	Code Errno  // libalpm error code
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Code != ErrnoOK:
		return fmt.Sprintf("alpm.%s: %v: %s", e.Op, e.Err, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("alpm.%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("alpm.%s: %s", e.Op, e.Code)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches an Errno target against Code.
func (e *Error) Is(target error) bool {
	code, ok := target.(Errno)
	return ok && code != ErrnoOK && code == e.Code
}

// NulError reports an argument that contains a NUL byte at Index.
type NulError struct {
	Op    string
	Index int
}

func (e *NulError) Error() string {
	return fmt.Sprintf("alpm.%s: NUL byte at offset %d", e.Op, e.Index)
}

func (e *NulError) Is(target error) bool { return target == ErrNulByte }

func opError(op string, err error) error {
	return &Error{Op: op, Err: err}
}

func nativeError(op string, code Errno, err error) error {
	return &Error{Op: op, Code: code, Err: err}
}
