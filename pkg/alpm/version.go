package alpm

import "github.com/alpmgo/alpm-go/pkg/alpm/internal/backend"

var (
	Version     = "v0.0.0-in-progress"
	UpstreamSHA = "unknown"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// LibraryVersion returns the version reported by the linked libalpm, or
// "go-<dbversion>" for the built-in Go implementation.
func LibraryVersion() string {
	if v := backend.Version(); v != "" {
		return v
	}
	return UpstreamSHA
}

// VercmpResult is the outcome of Vercmp.
type VercmpResult int

const (
	Older VercmpResult = -1
	Equal VercmpResult = 0
	Newer VercmpResult = 1
)

func (r VercmpResult) String() string {
	switch r {
	case Older:
		return "Older"
	case Equal:
		return "Equal"
	case Newer:
		return "Newer"
	default:
		return "VercmpResult(?)"
	}
}

// Vercmp compares two pacman version strings of the form
// [epoch:]version[-release]. The epoch is compared first, then the version
// and, when both sides carry one, the release. Segments are compared as in
// rpmvercmp: numeric runs numerically, alphabetic runs lexically, and a
// numeric run is newer than an alphabetic one.
//
// Vercmp fails only when an argument contains a NUL byte.
func Vercmp(a, b string) (VercmpResult, error) {
	const op = "Vercmp"
	if err := checkString(op, a); err != nil {
		return Equal, err
	}
	if err := checkString(op, b); err != nil {
		return Equal, err
	}
	switch c := backend.PkgVercmp(a, b); {
	case c < 0:
		return Older, nil
	case c > 0:
		return Newer, nil
	default:
		return Equal, nil
	}
}
