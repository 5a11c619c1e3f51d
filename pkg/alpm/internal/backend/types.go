package backend

import (
	"fmt"
	"strings"
)

// Errno is a libalpm error code (alpm_errno_t).
type Errno int

func (e Errno) String() string { return strError(e) }

// LogLevel mirrors alpm_loglevel_t.
type LogLevel int

const (
	LogError    LogLevel = 1
	LogWarning  LogLevel = 1 << 1
	LogDebug    LogLevel = 1 << 2
	LogFunction LogLevel = 1 << 3
)

// LogFunc receives one formatted log line from the library.
type LogFunc func(level LogLevel, msg string)

// Signature level and usage bits. The values are part of the libalpm ABI.
const (
	SigPackage            = 1 << 0
	SigPackageOptional    = 1 << 1
	SigPackageMarginalOk  = 1 << 2
	SigPackageUnknownOk   = 1 << 3
	SigDatabase           = 1 << 10
	SigDatabaseOptional   = 1 << 11
	SigDatabaseMarginalOk = 1 << 12
	SigDatabaseUnknownOk  = 1 << 13
	SigUseDefault         = 1 << 30
	UsageSync             = 1 << 0
	UsageSearch           = 1 << 1
	UsageInstall          = 1 << 2
	UsageUpgrade          = 1 << 3
	UsageAll              = UsageSync | UsageSearch | UsageInstall | UsageUpgrade
)

// DepMod mirrors alpm_depmod_t.
type DepMod int

const (
	DepModAny DepMod = iota + 1
	DepModEQ
	DepModGE
	DepModLE
	DepModGT
	DepModLT
)

func (m DepMod) String() string {
	switch m {
	case DepModEQ:
		return "="
	case DepModGE:
		return ">="
	case DepModLE:
		return "<="
	case DepModGT:
		return ">"
	case DepModLT:
		return "<"
	default:
		return ""
	}
}

// Depend is a dependency copied out of library memory.
type Depend struct {
	Name        string
	Version     string
	Description string
	Mod         DepMod
}

func (d Depend) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	if d.Mod != DepModAny && d.Mod != 0 && d.Version != "" {
		b.WriteString(d.Mod.String())
		b.WriteString(d.Version)
	}
	if d.Description != "" {
		fmt.Fprintf(&b, ": %s", d.Description)
	}
	return b.String()
}

// ParseDepend parses a dependency string such as "glibc>=2.38" or
// "python: for the helper scripts".
func ParseDepend(s string) Depend {
	var d Depend
	if i := strings.Index(s, ": "); i >= 0 {
		d.Description = s[i+2:]
		s = s[:i]
	}
	i := strings.IndexAny(s, "<>=")
	if i < 0 {
		d.Name = s
		d.Mod = DepModAny
		return d
	}
	d.Name = s[:i]
	rest := s[i:]
	switch {
	case strings.HasPrefix(rest, ">="):
		d.Mod, d.Version = DepModGE, rest[2:]
	case strings.HasPrefix(rest, "<="):
		d.Mod, d.Version = DepModLE, rest[2:]
	case strings.HasPrefix(rest, "="):
		d.Mod, d.Version = DepModEQ, rest[1:]
	case strings.HasPrefix(rest, ">"):
		d.Mod, d.Version = DepModGT, rest[1:]
	default:
		d.Mod, d.Version = DepModLT, rest[1:]
	}
	return d
}
