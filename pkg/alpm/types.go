package alpm

import (
	"strings"

	"github.com/alpmgo/alpm-go/pkg/alpm/internal/backend"
)

// SigLevel is a bitmask of signature checks applied to a database or
// package. The bit values match libalpm's alpm_siglevel_t.
type SigLevel int

const (
	SigPackage            SigLevel = backend.SigPackage
	SigPackageOptional    SigLevel = backend.SigPackageOptional
	SigPackageMarginalOk  SigLevel = backend.SigPackageMarginalOk
	SigPackageUnknownOk   SigLevel = backend.SigPackageUnknownOk
	SigDatabase           SigLevel = backend.SigDatabase
	SigDatabaseOptional   SigLevel = backend.SigDatabaseOptional
	SigDatabaseMarginalOk SigLevel = backend.SigDatabaseMarginalOk
	SigDatabaseUnknownOk  SigLevel = backend.SigDatabaseUnknownOk
	SigUseDefault         SigLevel = backend.SigUseDefault
)

var sigLevelNames = []struct {
	bit  SigLevel
	name string
}{
	{SigPackage, "Package"},
	{SigPackageOptional, "PackageOptional"},
	{SigPackageMarginalOk, "PackageMarginalOk"},
	{SigPackageUnknownOk, "PackageUnknownOk"},
	{SigDatabase, "Database"},
	{SigDatabaseOptional, "DatabaseOptional"},
	{SigDatabaseMarginalOk, "DatabaseMarginalOk"},
	{SigDatabaseUnknownOk, "DatabaseUnknownOk"},
	{SigUseDefault, "UseDefault"},
}

// String lists the set bits joined by "|", or "None".
func (s SigLevel) String() string {
	if s == 0 {
		return "None"
	}
	var parts []string
	for _, n := range sigLevelNames {
		if s&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Usage is a bitmask of the operations a database may be used for.
type Usage int

const (
	UsageSync    Usage = backend.UsageSync
	UsageSearch  Usage = backend.UsageSearch
	UsageInstall Usage = backend.UsageInstall
	UsageUpgrade Usage = backend.UsageUpgrade
	UsageAll     Usage = backend.UsageAll
)

func (u Usage) String() string {
	switch u {
	case 0:
		return "None"
	case UsageAll:
		return "All"
	}
	var parts []string
	for _, n := range []struct {
		bit  Usage
		name string
	}{
		{UsageSync, "Sync"},
		{UsageSearch, "Search"},
		{UsageInstall, "Install"},
		{UsageUpgrade, "Upgrade"},
	} {
		if u&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// DepMod is the version comparison operator of a dependency.
type DepMod int

const (
	DepModAny = DepMod(backend.DepModAny)
	DepModEQ  = DepMod(backend.DepModEQ)
	DepModGE  = DepMod(backend.DepModGE)
	DepModLE  = DepMod(backend.DepModLE)
	DepModGT  = DepMod(backend.DepModGT)
	DepModLT  = DepMod(backend.DepModLT)
)

func (m DepMod) String() string { return backend.DepMod(m).String() }

// Depend is a dependency or provision, copied out of library memory.
type Depend struct {
	Name        string
	Version     string
	Description string
	Mod         DepMod
}

// String formats d the way pacman prints it, e.g. "glibc>=2.38".
func (d Depend) String() string {
	return backend.Depend{
		Name:        d.Name,
		Version:     d.Version,
		Description: d.Description,
		Mod:         backend.DepMod(d.Mod),
	}.String()
}

// ParseDepend parses a dependency string such as "python>=3.11" or
// "git: for the git backend".
func ParseDepend(s string) Depend {
	return dependFromBackend(backend.ParseDepend(s))
}

func dependFromBackend(d backend.Depend) Depend {
	return Depend{
		Name:        d.Name,
		Version:     d.Version,
		Description: d.Description,
		Mod:         DepMod(d.Mod),
	}
}
