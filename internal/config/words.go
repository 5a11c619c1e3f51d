package config

import (
	"fmt"
	"strings"

	"github.com/alpmgo/alpm-go/pkg/alpm"
)

type sigHalf struct {
	check, optional, marginal, unknown alpm.SigLevel
}

var (
	packageHalf  = sigHalf{alpm.SigPackage, alpm.SigPackageOptional, alpm.SigPackageMarginalOk, alpm.SigPackageUnknownOk}
	databaseHalf = sigHalf{alpm.SigDatabase, alpm.SigDatabaseOptional, alpm.SigDatabaseMarginalOk, alpm.SigDatabaseUnknownOk}
)

// ParseSigLevel applies pacman.conf SigLevel words to base. Each of Never,
// Optional, Required, TrustedOnly and TrustAll may carry a Package or
// Database prefix to affect only that half of the level.
func ParseSigLevel(base alpm.SigLevel, words []string) (alpm.SigLevel, error) {
	level := base
	for _, w := range words {
		halves := []sigHalf{packageHalf, databaseHalf}
		word := w
		switch {
		case strings.HasPrefix(w, "Package"):
			halves, word = halves[:1], strings.TrimPrefix(w, "Package")
		case strings.HasPrefix(w, "Database"):
			halves, word = halves[1:], strings.TrimPrefix(w, "Database")
		}
		for _, h := range halves {
			switch word {
			case "Never":
				level &^= h.check | h.optional
			case "Optional":
				level |= h.check | h.optional
			case "Required":
				level |= h.check
				level &^= h.optional
			case "TrustedOnly":
				level &^= h.marginal | h.unknown
			case "TrustAll":
				level |= h.marginal | h.unknown
			default:
				return 0, fmt.Errorf("invalid siglevel word %q", w)
			}
		}
	}
	return level, nil
}

// ParseUsage converts Usage words (Sync, Search, Install, Upgrade, All) to
// a mask. No words means All.
func ParseUsage(words []string) (alpm.Usage, error) {
	if len(words) == 0 {
		return alpm.UsageAll, nil
	}
	var u alpm.Usage
	for _, w := range words {
		switch w {
		case "Sync":
			u |= alpm.UsageSync
		case "Search":
			u |= alpm.UsageSearch
		case "Install":
			u |= alpm.UsageInstall
		case "Upgrade":
			u |= alpm.UsageUpgrade
		case "All":
			u |= alpm.UsageAll
		default:
			return 0, fmt.Errorf("invalid usage word %q", w)
		}
	}
	return u, nil
}
