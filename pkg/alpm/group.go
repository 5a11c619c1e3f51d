package alpm

import (
	"errors"

	"github.com/alpmgo/alpm-go/pkg/alpm/internal/backend"
)

var errNoGroup = errors.New("alpm: zero Group")

// Group is a named set of packages in a database's group cache. It follows
// the same rules as a Package view.
type Group struct {
	h  *Handle
	db *DB
	g  backend.Group
}

func (g Group) validLocked() error {
	if g.h.closed {
		return ErrHandleClosed
	}
	return g.db.err
}

// Valid returns nil while the group can be used.
func (g Group) Valid() error {
	if g.h == nil {
		return opError("Group.Valid", errNoGroup)
	}
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	if err := g.validLocked(); err != nil {
		return opError("Group.Valid", err)
	}
	return nil
}

// Name returns the group name, or "" for a stale group.
func (g Group) Name() string {
	if g.h == nil {
		return ""
	}
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	if g.validLocked() != nil {
		return ""
	}
	return backend.GroupName(g.g)
}

// Packages lists the members of the group.
func (g Group) Packages() *List[Package] {
	if g.h == nil {
		return emptyList[Package]()
	}
	return newView(g.h, g, func() backend.List { return backend.GroupPackages(g.g) }, g.db.convPkg)
}
