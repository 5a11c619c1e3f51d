package alpm

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpmgo/alpm-go/pkg/alpm/alpmtest"
)

func TestPackageAccessors(t *testing.T) {
	h, _ := fixture(t)
	core := registerCore(t, h)

	p, err := core.Pkg("glibc")
	require.NoError(t, err)
	require.NoError(t, p.Valid())

	assert.Equal(t, "glibc", p.Name())
	assert.Equal(t, "2.39-1", p.Version())
	assert.Equal(t, "GNU C Library", p.Description())
	assert.Equal(t, "https://www.gnu.org/software/libc", p.URL())
	assert.Equal(t, "x86_64", p.Arch())
	assert.Equal(t, "glibc-2.39-1-x86_64.pkg.tar.zst", p.Filename())
	assert.Equal(t, int64(10209452), p.Size())
	assert.Equal(t, int64(48237510), p.ISize())
	assert.Equal(t, time.Unix(1707168032, 0), p.BuildDate())

	assert.Equal(t, []string{"base"}, p.Groups().Slice())
	assert.Equal(t, []string{"GPL-2.0-or-later", "LGPL-2.1-or-later"}, p.Licenses().Slice())

	deps := p.Depends().Slice()
	require.Len(t, deps, 3)
	assert.Equal(t, Depend{Name: "linux-api-headers", Version: "4.10", Mod: DepModGE}, deps[0])
	assert.Equal(t, "linux-api-headers>=4.10", deps[0].String())
	assert.Equal(t, DepModAny, deps[1].Mod)
}

func TestPackageProvides(t *testing.T) {
	h, _ := fixture(t)
	core := registerCore(t, h)

	p, err := core.Pkg("gcc-libs")
	require.NoError(t, err)
	var provides []string
	for d := range p.Provides().All() {
		provides = append(provides, d.String())
	}
	assert.Equal(t, []string{"libgcc", "libstdc++", "libgomp.so=1-64"}, provides)
}

func TestComputeRequiredBy(t *testing.T) {
	h, _ := fixture(t)
	core := registerCore(t, h)
	local, err := h.LocalDB()
	require.NoError(t, err)

	tests := []struct {
		db   *DB
		pkg  string
		want []string
	}{
		{core, "glibc", []string{"bash", "coreutils", "gcc-libs", "gzip", "make", "pacman", "sed"}},
		{core, "bash", []string{"gzip", "make", "pacman"}},
		{core, "linux-headers", nil},
		{local, "glibc", []string{"bash", "coreutils", "pacman"}},
	}
	for _, tt := range tests {
		t.Run(tt.db.Name()+"/"+tt.pkg, func(t *testing.T) {
			p, err := tt.db.Pkg(tt.pkg)
			require.NoError(t, err)
			list := p.ComputeRequiredBy()
			assert.Equal(t, FreeFull, list.Policy())
			assert.Equal(t, tt.want, list.Slice())
			assert.Empty(t, list.Slice())
		})
	}
}

func TestComputeRequiredByAcrossSyncDBs(t *testing.T) {
	h, tree := fixture(t)
	tree.SyncDB(t, "custom", alpmtest.Gzip,
		alpmtest.Package{Name: "abc", Version: "1.0-1", Arch: "any", Depends: []string{"glibc"}},
		alpmtest.Package{Name: "zlib-ng", Version: "2.1.6-1", Arch: "any", Depends: []string{"glibc>=2.30"}},
	)
	core := registerCore(t, h)
	_, err := h.RegisterSyncDB("custom", 0)
	require.NoError(t, err)

	p, err := core.Pkg("glibc")
	require.NoError(t, err)
	want := []string{"abc", "bash", "coreutils", "gcc-libs", "gzip", "make", "pacman", "sed", "zlib-ng"}
	assert.Equal(t, want, p.ComputeRequiredBy().Slice())
}

func TestStalePackageView(t *testing.T) {
	h, _ := fixture(t)
	core := registerCore(t, h)
	p, err := core.Pkg("pacman")
	require.NoError(t, err)
	groups := p.Groups()
	required := p.ComputeRequiredBy()

	require.NoError(t, h.UnregisterAllSyncDBs())

	assert.ErrorIs(t, p.Valid(), ErrUnregistered)
	assert.Empty(t, p.Version())
	assert.Zero(t, p.Size())
	assert.True(t, p.BuildDate().IsZero())
	assert.Nil(t, p.DB())
	assert.Empty(t, groups.Slice())
	assert.Empty(t, p.ComputeRequiredBy().Slice())

	// An owning list taken before the database went away is still released.
	assert.Empty(t, required.Slice())
	required.Close()
}

func TestZeroPackage(t *testing.T) {
	var p Package
	assert.Error(t, p.Valid())
	assert.Empty(t, p.Name())
	assert.Nil(t, p.DB())
	assert.Zero(t, p.Groups().Len())
	assert.Empty(t, p.Depends().Slice())
	assert.Empty(t, p.ComputeRequiredBy().Slice())
}

func TestLoadPackage(t *testing.T) {
	h, tree := fixture(t)
	hello := alpmtest.Hello()

	for _, c := range []alpmtest.Compression{alpmtest.None, alpmtest.Gzip, alpmtest.Zstd} {
		path := tree.PackageFile(t, c, hello, "usr/bin/hello")
		t.Run(filepath.Base(path), func(t *testing.T) {
			for _, full := range []bool{false, true} {
				p, err := h.LoadPackage(path, full, 0)
				require.NoError(t, err)

				assert.Equal(t, "hello", p.Name())
				assert.Equal(t, "2.12.1-1", p.Version())
				assert.Equal(t, filepath.Base(path), p.Filename())
				assert.Equal(t, hello.ISize, p.ISize())
				assert.Positive(t, p.Size())
				assert.Nil(t, p.DB())
				assert.Equal(t, []string{"demo"}, p.Groups().Slice())

				require.NoError(t, p.Close())
			}
		})
	}
}

func TestOwnedPackageClose(t *testing.T) {
	h, tree := fixture(t)
	path := tree.PackageFile(t, alpmtest.Zstd, alpmtest.Hello())

	p, err := h.LoadPackage(path, false, 0)
	require.NoError(t, err)
	licenses := p.Licenses()

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.Valid(), ErrPackageClosed)
	assert.Empty(t, p.Name())
	assert.Empty(t, licenses.Slice())
	assert.Empty(t, p.ComputeRequiredBy().Slice())
}

func TestOwnedPackageViewOutlivesOwner(t *testing.T) {
	h, tree := fixture(t)
	path := tree.PackageFile(t, alpmtest.Zstd, alpmtest.Hello())

	load := func() (Package, *List[string]) {
		op, err := h.LoadPackage(path, false, 0)
		require.NoError(t, err)
		return op.Package, op.Groups()
	}
	view, groups := load()

	// Only the view and a list borrowed from it remain reachable.
	runtime.GC()
	runtime.GC()

	assert.NoError(t, view.Valid())
	assert.Equal(t, "hello", view.Name())
	assert.Equal(t, []string{"demo"}, groups.Slice())
}

func TestLoadPackageErrors(t *testing.T) {
	h, tree := fixture(t)

	_, err := h.LoadPackage(filepath.Join(tree.Root, "missing.pkg.tar.zst"), false, 0)
	assert.ErrorIs(t, err, ErrnoPkgNotFound)

	_, err = h.LoadPackage(tree.SyncDB(t, "notapkg", alpmtest.Gzip), false, 0)
	assert.ErrorIs(t, err, ErrnoPkgInvalid)

	_, err = h.LoadPackage("/tmp/a\x00b", false, 0)
	assert.ErrorIs(t, err, ErrNulByte)
}
