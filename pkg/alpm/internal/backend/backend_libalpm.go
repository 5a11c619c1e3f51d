//go:build libalpm && cgo

package backend

/*
#cgo CFLAGS: -D_GNU_SOURCE
#cgo LDFLAGS: -lalpm
#include <stdarg.h>
#include <stdio.h>
#include <stdlib.h>
#include <alpm.h>
#include <alpm_list.h>

extern void alpmgo_log(void *ctx, int level, char *msg);

static void alpmgo_logcb(void *ctx, alpm_loglevel_t level, const char *fmt, va_list args) {
	char *msg = NULL;
	if(vasprintf(&msg, fmt, args) < 0) {
		return;
	}
	alpmgo_log(ctx, (int)level, msg);
	free(msg);
}

static int alpmgo_set_logcb(alpm_handle_t *handle, void *ctx) {
	return alpm_option_set_logcb(handle, alpmgo_logcb, ctx);
}

static void alpmgo_list_free_full(alpm_list_t *list) {
	alpm_list_free_inner(list, free);
	alpm_list_free(list);
}

static alpm_list_t *alpmgo_db_search(alpm_db_t *db, const alpm_list_t *needles, int *ret) {
	alpm_list_t *out = NULL;
	*ret = alpm_db_search(db, needles, &out);
	return out;
}

static int alpmgo_db_get_usage(alpm_db_t *db, int *ret) {
	int usage = 0;
	*ret = alpm_db_get_usage(db, &usage);
	return usage;
}
*/
import "C"

import "unsafe"

// Version returns the version of the linked libalpm.
func Version() string { return C.GoString(C.alpm_version()) }

type handleState struct {
	p  *C.alpm_handle_t
	cb cookie
}

// Handle is an open library session.
type Handle struct{ s *handleState }

func (h Handle) IsNil() bool { return h.s == nil || h.s.p == nil }

// DB is a registered database.
type DB struct{ p *C.alpm_db_t }

func (d DB) IsNil() bool { return d.p == nil }

// Pkg is a package owned by a database cache or, after PkgLoad, by the
// caller.
type Pkg struct{ p *C.alpm_pkg_t }

func (p Pkg) IsNil() bool { return p.p == nil }

// Group is a group owned by a database cache.
type Group struct{ p *C.alpm_group_t }

func (g Group) IsNil() bool { return g.p == nil }

// List is a borrowed or owned pointer to the head of an alpm_list_t.
type List struct{ p *C.alpm_list_t }

func (l List) IsNil() bool { return l.p == nil }

func (l List) Next() List {
	if l.p == nil {
		return List{}
	}
	return List{l.p.next}
}

func (l List) String() string {
	if l.p == nil || l.p.data == nil {
		return ""
	}
	return C.GoString((*C.char)(l.p.data))
}

func (l List) Pkg() Pkg {
	if l.p == nil {
		return Pkg{}
	}
	return Pkg{(*C.alpm_pkg_t)(l.p.data)}
}

func (l List) Group() Group {
	if l.p == nil {
		return Group{}
	}
	return Group{(*C.alpm_group_t)(l.p.data)}
}

func (l List) DB() DB {
	if l.p == nil {
		return DB{}
	}
	return DB{(*C.alpm_db_t)(l.p.data)}
}

func (l List) Depend() Depend {
	if l.p == nil || l.p.data == nil {
		return Depend{}
	}
	d := (*C.alpm_depend_t)(l.p.data)
	return Depend{
		Name:        C.GoString(d.name),
		Version:     C.GoString(d.version),
		Description: C.GoString(d.desc),
		Mod:         DepMod(d.mod),
	}
}

// ListAddString appends a malloc'd copy of s to l.
func ListAddString(l List, s string) List {
	cs := C.CString(s)
	return List{C.alpm_list_add(l.p, unsafe.Pointer(cs))}
}

func ListFree(l List) {
	if l.p != nil {
		C.alpm_list_free(l.p)
	}
}

func ListFreeFull(l List) {
	if l.p != nil {
		C.alpmgo_list_free_full(l.p)
	}
}

func Initialize(root, dbpath string) (Handle, Errno) {
	croot := C.CString(root)
	defer C.free(unsafe.Pointer(croot))
	cdbpath := C.CString(dbpath)
	defer C.free(unsafe.Pointer(cdbpath))

	var cerr C.alpm_errno_t
	p := C.alpm_initialize(croot, cdbpath, &cerr)
	if p == nil {
		return Handle{}, Errno(cerr)
	}
	return Handle{&handleState{p: p}}, ErrnoOK
}

func Release(h Handle) int {
	if h.IsNil() {
		return -1
	}
	ret := int(C.alpm_release(h.s.p))
	h.s.p = nil
	if h.s.cb != 0 {
		del(h.s.cb)
		h.s.cb = 0
	}
	return ret
}

func LastErrno(h Handle) Errno {
	if h.IsNil() {
		return ErrnoHandleNull
	}
	return Errno(C.alpm_errno(h.s.p))
}

func Root(h Handle) string   { return C.GoString(C.alpm_option_get_root(h.s.p)) }
func DBPath(h Handle) string { return C.GoString(C.alpm_option_get_dbpath(h.s.p)) }

func SetLogCallback(h Handle, fn LogFunc) int {
	if h.s.cb != 0 {
		del(h.s.cb)
		h.s.cb = 0
	}
	if fn == nil {
		return int(C.alpmgo_set_logcb(h.s.p, nil))
	}
	c, ctx := put(fn)
	h.s.cb = c
	return int(C.alpmgo_set_logcb(h.s.p, ctx))
}

func RegisterSyncDB(h Handle, name string, siglevel int) DB {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return DB{C.alpm_register_syncdb(h.s.p, cname, C.int(siglevel))}
}

func UnregisterAllSyncDBs(h Handle) int {
	return int(C.alpm_unregister_all_syncdbs(h.s.p))
}

func SyncDBs(h Handle) List { return List{C.alpm_get_syncdbs(h.s.p)} }

func LocalDB(h Handle) DB { return DB{C.alpm_get_localdb(h.s.p)} }

func DBName(d DB) string { return C.GoString(C.alpm_db_get_name(d.p)) }

func DBUnregister(d DB) int { return int(C.alpm_db_unregister(d.p)) }

func DBAddServer(d DB, url string) int {
	curl := C.CString(url)
	defer C.free(unsafe.Pointer(curl))
	return int(C.alpm_db_add_server(d.p, curl))
}

func DBRemoveServer(d DB, url string) int {
	curl := C.CString(url)
	defer C.free(unsafe.Pointer(curl))
	return int(C.alpm_db_remove_server(d.p, curl))
}

func DBServers(d DB) List { return List{C.alpm_db_get_servers(d.p)} }

func DBSetServers(d DB, servers List) int {
	return int(C.alpm_db_set_servers(d.p, servers.p))
}

func DBSigLevel(d DB) int { return int(C.alpm_db_get_siglevel(d.p)) }

func DBValid(d DB) int { return int(C.alpm_db_get_valid(d.p)) }

func DBSetUsage(d DB, usage int) int { return int(C.alpm_db_set_usage(d.p, C.int(usage))) }

func DBUsage(d DB) (int, int) {
	var ret C.int
	usage := C.alpmgo_db_get_usage(d.p, &ret)
	return int(usage), int(ret)
}

func DBPkg(d DB, name string) Pkg {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return Pkg{C.alpm_db_get_pkg(d.p, cname)}
}

func DBPkgCache(d DB) List { return List{C.alpm_db_get_pkgcache(d.p)} }

func DBGroup(d DB, name string) Group {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return Group{C.alpm_db_get_group(d.p, cname)}
}

func DBGroupCache(d DB) List { return List{C.alpm_db_get_groupcache(d.p)} }

func DBSearch(d DB, needles List) (List, int) {
	var ret C.int
	out := C.alpmgo_db_search(d.p, needles.p, &ret)
	return List{out}, int(ret)
}

func GroupName(g Group) string   { return C.GoString(g.p.name) }
func GroupPackages(g Group) List { return List{g.p.packages} }

func PkgLoad(h Handle, path string, full bool, siglevel int) (Pkg, int) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cfull := C.int(0)
	if full {
		cfull = 1
	}
	var p *C.alpm_pkg_t
	ret := C.alpm_pkg_load(h.s.p, cpath, cfull, C.int(siglevel), &p)
	return Pkg{p}, int(ret)
}

func PkgFree(p Pkg) int { return int(C.alpm_pkg_free(p.p)) }

func PkgName(p Pkg) string     { return C.GoString(C.alpm_pkg_get_name(p.p)) }
func PkgVersion(p Pkg) string  { return C.GoString(C.alpm_pkg_get_version(p.p)) }
func PkgDesc(p Pkg) string     { return C.GoString(C.alpm_pkg_get_desc(p.p)) }
func PkgURL(p Pkg) string      { return C.GoString(C.alpm_pkg_get_url(p.p)) }
func PkgArch(p Pkg) string     { return C.GoString(C.alpm_pkg_get_arch(p.p)) }
func PkgBase(p Pkg) string     { return C.GoString(C.alpm_pkg_get_base(p.p)) }
func PkgPackager(p Pkg) string { return C.GoString(C.alpm_pkg_get_packager(p.p)) }
func PkgFilename(p Pkg) string { return C.GoString(C.alpm_pkg_get_filename(p.p)) }
func PkgBuildDate(p Pkg) int64 { return int64(C.alpm_pkg_get_builddate(p.p)) }
func PkgSize(p Pkg) int64      { return int64(C.alpm_pkg_get_size(p.p)) }
func PkgISize(p Pkg) int64     { return int64(C.alpm_pkg_get_isize(p.p)) }
func PkgGroups(p Pkg) List     { return List{C.alpm_pkg_get_groups(p.p)} }
func PkgLicenses(p Pkg) List   { return List{C.alpm_pkg_get_licenses(p.p)} }
func PkgDepends(p Pkg) List    { return List{C.alpm_pkg_get_depends(p.p)} }
func PkgProvides(p Pkg) List   { return List{C.alpm_pkg_get_provides(p.p)} }
func PkgDB(p Pkg) DB           { return DB{C.alpm_pkg_get_db(p.p)} }

func PkgComputeRequiredBy(p Pkg) List {
	return List{C.alpm_pkg_compute_requiredby(p.p)}
}

func PkgVercmp(a, b string) int {
	ca := C.CString(a)
	defer C.free(unsafe.Pointer(ca))
	cb := C.CString(b)
	defer C.free(unsafe.Pointer(cb))
	return int(C.alpm_pkg_vercmp(ca, cb))
}
