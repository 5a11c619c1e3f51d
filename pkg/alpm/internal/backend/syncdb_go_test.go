//go:build !libalpm || !cgo

package backend

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func TestParseDesc(t *testing.T) {
	const desc = `%NAME%
bash

%VERSION%
5.2.026-2

%DESC%
The GNU Bourne Again shell

%GROUPS%
base
shells

%CSIZE%
1948341

%DEPENDS%
readline
glibc>=2.27

%PROVIDES%
sh

%UNKNOWN%
ignored
`
	p := &pkg{}
	if err := parseDesc(strings.NewReader(desc), p); err != nil {
		t.Fatalf("parseDesc failed: %v", err)
	}
	if p.name != "bash" || p.version != "5.2.026-2" {
		t.Errorf("name, version = %q, %q", p.name, p.version)
	}
	if p.size != 1948341 {
		t.Errorf("size = %d, want 1948341", p.size)
	}
	if got := strings.Join(p.groupNames, ","); got != "base,shells" {
		t.Errorf("groups = %q", got)
	}
	if got := (List{p.depends}).Next().Depend(); got.Name != "glibc" || got.Mod != DepModGE {
		t.Errorf("second dependency = %+v", got)
	}
	if len(p.providesNames) != 1 || p.providesNames[0] != "sh" {
		t.Errorf("provides = %v", p.providesNames)
	}
}

func TestParseDescRejectsStrayValue(t *testing.T) {
	if err := parseDesc(strings.NewReader("bash\n"), &pkg{}); err == nil {
		t.Error("expected an error for a value outside of a field")
	}
}

func TestDecompress(t *testing.T) {
	const payload = "hello, database"

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	io.WriteString(gw, payload)
	gw.Close()

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	if err != nil {
		t.Fatalf("zstd.NewWriter failed: %v", err)
	}
	io.WriteString(zw, payload)
	zw.Close()

	for name, data := range map[string][]byte{
		"plain": []byte(payload),
		"gzip":  gz.Bytes(),
		"zstd":  zs.Bytes(),
	} {
		rc, err := decompress(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: decompress failed: %v", name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("%s: read failed: %v", name, err)
		}
		if string(got) != payload {
			t.Errorf("%s: got %q, want %q", name, got, payload)
		}
	}

	xz := append(append([]byte{}, magicXz...), 0, 0, 0, 0)
	if _, err := decompress(bytes.NewReader(xz)); err == nil {
		t.Error("xz input should be rejected")
	}
}

func TestReadSyncDBErrors(t *testing.T) {
	h := &handle{}
	dir := t.TempDir()

	if _, e := readSyncDB(h, filepath.Join(dir, "missing.db")); e != ErrnoDBOpen {
		t.Errorf("missing file: errno = %v, want %v", e, ErrnoDBOpen)
	}

	garbage := filepath.Join(dir, "garbage.db")
	if err := os.WriteFile(garbage, []byte("this is not a tar archive, not even close to one.............."), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, e := readSyncDB(h, garbage); e != ErrnoDBInvalid {
		t.Errorf("garbage file: errno = %v, want %v", e, ErrnoDBInvalid)
	}
}

func TestRegisterSyncDB(t *testing.T) {
	h, e := Initialize(t.TempDir(), t.TempDir())
	if e != ErrnoOK {
		t.Fatalf("Initialize failed: %v", e)
	}
	defer Release(h)

	var lines []string
	SetLogCallback(h, func(_ LogLevel, msg string) { lines = append(lines, msg) })

	if db := RegisterSyncDB(h, "core", 0); db.IsNil() {
		t.Fatalf("RegisterSyncDB failed: %v", LastErrno(h))
	}
	if db := RegisterSyncDB(h, "core", 0); !db.IsNil() || LastErrno(h) != ErrnoDBNotNull {
		t.Errorf("duplicate registration: errno = %v", LastErrno(h))
	}
	if db := RegisterSyncDB(h, "signed", SigDatabase); !db.IsNil() || LastErrno(h) != ErrnoMissingCapabilitySignatures {
		t.Errorf("signed registration: errno = %v", LastErrno(h))
	}
	if len(lines) == 0 || !strings.Contains(lines[0], "core") {
		t.Errorf("log lines = %q", lines)
	}
}

func TestOwnedListTracking(t *testing.T) {
	before := LiveLists()
	l := ListAddString(List{}, "a")
	l = ListAddString(l, "b")
	if LiveLists() != before+1 {
		t.Fatalf("LiveLists = %d, want %d", LiveLists(), before+1)
	}
	if got := l.Next().String(); got != "b" {
		t.Errorf("second element = %q", got)
	}
	ListFreeFull(l)
	if LiveLists() != before {
		t.Errorf("LiveLists = %d after free, want %d", LiveLists(), before)
	}

	defer func() {
		if recover() == nil {
			t.Error("second free should panic")
		}
	}()
	ListFree(l)
}
