//go:build libalpm && cgo

package backend

// void alpmgo_log(void *ctx, int level, char *msg);
import "C"

import (
	"sync"
	"unsafe"
)

// Log callback registry. libalpm only sees an integer cookie; the Go
// function stays on this side of the boundary.
type cookie uintptr

var (
	mu   sync.Mutex
	next cookie = 1
	reg         = map[cookie]LogFunc{}
)

func put(fn LogFunc) (cookie, unsafe.Pointer) {
	mu.Lock()
	c := next
	next++
	reg[c] = fn
	mu.Unlock()
	return c, unsafe.Pointer(uintptr(c))
}

func get(ptr unsafe.Pointer) (LogFunc, bool) {
	mu.Lock()
	fn, ok := reg[cookie(uintptr(ptr))]
	mu.Unlock()
	return fn, ok
}

func del(c cookie) {
	mu.Lock()
	delete(reg, c)
	mu.Unlock()
}

//export alpmgo_log
func alpmgo_log(ctx unsafe.Pointer, level C.int, msg *C.char) {
	fn, ok := get(ctx)
	if !ok || fn == nil {
		return
	}
	fn(LogLevel(level), C.GoString(msg))
}
