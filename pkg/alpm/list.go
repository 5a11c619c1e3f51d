package alpm

import (
	"iter"
	"runtime"
	"sync"

	"github.com/alpmgo/alpm-go/pkg/alpm/internal/backend"
)

// FreePolicy says what a List releases at the end of its life.
type FreePolicy int

const (
	// FreeNone marks a view into memory owned by libalpm. Nothing is freed
	// and the list can be iterated any number of times.
	FreeNone FreePolicy = iota
	// FreeList releases the list cells but not the elements, which stay
	// owned by a database cache.
	FreeList
	// FreeFull releases the list cells and the elements.
	FreeFull
)

func (p FreePolicy) String() string {
	switch p {
	case FreeNone:
		return "FreeNone"
	case FreeList:
		return "FreeList"
	case FreeFull:
		return "FreeFull"
	default:
		return "FreePolicy(?)"
	}
}

// validator is implemented by everything a List can borrow from. validLocked
// runs with the Handle mutex held.
type validator interface {
	validLocked() error
}

// List is a lazy sequence over a libalpm list.
//
// A FreeNone list is a view and may be iterated repeatedly; every
// iteration re-reads the underlying list. A FreeList or FreeFull list owns
// its allocation: the policy is applied exactly once, when the first
// iteration ends (normally, by break, or by a panic in the loop body), on
// Close, or by a finalizer if the list is dropped. After that it is empty.
//
// A List is not safe for concurrent use. The Handle mutex is held only
// while an element is read, so loop bodies may call back into the Handle.
// A loop body that releases the owning list it iterates (Close, Slice or a
// nested All) ends the outer loop at the next element.
type List[T any] struct {
	h      *Handle
	src    validator
	conv   func(backend.List) T
	policy FreePolicy

	// fetch re-reads the head of a FreeNone list with the Handle mutex held.
	fetch func() backend.List

	mu   sync.Mutex
	head backend.List
	done bool
}

// newView returns a FreeNone list over memory owned by libalpm.
func newView[T any](h *Handle, src validator, fetch func() backend.List, conv func(backend.List) T) *List[T] {
	return &List[T]{h: h, src: src, fetch: fetch, conv: conv, policy: FreeNone}
}

// newOwned returns a list that releases head according to policy.
func newOwned[T any](h *Handle, src validator, head backend.List, policy FreePolicy, conv func(backend.List) T) *List[T] {
	l := &List[T]{h: h, src: src, head: head, policy: policy, conv: conv}
	if !head.IsNil() {
		runtime.SetFinalizer(l, (*List[T]).release)
	}
	return l
}

// emptyList returns a list that yields nothing.
func emptyList[T any]() *List[T] {
	return &List[T]{done: true}
}

// Policy reports the free policy the list was created with.
func (l *List[T]) Policy() FreePolicy {
	if l == nil {
		return FreeNone
	}
	return l.policy
}

// All returns an iterator over the list elements.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if l == nil {
			return
		}
		if l.policy != FreeNone {
			defer l.Close()
		}
		n, ok := l.start()
		if !ok {
			return
		}
		for {
			v, next, ok := l.step(n)
			if !ok || !yield(v) {
				return
			}
			n = next
		}
	}
}

// start returns the first cell, or false if there is nothing to iterate.
func (l *List[T]) start() (backend.List, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return backend.List{}, false
	}
	if l.fetch == nil {
		return l.head, true
	}
	l.h.mu.Lock()
	defer l.h.mu.Unlock()
	if l.h.closed || (l.src != nil && l.src.validLocked() != nil) {
		return backend.List{}, false
	}
	return l.fetch(), true
}

// step converts the element at n under the Handle mutex. It reports false at
// the end of the list, once the owner of the list became invalid, or once an
// owning list has been released, possibly from inside the loop body.
func (l *List[T]) step(n backend.List) (v T, next backend.List, ok bool) {
	if n.IsNil() {
		return v, next, false
	}
	if l.policy != FreeNone {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.done {
			return v, next, false
		}
	}
	if l.h != nil {
		l.h.mu.Lock()
		defer l.h.mu.Unlock()
		if l.h.closed {
			return v, next, false
		}
	}
	if l.src != nil && l.src.validLocked() != nil {
		return v, next, false
	}
	return l.conv(n), n.Next(), true
}

// Slice collects the remaining elements. For an owning list this consumes
// it.
func (l *List[T]) Slice() []T {
	var out []T
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}

// Len counts the elements without converting or consuming them.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return 0
	}
	if l.h != nil {
		l.h.mu.Lock()
		defer l.h.mu.Unlock()
		if l.h.closed {
			return 0
		}
	}
	if l.src != nil && l.src.validLocked() != nil {
		return 0
	}
	head := l.head
	if l.fetch != nil {
		head = l.fetch()
	}
	count := 0
	for n := head; !n.IsNil(); n = n.Next() {
		count++
	}
	return count
}

// Close applies the free policy if it has not run yet. It is safe to call
// more than once and is a no-op for FreeNone lists.
func (l *List[T]) Close() {
	if l == nil || l.policy == FreeNone {
		return
	}
	l.release()
	runtime.SetFinalizer(l, nil)
}

func (l *List[T]) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return
	}
	l.done = true
	switch l.policy {
	case FreeList:
		backend.ListFree(l.head)
	case FreeFull:
		backend.ListFreeFull(l.head)
	}
	l.head = backend.List{}
}

func convString(n backend.List) string { return n.String() }

func convDepend(n backend.List) Depend { return dependFromBackend(n.Depend()) }
