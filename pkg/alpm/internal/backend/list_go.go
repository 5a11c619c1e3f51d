//go:build !libalpm || !cgo

package backend

import (
	"fmt"
	"sync"
)

// node is one cell of a singly linked list, the Go counterpart of
// alpm_list_t.
type node struct {
	data any
	next *node
}

// List is a borrowed or owned pointer to the head of a library list.
type List struct{ n *node }

func (l List) IsNil() bool { return l.n == nil }

func (l List) Next() List {
	if l.n == nil {
		return List{}
	}
	return List{l.n.next}
}

// String returns the element as a string; the element must be a string.
func (l List) String() string {
	if l.n == nil {
		return ""
	}
	s, _ := l.n.data.(string)
	return s
}

func (l List) Pkg() Pkg {
	if l.n == nil {
		return Pkg{}
	}
	p, _ := l.n.data.(*pkg)
	return Pkg{p}
}

func (l List) Group() Group {
	if l.n == nil {
		return Group{}
	}
	g, _ := l.n.data.(*group)
	return Group{g}
}

func (l List) DB() DB {
	if l.n == nil {
		return DB{}
	}
	d, _ := l.n.data.(*db)
	return DB{d}
}

func (l List) Depend() Depend {
	if l.n == nil {
		return Depend{}
	}
	d, _ := l.n.data.(*Depend)
	if d == nil {
		return Depend{}
	}
	return *d
}

// Caller-owned list heads. Anything handed out for the caller to free is
// recorded here so a leak or a second free is observable.
var allocs = struct {
	sync.Mutex
	live map[*node]struct{}
}{live: map[*node]struct{}{}}

func track(n *node) {
	if n == nil {
		return
	}
	allocs.Lock()
	allocs.live[n] = struct{}{}
	allocs.Unlock()
}

func untrack(n *node) {
	if n == nil {
		return
	}
	allocs.Lock()
	defer allocs.Unlock()
	if _, ok := allocs.live[n]; !ok {
		panic(fmt.Sprintf("alpm: free of list %p not owned by the caller", n))
	}
	delete(allocs.live, n)
}

// LiveLists reports how many caller-owned lists have not been freed yet.
func LiveLists() int {
	allocs.Lock()
	defer allocs.Unlock()
	return len(allocs.live)
}

// appendNode appends data to the list starting at head and returns the head.
func appendNode(head *node, data any) *node {
	n := &node{data: data}
	if head == nil {
		return n
	}
	tail := head
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = n
	return head
}

func listOf[T any](items []T) *node {
	var head, tail *node
	for _, it := range items {
		n := &node{data: it}
		if head == nil {
			head = n
		} else {
			tail.next = n
		}
		tail = n
	}
	return head
}

// ListAddString appends a copy of s to l. A nil l starts a new caller-owned
// list.
func ListAddString(l List, s string) List {
	if l.n == nil {
		n := &node{data: s}
		track(n)
		return List{n}
	}
	return List{appendNode(l.n, s)}
}

// ListFree releases the list cells but not the elements.
func ListFree(l List) {
	untrack(l.n)
}

// ListFreeFull releases the list cells and the elements.
func ListFreeFull(l List) {
	untrack(l.n)
	for n := l.n; n != nil; n = n.next {
		n.data = nil
	}
}
