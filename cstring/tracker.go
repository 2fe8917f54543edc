package cstring

import (
	"errors"
	"fmt"
	"sync"
)

// Panic values of a Provider in debug mode. Recover and match them with
// errors.Is.
var (
	ErrNil     = errors.New("cstring: nil handle")
	ErrFreed   = errors.New("cstring: handle already destroyed")
	ErrForeign = errors.New("cstring: handle not created by this provider")
)

type state uint8

const (
	stateLive state = iota + 1
	stateFreed
)

// tracker remembers every address a Provider handed out. Freed addresses
// stay in the map until the allocator reuses them.
type tracker struct {
	sync.Mutex
	handles map[uintptr]state
}

func newTracker() *tracker {
	return &tracker{handles: make(map[uintptr]state)}
}

func (t *tracker) create(h Handle) {
	t.Lock()
	t.handles[uintptr(h.ptr)] = stateLive
	t.Unlock()
}

func (t *tracker) check(h Handle) {
	t.Lock()
	defer t.Unlock()
	t.mustBeLive(h)
}

func (t *tracker) destroy(h Handle) {
	t.Lock()
	defer t.Unlock()
	t.mustBeLive(h)
	t.handles[uintptr(h.ptr)] = stateFreed
}

func (t *tracker) mustBeLive(h Handle) {
	if h.IsNil() {
		panic(ErrNil)
	}
	switch t.handles[uintptr(h.ptr)] {
	case stateLive:
	case stateFreed:
		panic(fmt.Errorf("%w: %v", ErrFreed, h))
	default:
		panic(fmt.Errorf("%w: %v", ErrForeign, h))
	}
}
