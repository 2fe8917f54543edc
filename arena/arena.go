// Package arena stores values in slots addressed by generational IDs. An ID
// stops resolving once its value is removed, even after the slot is reused.
package arena

import "fmt"

// ID is a slot index in the low 32 bits and the slot generation in the high
// 32 bits. The zero ID never resolves.
type ID uint64

func makeID(index, gen uint32) ID {
	return ID(uint64(gen)<<32 | uint64(index))
}

// Index is ...
func (id ID) Index() uint32 {
	return uint32(id)
}

// Generation is ...
func (id ID) Generation() uint32 {
	return uint32(id >> 32)
}

func (id ID) String() string {
	return fmt.Sprintf("%d/%d", id.Index(), id.Generation())
}

type slot[T any] struct {
	value T
	gen   uint32
	used  bool
}

// Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	n     int
}

// New is ...
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Len returns the number of values in the arena.
func (a *Arena[T]) Len() int {
	return a.n
}

// Insert stores v and returns its ID.
func (a *Arena[T]) Insert(v T) ID {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{gen: 1})
	}

	s := &a.slots[index]
	s.value = v
	s.used = true
	a.n++
	return makeID(index, s.gen)
}

func (a *Arena[T]) lookup(id ID) *slot[T] {
	index := id.Index()
	if int(index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[index]
	if !s.used || s.gen != id.Generation() {
		return nil
	}
	return s
}

// Get returns the value stored under id.
func (a *Arena[T]) Get(id ID) (v T, ok bool) {
	if s := a.lookup(id); s != nil {
		return s.value, true
	}
	return
}

// Remove deletes the value stored under id and returns it. id and every
// copy of it are invalid afterwards.
func (a *Arena[T]) Remove(id ID) (v T, ok bool) {
	s := a.lookup(id)
	if s == nil {
		return
	}
	v = s.value

	var zero T
	s.value = zero
	s.used = false
	if s.gen++; s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, id.Index())
	a.n--
	return v, true
}

// Range calls fn for every value in slot order until fn returns false.
func (a *Arena[T]) Range(fn func(ID, T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.used {
			continue
		}
		if !fn(makeID(uint32(i), s.gen), s.value) {
			return
		}
	}
}

// Drain removes every value, calling fn for each.
func (a *Arena[T]) Drain(fn func(ID, T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.used {
			continue
		}
		id := makeID(uint32(i), s.gen)
		v, _ := a.Remove(id)
		fn(id, v)
	}
}
