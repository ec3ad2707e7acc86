package datapool

import (
	"fmt"
	"iter"
)

// ID is a raw slot index. It is not versioned: once released the same number
// can be handed out again for a different element.
type ID int

// Pool is a fixed capacity slot allocator. It hands out stable integer
// handles to the elements of a backing array and reuses released slots
// before touching new ones.
//
// Released elements are NOT reset. Whoever acquires a reused slot gets the
// value left by the previous occupant and must overwrite it.
//
// A Pool is meant to be driven by a single owner. Pointers returned by
// Acquire, Get, All and Live are only valid until the next Acquire or Release.
type Pool[T any] struct {
	items         []T
	occupied      []bool
	free          []ID // stack, last freed is reused first
	highWaterMark int
}

// New allocates a pool able to hold exactly capacity elements. Capacity 0 is
// allowed, such a pool is always exhausted.
func New[T any](capacity int) (p *Pool[T], err error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrAllocationFailure, capacity)
	}

	// make panics when the requested size can not be represented
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = fmt.Errorf("%w: capacity %d: %v", ErrAllocationFailure, capacity, r)
		}
	}()

	return &Pool[T]{
		items:    make([]T, capacity),
		occupied: make([]bool, capacity),
		free:     make([]ID, 0, capacity),
	}, nil
}

// Acquire marks a slot as occupied and returns its id and element.
func (p *Pool[T]) Acquire() (ID, *T, error) {

	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		p.occupied[id] = true
		return id, &p.items[id], nil
	}

	if p.highWaterMark == len(p.items) {
		return 0, nil, ErrPoolExhausted
	}

	id := ID(p.highWaterMark)
	p.highWaterMark++
	p.occupied[id] = true
	return id, &p.items[id], nil
}

// Release returns the slot to the pool. The element value is left as is.
func (p *Pool[T]) Release(id ID) error {
	if !p.issued(id) {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, id)
	}
	if !p.occupied[id] {
		return fmt.Errorf("%w: %d", ErrDoubleRelease, id)
	}

	p.occupied[id] = false
	p.free = append(p.free, id)
	return nil
}

// Get returns the element of an occupied slot.
func (p *Pool[T]) Get(id ID) (*T, error) {
	if !p.issued(id) || !p.occupied[id] {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, id)
	}
	return &p.items[id], nil
}

// IsFree does not validate id, it must be in [0, HighWaterMark()).
func (p *Pool[T]) IsFree(id ID) bool {
	return !p.occupied[id]
}

// Len returns the number of occupied slots.
func (p *Pool[T]) Len() int {
	return p.highWaterMark - len(p.free)
}

func (p *Pool[T]) Cap() int {
	return len(p.items)
}

// HighWaterMark returns how many slots have been handed out at least once.
func (p *Pool[T]) HighWaterMark() int {
	return p.highWaterMark
}

// FreeLen returns the number of released slots waiting to be reused.
func (p *Pool[T]) FreeLen() int {
	return len(p.free)
}

// All iterates every slot below the high-water mark in index order,
// including free ones. Free slots hold whatever their last occupant left
// (or the zero value); use IsFree to tell them apart.
func (p *Pool[T]) All() iter.Seq2[ID, *T] {
	return func(yield func(ID, *T) bool) {
		for i := 0; i < p.highWaterMark; i++ {
			if !yield(ID(i), &p.items[i]) {
				return
			}
		}
	}
}

// Live is like All but skips free slots.
func (p *Pool[T]) Live() iter.Seq2[ID, *T] {
	return func(yield func(ID, *T) bool) {
		for i := 0; i < p.highWaterMark; i++ {
			if !p.occupied[i] {
				continue
			}
			if !yield(ID(i), &p.items[i]) {
				return
			}
		}
	}
}

func (p *Pool[T]) issued(id ID) bool {
	return id >= 0 && int(id) < p.highWaterMark
}
