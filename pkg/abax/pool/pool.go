// Package pool provides a slot based container with a free list, the
// storage the milp subpackage keeps its branching bound constraints in.
// Items are inserted into the first vacant slot and addressed by the slot
// number, so references to pool members stay valid while other members
// come and go. A pool either has fixed capacity or grows on demand,
// depending on how it was created.
package pool

import "errors"

// ErrFull is returned by Insert when every slot is taken and the pool was
// created without reallocation.
var ErrFull = errors.New("pool exhausted")

type slot[T any] struct {
	item T
	used bool
}

// Pool stores items of type T in numbered slots.
type Pool[T any] struct {
	slots   []slot[T]
	free    []int
	used    int
	realloc bool
}

// New returns a pool with the given number of slots. With realloc set the
// pool doubles its capacity whenever it runs full; otherwise Insert fails
// with ErrFull. A size below one is raised to one.
func New[T any](size int, realloc bool) *Pool[T] {
	if size < 1 {
		size = 1
	}
	p := &Pool[T]{
		slots:   make([]slot[T], size),
		free:    make([]int, 0, size),
		realloc: realloc,
	}
	for i := size - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}
	return p
}

// Insert stores item in a vacant slot and returns the slot number.
func (p *Pool[T]) Insert(item T) (int, error) {
	if len(p.free) == 0 {
		if !p.realloc {
			return 0, ErrFull
		}
		p.grow()
	}
	n := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.slots[n] = slot[T]{item: item, used: true}
	p.used++
	return n, nil
}

// Delete vacates a slot. Deleting a vacant or out of range slot does
// nothing.
func (p *Pool[T]) Delete(n int) {
	if n < 0 || n >= len(p.slots) || !p.slots[n].used {
		return
	}
	var zero T
	p.slots[n] = slot[T]{item: zero}
	p.free = append(p.free, n)
	p.used--
}

// Get returns the item in slot n. The second return value reports whether
// the slot is occupied.
func (p *Pool[T]) Get(n int) (T, bool) {
	if n < 0 || n >= len(p.slots) || !p.slots[n].used {
		var zero T
		return zero, false
	}
	return p.slots[n].item, true
}

// Len returns the number of occupied slots.
func (p *Pool[T]) Len() int { return p.used }

// Cap returns the total number of slots.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Free returns the number of vacant slots.
func (p *Pool[T]) Free() int { return len(p.slots) - p.used }

func (p *Pool[T]) grow() {
	old := len(p.slots)
	p.slots = append(p.slots, make([]slot[T], old)...)
	for i := len(p.slots) - 1; i >= old; i-- {
		p.free = append(p.free, i)
	}
}
