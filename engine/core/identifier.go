package core

import "github.com/pkg/errors"

// Identifier is a generational index. The zero value never refers to a live
// slot because generations start at 1.
type Identifier struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether the identifier is the unset value.
func (id Identifier) IsZero() bool {
	return id.Generation == 0
}

// IdentifierPool hands out indices and bumps the generation of a slot each
// time it is released, so old identifiers stop resolving.
type IdentifierPool struct {
	generations []uint32
	live        []bool
	free        []uint32
}

func NewIdentifierPool(capacity int) *IdentifierPool {
	if capacity < 0 {
		capacity = 0
	}
	return &IdentifierPool{
		generations: make([]uint32, 0, capacity),
		live:        make([]bool, 0, capacity),
	}
}

// Acquire returns a fresh identifier, reusing a released slot when one exists.
func (p *IdentifierPool) Acquire() Identifier {
	// Existing free spot. Take it.
	if n := len(p.free); n > 0 {
		index := p.free[n-1]
		p.free = p.free[:n-1]
		p.live[index] = true
		return Identifier{Index: index, Generation: p.generations[index]}
	}

	// If here, no existing free slots. Need a new one, so push it.
	p.generations = append(p.generations, 1)
	p.live = append(p.live, true)
	return Identifier{Index: uint32(len(p.generations) - 1), Generation: 1}
}

// Release frees the slot of id. Releasing twice or releasing a stale id is an error
// and leaves the pool untouched.
func (p *IdentifierPool) Release(id Identifier) error {
	if int(id.Index) >= len(p.generations) || id.IsZero() {
		return errors.Wrapf(ErrUnknownHandle, "identifier %d out of range (max=%d)", id.Index, len(p.generations))
	}
	if !p.Valid(id) {
		return errors.Wrapf(ErrStaleHandle, "identifier %d generation %d", id.Index, id.Generation)
	}

	p.live[id.Index] = false
	p.generations[id.Index]++
	// a wrapped generation would alias the unset value
	if p.generations[id.Index] == 0 {
		p.generations[id.Index] = 1
	}
	p.free = append(p.free, id.Index)
	return nil
}

// Valid reports whether id refers to a slot that is currently acquired.
func (p *IdentifierPool) Valid(id Identifier) bool {
	if id.IsZero() || int(id.Index) >= len(p.generations) {
		return false
	}
	return p.live[id.Index] && p.generations[id.Index] == id.Generation
}

// Len returns the number of live identifiers.
func (p *IdentifierPool) Len() int {
	return len(p.generations) - len(p.free)
}

// Cap returns the number of slots ever allocated.
func (p *IdentifierPool) Cap() int {
	return len(p.generations)
}
