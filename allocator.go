package depot

import (
	"slices"

	"github.com/gammazero/deque"
	"github.com/rotisserie/eris"
)

// allocator issues and recycles entity handles.
//
// Freed slots are reused oldest first. Generations are 32 bit and wrap; after
// 2^32 recycles of one slot an old handle can match again, so wraparound lowers
// the odds of an accidental collision without ruling it out.
type allocator struct {
	generations []uint32
	alive       []bool
	free        deque.Deque[uint32]
}

func newAllocator(capacity int) *allocator {
	return &allocator{
		generations: make([]uint32, 0, capacity),
		alive:       make([]bool, 0, capacity),
	}
}

func (a *allocator) create() Entity {
	if a.free.Len() > 0 {
		index := a.free.PopFront()
		a.alive[index] = true
		return Entity{index: index, generation: a.generations[index]}
	}
	index := uint32(len(a.generations))
	a.generations = append(a.generations, 0)
	a.alive = append(a.alive, true)
	return Entity{index: index}
}

func (a *allocator) destroy(e Entity) error {
	if !a.valid(e) {
		return eris.Wrapf(ErrStaleHandle, "cannot destroy %v", e)
	}
	a.generations[e.index]++
	a.alive[e.index] = false
	a.free.PushBack(e.index)
	return nil
}

func (a *allocator) valid(e Entity) bool {
	return int(e.index) < len(a.generations) &&
		a.alive[e.index] &&
		a.generations[e.index] == e.generation
}

// size is the number of live handles.
func (a *allocator) size() int {
	return len(a.generations) - a.free.Len()
}

// capacity is the number of slots ever allocated.
func (a *allocator) capacity() int {
	return len(a.generations)
}

func (a *allocator) reserve(n int) {
	if n <= len(a.generations) {
		return
	}
	a.generations = slices.Grow(a.generations, n-len(a.generations))
	a.alive = slices.Grow(a.alive, n-len(a.alive))
}

// each visits live handles in slot order until fn returns false.
func (a *allocator) each(fn func(Entity) bool) {
	for i, ok := range a.alive {
		if !ok {
			continue
		}
		if !fn(Entity{index: uint32(i), generation: a.generations[i]}) {
			return
		}
	}
}
