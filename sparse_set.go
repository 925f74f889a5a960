package depot

import (
	"iter"
	"reflect"
	"slices"
	"sort"

	"github.com/rotisserie/eris"
)

// AttachPolicy decides what attaching to an entity that already holds the component does
type AttachPolicy uint8

const (
	// PolicyReplace overwrites the stored value in place
	PolicyReplace AttachPolicy = iota
	// PolicyReject fails with ErrAlreadyPresent
	PolicyReject
)

func (p AttachPolicy) String() string {
	switch p {
	case PolicyReplace:
		return "replace"
	case PolicyReject:
		return "reject"
	}
	return "unknown"
}

var _ Set = &SparseSet[struct{}]{}

// SparseSet stores values of one component type in a packed array
//
// dense and entities are index aligned; sparse maps a slot index to its dense
// position plus one, zero meaning absent. Detach swaps the last element into the
// hole, so packed order is insertion order only until the first removal.
//
// Pointers returned by Attach, Get and All stay valid until the next Attach,
// Detach, Swap, Sort, Respect or Clear on the same set.
type SparseSet[T any] struct {
	component Component
	policy    AttachPolicy
	dense     []T
	entities  []Entity
	sparse    []uint32
	version   uint64
}

func newSparseSet[T any](component Component, policy AttachPolicy, capacity int) *SparseSet[T] {
	return &SparseSet[T]{
		component: component,
		policy:    policy,
		dense:     make([]T, 0, capacity),
		entities:  make([]Entity, 0, capacity),
	}
}

// Component returns the component this set was built for, nil for standalone sets
func (s *SparseSet[T]) Component() Component {
	return s.component
}

func (s *SparseSet[T]) Policy() AttachPolicy {
	return s.policy
}

func (s *SparseSet[T]) name() string {
	return reflect.TypeFor[T]().String()
}

func (s *SparseSet[T]) position(e Entity) (int, bool) {
	if int(e.index) >= len(s.sparse) {
		return 0, false
	}
	slot := s.sparse[e.index]
	if slot == 0 {
		return 0, false
	}
	pos := int(slot - 1)
	return pos, s.entities[pos] == e
}

func (s *SparseSet[T]) grow(index uint32) {
	n := int(index) + 1
	if n <= len(s.sparse) {
		return
	}
	old := len(s.sparse)
	s.sparse = slices.Grow(s.sparse, n-old)[:n]
	clear(s.sparse[old:])
}

// Attach stores value for e and returns a pointer to the stored copy
//
// When e already holds a value the set's policy applies. A slot still bound to an
// older generation of e is rebound to e in place; attaching an older generation
// than the one holding the slot fails with ErrStaleHandle.
func (s *SparseSet[T]) Attach(e Entity, value T) (*T, error) {
	if pos, ok := s.position(e); ok {
		if s.policy == PolicyReject {
			return nil, eris.Wrapf(ErrAlreadyPresent, "%s on %v", s.name(), e)
		}
		s.dense[pos] = value
		return &s.dense[pos], nil
	}
	s.grow(e.index)
	if slot := s.sparse[e.index]; slot != 0 {
		pos := int(slot - 1)
		if held := s.entities[pos]; e.generation <= held.generation {
			return nil, eris.Wrapf(ErrStaleHandle, "%s on %v, slot held by %v", s.name(), e, held)
		}
		s.entities[pos] = e
		s.dense[pos] = value
		s.version++
		return &s.dense[pos], nil
	}
	s.dense = append(s.dense, value)
	s.entities = append(s.entities, e)
	s.sparse[e.index] = uint32(len(s.dense))
	s.version++
	return &s.dense[len(s.dense)-1], nil
}

// Detach swap-removes e's value
func (s *SparseSet[T]) Detach(e Entity) error {
	pos, ok := s.position(e)
	if !ok {
		return eris.Wrapf(ErrNotPresent, "%s on %v", s.name(), e)
	}
	s.removeAt(pos)
	return nil
}

func (s *SparseSet[T]) remove(e Entity) bool {
	pos, ok := s.position(e)
	if ok {
		s.removeAt(pos)
	}
	return ok
}

func (s *SparseSet[T]) removeAt(pos int) {
	last := len(s.dense) - 1
	removed := s.entities[pos]
	if pos != last {
		moved := s.entities[last]
		s.dense[pos] = s.dense[last]
		s.entities[pos] = moved
		s.sparse[moved.index] = uint32(pos + 1)
	}
	var zero T
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.entities = s.entities[:last]
	s.sparse[removed.index] = 0
	s.version++
}

// Get returns a pointer to e's value
func (s *SparseSet[T]) Get(e Entity) (*T, error) {
	pos, ok := s.position(e)
	if !ok {
		return nil, eris.Wrapf(ErrNotPresent, "%s on %v", s.name(), e)
	}
	return &s.dense[pos], nil
}

func (s *SparseSet[T]) Contains(e Entity) bool {
	_, ok := s.position(e)
	return ok
}

func (s *SparseSet[T]) Size() int {
	return len(s.dense)
}

func (s *SparseSet[T]) Empty() bool {
	return len(s.dense) == 0
}

// Version counts layout changes; it moves on every attach of a new entity,
// detach, swap and clear.
func (s *SparseSet[T]) Version() uint64 {
	return s.version
}

// Entities returns the packed entity array. The slice aliases set memory: do not modify it.
func (s *SparseSet[T]) Entities() []Entity {
	return s.entities
}

// Values returns the packed value array, aligned with Entities
func (s *SparseSet[T]) Values() []T {
	return s.dense
}

// At returns the entity and value at a dense position
func (s *SparseSet[T]) At(pos int) (Entity, *T) {
	return s.entities[pos], &s.dense[pos]
}

// All yields entities with their values in packed order
func (s *SparseSet[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i := range s.entities {
			if !yield(s.entities[i], &s.dense[i]) {
				return
			}
		}
	}
}

// Swap exchanges two dense positions without changing membership
func (s *SparseSet[T]) Swap(a, b int) {
	if a == b {
		return
	}
	ea, eb := s.entities[a], s.entities[b]
	s.dense[a], s.dense[b] = s.dense[b], s.dense[a]
	s.entities[a], s.entities[b] = eb, ea
	s.sparse[ea.index] = uint32(b + 1)
	s.sparse[eb.index] = uint32(a + 1)
	s.version++
}

// Sort reorders the packed arrays by value
func (s *SparseSet[T]) Sort(less func(a, b *T) bool) {
	sort.Sort(denseSorter[T]{set: s, less: func(i, j int) bool {
		return less(&s.dense[i], &s.dense[j])
	}})
}

// SortByEntity reorders the packed arrays by handle
func (s *SparseSet[T]) SortByEntity(less func(a, b Entity) bool) {
	sort.Sort(denseSorter[T]{set: s, less: func(i, j int) bool {
		return less(s.entities[i], s.entities[j])
	}})
}

// Respect moves the entities shared with other to the front, in other's packed
// order. Entities only in s end up behind them in no particular order.
func (s *SparseSet[T]) Respect(other Set) {
	next := 0
	for _, e := range other.Entities() {
		pos, ok := s.position(e)
		if !ok {
			continue
		}
		s.Swap(next, pos)
		next++
	}
}

// Clear removes every value
func (s *SparseSet[T]) Clear() {
	for _, e := range s.entities {
		s.sparse[e.index] = 0
	}
	clear(s.dense)
	s.dense = s.dense[:0]
	s.entities = s.entities[:0]
	s.version++
}

// Reserve grows the packed arrays to hold at least n values
func (s *SparseSet[T]) Reserve(n int) {
	if n <= cap(s.dense) {
		return
	}
	s.dense = slices.Grow(s.dense, n-len(s.dense))
	s.entities = slices.Grow(s.entities, n-len(s.entities))
}

type denseSorter[T any] struct {
	set  *SparseSet[T]
	less func(i, j int) bool
}

func (d denseSorter[T]) Len() int           { return d.set.Size() }
func (d denseSorter[T]) Less(i, j int) bool { return d.less(i, j) }
func (d denseSorter[T]) Swap(i, j int)      { d.set.Swap(i, j) }
