package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	"github.com/rotisserie/eris"
)

// View is a validated query bound to a registry
//
// A view keeps no data of its own. Every iteration picks the include storage
// with the fewest entities as its driver and walks that storage's packed order,
// so results come out in the driver's dense order at the time iteration starts.
type View struct {
	reg         *Registry
	include     []Set
	exclude     []Set
	includeMask mask.Mask
	excludeMask mask.Mask
}

// View composes q against the registry. Queries with no included component,
// with a component both included and excluded, or with unregistered components
// fail with ErrConfiguration.
func (reg *Registry) View(q *Query) (*View, error) {
	if q == nil || len(q.include) == 0 {
		return nil, eris.Wrap(ErrConfiguration, "query needs at least one included component")
	}
	v := &View{reg: reg}
	for _, c := range q.include {
		i, err := reg.setIndex(c)
		if err != nil {
			return nil, err
		}
		if v.includeMask.ContainsAll(reg.bit(i)) {
			continue
		}
		v.includeMask.Mark(uint32(i))
		v.include = append(v.include, reg.sets[i])
	}
	for _, c := range q.exclude {
		i, err := reg.setIndex(c)
		if err != nil {
			return nil, err
		}
		if v.excludeMask.ContainsAll(reg.bit(i)) {
			continue
		}
		v.excludeMask.Mark(uint32(i))
		v.exclude = append(v.exclude, reg.sets[i])
	}
	if v.includeMask.ContainsAny(v.excludeMask) {
		return nil, eris.Wrap(ErrConfiguration, "query includes and excludes the same component")
	}
	return v, nil
}

// bit is the mask of the i-th registered component
func (reg *Registry) bit(i int) mask.Mask {
	var m mask.Mask
	m.Mark(uint32(i))
	return m
}

// Driver returns the include storage iteration would start from right now
func (v *View) Driver() Set {
	driver := v.include[0]
	for _, set := range v.include[1:] {
		if set.Size() < driver.Size() {
			driver = set
		}
	}
	return driver
}

// Matches reports whether e satisfies the view's predicates
func (v *View) Matches(e Entity) bool {
	return v.reg.Valid(e) && v.matches(e, nil)
}

func (v *View) matches(e Entity, driver Set) bool {
	for _, set := range v.include {
		if set != driver && !set.Contains(e) {
			return false
		}
	}
	for _, set := range v.exclude {
		if set.Contains(e) {
			return false
		}
	}
	return true
}

// Cursor returns a fresh cursor over the view
func (v *View) Cursor() *Cursor {
	return newCursor(v)
}

// Entities yields matching entities. Mutation errors end the sequence silently;
// use Each or a Cursor to observe them.
func (v *View) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		cursor := v.Cursor()
		defer cursor.Close()
		for cursor.Next() {
			if !yield(cursor.Entity()) {
				return
			}
		}
	}
}

// Each calls fn for every match until fn returns false
func (v *View) Each(fn func(*Cursor) bool) error {
	cursor := v.Cursor()
	for cursor.Next() {
		if !fn(cursor) {
			return cursor.Close()
		}
	}
	return cursor.Err()
}

// Count returns the number of matching entities without locking the registry
func (v *View) Count() int {
	driver := v.Driver()
	count := 0
	for _, e := range driver.Entities() {
		if v.matches(e, driver) {
			count++
		}
	}
	return count
}

// Collect returns the matching entities in iteration order. The result is a
// copy, so the registry can be mutated freely while walking it.
func (v *View) Collect() []Entity {
	driver := v.Driver()
	matched := make([]Entity, 0, driver.Size())
	for _, e := range driver.Entities() {
		if v.matches(e, driver) {
			matched = append(matched, e)
		}
	}
	return matched
}
