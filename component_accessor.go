package depot

import "github.com/rotisserie/eris"

// Attach stores value as e's T and returns a pointer to the stored copy
func (c AccessibleComponent[T]) Attach(reg *Registry, e Entity, value T) (*T, error) {
	set, err := storageFor[T](reg)
	if err != nil {
		return nil, err
	}
	if err := reg.checkMutable(e, "attach"); err != nil {
		return nil, err
	}
	return set.Attach(e, value)
}

// Detach removes e's T
func (c AccessibleComponent[T]) Detach(reg *Registry, e Entity) error {
	return reg.Detach(c, e)
}

// EnqueueAttach attaches now, or once the registry unlocks if a cursor is live
func (c AccessibleComponent[T]) EnqueueAttach(reg *Registry, e Entity, value T) error {
	set, err := storageFor[T](reg)
	if err != nil {
		return err
	}
	if !reg.Locked() {
		_, err := c.Attach(reg, e, value)
		return err
	}
	if !reg.Valid(e) {
		return eris.Wrapf(ErrStaleHandle, "enqueue attach %v", e)
	}
	reg.opQueue.EnqueueComponentOp(opAttach, reg.index[c.ValueType()], e, func() error {
		_, err := set.Attach(e, value)
		return err
	})
	return nil
}

// EnqueueDetach detaches now, or once the registry unlocks if a cursor is live
func (c AccessibleComponent[T]) EnqueueDetach(reg *Registry, e Entity) error {
	i, err := reg.setIndex(c)
	if err != nil {
		return err
	}
	if !reg.Locked() {
		return reg.Detach(c, e)
	}
	if !reg.Valid(e) {
		return eris.Wrapf(ErrStaleHandle, "enqueue detach %v", e)
	}
	set := reg.sets[i].(*SparseSet[T])
	reg.opQueue.EnqueueComponentOp(opDetach, i, e, func() error {
		return set.Detach(e)
	})
	return nil
}

// GetFromEntity returns a pointer to e's T. The pointer is valid until the next
// structural change to the T storage.
func (c AccessibleComponent[T]) GetFromEntity(reg *Registry, e Entity) (*T, error) {
	set, err := storageFor[T](reg)
	if err != nil {
		return nil, err
	}
	if !reg.Valid(e) {
		return nil, eris.Wrapf(ErrStaleHandle, "get %s on %v", c.ValueType(), e)
	}
	return set.Get(e)
}

// Check reports whether e is live and holds T
func (c AccessibleComponent[T]) Check(reg *Registry, e Entity) bool {
	ok, err := reg.Has(c, e)
	return err == nil && ok
}

// Storage returns the registry's T storage
//
// Read, iterate and reorder it freely; structural changes made directly on the
// set bypass handle validation and must go through the registry instead.
func (c AccessibleComponent[T]) Storage(reg *Registry) (*SparseSet[T], error) {
	return storageFor[T](reg)
}

// GetFromCursor returns the cursor entity's T, or nil when it has none or the
// cursor is not on a match
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	if !cursor.positioned {
		return nil
	}
	if set, ok := cursor.driver.(*SparseSet[T]); ok {
		if pos := cursor.position; pos < len(set.entities) && set.entities[pos] == cursor.current {
			return &set.dense[pos]
		}
	}
	set, err := storageFor[T](cursor.view.reg)
	if err != nil {
		return nil
	}
	pos, ok := set.position(cursor.current)
	if !ok {
		return nil
	}
	return &set.dense[pos]
}

// GetFromCursorSafe is GetFromCursor with an explicit presence flag
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	v := c.GetFromCursor(cursor)
	return v != nil, v
}
