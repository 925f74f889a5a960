package depot

import (
	"github.com/rotisserie/eris"
)

// Cursor walks a View one entity at a time
//
// The first Next locks the registry; the lock is released when Next returns
// false, on Reset and on Close. A loop left early without Close keeps the
// registry locked.
//
//	for cursor.Next() {
//		pos := position.GetFromCursor(cursor)
//		vel := velocity.GetFromCursor(cursor)
//		pos.X += vel.X
//	}
//	if err := cursor.Err(); err != nil { ... }
type Cursor struct {
	view   *View
	driver Set

	// Current iteration state
	version  uint64
	next     int
	position int
	current  Entity

	// positioned is set while the cursor sits on a match
	positioned bool
	held       bool
	err  error
}

func newCursor(view *View) *Cursor {
	return &Cursor{view: view}
}

// Next advances to the next matching entity. After it returns false the
// cursor starts over on the following call unless Err is set.
func (c *Cursor) Next() bool {
	c.positioned = false
	if c.err != nil {
		return false
	}
	if !c.held {
		c.start()
	}
	if c.driver.Version() != c.version {
		c.err = eris.Wrapf(ErrMutatedDuringIteration, "after %d of %d entities", c.next, c.driver.Size())
		c.finish()
		return false
	}
	entities := c.driver.Entities()
	for c.next < len(entities) {
		e := entities[c.next]
		c.next++
		if c.view.matches(e, c.driver) {
			c.position = c.next - 1
			c.current = e
			c.positioned = true
			return true
		}
	}
	c.finish()
	return false
}

func (c *Cursor) start() {
	c.driver = c.view.Driver()
	c.version = c.driver.Version()
	c.next = 0
	c.view.reg.lock()
	c.held = true
}

func (c *Cursor) release() error {
	if !c.held {
		return nil
	}
	c.held = false
	return c.view.reg.unlock()
}

func (c *Cursor) finish() {
	if err := c.release(); err != nil && c.err == nil {
		c.err = err
	}
	c.next = 0
	c.positioned = false
}

// Entity returns the entity the cursor is on, and the zero Entity when Next has
// not returned true since the cursor started, finished or was reset.
func (c *Cursor) Entity() Entity {
	if !c.positioned {
		return Entity{}
	}
	return c.current
}

// Positioned reports whether the cursor currently sits on a match
func (c *Cursor) Positioned() bool {
	return c.positioned
}

// Driver returns the storage the current iteration walks, nil before the first Next
func (c *Cursor) Driver() Set {
	return c.driver
}

// Err returns the error that stopped iteration: ErrMutatedDuringIteration, or
// a failure applying operations queued while the cursor held the registry.
func (c *Cursor) Err() error {
	return c.err
}

// Reset releases the registry and clears any error so the next Next starts over
func (c *Cursor) Reset() {
	c.err = c.release()
	c.next = 0
	c.positioned = false
}

// Close releases the registry, applying queued operations if this was the last lock
func (c *Cursor) Close() error {
	err := c.release()
	c.next = 0
	c.positioned = false
	return err
}

// RemainingInDriver returns how many driver entries are still unvisited
func (c *Cursor) RemainingInDriver() int {
	if c.driver == nil || !c.held {
		return 0
	}
	return c.driver.Size() - c.next
}
