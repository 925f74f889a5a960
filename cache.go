package depot

import "github.com/rotisserie/eris"

// EntityCache maps names to entity handles
//
// Entries are not told when their entity is destroyed. Lookup checks the handle
// against the registry and evicts it once stale.
type EntityCache struct {
	items       map[string]Entity
	maxCapacity int
}

func (c *EntityCache) Register(key string, e Entity) error {
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxCapacity {
		return eris.Wrapf(ErrCacheFull, "registering %q (%d)", key, c.maxCapacity)
	}
	c.items[key] = e
	return nil
}

// Lookup returns the entity registered under key if it is still live in reg
func (c *EntityCache) Lookup(reg *Registry, key string) (Entity, bool) {
	e, ok := c.items[key]
	if !ok {
		return Entity{}, false
	}
	if !reg.Valid(e) {
		delete(c.items, key)
		return Entity{}, false
	}
	return e, true
}

func (c *EntityCache) Forget(key string) {
	delete(c.items, key)
}

func (c *EntityCache) Len() int {
	return len(c.items)
}

func (c *EntityCache) Clear() {
	clear(c.items)
}
