/*
Package depot provides sparse-set entity/component storage for games and simulations.

Every component type lives in its own SparseSet: a packed array of values, a
matching packed array of owning entities and a sparse table from entity slot to
packed position. Attach appends, Detach swaps the last element into the hole,
lookups are a single index away.

Core Concepts:

  - Entity: A generational handle. Destroying an entity bumps its slot's
    generation so old copies of the handle stop validating.
  - Component: A plain Go value type registered with a Registry.
  - Registry: Owns the entity allocator and one storage per component. The set
    of components is fixed when the registry is built.
  - View: A query of included and excluded components. Iteration is driven by
    the smallest included storage.

Basic Usage:

	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()
	frozen := depot.FactoryNewComponent[Frozen]()

	registry, _ := depot.Factory.NewRegistry([]depot.Component{position, velocity, frozen})

	e := registry.Create()
	position.Attach(registry, e, Position{})
	velocity.Attach(registry, e, Velocity{X: 1})

	query := depot.Factory.NewQuery().And(position, velocity).Not(frozen)
	view, _ := registry.View(query)

	cursor := view.Cursor()
	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Detaching or destroying while a cursor is live fails with ErrLocked; use
EnqueueDestroy, EnqueueAttach or EnqueueDetach to defer the change until
iteration ends. A Registry is not safe for concurrent use.
*/
package depot
