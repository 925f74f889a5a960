package depot

import (
	"reflect"

	"github.com/TheBitDrifter/table"
)

// Component identifies a component type registered with a Registry
//
// Only AccessibleComponent values satisfy it; build them with FactoryNewComponent.
type Component interface {
	table.ElementType
	ValueType() reflect.Type
	newSet(policy AttachPolicy, capacity int) Set
}

// Set is the type-erased view of a SparseSet used by the registry and views
type Set interface {
	Component() Component
	Contains(Entity) bool
	Size() int
	Entities() []Entity
	Version() uint64
	remove(Entity) bool
	Clear()
}

type iCursor interface {
	Next() bool
	Entity() Entity
	Err() error
	Reset()
}

var _ iCursor = &Cursor{}
