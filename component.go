package depot

import (
	"reflect"

	"github.com/TheBitDrifter/table"
)

var _ Component = AccessibleComponent[struct{}]{}

// AccessibleComponent is the typed handle for component type T
//
// Two handles for the same T are interchangeable: registries key storages by the Go type.
type AccessibleComponent[T any] struct {
	table.ElementType
}

// ValueType returns the Go type stored for this component
func (c AccessibleComponent[T]) ValueType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c AccessibleComponent[T]) String() string {
	return c.ValueType().String()
}

func (c AccessibleComponent[T]) newSet(policy AttachPolicy, capacity int) Set {
	return newSparseSet[T](c, policy, capacity)
}
