package depot

import "github.com/TheBitDrifter/table"

type factory struct{}

var Factory factory

// NewRegistry builds a registry managing exactly the given components
func (f factory) NewRegistry(components []Component, opts ...Option) (*Registry, error) {
	return newRegistry(components, opts...)
}

func (f factory) NewQuery() *Query {
	return newQuery()
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{
		ElementType: table.FactoryNewElementType[T](),
	}
}

// FactoryNewSparseSet builds a standalone set not owned by any registry
func FactoryNewSparseSet[T any](policy AttachPolicy) *SparseSet[T] {
	return newSparseSet[T](nil, policy, 0)
}

func FactoryNewEntityCache(cap int) *EntityCache {
	return &EntityCache{
		items:       make(map[string]Entity),
		maxCapacity: cap,
	}
}
