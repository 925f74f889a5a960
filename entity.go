package depot

import (
	"fmt"

	"github.com/rs/zerolog"
)

var _ zerolog.LogObjectMarshaler = Entity{}

// Entity is a generational handle to a slot in a Registry
//
// Handles are plain values: copy them, compare them with ==, use them as map keys.
// The index/generation split is an implementation detail; only equality and
// Registry.Valid are part of the contract.
type Entity struct {
	index      uint32
	generation uint32
}

// Index returns the slot the handle refers to
func (e Entity) Index() uint32 {
	return e.index
}

// Generation returns the recycle count of the slot at the time the handle was issued
func (e Entity) Generation() uint32 {
	return e.generation
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d:%d)", e.index, e.generation)
}

func (e Entity) MarshalZerologObject(ev *zerolog.Event) {
	ev.Uint32("index", e.index).Uint32("generation", e.generation)
}
