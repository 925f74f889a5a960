package depot

import (
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const defaultCapacity = 64

// Registry owns the entity allocator and one SparseSet per registered component
//
// The component set is closed: it is fixed by Factory.NewRegistry and using any
// other component with the registry fails with ErrConfiguration. All structural
// mutation goes through the registry. While a Cursor is live the registry is
// locked and structural calls return ErrLocked; the Enqueue variants defer them
// until the last cursor finishes.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	logger          zerolog.Logger
	policy          AttachPolicy
	initialCapacity int
	schema          table.Schema

	entities   *allocator
	components []Component
	sets       []Set
	rows       []uint32
	index      map[reflect.Type]int

	locks   int
	opQueue opQueue
}

func newRegistry(components []Component, opts ...Option) (*Registry, error) {
	reg := &Registry{
		logger:          zerolog.Nop(),
		policy:          PolicyReplace,
		initialCapacity: defaultCapacity,
		index:           make(map[reflect.Type]int, len(components)),
		opQueue:         newOpQueue(),
	}
	for _, opt := range opts {
		opt(reg)
	}
	if len(components) == 0 {
		return nil, eris.Wrap(ErrConfiguration, "registry needs at least one component")
	}
	if len(components) > mask.MaxBits {
		return nil, eris.Wrapf(ErrConfiguration, "%d components exceed the %d bit signature", len(components), mask.MaxBits)
	}
	if reg.schema == nil {
		reg.schema = table.Factory.NewSchema()
	}
	for _, c := range components {
		if c == nil {
			return nil, eris.Wrap(ErrConfiguration, "nil component")
		}
		typ := c.ValueType()
		if _, dup := reg.index[typ]; dup {
			return nil, eris.Wrapf(ErrConfiguration, "component %s registered twice", typ)
		}
		reg.schema.Register(c)
		reg.index[typ] = len(reg.sets)
		reg.components = append(reg.components, c)
		reg.sets = append(reg.sets, c.newSet(reg.policy, reg.initialCapacity))
		reg.rows = append(reg.rows, reg.schema.RowIndexFor(c))
	}
	reg.entities = newAllocator(reg.initialCapacity)

	reg.logger.Debug().
		Int("total_components", len(reg.components)).
		Str("attach_policy", reg.policy.String()).
		Msg("registry created")
	return reg, nil
}

// Create issues a new entity. It is allowed while the registry is locked.
func (reg *Registry) Create() Entity {
	return reg.entities.create()
}

// CreateMany issues n entities in allocation order. It returns nil for n <= 0.
func (reg *Registry) CreateMany(n int) []Entity {
	if n <= 0 {
		return nil
	}
	reg.entities.reserve(reg.entities.capacity() + n)
	created := make([]Entity, n)
	for i := range created {
		created[i] = reg.entities.create()
	}
	return created
}

// Destroy detaches every component of e and then invalidates e
func (reg *Registry) Destroy(e Entity) error {
	if err := reg.checkMutable(e, "destroy"); err != nil {
		return err
	}
	for _, set := range reg.sets {
		set.remove(e)
	}
	return reg.entities.destroy(e)
}

// Valid reports whether e is a live handle of this registry
func (reg *Registry) Valid(e Entity) bool {
	return reg.entities.valid(e)
}

// Size returns the number of live entities
func (reg *Registry) Size() int {
	return reg.entities.size()
}

// Capacity returns the number of slots allocated so far, live or free
func (reg *Registry) Capacity() int {
	return reg.entities.capacity()
}

// Has reports whether e holds component c
func (reg *Registry) Has(c Component, e Entity) (bool, error) {
	i, err := reg.setIndex(c)
	if err != nil {
		return false, err
	}
	if !reg.entities.valid(e) {
		return false, eris.Wrapf(ErrStaleHandle, "has %s on %v", c.ValueType(), e)
	}
	return reg.sets[i].Contains(e), nil
}

// Detach removes component c from e
func (reg *Registry) Detach(c Component, e Entity) error {
	i, err := reg.setIndex(c)
	if err != nil {
		return err
	}
	if err := reg.checkMutable(e, "detach"); err != nil {
		return err
	}
	if !reg.sets[i].remove(e) {
		return eris.Wrapf(ErrNotPresent, "%s on %v", c.ValueType(), e)
	}
	return nil
}

// Signature returns the mask of component bits e currently holds. Bit i is the
// i-th registered component; schema rows are not used because they can exceed
// the mask width.
func (reg *Registry) Signature(e Entity) (mask.Mask, error) {
	var sig mask.Mask
	if !reg.entities.valid(e) {
		return sig, eris.Wrapf(ErrStaleHandle, "signature of %v", e)
	}
	for i, set := range reg.sets {
		if set.Contains(e) {
			sig.Mark(uint32(i))
		}
	}
	return sig, nil
}

// Orphan reports whether e is live and holds no components
func (reg *Registry) Orphan(e Entity) bool {
	if !reg.entities.valid(e) {
		return false
	}
	for _, set := range reg.sets {
		if set.Contains(e) {
			return false
		}
	}
	return true
}

// Each visits live entities in slot order until fn returns false
func (reg *Registry) Each(fn func(Entity) bool) {
	reg.entities.each(fn)
}

// Entities yields live entities in slot order
func (reg *Registry) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		reg.entities.each(yield)
	}
}

// Clear empties every storage and destroys every live entity, oldest slot first
func (reg *Registry) Clear() error {
	if reg.Locked() {
		return eris.Wrap(ErrLocked, "clear")
	}
	for _, set := range reg.sets {
		set.Clear()
	}
	destroyed := 0
	reg.entities.each(func(e Entity) bool {
		// each only yields valid handles
		_ = reg.entities.destroy(e)
		destroyed++
		return true
	})
	reg.logger.Debug().Int("destroyed", destroyed).Msg("registry cleared")
	return nil
}

// Components returns the registered components in registration order
func (reg *Registry) Components() []Component {
	return reg.components
}

// Storage returns the type-erased storage for c
func (reg *Registry) Storage(c Component) (Set, error) {
	i, err := reg.setIndex(c)
	if err != nil {
		return nil, err
	}
	return reg.sets[i], nil
}

// RowIndexFor returns the schema row assigned to c. Rows grow with every
// component handle in the process; masks use the registration index instead.
func (reg *Registry) RowIndexFor(c Component) (uint32, error) {
	i, err := reg.setIndex(c)
	if err != nil {
		return 0, err
	}
	return reg.rows[i], nil
}

func (reg *Registry) Policy() AttachPolicy {
	return reg.policy
}

func (reg *Registry) Logger() *zerolog.Logger {
	return &reg.logger
}

// Locked reports whether a cursor over the registry is live
func (reg *Registry) Locked() bool {
	return reg.locks > 0
}

func (reg *Registry) lock() {
	reg.locks++
}

// unlock releases one lock; releasing the last one applies queued operations.
func (reg *Registry) unlock() error {
	if reg.locks == 0 {
		return nil
	}
	reg.locks--
	if reg.locks > 0 {
		return nil
	}
	return reg.processOperationQueue()
}

func (reg *Registry) setIndex(c Component) (int, error) {
	if c == nil {
		return 0, eris.Wrap(ErrConfiguration, "nil component")
	}
	i, ok := reg.index[c.ValueType()]
	if !ok {
		return 0, eris.Wrapf(ErrConfiguration, "component %s is not registered", c.ValueType())
	}
	return i, nil
}

func (reg *Registry) checkMutable(e Entity, op string) error {
	if reg.locks > 0 {
		return eris.Wrapf(ErrLocked, "%s %v", op, e)
	}
	if !reg.entities.valid(e) {
		return eris.Wrapf(ErrStaleHandle, "%s %v", op, e)
	}
	return nil
}

func storageFor[T any](reg *Registry) (*SparseSet[T], error) {
	typ := reflect.TypeFor[T]()
	i, ok := reg.index[typ]
	if !ok {
		return nil, eris.Wrapf(ErrConfiguration, "component %s is not registered", typ)
	}
	return reg.sets[i].(*SparseSet[T]), nil
}
