package depot

import (
	"errors"

	"github.com/rotisserie/eris"
)

type operation struct {
	typ    operationType
	entity Entity
	set    int
	apply  func() error
}

type operationType int

const (
	opAttach operationType = iota
	opDetach
	opDestroy
	opCancelled operationType = -1
)

func (t operationType) String() string {
	switch t {
	case opAttach:
		return "attach"
	case opDetach:
		return "detach"
	case opDestroy:
		return "destroy"
	}
	return "cancelled"
}

type opKey struct {
	entity Entity
	set    int
}

// opQueue holds structural operations requested while the registry is locked.
// Component operations run before destroys; a later operation on the same
// entity and component replaces an earlier one.
type opQueue struct {
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[Entity]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[Entity]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

func (q *opQueue) Len() int {
	n := len(q.destroyOps)
	for _, op := range q.componentOps {
		if op.typ != opCancelled {
			n++
		}
	}
	return n
}

func (q *opQueue) EnqueueDestroy(e Entity) {
	if _, exists := q.pendingDestroy[e]; exists {
		return
	}
	q.pendingDestroy[e] = struct{}{}
	for key, idx := range q.pendingMods {
		if key.entity == e {
			q.componentOps[idx].typ = opCancelled
			delete(q.pendingMods, key)
		}
	}
	q.destroyOps = append(q.destroyOps, operation{typ: opDestroy, entity: e})
}

func (q *opQueue) EnqueueComponentOp(typ operationType, set int, e Entity, apply func() error) {
	// Entity is going away anyway
	if _, isDestroyed := q.pendingDestroy[e]; isDestroyed {
		return
	}
	key := opKey{entity: e, set: set}
	if existingIdx, exists := q.pendingMods[key]; exists {
		existing := &q.componentOps[existingIdx]
		existing.typ = typ
		existing.apply = apply
		return
	}
	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:    typ,
		entity: e,
		set:    set,
		apply:  apply,
	})
}

func (q *opQueue) reset() {
	q.componentOps = q.componentOps[:0]
	q.destroyOps = q.destroyOps[:0]
	clear(q.pendingDestroy)
	clear(q.pendingMods)
}

// EnqueueDestroy destroys e now, or once the registry unlocks if a cursor is live
func (reg *Registry) EnqueueDestroy(e Entity) error {
	if !reg.Locked() {
		return reg.Destroy(e)
	}
	if !reg.Valid(e) {
		return eris.Wrapf(ErrStaleHandle, "enqueue destroy %v", e)
	}
	reg.opQueue.EnqueueDestroy(e)
	return nil
}

// PendingOperations returns the number of queued operations
func (reg *Registry) PendingOperations() int {
	return reg.opQueue.Len()
}

// processOperationQueue applies every queued operation. Operations whose entity
// went stale in the meantime are dropped; failures are collected and returned.
func (reg *Registry) processOperationQueue() error {
	if len(reg.opQueue.componentOps) == 0 && len(reg.opQueue.destroyOps) == 0 {
		return nil
	}
	var errs []error
	applied, dropped := 0, 0

	for _, op := range reg.opQueue.componentOps {
		if op.typ == opCancelled {
			continue
		}
		if !reg.entities.valid(op.entity) {
			dropped++
			reg.logger.Warn().Object("entity", op.entity).Stringer("op", op.typ).Msg("dropping queued operation on stale entity")
			continue
		}
		if err := op.apply(); err != nil {
			errs = append(errs, eris.Wrapf(err, "failed to apply queued %s", op.typ))
			continue
		}
		applied++
	}

	for _, op := range reg.opQueue.destroyOps {
		if !reg.entities.valid(op.entity) {
			dropped++
			reg.logger.Warn().Object("entity", op.entity).Stringer("op", op.typ).Msg("dropping queued operation on stale entity")
			continue
		}
		if err := reg.Destroy(op.entity); err != nil {
			errs = append(errs, eris.Wrap(err, "failed to apply queued destroy"))
			continue
		}
		applied++
	}

	reg.opQueue.reset()
	reg.logger.Debug().Int("applied", applied).Int("dropped", dropped).Msg("flushed operation queue")
	if len(errs) > 0 {
		err := errors.Join(errs...)
		reg.logger.Error().Err(err).Msg("queued operations failed")
		return err
	}
	return nil
}
