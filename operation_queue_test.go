package depot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"
)

func TestEnqueueAppliesDirectlyWhenUnlocked(t *testing.T) {
	reg := newTestRegistry(t)
	e := reg.Create()

	assert.NilError(t, healthComp.EnqueueAttach(reg, e, Health{Current: 5}))
	assert.Assert(t, healthComp.Check(reg, e))
	assert.NilError(t, healthComp.EnqueueDetach(reg, e))
	assert.Assert(t, !healthComp.Check(reg, e))
	assert.NilError(t, reg.EnqueueDestroy(e))
	assert.Assert(t, !reg.Valid(e))

	assert.ErrorIs(t, reg.EnqueueDestroy(e), ErrStaleHandle)
	assert.ErrorIs(t, healthComp.EnqueueDetach(reg, e), ErrStaleHandle)
	assert.Equal(t, reg.PendingOperations(), 0)
}

func TestEnqueueDuringIteration(t *testing.T) {
	tests := []struct {
		name        string
		enqueue     func(t *testing.T, reg *Registry, es []Entity)
		wantValid   []bool
		wantHealth  []bool
		wantPending int
	}{
		{
			name: "Destroy every other",
			enqueue: func(t *testing.T, reg *Registry, es []Entity) {
				assert.NilError(t, reg.EnqueueDestroy(es[0]))
				assert.NilError(t, reg.EnqueueDestroy(es[2]))
				assert.NilError(t, reg.EnqueueDestroy(es[2]))
			},
			wantValid:   []bool{false, true, false},
			wantHealth:  []bool{false, false, false},
			wantPending: 2,
		},
		{
			name: "Attach",
			enqueue: func(t *testing.T, reg *Registry, es []Entity) {
				assert.NilError(t, healthComp.EnqueueAttach(reg, es[1], Health{Current: 1}))
			},
			wantValid:   []bool{true, true, true},
			wantHealth:  []bool{false, true, false},
			wantPending: 1,
		},
		{
			name: "Destroy cancels earlier component ops",
			enqueue: func(t *testing.T, reg *Registry, es []Entity) {
				assert.NilError(t, healthComp.EnqueueAttach(reg, es[1], Health{Current: 1}))
				assert.NilError(t, reg.EnqueueDestroy(es[1]))
				assert.NilError(t, healthComp.EnqueueAttach(reg, es[1], Health{Current: 2}))
			},
			wantValid:   []bool{true, false, true},
			wantHealth:  []bool{false, false, false},
			wantPending: 1,
		},
		{
			name: "Later op on the same component wins",
			enqueue: func(t *testing.T, reg *Registry, es []Entity) {
				// The detach alone would fail: es[0] has no health yet
				assert.NilError(t, healthComp.EnqueueDetach(reg, es[0]))
				assert.NilError(t, healthComp.EnqueueAttach(reg, es[0], Health{Current: 1}))
				assert.NilError(t, healthComp.EnqueueAttach(reg, es[2], Health{Current: 1}))
			},
			wantValid:   []bool{true, true, true},
			wantHealth:  []bool{true, false, true},
			wantPending: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newTestRegistry(t)
			es := reg.CreateMany(3)
			for _, e := range es {
				_, err := posComp.Attach(reg, e, Position{})
				assert.NilError(t, err)
			}
			view, err := reg.View(Factory.NewQuery().And(posComp))
			assert.NilError(t, err)

			cursor := view.Cursor()
			assert.Assert(t, cursor.Next())
			tt.enqueue(t, reg, es)
			assert.Equal(t, reg.PendingOperations(), tt.wantPending)

			// Queued work waits for the cursor
			for i, e := range es {
				assert.Assert(t, reg.Valid(e), "entity %d applied early", i)
			}

			for cursor.Next() {
			}
			assert.NilError(t, cursor.Err())
			assert.Equal(t, reg.PendingOperations(), 0)

			for i, e := range es {
				assert.Equal(t, reg.Valid(e), tt.wantValid[i], "valid %d", i)
				assert.Equal(t, healthComp.Check(reg, e), tt.wantHealth[i], "health %d", i)
			}
			positions, err := posComp.Storage(reg)
			assert.NilError(t, err)
			assertDenseInvariant(t, positions)
		})
	}
}

func TestQueuedFailureSurfacesOnCursor(t *testing.T) {
	reg := newTestRegistry(t)
	e := reg.Create()
	_, err := posComp.Attach(reg, e, Position{})
	assert.NilError(t, err)
	view, err := reg.View(Factory.NewQuery().And(posComp))
	assert.NilError(t, err)

	cursor := view.Cursor()
	assert.Assert(t, cursor.Next())
	// Health is not on e; the failure shows up once the queue runs
	assert.NilError(t, healthComp.EnqueueDetach(reg, e))
	assert.Assert(t, !cursor.Next())
	assert.ErrorIs(t, cursor.Err(), ErrNotPresent)
	assert.Assert(t, !reg.Locked())
}

func TestQueuedOpOnStaleEntityIsDropped(t *testing.T) {
	var buf bytes.Buffer
	reg := newTestRegistry(t, WithLogger(zerolog.New(&buf)))
	e := reg.Create()
	_, err := posComp.Attach(reg, e, Position{})
	assert.NilError(t, err)
	view, err := reg.View(Factory.NewQuery().And(posComp))
	assert.NilError(t, err)

	cursor := view.Cursor()
	assert.Assert(t, cursor.Next())
	assert.NilError(t, healthComp.EnqueueAttach(reg, e, Health{}))
	// Invalidate underneath the queue
	assert.NilError(t, reg.entities.destroy(e))

	assert.NilError(t, cursor.Close())
	assert.Assert(t, strings.Contains(buf.String(), "dropping queued operation on stale entity"))
	assert.Equal(t, reg.PendingOperations(), 0)
}
