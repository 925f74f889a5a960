package depot

import (
	"math/rand"
	"testing"

	"gotest.tools/v3/assert"
)

func handles(n int) []Entity {
	out := make([]Entity, n)
	for i := range out {
		out[i] = Entity{index: uint32(i)}
	}
	return out
}

func TestSparseSetAttachGet(t *testing.T) {
	set := FactoryNewSparseSet[Position](PolicyReplace)
	e := Entity{index: 5}

	assert.Assert(t, set.Empty())
	stored, err := set.Attach(e, Position{X: 1, Y: 2})
	assert.NilError(t, err)
	assert.Equal(t, *stored, Position{X: 1, Y: 2})
	assert.Assert(t, set.Contains(e))
	assert.Equal(t, set.Size(), 1)

	got, err := set.Get(e)
	assert.NilError(t, err)
	got.X = 10
	again, err := set.Get(e)
	assert.NilError(t, err)
	assert.Equal(t, again.X, 10.0)

	assertDenseInvariant(t, set)
}

func TestSparseSetAttachPolicy(t *testing.T) {
	tests := []struct {
		name      string
		policy    AttachPolicy
		wantErr   error
		wantValue Health
	}{
		{"Replace overwrites", PolicyReplace, nil, Health{Current: 2}},
		{"Reject keeps first", PolicyReject, ErrAlreadyPresent, Health{Current: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := FactoryNewSparseSet[Health](tt.policy)
			e := Entity{index: 0}
			_, err := set.Attach(e, Health{Current: 1})
			assert.NilError(t, err)
			version := set.Version()

			_, err = set.Attach(e, Health{Current: 2})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NilError(t, err)
			}
			got, err := set.Get(e)
			assert.NilError(t, err)
			assert.Equal(t, *got, tt.wantValue)
			assert.Equal(t, set.Size(), 1)
			// In place writes are not layout changes
			assert.Equal(t, set.Version(), version)
		})
	}
}

func TestSparseSetDetachSwapsLast(t *testing.T) {
	set := FactoryNewSparseSet[Position](PolicyReplace)
	es := handles(3)
	a, b, c := es[0], es[1], es[2]
	for i, e := range es {
		_, err := set.Attach(e, Position{X: float64(i)})
		assert.NilError(t, err)
	}

	assert.NilError(t, set.Detach(b))

	assert.DeepEqual(t, set.Entities(), []Entity{a, c}, cmpEntity)
	assert.DeepEqual(t, set.Values(), []Position{{X: 0}, {X: 2}})
	assert.Assert(t, !set.Contains(b))
	assert.Assert(t, set.Contains(a))
	assert.Assert(t, set.Contains(c))
	assertDenseInvariant(t, set)

	err := set.Detach(b)
	assert.ErrorIs(t, err, ErrNotPresent)
	_, err = set.Get(b)
	assert.ErrorIs(t, err, ErrNotPresent)
}

func TestSparseSetDetachLeavesOthersIntact(t *testing.T) {
	const n = 200
	set := FactoryNewSparseSet[Health](PolicyReplace)
	es := handles(n)
	for i, e := range es {
		_, err := set.Attach(e, Health{Current: i})
		assert.NilError(t, err)
	}

	rng := rand.New(rand.NewSource(42))
	present := make(map[Entity]int, n)
	for i, e := range es {
		present[e] = i
	}
	for _, i := range rng.Perm(n)[:n/2] {
		assert.NilError(t, set.Detach(es[i]))
		delete(present, es[i])

		for e, want := range present {
			got, err := set.Get(e)
			assert.NilError(t, err)
			assert.Equal(t, got.Current, want)
		}
		assertDenseInvariant(t, set)
	}
	assert.Equal(t, set.Size(), n/2)
}

func TestSparseSetStaleGeneration(t *testing.T) {
	set := FactoryNewSparseSet[Position](PolicyReject)
	old := Entity{index: 1, generation: 0}
	newer := Entity{index: 1, generation: 1}

	_, err := set.Attach(old, Position{X: 1})
	assert.NilError(t, err)
	assert.Assert(t, !set.Contains(newer))
	_, err = set.Get(newer)
	assert.ErrorIs(t, err, ErrNotPresent)

	// The slot is rebound to the newer handle
	_, err = set.Attach(newer, Position{X: 2})
	assert.NilError(t, err)
	assert.Assert(t, set.Contains(newer))
	assert.Assert(t, !set.Contains(old))
	assert.Equal(t, set.Size(), 1)
	assertDenseInvariant(t, set)
}

func TestSparseSetSwap(t *testing.T) {
	set := FactoryNewSparseSet[Position](PolicyReplace)
	es := handles(4)
	for i, e := range es {
		_, err := set.Attach(e, Position{X: float64(i)})
		assert.NilError(t, err)
	}
	version := set.Version()

	set.Swap(0, 3)
	set.Swap(1, 1)

	assert.DeepEqual(t, set.Entities(), []Entity{es[3], es[1], es[2], es[0]}, cmpEntity)
	got, err := set.Get(es[0])
	assert.NilError(t, err)
	assert.Equal(t, got.X, 0.0)
	assert.Assert(t, set.Version() != version)
	assertDenseInvariant(t, set)
}

func TestSparseSetSort(t *testing.T) {
	set := FactoryNewSparseSet[Health](PolicyReplace)
	values := []int{5, 3, 9, 1, 7}
	es := handles(len(values))
	for i, e := range es {
		_, err := set.Attach(e, Health{Current: values[i]})
		assert.NilError(t, err)
	}

	set.Sort(func(a, b *Health) bool { return a.Current < b.Current })

	var sorted []int
	for _, v := range set.Values() {
		sorted = append(sorted, v.Current)
	}
	assert.DeepEqual(t, sorted, []int{1, 3, 5, 7, 9})
	for i, e := range es {
		got, err := set.Get(e)
		assert.NilError(t, err)
		assert.Equal(t, got.Current, values[i])
	}
	assertDenseInvariant(t, set)

	set.SortByEntity(func(a, b Entity) bool { return a.index > b.index })
	assert.DeepEqual(t, set.Entities(), []Entity{es[4], es[3], es[2], es[1], es[0]}, cmpEntity)
	assertDenseInvariant(t, set)
}

func TestSparseSetRespect(t *testing.T) {
	es := handles(6)
	positions := FactoryNewSparseSet[Position](PolicyReplace)
	velocities := FactoryNewSparseSet[Velocity](PolicyReplace)

	for _, i := range []int{0, 1, 2, 3, 4} {
		_, err := positions.Attach(es[i], Position{})
		assert.NilError(t, err)
	}
	for _, i := range []int{4, 5, 2, 0} {
		_, err := velocities.Attach(es[i], Velocity{})
		assert.NilError(t, err)
	}

	positions.Respect(velocities)

	assert.DeepEqual(t, positions.Entities()[:3], []Entity{es[4], es[2], es[0]}, cmpEntity)
	assert.Equal(t, positions.Size(), 5)
	assertDenseInvariant(t, positions)
}

func TestSparseSetClearAndAll(t *testing.T) {
	set := FactoryNewSparseSet[Position](PolicyReplace)
	es := handles(3)
	for i, e := range es {
		_, err := set.Attach(e, Position{X: float64(i)})
		assert.NilError(t, err)
	}

	var visited []Entity
	for e, p := range set.All() {
		visited = append(visited, e)
		p.Y = 1
	}
	assert.DeepEqual(t, visited, es, cmpEntity)
	for _, v := range set.Values() {
		assert.Equal(t, v.Y, 1.0)
	}

	set.Clear()
	assert.Assert(t, set.Empty())
	for _, e := range es {
		assert.Assert(t, !set.Contains(e))
	}

	_, err := set.Attach(es[2], Position{})
	assert.NilError(t, err)
	assertDenseInvariant(t, set)
}

func TestSparseSetReserve(t *testing.T) {
	set := FactoryNewSparseSet[Position](PolicyReplace)
	set.Reserve(128)
	assert.Assert(t, cap(set.dense) >= 128)
	assert.Assert(t, cap(set.entities) >= 128)
	assert.Assert(t, set.Empty())
}

func TestSparseSetOlderGenerationCannotRebind(t *testing.T) {
	set := FactoryNewSparseSet[Position](PolicyReplace)
	older := Entity{index: 1, generation: 2}
	newer := Entity{index: 1, generation: 3}

	_, err := set.Attach(newer, Position{X: 3})
	assert.NilError(t, err)
	version := set.Version()

	_, err = set.Attach(older, Position{X: 2})
	assert.ErrorIs(t, err, ErrStaleHandle)
	assert.Assert(t, set.Contains(newer))
	assert.Assert(t, !set.Contains(older))
	got, err := set.Get(newer)
	assert.NilError(t, err)
	assert.Equal(t, got.X, 3.0)
	assert.Equal(t, set.Version(), version)
	assertDenseInvariant(t, set)
}
