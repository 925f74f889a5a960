package depot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

var cmpEntity = cmp.AllowUnexported(Entity{})

var (
	posComp    = FactoryNewComponent[Position]()
	velComp    = FactoryNewComponent[Velocity]()
	healthComp = FactoryNewComponent[Health]()
	frozenComp = FactoryNewComponent[Frozen]()
)

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	reg, err := Factory.NewRegistry([]Component{posComp, velComp, healthComp, frozenComp}, opts...)
	assert.NilError(t, err)
	return reg
}

// assertDenseInvariant checks sparse[entities[i].index] == i for every packed position.
func assertDenseInvariant[T any](t *testing.T, s *SparseSet[T]) {
	t.Helper()
	assert.Equal(t, len(s.entities), len(s.dense))
	for i, e := range s.entities {
		assert.Assert(t, int(e.index) < len(s.sparse), "entity %v outside sparse table", e)
		assert.Equal(t, int(s.sparse[e.index])-1, i, "sparse entry for %v", e)
	}
}
