package spawn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/horde/internal/model"
	"github.com/udisondev/horde/internal/testutil"
)

// staticRepo implements SpawnPointRepository for tests.
type staticRepo struct {
	points []model.SpawnPoint
	err    error
}

func (r staticRepo) LoadAll(context.Context) ([]model.SpawnPoint, error) {
	return r.points, r.err
}

func TestManager_LoadPoints(t *testing.T) {
	r := newSpawnRig(t, model.V(0, 0, 20))
	second := testPoint()
	second.ID = 2
	second.Origin = model.V(100, 0, 0)

	err := r.mgr.LoadPoints(context.Background(), staticRepo{points: []model.SpawnPoint{testPoint(), second}})

	require.NoError(t, err)
	assert.Equal(t, 2, r.mgr.PointCount())
	assert.Equal(t, int64(2), r.mgr.Points()[1].ID())
}

func TestManager_LoadPointsErrors(t *testing.T) {
	r := newSpawnRig(t, model.V(0, 0, 20))

	err := r.mgr.LoadPoints(context.Background(), staticRepo{err: testutil.ErrSimulated})
	assert.ErrorIs(t, err, testutil.ErrSimulated)

	bad := testPoint()
	bad.MaxCount = 1 // below min
	err = r.mgr.LoadPoints(context.Background(), staticRepo{points: []model.SpawnPoint{bad}})
	assert.Error(t, err)
	assert.Zero(t, r.mgr.PointCount())
}

func TestManager_InitialSpawnDelay(t *testing.T) {
	r := newSpawnRig(t, model.V(0, 0, 20), func(o *rigOptions) {
		o.population.InitialSpawnDelay = 2 * time.Second
	})
	p := r.addPoint(t, testPoint())

	r.mgr.Tick(1)
	assert.Zero(t, p.Live(), "still waiting")

	r.mgr.Tick(1.5)
	assert.Equal(t, 3, p.Live())
}

func TestManager_DespawnAll(t *testing.T) {
	r := newSpawnRig(t, model.V(0, 0, 20))
	p := r.addPoint(t, testPoint())
	r.mgr.Tick(0.1)
	_, err := r.mgr.SpawnAt(model.V(30, 0, 30), model.Runner)
	require.NoError(t, err)
	require.Equal(t, 4, r.mgr.LiveCount())

	r.mgr.DespawnAll()

	assert.Zero(t, r.mgr.LiveCount())
	assert.Zero(t, p.Live())
	assert.Equal(t, 1, r.table.Count())
	assert.Equal(t, 4, r.factory.released)

	st := r.mgr.Stats()
	assert.Equal(t, int64(4), st.Spawned)
	assert.Equal(t, int64(4), st.Despawned)
}

func TestManager_RemovalRunsOnce(t *testing.T) {
	r := newSpawnRig(t, model.V(0, 0, 20))
	z, err := r.mgr.SpawnAt(model.V(30, 0, 30), model.Walker)
	require.NoError(t, err)

	z.Die()
	r.agents.TickAll(11)
	z.Remove()
	r.mgr.DespawnAll()

	assert.Equal(t, 1, r.factory.released)
	assert.Equal(t, int64(1), r.mgr.Stats().Despawned)
	_, ok := r.table.Resolve(z.Handle())
	assert.False(t, ok, "handle goes stale after removal")
}

func TestManager_SpawnAtOffSurface(t *testing.T) {
	r := newSpawnRig(t, model.V(0, 0, 20), func(o *rigOptions) {
		o.surface = surfaceFunc(func(model.Vec3, float64) (model.Vec3, bool) { return model.Vec3{}, false })
	})

	_, err := r.mgr.SpawnAt(model.V(1, 0, 1), model.Walker)

	assert.Error(t, err)
	assert.Zero(t, r.mgr.LiveCount())
}

func BenchmarkPoint_SpawnDespawn(b *testing.B) {
	r := newSpawnRig(b, model.V(0, 0, 20))
	def := testPoint()
	def.MinCount, def.MaxCount = 20, 20
	p := r.addPoint(b, def)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		p.TryInitialSpawn()
		p.DespawnAll()
	}
}
