package spawn

import (
	"testing"

	"github.com/udisondev/horde/internal/ai"
	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/model"
	"github.com/udisondev/horde/internal/testutil"
	"github.com/udisondev/horde/internal/world"
)

// fakeFactory builds zombies on fake navigators.
type fakeFactory struct {
	world    *world.Table
	fail     error
	created  int
	released int
}

func (f *fakeFactory) Create(h model.Handle, class model.Classification, pos model.Vec3) (*ai.Zombie, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.created++
	return ai.NewZombie(h, class, testutil.WalkerSpeeds, testutil.AgentConfig(), ai.ZombieDeps{
		Nav:   testutil.NewFakeNavigator(pos),
		World: f.world,
		Rand:  testutil.FixedRand{Value: 0.5},
	}), nil
}

func (f *fakeFactory) Release(*ai.Zombie) { f.released++ }

// surfaceFunc adapts a function to Surface.
type surfaceFunc func(near model.Vec3, maxRadius float64) (model.Vec3, bool)

func (fn surfaceFunc) SampleValidPosition(near model.Vec3, maxRadius float64) (model.Vec3, bool) {
	return fn(near, maxRadius)
}

// flatSurface accepts every candidate, projected to the floor.
var flatSurface = surfaceFunc(func(near model.Vec3, _ float64) (model.Vec3, bool) {
	return model.V(near.X, 0, near.Z), true
})

type spawnRig struct {
	table   *world.Table
	agents  *ai.Manager
	factory *fakeFactory
	player  *world.Actor
	playerH model.Handle
	mgr     *Manager
}

type rigOptions struct {
	population config.Population
	surface    Surface
	rand       Rand
}

func newSpawnRig(t testing.TB, playerPos model.Vec3, opts ...func(*rigOptions)) *spawnRig {
	t.Helper()

	o := rigOptions{
		population: config.Population{MaxAgents: 100, PlacementRetries: 10, SurfaceTolerance: 1},
		surface:    flatSurface,
		rand:       testutil.FixedRand{Value: 0.5},
	}
	for _, fn := range opts {
		fn(&o)
	}

	r := &spawnRig{
		table:  world.NewTable(),
		agents: ai.NewManager(testutil.AlertConfig()),
		player: world.NewActor(playerPos, 0, testutil.HostileTag),
	}
	r.factory = &fakeFactory{world: r.table}
	r.playerH = r.table.Insert(r.player)
	r.mgr = NewManager(o.population, Deps{
		World:     r.table,
		Agents:    r.agents,
		Factory:   r.factory,
		Surface:   o.surface,
		Rand:      o.rand,
		PlayerTag: testutil.HostileTag,
	})
	return r
}

func withMaxAgents(n int) func(*rigOptions) {
	return func(o *rigOptions) { o.population.MaxAgents = n }
}

// testPoint is a disc of radius 5 at the origin spawning exactly 3 agents
// while the player is 10..40 units away.
func testPoint() model.SpawnPoint {
	return model.SpawnPoint{
		ID:                1,
		Shape:             model.AreaDisc,
		Radius:            5,
		MinCount:          3,
		MaxCount:          3,
		MinPlayerDistance: 10,
		MaxPlayerDistance: 40,
		DespawnDistance:   60,
		RespawnTime:       30,
	}
}

func (r *spawnRig) addPoint(t testing.TB, def model.SpawnPoint) *Point {
	t.Helper()
	p, err := r.mgr.AddPoint(def)
	if err != nil {
		t.Fatalf("AddPoint() error = %v", err)
	}
	return p
}
