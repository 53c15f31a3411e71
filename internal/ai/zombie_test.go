package ai

import (
	"testing"

	"github.com/udisondev/horde/internal/combat"
	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/model"
	"github.com/udisondev/horde/internal/testutil"
	"github.com/udisondev/horde/internal/world"
)

// zombieRig wires one zombie to a fake navigator and an entity table.
type zombieRig struct {
	table *world.Table
	nav   *testutil.FakeNavigator
	hooks *testutil.RecordingHooks
	z     *Zombie
}

func newZombieRig(t testing.TB, pos model.Vec3, tweak ...func(*config.Agent)) *zombieRig {
	t.Helper()

	cfg := testutil.AgentConfig()
	for _, fn := range tweak {
		fn(&cfg)
	}

	r := &zombieRig{
		table: world.NewTable(),
		nav:   testutil.NewFakeNavigator(pos),
		hooks: &testutil.RecordingHooks{},
	}
	h := r.table.Reserve()
	r.z = NewZombie(h, model.Walker, testutil.WalkerSpeeds, cfg, ZombieDeps{
		Nav:   r.nav,
		Body:  r.nav,
		World: r.table,
		Hooks: r.hooks,
		Rand:  testutil.FixedRand{Value: 0.5},
	})
	if err := r.table.Attach(h, r.z); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	r.z.Start()
	return r
}

func (r *zombieRig) addPlayer(pos model.Vec3) (model.Handle, *world.Actor) {
	p := world.NewActor(pos, 100, testutil.HostileTag)
	return r.table.Insert(p), p
}

// chase puts the zombie into Chase on a player straight ahead.
func (r *zombieRig) chase(t *testing.T, pos model.Vec3) (model.Handle, *world.Actor) {
	t.Helper()
	h, p := r.addPlayer(pos)
	r.z.Tick(0.1)
	if r.z.State() != model.StateChase {
		t.Fatalf("State() = %v, want CHASE", r.z.State())
	}
	return h, p
}

type blockedView struct{}

func (blockedView) LineOfSight(_, _ model.Vec3) bool { return false }

func TestZombie_IdleThenWander(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))

	if r.z.State() != model.StateIdle {
		t.Fatalf("initial State() = %v, want IDLE", r.z.State())
	}

	r.z.Tick(1)
	if r.z.State() != model.StateIdle {
		t.Errorf("State() after 1s = %v, want IDLE", r.z.State())
	}

	r.z.Tick(1.5)
	if r.z.State() != model.StateWander {
		t.Fatalf("State() after 2.5s = %v, want WANDER", r.z.State())
	}
	if r.nav.Speed() != testutil.WalkerSpeeds.Walk {
		t.Errorf("Speed() = %v, want walk speed %v", r.nav.Speed(), testutil.WalkerSpeeds.Walk)
	}

	r.z.Tick(0.1)
	if !r.nav.HasPath() {
		t.Error("wandering zombie should have picked a destination")
	}
	dest, _ := r.nav.LastDestination()
	if d := dest.Distance(model.V(0, 0, 0)); d > testutil.AgentConfig().WanderRadius {
		t.Errorf("wander point %v is %.2f away, want within wander radius", dest, d)
	}
}

func TestZombie_WanderWaitsAfterArrival(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))

	r.z.Tick(2.1) // idle -> wander
	r.z.Tick(0.1) // first pick
	if got := len(r.nav.Destinations); got != 1 {
		t.Fatalf("destinations after first pick = %d, want 1", got)
	}

	r.nav.Arrive()
	r.z.Tick(1)
	if got := len(r.nav.Destinations); got != 1 {
		t.Errorf("destinations during wait = %d, want 1", got)
	}

	r.z.Tick(3.5)
	if got := len(r.nav.Destinations); got != 2 {
		t.Errorf("destinations after wait = %d, want 2", got)
	}
}

func TestZombie_WanderNoValidPoint(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	r.nav.SampleFails = true

	r.z.Tick(2.1)
	r.z.Tick(0.1)

	if r.z.State() != model.StateWander {
		t.Errorf("State() = %v, want WANDER", r.z.State())
	}
	if len(r.nav.Destinations) != 0 {
		t.Errorf("destinations = %d, want 0", len(r.nav.Destinations))
	}
}

func TestZombie_SightAcquiresTarget(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	h, _ := r.addPlayer(model.V(0, 0, 10))

	r.z.Tick(0.1)

	if r.z.State() != model.StateChase {
		t.Fatalf("State() = %v, want CHASE", r.z.State())
	}
	if r.z.Target() != h {
		t.Errorf("Target() = %v, want %v", r.z.Target(), h)
	}
	if r.nav.Speed() != testutil.WalkerSpeeds.Run {
		t.Errorf("Speed() = %v, want run speed %v", r.nav.Speed(), testutil.WalkerSpeeds.Run)
	}
	dest, ok := r.nav.LastDestination()
	if !ok || dest != model.V(0, 0, 10) {
		t.Errorf("LastDestination() = %v, %v; want player position", dest, ok)
	}
}

func TestZombie_SightBlocked(t *testing.T) {
	cfg := testutil.AgentConfig()
	nav := testutil.NewFakeNavigator(model.V(0, 0, 0))
	table := world.NewTable()
	z := NewZombie(table.Reserve(), model.Walker, testutil.WalkerSpeeds, cfg, ZombieDeps{
		Nav:         nav,
		World:       table,
		Obstruction: blockedView{},
		Rand:        testutil.FixedRand{Value: 0.5},
	})
	z.Start()
	table.Insert(world.NewActor(model.V(0, 0, 10), 100, testutil.HostileTag))

	z.Tick(0.1)

	if z.State() != model.StateIdle {
		t.Errorf("State() = %v, want IDLE (view blocked)", z.State())
	}
}

func TestZombie_HearsCloseTargetBehind(t *testing.T) {
	tests := []struct {
		name string
		pos  model.Vec3
		want model.AgentState
	}{
		{"inside proximity", model.V(0, 0, -5), model.StateChase},
		{"outside proximity", model.V(0, 0, -10), model.StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newZombieRig(t, model.V(0, 0, 0))
			r.addPlayer(tt.pos)

			r.z.Tick(0.1)

			if r.z.State() != tt.want {
				t.Errorf("State() = %v, want %v", r.z.State(), tt.want)
			}
		})
	}
}

func TestZombie_IgnoresDeadHostiles(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	_, p := r.addPlayer(model.V(0, 0, 5))
	p.TakeDamage(1000, model.Handle{})

	r.z.Tick(0.1)

	if r.z.State() != model.StateIdle {
		t.Errorf("State() = %v, want IDLE", r.z.State())
	}
}

func TestZombie_ChaseToAttack(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	h, p := r.addPlayer(model.V(0, 0, 1))

	r.z.Tick(0.1)
	if r.z.State() != model.StateAttack {
		t.Fatalf("State() = %v, want ATTACK", r.z.State())
	}
	if !r.nav.Stopped() {
		t.Error("movement should be suspended while attacking")
	}

	r.z.Tick(0.3)
	if r.hooks.AttackCount() != 0 {
		t.Fatalf("attacked before initial delay elapsed")
	}

	r.z.Tick(0.3)
	if r.hooks.AttackCount() != 1 {
		t.Fatalf("AttackCount() = %d, want 1", r.hooks.AttackCount())
	}
	if r.hooks.Attacks[0] != h {
		t.Errorf("attack target = %v, want %v", r.hooks.Attacks[0], h)
	}
	if p.Health() != 90 {
		t.Errorf("player Health() = %v, want 90", p.Health())
	}
	if p.LastAttacker() != r.z.Handle() {
		t.Errorf("LastAttacker() = %v, want %v", p.LastAttacker(), r.z.Handle())
	}

	// cooldown 1.5s
	r.z.Tick(1.0)
	if r.hooks.AttackCount() != 1 {
		t.Errorf("AttackCount() during cooldown = %d, want 1", r.hooks.AttackCount())
	}
	r.z.Tick(0.6)
	if r.hooks.AttackCount() != 2 {
		t.Errorf("AttackCount() after cooldown = %d, want 2", r.hooks.AttackCount())
	}
}

func TestZombie_AttackHysteresis(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	_, p := r.addPlayer(model.V(0, 0, 1))
	r.z.Tick(0.1)
	if r.z.State() != model.StateAttack {
		t.Fatalf("State() = %v, want ATTACK", r.z.State())
	}

	// between attack range and 1.5x: still attacking, swings but out of reach
	p.SetPosition(model.V(0, 0, 2.0))
	r.z.Tick(1)
	if r.z.State() != model.StateAttack {
		t.Fatalf("State() at 2.0 = %v, want ATTACK", r.z.State())
	}
	if r.hooks.AttackCount() != 1 {
		t.Errorf("AttackCount() = %d, want 1", r.hooks.AttackCount())
	}
	if p.Health() != 100 {
		t.Errorf("player Health() = %v, want 100 (beyond hit reach)", p.Health())
	}

	p.SetPosition(model.V(0, 0, 2.3))
	r.z.Tick(0.1)
	if r.z.State() != model.StateChase {
		t.Fatalf("State() at 2.3 = %v, want CHASE", r.z.State())
	}
	if r.nav.Stopped() {
		t.Error("movement should resume when leaving ATTACK")
	}
}

func TestZombie_AttackFacesTarget(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	_, p := r.addPlayer(model.V(0, 0, 1))
	r.z.Tick(0.1)

	p.SetPosition(model.V(1, 0, 0))
	r.z.Tick(0.1)

	if f := r.nav.Forward(); f.Distance(model.V(1, 0, 0)) > 1e-9 {
		t.Errorf("Forward() = %v, want (1,0,0)", f)
	}
}

func TestZombie_LoseInterest(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	_, p := r.chase(t, model.V(0, 0, 10))

	p.SetPosition(model.V(0, 0, 35))
	r.z.Tick(2)
	r.z.Tick(2)
	if r.z.State() != model.StateChase {
		t.Fatalf("State() after 4s out of range = %v, want CHASE", r.z.State())
	}

	// back under the threshold resets the accumulator
	p.SetPosition(model.V(0, 0, 25))
	r.z.Tick(0.1)

	p.SetPosition(model.V(0, 0, 35))
	r.z.Tick(2)
	r.z.Tick(2)
	if r.z.State() != model.StateChase {
		t.Fatalf("State() = %v, want CHASE (timer should have reset)", r.z.State())
	}

	r.z.Tick(2)
	if r.z.State() != model.StateAlert {
		t.Fatalf("State() after 6s out of range = %v, want ALERT", r.z.State())
	}
	if !r.z.Target().IsZero() {
		t.Errorf("Target() = %v, want none", r.z.Target())
	}
	dest, _ := r.nav.LastDestination()
	if dest != model.V(0, 0, 35) {
		t.Errorf("LastDestination() = %v, want last known position", dest)
	}
}

func TestZombie_TargetRemoved(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	h, _ := r.chase(t, model.V(0, 0, 10))

	r.table.Remove(h)
	r.z.Tick(0.1)

	if r.z.State() != model.StateAlert {
		t.Fatalf("State() = %v, want ALERT", r.z.State())
	}
	if !r.z.Target().IsZero() {
		t.Errorf("Target() = %v, want none", r.z.Target())
	}
	if r.z.LastKnownPosition() != model.V(0, 0, 10) {
		t.Errorf("LastKnownPosition() = %v, want (0,0,10)", r.z.LastKnownPosition())
	}
}

func TestZombie_TargetDiesDuringAttack(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	_, p := r.addPlayer(model.V(0, 0, 1))
	r.z.Tick(0.1)

	p.TakeDamage(1000, model.Handle{})
	r.z.Tick(0.1)

	if r.z.State() != model.StateAlert {
		t.Errorf("State() = %v, want ALERT", r.z.State())
	}
	if r.nav.Stopped() {
		t.Error("movement should resume after losing the target")
	}
}

func TestZombie_AlertHeard(t *testing.T) {
	r := newZombieRig(t, model.V(40, 0, 0))
	r.z.Tick(2.1)
	if r.z.State() != model.StateWander {
		t.Fatalf("State() = %v, want WANDER", r.z.State())
	}

	if !r.z.OnAlertHeard(model.V(0, 0, 0), 50) {
		t.Fatal("OnAlertHeard() = false, want true")
	}
	if r.z.State() != model.StateAlert {
		t.Fatalf("State() = %v, want ALERT", r.z.State())
	}
	dest, _ := r.nav.LastDestination()
	if dest != model.V(0, 0, 0) {
		t.Errorf("LastDestination() = %v, want alert origin", dest)
	}

	r.z.Tick(4)
	if r.z.State() != model.StateAlert {
		t.Errorf("State() after 4s = %v, want ALERT", r.z.State())
	}
	r.z.Tick(4.1)
	if r.z.State() != model.StateWander {
		t.Errorf("State() after alert duration = %v, want WANDER", r.z.State())
	}
}

func TestZombie_AlertIgnoredWhenEngaged(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	r.chase(t, model.V(0, 0, 10))

	if r.z.OnAlertHeard(model.V(50, 0, 0), 50) {
		t.Error("OnAlertHeard() = true while chasing, want false")
	}
	if r.z.State() != model.StateChase {
		t.Errorf("State() = %v, want CHASE", r.z.State())
	}
}

func TestZombie_DamageAggro(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	r.z.AttachHealth(combat.NewHealth(100, combat.DefaultMultipliers(), 0, r.z))
	h, _ := r.addPlayer(model.V(0, 0, -18)) // behind and out of earshot

	r.z.TakeDamage(20, h)

	if got := r.z.Health().Current(); got != 80 {
		t.Errorf("Health().Current() = %v, want 80", got)
	}
	if r.z.State() != model.StateChase {
		t.Fatalf("State() = %v, want CHASE", r.z.State())
	}
	if r.z.Target() != h {
		t.Errorf("Target() = %v, want attacker %v", r.z.Target(), h)
	}
}

func TestZombie_DamageFromUnknownAttacker(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	r.z.AttachHealth(combat.NewHealth(100, combat.DefaultMultipliers(), 0, r.z))

	r.z.TakeDamage(20, model.Handle{Index: 42, Gen: 3})

	if r.z.State() != model.StateIdle {
		t.Errorf("State() = %v, want IDLE", r.z.State())
	}
}

func TestZombie_BodyshotThenHeadshot(t *testing.T) {
	const headCollider combat.ColliderID = 7

	r := newZombieRig(t, model.V(0, 0, 0))
	mult := combat.Multipliers{Head: 10, Body: 1, Limb: 0.5}
	r.z.AttachHealth(combat.NewHealth(100, mult, headCollider, r.z))
	hp := r.z.Health()

	cur, dead := hp.ApplyDamage(20, model.V(0, 1.0, 0), 0, model.Handle{})
	if cur != 80 || dead {
		t.Fatalf("after bodyshot: health = %v dead = %v, want 80 false", cur, dead)
	}

	cur, dead = hp.ApplyDamage(20, model.V(0, 1.7, 0), headCollider, model.Handle{})
	if cur != 0 || !dead {
		t.Fatalf("after headshot: health = %v dead = %v, want 0 true", cur, dead)
	}
	if r.z.State() != model.StateDead {
		t.Errorf("State() = %v, want DEAD", r.z.State())
	}
	if !r.nav.Stopped() {
		t.Error("dead zombie should not move")
	}

	hp.ApplyDamage(20, model.V(0, 1.7, 0), headCollider, model.Handle{})
	r.z.Die()
	if r.hooks.Deaths != 1 {
		t.Errorf("Deaths = %d, want 1", r.hooks.Deaths)
	}
	if r.hooks.Entered(model.StateDead) != 1 {
		t.Errorf("entered DEAD %d times, want 1", r.hooks.Entered(model.StateDead))
	}
}

func TestZombie_DeadIgnoresStimuli(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	h, _ := r.addPlayer(model.V(0, 0, 5))
	r.z.Die()

	r.z.Tick(0.1)
	r.z.OnDamaged(h)
	heard := r.z.OnAlertHeard(model.V(1, 0, 1), 50)

	if heard {
		t.Error("OnAlertHeard() = true for dead zombie")
	}
	if r.z.State() != model.StateDead {
		t.Errorf("State() = %v, want DEAD", r.z.State())
	}
}

func TestZombie_CorpseRemovedOnce(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	removed := 0
	r.z.SetOnRemove(func(*Zombie) { removed++ })

	r.z.Die()
	r.z.Tick(5)
	if removed != 0 {
		t.Fatalf("removed after 5s = %d, want 0", removed)
	}
	r.z.Tick(6)
	r.z.Tick(10)
	r.z.Remove()
	if removed != 1 {
		t.Errorf("removed = %d, want exactly 1", removed)
	}
}

func TestZombie_MissingNavigator(t *testing.T) {
	table := world.NewTable()
	table.Insert(world.NewActor(model.V(0, 0, 3), 100, testutil.HostileTag))
	z := NewZombie(table.Reserve(), model.Runner, model.Speeds{Walk: 1.5, Run: 6}, testutil.AgentConfig(), ZombieDeps{
		World: table,
	})

	z.Start()
	z.Start()
	for range 50 {
		z.Tick(0.5)
	}

	if z.State() != model.StateIdle {
		t.Errorf("State() = %v, want IDLE", z.State())
	}
	if z.OnAlertHeard(model.V(1, 0, 1), 50) {
		t.Error("OnAlertHeard() = true without navigator")
	}
	if z.Position() != (model.Vec3{}) {
		t.Errorf("Position() = %v, want origin", z.Position())
	}
}

func TestZombie_MoveOrdersNeedSurface(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))
	r.nav.OnSurface = false

	r.z.OnAlertHeard(model.V(5, 0, 5), 50)

	if r.z.State() != model.StateAlert {
		t.Errorf("State() = %v, want ALERT", r.z.State())
	}
	if len(r.nav.Destinations) != 0 {
		t.Errorf("issued %d move orders off-surface, want 0", len(r.nav.Destinations))
	}
}

func TestZombie_AmbientSound(t *testing.T) {
	r := newZombieRig(t, model.V(0, 0, 0))

	r.z.Tick(4)
	r.z.Tick(4)
	if r.hooks.Ambient != 0 {
		t.Fatalf("Ambient = %d after 8s, want 0", r.hooks.Ambient)
	}
	r.z.Tick(4)
	if r.hooks.Ambient != 1 {
		t.Errorf("Ambient = %d after 12s, want 1", r.hooks.Ambient)
	}
}

func TestZombie_Status(t *testing.T) {
	r := newZombieRig(t, model.V(1, 0, 2))
	r.z.AttachHealth(combat.NewHealth(100, combat.DefaultMultipliers(), 0, r.z))
	h, _ := r.chase(t, model.V(1, 0, 12))

	s := r.z.Status()

	if s.State != "CHASE" {
		t.Errorf("Status().State = %q, want CHASE", s.State)
	}
	if s.Class != "walker" {
		t.Errorf("Status().Class = %q, want walker", s.Class)
	}
	if s.Health != 100 {
		t.Errorf("Status().Health = %v, want 100", s.Health)
	}
	if s.Target != h.String() {
		t.Errorf("Status().Target = %q, want %q", s.Target, h.String())
	}
	if s.Position != model.V(1, 0, 2) {
		t.Errorf("Status().Position = %v, want (1,0,2)", s.Position)
	}
}

func TestZombie_IsEntity(t *testing.T) {
	r := newZombieRig(t, model.V(3, 0, 4))

	e, ok := r.table.Resolve(r.z.Handle())
	if !ok {
		t.Fatal("zombie not resolvable")
	}
	if !e.HasTag(ZombieTag) || e.HasTag(testutil.HostileTag) {
		t.Error("zombie should carry only the zombie tag")
	}
	if _, ok := e.(world.Damageable); !ok {
		t.Error("zombie should be damageable")
	}
	if world.IsAlive(e) != true {
		t.Error("fresh zombie should be alive")
	}
	r.z.Die()
	if world.IsAlive(e) {
		t.Error("dead zombie should not be alive")
	}
}
