package ai

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/udisondev/horde/internal/combat"
	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/model"
	"github.com/udisondev/horde/internal/perception"
	"github.com/udisondev/horde/internal/world"
)

// ZombieTag is the entity tag every zombie carries.
const ZombieTag = "zombie"

const (
	// disengageFactor scales attack range for the Attack -> Chase hysteresis.
	disengageFactor = 1.5
	// hitReachFactor scales attack range for the damage reach check.
	hitReachFactor = 1.2
	// arrivalDistance is how close a wanderer must get before it counts as arrived.
	arrivalDistance = 0.5
	// wanderAttempts bounds random wander point sampling per pick.
	wanderAttempts = 3
	// repathDistanceSq avoids replanning while the chase target barely moves.
	repathDistanceSq = 0.25 * 0.25
)

// ZombieDeps bundles the collaborators a Zombie is wired to.
// Nav may be nil: the zombie then reports a configuration error once and stays idle in place.
type ZombieDeps struct {
	Nav         Navigator
	Body        Body
	World       EntityLookup
	Obstruction perception.ObstructionTest
	Hooks       Hooks
	Rand        Rand
}

// Zombie is the per-agent behavior state machine. It is driven by Tick from a single
// simulation goroutine and is not safe for concurrent use.
type Zombie struct {
	handle model.Handle
	class  model.Classification
	speeds model.Speeds
	cfg    config.Agent
	senses perception.Params

	nav         Navigator
	body        Body
	world       EntityLookup
	obstruction perception.ObstructionTest
	hooks       Hooks
	rng         Rand
	health      *combat.Health

	state         model.AgentState
	running       bool
	misconfigured bool
	reported      bool

	target       model.Handle
	targetDamage world.Damageable
	lastKnown    model.Vec3
	dest         model.Vec3

	stateTimer     float64
	attackCooldown float64
	wanderCooldown float64
	giveUpTimer    float64
	ambientTimer   float64
	corpseTimer    float64

	removed  bool
	onRemove func(*Zombie)
}

// NewZombie creates a zombie in Idle. It does not act until Start is called.
func NewZombie(h model.Handle, class model.Classification, speeds model.Speeds, cfg config.Agent, deps ZombieDeps) *Zombie {
	z := &Zombie{
		handle:      h,
		class:       class,
		speeds:      speeds,
		cfg:         cfg,
		nav:         deps.Nav,
		body:        deps.Body,
		world:       deps.World,
		obstruction: deps.Obstruction,
		hooks:       deps.Hooks,
		rng:         deps.Rand,
		state:       model.StateIdle,
		senses: perception.Params{
			SightRange:   cfg.SightRange,
			SightAngle:   cfg.SightAngle,
			HearingRange: cfg.HearingRange,
			EyeHeight:    cfg.EyeHeight,
		},
	}
	if z.body == nil {
		if b, ok := deps.Nav.(Body); ok {
			z.body = b
		} else {
			z.body = &staticBody{}
		}
	}
	if z.hooks == nil {
		z.hooks = NopHooks{}
	}
	if z.rng == nil {
		z.rng = rand.New(rand.NewPCG(uint64(h.Index), uint64(h.Gen)))
	}
	z.misconfigured = z.nav == nil
	return z
}

// AttachHealth binds a health model so that hits feed aggro and death.
func (z *Zombie) AttachHealth(h *combat.Health) {
	z.health = h
	h.Bind(z, z)
}

// Health returns the bound health model, or nil.
func (z *Zombie) Health() *combat.Health { return z.health }

// SetOnRemove registers the callback fired once when the corpse is due for removal.
func (z *Zombie) SetOnRemove(fn func(*Zombie)) { z.onRemove = fn }

// Handle implements Controller.
func (z *Zombie) Handle() model.Handle { return z.handle }

// Class returns the zombie's classification.
func (z *Zombie) Class() model.Classification { return z.class }

// State implements Controller.
func (z *Zombie) State() model.AgentState { return z.state }

// Target returns the current target handle (zero when none).
func (z *Zombie) Target() model.Handle { return z.target }

// LastKnownPosition returns the last position the zombie believes its target was at.
func (z *Zombie) LastKnownPosition() model.Vec3 { return z.lastKnown }

// Position implements Controller and world.Entity.
func (z *Zombie) Position() model.Vec3 { return z.body.Position() }

// HasTag implements world.Entity.
func (z *Zombie) HasTag(tag string) bool { return tag == ZombieTag }

// IsDead implements world.Mortal.
func (z *Zombie) IsDead() bool { return z.state == model.StateDead }

// TakeDamage implements world.Damageable. Untyped damage counts as a body hit.
func (z *Zombie) TakeDamage(amount float64, attacker model.Handle) {
	if z.health == nil {
		return
	}
	hit := z.Position().Add(model.V(0, combat.ReferenceHeight*0.5, 0))
	z.health.ApplyDamage(amount, hit, 0, attacker)
}

// Start implements Controller.
func (z *Zombie) Start() {
	z.running = true
	if z.misconfigured {
		if !z.reported {
			z.reported = true
			slog.Error("zombie has no navigator, staying idle in place",
				"agent", z.handle,
				"class", z.class)
		}
		return
	}
	z.ambientTimer = z.randRange(z.cfg.AmbientMin, z.cfg.AmbientMax)
	if z.state == model.StateIdle {
		z.enterState(model.StateIdle)
	}
}

// Stop implements Controller.
func (z *Zombie) Stop() {
	z.running = false
	z.clearTarget()
}

// Tick implements Controller.
func (z *Zombie) Tick(dt float64) {
	if !z.running {
		return
	}
	if z.state == model.StateDead {
		z.tickCorpse(dt)
		return
	}
	if z.misconfigured {
		return
	}

	z.stateTimer -= dt
	z.attackCooldown -= dt
	z.ambientTimer -= dt
	if z.ambientTimer <= 0 {
		z.hooks.AmbientSound(z.handle, z.state)
		z.ambientTimer = z.randRange(z.cfg.AmbientMin, z.cfg.AmbientMax)
	}

	if z.state != model.StateAttack {
		z.perceive()
	}

	switch z.state {
	case model.StateIdle:
		if z.stateTimer <= 0 {
			z.enterState(model.StateWander)
		}
	case model.StateWander:
		z.updateWander(dt)
	case model.StateAlert:
		z.updateAlert()
	case model.StateChase:
		z.updateChase(dt)
	case model.StateAttack:
		z.updateAttack()
	}
}

// OnDamaged implements combat.AggroReceiver: a non-fatal hit from a known
// attacker turns an unengaged zombie on it.
func (z *Zombie) OnDamaged(attacker model.Handle) {
	if !z.running || z.misconfigured || z.state == model.StateDead || z.state.IsEngaged() {
		return
	}
	if z.world == nil {
		return
	}
	e, ok := z.world.Resolve(attacker)
	if !ok {
		return
	}
	z.acquire(attacker, e)
}

// OnAlertHeard implements Controller.
func (z *Zombie) OnAlertHeard(origin model.Vec3, effectiveRange float64) bool {
	if !z.running || z.misconfigured || z.state == model.StateDead || z.state.IsEngaged() {
		return false
	}
	z.lastKnown = origin
	z.enterState(model.StateAlert)
	z.moveTo(origin)
	if IsDebugEnabled() {
		slog.Debug("alert heard",
			"agent", z.handle,
			"origin", origin,
			"range", effectiveRange)
	}
	return true
}

// Die implements combat.DeathReceiver. Repeated calls are no-ops.
func (z *Zombie) Die() {
	if z.state == model.StateDead {
		return
	}
	prev := z.state
	z.state = model.StateDead
	z.clearTarget()
	if z.nav != nil {
		z.nav.ResetPath()
		z.nav.SetStopped(true)
	}
	z.corpseTimer = z.cfg.CorpseLifetime
	z.hooks.StateEntered(z.handle, prev, model.StateDead)
	z.hooks.Died(z.handle)
	slog.Debug("zombie died", "agent", z.handle, "class", z.class, "from", prev)
}

// Remove fires the removal callback once. Despawn uses it directly; dead
// zombies reach it when the corpse timer runs out.
func (z *Zombie) Remove() {
	if z.removed {
		return
	}
	z.removed = true
	if z.onRemove != nil {
		z.onRemove(z)
	}
}

// Removed reports whether Remove has fired.
func (z *Zombie) Removed() bool { return z.removed }

// Status implements Controller.
func (z *Zombie) Status() AgentStatus {
	s := AgentStatus{
		ID:       z.handle.String(),
		State:    z.state.String(),
		Class:    z.class.String(),
		Position: z.Position(),
	}
	if z.health != nil {
		s.Health = z.health.Current()
	}
	if !z.target.IsZero() {
		s.Target = z.target.String()
	}
	return s
}

func (z *Zombie) tickCorpse(dt float64) {
	if z.removed {
		return
	}
	z.corpseTimer -= dt
	if z.corpseTimer <= 0 {
		z.Remove()
	}
}

// perceive acquires the first live hostile the zombie can see or hear.
func (z *Zombie) perceive() {
	if z.world == nil {
		return
	}
	pose := perception.Pose{Position: z.body.Position(), Forward: z.body.Forward()}
	for _, c := range z.world.WithTag(z.cfg.HostileTag) {
		if !world.IsAlive(c.Entity) {
			continue
		}
		det := perception.Sense(pose, c.Entity.Position(), z.senses, z.obstruction)
		if det == perception.DetectNone {
			continue
		}
		if IsDebugEnabled() && c.Handle != z.target {
			slog.Debug("target detected",
				"agent", z.handle,
				"target", c.Handle,
				"by", det)
		}
		z.acquire(c.Handle, c.Entity)
		return
	}
}

func (z *Zombie) acquire(h model.Handle, e world.Entity) {
	z.target = h
	z.targetDamage, _ = e.(world.Damageable)
	z.lastKnown = e.Position()
	z.giveUpTimer = 0
	if !z.state.IsEngaged() {
		z.enterState(model.StateChase)
	}
}

func (z *Zombie) clearTarget() {
	z.target = model.Handle{}
	z.targetDamage = nil
	z.giveUpTimer = 0
}

// resolveTarget returns the target entity if it is still valid and alive.
func (z *Zombie) resolveTarget() (world.Entity, bool) {
	if z.target.IsZero() || z.world == nil {
		return nil, false
	}
	e, ok := z.world.Resolve(z.target)
	if !ok || !world.IsAlive(e) {
		return nil, false
	}
	return e, true
}

// loseTarget drops the target and investigates its last known position.
func (z *Zombie) loseTarget(reason string) {
	if IsDebugEnabled() {
		slog.Debug("target lost", "agent", z.handle, "target", z.target, "reason", reason)
	}
	z.clearTarget()
	z.enterState(model.StateAlert)
	z.moveTo(z.lastKnown)
}

func (z *Zombie) updateWander(dt float64) {
	if z.nav.HasPath() && z.nav.RemainingDistance() >= arrivalDistance {
		return
	}
	z.wanderCooldown -= dt
	if z.wanderCooldown > 0 {
		return
	}
	z.wanderCooldown = max(z.cfg.WanderWait+z.randRange(-z.cfg.WanderJitter, z.cfg.WanderJitter), 0)

	origin := z.body.Position()
	for range wanderAttempts {
		angle := z.rng.Float64() * 2 * math.Pi
		dist := math.Sqrt(z.rng.Float64()) * z.cfg.WanderRadius
		cand := origin.Add(model.V(math.Cos(angle)*dist, 0, math.Sin(angle)*dist))
		p, ok := z.nav.SampleValidPosition(cand, z.cfg.WanderRadius)
		if !ok {
			continue
		}
		if z.moveTo(p) {
			return
		}
	}
	if IsDebugEnabled() {
		slog.Debug("no wander point found", "agent", z.handle, "from", origin)
	}
}

func (z *Zombie) updateAlert() {
	z.body.FaceTowards(z.lastKnown)
	if z.stateTimer <= 0 {
		z.enterState(model.StateWander)
	}
}

func (z *Zombie) updateChase(dt float64) {
	e, ok := z.resolveTarget()
	if !ok {
		z.loseTarget("target gone")
		return
	}
	tp := e.Position()
	z.lastKnown = tp

	dist := z.body.Position().Distance(tp)
	if dist <= z.cfg.AttackRange {
		z.enterState(model.StateAttack)
		return
	}
	if dist > z.cfg.LoseInterestDistance {
		z.giveUpTimer += dt
		if z.giveUpTimer > z.cfg.LoseInterestTime {
			z.loseTarget("out of range")
			return
		}
	} else {
		z.giveUpTimer = 0
	}

	if z.nav.HasPath() && tp.DistanceSquared(z.dest) < repathDistanceSq {
		return
	}
	z.moveTo(tp)
}

func (z *Zombie) updateAttack() {
	e, ok := z.resolveTarget()
	if !ok {
		z.loseTarget("target gone")
		return
	}
	tp := e.Position()
	z.lastKnown = tp
	z.body.FaceTowards(tp)

	dist := z.body.Position().Distance(tp)
	if dist > z.cfg.AttackRange*disengageFactor {
		z.nav.SetStopped(false)
		z.enterState(model.StateChase)
		return
	}
	if z.attackCooldown <= 0 {
		z.performAttack(dist)
		z.attackCooldown = z.cfg.AttackCooldown
	}
}

func (z *Zombie) performAttack(dist float64) {
	z.hooks.Attacked(z.handle, z.target)
	if z.targetDamage == nil || dist > z.cfg.AttackRange*hitReachFactor {
		return
	}
	z.targetDamage.TakeDamage(z.cfg.AttackDamage, z.handle)
	if IsDebugEnabled() {
		slog.Debug("zombie hit target",
			"agent", z.handle,
			"target", z.target,
			"damage", z.cfg.AttackDamage)
	}
}

// moveTo orders the navigator to pos. Orders are only issued while on a surface.
func (z *Zombie) moveTo(pos model.Vec3) bool {
	if !z.nav.IsOnSurface() {
		return false
	}
	if !z.nav.SetDestination(pos) {
		if IsDebugEnabled() {
			slog.Debug("destination rejected", "agent", z.handle, "to", pos)
		}
		return false
	}
	z.dest = pos
	return true
}

func (z *Zombie) enterState(next model.AgentState) {
	prev := z.state
	z.state = next

	switch next {
	case model.StateIdle:
		z.nav.ResetPath()
		z.nav.SetStopped(false)
		z.nav.SetSpeed(z.speeds.Walk)
		z.stateTimer = z.randRange(z.cfg.IdleMin, z.cfg.IdleMax)
	case model.StateWander:
		z.nav.SetSpeed(z.speeds.Walk)
		z.nav.SetStopped(false)
		z.wanderCooldown = 0
	case model.StateAlert:
		z.nav.SetSpeed(z.speeds.Walk)
		z.nav.SetStopped(false)
		z.stateTimer = z.cfg.AlertDuration
	case model.StateChase:
		z.nav.SetSpeed(z.speeds.Run)
		z.nav.SetStopped(false)
		z.giveUpTimer = 0
	case model.StateAttack:
		z.nav.SetStopped(true)
		z.attackCooldown = z.cfg.InitialAttackDelay
	}

	z.hooks.StateEntered(z.handle, prev, next)
	if IsDebugEnabled() {
		slog.Debug("state changed",
			"agent", z.handle,
			"from", prev,
			"to", next)
	}
}

func (z *Zombie) randRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + z.rng.Float64()*(hi-lo)
}
