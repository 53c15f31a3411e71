package combat

import "github.com/udisondev/horde/internal/model"

// ColliderID identifies a hit collider on an agent body. Zero means "unknown".
type ColliderID uint32

// HitZone is the body region a hit resolves to.
type HitZone uint8

const (
	HitBody HitZone = iota
	HitHead
	HitLimb
)

func (z HitZone) String() string {
	switch z {
	case HitHead:
		return "head"
	case HitLimb:
		return "limb"
	default:
		return "body"
	}
}

// Hit-height thresholds, as fractions of ReferenceHeight above the agent base.
const (
	ReferenceHeight = 1.8
	HeadThreshold   = 0.8
	LimbThreshold   = 0.3
)

// Multipliers scale incoming damage per hit zone.
type Multipliers struct {
	Head float64
	Body float64
	Limb float64
}

// DefaultMultipliers: body hits deal base damage.
func DefaultMultipliers() Multipliers {
	return Multipliers{Head: 3, Body: 1, Limb: 0.5}
}

// For returns the multiplier for zone z.
func (m Multipliers) For(z HitZone) float64 {
	switch z {
	case HitHead:
		return m.Head
	case HitLimb:
		return m.Limb
	default:
		return m.Body
	}
}

// ResolveZone maps a hit to a zone. An exact head-collider match wins;
// otherwise the hit height relative to the agent base decides.
func ResolveZone(hitPoint, base model.Vec3, collider, headCollider ColliderID) HitZone {
	if collider != 0 && collider == headCollider {
		return HitHead
	}
	rel := (hitPoint.Y - base.Y) / ReferenceHeight
	switch {
	case rel > HeadThreshold:
		return HitHead
	case rel < LimbThreshold:
		return HitLimb
	default:
		return HitBody
	}
}
