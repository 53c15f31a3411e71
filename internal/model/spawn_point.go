package model

import (
	"errors"
	"fmt"
)

// AreaShape selects how spawn candidates are sampled around a spawn point origin.
type AreaShape uint8

const (
	AreaDisc AreaShape = iota
	AreaBox
)

func (s AreaShape) String() string {
	if s == AreaBox {
		return "box"
	}
	return "disc"
}

// ParseAreaShape parses an area shape name. Empty means disc.
func ParseAreaShape(s string) (AreaShape, error) {
	switch s {
	case "", "disc":
		return AreaDisc, nil
	case "box":
		return AreaBox, nil
	default:
		return 0, fmt.Errorf("unknown area shape %q", s)
	}
}

// SpawnPoint is the level-placement definition of a spawn point.
// Runtime state (live agents, timers) lives in spawn.Point.
type SpawnPoint struct {
	ID     int64
	Origin Vec3
	Shape  AreaShape
	Radius float64 // AreaDisc
	Extent Vec3    // AreaBox half extents (Y ignored)

	MinCount int
	MaxCount int

	MinPlayerDistance float64
	MaxPlayerDistance float64
	DespawnDistance   float64

	RespawnTime float64 // seconds; 0 disables respawn

	BlockerTag       string
	BlockCheckRadius float64

	Classes []Classification // empty = any
}

// Validate checks definition consistency.
func (p SpawnPoint) Validate() error {
	var errs []error
	if p.MinCount < 0 || p.MaxCount < p.MinCount {
		errs = append(errs, fmt.Errorf("count range [%d,%d] invalid", p.MinCount, p.MaxCount))
	}
	if p.MinPlayerDistance < 0 || p.MaxPlayerDistance < p.MinPlayerDistance {
		errs = append(errs, fmt.Errorf("player distance window [%g,%g] invalid", p.MinPlayerDistance, p.MaxPlayerDistance))
	}
	if p.DespawnDistance > 0 && p.DespawnDistance < p.MaxPlayerDistance {
		errs = append(errs, fmt.Errorf("despawn distance %g below max player distance %g", p.DespawnDistance, p.MaxPlayerDistance))
	}
	if p.Shape == AreaDisc && p.Radius < 0 {
		errs = append(errs, fmt.Errorf("negative radius %g", p.Radius))
	}
	if p.RespawnTime < 0 {
		errs = append(errs, fmt.Errorf("negative respawn time %g", p.RespawnTime))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("spawn point %d: %w", p.ID, err)
	}
	return nil
}
