// Package perception decides whether an agent can detect a target.
// Every function here is pure: identical inputs give identical results.
package perception

import "github.com/udisondev/horde/internal/model"

// DefaultEyeHeight is the eye offset above the agent base used for sight probes.
const DefaultEyeHeight = 1.6

// ProximityFraction is the share of the hearing range inside which a target is
// detected by footsteps, regardless of facing or obstruction.
const ProximityFraction = 0.5

// Pose is an agent position and facing.
type Pose struct {
	Position model.Vec3
	Forward  model.Vec3
}

// ObstructionTest is the line-of-sight probe.
// LineOfSight returns true when nothing blocks the straight segment.
type ObstructionTest interface {
	LineOfSight(from, to model.Vec3) bool
}

// Detection tells which sense fired.
type Detection uint8

const (
	DetectNone Detection = iota
	DetectSight
	DetectHearing
)

func (d Detection) String() string {
	switch d {
	case DetectSight:
		return "sight"
	case DetectHearing:
		return "hearing"
	default:
		return "none"
	}
}

// Params are the per-agent sense tunables.
type Params struct {
	SightRange   float64
	SightAngle   float64 // full cone angle, degrees
	HearingRange float64
	EyeHeight    float64
}

// CanSeeTarget reports whether target is inside the sight cone and range
// and a probe from eye height reaches it unobstructed.
// A nil obstruction skips the probe (open-world fallback).
func CanSeeTarget(pose Pose, target model.Vec3, sightRangeSq, halfSightAngleDeg, eyeHeight float64, obstruction ObstructionTest) bool {
	toTarget := target.Sub(pose.Position)
	if toTarget.LengthSquared() > sightRangeSq {
		return false
	}
	if pose.Forward.AngleDeg(toTarget) >= halfSightAngleDeg {
		return false
	}
	if obstruction == nil {
		return true
	}
	eye := pose.Position.Add(model.V(0, eyeHeight, 0))
	return obstruction.LineOfSight(eye, target)
}

// CanHearProximity reports whether a target at squared distance distanceSq
// is close enough to be heard (within hearingRange * ProximityFraction).
func CanHearProximity(distanceSq, hearingRange float64) bool {
	r := hearingRange * ProximityFraction
	return distanceSq <= r*r
}

// Sense runs sight then proximity hearing. Sight wins when both fire.
func Sense(pose Pose, target model.Vec3, p Params, obstruction ObstructionTest) Detection {
	half := p.SightAngle / 2
	if CanSeeTarget(pose, target, p.SightRange*p.SightRange, half, p.EyeHeight, obstruction) {
		return DetectSight
	}
	if CanHearProximity(pose.Position.DistanceSquared(target), p.HearingRange) {
		return DetectHearing
	}
	return DetectNone
}
