package perception

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/horde/internal/model"
)

// wall blocks every probe whose segment crosses the plane x = at.
type wall struct {
	at    float64
	calls int
}

func (w *wall) LineOfSight(from, to model.Vec3) bool {
	w.calls++
	return (from.X-w.at)*(to.X-w.at) > 0
}

func facingZ() Pose {
	return Pose{Position: model.V(0, 0, 0), Forward: model.V(0, 0, 1)}
}

func TestCanSeeTarget(t *testing.T) {
	const rangeSq = 20 * 20
	const half = 60.0

	tests := []struct {
		name   string
		target model.Vec3
		obs    ObstructionTest
		want   bool
	}{
		{"straight ahead", model.V(0, 0, 10), nil, true},
		{"out of range", model.V(0, 0, 25), nil, false},
		{"at exact range", model.V(0, 0, 20), nil, true},
		{"behind", model.V(0, 0, -5), nil, false},
		{"inside cone edge", model.V(8, 0, 10), nil, true},
		{"outside cone", model.V(10, 0, 2), nil, false},
		{"blocked by wall", model.V(5, 0, 10), &wall{at: 2}, false},
		{"wall on the other side", model.V(-5, 0, 10), &wall{at: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanSeeTarget(facingZ(), tt.target, rangeSq, half, DefaultEyeHeight, tt.obs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanSeeTarget_HalfAngle(t *testing.T) {
	// Target sits 45 degrees off forward.
	assert.False(t, CanSeeTarget(facingZ(), model.V(5, 0, 5), 100, 44, 0, nil))
	assert.True(t, CanSeeTarget(facingZ(), model.V(5, 0, 5), 100, 46, 0, nil))
}

func TestCanSeeTarget_SkipsProbeWhenConeFails(t *testing.T) {
	w := &wall{at: 100}
	CanSeeTarget(facingZ(), model.V(0, 0, -5), 400, 60, DefaultEyeHeight, w)
	CanSeeTarget(facingZ(), model.V(0, 0, 50), 400, 60, DefaultEyeHeight, w)
	assert.Equal(t, 0, w.calls, "range and cone are checked before the obstruction probe")
}

func TestCanHearProximity(t *testing.T) {
	tests := []struct {
		name   string
		distSq float64
		rng    float64
		want   bool
	}{
		{"close", 4, 10, true},
		{"exactly half range", 25, 10, true},
		{"just beyond half", 25.01, 10, false},
		{"zero range", 0.5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanHearProximity(tt.distSq, tt.rng))
		})
	}
}

func TestSense(t *testing.T) {
	p := Params{SightRange: 20, SightAngle: 120, HearingRange: 10, EyeHeight: DefaultEyeHeight}

	assert.Equal(t, DetectSight, Sense(facingZ(), model.V(0, 0, 3), p, nil), "sight wins when both fire")
	assert.Equal(t, DetectHearing, Sense(facingZ(), model.V(0, 0, -3), p, nil), "footsteps behind")
	assert.Equal(t, DetectHearing, Sense(facingZ(), model.V(3, 0, 3), p, &wall{at: 1}), "hearing ignores walls")
	assert.Equal(t, DetectNone, Sense(facingZ(), model.V(0, 0, -8), p, nil))
}

func TestSense_Deterministic(t *testing.T) {
	p := Params{SightRange: 15, SightAngle: 90, HearingRange: 8, EyeHeight: 1.6}
	target := model.V(3, 0, 9)
	first := Sense(facingZ(), target, p, nil)
	for range 100 {
		assert.Equal(t, first, Sense(facingZ(), target, p, nil))
	}
}
