package model

import "math"

// Vec3 is a position or direction in world space. Y is up.
// Value type, passed by value.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// V creates a Vec3.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSquared returns |v|^2.
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns |v|.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalized returns v scaled to unit length. Zero vector stays zero.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	v.Y = 0
	return v
}

// DistanceSquared returns squared distance to other point (no sqrt).
func (v Vec3) DistanceSquared(other Vec3) float64 {
	return v.Sub(other).LengthSquared()
}

// Distance returns distance to other point.
func (v Vec3) Distance(other Vec3) float64 {
	return math.Sqrt(v.DistanceSquared(other))
}

// AngleDeg returns the unsigned angle between v and o in degrees.
// Returns 0 if either vector is zero.
func (v Vec3) AngleDeg(o Vec3) float64 {
	lv, lo := v.Length(), o.Length()
	if lv < 1e-9 || lo < 1e-9 {
		return 0
	}
	c := v.Dot(o) / (lv * lo)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// MoveTowards moves v toward target by at most maxStep.
func (v Vec3) MoveTowards(target Vec3, maxStep float64) Vec3 {
	d := target.Sub(v)
	l := d.Length()
	if l <= maxStep || l < 1e-9 {
		return target
	}
	return v.Add(d.Scale(maxStep / l))
}
