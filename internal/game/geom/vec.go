// Package geom provides the small amount of vector math the character core
// needs for aim directions and drop poses.
package geom

import "math"

// Vec3 is a three-component vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns v scaled to unit length, or the zero vector when v has
// no length.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Pose pairs a world position with a facing direction.
type Pose struct {
	Position Vec3
	Forward  Vec3
}

// Ahead returns the point d units in front of the pose.
//
// Postcondition: returns Position when Forward has no length.
func (p Pose) Ahead(d float64) Vec3 {
	return p.Position.Add(p.Forward.Normalized().Scale(d))
}
