package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("QuatIdentity: got %v", q)
	}
	if !q.ToMat4().IsIdentity() {
		t.Error("identity quaternion should convert to identity matrix")
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 180 degrees around Y
	q := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi))
	if abs(q.Y-1) > 0.001 || abs(q.W) > 0.001 {
		t.Errorf("axis-angle 180 around Y: got %v, want (0, 1, 0, 0)", q)
	}
}

func TestQuatRotatePoint(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/2))
	p := q.ToMat4().TransformPoint(Vec3{1, 0, 0})

	if abs(p.X) > 0.001 || abs(p.Z+1) > 0.001 {
		t.Errorf("90 deg Y rotation of (1,0,0): got %v, want (0, 0, -1)", p)
	}
}

func TestSlerpEndpoints(t *testing.T) {
	a := QuatIdentity()
	b := QuatFromAxisAngle(Vec3{0, 0, 1}, float32(math.Pi/2))

	s0 := a.Slerp(b, 0)
	if abs(s0.Dot(a)-1) > 0.001 {
		t.Errorf("Slerp(0) should equal start, got %v", s0)
	}

	s1 := a.Slerp(b, 1)
	if abs(s1.Dot(b)-1) > 0.001 {
		t.Errorf("Slerp(1) should equal end, got %v", s1)
	}
}

func TestSlerpHalfway(t *testing.T) {
	a := QuatIdentity()
	b := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/2))
	mid := a.Slerp(b, 0.5)

	want := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/4))
	if abs(mid.Dot(want)-1) > 0.001 {
		t.Errorf("Slerp halfway: got %v, want %v", mid, want)
	}
}

func TestSlerpShortestPath(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{0, 1, 0}, 0.1)
	b := QuatFromAxisAngle(Vec3{0, 1, 0}, 0.2)
	// Negated b represents the same rotation; slerp must not take the long way.
	bn := Quat{X: -b.X, Y: -b.Y, Z: -b.Z, W: -b.W}

	mid := a.Slerp(bn, 0.5)
	want := QuatFromAxisAngle(Vec3{0, 1, 0}, 0.15)
	if abs(abs(mid.Dot(want))-1) > 0.001 {
		t.Errorf("Slerp shortest path: got %v, want %v", mid, want)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	q := Quat{}.Normalize()
	if q != QuatIdentity() {
		t.Errorf("normalizing zero quaternion should give identity, got %v", q)
	}
}
