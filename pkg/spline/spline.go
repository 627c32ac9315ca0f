// Package spline evaluates keyframe curves for animation channels.
// Samplers are built once from keyframe data and queried per frame with
// a time and the previously sampled value.
package spline

import "github.com/Faultbox/asgard/pkg/math"

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	// Step holds the previous keyframe's value until the next keyframe.
	Step Interpolation = iota
	// Linear interpolates linearly (slerp for rotations).
	Linear
)

// segment finds the keyframe pair surrounding t and the blend factor
// between them. Times must be sorted ascending. Before the first
// keyframe the first value is used; after the last, the last.
func segment(times []float32, t float32) (prev, next int, blend float32) {
	n := len(times)
	if n == 0 {
		return 0, 0, 0
	}
	if t <= times[0] {
		return 0, 0, 0
	}
	if t >= times[n-1] {
		return n - 1, n - 1, 0
	}
	// Binary search for the first keyframe past t.
	lo, hi := 0, n-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if times[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	span := times[hi] - times[lo]
	if span <= 0 {
		return lo, lo, 0
	}
	return lo, hi, (t - times[lo]) / span
}

// Vec3Sampler samples a Vec3-valued keyframe curve.
type Vec3Sampler struct {
	Times  []float32
	Values []math.Vec3
	Interp Interpolation
}

// Sample returns the curve value at time t. prev is the previously
// sampled value and is returned unchanged when the sampler is empty.
func (s *Vec3Sampler) Sample(t float32, prev math.Vec3) math.Vec3 {
	if len(s.Times) == 0 || len(s.Values) == 0 {
		return prev
	}
	p, n, blend := segment(s.Times, t)
	if s.Interp == Step || p == n {
		return s.Values[p]
	}
	return s.Values[p].Lerp(s.Values[n], blend)
}

// QuatSampler samples a rotation keyframe curve using slerp.
type QuatSampler struct {
	Times  []float32
	Values []math.Quat
	Interp Interpolation
}

// Sample returns the curve rotation at time t.
func (s *QuatSampler) Sample(t float32, prev math.Quat) math.Quat {
	if len(s.Times) == 0 || len(s.Values) == 0 {
		return prev
	}
	p, n, blend := segment(s.Times, t)
	if s.Interp == Step || p == n {
		return s.Values[p]
	}
	return s.Values[p].Slerp(s.Values[n], blend)
}

// Mat4Sampler samples a matrix keyframe curve. Matrices interpolate
// element-wise, which is only meaningful between similar transforms;
// Step is the usual choice.
type Mat4Sampler struct {
	Times  []float32
	Values []math.Mat4
	Interp Interpolation
}

// Sample returns the curve matrix at time t.
func (s *Mat4Sampler) Sample(t float32, prev math.Mat4) math.Mat4 {
	if len(s.Times) == 0 || len(s.Values) == 0 {
		return prev
	}
	p, n, blend := segment(s.Times, t)
	if s.Interp == Step || p == n {
		return s.Values[p]
	}
	var out math.Mat4
	a, b := s.Values[p], s.Values[n]
	for i := 0; i < 16; i++ {
		out[i] = a[i] + blend*(b[i]-a[i])
	}
	return out
}

// Start returns the first keyframe time, or 0 for an empty curve.
func Start(times []float32) float32 {
	if len(times) == 0 {
		return 0
	}
	return times[0]
}

// End returns the last keyframe time, or 0 for an empty curve.
func End(times []float32) float32 {
	if len(times) == 0 {
		return 0
	}
	return times[len(times)-1]
}
