// Package picking provides pick-pass id allocation and ray casting
// against scene bounds.
package picking

import (
	gomath "math"

	"github.com/Faultbox/asgard/pkg/math"
)

// Allocator hands out pick-pass identifiers, starting at 1 so that 0
// stays the "nothing" id. Share one allocator across every model whose
// pick commands render into the same pick buffer.
type Allocator struct {
	next uint32
}

// NewAllocator returns an allocator whose first id is 1.
func NewAllocator() *Allocator {
	return &Allocator{next: 1}
}

// Allocate returns the next unused pick id.
func (a *Allocator) Allocate() uint32 {
	id := a.next
	a.next++
	return id
}

// EncodeColor packs a pick id into RGB components for a color-id pick
// pass.
func EncodeColor(id uint32) (r, g, b float32) {
	return float32(id&0xff) / 255,
		float32((id>>8)&0xff) / 255,
		float32((id>>16)&0xff) / 255
}

// DecodeColor recovers a pick id from pick-buffer pixel bytes.
func DecodeColor(r, g, b uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16
}

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport
// dimensions. invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, ndcX, ndcY, -1)
	far := unproject(invViewProj, ndcX, ndcY, 1)

	return Ray{
		Origin:    near,
		Direction: far.Sub(near).Normalize(),
	}
}

// unproject runs one NDC point back through the inverse view-projection
// with perspective divide.
func unproject(inv math.Mat4, x, y, z float32) math.Vec3 {
	ox := inv[0]*x + inv[4]*y + inv[8]*z + inv[12]
	oy := inv[1]*x + inv[5]*y + inv[9]*z + inv[13]
	oz := inv[2]*x + inv[6]*y + inv[10]*z + inv[14]
	ow := inv[3]*x + inv[7]*y + inv[11]*z + inv[15]
	if ow != 0 {
		ox /= ow
		oy /= ow
		oz /= ow
	}
	return math.Vec3{X: ox, Y: oy, Z: oz}
}

// IntersectSphere tests ray intersection with a bounding sphere.
// Returns the distance to the nearest intersection and whether one
// occurred. A ray starting inside the sphere reports the exit distance.
func (r Ray) IntersectSphere(s math.Sphere) (t float32, hit bool) {
	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(gomath.Sqrt(float64(disc)))

	t = -b - sq
	if t < 0 {
		t = -b + sq // inside the sphere
	}
	if t < 0 {
		return 0, false // sphere behind the ray
	}
	return t, true
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given
// Y level. Returns the intersection point (X, Z) and whether the
// intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	// Ray: P = Origin + t * Direction
	// Plane: Y = planeY
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}

	x = r.Origin.X + t*r.Direction.X
	z = r.Origin.Z + t*r.Direction.Z
	return x, z, true
}
