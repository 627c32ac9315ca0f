package math

// Sphere is a bounding sphere.
type Sphere struct {
	Center Vec3
	Radius float32
}

// SphereFromMinMax returns the sphere enclosing an axis-aligned box
// given by its min and max corners.
func SphereFromMinMax(min, max Vec3) Sphere {
	center := min.Add(max).Scale(0.5)
	return Sphere{
		Center: center,
		Radius: max.Sub(center).Length(),
	}
}

// Transform returns the sphere transformed by an affine matrix. The
// radius is scaled by the matrix's largest axis scale, so the result
// encloses the transformed sphere but is not minimal under
// non-uniform scale.
func (s Sphere) Transform(m Mat4) Sphere {
	return Sphere{
		Center: m.TransformPoint(s.Center),
		Radius: s.Radius * m.MaxColumnScale(),
	}
}

// Merge returns the smallest sphere centered between the two inputs'
// extremes that contains both spheres.
func (s Sphere) Merge(other Sphere) Sphere {
	if s.Radius == 0 && s.Center == (Vec3{}) {
		return other
	}
	d := s.Center.Distance(other.Center)
	if d+other.Radius <= s.Radius {
		return s
	}
	if d+s.Radius <= other.Radius {
		return other
	}
	r := (d + s.Radius + other.Radius) / 2
	dir := other.Center.Sub(s.Center).Normalize()
	center := s.Center.Add(dir.Scale(r - s.Radius))
	return Sphere{Center: center, Radius: r}
}
