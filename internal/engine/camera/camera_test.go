package camera

import (
	"testing"

	"github.com/Faultbox/asgard/pkg/math"
)

func TestPositionAtDefaultAngles(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationX = 0
	c.RotationY = 0
	c.Distance = 10

	pos := c.Position()
	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("expected camera on +Z axis, got %+v", pos)
	}
	if diff := pos.Z - 10; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("expected distance 10 on Z, got %f", pos.Z)
	}
}

func TestZoomClampsToLimits(t *testing.T) {
	c := NewOrbitCamera()
	c.MinDistance = 1
	c.MaxDistance = 100
	c.Distance = 2

	for i := 0; i < 100; i++ {
		c.HandleZoom(10)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("expected zoom-in to clamp at %f, got %f", c.MinDistance, c.Distance)
	}

	for i := 0; i < 100; i++ {
		c.HandleZoom(-10)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("expected zoom-out to clamp at %f, got %f", c.MaxDistance, c.Distance)
	}
}

func TestDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 10000; i++ {
		c.HandleDrag(0, 100)
	}
	if c.RotationX != c.MaxPitch {
		t.Errorf("expected pitch clamped at %f, got %f", c.MaxPitch, c.RotationX)
	}
}

func TestFitToSphere(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToSphere(math.Sphere{Center: math.Vec3{X: 1, Y: 2, Z: 3}, Radius: 4})

	if c.Center != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("expected center at sphere center, got %+v", c.Center)
	}
	if c.Distance != 10 {
		t.Errorf("expected distance 10, got %f", c.Distance)
	}

	// Degenerate sphere still yields a usable framing.
	c.FitToSphere(math.Sphere{})
	if c.Distance <= 0 {
		t.Errorf("expected positive distance for empty sphere, got %f", c.Distance)
	}
}
