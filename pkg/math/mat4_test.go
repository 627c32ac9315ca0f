package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
	if !m.IsIdentity() {
		t.Error("IsIdentity should report true for Identity()")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in the fourth column (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{11, 22, 33}
	if result != want {
		t.Errorf("TransformPoint: got %v, want %v", result, want)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	result := m.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{2, 4, 6}
	if result != want {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, want)
	}
}

func TestCompose(t *testing.T) {
	// Pure translation + identity rotation + unit scale is a translation matrix.
	m := Compose(Vec3{1, 2, 3}, QuatIdentity(), Vec3{1, 1, 1})
	want := Translate(1, 2, 3)
	for i := 0; i < 16; i++ {
		if abs(m[i]-want[i]) > 1e-6 {
			t.Fatalf("Compose translation: element %d got %f, want %f", i, m[i], want[i])
		}
	}

	// Scale lands on the diagonal.
	m = Compose(Vec3{}, QuatIdentity(), Vec3{2, 3, 4})
	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Compose scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}

	// T*R*S applied to a point: scale, then rotate, then translate.
	rot := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/2))
	m = Compose(Vec3{10, 0, 0}, rot, Vec3{2, 2, 2})
	p := m.TransformPoint(Vec3{1, 0, 0})
	// (1,0,0) scaled to (2,0,0), rotated 90deg about Y to (0,0,-2), translated to (10,0,-2)
	if abs(p.X-10) > 1e-5 || abs(p.Y) > 1e-5 || abs(p.Z+2) > 1e-5 {
		t.Errorf("Compose TRS: got %v, want (10, 0, -2)", p)
	}
}

func TestRotateAxisY90(t *testing.T) {
	m := RotateAxis(Vec3{0, 1, 0}, float32(math.Pi/2))
	p := m.TransformPoint(Vec3{1, 0, 0})

	if abs(p.X) > 0.001 || abs(p.Y) > 0.001 || abs(p.Z+1) > 0.001 {
		t.Errorf("RotateAxis Y 90: got %v, want (0, 0, -1)", p)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Translate(4, -2, 7).Mul(RotateAxis(Vec3{0, 0, 1}, 0.6)).Mul(Scale(2, 2, 2))
	round := m.Mul(m.Inverse())

	id := Identity()
	for i := 0; i < 16; i++ {
		if abs(round[i]-id[i]) > 1e-5 {
			t.Errorf("M * M^-1 element %d: got %f, want %f", i, round[i], id[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	if !zero.Inverse().IsIdentity() {
		t.Error("Inverse of singular matrix should be identity")
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose moved translation to %f,%f,%f, want 1,2,3", tr[3], tr[7], tr[11])
	}
	if tr.Transpose() != m {
		t.Error("double transpose should restore the matrix")
	}
}

func TestMaxColumnScale(t *testing.T) {
	m := Scale(2, 5, 3)
	if got := m.MaxColumnScale(); got != 5 {
		t.Errorf("MaxColumnScale: got %f, want 5", got)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero focal elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
