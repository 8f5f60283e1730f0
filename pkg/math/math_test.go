package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return the zero vector")
	}
}

func TestVec3Distance(t *testing.T) {
	got := V3(1, 2, 3).Distance(V3(4, 6, 3))
	if got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestTransformVec3(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"translate", Translate(10, 20, 30), V3(1, 2, 3), V3(11, 22, 33)},
		{"scale", Scale(2, 2, 2), V3(1, 2, 3), V3(2, 4, 6)},
		{"scale then translate", Translate(1, 0, 0).Mul(Scale(2, 2, 2)), V3(1, 1, 1), V3(3, 2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformVec3(tt.in); got != tt.want {
				t.Errorf("TransformVec3 = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(math32.Pi/4, 1.0, 0.1, 100.0)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestOrthoMapsBoundsToClipSpace(t *testing.T) {
	m := Ortho(-800, 800, -800, 800, 1, 4000)
	corner := m.TransformVec3(V3(800, 800, -1))
	if abs(corner.X-1) > 1e-5 || abs(corner.Y-1) > 1e-5 || abs(corner.Z+1) > 1e-5 {
		t.Errorf("near corner should map to (1, 1, -1), got %v", corner)
	}
	far := m.TransformVec3(V3(0, 0, -4000))
	if abs(far.Z-1) > 1e-5 {
		t.Errorf("far plane should map to z=1, got %v", far.Z)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := V3(0, 0, 5)
	m := LookAt(eye, V3(0, 0, 0), V3(0, 1, 0))
	got := m.TransformVec3(eye)
	if got.Length() > 1e-5 {
		t.Errorf("eye should map to origin in view space, got %v", got)
	}
	center := m.TransformVec3(V3(0, 0, 0))
	if abs(center.Z+5) > 1e-5 {
		t.Errorf("center should lie at z=-5 in view space, got %v", center)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestTransformDirIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformDir(V3(0, 1, 0))
	if got != V3(0, 2, 0) {
		t.Errorf("TransformDir = %v, want (0, 2, 0)", got)
	}
}
