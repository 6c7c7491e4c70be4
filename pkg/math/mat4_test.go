package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if m[i] != want {
			t.Errorf("Identity[%d] = %f, want %f", i, m[i], want)
		}
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3).Mul(RotateY(0.7))
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslatePoint(t *testing.T) {
	p := Translate(5, 10, 15).TransformPoint(Vec3{1, 1, 1})
	if !vecApprox(p, Vec3{6, 11, 16}) {
		t.Errorf("Translate point = %+v, want {6 11 16}", p)
	}

	d := Translate(5, 10, 15).TransformDirection(Vec3{1, 0, 0})
	if !vecApprox(d, Vec3{1, 0, 0}) {
		t.Errorf("Translate direction = %+v, want unchanged", d)
	}
}

func TestRotations(t *testing.T) {
	half := float32(math.Pi / 2)
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"X rotates Y to Z", RotateX(half), Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"Y rotates Z to X", RotateY(half), Vec3{0, 0, 1}, Vec3{1, 0, 0}},
		{"Z rotates X to Y", RotateZ(half), Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformDirection(tt.in)
			if !vecApprox(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMulOrder(t *testing.T) {
	// Translate * RotateX: rotation applies first, then translation.
	m := Translate(0, 0, -5).Mul(RotateX(float32(math.Pi / 2)))
	got := m.TransformPoint(Vec3{0, 1, 0})
	if !vecApprox(got, Vec3{0, 0, -4}) {
		t.Errorf("got %+v, want {0 0 -4}", got)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(0.3, -1, -5).Mul(RotateX(0.52)).Mul(RotateY(0.78)).Mul(RotateZ(-0.2))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse reported singular for a rigid transform")
	}

	id := m.Mul(inv)
	want := Identity()
	for i := 0; i < 16; i++ {
		if abs(id[i]-want[i]) > 1e-5 {
			t.Errorf("M * M^-1 element %d = %f, want %f", i, id[i], want[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	inv, ok := zero.Inverse()
	if ok {
		t.Error("zero matrix should be singular")
	}
	if inv != Identity() {
		t.Error("singular inverse should fall back to identity")
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("transpose moved translation to %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("double transpose should be identity")
	}
}

func TestNormalMatrixRigid(t *testing.T) {
	// For rotation plus translation the normal matrix keeps the rotation block.
	rot := RotateX(0.4).Mul(RotateY(1.1))
	n := Translate(2, 3, -6).Mul(rot).NormalMatrix()

	for _, col := range []int{0, 4, 8} {
		for row := 0; row < 3; row++ {
			if abs(n[col+row]-rot[col+row]) > 1e-5 {
				t.Errorf("normal[%d] = %f, want %f", col+row, n[col+row], rot[col+row])
			}
		}
	}
}

func TestNormalMatrixScale(t *testing.T) {
	// Non-uniform scale: normals scale by the reciprocal.
	s := Identity()
	s[0] = 2
	n := s.NormalMatrix()
	if abs(n[0]-0.5) > 1e-6 {
		t.Errorf("normal scale = %f, want 0.5", n[0])
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(45 * math.Pi / 180)
	m := Perspective(fov, 4.0/3.0, 0.1, 100)

	near := m.TransformPoint(Vec3{0, 0, -0.1})
	if abs(near.Z+1) > 1e-4 {
		t.Errorf("near plane depth = %f, want -1", near.Z)
	}
	far := m.TransformPoint(Vec3{0, 0, -100})
	if abs(far.Z-1) > 1e-3 {
		t.Errorf("far plane depth = %f, want 1", far.Z)
	}
	if m[11] != -1 {
		t.Errorf("m[11] = %f, want -1", m[11])
	}
}

func vecApprox(a, b Vec3) bool {
	const eps = 1e-5
	return abs(a.X-b.X) < eps && abs(a.Y-b.Y) < eps && abs(a.Z-b.Z) < eps
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
