package math

import "testing"

func TestVec3Normalized(t *testing.T) {
	v := NewVec3(3, 0, 4).Normalized()
	if !v.Compare(NewVec3(0.6, 0, 0.8), 1e-6) {
		t.Fatalf("normalized = %v", v)
	}
}

func TestNewQuatBetweenVec3(t *testing.T) {
	tests := []struct {
		name string
		from Vec3
		to   Vec3
		want Quaternion
	}{
		{"identity", NewVec3(0, 1, 0), NewVec3(0, 1, 0), NewQuatIdentity()},
		{"quarter turn about x", NewVec3(0, 1, 0), NewVec3(0, 0, 1), NewQuatFromAxisAngle(NewVec3(1, 0, 0), K_HALF_PI, true)},
		{"quarter turn about z", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewQuatFromAxisAngle(NewVec3(0, 0, 1), K_HALF_PI, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewQuatBetweenVec3(tt.from, tt.to)
			g := NewVec4(got.X, got.Y, got.Z, got.W)
			w := NewVec4(tt.want.X, tt.want.Y, tt.want.Z, tt.want.W)
			if !g.Compare(w, 1e-5) {
				t.Errorf("quat = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewQuatBetweenVec3Opposite(t *testing.T) {
	q := NewQuatBetweenVec3(NewVec3(0, 1, 0), NewVec3(0, -1, 0))
	// Any half turn works as long as it is unit length and flips Y.
	if n := q.Normal(); Abs(n-1) > 1e-5 {
		t.Fatalf("quat normal = %f, want 1", n)
	}
	m := q.ToMat4()
	if Abs(m.Data[5]+1) > 1e-5 {
		t.Fatalf("Y basis not flipped: %f", m.Data[5])
	}
}

func TestMat4TranslationComposition(t *testing.T) {
	a := NewMat4Translation(NewVec3(1, 2, 3))
	b := NewMat4Translation(NewVec3(4, 5, 6))
	c := a.Mul(b)
	if c.Data[12] != 5 || c.Data[13] != 7 || c.Data[14] != 9 {
		t.Fatalf("composed translation = (%f, %f, %f)", c.Data[12], c.Data[13], c.Data[14])
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %d", got)
	}
	if got := Clamp(-1.5, 0.0, 3.0); got != 0.0 {
		t.Errorf("Clamp(-1.5, 0, 3) = %f", got)
	}
	if got := Clamp(2, 0, 3); got != 2 {
		t.Errorf("Clamp(2, 0, 3) = %d", got)
	}
}
