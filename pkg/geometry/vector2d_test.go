package geometry

import (
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"Zero angle (X-axis)", 10, 0, Vector2D{10, 0}},
		{"90 degrees (Y-axis)", 10, math.Pi / 2, Vector2D{0, 10}},
		{"180 degrees (Negative X)", 10, math.Pi, Vector2D{-10, 0}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestFromDegrees(t *testing.T) {
	if got := FromDegrees(90); !got.Eq(Vector2D{0, 1}) {
		t.Errorf("FromDegrees(90) = %v; want (0, 1)", got)
	}
	if got := FromDegrees(-90); !got.Eq(Vector2D{0, -1}) {
		t.Errorf("FromDegrees(-90) = %v; want (0, -1)", got)
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.234, 5.678}
	want := "(1.23, 5.68)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		if got := v1.Add(v2); !got.Eq(Vector2D{4, 6}) {
			t.Errorf("%v.Add(%v) = %v; want (4, 6)", v1, v2, got)
		}
	})
	t.Run("Sub", func(t *testing.T) {
		if got := v1.Sub(v2); !got.Eq(Vector2D{-2, -2}) {
			t.Errorf("%v.Sub(%v) = %v; want (-2, -2)", v1, v2, got)
		}
	})
	t.Run("Mul", func(t *testing.T) {
		if got := v1.Mul(2); !got.Eq(Vector2D{2, 4}) {
			t.Errorf("%v.Mul(2) = %v; want (2, 4)", v1, got)
		}
	})
	t.Run("Neg", func(t *testing.T) {
		if got := v1.Neg(); !got.Eq(Vector2D{-1, -2}) {
			t.Errorf("%v.Neg() = %v; want (-1, -2)", v1, got)
		}
	})
	t.Run("Cross", func(t *testing.T) {
		if got := (Vector2D{1, 0}).Cross(Vector2D{0, 1}); got != 1 {
			t.Errorf("Cross X,Y = %v; want 1", got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector2D{3, 4}

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 5 {
			t.Errorf("Len = %v; want 5", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		if !got.Eq(Vector2D{0.6, 0.8}) {
			t.Errorf("Normalize = %v; want (0.6, 0.8)", got)
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		if got := Zero.Normalize(); !got.Eq(Zero) {
			t.Errorf("Normalize(0,0) = %v; want (0,0)", got)
		}
		if !Zero.IsZero() {
			t.Error("IsZero(0,0) = false; want true")
		}
	})

	t.Run("WithLen", func(t *testing.T) {
		got := v.WithLen(10)
		if !got.Eq(Vector2D{6, 8}) {
			t.Errorf("WithLen(10) = %v; want (6, 8)", got)
		}
	})
}

func TestVector_SignedAngleDegTo(t *testing.T) {
	tests := []struct {
		name string
		from Vector2D
		to   Vector2D
		want float64
	}{
		{"same", Vector2D{1, 0}, Vector2D{2, 0}, 0},
		{"quarter left", Vector2D{1, 0}, Vector2D{0, 1}, 90},
		{"quarter right", Vector2D{1, 0}, Vector2D{0, -1}, -90},
		{"opposite is +180", Vector2D{1, 0}, Vector2D{-1, 0}, 180},
		{"wraps around -x", Vector2D{-1, 0.1}, Vector2D{-1, -0.1}, 11.421186},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.SignedAngleDegTo(tt.to); !floatEquals(got, tt.want) {
				t.Errorf("%v.SignedAngleDegTo(%v) = %v; want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestVector_RotateDeg(t *testing.T) {
	got := Vector2D{0, 1}.RotateDeg(90)
	if !got.Eq(Vector2D{-1, 0}) {
		t.Errorf("RotateDeg(90) = %v; want (-1, 0)", got)
	}
	if a := (Vector2D{0, 1}).AngleDeg(); !floatEquals(a, 90) {
		t.Errorf("AngleDeg = %v; want 90", a)
	}
}

func TestNormalizeDeg(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{720, 0},
	}
	for _, tt := range tests {
		if got := NormalizeDeg(tt.in); !floatEquals(got, tt.want) {
			t.Errorf("NormalizeDeg(%v) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestVector_Eq(t *testing.T) {
	v := Vector2D{1, 2}
	if !v.Eq(Vector2D{1 + Epsilon/2, 2 - Epsilon/2}) {
		t.Error("Eq epsilon match failed")
	}
	if v.Eq(Vector2D{1.1, 2}) {
		t.Error("Eq mismatch failed")
	}
}
