package geometry

import (
	"math"
	"testing"
)

func TestTriangleArea(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vector3
		want    float64
	}{
		{"right triangle 3-4-5", NewVector3(0, 0, 0), NewVector3(3, 0, 0), NewVector3(0, 4, 0), 6},
		{"tilted unit square half", NewVector3(0, 0, 0), NewVector3(1, 1, 0), NewVector3(0, 0, 1), math.Sqrt2 / 2},
		{"collinear", NewVector3(0, 0, 0), NewVector3(1, 1, 1), NewVector3(2, 2, 2), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TriangleArea(tt.a, tt.b, tt.c); math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("TriangleArea() = %v, want %v", got, tt.want)
			}
			tri := NewTriangle(Vector3{}, tt.a, tt.b, tt.c)
			if got := tri.Area(); math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFaceNormal(t *testing.T) {
	a, b, c := NewVector3(0, 0, 0), NewVector3(2, 0, 0), NewVector3(0, 2, 0)

	if got := FaceNormal(a, b, c); got != NewVector3(0, 0, 1) {
		t.Errorf("counter-clockwise normal = %v, want +Z", got)
	}
	if got := FaceNormal(a, c, b); got != NewVector3(0, 0, -1) {
		t.Errorf("clockwise normal = %v, want -Z", got)
	}

	tri := NewTriangle(Vector3{}, NewVector3(0, 0, 0), NewVector3(0, 0, 1), NewVector3(0, 1, 0))
	if got := tri.CalculateNormal(); got != NewVector3(-1, 0, 0) {
		t.Errorf("CalculateNormal() = %v, want -X", got)
	}
}
