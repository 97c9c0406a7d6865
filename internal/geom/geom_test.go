package geom

import (
	"math"
	"testing"
)

func TestDistToSegment(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		a, b Point
		want float64
	}{
		{"perpendicular", Pt(5, 3), Pt(0, 0), Pt(10, 0), 3},
		{"before start", Pt(-3, 4), Pt(0, 0), Pt(10, 0), 5},
		{"past end", Pt(13, 4), Pt(0, 0), Pt(10, 0), 5},
		{"degenerate segment", Pt(3, 4), Pt(0, 0), Pt(0, 0), 5},
		{"on segment", Pt(4, 0), Pt(0, 0), Pt(10, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistToSegment(tt.p, tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DistToSegment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 5}

	if !r.Contains(Pt(10, 10)) {
		t.Error("top-left corner should be inside")
	}
	if !r.Contains(Pt(30, 15)) {
		t.Error("bottom-right corner should be inside")
	}
	if r.Contains(Pt(31, 12)) {
		t.Error("point right of rect should be outside")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp low = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp high = %v", got)
	}
	if got := Clamp(4, 0, 10); got != 4 {
		t.Errorf("Clamp mid = %v", got)
	}
}

func TestMatrixRotateAboutPoint(t *testing.T) {
	c := Pt(5, 5)
	m := Translate(c.X, c.Y).Multiply(RotateDegrees(90)).Multiply(Translate(-c.X, -c.Y))

	got := m.Apply(Pt(10, 5))
	if math.Abs(got.X-5) > 1e-9 || math.Abs(got.Y-10) > 1e-9 {
		t.Errorf("rotated = %+v, want (5,10)", got)
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	got := Translate(10, 0).Multiply(Scale(2, 2)).Apply(Pt(1, 1))
	if got != Pt(12, 2) {
		t.Errorf("scale then translate = %+v, want (12,2)", got)
	}
}
