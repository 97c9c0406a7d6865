package command

import (
	"math"
	"slices"

	"github.com/pitchboard/pitchboard/internal/geom"
)

const (
	// PathMinDistance is the simplification distance used when a drawn path is finalized.
	PathMinDistance = 1.5

	// Points closer than the minimum distance survive when the path turns by
	// more than this many radians there.
	turnThreshold = 0.1
)

// SimplifyPath drops interior points that add neither distance nor a turn.
// The first and last points are always kept and the result is never longer
// than the input. It runs in a single pass.
func SimplifyPath(points []geom.Point, minDistance float64) []geom.Point {
	if len(points) <= 2 {
		return slices.Clone(points)
	}

	out := make([]geom.Point, 0, len(points))
	out = append(out, points[0])
	last := points[0]

	for i := 1; i < len(points)-1; i++ {
		p := points[i]
		if geom.Dist(last, p) > minDistance || turns(last, p, points[i+1]) {
			out = append(out, p)
			last = p
		}
	}

	return append(out, points[len(points)-1])
}

// turns reports whether the direction changes noticeably at p, i.e. the
// angle between a->p and p->b is neither close to 0 nor close to pi.
func turns(a, p, b geom.Point) bool {
	v1 := p.Sub(a)
	v2 := b.Sub(p)
	if (v1.X == 0 && v1.Y == 0) || (v2.X == 0 && v2.Y == 0) {
		return false
	}
	angle := math.Abs(math.Atan2(v1.X*v2.Y-v1.Y*v2.X, v1.X*v2.X+v1.Y*v2.Y))
	return angle > turnThreshold && angle < math.Pi-turnThreshold
}
