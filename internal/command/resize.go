package command

import (
	"math"

	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/viewport"
)

// Handle names a manipulation point on a selected element.
type Handle string

const (
	HandleFrom   Handle = "from"
	HandleTo     Handle = "to"
	HandleMiddle Handle = "middle"

	HandleTopLeft     Handle = "topLeft"
	HandleTopRight    Handle = "topRight"
	HandleBottomLeft  Handle = "bottomLeft"
	HandleBottomRight Handle = "bottomRight"

	HandleTop    Handle = "top"
	HandleBottom Handle = "bottom"
	HandleLeft   Handle = "left"
	HandleRight  Handle = "right"

	// HandleNone marks a hit inside a goal's move region.
	HandleNone Handle = "none"
)

func (h Handle) IsCorner() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight:
		return true
	}
	return false
}

func (h Handle) IsEdge() bool {
	switch h {
	case HandleTop, HandleBottom, HandleLeft, HandleRight:
		return true
	}
	return false
}

type Size struct {
	W, H float64
}

var (
	// ZoneMinSize is enforced when a drawn zone is finalized.
	ZoneMinSize = Size{W: 20, H: 20}
	// ZoneResizeMinSize floors corner and edge resizes of existing zones.
	ZoneResizeMinSize = Size{W: 5, H: 5}

	GoalMinSize = Size{W: 8, H: 5}
	// GoalDefaultSize replaces a drawn goal that ended up below GoalMinSize.
	GoalDefaultSize = Size{W: 20, H: 18}
)

const (
	MinLineLength = 20.0

	// MoveTolerance lets a moved rectangle overhang the field edge so it can
	// line up with the pitch lines.
	MoveTolerance = 5.0
)

// ResizeFromDrag returns the rubber-band rectangle spanned by start and
// current, clamped to the field. It may be smaller than any minimum.
func ResizeFromDrag(start, current geom.Point) geom.Rect {
	a := viewport.ClampToField(start)
	b := viewport.ClampToField(current)
	return geom.Rect{
		X: min(a.X, b.X),
		Y: min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

// FinalizeRect corrects a drawn rectangle when the gesture ends. A dimension
// below minSize is replaced by the matching dimension of fallback, growing away
// from the start point, and the result is clamped into the field.
func FinalizeRect(r geom.Rect, start geom.Point, minSize, fallback Size) geom.Rect {
	if r.W < minSize.W {
		w := fallback.W
		if r.X < start.X {
			r.X = r.Right() - w
		}
		r.W = w
	}
	if r.H < minSize.H {
		h := fallback.H
		if r.Y < start.Y {
			r.Y = r.Bottom() - h
		}
		r.H = h
	}
	return ClampRect(r)
}

// ResizeFromCorner moves the given corner to p and keeps the opposite corner
// fixed. Each dimension is floored at minSize.
func ResizeFromCorner(r geom.Rect, h Handle, p geom.Point, minSize Size) geom.Rect {
	p = viewport.ClampToField(p)
	left, top, right, bottom := r.X, r.Y, r.Right(), r.Bottom()

	switch h {
	case HandleTopLeft:
		r.W = max(right-p.X, minSize.W)
		r.H = max(bottom-p.Y, minSize.H)
		r.X = right - r.W
		r.Y = bottom - r.H
	case HandleTopRight:
		r.W = max(p.X-left, minSize.W)
		r.H = max(bottom-p.Y, minSize.H)
		r.X = left
		r.Y = bottom - r.H
	case HandleBottomLeft:
		r.W = max(right-p.X, minSize.W)
		r.H = max(p.Y-top, minSize.H)
		r.X = right - r.W
		r.Y = top
	case HandleBottomRight:
		r.W = max(p.X-left, minSize.W)
		r.H = max(p.Y-top, minSize.H)
		r.X = left
		r.Y = top
	default:
		return r
	}
	return ClampRect(r)
}

// ResizeFromEdge moves one edge to p and keeps the opposite edge fixed.
func ResizeFromEdge(r geom.Rect, h Handle, p geom.Point, minSize Size) geom.Rect {
	p = viewport.ClampToField(p)

	switch h {
	case HandleTop:
		bottom := r.Bottom()
		r.H = max(bottom-p.Y, minSize.H)
		r.Y = bottom - r.H
	case HandleBottom:
		r.H = max(p.Y-r.Y, minSize.H)
	case HandleLeft:
		right := r.Right()
		r.W = max(right-p.X, minSize.W)
		r.X = right - r.W
	case HandleRight:
		r.W = max(p.X-r.X, minSize.W)
	default:
		return r
	}
	return ClampRect(r)
}

// Resize dispatches to the corner or edge algorithm for h.
func Resize(r geom.Rect, h Handle, p geom.Point, minSize Size) geom.Rect {
	if h.IsCorner() {
		return ResizeFromCorner(r, h, p, minSize)
	}
	if h.IsEdge() {
		return ResizeFromEdge(r, h, p, minSize)
	}
	return r
}

// ClampRect keeps r inside the field, shrinking it first if it is larger.
func ClampRect(r geom.Rect) geom.Rect {
	return clampRect(r, 0)
}

// MoveRect translates r by delta and clamps it with MoveTolerance of overhang.
func MoveRect(r geom.Rect, delta geom.Point) geom.Rect {
	r.X += delta.X
	r.Y += delta.Y
	return clampRect(r, MoveTolerance)
}

func clampRect(r geom.Rect, tolerance float64) geom.Rect {
	r.W = geom.Clamp(r.W, 0, viewport.FieldWidth)
	r.H = geom.Clamp(r.H, 0, viewport.FieldHeight)
	r.X = geom.Clamp(r.X, -tolerance, viewport.FieldWidth-r.W+tolerance)
	r.Y = geom.Clamp(r.Y, -tolerance, viewport.FieldHeight-r.H+tolerance)
	return r
}

// EnforceMinLength returns the end point of a segment from `from` that is at
// least minLength long. Short segments are extended along their direction;
// a zero-length segment points right.
func EnforceMinLength(from, to geom.Point, minLength float64) geom.Point {
	d := to.Sub(from)
	length := math.Hypot(d.X, d.Y)
	if length >= minLength {
		return to
	}
	dir := geom.Pt(1, 0)
	if length > 0 {
		dir = d.Mul(1 / length)
	}
	return from.Add(dir.Mul(minLength))
}
