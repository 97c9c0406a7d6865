package engine

import (
	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
)

// Hit geometry in field units. The renderer draws with the same values
// multiplied by the viewport scale, so what you see is what you can click.
const (
	TokenHitMargin   = 0.9
	LineHitTolerance = 1.5
	HandleRadius     = 2.0

	goalCenterInset     = 0.3
	goalCenterMinMargin = 0.5
	goalHandleFraction  = 0.25
)

// TextBox is the clickable label area relative to a text element's origin.
var TextBox = geom.Rect{X: -0.6, Y: -2.4, W: 36, H: 3.3}

type HandleHit struct {
	ID     string
	Handle command.Handle
}

// HandlePoint is a drawn and clickable handle of a selected element.
type HandlePoint struct {
	Handle command.Handle
	At     geom.Point
	Radius float64
}

// HitTest returns the topmost visible, unlocked element under p. Layers are
// searched front to back and, within a layer, newest element first.
func HitTest(s scene.Scene, p geom.Point) (string, bool) {
	for _, layerID := range scene.HitOrder {
		if !s.Layer(layerID).Visible {
			continue
		}
		for i := len(s.Elements) - 1; i >= 0; i-- {
			el := s.Elements[i]
			meta := el.Meta()
			if meta.Layer != layerID || meta.Hidden || meta.Locked {
				continue
			}
			if hits(el, p) {
				return meta.ID, true
			}
		}
	}
	return "", false
}

func hits(el scene.Element, p geom.Point) bool {
	switch v := el.(type) {
	case scene.Token:
		return geom.Dist(p, geom.Pt(v.X, v.Y)) <= v.R+TokenHitMargin
	case scene.Zone:
		r := v.Rect()
		return !r.IsEmpty() && r.Contains(p)
	case scene.Goal:
		r := v.Rect()
		return !r.IsEmpty() && r.Contains(p)
	case scene.Text:
		box := TextBox
		box.X += v.X
		box.Y += v.Y
		return box.Contains(p)
	case scene.Arrow:
		return geom.DistToSegment(p, v.From, v.To) <= LineHitTolerance
	case scene.Line:
		return geom.DistToSegment(p, v.From, v.To) <= LineHitTolerance
	case scene.Path:
		if len(v.Points) == 1 {
			return geom.Dist(p, v.Points[0]) <= LineHitTolerance
		}
		for i := 0; i+1 < len(v.Points); i++ {
			if geom.DistToSegment(p, v.Points[i], v.Points[i+1]) <= LineHitTolerance {
				return true
			}
		}
	}
	return false
}

// editable reports whether el can be dragged: neither it nor its layer is locked.
func editable(s scene.Scene, el scene.Element) bool {
	meta := el.Meta()
	return !meta.Locked && !s.Layer(meta.Layer).Locked
}

// HitTestHandle checks p against the handles of the selected element only.
// For goals it may return HandleNone, meaning p is in the goal's move region.
func HitTestHandle(s scene.Scene, p geom.Point, selectedID string) (HandleHit, bool) {
	el, ok := s.Find(selectedID)
	if !ok || !editable(s, el) {
		return HandleHit{}, false
	}
	id := el.Meta().ID

	if g, ok := el.(scene.Goal); ok && inGoalCenter(g, p) {
		return HandleHit{ID: id, Handle: command.HandleNone}, true
	}

	for _, h := range Handles(el) {
		if geom.Dist(p, h.At) <= h.Radius {
			return HandleHit{ID: id, Handle: h.Handle}, true
		}
	}
	return HandleHit{}, false
}

func inGoalCenter(g scene.Goal, p geom.Point) bool {
	mx := max(g.W*goalCenterInset, goalCenterMinMargin)
	my := max(g.H*goalCenterInset, goalCenterMinMargin)
	inner := geom.Rect{X: g.X + mx, Y: g.Y + my, W: g.W - 2*mx, H: g.H - 2*my}
	if inner.W <= 0 || inner.H <= 0 {
		return false
	}
	return inner.Contains(p)
}

// Handles lists the handles of el in hit priority order.
func Handles(el scene.Element) []HandlePoint {
	switch v := el.(type) {
	case scene.Arrow:
		return lineHandles(v.From, v.To)
	case scene.Line:
		return lineHandles(v.From, v.To)
	case scene.Path:
		return pathHandles(v.Points)
	case scene.Zone:
		return rectHandles(v.Rect(), HandleRadius)
	case scene.Goal:
		radius := min(HandleRadius, goalHandleFraction*min(v.W, v.H))
		if radius <= 0 {
			return nil
		}
		return rectHandles(v.Rect(), radius)
	}
	return nil
}

func lineHandles(from, to geom.Point) []HandlePoint {
	return []HandlePoint{
		{Handle: command.HandleFrom, At: from, Radius: HandleRadius},
		{Handle: command.HandleTo, At: to, Radius: HandleRadius},
		{Handle: command.HandleMiddle, At: from.Add(to).Mul(0.5), Radius: HandleRadius},
	}
}

func pathHandles(points []geom.Point) []HandlePoint {
	n := len(points)
	if n == 0 {
		return nil
	}
	out := []HandlePoint{{Handle: command.HandleFrom, At: points[0], Radius: HandleRadius}}
	if n > 1 {
		out = append(out, HandlePoint{Handle: command.HandleTo, At: points[n-1], Radius: HandleRadius})
	}
	for _, p := range points[1:max(n-1, 1)] {
		out = append(out, HandlePoint{Handle: command.HandleMiddle, At: p, Radius: HandleRadius})
	}
	return out
}

// rectHandles returns corners first so they win where they overlap edge midpoints.
func rectHandles(r geom.Rect, radius float64) []HandlePoint {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	return []HandlePoint{
		{command.HandleTopLeft, geom.Pt(r.X, r.Y), radius},
		{command.HandleTopRight, geom.Pt(r.Right(), r.Y), radius},
		{command.HandleBottomLeft, geom.Pt(r.X, r.Bottom()), radius},
		{command.HandleBottomRight, geom.Pt(r.Right(), r.Bottom()), radius},
		{command.HandleTop, geom.Pt(cx, r.Y), radius},
		{command.HandleBottom, geom.Pt(cx, r.Bottom()), radius},
		{command.HandleLeft, geom.Pt(r.X, cy), radius},
		{command.HandleRight, geom.Pt(r.Right(), cy), radius},
	}
}
