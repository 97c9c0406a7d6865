package engine

import (
	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
)

type DragType string

const (
	DragMove       DragType = "move"
	DragResizeZone DragType = "resizeZone"
	DragResizeLine DragType = "resizeLine"
	DragResizePath DragType = "resizePath"
	DragResizeGoal DragType = "resizeGoal"
	DragDraw       DragType = "draw"
)

// DragState is the gesture in progress between pointer down and pointer up.
// BaseScene is the scene from before the gesture; it becomes the single undo
// step the gesture produces.
type DragState struct {
	ID        string
	Type      DragType
	DrawKind  scene.Kind
	Handle    command.Handle
	Start     geom.Point
	Origin    geom.Point
	BaseScene scene.Scene
}

// originOf captures the position a move gesture is measured from.
func originOf(el scene.Element) geom.Point {
	switch v := el.(type) {
	case scene.Token:
		return geom.Pt(v.X, v.Y)
	case scene.Text:
		return geom.Pt(v.X, v.Y)
	case scene.Zone:
		return geom.Pt(v.X, v.Y)
	case scene.Goal:
		return geom.Pt(v.X, v.Y)
	case scene.Arrow:
		return v.From
	case scene.Line:
		return v.From
	case scene.Path:
		if len(v.Points) > 0 {
			return v.Points[0]
		}
	}
	return geom.Point{}
}

// handleDrag maps a handle hit on el to the gesture it starts. Handles that
// only mean "move" report DragMove.
func handleDrag(el scene.Element, h command.Handle) DragType {
	switch el.(type) {
	case scene.Arrow, scene.Line:
		if h == command.HandleMiddle {
			return DragMove
		}
		return DragResizeLine
	case scene.Path:
		if h == command.HandleMiddle {
			return DragMove
		}
		return DragResizePath
	case scene.Zone:
		return DragResizeZone
	case scene.Goal:
		return DragResizeGoal
	}
	return DragMove
}

// translate shifts every coordinate of a line-like element by d.
func translate(el scene.Element, d geom.Point) command.Patch {
	switch v := el.(type) {
	case scene.Arrow:
		return command.SetEndpoints(v.From.Add(d), v.To.Add(d))
	case scene.Line:
		return command.SetEndpoints(v.From.Add(d), v.To.Add(d))
	case scene.Path:
		points := make([]geom.Point, len(v.Points))
		for i, p := range v.Points {
			points[i] = p.Add(d)
		}
		return command.SetPoints(points)
	}
	return command.Patch{}
}

// nearestInterior returns the index of the interior point closest to p, or -1.
func nearestInterior(points []geom.Point, p geom.Point) int {
	best, bestDist := -1, 0.0
	for i := 1; i < len(points)-1; i++ {
		if d := geom.Dist(points[i], p); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
