package render

import (
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/viewport"
)

// Marking dimensions in field units.
const (
	centreCircleRadius = 9.15
	penaltyAreaDepth   = 16.5
	penaltyAreaWidth   = 40.32
	goalAreaDepth      = 5.5
	goalAreaWidth      = 18.32
	penaltySpotOffset  = 11.0
	spotRadius         = 0.3
	gridStep           = 5.0
)

const (
	colorPitch    = "#0b6b3a"
	colorSurround = "#095a31"
	colorStripe   = "rgba(255,255,255,0.04)"
	colorMarking  = "rgba(255,255,255,0.95)"
	colorGrid     = "rgba(255,255,255,0.25)"
	markingWidth  = 2.0
	stripeCount   = 10
	gridLineWidth = 1.0
)

// pitch emits the green area, its markings and the optional grid.
func (c *compiler) pitch(p scene.Pitch) {
	vp := c.vp
	c.emit(DrawCommand{
		Op:   OpPath,
		Path: rectPath(geom.Rect{W: vp.CanvasWidth, H: vp.CanvasHeight}),
		Fill: colorSurround,
	})
	green := vp.Green()
	c.emit(DrawCommand{Op: OpPath, Path: rectPath(green), Fill: colorPitch})

	stripe := green.W / stripeCount
	for i := 0; i < stripeCount; i += 2 {
		c.emit(DrawCommand{
			Op:   OpPath,
			Path: rectPath(geom.Rect{X: green.X + float64(i)*stripe, Y: green.Y, W: stripe, H: green.H}),
			Fill: colorStripe,
		})
	}

	if p.ShowGrid {
		c.grid()
	}

	var path []PathCommand
	var spots []geom.Point
	const midX = viewport.FieldWidth / 2
	mid := geom.Pt(midX, viewport.FieldHeight/2)

	switch p.Type.Normalize() {
	case scene.PitchFull:
		path = append(path, c.rect(viewport.FieldBounds())...)
		path = append(path, c.segment(geom.Pt(midX, 0), geom.Pt(midX, viewport.FieldHeight))...)
		path = append(path, circlePath(c.pt(mid), c.vp.Length(centreCircleRadius))...)
		path = append(path, c.boxes(0, 1)...)
		path = append(path, c.boxes(viewport.FieldWidth, -1)...)
		spots = []geom.Point{mid, geom.Pt(penaltySpotOffset, mid.Y), geom.Pt(viewport.FieldWidth-penaltySpotOffset, mid.Y)}

	case scene.PitchHalf:
		// The offensive half is the one being attacked, on the right.
		if p.HalfSide == scene.HalfDefensive {
			path = append(path, c.rect(geom.Rect{W: midX, H: viewport.FieldHeight})...)
			path = append(path, halfCirclePath(c.pt(mid), c.vp.Length(centreCircleRadius), -1)...)
			path = append(path, c.boxes(0, 1)...)
			spots = []geom.Point{mid, geom.Pt(penaltySpotOffset, mid.Y)}
		} else {
			path = append(path, c.rect(geom.Rect{X: midX, W: midX, H: viewport.FieldHeight})...)
			path = append(path, halfCirclePath(c.pt(mid), c.vp.Length(centreCircleRadius), 1)...)
			path = append(path, c.boxes(viewport.FieldWidth, -1)...)
			spots = []geom.Point{mid, geom.Pt(viewport.FieldWidth-penaltySpotOffset, mid.Y)}
		}

	default:
		return
	}

	c.emit(DrawCommand{
		Op:          OpPath,
		Path:        path,
		Stroke:      colorMarking,
		StrokeWidth: markingWidth,
	})
	for _, s := range spots {
		c.emit(DrawCommand{
			Op:   OpPath,
			Path: circlePath(c.pt(s), max(c.vp.Length(spotRadius), 1.5)),
			Fill: colorMarking,
		})
	}
}

// boxes draws the penalty and goal areas against the goal line at x, opening
// towards dir.
func (c *compiler) boxes(x, dir float64) []PathCommand {
	var out []PathCommand
	for _, box := range [][2]float64{{penaltyAreaDepth, penaltyAreaWidth}, {goalAreaDepth, goalAreaWidth}} {
		depth, width := box[0], box[1]
		top := (viewport.FieldHeight - width) / 2
		r := geom.Rect{X: x, Y: top, W: depth, H: width}
		if dir < 0 {
			r.X = x - depth
		}
		out = append(out, c.rect(r)...)
	}
	return out
}

func (c *compiler) grid() {
	var path []PathCommand
	for x := gridStep; x < viewport.FieldWidth; x += gridStep {
		path = append(path, c.segment(geom.Pt(x, 0), geom.Pt(x, viewport.FieldHeight))...)
	}
	for y := gridStep; y < viewport.FieldHeight; y += gridStep {
		path = append(path, c.segment(geom.Pt(0, y), geom.Pt(viewport.FieldWidth, y))...)
	}
	c.emit(DrawCommand{Op: OpPath, Path: path, Stroke: colorGrid, StrokeWidth: gridLineWidth})
}
