// Package render turns an editor frame into a display list of canvas-pixel
// draw commands and paints that list with raster and vector backends.
package render

import (
	"encoding/json"
	"math"

	"github.com/pitchboard/pitchboard/internal/geom"
)

type Op string

const (
	OpPath  Op = "path"
	OpText  Op = "text"
	OpImage Op = "image"
)

// DrawCommand represents a single drawing operation. Clients receive a list
// of these and execute them in order on a Canvas2D context.
type DrawCommand struct {
	Op          Op            `json:"op"`
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops and image fallbacks
	Fill        string        `json:"fill,omitempty"`        // CSS color
	Stroke      string        `json:"stroke,omitempty"`      // CSS color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Pixels
	Dash        []float64     `json:"dash,omitempty"`        // Canvas line dash pattern
	Opacity     float64       `json:"opacity,omitempty"`     // Global alpha, 0 means opaque

	// Text and image placement
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Align    Align   `json:"align,omitempty"`
	Icon     string  `json:"icon,omitempty"` // Icon name, drawn centred on X,Y
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Rotation float64 `json:"rotation,omitempty"` // Degrees, about X,Y
}

// Align positions text relative to X,Y.
type Align string

const (
	AlignStart  Align = ""       // left edge on X, baseline on Y
	AlignCenter Align = "center" // centred on X and Y
)

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []any

func (c DrawCommand) alpha() float64 {
	if c.Opacity <= 0 {
		return 1
	}
	return min(c.Opacity, 1)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// --- Path builders (canvas pixels) ---

func rectPath(r geom.Rect) []PathCommand {
	return []PathCommand{
		{"M", r.X, r.Y},
		{"L", r.Right(), r.Y},
		{"L", r.Right(), r.Bottom()},
		{"L", r.X, r.Bottom()},
		{"Z"},
	}
}

func polygonPath(points ...geom.Point) []PathCommand {
	if len(points) == 0 {
		return nil
	}
	out := polylinePath(points)
	return append(out, PathCommand{"Z"})
}

func polylinePath(points []geom.Point) []PathCommand {
	out := make([]PathCommand, 0, len(points))
	for i, p := range points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		out = append(out, PathCommand{op, p.X, p.Y})
	}
	return out
}

// bezierK approximates a quarter circle with one cubic curve.
// k = 4 * (sqrt(2) - 1) / 3
const bezierK = 0.5522847498

func circlePath(c geom.Point, r float64) []PathCommand {
	k := r * bezierK
	return []PathCommand{
		{"M", c.X + r, c.Y},
		{"C", c.X + r, c.Y + k, c.X + k, c.Y + r, c.X, c.Y + r},
		{"C", c.X - k, c.Y + r, c.X - r, c.Y + k, c.X - r, c.Y},
		{"C", c.X - r, c.Y - k, c.X - k, c.Y - r, c.X, c.Y - r},
		{"C", c.X + k, c.Y - r, c.X + r, c.Y - k, c.X + r, c.Y},
		{"Z"},
	}
}

// halfCirclePath draws the half of a circle right of c (dir 1) or left of it
// (dir -1), top to bottom, without closing it.
func halfCirclePath(c geom.Point, r, dir float64) []PathCommand {
	k := r * bezierK
	return []PathCommand{
		{"M", c.X, c.Y - r},
		{"C", c.X + dir*k, c.Y - r, c.X + dir*r, c.Y - k, c.X + dir*r, c.Y},
		{"C", c.X + dir*r, c.Y + k, c.X + dir*k, c.Y + r, c.X, c.Y + r},
	}
}

func segmentPath(a, b geom.Point) []PathCommand {
	return []PathCommand{{"M", a.X, a.Y}, {"L", b.X, b.Y}}
}

// pathBounds returns the axis-aligned bounding box of a path, including
// bezier control points.
func pathBounds(path []PathCommand) geom.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, cmd := range path {
		for i := 1; i+1 < len(cmd); i += 2 {
			x, y := toFloat64(cmd[i]), toFloat64(cmd[i+1])
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if minX > maxX {
		return geom.Rect{}
	}
	return geom.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// toFloat64 reads a path operand. Operands decoded from JSON arrive as
// float64, hand-built ones may be ints.
func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}
