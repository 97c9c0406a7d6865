// Package viewport maps between canvas pixels and logical field units.
//
// Every pitch type shares the full-field coordinate system, so switching
// between full, half and free presentation never moves elements; only the
// markings drawn inside the green area change.
package viewport

import (
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
)

const (
	FieldWidth  = 105.0
	FieldHeight = 68.0

	// Values below 1 make the green area taller than the true pitch aspect.
	greenHeightFactor = 0.9
	paddingRatio      = 0.01
	canvasUsage       = 0.97
)

// Viewport places the green area inside a canvas. All lengths are canvas pixels
// except Scale, which is pixels per field unit.
type Viewport struct {
	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`
	GreenX       float64 `json:"greenX"`
	GreenY       float64 `json:"greenY"`
	GreenWidth   float64 `json:"greenWidth"`
	GreenHeight  float64 `json:"greenHeight"`
	Scale        float64 `json:"scale"`
}

// Calculate sizes the green area for a canvas. The pitch type and orientation
// only affect markings, never the mapping.
func Calculate(canvasW, canvasH float64, _ scene.PitchType, _ scene.Orientation) Viewport {
	if canvasW <= 0 || canvasH <= 0 {
		return Viewport{Scale: 1}
	}

	aspect := FieldWidth / FieldHeight * greenHeightFactor
	padding := min(canvasW, canvasH) * paddingRatio

	var greenW, greenH float64
	if canvasW/canvasH > aspect {
		greenH = canvasH*canvasUsage - padding*2
		greenW = greenH * aspect
	} else {
		greenW = canvasW*canvasUsage - padding*2
		greenH = greenW / aspect
	}

	scale := min(greenW/FieldWidth, greenH/FieldHeight)
	if scale <= 0 {
		return Viewport{CanvasWidth: canvasW, CanvasHeight: canvasH, Scale: 1}
	}

	return Viewport{
		CanvasWidth:  canvasW,
		CanvasHeight: canvasH,
		GreenX:       (canvasW - greenW) / 2,
		GreenY:       (canvasH - greenH) / 2,
		GreenWidth:   greenW,
		GreenHeight:  greenH,
		Scale:        scale,
	}
}

// Green returns the green area rectangle in canvas pixels.
func (v Viewport) Green() geom.Rect {
	return geom.Rect{X: v.GreenX, Y: v.GreenY, W: v.GreenWidth, H: v.GreenHeight}
}

func (v Viewport) CanvasToField(p geom.Point) geom.Point {
	return geom.Point{
		X: (p.X - v.GreenX) / v.Scale,
		Y: (p.Y - v.GreenY) / v.Scale,
	}
}

func (v Viewport) FieldToCanvas(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X*v.Scale + v.GreenX,
		Y: p.Y*v.Scale + v.GreenY,
	}
}

// Length converts a field-unit length to pixels.
func (v Viewport) Length(units float64) float64 {
	return units * v.Scale
}

// Dimensions is the extent of the drawn pitch for a pitch type, in field units.
type Dimensions struct {
	Width  float64
	Height float64
}

// FieldDimensions returns the drawn extent of a pitch type. Half pitches are
// half the length at full width.
func FieldDimensions(t scene.PitchType) Dimensions {
	if t.Normalize() == scene.PitchHalf {
		return Dimensions{Width: FieldWidth / 2, Height: FieldHeight}
	}
	return Dimensions{Width: FieldWidth, Height: FieldHeight}
}

// FieldBounds is the full-field rectangle every element is clamped to.
func FieldBounds() geom.Rect {
	return geom.Rect{W: FieldWidth, H: FieldHeight}
}

// ClampToField keeps p inside [0,FieldWidth] x [0,FieldHeight].
func ClampToField(p geom.Point) geom.Point {
	return geom.Point{
		X: geom.Clamp(p.X, 0, FieldWidth),
		Y: geom.Clamp(p.Y, 0, FieldHeight),
	}
}
