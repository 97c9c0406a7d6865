package command

import (
	"slices"

	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
)

// Patch is a partial element update. Nil fields are left alone and fields
// that do not exist on the target kind are ignored.
type Patch struct {
	Layer  *scene.LayerID `json:"layer,omitempty"`
	Locked *bool          `json:"locked,omitempty"`
	Hidden *bool          `json:"hidden,omitempty"`

	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	W *float64 `json:"w,omitempty"`
	H *float64 `json:"h,omitempty"`
	R *float64 `json:"r,omitempty"`

	From   *geom.Point  `json:"from,omitempty"`
	To     *geom.Point  `json:"to,omitempty"`
	Points []geom.Point `json:"points,omitempty"`

	TokenType *scene.TokenType `json:"tokenType,omitempty"`
	Number    *int             `json:"number,omitempty"`
	Dashed    *bool            `json:"dashed,omitempty"`
	Label     *string          `json:"label,omitempty"`
	Fill      *scene.ZoneFill  `json:"fill,omitempty"`
	Opacity   *float64         `json:"opacity,omitempty"`
	Rotation  *float64         `json:"rotation,omitempty"`
	Text      *string          `json:"text,omitempty"`
}

// Small constructors for the patches the editor builds on every pointer move.

func MoveTo(p geom.Point) Patch {
	return Patch{X: &p.X, Y: &p.Y}
}

func SetRect(r geom.Rect) Patch {
	return Patch{X: &r.X, Y: &r.Y, W: &r.W, H: &r.H}
}

func SetEndpoints(from, to geom.Point) Patch {
	return Patch{From: &from, To: &to}
}

func SetFrom(p geom.Point) Patch { return Patch{From: &p} }
func SetTo(p geom.Point) Patch   { return Patch{To: &p} }

func SetPoints(points []geom.Point) Patch {
	return Patch{Points: points}
}

// Apply returns el with the patch applied.
func (p Patch) Apply(el scene.Element) scene.Element {
	switch v := el.(type) {
	case scene.Token:
		v.ElementBase = p.applyBase(v.ElementBase)
		setFloat(&v.X, p.X)
		setFloat(&v.Y, p.Y)
		setSize(&v.R, p.R)
		if p.TokenType != nil {
			v.TokenType = *p.TokenType
		}
		if p.Number != nil {
			n := *p.Number
			v.Number = &n
		}
		setString(&v.Label, p.Label)
		return v
	case scene.Arrow:
		v.ElementBase = p.applyBase(v.ElementBase)
		setPoint(&v.From, p.From)
		setPoint(&v.To, p.To)
		setBool(&v.Dashed, p.Dashed)
		setString(&v.Label, p.Label)
		return v
	case scene.Line:
		v.ElementBase = p.applyBase(v.ElementBase)
		setPoint(&v.From, p.From)
		setPoint(&v.To, p.To)
		setBool(&v.Dashed, p.Dashed)
		setString(&v.Label, p.Label)
		return v
	case scene.Path:
		v.ElementBase = p.applyBase(v.ElementBase)
		if len(p.Points) > 0 {
			v.Points = slices.Clone(p.Points)
		}
		setBool(&v.Dashed, p.Dashed)
		setString(&v.Label, p.Label)
		return v
	case scene.Zone:
		v.ElementBase = p.applyBase(v.ElementBase)
		setFloat(&v.X, p.X)
		setFloat(&v.Y, p.Y)
		setSize(&v.W, p.W)
		setSize(&v.H, p.H)
		setFloat(&v.Opacity, p.Opacity)
		if p.Fill != nil {
			v.Fill = *p.Fill
		}
		setString(&v.Label, p.Label)
		return v
	case scene.Goal:
		v.ElementBase = p.applyBase(v.ElementBase)
		setFloat(&v.X, p.X)
		setFloat(&v.Y, p.Y)
		setSize(&v.W, p.W)
		setSize(&v.H, p.H)
		setFloat(&v.Rotation, p.Rotation)
		return v
	case scene.Text:
		v.ElementBase = p.applyBase(v.ElementBase)
		setFloat(&v.X, p.X)
		setFloat(&v.Y, p.Y)
		setString(&v.Text, p.Text)
		return v
	}
	return el
}

func (p Patch) applyBase(b scene.ElementBase) scene.ElementBase {
	if p.Layer != nil && p.Layer.Valid() {
		b.Layer = *p.Layer
	}
	setBool(&b.Locked, p.Locked)
	setBool(&b.Hidden, p.Hidden)
	return b
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// setSize is setFloat for lengths, which never go below zero.
func setSize(dst *float64, v *float64) {
	if v != nil {
		*dst = max(*v, 0)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setPoint(dst *geom.Point, v *geom.Point) {
	if v != nil {
		*dst = *v
	}
}
