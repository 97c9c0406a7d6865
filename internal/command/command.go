// Package command holds the pure scene transformations used by the editor.
// Every function takes a scene and returns a new one; the input scene is
// never modified.
package command

import (
	"slices"

	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
)

// Default styling for newly created elements.
const (
	DefaultZoneFill    = scene.FillCustom
	DefaultZoneOpacity = 0.35
)

// Result is a new scene plus the id of the element a creation command added.
type Result struct {
	Scene     scene.Scene
	CreatedID string
}

func appendElement(s scene.Scene, el scene.Element) Result {
	elements := make(scene.Elements, 0, len(s.Elements)+1)
	elements = append(elements, s.Elements...)
	elements = append(elements, el)
	return Result{Scene: s.WithElements(elements), CreatedID: el.Meta().ID}
}

func base(layer scene.LayerID) scene.ElementBase {
	return scene.ElementBase{ID: scene.NewID(), Layer: layer}
}

func AddToken(s scene.Scene, layer scene.LayerID, t scene.TokenType, p geom.Point) Result {
	return appendElement(s, scene.Token{
		ElementBase: base(layer),
		TokenType:   t,
		X:           p.X,
		Y:           p.Y,
		R:           scene.TokenRadius(t),
	})
}

// BeginArrow starts an arrow with both ends at p. The editor extends it while
// the pointer moves and enforces MinLineLength when the gesture ends.
func BeginArrow(s scene.Scene, layer scene.LayerID, p geom.Point) Result {
	return appendElement(s, scene.Arrow{ElementBase: base(layer), From: p, To: p})
}

// BeginLine is BeginArrow for plain lines, which are dashed by default.
func BeginLine(s scene.Scene, layer scene.LayerID, p geom.Point) Result {
	return appendElement(s, scene.Line{ElementBase: base(layer), From: p, To: p, Dashed: true})
}

func BeginPath(s scene.Scene, layer scene.LayerID, p geom.Point) Result {
	return appendElement(s, scene.Path{ElementBase: base(layer), Points: []geom.Point{p}})
}

// BeginZone starts a zero-size zone anchored at p.
func BeginZone(s scene.Scene, layer scene.LayerID, p geom.Point) Result {
	return appendElement(s, scene.Zone{
		ElementBase: base(layer),
		X:           p.X,
		Y:           p.Y,
		Fill:        DefaultZoneFill,
		Opacity:     DefaultZoneOpacity,
	})
}

// BeginGoal starts a zero-size goal anchored at p.
func BeginGoal(s scene.Scene, layer scene.LayerID, p geom.Point) Result {
	return appendElement(s, scene.Goal{ElementBase: base(layer), X: p.X, Y: p.Y})
}

func BeginText(s scene.Scene, layer scene.LayerID, p geom.Point, text string) Result {
	return appendElement(s, scene.Text{ElementBase: base(layer), X: p.X, Y: p.Y, Text: text})
}

// UpdateElement applies patch to the element with the given id. A missing id
// returns the scene unchanged.
func UpdateElement(s scene.Scene, id string, patch Patch) scene.Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	elements := slices.Clone(s.Elements)
	elements[i] = patch.Apply(elements[i])
	return s.WithElements(elements)
}

// DeleteElement removes the element with the given id. A missing id returns
// the scene unchanged.
func DeleteElement(s scene.Scene, id string) scene.Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	elements := make(scene.Elements, 0, len(s.Elements)-1)
	elements = append(elements, s.Elements[:i]...)
	elements = append(elements, s.Elements[i+1:]...)
	return s.WithElements(elements)
}

type LayerPatch struct {
	Name    *string `json:"name,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
	Locked  *bool   `json:"locked,omitempty"`
}

// UpdateLayer changes the visibility or lock state of one layer. Unknown
// layers return the scene unchanged.
func UpdateLayer(s scene.Scene, id scene.LayerID, patch LayerPatch) scene.Scene {
	if !id.Valid() {
		return s
	}
	l := s.Layer(id)
	if patch.Name != nil {
		l.Name = *patch.Name
	}
	if patch.Visible != nil {
		l.Visible = *patch.Visible
	}
	if patch.Locked != nil {
		l.Locked = *patch.Locked
	}
	return s.WithLayer(id, l)
}

type PitchPatch struct {
	Type        *scene.PitchType   `json:"type,omitempty"`
	Orientation *scene.Orientation `json:"orientation,omitempty"`
	HalfSide    *scene.HalfSide    `json:"halfSide,omitempty"`
	ShowGrid    *bool              `json:"showGrid,omitempty"`
}

// UpdatePitch changes the pitch presentation. Element coordinates are left
// alone since every pitch type shares one coordinate system.
func UpdatePitch(s scene.Scene, patch PitchPatch) scene.Scene {
	p := s.Pitch
	if patch.Type != nil {
		p.Type = patch.Type.Normalize()
		if p.Type == scene.PitchHalf && p.HalfSide == "" {
			p.HalfSide = scene.HalfOffensive
		}
	}
	if patch.Orientation != nil {
		p.Orientation = *patch.Orientation
	}
	if patch.HalfSide != nil {
		p.HalfSide = *patch.HalfSide
	}
	if patch.ShowGrid != nil {
		p.ShowGrid = *patch.ShowGrid
	}
	s.Pitch = p
	return s
}
