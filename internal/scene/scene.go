package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/pitchboard/pitchboard/internal/typeid"
)

var ErrInvalidScene = errors.New("invalid scene")

// NewID returns a fresh element id.
func NewID() string {
	return typeid.NewElementID()
}

// Find returns the element with the given id.
func (s Scene) Find(id string) (Element, bool) {
	i := s.Index(id)
	if i < 0 {
		return nil, false
	}
	return s.Elements[i], true
}

// Index returns the position of the element with the given id, or -1.
func (s Scene) Index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.Elements, func(e Element) bool {
		return e.Meta().ID == id
	})
}

// Layer returns the layer state for id. Unknown layers read as visible and unlocked.
func (s Scene) Layer(id LayerID) Layer {
	if l, ok := s.Layers[id]; ok {
		return l
	}
	return Layer{Name: string(id), Visible: true}
}

// WithElements returns a copy of s sharing everything but the element list.
func (s Scene) WithElements(es Elements) Scene {
	s.Elements = es
	return s
}

// WithLayer returns a copy of s with one layer replaced.
func (s Scene) WithLayer(id LayerID, l Layer) Scene {
	layers := make(map[LayerID]Layer, len(s.Layers)+1)
	for k, v := range s.Layers {
		layers[k] = v
	}
	layers[id] = l
	s.Layers = layers
	return s
}

// Clone returns a deep copy of s.
func (s Scene) Clone() Scene {
	out := s
	out.Layers = make(map[LayerID]Layer, len(s.Layers))
	for k, v := range s.Layers {
		out.Layers[k] = v
	}
	out.Elements = make(Elements, len(s.Elements))
	for i, e := range s.Elements {
		out.Elements[i] = CloneElement(e)
	}
	return out
}

// CloneElement copies the parts of an element that are held by reference.
func CloneElement(e Element) Element {
	switch v := e.(type) {
	case Path:
		v.Points = slices.Clone(v.Points)
		return v
	case Token:
		if v.Number != nil {
			n := *v.Number
			v.Number = &n
		}
		return v
	}
	return e
}

// Key returns a canonical encoding of s. Two scenes with equal keys are
// structurally equal.
func (s Scene) Key() string {
	data, err := json.Marshal(s)
	if err != nil {
		// Only non-finite numbers fail to encode; they never compare equal anyway.
		return fmt.Sprintf("unencodable:%p", &s)
	}
	return string(data)
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Scene) bool {
	return a.Key() == b.Key()
}

// Decode parses a persisted scene, normalizing legacy pitch types and
// filling in missing layers.
func Decode(data []byte) (Scene, error) {
	var s Scene
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return Scene{}, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	s = Normalize(s)
	if err := Validate(s); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// Normalize fills defaults a loaded scene may be missing.
func Normalize(s Scene) Scene {
	if s.Version == 0 {
		s.Version = Version
	}
	s.Pitch.Type = s.Pitch.Type.Normalize()
	if s.Pitch.Orientation == "" {
		s.Pitch.Orientation = OrientationHorizontal
	}
	if s.Pitch.Type == PitchHalf && s.Pitch.HalfSide == "" {
		s.Pitch.HalfSide = HalfOffensive
	}

	layers := DefaultLayers()
	for k, v := range s.Layers {
		layers[k] = v
	}
	s.Layers = layers

	if s.Elements == nil {
		s.Elements = Elements{}
	}
	return s
}

// Validate checks that every element is on a known layer with finite
// coordinates and non-negative sizes, and that ids are unique.
func Validate(s Scene) error {
	seen := make(map[string]bool, len(s.Elements))
	for i, e := range s.Elements {
		meta := e.Meta()
		if meta.ID == "" {
			return fmt.Errorf("%w: element %d has no id", ErrInvalidScene, i)
		}
		if seen[meta.ID] {
			return fmt.Errorf("%w: duplicate element id %q", ErrInvalidScene, meta.ID)
		}
		seen[meta.ID] = true
		if !meta.Layer.Valid() {
			return fmt.Errorf("%w: element %q on unknown layer %q", ErrInvalidScene, meta.ID, meta.Layer)
		}
		if err := validateElement(e); err != nil {
			return fmt.Errorf("%w: element %q: %v", ErrInvalidScene, meta.ID, err)
		}
	}
	return nil
}

func validateElement(e Element) error {
	switch v := e.(type) {
	case Token:
		if !v.TokenType.Valid() {
			return fmt.Errorf("unknown token type %q", v.TokenType)
		}
		return finite(v.X, v.Y, v.R)
	case Arrow:
		return finite(v.From.X, v.From.Y, v.To.X, v.To.Y)
	case Line:
		return finite(v.From.X, v.From.Y, v.To.X, v.To.Y)
	case Path:
		if len(v.Points) == 0 {
			return errors.New("path has no points")
		}
		for _, p := range v.Points {
			if err := finite(p.X, p.Y); err != nil {
				return err
			}
		}
		return nil
	case Zone:
		if v.W < 0 || v.H < 0 {
			return errors.New("negative size")
		}
		return finite(v.X, v.Y, v.W, v.H, v.Opacity)
	case Goal:
		if v.W < 0 || v.H < 0 {
			return errors.New("negative size")
		}
		return finite(v.X, v.Y, v.W, v.H, v.Rotation)
	case Text:
		return finite(v.X, v.Y)
	}
	return fmt.Errorf("unsupported element %T", e)
}

func finite(vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("non-finite coordinate")
		}
	}
	return nil
}
