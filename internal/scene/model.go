package scene

import "github.com/pitchboard/pitchboard/internal/geom"

// Version is the schema version written into every persisted scene.
const Version = 1

type LayerID string

const (
	LayerBase    LayerID = "base"
	LayerDrills  LayerID = "drills"
	LayerTactics LayerID = "tactics"
)

// DrawOrder lists layers back to front.
var DrawOrder = []LayerID{LayerBase, LayerDrills, LayerTactics}

// HitOrder lists layers front to back.
var HitOrder = []LayerID{LayerTactics, LayerDrills, LayerBase}

// Valid reports whether id is one of the fixed layers.
func (id LayerID) Valid() bool {
	switch id {
	case LayerBase, LayerDrills, LayerTactics:
		return true
	}
	return false
}

type Layer struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

type PitchType string

const (
	PitchFull PitchType = "full"
	PitchHalf PitchType = "half"
	PitchFree PitchType = "free"

	// Written by older versions of the editor.
	pitchQuarter    PitchType = "quarter"
	pitchSmallSided PitchType = "smallSided"
)

// Normalize maps legacy pitch types onto the current set.
func (t PitchType) Normalize() PitchType {
	switch t {
	case PitchFull, PitchHalf, PitchFree:
		return t
	case pitchQuarter, pitchSmallSided:
		return PitchFree
	case "":
		return PitchFull
	}
	return PitchFree
}

type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

type HalfSide string

const (
	HalfOffensive HalfSide = "offensive"
	HalfDefensive HalfSide = "defensive"
)

type Pitch struct {
	Type        PitchType   `json:"type"`
	Orientation Orientation `json:"orientation,omitempty"`
	HalfSide    HalfSide    `json:"halfSide,omitempty"`
	ShowGrid    bool        `json:"showGrid"`
}

// Scene is the whole diagram. Treat it as a value: commands return a new
// Scene and never write through the Layers map or the Elements slice of an
// existing one.
type Scene struct {
	Version  int               `json:"version"`
	Pitch    Pitch             `json:"pitch"`
	Layers   map[LayerID]Layer `json:"layers"`
	Elements Elements          `json:"elements"`
}

// DefaultLayers returns the layer set of a new scene. The base layer starts locked.
func DefaultLayers() map[LayerID]Layer {
	return map[LayerID]Layer{
		LayerBase:    {Name: "Base", Visible: true, Locked: true},
		LayerDrills:  {Name: "Drills", Visible: true, Locked: false},
		LayerTactics: {Name: "Tactics", Visible: true, Locked: false},
	}
}

// Default creates the empty scene a new editor session starts with.
func Default() Scene {
	return Scene{
		Version: Version,
		Pitch: Pitch{
			Type:        PitchFull,
			Orientation: OrientationHorizontal,
			ShowGrid:    false,
		},
		Layers:   DefaultLayers(),
		Elements: Elements{},
	}
}

// Point is re-exported so callers building scenes need a single import.
type Point = geom.Point
