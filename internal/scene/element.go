package scene

import (
	"encoding/json"
	"fmt"

	"github.com/pitchboard/pitchboard/internal/geom"
)

type Kind string

const (
	KindToken Kind = "token"
	KindArrow Kind = "arrow"
	KindLine  Kind = "line"
	KindPath  Kind = "path"
	KindZone  Kind = "zone"
	KindGoal  Kind = "goal"
	KindText  Kind = "text"
)

type TokenType string

const (
	TokenPlayer   TokenType = "player"
	TokenOpponent TokenType = "opponent"
	TokenCone     TokenType = "cone"
	TokenBall     TokenType = "ball"
	TokenFlag     TokenType = "flag"
	TokenDisc     TokenType = "disc"
)

// TokenRadius returns the fixed radius, in field units, of a token type.
func TokenRadius(t TokenType) float64 {
	switch t {
	case TokenCone:
		return 1.2
	case TokenBall:
		return 1.3
	case TokenFlag:
		return 2.4
	case TokenDisc:
		return 2.7
	default:
		return 2.1
	}
}

// Valid reports whether t is a known token type.
func (t TokenType) Valid() bool {
	switch t {
	case TokenPlayer, TokenOpponent, TokenCone, TokenBall, TokenFlag, TokenDisc:
		return true
	}
	return false
}

type ZoneFill string

const (
	FillPress  ZoneFill = "press"
	FillBuild  ZoneFill = "build"
	FillDanger ZoneFill = "danger"
	FillCustom ZoneFill = "custom"
)

// Element is one of Token, Arrow, Line, Path, Zone, Goal or Text.
// Consumers switch on the concrete type.
type Element interface {
	Meta() ElementBase
	Kind() Kind
}

// ElementBase carries the fields every element kind shares.
type ElementBase struct {
	ID     string  `json:"id"`
	Layer  LayerID `json:"layer"`
	Locked bool    `json:"locked,omitempty"`
	Hidden bool    `json:"hidden,omitempty"`
}

func (b ElementBase) Meta() ElementBase { return b }

type Token struct {
	ElementBase
	TokenType TokenType `json:"tokenType"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	R         float64   `json:"r"`
	Label     string    `json:"label,omitempty"`
	Number    *int      `json:"number,omitempty"`
}

type Arrow struct {
	ElementBase
	From   geom.Point `json:"from"`
	To     geom.Point `json:"to"`
	Dashed bool       `json:"dashed"`
	Label  string     `json:"label,omitempty"`
}

type Line struct {
	ElementBase
	From   geom.Point `json:"from"`
	To     geom.Point `json:"to"`
	Dashed bool       `json:"dashed"`
	Label  string     `json:"label,omitempty"`
}

type Path struct {
	ElementBase
	Points []geom.Point `json:"points"`
	Dashed bool         `json:"dashed"`
	Label  string       `json:"label,omitempty"`
}

type Zone struct {
	ElementBase
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	W       float64  `json:"w"`
	H       float64  `json:"h"`
	Fill    ZoneFill `json:"fill"`
	Opacity float64  `json:"opacity"`
	Label   string   `json:"label,omitempty"`
}

type Goal struct {
	ElementBase
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Rotation float64 `json:"rotation"`
}

type Text struct {
	ElementBase
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

func (Token) Kind() Kind { return KindToken }
func (Arrow) Kind() Kind { return KindArrow }
func (Line) Kind() Kind  { return KindLine }
func (Path) Kind() Kind  { return KindPath }
func (Zone) Kind() Kind  { return KindZone }
func (Goal) Kind() Kind  { return KindGoal }
func (Text) Kind() Kind  { return KindText }

// Rect returns the zone rectangle.
func (z Zone) Rect() geom.Rect { return geom.Rect{X: z.X, Y: z.Y, W: z.W, H: z.H} }

// Rect returns the goal rectangle, ignoring rotation.
func (g Goal) Rect() geom.Rect { return geom.Rect{X: g.X, Y: g.Y, W: g.W, H: g.H} }

// The MarshalJSON methods add the "kind" discriminator next to the variant fields.

func (t Token) MarshalJSON() ([]byte, error) {
	type alias Token
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindToken, alias(t)})
}

func (a Arrow) MarshalJSON() ([]byte, error) {
	type alias Arrow
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindArrow, alias(a)})
}

func (l Line) MarshalJSON() ([]byte, error) {
	type alias Line
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindLine, alias(l)})
}

func (p Path) MarshalJSON() ([]byte, error) {
	type alias Path
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindPath, alias(p)})
}

func (z Zone) MarshalJSON() ([]byte, error) {
	type alias Zone
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindZone, alias(z)})
}

func (g Goal) MarshalJSON() ([]byte, error) {
	type alias Goal
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindGoal, alias(g)})
}

func (t Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindText, alias(t)})
}

// Elements is the ordered element list of a scene, oldest first.
type Elements []Element

func (es Elements) MarshalJSON() ([]byte, error) {
	if es == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Element(es))
}

func (es *Elements) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(Elements, 0, len(raws))
	for i, raw := range raws {
		el, err := decodeElement(raw)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, el)
	}
	*es = out
	return nil
}

func decodeElement(raw json.RawMessage) (Element, error) {
	var head struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	switch head.Kind {
	case KindToken:
		var t Token
		err := json.Unmarshal(raw, &t)
		return t, err
	case KindArrow:
		var a Arrow
		err := json.Unmarshal(raw, &a)
		return a, err
	case KindLine:
		var l Line
		err := json.Unmarshal(raw, &l)
		return l, err
	case KindPath:
		var p Path
		err := json.Unmarshal(raw, &p)
		return p, err
	case KindZone:
		var z Zone
		err := json.Unmarshal(raw, &z)
		return z, err
	case KindGoal:
		var g Goal
		err := json.Unmarshal(raw, &g)
		return g, err
	case KindText:
		var t Text
		err := json.Unmarshal(raw, &t)
		return t, err
	default:
		return nil, fmt.Errorf("unknown element kind %q", head.Kind)
	}
}
