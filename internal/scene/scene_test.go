package scene

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pitchboard/pitchboard/internal/geom"
)

func sampleScene() Scene {
	n := 9
	s := Default()
	s.Elements = Elements{
		Token{ElementBase: ElementBase{ID: "t1", Layer: LayerTactics}, TokenType: TokenPlayer, X: 50, Y: 30, R: TokenRadius(TokenPlayer), Number: &n},
		Arrow{ElementBase: ElementBase{ID: "a1", Layer: LayerTactics}, From: geom.Pt(10, 10), To: geom.Pt(40, 10), Dashed: true},
		Line{ElementBase: ElementBase{ID: "l1", Layer: LayerDrills}, From: geom.Pt(0, 0), To: geom.Pt(20, 0)},
		Path{ElementBase: ElementBase{ID: "p1", Layer: LayerTactics}, Points: []geom.Point{geom.Pt(1, 1), geom.Pt(5, 5), geom.Pt(9, 1)}},
		Zone{ElementBase: ElementBase{ID: "z1", Layer: LayerDrills}, X: 10, Y: 10, W: 30, H: 30, Fill: FillPress, Opacity: 0.3},
		Goal{ElementBase: ElementBase{ID: "g1", Layer: LayerBase, Locked: true}, X: 0, Y: 30, W: 8, H: 5},
		Text{ElementBase: ElementBase{ID: "x1", Layer: LayerTactics}, X: 20, Y: 20, Text: "press here"},
	}
	return s
}

func TestDefaultScene(t *testing.T) {
	s := Default()

	if s.Pitch.Type != PitchFull {
		t.Errorf("pitch type = %q, want full", s.Pitch.Type)
	}
	if len(s.Elements) != 0 {
		t.Errorf("elements = %d, want 0", len(s.Elements))
	}
	for _, id := range DrawOrder {
		l, ok := s.Layers[id]
		if !ok {
			t.Fatalf("missing layer %q", id)
		}
		if !l.Visible {
			t.Errorf("layer %q not visible", id)
		}
	}
	if !s.Layers[LayerBase].Locked {
		t.Error("base layer should start locked")
	}
}

func TestElementsJSONRoundTrip(t *testing.T) {
	s := sampleScene()

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"zone"`) {
		t.Errorf("encoded scene missing kind discriminator: %s", data)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !Equal(got, s) {
		t.Errorf("round trip changed scene\n got  %s\n want %s", got.Key(), s.Key())
	}

	tok, ok := got.Elements[0].(Token)
	if !ok {
		t.Fatalf("element 0 = %T, want Token", got.Elements[0])
	}
	if tok.Number == nil || *tok.Number != 9 {
		t.Errorf("token number = %v, want 9", tok.Number)
	}
}

func TestEmptyElementsEncodeAsArray(t *testing.T) {
	s := Default()
	s.Elements = nil

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"elements":[]`) {
		t.Errorf("nil elements encoded as %s", data)
	}
}

func TestDecodeNormalizesLegacyScene(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  PitchType
	}{
		{"quarter", `{"version":1,"pitch":{"type":"quarter","showGrid":false},"layers":{},"elements":[]}`, PitchFree},
		{"small sided", `{"version":1,"pitch":{"type":"smallSided","showGrid":true},"layers":{},"elements":[]}`, PitchFree},
		{"missing type", `{"version":1,"pitch":{},"elements":[]}`, PitchFull},
		{"half", `{"version":1,"pitch":{"type":"half"},"elements":[]}`, PitchHalf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if s.Pitch.Type != tt.want {
				t.Errorf("pitch type = %q, want %q", s.Pitch.Type, tt.want)
			}
			if len(s.Layers) != 3 {
				t.Errorf("layers = %d, want 3", len(s.Layers))
			}
			if s.Elements == nil {
				t.Error("elements should be non-nil")
			}
		})
	}
}

func TestDecodeRejectsBadScenes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown kind", `{"pitch":{"type":"full"},"elements":[{"kind":"blob","id":"b","layer":"tactics"}]}`},
		{"unknown layer", `{"pitch":{"type":"full"},"elements":[{"kind":"text","id":"t","layer":"overlay","x":1,"y":1,"text":"a"}]}`},
		{"negative zone", `{"pitch":{"type":"full"},"elements":[{"kind":"zone","id":"z","layer":"tactics","x":1,"y":1,"w":-4,"h":2}]}`},
		{"empty path", `{"pitch":{"type":"full"},"elements":[{"kind":"path","id":"p","layer":"tactics","points":[]}]}`},
		{"duplicate ids", `{"pitch":{"type":"full"},"elements":[{"kind":"text","id":"t","layer":"tactics","text":"a"},{"kind":"text","id":"t","layer":"tactics","text":"b"}]}`},
		{"not json", `{"pitch":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if !errors.Is(err, ErrInvalidScene) {
				t.Errorf("Decode error = %v, want ErrInvalidScene", err)
			}
		})
	}
}

func TestValidateRejectsNonFinite(t *testing.T) {
	s := Default()
	s.Elements = Elements{Text{ElementBase: ElementBase{ID: "t", Layer: LayerTactics}, X: math.NaN(), Y: 1}}

	if err := Validate(s); !errors.Is(err, ErrInvalidScene) {
		t.Errorf("Validate = %v, want ErrInvalidScene", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleScene()
	c := s.Clone()

	p := c.Elements[3].(Path)
	p.Points[0] = geom.Pt(99, 99)
	c.Layers[LayerTactics] = Layer{Name: "x"}

	if s.Elements[3].(Path).Points[0] != geom.Pt(1, 1) {
		t.Error("clone shares path points with original")
	}
	if s.Layers[LayerTactics].Name != "Tactics" {
		t.Error("clone shares layer map with original")
	}
}

func TestWithLayerLeavesOriginal(t *testing.T) {
	s := Default()
	next := s.WithLayer(LayerTactics, Layer{Name: "Tactics", Visible: false})

	if !s.Layers[LayerTactics].Visible {
		t.Error("original scene layer changed")
	}
	if next.Layers[LayerTactics].Visible {
		t.Error("new scene layer not updated")
	}
}

func TestFind(t *testing.T) {
	s := sampleScene()

	el, ok := s.Find("z1")
	if !ok || el.Kind() != KindZone {
		t.Fatalf("Find(z1) = %v, %v", el, ok)
	}
	if _, ok := s.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
	if _, ok := s.Find(""); ok {
		t.Error("Find(\"\") should fail")
	}
}

func TestNewIDPrefix(t *testing.T) {
	if id := NewID(); !strings.HasPrefix(id, "el_") {
		t.Errorf("NewID() = %q, want el_ prefix", id)
	}
}
