package engine

import (
	"testing"

	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
)

func sceneWith(els ...scene.Element) scene.Scene {
	s := scene.Default()
	s.Elements = els
	return s
}

func token(id string, layer scene.LayerID, x, y float64) scene.Token {
	return scene.Token{
		ElementBase: scene.ElementBase{ID: id, Layer: layer},
		TokenType:   scene.TokenPlayer,
		X:           x,
		Y:           y,
		R:           scene.TokenRadius(scene.TokenPlayer),
	}
}

func zone(id string, r geom.Rect) scene.Zone {
	return scene.Zone{
		ElementBase: scene.ElementBase{ID: id, Layer: scene.LayerTactics},
		X:           r.X,
		Y:           r.Y,
		W:           r.W,
		H:           r.H,
		Fill:        scene.FillPress,
		Opacity:     0.3,
	}
}

func goal(id string, r geom.Rect) scene.Goal {
	return scene.Goal{
		ElementBase: scene.ElementBase{ID: id, Layer: scene.LayerTactics},
		X:           r.X,
		Y:           r.Y,
		W:           r.W,
		H:           r.H,
	}
}

func TestHitTestLayerPriority(t *testing.T) {
	s := sceneWith(
		token("front", scene.LayerTactics, 50, 30),
		token("back", scene.LayerDrills, 50, 30),
	)

	if id, _ := HitTest(s, geom.Pt(50, 30)); id != "front" {
		t.Errorf("HitTest = %q, want front", id)
	}

	hidden := command.UpdateLayer(s, scene.LayerTactics, command.LayerPatch{Visible: new(bool)})
	if id, _ := HitTest(hidden, geom.Pt(50, 30)); id != "back" {
		t.Errorf("HitTest with tactics hidden = %q, want back", id)
	}
}

func TestHitTestNewestFirstWithinLayer(t *testing.T) {
	s := sceneWith(
		zone("old", geom.Rect{X: 10, Y: 10, W: 30, H: 30}),
		zone("new", geom.Rect{X: 20, Y: 20, W: 30, H: 30}),
	)

	if id, _ := HitTest(s, geom.Pt(25, 25)); id != "new" {
		t.Errorf("HitTest overlap = %q, want new", id)
	}
	if id, _ := HitTest(s, geom.Pt(12, 12)); id != "old" {
		t.Errorf("HitTest = %q, want old", id)
	}
}

func TestHitTestSkipsHiddenAndLocked(t *testing.T) {
	hidden := token("hidden", scene.LayerTactics, 50, 30)
	hidden.Hidden = true
	locked := token("locked", scene.LayerTactics, 50, 30)
	locked.Locked = true
	s := sceneWith(token("below", scene.LayerDrills, 50, 30), hidden, locked)

	if id, _ := HitTest(s, geom.Pt(50, 30)); id != "below" {
		t.Errorf("HitTest = %q, want below", id)
	}
}

func TestHitTestGeometry(t *testing.T) {
	line := scene.Line{ElementBase: scene.ElementBase{ID: "line", Layer: scene.LayerTactics}, From: geom.Pt(10, 50), To: geom.Pt(40, 50)}
	path := scene.Path{ElementBase: scene.ElementBase{ID: "path", Layer: scene.LayerTactics}, Points: []geom.Point{geom.Pt(60, 10), geom.Pt(70, 10), geom.Pt(70, 20)}}
	text := scene.Text{ElementBase: scene.ElementBase{ID: "text", Layer: scene.LayerTactics}, X: 10, Y: 10, Text: "note"}
	flat := zone("flat", geom.Rect{X: 80, Y: 40, W: 0, H: 0})
	s := sceneWith(line, path, text, flat)

	tests := []struct {
		name string
		p    geom.Point
		want string
	}{
		{"near line", geom.Pt(25, 51), "line"},
		{"off line", geom.Pt(25, 53), ""},
		{"past line end", geom.Pt(43, 50), ""},
		{"second path segment", geom.Pt(71, 15), "path"},
		{"inside text box", geom.Pt(20, 9), "text"},
		{"above text box", geom.Pt(20, 5), ""},
		{"zero size zone", geom.Pt(80, 40), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := HitTest(s, tt.p)
			if id != tt.want || ok != (tt.want != "") {
				t.Errorf("HitTest(%v) = %q, %v; want %q", tt.p, id, ok, tt.want)
			}
		})
	}
}

func TestHitTestHandleRequiresSelection(t *testing.T) {
	s := sceneWith(zone("z", geom.Rect{X: 10, Y: 10, W: 30, H: 30}))

	if _, ok := HitTestHandle(s, geom.Pt(10, 10), ""); ok {
		t.Error("handle hit without selection")
	}
	if _, ok := HitTestHandle(s, geom.Pt(10, 10), "missing"); ok {
		t.Error("handle hit for missing element")
	}

	locked := command.UpdateElement(s, "z", command.Patch{Locked: ptr(true)})
	if _, ok := HitTestHandle(locked, geom.Pt(10, 10), "z"); ok {
		t.Error("handle hit on locked element")
	}
}

func TestHitTestHandleZone(t *testing.T) {
	s := sceneWith(
		zone("z", geom.Rect{X: 10, Y: 10, W: 30, H: 20}),
		zone("tiny", geom.Rect{X: 60, Y: 10, W: 3, H: 3}),
	)

	tests := []struct {
		name   string
		id     string
		p      geom.Point
		handle command.Handle
	}{
		{"top left", "z", geom.Pt(10.5, 10.5), command.HandleTopLeft},
		{"bottom right", "z", geom.Pt(40, 30), command.HandleBottomRight},
		{"top edge", "z", geom.Pt(25, 11), command.HandleTop},
		{"right edge", "z", geom.Pt(39, 20), command.HandleRight},
		{"corner wins over edge", "tiny", geom.Pt(61, 10), command.HandleTopLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := HitTestHandle(s, tt.p, tt.id)
			if !ok || hit.Handle != tt.handle || hit.ID != tt.id {
				t.Errorf("HitTestHandle = %+v, %v; want %s", hit, ok, tt.handle)
			}
		})
	}

	if _, ok := HitTestHandle(s, geom.Pt(25, 20), "z"); ok {
		t.Error("zone centre should not be a handle")
	}
}

func TestHitTestHandleLineAndPath(t *testing.T) {
	arrow := scene.Arrow{ElementBase: scene.ElementBase{ID: "a", Layer: scene.LayerTactics}, From: geom.Pt(10, 10), To: geom.Pt(40, 10)}
	path := scene.Path{ElementBase: scene.ElementBase{ID: "p", Layer: scene.LayerTactics}, Points: []geom.Point{geom.Pt(10, 40), geom.Pt(20, 45), geom.Pt(30, 40)}}
	s := sceneWith(arrow, path)

	tests := []struct {
		id     string
		p      geom.Point
		handle command.Handle
	}{
		{"a", geom.Pt(11, 10), command.HandleFrom},
		{"a", geom.Pt(39, 11), command.HandleTo},
		{"a", geom.Pt(25, 10), command.HandleMiddle},
		{"p", geom.Pt(10, 40), command.HandleFrom},
		{"p", geom.Pt(30, 41), command.HandleTo},
		{"p", geom.Pt(20, 44), command.HandleMiddle},
	}

	for _, tt := range tests {
		hit, ok := HitTestHandle(s, tt.p, tt.id)
		if !ok || hit.Handle != tt.handle {
			t.Errorf("HitTestHandle(%s, %v) = %+v, %v; want %s", tt.id, tt.p, hit, ok, tt.handle)
		}
	}
}

func TestHitTestHandleGoal(t *testing.T) {
	s := sceneWith(
		goal("big", geom.Rect{X: 40, Y: 30, W: 20, H: 18}),
		goal("small", geom.Rect{X: 10, Y: 10, W: 8, H: 5}),
	)

	hit, ok := HitTestHandle(s, geom.Pt(50, 39), "big")
	if !ok || hit.Handle != command.HandleNone {
		t.Errorf("goal centre = %+v, %v; want none", hit, ok)
	}

	hit, ok = HitTestHandle(s, geom.Pt(40.5, 30.5), "big")
	if !ok || hit.Handle != command.HandleTopLeft {
		t.Errorf("goal corner = %+v, %v; want topLeft", hit, ok)
	}

	// Handle radius shrinks to a quarter of the short side: 1.25 here.
	if hit, ok := HitTestHandle(s, geom.Pt(11.5, 11.5), "small"); ok {
		t.Errorf("small goal point = %+v, want no handle", hit)
	}
	hit, ok = HitTestHandle(s, geom.Pt(10.5, 10.5), "small")
	if !ok || hit.Handle != command.HandleTopLeft {
		t.Errorf("small goal corner = %+v, %v; want topLeft", hit, ok)
	}
}

func ptr[T any](v T) *T { return &v }
