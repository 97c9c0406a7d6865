package command

import (
	"math"
	"testing"

	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/viewport"
)

func TestAddTokenOnDefaultScene(t *testing.T) {
	s := scene.Default()
	res := AddToken(s, scene.LayerTactics, scene.TokenPlayer, geom.Pt(50, 30))

	if len(res.Scene.Elements) != 1 {
		t.Fatalf("elements = %d, want 1", len(res.Scene.Elements))
	}
	tok, ok := res.Scene.Elements[0].(scene.Token)
	if !ok {
		t.Fatalf("element = %T, want Token", res.Scene.Elements[0])
	}
	if tok.TokenType != scene.TokenPlayer || tok.X != 50 || tok.Y != 30 {
		t.Errorf("token = %+v", tok)
	}
	if tok.R <= 0 {
		t.Errorf("radius = %v, want positive", tok.R)
	}
	if tok.ID != res.CreatedID {
		t.Errorf("created id = %q, element id = %q", res.CreatedID, tok.ID)
	}
	if len(s.Elements) != 0 {
		t.Error("input scene was modified")
	}
}

func TestTokenRadiusOrdering(t *testing.T) {
	order := []scene.TokenType{scene.TokenCone, scene.TokenBall, scene.TokenPlayer, scene.TokenFlag, scene.TokenDisc}
	for i := 1; i < len(order); i++ {
		if scene.TokenRadius(order[i-1]) >= scene.TokenRadius(order[i]) {
			t.Errorf("radius(%s) >= radius(%s)", order[i-1], order[i])
		}
	}
}

func TestCreationCommandsAppendOnTargetLayer(t *testing.T) {
	p := geom.Pt(12, 34)
	tests := []struct {
		name string
		run  func(scene.Scene) Result
		kind scene.Kind
	}{
		{"arrow", func(s scene.Scene) Result { return BeginArrow(s, scene.LayerDrills, p) }, scene.KindArrow},
		{"line", func(s scene.Scene) Result { return BeginLine(s, scene.LayerDrills, p) }, scene.KindLine},
		{"path", func(s scene.Scene) Result { return BeginPath(s, scene.LayerDrills, p) }, scene.KindPath},
		{"zone", func(s scene.Scene) Result { return BeginZone(s, scene.LayerDrills, p) }, scene.KindZone},
		{"goal", func(s scene.Scene) Result { return BeginGoal(s, scene.LayerDrills, p) }, scene.KindGoal},
		{"text", func(s scene.Scene) Result { return BeginText(s, scene.LayerDrills, p, "note") }, scene.KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.Default()
			s = AddToken(s, scene.LayerTactics, scene.TokenBall, geom.Pt(1, 1)).Scene

			res := tt.run(s)
			if len(res.Scene.Elements) != 2 {
				t.Fatalf("elements = %d, want 2", len(res.Scene.Elements))
			}
			el := res.Scene.Elements[1]
			if el.Kind() != tt.kind {
				t.Errorf("kind = %q, want %q", el.Kind(), tt.kind)
			}
			if el.Meta().Layer != scene.LayerDrills {
				t.Errorf("layer = %q, want drills", el.Meta().Layer)
			}
			if el.Meta().ID != res.CreatedID || res.CreatedID == "" {
				t.Errorf("created id = %q", res.CreatedID)
			}
			if err := scene.Validate(res.Scene); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestUpdateAndDeleteMissingIDAreNoOps(t *testing.T) {
	s := AddToken(scene.Default(), scene.LayerTactics, scene.TokenPlayer, geom.Pt(5, 5)).Scene

	x := 99.0
	if got := UpdateElement(s, "nope", Patch{X: &x}); !scene.Equal(got, s) {
		t.Error("UpdateElement with missing id changed the scene")
	}
	if got := DeleteElement(s, "nope"); !scene.Equal(got, s) {
		t.Error("DeleteElement with missing id changed the scene")
	}
}

func TestUpdateElementLeavesInputUntouched(t *testing.T) {
	res := BeginPath(scene.Default(), scene.LayerTactics, geom.Pt(1, 1))
	before := res.Scene.Key()

	next := UpdateElement(res.Scene, res.CreatedID, SetPoints([]geom.Point{geom.Pt(1, 1), geom.Pt(4, 4)}))

	if res.Scene.Key() != before {
		t.Error("input scene changed")
	}
	p := next.Elements[0].(scene.Path)
	if len(p.Points) != 2 {
		t.Errorf("points = %v", p.Points)
	}
}

func TestPatchIgnoresFieldsOfOtherKinds(t *testing.T) {
	res := BeginText(scene.Default(), scene.LayerTactics, geom.Pt(3, 3), "hi")
	w := 40.0
	text := "bye"
	locked := true

	next := UpdateElement(res.Scene, res.CreatedID, Patch{W: &w, Text: &text, Locked: &locked})
	got := next.Elements[0].(scene.Text)
	if got.Text != "bye" || !got.Locked || got.X != 3 {
		t.Errorf("text = %+v", got)
	}
}

func TestPatchSizesNeverNegative(t *testing.T) {
	res := BeginGoal(scene.Default(), scene.LayerTactics, geom.Pt(10, 10))
	w, h := -5.0, 12.0
	next := UpdateElement(res.Scene, res.CreatedID, Patch{W: &w, H: &h})
	if g := next.Elements[0].(scene.Goal); g.W != 0 || g.H != 12 {
		t.Errorf("goal = %+v", g)
	}

	tok := AddToken(scene.Default(), scene.LayerTactics, scene.TokenPlayer, geom.Pt(5, 5))
	r := -1.0
	next = UpdateElement(tok.Scene, tok.CreatedID, Patch{R: &r})
	if got := next.Elements[0].(scene.Token).R; got != 0 {
		t.Errorf("r = %v, want 0", got)
	}
}

func TestDeleteElement(t *testing.T) {
	s := scene.Default()
	a := AddToken(s, scene.LayerTactics, scene.TokenCone, geom.Pt(1, 1))
	b := AddToken(a.Scene, scene.LayerTactics, scene.TokenCone, geom.Pt(2, 2))

	next := DeleteElement(b.Scene, a.CreatedID)
	if len(next.Elements) != 1 || next.Elements[0].Meta().ID != b.CreatedID {
		t.Errorf("elements after delete = %v", next.Elements)
	}
	if len(b.Scene.Elements) != 2 {
		t.Error("input scene changed")
	}
}

func TestUpdateLayerAndPitch(t *testing.T) {
	s := scene.Default()
	hidden := false

	next := UpdateLayer(s, scene.LayerDrills, LayerPatch{Visible: &hidden})
	if next.Layers[scene.LayerDrills].Visible {
		t.Error("drills still visible")
	}
	if !s.Layers[scene.LayerDrills].Visible {
		t.Error("input layers changed")
	}
	if got := UpdateLayer(s, "overlay", LayerPatch{Visible: &hidden}); len(got.Layers) != 3 {
		t.Error("unknown layer should be ignored")
	}

	half := scene.PitchHalf
	next = UpdatePitch(s, PitchPatch{Type: &half})
	if next.Pitch.Type != scene.PitchHalf || next.Pitch.HalfSide != scene.HalfOffensive {
		t.Errorf("pitch = %+v", next.Pitch)
	}
	if s.Pitch.Type != scene.PitchFull {
		t.Error("input pitch changed")
	}
}

func TestResizeFromCornerScenario(t *testing.T) {
	r := geom.Rect{X: 10, Y: 10, W: 30, H: 30}
	got := ResizeFromCorner(r, HandleTopLeft, geom.Pt(25, 25), ZoneResizeMinSize)

	want := geom.Rect{X: 25, Y: 25, W: 15, H: 15}
	if got != want {
		t.Errorf("ResizeFromCorner = %+v, want %+v", got, want)
	}
}

func TestResizeFromCornerKeepsOppositeCorner(t *testing.T) {
	r := geom.Rect{X: 30, Y: 20, W: 20, H: 20}
	tests := []struct {
		handle Handle
		p      geom.Point
		fixed  func(geom.Rect) geom.Point
	}{
		{HandleTopLeft, geom.Pt(49, 39), func(r geom.Rect) geom.Point { return geom.Pt(r.Right(), r.Bottom()) }},
		{HandleTopRight, geom.Pt(10, 5), func(r geom.Rect) geom.Point { return geom.Pt(r.X, r.Bottom()) }},
		{HandleBottomLeft, geom.Pt(60, 60), func(r geom.Rect) geom.Point { return geom.Pt(r.Right(), r.Y) }},
		{HandleBottomRight, geom.Pt(31, 21), func(r geom.Rect) geom.Point { return geom.Pt(r.X, r.Y) }},
	}

	for _, tt := range tests {
		t.Run(string(tt.handle), func(t *testing.T) {
			got := ResizeFromCorner(r, tt.handle, tt.p, GoalMinSize)
			if got.W < GoalMinSize.W || got.H < GoalMinSize.H {
				t.Errorf("size %vx%v below minimum", got.W, got.H)
			}
			if tt.fixed(got) != tt.fixed(r) {
				t.Errorf("opposite corner moved: %v -> %v", tt.fixed(r), tt.fixed(got))
			}
		})
	}
}

func TestResizeFromEdge(t *testing.T) {
	r := geom.Rect{X: 10, Y: 10, W: 30, H: 20}
	tests := []struct {
		handle Handle
		p      geom.Point
		want   geom.Rect
	}{
		{HandleTop, geom.Pt(99, 5), geom.Rect{X: 10, Y: 5, W: 30, H: 25}},
		{HandleBottom, geom.Pt(0, 50), geom.Rect{X: 10, Y: 10, W: 30, H: 40}},
		{HandleLeft, geom.Pt(38, 0), geom.Rect{X: 35, Y: 10, W: 5, H: 20}},
		{HandleRight, geom.Pt(200, 0), geom.Rect{X: 10, Y: 10, W: 95, H: 20}},
	}

	for _, tt := range tests {
		t.Run(string(tt.handle), func(t *testing.T) {
			if got := ResizeFromEdge(r, tt.handle, tt.p, ZoneResizeMinSize); got != tt.want {
				t.Errorf("ResizeFromEdge = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func inField(r geom.Rect) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= viewport.FieldWidth && r.Bottom() <= viewport.FieldHeight
}

func TestFinalizeRectEnforcesMinimum(t *testing.T) {
	tests := []struct {
		name         string
		start, cur   geom.Point
		wantX, wantY float64
	}{
		{"down right", geom.Pt(50, 30), geom.Pt(51, 31), 50, 30},
		{"up left", geom.Pt(50, 30), geom.Pt(49, 29), 30, 10},
		{"at far corner", geom.Pt(104, 67), geom.Pt(105, 68), 85, 48},
		{"outside field", geom.Pt(-10, -10), geom.Pt(-9, -9), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drawn := ResizeFromDrag(tt.start, tt.cur)
			got := FinalizeRect(drawn, viewport.ClampToField(tt.start), ZoneMinSize, ZoneMinSize)

			if got.W < 20 || got.H < 20 {
				t.Errorf("size = %vx%v, want at least 20x20", got.W, got.H)
			}
			if !inField(got) {
				t.Errorf("rect %+v leaves the field", got)
			}
			if got.X != tt.wantX || got.Y != tt.wantY {
				t.Errorf("origin = (%v,%v), want (%v,%v)", got.X, got.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestFinalizeRectGoalFallback(t *testing.T) {
	drawn := ResizeFromDrag(geom.Pt(30, 30), geom.Pt(31, 40))
	got := FinalizeRect(drawn, geom.Pt(30, 30), GoalMinSize, GoalDefaultSize)

	if got.W != GoalDefaultSize.W {
		t.Errorf("width = %v, want fallback %v", got.W, GoalDefaultSize.W)
	}
	if got.H != 10 {
		t.Errorf("height = %v, want drawn 10", got.H)
	}
}

func TestResizeFromDragClampsAndAllowsZero(t *testing.T) {
	got := ResizeFromDrag(geom.Pt(100, 60), geom.Pt(120, 90))
	if got != (geom.Rect{X: 100, Y: 60, W: 5, H: 8}) {
		t.Errorf("ResizeFromDrag = %+v", got)
	}
	if got := ResizeFromDrag(geom.Pt(10, 10), geom.Pt(10, 10)); got.W != 0 || got.H != 0 {
		t.Errorf("zero drag = %+v", got)
	}
}

func TestMoveRectTolerance(t *testing.T) {
	r := geom.Rect{X: 2, Y: 2, W: 10, H: 10}
	got := MoveRect(r, geom.Pt(-20, -20))
	if got.X != -MoveTolerance || got.Y != -MoveTolerance {
		t.Errorf("MoveRect = %+v", got)
	}
	got = MoveRect(r, geom.Pt(200, 0))
	if got.Right() != viewport.FieldWidth+MoveTolerance {
		t.Errorf("MoveRect right = %v", got.Right())
	}
}

func TestEnforceMinLength(t *testing.T) {
	tests := []struct {
		name     string
		from, to geom.Point
		want     geom.Point
	}{
		{"short along x", geom.Pt(10, 10), geom.Pt(15, 10), geom.Pt(30, 10)},
		{"short diagonal", geom.Pt(0, 0), geom.Pt(3, 4), geom.Pt(12, 16)},
		{"zero vector", geom.Pt(40, 20), geom.Pt(40, 20), geom.Pt(60, 20)},
		{"long enough", geom.Pt(0, 0), geom.Pt(0, 30), geom.Pt(0, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnforceMinLength(tt.from, tt.to, MinLineLength)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("EnforceMinLength = %v, want %v", got, tt.want)
			}
			if geom.Dist(tt.from, got) < MinLineLength-1e-9 {
				t.Errorf("length %v below minimum", geom.Dist(tt.from, got))
			}
		})
	}
}

func TestSimplifyPath(t *testing.T) {
	var straight []geom.Point
	for x := 0.0; x <= 20; x += 0.25 {
		straight = append(straight, geom.Pt(x, 0))
	}

	got := SimplifyPath(straight, PathMinDistance)
	if len(got) >= len(straight) {
		t.Errorf("straight line not simplified: %d -> %d", len(straight), len(got))
	}
	if got[0] != straight[0] || got[len(got)-1] != straight[len(straight)-1] {
		t.Errorf("endpoints changed: %v .. %v", got[0], got[len(got)-1])
	}
	for i := 1; i < len(got)-1; i++ {
		if geom.Dist(got[i-1], got[i]) <= PathMinDistance {
			t.Errorf("kept points %v and %v closer than min distance", got[i-1], got[i])
		}
	}
}

func TestSimplifyPathKeepsCorners(t *testing.T) {
	var pts []geom.Point
	for x := 0.0; x <= 10; x += 0.25 {
		pts = append(pts, geom.Pt(x, 0))
	}
	for y := 0.25; y <= 10; y += 0.25 {
		pts = append(pts, geom.Pt(10, y))
	}

	got := SimplifyPath(pts, PathMinDistance)
	found := false
	for _, p := range got {
		if p == geom.Pt(10, 0) {
			found = true
		}
	}
	if !found {
		t.Errorf("corner dropped: %v", got)
	}
}

func TestSimplifyPathShortInput(t *testing.T) {
	in := []geom.Point{geom.Pt(0, 0), geom.Pt(0.1, 0)}
	got := SimplifyPath(in, PathMinDistance)
	if len(got) != 2 {
		t.Errorf("SimplifyPath(2 points) = %v", got)
	}
	got[0] = geom.Pt(9, 9)
	if in[0] != geom.Pt(0, 0) {
		t.Error("result aliases input")
	}
}
