package engine

import (
	"strings"

	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/viewport"
)

// pathSampleDistance is how far the pointer must travel before a drawn path
// gets a new point instead of refining its last one.
const pathSampleDistance = 0.5

type Phase string

const (
	PhaseDown Phase = "down"
	PhaseMove Phase = "move"
	PhaseUp   Phase = "up"
)

// CanvasEvent is a pointer event in canvas pixels.
type CanvasEvent struct {
	Phase Phase   `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// HandleCanvasEvent maps a canvas event into field units and dispatches it.
func (e *Editor) HandleCanvasEvent(ev CanvasEvent) {
	p := e.Viewport().CanvasToField(geom.Pt(ev.X, ev.Y))
	switch ev.Phase {
	case PhaseDown:
		e.PointerDown(p)
	case PhaseMove:
		e.PointerMove(p)
	case PhaseUp:
		e.PointerUp()
	}
}

// PointerDown starts a gesture at p (field units). In order: a handle of the
// selected element, any element under p, then the active tool on empty space.
func (e *Editor) PointerDown(p geom.Point) {
	defer e.notify()

	if e.drag != nil {
		// A down without an up; finish the old gesture first.
		e.finishDrag()
	}
	s := e.Scene()

	if hit, ok := HitTestHandle(s, p, e.selectedID); ok && hit.Handle != command.HandleNone {
		el, _ := s.Find(hit.ID)
		e.tool = ToolSelect
		e.selectedID = hit.ID
		e.startDrag(DragState{
			ID:     hit.ID,
			Type:   handleDrag(el, hit.Handle),
			Handle: hit.Handle,
			Start:  p,
			Origin: originOf(el),
		}, s)
		return
	}

	if id, ok := HitTest(s, p); ok {
		el, _ := s.Find(id)
		e.selectedID = id
		e.tool = ToolSelect
		if !editable(s, el) {
			e.cursor = CursorDefault
			return
		}
		e.startDrag(DragState{ID: id, Type: DragMove, Start: p, Origin: originOf(el)}, s)
		return
	}

	e.selectedID = ""
	if s.Layer(e.activeLayer).Locked {
		return
	}
	e.create(s, p)
}

func (e *Editor) create(s scene.Scene, p geom.Point) {
	at := viewport.ClampToField(p)

	if tt, ok := e.tool.TokenType(); ok {
		res := command.AddToken(s, e.activeLayer, tt, at)
		e.history = e.history.Push(res.Scene)
		e.selectedID = res.CreatedID
		return
	}

	var res command.Result
	switch e.tool {
	case ToolArrow:
		res = command.BeginArrow(s, e.activeLayer, at)
	case ToolLine:
		res = command.BeginLine(s, e.activeLayer, at)
	case ToolPath:
		res = command.BeginPath(s, e.activeLayer, at)
	case ToolZone:
		res = command.BeginZone(s, e.activeLayer, at)
	case ToolGoal:
		res = command.BeginGoal(s, e.activeLayer, at)
	case ToolText:
		e.createText(s, at)
		return
	default:
		return
	}

	e.history = e.history.Replace(res.Scene)
	e.selectedID = res.CreatedID
	el, _ := res.Scene.Find(res.CreatedID)
	e.startDrag(DragState{
		ID:       res.CreatedID,
		Type:     DragDraw,
		DrawKind: el.Kind(),
		Start:    at,
		Origin:   at,
	}, s)
}

func (e *Editor) createText(s scene.Scene, at geom.Point) {
	if e.prompter == nil {
		panic("engine: text tool used without a Prompter")
	}
	text, ok := e.prompter(DefaultText)
	text = strings.TrimSpace(text)
	if !ok || text == "" {
		return
	}
	res := command.BeginText(s, e.activeLayer, at, text)
	e.history = e.history.Push(res.Scene)
	e.selectedID = res.CreatedID
}

func (e *Editor) startDrag(d DragState, base scene.Scene) {
	d.BaseScene = base
	e.drag = &d
	e.hoverID = ""
	e.cursor = dragCursor(d)
}

// PointerMove updates hover feedback when idle and advances the gesture
// otherwise.
func (e *Editor) PointerMove(p geom.Point) {
	if e.drag == nil {
		e.updateHover(p)
		return
	}

	s := e.Scene()
	el, ok := s.Find(e.drag.ID)
	if !ok {
		return
	}
	patch, ok := e.dragPatch(el, p)
	if !ok {
		return
	}
	e.history = e.history.Replace(command.UpdateElement(s, el.Meta().ID, patch))
	e.notify()
}

func (e *Editor) updateHover(p geom.Point) {
	s := e.Scene()
	hover := ""
	if e.tool == ToolSelect {
		hover, _ = HitTest(s, p)
	}

	cursor := toolCursor(e.tool)
	if hit, ok := HitTestHandle(s, p, e.selectedID); ok && hit.Handle != command.HandleNone {
		cursor = handleCursor(hit.Handle)
	} else if hover != "" {
		cursor = CursorMove
	}

	if hover == e.hoverID && cursor == e.cursor {
		return
	}
	e.hoverID = hover
	e.cursor = cursor
	e.notify()
}

func (e *Editor) dragPatch(el scene.Element, p geom.Point) (command.Patch, bool) {
	d := e.drag
	switch d.Type {
	case DragDraw:
		return drawPatch(el, d, p)

	case DragResizeLine:
		switch d.Handle {
		case command.HandleFrom:
			return command.SetFrom(p), true
		case command.HandleTo:
			return command.SetTo(p), true
		}

	case DragResizePath:
		path, ok := el.(scene.Path)
		if !ok || len(path.Points) == 0 {
			return command.Patch{}, false
		}
		points := append([]geom.Point(nil), path.Points...)
		switch d.Handle {
		case command.HandleFrom:
			points[0] = p
		case command.HandleTo:
			points[len(points)-1] = p
		case command.HandleMiddle:
			i := nearestInterior(points, d.Start)
			if i < 0 {
				return command.Patch{}, false
			}
			points[i] = p
		}
		return command.SetPoints(points), true

	case DragResizeZone:
		if z, ok := el.(scene.Zone); ok {
			return command.SetRect(command.Resize(z.Rect(), d.Handle, p, command.ZoneResizeMinSize)), true
		}

	case DragResizeGoal:
		if g, ok := el.(scene.Goal); ok {
			return command.SetRect(command.Resize(g.Rect(), d.Handle, p, command.GoalMinSize)), true
		}

	case DragMove:
		return e.movePatch(el, p)
	}
	return command.Patch{}, false
}

func drawPatch(el scene.Element, d *DragState, p geom.Point) (command.Patch, bool) {
	switch v := el.(type) {
	case scene.Arrow, scene.Line:
		return command.SetTo(p), true
	case scene.Zone, scene.Goal:
		return command.SetRect(command.ResizeFromDrag(d.Start, p)), true
	case scene.Path:
		n := len(v.Points)
		if n == 0 {
			return command.SetPoints([]geom.Point{p}), true
		}
		points := append([]geom.Point(nil), v.Points...)
		// The first point is the anchor and is never replaced.
		if n == 1 || geom.Dist(points[n-1], p) > pathSampleDistance {
			points = append(points, p)
		} else {
			points[n-1] = p
		}
		return command.SetPoints(points), true
	}
	return command.Patch{}, false
}

// movePatch translates el. Tokens, text, zones and goals move relative to
// where the gesture started; lines and paths move by the step since the
// previous event.
func (e *Editor) movePatch(el scene.Element, p geom.Point) (command.Patch, bool) {
	d := e.drag
	delta := p.Sub(d.Start)

	switch v := el.(type) {
	case scene.Token, scene.Text:
		return command.MoveTo(viewport.ClampToField(d.Origin.Add(delta))), true
	case scene.Zone:
		r := command.MoveRect(geom.Rect{X: d.Origin.X, Y: d.Origin.Y, W: v.W, H: v.H}, delta)
		return command.MoveTo(geom.Pt(r.X, r.Y)), true
	case scene.Goal:
		r := command.MoveRect(geom.Rect{X: d.Origin.X, Y: d.Origin.Y, W: v.W, H: v.H}, delta)
		return command.MoveTo(geom.Pt(r.X, r.Y)), true
	case scene.Arrow, scene.Line, scene.Path:
		d.Start = p
		return translate(el, delta), true
	}
	return command.Patch{}, false
}

// PointerUp finishes the gesture in progress, if any.
func (e *Editor) PointerUp() {
	if e.drag == nil {
		return
	}
	e.finishDrag()
	e.cursor = toolCursor(e.tool)
	e.notify()
}

// finishDrag applies the end-of-gesture corrections and records the gesture
// as one undo step.
func (e *Editor) finishDrag() {
	d := e.drag
	e.drag = nil

	s := e.Scene()
	if el, ok := s.Find(d.ID); ok {
		if patch, ok := finalizePatch(el, d); ok {
			s = command.UpdateElement(s, d.ID, patch)
		}
	}
	e.history = e.history.Replace(s).CommitFrom(d.BaseScene)
}

func finalizePatch(el scene.Element, d *DragState) (command.Patch, bool) {
	switch d.Type {
	case DragDraw:
		switch v := el.(type) {
		case scene.Arrow:
			return command.SetTo(command.EnforceMinLength(v.From, v.To, command.MinLineLength)), true
		case scene.Line:
			return command.SetTo(command.EnforceMinLength(v.From, v.To, command.MinLineLength)), true
		case scene.Path:
			if len(v.Points) > 2 {
				return command.SetPoints(command.SimplifyPath(v.Points, command.PathMinDistance)), true
			}
		case scene.Zone:
			return command.SetRect(command.FinalizeRect(v.Rect(), d.Start, command.ZoneMinSize, command.ZoneMinSize)), true
		case scene.Goal:
			return command.SetRect(command.FinalizeRect(v.Rect(), d.Start, command.GoalMinSize, command.GoalDefaultSize)), true
		}

	case DragResizeLine:
		from, to, ok := endpoints(el)
		if !ok {
			break
		}
		if d.Handle == command.HandleFrom {
			return command.SetFrom(command.EnforceMinLength(to, from, command.MinLineLength)), true
		}
		return command.SetTo(command.EnforceMinLength(from, to, command.MinLineLength)), true
	}
	return command.Patch{}, false
}

func endpoints(el scene.Element) (geom.Point, geom.Point, bool) {
	switch v := el.(type) {
	case scene.Arrow:
		return v.From, v.To, true
	case scene.Line:
		return v.From, v.To, true
	}
	return geom.Point{}, geom.Point{}, false
}
