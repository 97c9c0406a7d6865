package engine

import (
	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/history"
	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/viewport"
)

type Tool string

const (
	ToolSelect   Tool = "select"
	ToolPlayer   Tool = "player"
	ToolOpponent Tool = "opponent"
	ToolCone     Tool = "cone"
	ToolBall     Tool = "ball"
	ToolFlag     Tool = "flag"
	ToolDisc     Tool = "disc"
	ToolArrow    Tool = "arrow"
	ToolLine     Tool = "line"
	ToolPath     Tool = "path"
	ToolZone     Tool = "zone"
	ToolGoal     Tool = "goal"
	ToolText     Tool = "text"
)

// TokenType returns the token a placement tool creates.
func (t Tool) TokenType() (scene.TokenType, bool) {
	switch t {
	case ToolPlayer, ToolOpponent, ToolCone, ToolBall, ToolFlag, ToolDisc:
		return scene.TokenType(t), true
	}
	return "", false
}

func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolArrow, ToolLine, ToolPath, ToolZone, ToolGoal, ToolText:
		return true
	}
	_, ok := t.TokenType()
	return ok
}

// Prompter asks the user for the text of a new text element. It returns
// false when the user cancels.
type Prompter func(defaultText string) (string, bool)

// DefaultText is offered by the prompt when placing text.
const DefaultText = "Note"

// Renderer receives a frame after every change to the editor state.
type Renderer interface {
	Render(Frame)
}

// Frame is everything a renderer needs to draw the editor.
type Frame struct {
	Scene       scene.Scene
	Viewport    viewport.Viewport
	SelectedID  string
	HoverID     string
	Tool        Tool
	ActiveLayer scene.LayerID
	Cursor      Cursor
	Dragging    bool
	CanUndo     bool
	CanRedo     bool
}

// Editor is one editing session: the scene history plus the tool, selection
// and gesture state layered on top of it. It is not safe for concurrent use;
// callers drive it from a single event loop.
type Editor struct {
	// Scene state
	history history.History

	// Canvas mapping, recomputed lazily on resize
	tracker *viewport.Tracker

	// Interaction state
	tool        Tool
	activeLayer scene.LayerID
	selectedID  string
	hoverID     string
	cursor      Cursor
	drag        *DragState

	prompter Prompter
	renderer Renderer
}

type Option func(*Editor)

func WithScene(s scene.Scene) Option {
	return func(e *Editor) { e.history = history.New(s) }
}

func WithPrompter(p Prompter) Option {
	return func(e *Editor) { e.prompter = p }
}

func WithRenderer(r Renderer) Option {
	return func(e *Editor) { e.renderer = r }
}

// WithCanvasSize sets the initial canvas size in pixels.
func WithCanvasSize(width, height float64) Option {
	return func(e *Editor) { e.tracker.Resize(width, height) }
}

// NewEditor creates an editor on an empty default scene with the select tool
// active and drawing on the tactics layer.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		history:     history.New(scene.Default()),
		tracker:     viewport.NewTracker(0, 0, scene.Default().Pitch),
		tool:        ToolSelect,
		activeLayer: scene.LayerTactics,
		cursor:      CursorDefault,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tracker.SetPitch(e.Scene().Pitch)
	return e
}

// --- Queries ---

func (e *Editor) Scene() scene.Scene          { return e.history.Present }
func (e *Editor) History() history.History    { return e.history }
func (e *Editor) Tool() Tool                  { return e.tool }
func (e *Editor) ActiveLayer() scene.LayerID  { return e.activeLayer }
func (e *Editor) SelectedID() string          { return e.selectedID }
func (e *Editor) HoverID() string             { return e.hoverID }
func (e *Editor) Cursor() Cursor              { return e.cursor }
func (e *Editor) Viewport() viewport.Viewport { return e.tracker.Viewport() }

// Drag returns the gesture in progress, if any.
func (e *Editor) Drag() (DragState, bool) {
	if e.drag == nil {
		return DragState{}, false
	}
	return *e.drag, true
}

func (e *Editor) Frame() Frame {
	return Frame{
		Scene:       e.Scene(),
		Viewport:    e.Viewport(),
		SelectedID:  e.selectedID,
		HoverID:     e.hoverID,
		Tool:        e.tool,
		ActiveLayer: e.activeLayer,
		Cursor:      e.cursor,
		Dragging:    e.drag != nil,
		CanUndo:     e.history.CanUndo(),
		CanRedo:     e.history.CanRedo(),
	}
}

// --- Commands ---

// SetTool switches the active tool. Unknown tools are ignored.
func (e *Editor) SetTool(t Tool) {
	if !t.Valid() || t == e.tool {
		return
	}
	e.tool = t
	e.hoverID = ""
	e.cursor = toolCursor(t)
	e.notify()
}

// SetActiveLayer picks the layer new elements are created on.
func (e *Editor) SetActiveLayer(id scene.LayerID) {
	if !id.Valid() || id == e.activeLayer {
		return
	}
	e.activeLayer = id
	e.notify()
}

// Select selects the element with the given id, or clears the selection if
// no such element exists.
func (e *Editor) Select(id string) {
	if _, ok := e.Scene().Find(id); !ok {
		id = ""
	}
	if id == e.selectedID {
		return
	}
	e.selectedID = id
	e.notify()
}

// Resize records a new canvas size. The viewport is recomputed on next use.
func (e *Editor) Resize(width, height float64) {
	e.tracker.Resize(width, height)
	e.notify()
}

// Load replaces the scene and starts a fresh history.
func (e *Editor) Load(s scene.Scene) {
	e.drag = nil
	e.history = history.New(s)
	e.selectedID = ""
	e.hoverID = ""
	e.tracker.SetPitch(s.Pitch)
	e.notify()
}

func (e *Editor) Undo() {
	e.abortDrag()
	e.history = e.history.Undo()
	e.afterHistoryMove()
}

func (e *Editor) Redo() {
	e.abortDrag()
	e.history = e.history.Redo()
	e.afterHistoryMove()
}

func (e *Editor) afterHistoryMove() {
	s := e.Scene()
	if _, ok := s.Find(e.selectedID); !ok {
		e.selectedID = ""
	}
	if _, ok := s.Find(e.hoverID); !ok {
		e.hoverID = ""
	}
	e.tracker.SetPitch(s.Pitch)
	e.notify()
}

// Cancel aborts any gesture, clears the selection and returns to the select
// tool. It never records history.
func (e *Editor) Cancel() {
	e.abortDrag()
	e.selectedID = ""
	e.hoverID = ""
	e.tool = ToolSelect
	e.cursor = CursorDefault
	e.notify()
}

// DeleteSelected removes the selected element as one undo step.
func (e *Editor) DeleteSelected() {
	if e.selectedID == "" {
		return
	}
	e.DeleteElement(e.selectedID)
}

func (e *Editor) DeleteElement(id string) {
	e.abortDrag()
	e.apply(command.DeleteElement(e.Scene(), id))
	if id == e.selectedID {
		e.selectedID = ""
	}
	if id == e.hoverID {
		e.hoverID = ""
	}
	e.notify()
}

// UpdateElement patches one element as one undo step. A patch that would
// leave the scene invalid, such as an unknown token type, is ignored.
func (e *Editor) UpdateElement(id string, patch command.Patch) {
	e.abortDrag()
	next := command.UpdateElement(e.Scene(), id, patch)
	if err := scene.Validate(next); err == nil {
		e.apply(next)
	}
	e.notify()
}

func (e *Editor) UpdateLayer(id scene.LayerID, patch command.LayerPatch) {
	e.abortDrag()
	e.apply(command.UpdateLayer(e.Scene(), id, patch))
	e.notify()
}

func (e *Editor) UpdatePitch(patch command.PitchPatch) {
	e.abortDrag()
	e.apply(command.UpdatePitch(e.Scene(), patch))
	e.tracker.SetPitch(e.Scene().Pitch)
	e.notify()
}

// apply pushes next as one undo step unless nothing changed.
func (e *Editor) apply(next scene.Scene) {
	if scene.Equal(next, e.Scene()) {
		return
	}
	e.history = e.history.Push(next)
}

// abortDrag drops the gesture in progress and restores the scene it started from.
func (e *Editor) abortDrag() {
	if e.drag == nil {
		return
	}
	e.history = e.history.Replace(e.drag.BaseScene)
	e.drag = nil
}

func (e *Editor) notify() {
	if e.renderer != nil {
		e.renderer.Render(e.Frame())
	}
}
