package live

import (
	"encoding/json"

	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/engine"
	"github.com/pitchboard/pitchboard/internal/render"
	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/storage"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypeViewportResize  = "viewport.resize"
	TypePointerDown     = "pointer.down"
	TypePointerMove     = "pointer.move"
	TypePointerUp       = "pointer.up"
	TypeToolSet         = "tool.set"
	TypeLayerActive     = "layer.active"
	TypeLayerUpdate     = "layer.update"
	TypePitchUpdate     = "pitch.update"
	TypeElementUpdate   = "element.update"
	TypeElementDelete   = "element.delete"
	TypeSelectionSet    = "selection.set"
	TypeSelectionDelete = "selection.delete"
	TypeEditUndo        = "edit.undo"
	TypeEditRedo        = "edit.redo"
	TypeEditCancel      = "edit.cancel"
	TypeSceneSave       = "scene.save"
	TypeSceneLoad       = "scene.load"

	// Server to client
	TypeWelcome    = "welcome"
	TypeFrame      = "frame"
	TypeSceneSaved = "scene.saved"
	TypeError      = "error"
)

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointerPayload is a pointer position in canvas pixels. Text answers the
// prompt a text tool placement raises; without it the default text is used.
type PointerPayload struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text *string `json:"text,omitempty"`
}

type ToolPayload struct {
	Tool engine.Tool `json:"tool"`
}

type LayerActivePayload struct {
	Layer scene.LayerID `json:"layer"`
}

type LayerUpdatePayload struct {
	Layer scene.LayerID `json:"layer"`
	command.LayerPatch
}

type ElementUpdatePayload struct {
	ID    string        `json:"id"`
	Patch command.Patch `json:"patch"`
}

type ElementPayload struct {
	ID string `json:"id"`
}

// SavePayload stores the current scene. An empty ItemID creates a new item.
type SavePayload struct {
	ItemID string           `json:"itemId,omitempty"`
	Title  string           `json:"title"`
	Type   storage.ItemType `json:"itemType"`
}

type LoadPayload struct {
	ItemID string `json:"itemId"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
}

type FramePayload struct {
	Commands    []render.DrawCommand `json:"commands"`
	SelectedID  string               `json:"selectedId,omitempty"`
	HoverID     string               `json:"hoverId,omitempty"`
	Tool        engine.Tool          `json:"tool"`
	ActiveLayer scene.LayerID        `json:"activeLayer"`
	Cursor      engine.Cursor        `json:"cursor"`
	Dragging    bool                 `json:"dragging"`
	CanUndo     bool                 `json:"canUndo"`
	CanRedo     bool                 `json:"canRedo"`
}

type SavedPayload struct {
	Item *storage.Item `json:"item"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}
