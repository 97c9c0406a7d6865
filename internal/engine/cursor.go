package engine

import "github.com/pitchboard/pitchboard/internal/command"

// Cursor is a CSS cursor name.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorMove      Cursor = "move"
	CursorGrabbing  Cursor = "grabbing"
	CursorCrosshair Cursor = "crosshair"
	CursorText      Cursor = "text"
	CursorCopy      Cursor = "copy"
	CursorNWSE      Cursor = "nwse-resize"
	CursorNESW      Cursor = "nesw-resize"
	CursorNS        Cursor = "ns-resize"
	CursorEW        Cursor = "ew-resize"
)

func toolCursor(t Tool) Cursor {
	switch t {
	case ToolSelect:
		return CursorDefault
	case ToolText:
		return CursorText
	case ToolArrow, ToolLine, ToolPath, ToolZone, ToolGoal:
		return CursorCrosshair
	}
	return CursorCopy
}

func handleCursor(h command.Handle) Cursor {
	switch h {
	case command.HandleTopLeft, command.HandleBottomRight:
		return CursorNWSE
	case command.HandleTopRight, command.HandleBottomLeft:
		return CursorNESW
	case command.HandleTop, command.HandleBottom:
		return CursorNS
	case command.HandleLeft, command.HandleRight:
		return CursorEW
	case command.HandleMiddle:
		return CursorMove
	}
	return CursorCrosshair
}

func dragCursor(d DragState) Cursor {
	switch d.Type {
	case DragMove:
		return CursorGrabbing
	case DragDraw:
		return CursorCrosshair
	}
	return handleCursor(d.Handle)
}
