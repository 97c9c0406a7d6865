//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/engine"
	"github.com/pitchboard/pitchboard/internal/render"
	"github.com/pitchboard/pitchboard/internal/scene"
)

var (
	editor  *engine.Editor
	onFrame js.Value
)

// frameRenderer hands every new frame to the callback registered with onFrame.
type frameRenderer struct{}

func (frameRenderer) Render(f engine.Frame) {
	if onFrame.Type() != js.TypeFunction {
		return
	}
	cmds, err := render.DrawCommandsToJSON(render.Compile(f))
	if err != nil {
		return
	}
	onFrame.Invoke(cmds, stateJSON(f))
}

// prompt asks for text with window.prompt, which returns null on cancel.
func prompt(defaultText string) (string, bool) {
	v := js.Global().Call("prompt", "Text", defaultText)
	if v.IsNull() || v.IsUndefined() {
		return "", false
	}
	return v.String(), true
}

func main() {
	editor = engine.NewEditor(
		engine.WithPrompter(prompt),
		engine.WithRenderer(frameRenderer{}),
	)

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("loadScene", js.FuncOf(loadScene))
	api.Set("resize", js.FuncOf(resize))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setActiveLayer", js.FuncOf(setActiveLayer))
	api.Set("select", js.FuncOf(selectElement))
	api.Set("deleteSelected", js.FuncOf(deleteSelected))
	api.Set("updateElement", js.FuncOf(updateElement))
	api.Set("updateLayer", js.FuncOf(updateLayer))
	api.Set("updatePitch", js.FuncOf(updatePitch))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("cancel", js.FuncOf(cancel))
	api.Set("onFrame", js.FuncOf(setOnFrame))

	// --- Queries (frontend ← editor) ---
	api.Set("render", js.FuncOf(renderFrame))
	api.Set("getScene", js.FuncOf(getScene))
	api.Set("getState", js.FuncOf(getState))

	js.Global().Set("pitchboardEditor", api)
	js.Global().Set("pitchboardWasmReady", js.ValueOf(true))

	select {}
}

func ok() any {
	return js.ValueOf(map[string]any{"ok": true})
}

func fail(msg string) any {
	return js.ValueOf(map[string]any{"error": msg})
}

// --- Command Handlers ---

func loadScene(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return fail("missing scene JSON")
	}
	sc, err := scene.Decode([]byte(args[0].String()))
	if err != nil {
		return fail(err.Error())
	}
	editor.Load(sc)
	return ok()
}

func resize(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	editor.Resize(args[0].Float(), args[1].Float())
	return nil
}

func pointerDown(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	editor.HandleCanvasEvent(engine.CanvasEvent{Phase: engine.PhaseDown, X: args[0].Float(), Y: args[1].Float()})
	return nil
}

func pointerMove(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	editor.HandleCanvasEvent(engine.CanvasEvent{Phase: engine.PhaseMove, X: args[0].Float(), Y: args[1].Float()})
	return nil
}

func pointerUp(this js.Value, args []js.Value) any {
	editor.PointerUp()
	return nil
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	editor.SetTool(engine.Tool(args[0].String()))
	return nil
}

func setActiveLayer(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	editor.SetActiveLayer(scene.LayerID(args[0].String()))
	return nil
}

func selectElement(this js.Value, args []js.Value) any {
	id := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}
	editor.Select(id)
	return nil
}

func deleteSelected(this js.Value, args []js.Value) any {
	editor.DeleteSelected()
	return nil
}

func updateElement(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return fail("missing element id or patch")
	}
	var patch command.Patch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return fail(err.Error())
	}
	editor.UpdateElement(args[0].String(), patch)
	return ok()
}

func updateLayer(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return fail("missing layer or patch")
	}
	var patch command.LayerPatch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return fail(err.Error())
	}
	editor.UpdateLayer(scene.LayerID(args[0].String()), patch)
	return ok()
}

func updatePitch(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return fail("missing pitch patch")
	}
	var patch command.PitchPatch
	if err := json.Unmarshal([]byte(args[0].String()), &patch); err != nil {
		return fail(err.Error())
	}
	editor.UpdatePitch(patch)
	return ok()
}

func undo(this js.Value, args []js.Value) any {
	editor.Undo()
	return nil
}

func redo(this js.Value, args []js.Value) any {
	editor.Redo()
	return nil
}

func cancel(this js.Value, args []js.Value) any {
	editor.Cancel()
	return nil
}

func setOnFrame(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		onFrame = js.Undefined()
		return nil
	}
	onFrame = args[0]
	return nil
}

// --- Query Handlers ---

func renderFrame(this js.Value, args []js.Value) any {
	cmds, _ := render.DrawCommandsToJSON(render.Compile(editor.Frame()))
	return js.ValueOf(cmds)
}

func getScene(this js.Value, args []js.Value) any {
	data, err := json.Marshal(editor.Scene())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getState(this js.Value, args []js.Value) any {
	return js.ValueOf(stateJSON(editor.Frame()))
}

func stateJSON(f engine.Frame) string {
	data, _ := json.Marshal(map[string]any{
		"selectedId":  f.SelectedID,
		"hoverId":     f.HoverID,
		"tool":        f.Tool,
		"activeLayer": f.ActiveLayer,
		"cursor":      f.Cursor,
		"dragging":    f.Dragging,
		"canUndo":     f.CanUndo,
		"canRedo":     f.CanRedo,
		"layers":      f.Scene.Layers,
		"pitch":       f.Scene.Pitch,
	})
	return string(data)
}
