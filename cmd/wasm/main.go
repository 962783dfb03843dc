//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/inamate/editor-go/internal/engine"
	"github.com/inamate/inamate/editor-go/internal/tool"
	"github.com/inamate/inamate/editor-go/internal/trigger"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(
		engine.WithSnapshotter(func(label string) { callHook("inamateOnSnapshot", label) }),
		engine.WithRepaint(func() { callHook("inamateOnRepaint") }),
	)
	eng.Subscribe(trigger.SelectionChanged, func(trigger.Name) {
		callHook("inamateOnSelectionChanged", eng.GetState())
	})

	// Create the engine API object
	inamateEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	inamateEngine.Set("loadDocument", js.FuncOf(loadDocument))
	inamateEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	inamateEngine.Set("pointerDown", js.FuncOf(pointer(eng.PointerDown)))
	inamateEngine.Set("pointerDrag", js.FuncOf(pointer(eng.PointerDrag)))
	inamateEngine.Set("pointerUp", js.FuncOf(pointer(eng.PointerUp)))
	inamateEngine.Set("setZoom", js.FuncOf(setZoom))
	inamateEngine.Set("runAction", js.FuncOf(runAction))
	inamateEngine.Set("keyPress", js.FuncOf(keyPress))
	inamateEngine.Set("switchTool", js.FuncOf(switchTool))
	inamateEngine.Set("setSelection", js.FuncOf(setSelection))

	// --- Queries (frontend ← engine) ---
	inamateEngine.Set("render", js.FuncOf(render))
	inamateEngine.Set("overlay", js.FuncOf(overlay))
	inamateEngine.Set("hitTest", js.FuncOf(hitTest))
	inamateEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	inamateEngine.Set("getSelection", js.FuncOf(getSelection))
	inamateEngine.Set("getSelectionKind", js.FuncOf(getSelectionKind))
	inamateEngine.Set("getState", js.FuncOf(getState))
	inamateEngine.Set("getDocument", js.FuncOf(getDocument))
	inamateEngine.Set("getKeybinds", js.FuncOf(getKeybinds))

	// Register on global scope
	js.Global().Set("inamateEngine", inamateEngine)

	// Signal that WASM is ready
	js.Global().Set("inamateWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// callHook calls a global JS function if the page defined one.
func callHook(name string, args ...any) {
	fn := js.Global().Get(name)
	if fn.Type() == js.TypeFunction {
		fn.Invoke(args...)
	}
}

func result(err error) any {
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(map[string]any{"ok": true})
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing document JSON"})
	}
	return result(eng.LoadDocument(args[0].String()))
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	docID := ""
	if len(args) >= 1 {
		docID = args[0].String()
	}
	return result(eng.LoadSampleDocument(docID))
}

// pointer adapts a pointer method to pointerX(x, y, button, {shift, alt, ctrl}).
func pointer(fn func(x, y float64, button int, mods tool.Modifiers)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		button := 0
		if len(args) >= 3 {
			button = args[2].Int()
		}
		var mods tool.Modifiers
		if len(args) >= 4 && args[3].Type() == js.TypeObject {
			mods.Shift = args[3].Get("shift").Truthy()
			mods.Alt = args[3].Get("alt").Truthy()
			mods.Ctrl = args[3].Get("ctrl").Truthy()
		}
		fn(args[0].Float(), args[1].Float(), button, mods)
		return nil
	}
}

func setZoom(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetZoom(args[0].Float())
	return nil
}

func runAction(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing action name"})
	}
	return result(eng.RunAction(args[0].String()))
}

// keyPress(key, ctrl, shift, up) returns whether a binding matched.
func keyPress(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return false
	}
	flag := func(i int) bool { return len(args) > i && args[i].Truthy() }
	return eng.KeyPress(args[0].String(), flag(1), flag(2), flag(3))
}

func switchTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing tool id"})
	}
	return result(eng.SwitchTool(args[0].String()))
}

func setSelection(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(args[0].String()), &ids); err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	eng.SetSelection(ids)
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return eng.Render()
}

func overlay(this js.Value, args []js.Value) any {
	return eng.Overlay()
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return ""
	}
	return eng.HitTest(args[0].Float(), args[1].Float())
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	return eng.GetSelectionBounds()
}

func getSelection(this js.Value, args []js.Value) any {
	return eng.GetSelection()
}

func getSelectionKind(this js.Value, args []js.Value) any {
	return eng.SelectionKind()
}

func getState(this js.Value, args []js.Value) any {
	return eng.GetState()
}

func getDocument(this js.Value, args []js.Value) any {
	return eng.GetDocument()
}

func getKeybinds(this js.Value, args []js.Value) any {
	data, _ := json.Marshal(eng.Keybinds())
	return string(data)
}
