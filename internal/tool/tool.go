// Package tool is the tool-event surface of the editor: pointer events are
// turned into lifecycle callbacks on the active tool, and keyboard input is
// mapped to named actions.
package tool

import (
	"time"

	"github.com/gogpu/gg"
)

// Modifiers held during a pointer event.
type Modifiers struct {
	Shift bool `json:"shift"`
	Alt   bool `json:"alt"`
	Ctrl  bool `json:"ctrl"`
}

// Pointer is a raw pointer sample from the host, in scene coordinates.
type Pointer struct {
	Point     gg.Point
	Button    int
	Modifiers Modifiers
	Time      time.Time
}

// MouseEvent is what tools receive. Delta is relative to the previous event
// of the same gesture; DownPoint is where the gesture started.
type MouseEvent struct {
	Point     gg.Point
	DownPoint gg.Point
	LastPoint gg.Point
	Delta     gg.Point
	Button    int
	Modifiers Modifiers
	Time      time.Time
}

// Primary reports whether the event came from the main button.
func (e MouseEvent) Primary() bool { return e.Button == 0 }

// Action is a named command a tool exposes to the keymap and menus.
type Action struct {
	Name       string
	Category   string
	DefaultKey KeySpec
	Callback   func()
}

// Definition describes a tool. Hidden tools are never remembered as the
// ducked tool.
type Definition struct {
	ID      string
	Name    string
	Hidden  bool
	Actions []Action
}

// Tool receives lifecycle and pointer callbacks while it is active.
type Tool interface {
	Definition() Definition
	Activate() error
	Deactivate()
	MouseDown(e MouseEvent)
	MouseDrag(e MouseEvent)
	MouseUp(e MouseEvent)
	DrawImmediate(c Canvas)
}

// View carries the zoom level shared by tools and the host, and a hook the
// host uses to learn that the overlay needs repainting.
type View struct {
	zoom     float64
	onChange func()
}

// NewView returns a view at zoom 1. onChange may be nil.
func NewView(onChange func()) *View {
	return &View{zoom: 1, onChange: onChange}
}

func (v *View) Zoom() float64 { return v.zoom }

// SetZoom ignores non-positive values.
func (v *View) SetZoom(z float64) {
	if z <= 0 || z == v.zoom {
		return
	}
	v.zoom = z
	v.Changed()
}

// Changed asks the host to repaint.
func (v *View) Changed() {
	if v.onChange != nil {
		v.onChange()
	}
}
