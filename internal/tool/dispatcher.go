package tool

import (
	"github.com/gogpu/gg"
)

// Dispatcher turns raw pointer samples into MouseEvents for the active tool,
// keeping the down point and the previous point of the current gesture.
// A gesture belongs to the button that started it: samples from any other
// button are dropped until it is released.
type Dispatcher struct {
	tools   *Registry
	down    gg.Point
	last    gg.Point
	button  int
	pressed bool
}

func NewDispatcher(tools *Registry) *Dispatcher {
	return &Dispatcher{tools: tools}
}

func (d *Dispatcher) event(p Pointer) MouseEvent {
	return MouseEvent{
		Point:     p.Point,
		DownPoint: d.down,
		LastPoint: d.last,
		Delta:     p.Point.Sub(d.last),
		Button:    p.Button,
		Modifiers: p.Modifiers,
		Time:      p.Time,
	}
}

// Down starts a gesture. While a gesture is in progress only a primary
// press may replace it, which covers a release the host never delivered.
func (d *Dispatcher) Down(p Pointer) {
	if d.pressed && p.Button != 0 {
		return
	}
	d.down, d.last = p.Point, p.Point
	d.button = p.Button
	d.pressed = true
	if t := d.tools.Active(); t != nil {
		t.MouseDown(d.event(p))
	}
}

// Drag forwards a move while a button is held. Moves without a press are
// dropped.
func (d *Dispatcher) Drag(p Pointer) {
	if !d.pressed || p.Button != d.button {
		return
	}
	e := d.event(p)
	d.last = p.Point
	if t := d.tools.Active(); t != nil {
		t.MouseDrag(e)
	}
}

// Up ends the gesture.
func (d *Dispatcher) Up(p Pointer) {
	if !d.pressed || p.Button != d.button {
		return
	}
	e := d.event(p)
	d.pressed = false
	d.last = p.Point
	if t := d.tools.Active(); t != nil {
		t.MouseUp(e)
	}
}

// Pressed reports whether a gesture is in progress.
func (d *Dispatcher) Pressed() bool { return d.pressed }

// Draw asks the active tool to paint its overlay.
func (d *Dispatcher) Draw(c Canvas) {
	if t := d.tools.Active(); t != nil {
		t.DrawImmediate(c)
	}
}
