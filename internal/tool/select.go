package tool

import (
	"errors"
	"time"

	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/selection"
	"github.com/inamate/inamate/editor-go/internal/transform"
	"github.com/inamate/inamate/editor-go/internal/trigger"
)

const SelectToolID = "select"

// DefaultGuideColor is the colour of overlay frames and handles.
const DefaultGuideColor = "#9257f7"

// SelectOptions tune the select tool. Distances are in screen pixels and
// are divided by the zoom.
type SelectOptions struct {
	SnapAngle              float64
	HitTolerance           float64
	RotationHandleDistance float64
	GuideColor             string
	// Detail makes the marquee select segments and curves instead of items.
	Detail               bool
	DoubleClickThreshold time.Duration
}

func DefaultSelectOptions() SelectOptions {
	return SelectOptions{
		SnapAngle:              transform.DefaultSnapAngle,
		HitTolerance:           8,
		RotationHandleDistance: transform.DefaultRotationHandleDistance,
		GuideColor:             DefaultGuideColor,
		DoubleClickThreshold:   transform.DefaultDoubleClickThreshold,
	}
}

// Mode is the gesture the select tool is in.
type Mode int

const (
	ModeNone Mode = iota
	ModeScale
	ModeRotate
	ModeMove
	ModeCloneMove
	ModeRectSelection
)

func (m Mode) String() string {
	switch m {
	case ModeScale:
		return "scale"
	case ModeRotate:
		return "rotate"
	case ModeMove:
		return "move"
	case ModeCloneMove:
		return "cloneMove"
	case ModeRectSelection:
		return "rectSelection"
	default:
		return "none"
	}
}

// SelectTool selects, moves, clones, scales and rotates items, and
// selects by marquee.
type SelectTool struct {
	sel  *selection.Model
	bus  *trigger.Bus
	view *View
	opts SelectOptions

	mode      Mode
	tolerance float64

	bounds      transform.Bounds
	boundsShown bool

	marquee  transform.Marquee
	scale    *transform.Scale
	rotate   *transform.Rotate
	dblClick transform.DoubleClick

	deleteSub  uint64
	subscribed bool
}

func NewSelectTool(sel *selection.Model, bus *trigger.Bus, view *View, opts SelectOptions) *SelectTool {
	if view == nil {
		view = NewView(nil)
	}
	return &SelectTool{
		sel:      sel,
		bus:      bus,
		view:     view,
		opts:     opts,
		dblClick: transform.DoubleClick{Threshold: opts.DoubleClickThreshold},
	}
}

func (t *SelectTool) Definition() Definition {
	return Definition{
		ID:   SelectToolID,
		Name: "tools.itemSelect",
		Actions: []Action{
			{Name: "delete", Category: "menu.edit", DefaultKey: "delete", Callback: t.act(t.sel.Delete)},
			{Name: "selectAll", Category: "menu.select", DefaultKey: "ctrl-a", Callback: t.act(t.sel.SelectAll)},
			{Name: "invertSelection", Category: "menu.select", DefaultKey: "ctrl-i", Callback: t.act(t.sel.Invert)},
			{Name: "clone", Category: "menu.edit", DefaultKey: "ctrl-d", Callback: t.act(func() { t.sel.Clone() })},
			{Name: "splitAtSelected", Category: "menu.path", Callback: t.act(t.sel.SplitAtSelectedSegments)},
			{Name: "removeSelectedSegments", Category: "menu.path", DefaultKey: "shift-delete", Callback: t.act(t.sel.RemoveSelectedSegments)},
			{Name: "smoothHandles", Category: "menu.path", Callback: t.act(t.sel.SmoothHandles)},
			{Name: "selectAllSegments", Category: "menu.select", DefaultKey: "ctrl-shift-a", Callback: t.act(t.sel.SelectAllSegments)},
		},
	}
}

// act runs fn and then refreshes the bounds, since every action may change
// the selection or its geometry.
func (t *SelectTool) act(fn func()) func() {
	return func() {
		fn()
		t.RefreshBounds()
	}
}

func (t *SelectTool) Activate() error {
	if t.sel == nil || t.bus == nil {
		return errors.New("select tool needs a selection model and a trigger bus")
	}
	t.tolerance = t.opts.HitTolerance / t.view.Zoom()
	t.RefreshBounds()
	if !t.subscribed {
		t.deleteSub = t.bus.On(trigger.DeleteItems, func(trigger.Name) { t.hideBounds() })
		t.subscribed = true
	}
	return nil
}

func (t *SelectTool) Deactivate() {
	if t.subscribed {
		t.bus.Off(t.deleteSub)
		t.subscribed = false
	}
}

func (t *SelectTool) MouseDown(e MouseEvent) {
	if !e.Primary() {
		return
	}
	t.endSession()
	t.tolerance = t.opts.HitTolerance / t.view.Zoom()

	if t.boundsShown {
		handle, at := t.bounds.HitHandle(e.Point, t.tolerance)
		switch handle {
		case transform.HandleRotate:
			t.mode = ModeRotate
			t.rotate = transform.NewRotate(t.sel.SelectedNodes(), t.bounds.Rect.Center(), e.Point, t.opts.SnapAngle)
			t.hideBounds()
			return
		case transform.HandleScale:
			t.mode = ModeScale
			t.scale = transform.NewScale(t.sel.SelectedNodes(), t.bounds.Rect.Center(), at)
			t.hideBounds()
			return
		}
	}

	double := !e.Time.IsZero() && t.dblClick.Detect(e.Time)

	hit := t.sel.Graph().HitTest(e.Point, scene.HitOptions{
		Segments:  true,
		Stroke:    true,
		Curves:    true,
		Fill:      true,
		Guides:    false,
		Tolerance: t.tolerance,
	})
	if hit != nil {
		t.hideBounds()
		if double && hit.Node.IsPath() && e.Modifiers == (Modifiers{}) {
			t.sel.EditSegments(hit.Node)
			return
		}
		already := selection.Target(hit.Node).Selected()
		if !e.Modifiers.Shift && !already {
			t.sel.Clear()
		}
		if e.Modifiers.Shift && already {
			t.sel.SetSelection(hit.Node, false)
			return
		}
		t.sel.SetSelection(hit.Node, true)
		if e.Modifiers.Alt {
			t.mode = ModeCloneMove
			t.sel.Clone()
		} else {
			t.mode = ModeMove
		}
		return
	}

	if !e.Modifiers.Shift {
		t.hideBounds()
		t.sel.Clear()
	}
	t.mode = ModeRectSelection
}

func (t *SelectTool) MouseDrag(e MouseEvent) {
	if !e.Primary() {
		return
	}
	switch t.mode {
	case ModeRectSelection:
		t.marquee.Update(e.Point, e.DownPoint)
	case ModeScale:
		t.scale.Update(e.Delta, e.Modifiers.Shift, e.Modifiers.Alt)
	case ModeRotate:
		t.rotate.Update(e.Point, e.Modifiers.Shift)
	case ModeMove, ModeCloneMove:
		transform.Move{}.Update(t.sel.SelectedNodes(), e.Delta)
	default:
		return
	}
	t.view.Changed()
}

func (t *SelectTool) MouseUp(e MouseEvent) {
	if !e.Primary() {
		return
	}
	if t.mode == ModeRectSelection {
		if r, ok := t.marquee.Rect(); ok {
			mode := selection.MarqueeItems
			if t.opts.Detail {
				mode = selection.MarqueeDetail
			}
			t.sel.SelectRect(r, e.Modifiers.Shift, mode)
		}
	}

	gesture := t.mode != ModeNone
	t.endSession()
	t.mode = ModeNone
	t.marquee.End()
	if t.updateBounds() || gesture {
		t.view.Changed()
	}
}

// endSession closes a scale or rotate session left open.
func (t *SelectTool) endSession() {
	if t.scale != nil {
		t.scale.End()
		t.scale = nil
	}
	if t.rotate != nil {
		t.rotate.End()
		t.rotate = nil
	}
}

func (t *SelectTool) DrawImmediate(c Canvas) {
	z := 1 / t.view.Zoom()
	if r, ok := t.marquee.Rect(); ok {
		c.SetLineDash(3*z, 3*z)
		c.SetStrokeStyle(t.opts.GuideColor)
		c.StrokeRect(r)
		c.SetLineDash()
	}
	if !t.boundsShown {
		return
	}
	c.SetStrokeStyle(t.opts.GuideColor)
	c.SetFillStyle("#ffffff")
	c.StrokeRect(t.bounds.Rect)
	c.Circle(t.bounds.RotPoint, 5*z)
	c.Stroke()
	c.Fill()

	c.SetFillStyle(t.opts.GuideColor)
	for i, p := range t.bounds.ScalePoints {
		size := 6 * z
		if i%2 == 1 {
			size = 4 * z
		}
		c.FillRect(scene.Rect{X: p.X - size/2, Y: p.Y - size/2, Width: size, Height: size})
	}
}

// RefreshBounds recomputes the selection frame from the current selection
// and asks for a repaint if a frame was or is now shown.
func (t *SelectTool) RefreshBounds() {
	if t.updateBounds() {
		t.view.Changed()
	}
}

// updateBounds reports whether the overlay changed.
func (t *SelectTool) updateBounds() bool {
	wasShown := t.boundsShown
	b, ok := transform.ComputeBounds(t.sel.SelectedNodes(), t.view.Zoom(), t.opts.RotationHandleDistance)
	t.bounds, t.boundsShown = b, ok
	return ok || wasShown
}

func (t *SelectTool) hideBounds() {
	if !t.boundsShown {
		return
	}
	t.bounds = transform.Bounds{}
	t.boundsShown = false
	t.view.Changed()
}

// Mode returns the current gesture.
func (t *SelectTool) Mode() Mode { return t.mode }

// Bounds returns the selection frame, if shown.
func (t *SelectTool) Bounds() (transform.Bounds, bool) { return t.bounds, t.boundsShown }

// Marquee returns the rubber-band rectangle, if dragging one.
func (t *SelectTool) Marquee() (scene.Rect, bool) { return t.marquee.Rect() }

// Tolerance is the hit tolerance in scene units computed at the last
// activation or pointer-down.
func (t *SelectTool) Tolerance() float64 { return t.tolerance }

func (t *SelectTool) Options() SelectOptions { return t.opts }
