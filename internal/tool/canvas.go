package tool

import (
	"encoding/json"
	"log/slog"
	"math"

	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// Canvas is the immediate-mode surface tools draw their overlay on, in
// scene coordinates.
type Canvas interface {
	SetLineDash(lengths ...float64)
	SetStrokeStyle(color string)
	SetFillStyle(color string)
	StrokeRect(r scene.Rect)
	FillRect(r scene.Rect)
	// Circle replaces the current path with a circle for Stroke and Fill.
	Circle(center gg.Point, radius float64)
	Stroke()
	Fill()
}

// GGCanvas draws onto a gg raster context.
type GGCanvas struct {
	dc     *gg.Context
	stroke string
	fill   string
	circle *circle
}

type circle struct {
	center gg.Point
	radius float64
}

// NewGGCanvas wraps dc. The caller sets up the view transform on dc.
func NewGGCanvas(dc *gg.Context) *GGCanvas {
	return &GGCanvas{dc: dc, stroke: "#000000", fill: "#000000"}
}

func (c *GGCanvas) SetLineDash(lengths ...float64) { c.dc.SetDash(lengths...) }
func (c *GGCanvas) SetStrokeStyle(color string)    { c.stroke = color }
func (c *GGCanvas) SetFillStyle(color string)      { c.fill = color }

func (c *GGCanvas) StrokeRect(r scene.Rect) {
	c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	c.dc.SetHexColor(c.stroke)
	c.report(c.dc.Stroke())
}

func (c *GGCanvas) FillRect(r scene.Rect) {
	c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	c.dc.SetHexColor(c.fill)
	c.report(c.dc.Fill())
}

func (c *GGCanvas) Circle(center gg.Point, radius float64) {
	c.circle = &circle{center: center, radius: radius}
}

func (c *GGCanvas) Stroke() {
	if c.circle == nil {
		return
	}
	c.dc.DrawCircle(c.circle.center.X, c.circle.center.Y, c.circle.radius)
	c.dc.SetHexColor(c.stroke)
	c.report(c.dc.Stroke())
}

func (c *GGCanvas) Fill() {
	if c.circle == nil {
		return
	}
	c.dc.DrawCircle(c.circle.center.X, c.circle.center.Y, c.circle.radius)
	c.dc.SetHexColor(c.fill)
	c.report(c.dc.Fill())
}

func (c *GGCanvas) report(err error) {
	if err != nil {
		slog.Warn("overlay draw", "error", err)
	}
}

// DrawCommand is a single overlay operation for a host that replays them on
// its own 2D context.
type DrawCommand struct {
	Op     string    `json:"op"` // "strokeRect", "fillRect", "strokeCircle", "fillCircle"
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Radius float64   `json:"radius,omitempty"`
	Color  string    `json:"color"`
	Dash   []float64 `json:"dash,omitempty"`
}

// Recorder is a Canvas that records DrawCommands.
type Recorder struct {
	Commands []DrawCommand
	dash     []float64
	stroke   string
	fill     string
	circle   *circle
}

func NewRecorder() *Recorder {
	return &Recorder{stroke: "#000000", fill: "#000000"}
}

func (r *Recorder) SetLineDash(lengths ...float64) {
	if len(lengths) == 0 {
		r.dash = nil
		return
	}
	r.dash = append([]float64(nil), lengths...)
}

func (r *Recorder) SetStrokeStyle(color string) { r.stroke = color }
func (r *Recorder) SetFillStyle(color string)   { r.fill = color }

func (r *Recorder) StrokeRect(rect scene.Rect) {
	r.rect("strokeRect", rect, r.stroke, r.dash)
}

func (r *Recorder) FillRect(rect scene.Rect) {
	r.rect("fillRect", rect, r.fill, nil)
}

func (r *Recorder) rect(op string, rect scene.Rect, color string, dash []float64) {
	r.Commands = append(r.Commands, DrawCommand{
		Op: op, X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height,
		Color: color, Dash: dash,
	})
}

func (r *Recorder) Circle(center gg.Point, radius float64) {
	r.circle = &circle{center: center, radius: radius}
}

func (r *Recorder) Stroke() { r.arc("strokeCircle", r.stroke, r.dash) }
func (r *Recorder) Fill()   { r.arc("fillCircle", r.fill, nil) }

func (r *Recorder) arc(op, color string, dash []float64) {
	if r.circle == nil {
		return
	}
	r.Commands = append(r.Commands, DrawCommand{
		Op: op, X: r.circle.center.X, Y: r.circle.center.Y,
		Radius: math.Abs(r.circle.radius), Color: color, Dash: dash,
	})
}

// JSON serializes the recorded commands.
func (r *Recorder) JSON() (string, error) {
	if len(r.Commands) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(r.Commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
