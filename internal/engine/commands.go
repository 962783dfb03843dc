package engine

import (
	"encoding/json"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/scene"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string         `json:"op"`                    // "path" or "rect"
	ObjectID    string         `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64      `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand  `json:"path,omitempty"`        // Path data for "path" ops
	Rect        *document.Rect `json:"rect,omitempty"`        // Local content for "rect" ops
	Fill        string         `json:"fill,omitempty"`        // Fill color
	Stroke      string         `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64        `json:"strokeWidth,omitempty"` // Stroke width
	Selected    bool           `json:"selected,omitempty"`
	Guide       bool           `json:"guide,omitempty"`
	// SelectedSegments lists indices of selected anchors for detail editing.
	SelectedSegments []int `json:"selectedSegments,omitempty"`
}

// PathCommand is a single path segment in Canvas2D form:
// ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []any

// CompileDrawCommands generates a draw command buffer from the scene graph.
// Commands are in painter's order (back to front).
func CompileDrawCommands(g *scene.Graph) []DrawCommand {
	if g == nil {
		return nil
	}
	var commands []DrawCommand
	for _, l := range g.Layers() {
		if !l.Visible {
			continue
		}
		for _, c := range l.Children() {
			compileNode(c, l.Selected(), &commands)
		}
	}
	return commands
}

// compileNode emits a command for renderable nodes and recurses into
// containers. Children of a selected group render as selected.
func compileNode(n *scene.Node, inherited bool, commands *[]DrawCommand) {
	if n == nil || !n.Visible {
		return
	}
	selected := inherited || n.Selected()

	switch {
	case n.IsPath():
		cmd := DrawCommand{
			Op:          "path",
			ObjectID:    n.ID,
			Path:        pathCommands(n),
			Fill:        n.Fill,
			Stroke:      n.Stroke,
			StrokeWidth: n.StrokeWidth,
			Selected:    selected,
			Guide:       n.Guide,
		}
		if m := n.GlobalMatrix(); !scene.IsIdentity(m) {
			cmd.Transform = scene.MatrixToSlice(m)
		}
		for i, s := range n.Segments() {
			if s.Selected() {
				cmd.SelectedSegments = append(cmd.SelectedSegments, i)
			}
		}
		*commands = append(*commands, cmd)
	case n.IsBoundsOnly():
		r := document.Rect(n.Content())
		*commands = append(*commands, DrawCommand{
			Op:        "rect",
			ObjectID:  n.ID,
			Transform: scene.MatrixToSlice(n.GlobalMatrix()),
			Rect:      &r,
			Fill:      n.Fill,
			Stroke:    n.Stroke,
			Selected:  selected,
			Guide:     n.Guide,
		})
	default:
		for _, c := range n.Children() {
			compileNode(c, selected, commands)
		}
	}
}

func pathCommands(n *scene.Node) []PathCommand {
	segs := n.Segments()
	if len(segs) == 0 {
		return nil
	}
	out := []PathCommand{{"M", segs[0].Point.X, segs[0].Point.Y}}
	for _, c := range n.Curves() {
		s1, s2 := c.Segment1(), c.Segment2()
		if c.IsStraight() {
			out = append(out, PathCommand{"L", s2.Point.X, s2.Point.Y})
			continue
		}
		c1 := s1.Point.Add(s1.HandleOut)
		c2 := s2.Point.Add(s2.HandleIn)
		out = append(out, PathCommand{"C", c1.X, c1.Y, c2.X, c2.Y, s2.Point.X, s2.Point.Y})
	}
	if n.Closed() {
		out = append(out, PathCommand{"Z"})
	}
	return out
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if len(commands) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r scene.Rect) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
	return string(data)
}
