package document

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// Import builds a scene graph from the document.
func Import(doc *Document) (*scene.Graph, error) {
	g := &scene.Graph{}
	for _, l := range doc.Layers {
		layer := scene.NewLayer(l.Name)
		if l.ID != "" {
			layer.ID = l.ID
		}
		layer.Visible = !l.Hidden
		for _, it := range l.Items {
			n, err := buildItem(it)
			if err != nil {
				return nil, fmt.Errorf("layer %q: %w", l.Name, err)
			}
			layer.AddChildren(n)
		}
		g.AddLayer(layer)
	}
	if len(g.Layers()) == 0 {
		g.AddLayer(scene.NewLayer("Layer 1"))
	}
	if doc.ActiveLayer >= 0 && doc.ActiveLayer < len(g.Layers()) {
		g.ActivateLayer(g.Layers()[doc.ActiveLayer])
	}
	return g, nil
}

func buildItem(it Item) (*scene.Node, error) {
	var n *scene.Node
	switch it.Type {
	case ItemTypeGroup, ItemTypeCompoundPath:
		children := make([]*scene.Node, 0, len(it.Children))
		for _, c := range it.Children {
			child, err := buildItem(c)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if it.Type == ItemTypeGroup {
			n = scene.NewGroup(children...)
		} else {
			n = scene.NewCompoundPath(children...)
		}
	case ItemTypePath:
		segs := make([]*scene.Segment, len(it.Segments))
		for i, s := range it.Segments {
			segs[i] = scene.NewSegment(s.Point.toGG(), pointOrZero(s.HandleIn), pointOrZero(s.HandleOut))
		}
		n = scene.NewPath(segs, it.Closed)
	case ItemTypeShape, ItemTypeRaster, ItemTypePointText, ItemTypeSymbolItem:
		var content scene.Rect
		if it.Bounds != nil {
			content = scene.Rect(*it.Bounds)
		}
		n = scene.NewBoundsItem(boundsKind(it.Type), content)
	case ItemTypeRectangle:
		var s RectangleShape
		if err := json.Unmarshal(it.Shape, &s); err != nil {
			return nil, fmt.Errorf("invalid rectangle %q: %w", it.ID, err)
		}
		n = NewRectangle(scene.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height})
	case ItemTypeEllipse:
		var s EllipseShape
		if err := json.Unmarshal(it.Shape, &s); err != nil {
			return nil, fmt.Errorf("invalid ellipse %q: %w", it.ID, err)
		}
		n = NewEllipse(s.Center.toGG(), s.RX, s.RY)
	case ItemTypeCircle:
		var s CircleShape
		if err := json.Unmarshal(it.Shape, &s); err != nil {
			return nil, fmt.Errorf("invalid circle %q: %w", it.ID, err)
		}
		n = NewCircle(s.Center.toGG(), s.Radius)
	case ItemTypeStar:
		var s StarShape
		if err := json.Unmarshal(it.Shape, &s); err != nil {
			return nil, fmt.Errorf("invalid star %q: %w", it.ID, err)
		}
		n = NewStar(s.Center.toGG(), s.Points, s.Radius1, s.Radius2)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, it.Type)
	}

	if it.ID != "" {
		n.ID = it.ID
	}
	n.Name = it.Name
	n.Visible = !it.Hidden
	n.Guide = it.Guide
	n.Fill = it.Style.Fill
	n.Stroke = it.Style.Stroke
	n.StrokeWidth = it.Style.StrokeWidth
	n.Data = scene.Data{}
	if it.Data != nil {
		n.Data = CopyData(scene.Data(it.Data))
	}
	if len(it.Matrix) == 6 {
		n.Transform(scene.MatrixFromSlice(it.Matrix))
	}
	return n, nil
}

func boundsKind(t ItemType) scene.Kind {
	switch t {
	case ItemTypeShape:
		return scene.KindShape
	case ItemTypePointText:
		return scene.KindPointText
	case ItemTypeSymbolItem:
		return scene.KindSymbolItem
	default:
		return scene.KindRaster
	}
}

// Export serializes the scene graph. Helper containers are dissolved so
// that an export taken mid-gesture still lists every user item.
func Export(g *scene.Graph, docID, name string) *Document {
	doc := &Document{ID: docID, Name: name, Version: 1}
	for i, l := range g.Layers() {
		if l == g.ActiveLayer() {
			doc.ActiveLayer = i
		}
		doc.Layers = append(doc.Layers, Layer{
			ID:     l.ID,
			Name:   l.Name,
			Hidden: !l.Visible,
			Items:  exportChildren(l.Children(), gg.Identity()),
		})
	}
	return doc
}

// exportChildren exports nodes with pending composed in front of their own
// matrices. A helper's matrix is still pending on its children.
func exportChildren(nodes []*scene.Node, pending gg.Matrix) []Item {
	items := make([]Item, 0, len(nodes))
	for _, n := range nodes {
		if n.IsHelper() {
			items = append(items, exportChildren(n.Children(), pending.Multiply(n.Matrix()))...)
			continue
		}
		items = append(items, exportNode(n, pending))
	}
	return items
}

func exportNode(n *scene.Node, pending gg.Matrix) Item {
	it := Item{
		ID:     n.ID,
		Type:   ItemType(n.Kind().String()),
		Name:   n.Name,
		Hidden: !n.Visible,
		Guide:  n.Guide,
		Style: Style{
			Fill:        n.Fill,
			Stroke:      n.Stroke,
			StrokeWidth: n.StrokeWidth,
		},
	}
	if n.Data != nil {
		it.Data = map[string]any(CopyData(n.Data))
	}
	if m := pending.Multiply(n.Matrix()); !scene.IsIdentity(m) {
		it.Matrix = scene.MatrixToSlice(m)
	}

	switch {
	case n.IsPath():
		it.Closed = n.Closed()
		it.Segments = make([]Segment, len(n.Segments()))
		for i, s := range n.Segments() {
			it.Segments[i] = Segment{
				Point:     fromGG(s.Point),
				HandleIn:  optionalPoint(s.HandleIn),
				HandleOut: optionalPoint(s.HandleOut),
			}
		}
	case n.IsBoundsOnly():
		r := Rect(n.Content())
		it.Bounds = &r
	default:
		it.Children = exportChildren(n.Children(), gg.Identity())
	}
	return it
}

func (p Point) toGG() gg.Point { return gg.Pt(p.X, p.Y) }

func pointOrZero(p *Point) gg.Point {
	if p == nil {
		return gg.Point{}
	}
	return p.toGG()
}

func fromGG(p gg.Point) Point { return Point{X: p.X, Y: p.Y} }

func optionalPoint(p gg.Point) *Point {
	if p == (gg.Point{}) {
		return nil
	}
	out := fromGG(p)
	return &out
}
