package document

import (
	"encoding/json"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

func TestImportSampleDocument(t *testing.T) {
	g, err := Import(NewSampleDocument("doc_test"))
	require.NoError(t, err)

	items := g.ActiveLayer().Children()
	require.Len(t, items, 3)
	for _, n := range items {
		assert.True(t, n.IsPath())
		assert.True(t, n.Closed())
		assert.NotNil(t, n.Data)
		assert.Equal(t, "#000000", n.Stroke)
	}
	assert.Len(t, items[0].Segments(), 4)
	assert.Len(t, items[2].Segments(), 10)

	b, ok := items[0].Bounds()
	require.True(t, ok)
	assert.InDelta(t, 140, b.X, 1e-6)
	assert.InDelta(t, 140, b.Y, 1e-6)
	assert.InDelta(t, 40, b.Width, 1e-6)
	assert.InDelta(t, 40, b.Height, 1e-6)

	top := items[2].Segments()[0].Point
	assert.InDelta(t, 230, top.X, 1e-9)
	assert.InDelta(t, 150, top.Y, 1e-9)
}

func TestImportRejectsUnknownType(t *testing.T) {
	doc := &Document{Layers: []Layer{{Name: "L", Items: []Item{{ID: "x", Type: "Blob"}}}}}
	_, err := Import(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownNodeType)
}

func TestImportRejectsBadShape(t *testing.T) {
	doc := &Document{Layers: []Layer{{Name: "L", Items: []Item{
		{ID: "x", Type: ItemTypeCircle, Shape: json.RawMessage(`"nope"`)},
	}}}}
	_, err := Import(doc)
	assert.Error(t, err)
}

func TestImportAppliesMatrix(t *testing.T) {
	doc := &Document{Layers: []Layer{{Name: "L", Items: []Item{
		{
			Type:     ItemTypePath,
			Matrix:   []float64{1, 0, 0, 1, 10, 20},
			Segments: []Segment{{Point: Point{X: 0, Y: 0}}, {Point: Point{X: 5, Y: 0}}},
		},
		{
			Type:   ItemTypeRaster,
			Matrix: []float64{2, 0, 0, 2, 0, 0},
			Bounds: &Rect{Width: 10, Height: 10},
		},
	}}}}
	g, err := Import(doc)
	require.NoError(t, err)

	path, raster := g.ActiveLayer().Children()[0], g.ActiveLayer().Children()[1]
	assert.Equal(t, gg.Pt(10, 20), path.Segments()[0].Point)
	assert.True(t, scene.IsIdentity(path.Matrix()))

	b, _ := raster.Bounds()
	assert.Equal(t, scene.Rect{Width: 20, Height: 20}, b)

	out := Export(g, "doc", "name")
	assert.Nil(t, out.Layers[0].Items[0].Matrix)
	assert.Equal(t, []float64{2, 0, 0, 2, 0, 0}, out.Layers[0].Items[1].Matrix)
	assert.Equal(t, &Rect{Width: 10, Height: 10}, out.Layers[0].Items[1].Bounds)
}

func TestExportRoundTrip(t *testing.T) {
	g, err := Import(NewSampleDocument("doc_rt"))
	require.NoError(t, err)
	c1, c2 := g.ActiveLayer().Children()[0], g.ActiveLayer().Children()[1]
	group := scene.NewGroup(c1, c2)
	g.ActiveLayer().AddChildren(group)

	doc := Export(g, "doc_rt", "sample")
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	parsed, err := Parse(raw)
	require.NoError(t, err)
	again, err := Import(parsed)
	require.NoError(t, err)

	items := again.ActiveLayer().Children()
	require.Len(t, items, 2)
	assert.True(t, items[0].IsPath(), "star stays a path")
	assert.True(t, items[1].IsGroup())
	require.Len(t, items[1].Children(), 2)
	circle := items[1].Children()[0]
	assert.Equal(t, c1.ID, circle.ID)
	assert.False(t, circle.Segments()[0].IsLinear())
}

func TestExportDissolvesHelpers(t *testing.T) {
	g := scene.NewGraph()
	p := scene.NewRectanglePath(scene.Rect{Width: 1, Height: 1})
	helper := scene.NewGroup(p)
	helper.Data[scene.DataHelperItem] = true
	g.ActiveLayer().AddChildren(helper)

	doc := Export(g, "d", "n")
	require.Len(t, doc.Layers[0].Items, 1)
	assert.Equal(t, ItemTypePath, doc.Layers[0].Items[0].Type)
}

func TestExportAppliesPendingHelperMatrix(t *testing.T) {
	g := scene.NewGraph()
	p := scene.NewRectanglePath(scene.Rect{Width: 10, Height: 10})
	helper := scene.NewGroup(p)
	helper.Data[scene.DataHelperItem] = true
	helper.SetApplyMatrix(false)
	g.ActiveLayer().AddChildren(helper)
	helper.Scale(2, 3, gg.Pt(0, 0))

	doc := Export(g, "d", "n")
	require.Len(t, doc.Layers[0].Items, 1)
	assert.Equal(t, []float64{2, 0, 0, 3, 0, 0}, doc.Layers[0].Items[0].Matrix)

	back, err := Import(doc)
	require.NoError(t, err)
	b, ok := back.ActiveLayer().Children()[0].Bounds()
	require.True(t, ok)
	assert.InDelta(t, 20, b.Width, 1e-9)
	assert.InDelta(t, 30, b.Height, 1e-9)
}

func TestCopyDataIsDeep(t *testing.T) {
	src := scene.Data{"tags": []any{"a"}, "meta": map[string]any{"n": 1}}
	cp := CopyData(src)

	cp["meta"].(map[string]any)["n"] = 2
	cp["tags"] = append(cp["tags"].([]any), "b")

	assert.Equal(t, 1, src["meta"].(map[string]any)["n"])
	assert.Equal(t, []any{"a"}, src["tags"])
	assert.Nil(t, CopyData(nil))
}

func TestCopyDataFallsBackToShallow(t *testing.T) {
	src := scene.Data{"fn": func() {}}
	cp := CopyData(src)
	assert.Contains(t, cp, "fn")
}
