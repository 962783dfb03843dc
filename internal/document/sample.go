package document

import (
	"encoding/json"
	"time"

	"github.com/inamate/inamate/editor-go/internal/typeid"
)

// NewSampleDocument returns the starter drawing: two overlapping circles and
// a five-pointed star, all stroked black.
func NewSampleDocument(docID string) *Document {
	now := time.Now().UTC().Format(time.RFC3339)

	stroke := Style{Stroke: "#000000", StrokeWidth: 1}

	return &Document{
		ID:        docID,
		Name:      "Untitled",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		Layers: []Layer{
			{
				ID:   typeid.NewLayerID(),
				Name: "Layer 1",
				Items: []Item{
					{
						ID:    typeid.NewNodeID(),
						Type:  ItemTypeCircle,
						Style: stroke,
						Shape: mustShape(CircleShape{Center: Point{X: 160, Y: 160}, Radius: 20}),
						Data:  map[string]any{},
					},
					{
						ID:    typeid.NewNodeID(),
						Type:  ItemTypeCircle,
						Style: stroke,
						Shape: mustShape(CircleShape{Center: Point{X: 190, Y: 170}, Radius: 20}),
						Data:  map[string]any{},
					},
					{
						ID:    typeid.NewNodeID(),
						Type:  ItemTypeStar,
						Style: stroke,
						Shape: mustShape(StarShape{Center: Point{X: 230, Y: 160}, Points: 5, Radius1: 10, Radius2: 20}),
						Data:  map[string]any{},
					},
				},
			},
		},
	}
}

func mustShape(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
