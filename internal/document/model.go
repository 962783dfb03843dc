package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownNodeType is returned when a document item has a type the
// importer does not know how to build.
var ErrUnknownNodeType = errors.New("unknown node type")

type Document struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Version     int     `json:"version"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	ActiveLayer int     `json:"activeLayer"`
	Layers      []Layer `json:"layers"`
}

type Layer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Hidden bool   `json:"hidden,omitempty"`
	Items  []Item `json:"items"`
}

type ItemType string

const (
	ItemTypeGroup        ItemType = "Group"
	ItemTypeCompoundPath ItemType = "CompoundPath"
	ItemTypePath         ItemType = "Path"
	ItemTypeShape        ItemType = "Shape"
	ItemTypeRaster       ItemType = "Raster"
	ItemTypePointText    ItemType = "PointText"
	ItemTypeSymbolItem   ItemType = "SymbolItem"

	// Generated shapes. They are imported as paths and exported as such.
	ItemTypeRectangle ItemType = "Rectangle"
	ItemTypeEllipse   ItemType = "Ellipse"
	ItemTypeCircle    ItemType = "Circle"
	ItemTypeStar      ItemType = "Star"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Segment struct {
	Point     Point  `json:"point"`
	HandleIn  *Point `json:"handleIn,omitempty"`
	HandleOut *Point `json:"handleOut,omitempty"`
}

type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

type Item struct {
	ID       string    `json:"id"`
	Type     ItemType  `json:"type"`
	Name     string    `json:"name,omitempty"`
	Matrix   []float64 `json:"matrix,omitempty"` // canvas order [a b c d e f]
	Style    Style     `json:"style"`
	Hidden   bool      `json:"hidden,omitempty"`
	Guide    bool      `json:"guide,omitempty"`
	Closed   bool      `json:"closed,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
	Children []Item    `json:"children,omitempty"`
	// Content rect of bounds-only items in local coordinates.
	Bounds *Rect `json:"bounds,omitempty"`
	// Generator parameters for Rectangle, Ellipse, Circle and Star.
	Shape json.RawMessage `json:"shape,omitempty"`
	Data  map[string]any  `json:"data,omitempty"`
}

// RectangleShape parameterizes ItemTypeRectangle.
type RectangleShape struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EllipseShape parameterizes ItemTypeEllipse.
type EllipseShape struct {
	Center Point   `json:"center"`
	RX     float64 `json:"rx"`
	RY     float64 `json:"ry"`
}

// CircleShape parameterizes ItemTypeCircle.
type CircleShape struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// StarShape parameterizes ItemTypeStar.
type StarShape struct {
	Center  Point   `json:"center"`
	Points  int     `json:"points"`
	Radius1 float64 `json:"radius1"`
	Radius2 float64 `json:"radius2"`
}

// Parse decodes a document from JSON.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &doc, nil
}

// NewEmptyDocument creates a document with one empty layer.
func NewEmptyDocument(docID, name, layerID string) *Document {
	return &Document{
		ID:      docID,
		Name:    name,
		Version: 1,
		Layers: []Layer{
			{ID: layerID, Name: "Layer 1", Items: []Item{}},
		},
	}
}
