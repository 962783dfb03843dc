package transform

import (
	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// Marquee tracks the rubber-band rectangle of a drag selection.
type Marquee struct {
	rect   scene.Rect
	active bool
}

// Start opens an empty rectangle at p.
func (m *Marquee) Start(p gg.Point) {
	m.rect = scene.NewRect(p, p)
	m.active = true
}

// Update spans the rectangle between origin and p. It starts the marquee
// if needed.
func (m *Marquee) Update(p, origin gg.Point) {
	m.rect = scene.NewRect(origin, p)
	m.active = true
}

// End discards the rectangle.
func (m *Marquee) End() {
	m.rect = scene.Rect{}
	m.active = false
}

// Rect returns the current rectangle and whether a marquee is active.
func (m *Marquee) Rect() (scene.Rect, bool) {
	return m.rect, m.active
}
