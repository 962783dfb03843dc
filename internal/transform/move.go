// Package transform holds the interactive transform sessions driven by
// pointer gestures, and the bounds and handle geometry they are started from.
package transform

import (
	"github.com/gogpu/gg"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// Move translates items by per-frame deltas. It keeps no state between
// frames; cloning before a move is up to the caller.
type Move struct{}

// Update moves every item by delta, the frame's incremental pointer motion.
func (Move) Update(items []*scene.Node, delta gg.Point) {
	for _, n := range items {
		n.Translate(delta)
	}
}
