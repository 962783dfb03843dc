package selection

import (
	"github.com/inamate/inamate/editor-go/internal/scene"
)

// MarqueeMode picks between item and segment level rectangular selection.
type MarqueeMode int

const (
	MarqueeItems MarqueeMode = iota
	// MarqueeDetail selects segments and curves instead of whole paths.
	MarqueeDetail
)

// SelectRect applies a rectangular selection to the top-level selectable
// items of the active layer. Without invert everything touched is
// selected; with invert, touched items flip their selection.
//
// Groups and compound paths are drilled into. A whole-item hit inside one
// stops the descent of that top-level item only; its siblings are always
// evaluated.
func (m *Model) SelectRect(rect scene.Rect, invert bool, mode MarqueeMode) {
	for _, n := range m.topLevelSelectable() {
		if n.IsContainer() {
			m.rectGroup(n, rect, invert, mode)
			continue
		}
		m.rectItem(n, rect, invert, mode)
	}
}

// rectGroup reports false once a whole-item hit stopped the descent.
func (m *Model) rectGroup(g *scene.Node, rect scene.Rect, invert bool, mode MarqueeMode) bool {
	for _, c := range g.Children() {
		if c.IsHelper() {
			continue
		}
		if c.IsContainer() {
			if !m.rectGroup(c, rect, invert, mode) {
				return false
			}
			continue
		}
		if !m.rectItem(c, rect, invert, mode) {
			return false
		}
	}
	return true
}

// rectItem reports false when the item was selected as a whole.
func (m *Model) rectItem(n *scene.Node, rect scene.Rect, invert bool, mode MarqueeMode) bool {
	if !m.inActiveLayer(n) {
		return true
	}
	switch {
	case n.IsPath():
		return m.rectPath(n, rect, invert, mode)
	case n.IsBoundsOnly():
		b, _ := n.Bounds()
		if rect.Intersects(b) {
			m.applyMarquee(n, invert)
			return false
		}
	}
	return true
}

func (m *Model) rectPath(n *scene.Node, rect scene.Rect, invert bool, mode MarqueeMode) bool {
	gm := n.GlobalMatrix()
	segmentHit := false
	for _, s := range n.Segments() {
		if !rect.Contains(gm.TransformPoint(s.Point)) {
			continue
		}
		if mode != MarqueeDetail {
			m.applyMarquee(n, invert)
			return false
		}
		s.SetSelected(!(invert && s.Selected()))
		segmentHit = true
	}
	if segmentHit {
		return true
	}

	outline := scene.NewRectanglePath(rect)
	hits := n.Intersections(outline)
	if len(hits) == 0 {
		return true
	}
	if mode != MarqueeDetail {
		m.applyMarquee(n, invert)
		return false
	}

	// The outline crosses a curve once going in and once going out, so
	// every curve is toggled at most once.
	seen := make(map[int]bool, len(hits))
	for _, h := range hits {
		if seen[h.Curve.Index()] {
			continue
		}
		seen[h.Curve.Index()] = true
		if invert {
			h.Curve.SetSelected(!h.Curve.Selected())
		} else {
			h.Curve.SetSelected(true)
		}
	}
	return true
}

// applyMarquee selects the node (or its group), or with invert flips the
// current selection of that target.
func (m *Model) applyMarquee(n *scene.Node, invert bool) {
	m.SetSelection(n, !invert || !Target(n).Selected())
}
