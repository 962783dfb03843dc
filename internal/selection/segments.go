package selection

import (
	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/trigger"
)

// HandleMode selects how SwitchSelectedHandles rewrites segment handles.
type HandleMode int

const (
	// HandleToggle smooths linear segments and linearizes curved ones.
	HandleToggle HandleMode = iota
	HandleLinear
	HandleSmooth
)

// SelectAllSegments selects every segment of every selectable path.
func (m *Model) SelectAllSegments() {
	for _, n := range m.SelectableItems() {
		SelectItemSegments(n, true)
	}
	m.emit(trigger.SelectionChanged)
}

// SelectItemSegments sets the selection of all segments of a path, or of
// the paths inside a group or compound path.
func SelectItemSegments(n *scene.Node, state bool) {
	if n.IsPath() {
		for _, s := range n.Segments() {
			s.SetSelected(state)
		}
		return
	}
	for _, c := range n.Children() {
		switch {
		case c.IsPath():
			c.SetFullySelected(state)
		case c.IsContainer():
			SelectItemSegments(c, state)
		}
	}
}

// EditSegments replaces the selection with every segment of n.
func (m *Model) EditSegments(n *scene.Node) {
	if n == nil || !m.selectable(n) {
		return
	}
	m.graph.DeselectAll()
	SelectItemSegments(n, true)
	m.emit(trigger.SelectionChanged)
}

// SetSegmentSelection selects or deselects one segment of a selectable path.
func (m *Model) SetSegmentSelection(s *scene.Segment, state bool) {
	p := s.Path()
	if p == nil || !m.selectable(p) {
		return
	}
	s.SetSelected(state)
	m.emit(trigger.SelectionChanged)
}

// InvertSegments flips the selection of every segment of the selectable paths.
func (m *Model) InvertSegments() {
	for _, n := range m.SelectableItems() {
		if !n.IsPath() {
			continue
		}
		for _, s := range n.Segments() {
			s.SetSelected(!s.Selected())
		}
	}
	m.emit(trigger.SelectionChanged)
}

// SmoothHandles smooths the handles of every selected segment.
func (m *Model) SmoothHandles() {
	m.SwitchSelectedHandles(HandleSmooth)
}

// SwitchSelectedHandles rewrites the handles of the selected segments of
// the selected paths.
func (m *Model) SwitchSelectedHandles(mode HandleMode) {
	for _, n := range m.SelectedPaths() {
		for _, s := range n.Segments() {
			if s.Selected() {
				switchHandle(s, mode)
			}
		}
	}
	m.opts.snapshot("switchSelectedHandles")
}

func switchHandle(s *scene.Segment, mode HandleMode) {
	if mode == HandleToggle {
		mode = HandleSmooth
		if !s.IsLinear() {
			mode = HandleLinear
		}
	}
	if mode == HandleLinear {
		s.Linearize()
		return
	}
	s.Smooth()
}

// RemoveSelectedSegments deletes the selected segments of the selected paths.
func (m *Model) RemoveSelectedSegments() {
	for _, n := range m.SelectedPaths() {
		for i := len(n.Segments()) - 1; i >= 0; i-- {
			if n.Segments()[i].Selected() {
				n.RemoveSegment(i)
			}
		}
	}
	m.emit(trigger.SelectionChanged)
	m.opts.snapshot("removeSelectedSegments")
}

// SplitAtSelectedSegments cuts the selected paths at their selected
// segments. Closed paths are opened at the first selected segment; open
// paths are cut at selected segments whose neighbours are both unselected.
func (m *Model) SplitAtSelectedSegments() {
	for _, n := range m.SelectedPaths() {
		for _, s := range append([]*scene.Segment(nil), n.Segments()...) {
			if !s.Selected() {
				continue
			}
			next, prev := s.Next(), s.Previous()
			if n.Closed() || (next != nil && !next.Selected() && prev != nil && !prev.Selected()) {
				m.splitRetainSelection(s)
			}
		}
	}
	m.emit(trigger.SelectionChanged)
	m.opts.snapshot("splitAtSelectedSegments")
}

// splitRetainSelection splits the segment's path at the segment and
// restores the selection of the segments that were selected before.
func (m *Model) splitRetainSelection(s *scene.Segment) {
	path := s.Path()
	if path == nil {
		return
	}
	var selected []*scene.Segment
	for _, seg := range path.Segments() {
		if seg.Selected() {
			selected = append(selected, seg)
		}
	}
	split := path.SplitAt(s.Index(), 0)
	if split == nil {
		return
	}
	if split != path && path.Data != nil {
		split.Data = m.opts.copyData(path.Data)
	}
	for _, seg := range selected {
		seg.SetSelected(true)
	}
}
