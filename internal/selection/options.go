package selection

import (
	"math/rand/v2"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/scene"
)

// Option configures a Model during creation.
//
// Example:
//
//	sel := selection.New(graph, bus,
//		selection.WithSnapshotter(history.Snapshot),
//		selection.WithRedraw(view.Update))
type Option func(*modelOptions)

type modelOptions struct {
	snapshot func(label string)
	redraw   func()
	copyData func(scene.Data) scene.Data
	rand     *rand.Rand
}

func defaultOptions() modelOptions {
	return modelOptions{
		snapshot: func(string) {},
		redraw:   func() {},
		copyData: document.CopyData,
	}
}

// WithSnapshotter sets the callback asked to record a named undo snapshot
// after delete, clone and segment edits.
func WithSnapshotter(fn func(label string)) Option {
	return func(o *modelOptions) {
		if fn != nil {
			o.snapshot = fn
		}
	}
}

// WithRedraw sets the callback that forces a scene redraw.
func WithRedraw(fn func()) Option {
	return func(o *modelOptions) {
		if fn != nil {
			o.redraw = fn
		}
	}
}

// WithCopier replaces the deep copy used for data payloads of cloned and
// split nodes.
func WithCopier(fn func(scene.Data) scene.Data) Option {
	return func(o *modelOptions) {
		if fn != nil {
			o.copyData = fn
		}
	}
}

// WithRand sets the random source of SelectRandom.
func WithRand(r *rand.Rand) Option {
	return func(o *modelOptions) {
		o.rand = r
	}
}
