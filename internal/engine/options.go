package engine

import (
	"time"

	"github.com/inamate/inamate/editor-go/internal/tool"
)

// Option configures an Engine during creation.
type Option func(*engineOptions)

type engineOptions struct {
	snapshot   func(label string)
	repaint    func()
	selectOpts tool.SelectOptions
	keybinds   map[string][]string
	now        func() time.Time
}

func defaultOptions() engineOptions {
	return engineOptions{
		snapshot:   func(string) {},
		repaint:    func() {},
		selectOpts: tool.DefaultSelectOptions(),
		now:        time.Now,
	}
}

// WithSnapshotter sets the callback that records undo snapshots. The label
// names the edit, e.g. "deleteSelection".
func WithSnapshotter(fn func(label string)) Option {
	return func(o *engineOptions) {
		if fn != nil {
			o.snapshot = fn
		}
	}
}

// WithRepaint sets the callback invoked when the scene or the overlay
// needs to be drawn again.
func WithRepaint(fn func()) Option {
	return func(o *engineOptions) {
		if fn != nil {
			o.repaint = fn
		}
	}
}

func WithSelectOptions(opts tool.SelectOptions) Option {
	return func(o *engineOptions) {
		o.selectOpts = opts
	}
}

// WithKeybinds replaces the default key bindings. Keys are key specs such
// as "ctrl-shift-a", values are action names such as "select.selectAll".
func WithKeybinds(binds map[string][]string) Option {
	return func(o *engineOptions) {
		o.keybinds = binds
	}
}

// WithClock sets the time source used to stamp pointer events.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}
