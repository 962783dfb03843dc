package tool

import (
	"errors"
	"fmt"
	"log/slog"
)

var ErrUnknownTool = errors.New("unknown tool")

// Registry owns the tools and tracks which one is active. A tool switched
// away from with duck set is remembered and can be restored with Unduck.
type Registry struct {
	tools  map[string]Tool
	order  []string
	active Tool
	ducked Tool
	keymap *Keymap
}

func NewRegistry(keymap *Keymap) *Registry {
	if keymap == nil {
		keymap = NewKeymap()
	}
	return &Registry{
		tools:  make(map[string]Tool),
		keymap: keymap,
	}
}

func (r *Registry) Keymap() *Keymap { return r.keymap }

// Register adds a tool and its actions. Actions are named "<tool>.<action>"
// and only run while their tool is active.
func (r *Registry) Register(t Tool) error {
	def := t.Definition()
	if _, ok := r.tools[def.ID]; ok {
		return fmt.Errorf("tool %q already registered", def.ID)
	}
	for _, a := range def.Actions {
		name := def.ID + "." + a.Name
		if err := r.keymap.Register(name, r.gated(def.ID, a.Callback), a.DefaultKey); err != nil {
			return fmt.Errorf("register tool %s: %w", def.ID, err)
		}
	}
	r.tools[def.ID] = t
	r.order = append(r.order, def.ID)
	return nil
}

func (r *Registry) gated(id string, fn func()) func() {
	return func() {
		if r.active != nil && r.active.Definition().ID == id {
			fn()
		}
	}
}

func (r *Registry) Tool(id string) (Tool, bool) {
	t, ok := r.tools[id]
	return t, ok
}

// IDs returns tool ids in registration order.
func (r *Registry) IDs() []string { return append([]string(nil), r.order...) }

func (r *Registry) Active() Tool { return r.active }

func (r *Registry) Ducked() Tool { return r.ducked }

// Switch activates the tool with the given id. Switching to the active tool
// does nothing unless force is set. If the new tool fails to activate, the
// failure is logged and the previous tool is restored.
func (r *Registry) Switch(id string, force, duck bool) error {
	next, ok := r.tools[id]
	if !ok {
		slog.Warn("switch tool", "tool", id, "error", ErrUnknownTool)
		return fmt.Errorf("switch to %s: %w", id, ErrUnknownTool)
	}
	prev := r.active
	if prev == next && !force {
		return nil
	}

	prevDucked := r.ducked
	if prev != nil {
		prev.Deactivate()
	}
	if prev != nil && duck && !prev.Definition().Hidden {
		r.ducked = prev
	} else {
		r.ducked = nil
	}

	if err := next.Activate(); err != nil {
		slog.Warn("tool could not be loaded", "tool", id, "error", err)
		r.ducked = prevDucked
		if prev != nil {
			if rerr := prev.Activate(); rerr != nil {
				slog.Error("restore previous tool", "tool", prev.Definition().ID, "error", rerr)
			}
		}
		return fmt.Errorf("activate %s: %w", id, err)
	}
	r.active = next

	slog.Debug("tool switched", "from", toolID(prev), "to", id)
	return nil
}

// Unduck switches back to the ducked tool, if any.
func (r *Registry) Unduck() error {
	if r.ducked == nil {
		return nil
	}
	return r.Switch(r.ducked.Definition().ID, false, false)
}

func toolID(t Tool) string {
	if t == nil {
		return ""
	}
	return t.Definition().ID
}
