package tool

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	ErrInvalidKeySpec = errors.New("invalid key spec")
	ErrUnknownAction  = errors.New("unknown action")
)

// KeySpec names a key chord: [ctrl-][shift-]<key>[-up].
type KeySpec string

var keySpecPattern = regexp.MustCompile(`^(ctrl-)?(shift-)?([a-z0-9]+)(-up)?$`)

var allowedKeys = []string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l",
	"m", "n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x",
	"y", "z", "1", "2", "3", "4", "5", "6", "7", "8", "9", "0",
	"enter", "backspace", "delete", "escape", "space", "control",
}

// ParseKeySpec validates s against the chord grammar and the allowed keys.
func ParseKeySpec(s string) (KeySpec, error) {
	m := keySpecPattern.FindStringSubmatch(s)
	if m == nil || !slices.Contains(allowedKeys, m[3]) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKeySpec, s)
	}
	return KeySpec(s), nil
}

// KeySpecFor builds the chord for a key event. Meta counts as ctrl.
func KeySpecFor(key string, ctrl, shift, up bool) KeySpec {
	var b strings.Builder
	if ctrl {
		b.WriteString("ctrl-")
	}
	if shift {
		b.WriteString("shift-")
	}
	if key == " " {
		key = "space"
	}
	b.WriteString(strings.ToLower(key))
	if up {
		b.WriteString("-up")
	}
	return KeySpec(b.String())
}

// Keymap binds key chords to sets of action names.
type Keymap struct {
	actions map[string]func()
	binds   map[KeySpec][]string
}

func NewKeymap() *Keymap {
	return &Keymap{
		actions: make(map[string]func()),
		binds:   make(map[KeySpec][]string),
	}
}

// Register adds an action and, if defaultKey is set, binds it.
func (k *Keymap) Register(name string, fn func(), defaultKey KeySpec) error {
	if defaultKey != "" {
		if _, err := ParseKeySpec(string(defaultKey)); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	k.actions[name] = fn
	if defaultKey != "" {
		k.bind(defaultKey, name)
	}
	return nil
}

func (k *Keymap) bind(spec KeySpec, name string) {
	if !slices.Contains(k.binds[spec], name) {
		k.binds[spec] = append(k.binds[spec], name)
	}
}

// Actions lists registered action names in sorted order.
func (k *Keymap) Actions() []string {
	names := make([]string, 0, len(k.actions))
	for name := range k.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Bindings returns the actions bound to spec.
func (k *Keymap) Bindings(spec KeySpec) []string {
	return slices.Clone(k.binds[spec])
}

// Run invokes one action by name.
func (k *Keymap) Run(name string) error {
	fn, ok := k.actions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	fn()
	return nil
}

// Press runs every action bound to spec and reports whether any was bound.
// Names bound to unregistered actions are skipped.
func (k *Keymap) Press(spec KeySpec) bool {
	names := k.binds[spec]
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		if fn, ok := k.actions[name]; ok {
			fn()
		}
	}
	return true
}

// Load replaces every binding with the given table. Entries with an invalid
// key spec are dropped and reported in the returned error; the valid ones
// are still applied.
func (k *Keymap) Load(binds map[string][]string) error {
	clear(k.binds)
	var errs []error
	for key, names := range binds {
		spec, err := ParseKeySpec(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, name := range names {
			k.bind(spec, name)
		}
	}
	return errors.Join(errs...)
}

// Serialize returns the bindings in the shape accepted by Load.
func (k *Keymap) Serialize() map[string][]string {
	out := make(map[string][]string, len(k.binds))
	for spec, names := range k.binds {
		out[string(spec)] = slices.Clone(names)
	}
	return out
}
