// Package mode owns the named mode tables and the command palette list.
// A mode is a keybinding table with an optional parent forming a fallback
// chain; resolution walks the chain and ends in a default decision that
// depends on the root mode's read-only flag.
package mode

import (
	"fmt"

	"github.com/woodruff/vellum/internal/key"
)

// Binding pairs a key chord with the action it triggers.
type Binding struct {
	Chord  key.Chord
	Action string
}

// Mode is a named keybinding table. Bindings keep registration order for
// listing; lookup goes through an index keyed by the chord's canonical
// string.
type Mode struct {
	name     string
	parent   string
	bindings []Binding
	index    map[string]string // chord string -> action
	readOnly bool
}

// Name returns the mode name.
func (m *Mode) Name() string { return m.name }

// Parent returns the parent mode name, or "" for a root mode.
func (m *Mode) Parent() string { return m.parent }

// ReadOnly reports whether unbound keys are swallowed in this mode.
func (m *Mode) ReadOnly() bool { return m.readOnly }

// Bindings returns the bindings in registration order.
func (m *Mode) Bindings() []Binding { return m.bindings }

// Command is one command palette entry.
type Command struct {
	DisplayName  string
	Description  string
	Action       string
	RequiredMode string // "" matches any mode
}

// Decision classifies the outcome of key resolution.
type Decision int

const (
	// DecisionAction resolves to a bound action.
	DecisionAction Decision = iota
	// DecisionInsert falls through to default insertion of the rune.
	DecisionInsert
	// DecisionSwallow consumes the key with no effect (read-only root).
	DecisionSwallow
	// DecisionNoOp ignores the key (unbound non-printable in an
	// editable mode).
	DecisionNoOp
)

// Resolution is the result of resolving a chord in a mode.
type Resolution struct {
	Decision Decision
	Action   string // set for DecisionAction
}

// Registry holds modes and commands. It is confined to the editor loop
// goroutine and does no locking of its own.
type Registry struct {
	modes    map[string]*Mode
	commands []Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modes: make(map[string]*Mode)}
}

// DefineMode installs a mode, replacing any prior mode of the same name.
// Re-registration is idempotent so plugin reload works. Later bindings
// for the same chord win within one definition. The parent does not need
// to exist yet; a dangling parent simply ends the chain at resolve time.
func (r *Registry) DefineMode(name, parent string, bindings []Binding, readOnly bool) error {
	if name == "" {
		return fmt.Errorf("mode name is empty: %w", ErrInvalidMode)
	}
	if parent == name {
		return fmt.Errorf("mode %q is its own parent: %w", name, ErrInvalidMode)
	}

	m := &Mode{
		name:     name,
		parent:   parent,
		bindings: append([]Binding(nil), bindings...),
		index:    make(map[string]string, len(bindings)),
		readOnly: readOnly,
	}
	for _, b := range m.bindings {
		m.index[b.Chord.String()] = b.Action
	}
	r.modes[name] = m
	return nil
}

// Mode returns a mode by name.
func (r *Registry) Mode(name string) (*Mode, bool) {
	m, ok := r.modes[name]
	return m, ok
}

// Modes returns all defined mode names.
func (r *Registry) Modes() []string {
	names := make([]string, 0, len(r.modes))
	for name := range r.modes {
		names = append(names, name)
	}
	return names
}

// Resolve maps a chord pressed in the named mode to a resolution. The
// chord is looked up in the mode, then up the parent chain; at the end
// of the chain a read-only root swallows the key, an editable root
// inserts printable runes and ignores everything else. A parent cycle
// terminates the walk instead of hanging.
func (r *Registry) Resolve(modeName string, c key.Chord) (Resolution, error) {
	m, ok := r.modes[modeName]
	if !ok {
		return Resolution{}, fmt.Errorf("mode %q: %w", modeName, ErrUnknownMode)
	}

	spec := c.String()
	visited := make(map[string]bool)
	root := m
	for m != nil && !visited[m.name] {
		visited[m.name] = true
		if action, ok := m.index[spec]; ok {
			return Resolution{Decision: DecisionAction, Action: action}, nil
		}
		root = m
		m = r.modes[m.parent]
	}

	if root.readOnly {
		return Resolution{Decision: DecisionSwallow}, nil
	}
	if c.IsPrintable() {
		return Resolution{Decision: DecisionInsert}, nil
	}
	return Resolution{Decision: DecisionNoOp}, nil
}

// RegisterCommand appends a command to the palette list. The list is
// flat and undeduplicated; duplicate display names are both shown.
func (r *Registry) RegisterCommand(cmd Command) error {
	if cmd.DisplayName == "" || cmd.Action == "" {
		return fmt.Errorf("command needs a display name and an action: %w", ErrInvalidCommand)
	}
	r.commands = append(r.commands, cmd)
	return nil
}

// Commands returns every registered command in registration order.
func (r *Registry) Commands() []Command {
	return append([]Command(nil), r.commands...)
}

// CommandsFor returns the commands available in a mode: those that
// require it plus the wildcard entries, in registration order.
func (r *Registry) CommandsFor(modeName string) []Command {
	var out []Command
	for _, cmd := range r.commands {
		if cmd.RequiredMode == "" || cmd.RequiredMode == modeName {
			out = append(out, cmd)
		}
	}
	return out
}
