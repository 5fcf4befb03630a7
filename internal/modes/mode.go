// internal/modes/mode.go
//
// Defines the processing modes the launcher can hand to jarpy.py.
// Each mode maps to a fixed argument fragment; nothing else is derived from it.

package modes

import (
	"fmt"
	"strings"
)

// Mode is one of the three ways jarpy.py can process a folder of jars.
type Mode int

const (
	// Context decompiles each jar separately and merges its sources by file type.
	Context Mode = iota + 1
	// Direct decompiles each jar separately and keeps the original layout.
	Direct
	// CombinedContext merges the sources of every jar into one shared set of files.
	CombinedContext
)

type definition struct {
	key   string
	label string
	title string
	desc  string
	args  []string
}

// table is the single source of truth for keys, labels and argument fragments.
var table = map[Mode]definition{
	Context: {
		key:   "1",
		label: "context",
		title: "Context",
		desc:  "Separate output per jar, sources merged by file type (no binary assets)",
		args:  []string{"--mode", "context"},
	},
	Direct: {
		key:   "2",
		label: "direct",
		title: "Direct",
		desc:  "Separate output per jar, original folder structure preserved",
		args:  []string{"--mode", "direct"},
	},
	CombinedContext: {
		key:   "3",
		label: "combined-context",
		title: "Combined Context",
		desc:  "All jars merged by file type into one shared set of files",
		args:  []string{"--combine", "--mode", "context"},
	},
}

// All returns the modes in menu order.
func All() []Mode {
	return []Mode{Context, Direct, CombinedContext}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	_, ok := table[m]
	return ok
}

// Key returns the menu key that selects the mode.
func (m Mode) Key() string { return table[m].key }

// Label returns the machine-readable name used by --mode and the config file.
func (m Mode) Label() string { return table[m].label }

// Title returns the human-readable name shown in menus.
func (m Mode) Title() string { return table[m].title }

// Description explains what jarpy.py produces for the mode.
func (m Mode) Description() string { return table[m].desc }

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return m.Label()
}

// Args returns a fresh copy of the argument fragment for the mode.
func (m Mode) Args() []string {
	def, ok := table[m]
	if !ok {
		return nil
	}
	out := make([]string, len(def.args))
	copy(out, def.args)
	return out
}

// FromKey maps a menu key ("1", "2" or "3") to its mode.
func FromKey(key string) (Mode, bool) {
	for _, m := range All() {
		if table[m].key == key {
			return m, true
		}
	}
	return 0, false
}

// Parse resolves a label or menu key. Empty input is an error.
func Parse(value string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)
	if normalized == "" {
		return 0, fmt.Errorf("modes: empty mode")
	}
	if m, ok := FromKey(normalized); ok {
		return m, nil
	}
	if normalized == "combined" {
		return CombinedContext, nil
	}
	for _, m := range All() {
		if table[m].label == normalized {
			return m, nil
		}
	}
	return 0, fmt.Errorf("modes: unknown mode %q (want context, direct or combined-context)", value)
}

// BuildArgs assembles the argument list passed to jarpy.py: the folder first,
// then the mode fragment, then any extra pass-through flags.
func BuildArgs(path string, m Mode, extra ...string) []string {
	fragment := m.Args()
	args := make([]string, 0, 1+len(fragment)+len(extra))
	args = append(args, path)
	args = append(args, fragment...)
	args = append(args, extra...)
	return args
}
