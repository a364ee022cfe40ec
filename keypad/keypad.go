// Package keypad describes the buttons of a calculator keypad and drives a
// session with them.
package keypad

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc/session"
)

// Action is what a button does to a session.
type Action string

const (
	Digit      Action = "digit"
	Operator   Action = "operator"
	Percent    Action = "percent"
	Root       Action = "root"
	Power      Action = "power"
	Factorial  Action = "factorial"
	Answer     Action = "answer"
	ClearEntry Action = "clear_entry"
	ClearAll   Action = "clear_all"
	Evaluate   Action = "evaluate"
)

func (a Action) valid() bool {
	switch a {
	case Digit, Operator, Percent, Root, Power, Factorial, Answer, ClearEntry, ClearAll, Evaluate:
		return true
	}
	return false
}

// Button is one key of the keypad.
type Button struct {
	// Label is the text on the button.
	Label string `yaml:"label"`
	// Action is what pressing the button does.
	Action Action `yaml:"action"`
	// Value is the text the button enters into the expression, for digit,
	// operator, and percent buttons.
	Value string `yaml:"value,omitempty"`
	// Display is how Value is shown in a rendered expression. Buttons with
	// no Display do not affect rendering.
	Display string `yaml:"display,omitempty"`
	// Row and Col locate the button in the grid.
	Row int `yaml:"row"`
	Col int `yaml:"col"`
	// Keys are keyboard bindings for the button.
	Keys []string `yaml:"keys,omitempty"`
}

// Layout is a grid of buttons.
type Layout struct {
	Rows    int      `yaml:"rows"`
	Cols    int      `yaml:"cols"`
	Buttons []Button `yaml:"buttons"`

	keys   map[string]int
	render *strings.Replacer
}

// ErrUnknownKey is returned when pressing a key that no button binds.
var ErrUnknownKey = errors.New("unknown key")

//go:embed default.yaml
var defaultLayout []byte

// Default returns the standard five by five keypad.
func Default() *Layout {
	l, err := Load(bytes.NewReader(defaultLayout))
	if err != nil {
		panic("keypad: bad default layout: " + err.Error())
	}
	return l
}

// LoadFile reads a layout from a YAML file.
func LoadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()
	l, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Load reads a layout as YAML and validates it.
func Load(r io.Reader) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("parse layout YAML: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks that every button has a known action and a cell inside
// the grid, and that no two buttons share a label, a key, or a cell. It
// builds the lookup tables used by Lookup and Render.
func (l *Layout) Validate() error {
	if l.Rows <= 0 || l.Cols <= 0 {
		return fmt.Errorf("grid must have positive size, not %dx%d", l.Rows, l.Cols)
	}
	if len(l.Buttons) == 0 {
		return fmt.Errorf("layout has no buttons")
	}
	keys := make(map[string]int)
	cells := make(map[[2]int]string)
	for i, b := range l.Buttons {
		if b.Label == "" {
			return fmt.Errorf("button at index %d has no label", i)
		}
		if !b.Action.valid() {
			return fmt.Errorf("button %q: unknown action %q", b.Label, b.Action)
		}
		switch b.Action {
		case Digit:
			if r, n := utf8.DecodeRuneInString(b.Value); n != len(b.Value) || (r != '.' && (r < '0' || r > '9')) {
				return fmt.Errorf("button %q: digit value must be one of 0-9 or '.', not %q", b.Label, b.Value)
			}
		case Operator, Percent:
			if b.Value == "" {
				return fmt.Errorf("button %q: %s has no value", b.Label, b.Action)
			}
		}
		if b.Row < 0 || b.Row >= l.Rows || b.Col < 0 || b.Col >= l.Cols {
			return fmt.Errorf("button %q: cell (%d, %d) outside %dx%d grid", b.Label, b.Row, b.Col, l.Rows, l.Cols)
		}
		cell := [2]int{b.Row, b.Col}
		if other, ok := cells[cell]; ok {
			return fmt.Errorf("buttons %q and %q share cell (%d, %d)", other, b.Label, b.Row, b.Col)
		}
		cells[cell] = b.Label
		if j, ok := keys[b.Label]; ok && j != i {
			return fmt.Errorf("buttons %q and %q share label", l.Buttons[j].Label, b.Label)
		}
		keys[b.Label] = i
	}
	// Bindings come after labels so a key can't shadow another button's
	// label.
	for i, b := range l.Buttons {
		for _, k := range b.Keys {
			if k == "" {
				return fmt.Errorf("button %q has an empty key", b.Label)
			}
			if j, ok := keys[k]; ok && j != i {
				return fmt.Errorf("key %q bound to both %q and %q", k, l.Buttons[j].Label, b.Label)
			}
			keys[k] = i
		}
	}
	l.keys = keys
	l.render = renderer(l.Buttons)
	return nil
}

// renderer builds a replacer from button values to their display forms.
// Longer values come first so that e.g. "/100" is not rendered as "/".
func renderer(buttons []Button) *strings.Replacer {
	var bs []Button
	for _, b := range buttons {
		if b.Display != "" && b.Value != "" {
			bs = append(bs, b)
		}
	}
	sort.SliceStable(bs, func(i, j int) bool { return len(bs[i].Value) > len(bs[j].Value) })
	var pairs []string
	for _, b := range bs {
		pairs = append(pairs, b.Value, " "+b.Display+" ")
	}
	return strings.NewReplacer(pairs...)
}

// Lookup finds the button bound to key, which may be a keyboard binding or a
// label.
func (l *Layout) Lookup(key string) (Button, bool) {
	i, ok := l.keys[key]
	if !ok {
		return Button{}, false
	}
	return l.Buttons[i], true
}

// At returns the button in a cell.
func (l *Layout) At(row, col int) (Button, bool) {
	for _, b := range l.Buttons {
		if b.Row == row && b.Col == col {
			return b, true
		}
	}
	return Button{}, false
}

// Press applies the button bound to key to s.
func (l *Layout) Press(s *session.Session, key string) error {
	b, ok := l.Lookup(key)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	switch b.Action {
	case Digit:
		r, _ := utf8.DecodeRuneInString(b.Value)
		s.Digit(r)
	case Operator, Percent:
		s.Operator(b.Value)
	case Root:
		s.Root()
	case Power:
		s.Power()
	case Factorial:
		s.Factorial()
	case Answer:
		s.Answer()
	case ClearEntry:
		s.ClearEntry()
	case ClearAll:
		s.ClearAll()
	case Evaluate:
		s.Evaluate()
	default:
		panic("keypad: unvalidated action " + string(b.Action))
	}
	return nil
}

// Render formats a full expression for display, replacing operator values
// with their display forms.
func (l *Layout) Render(full string) string {
	if l.render == nil {
		return full
	}
	return strings.Join(strings.Fields(l.render.Replace(full)), " ")
}

// Grid returns the button labels arranged by cell. Empty cells are "".
func (l *Layout) Grid() [][]string {
	g := make([][]string, l.Rows)
	for i := range g {
		g[i] = make([]string, l.Cols)
	}
	for _, b := range l.Buttons {
		g[b.Row][b.Col] = b.Label
	}
	return g
}
