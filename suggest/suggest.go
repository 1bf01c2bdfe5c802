// Package suggest implements the trigger-driven command suggestion overlay.
//
// An Engine watches the document for a trigger character typed at the caret,
// keeps a Session with the filtered catalog while the caret stays inside the
// trigger span, and commits the selected item by deleting the span and running
// the item's editor command. The floating Menu is a separate presentational
// component driven by the session and the editor's cursor coordinates.
package suggest

import (
	"reflect"

	"github.com/charmbracelet/bubbles/key"

	"github.com/iw2rmb/clausekit/doc"
)

// DefaultMaxItems caps the candidate list.
const DefaultMaxItems = 10

// Config configures an Engine.
type Config struct {
	// Char opens a session when typed. Zero means '/'.
	Char rune
	// StartOfLine restricts the trigger to the start of a block.
	StartOfLine bool
	// AllowSpaces lets the query contain spaces.
	AllowSpaces bool
	// MaxItems caps the candidates. Zero means DefaultMaxItems.
	MaxItems int
	// MaxWidth caps the menu width in cells. Zero means 40.
	MaxWidth int

	// Catalog defaults to DefaultCatalog.
	Catalog []Item

	KeyMap KeyMap
}

// KeyMap defines the keys an active session consumes.
type KeyMap struct {
	Up, Down key.Binding
	Select   key.Binding
	Dismiss  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous item")),
		Down:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next item")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run item")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close menu")),
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.Char == 0 {
		cfg.Char = '/'
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultMaxItems
	}
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = 40
	}
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if reflect.DeepEqual(cfg.KeyMap, KeyMap{}) {
		cfg.KeyMap = DefaultKeyMap()
	}
	return cfg
}

// State is the engine's lifecycle state.
type State uint8

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Session is the state of an active suggestion.
type Session struct {
	Query      string
	Candidates []Item
	Selected   int
	// TriggerRange spans the trigger character through the caret.
	TriggerRange doc.Range
	// BlockID pins the session to the block the trigger was typed in.
	BlockID string
}

func (s Session) clone() Session {
	s.Candidates = append([]Item(nil), s.Candidates...)
	return s
}

// SelectedItem returns the highlighted candidate.
func (s Session) SelectedItem() (Item, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Candidates) {
		return Item{}, false
	}
	return s.Candidates[s.Selected], true
}

func clampSelected(selected, n int) int {
	if n <= 0 {
		return 0
	}
	if selected < 0 {
		return 0
	}
	if selected >= n {
		return n - 1
	}
	return selected
}
