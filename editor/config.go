package editor

import (
	"reflect"

	"github.com/iw2rmb/clausekit/doc"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Config configures an Editor.
type Config struct {
	// Initial content. Blocks wins over Markup, Markup over Markdown.
	Blocks   []doc.Block
	Markup   string
	Markdown string

	// Extensions are bound in order after the built-in ones. Extension
	// instances carry per-editor state and must not be shared across editors.
	Extensions []Extension

	KeyMap KeyMap
	Style  Style

	// Viewport size in cells. Zero values default to 80x24.
	Width  int
	Height int

	ReadOnly bool

	// Forwarded to doc.Options.
	HistoryLimit int

	// InsertVariable is an opaque host callback behind the toolbar's
	// insert-variable button. Nil hides the button.
	InsertVariable func(e *Editor)

	// Clipboard backs copy, cut and paste. Nil disables them.
	Clipboard Clipboard
}

func normalizeConfig(cfg Config) Config {
	if reflect.DeepEqual(cfg.KeyMap, KeyMap{}) {
		cfg.KeyMap = DefaultKeyMap()
	}
	if reflect.DeepEqual(cfg.Style, Style{}) {
		cfg.Style = DefaultStyle()
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	return cfg
}
