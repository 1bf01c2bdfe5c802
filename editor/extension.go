package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/clausekit/doc"
)

// Extension is the registration contract every editor extension implements.
// Capabilities are discovered through the optional interfaces below.
type Extension interface {
	Name() string
}

// StyleAttrProvider contributes attributes of the shared inline-style mark.
type StyleAttrProvider interface {
	StyleAttrs() []doc.StyleAttr
}

// CommandProvider contributes named commands. Later registrations replace
// earlier ones with the same name.
type CommandProvider interface {
	Commands() map[string]Command
}

// NodeViewProvider contributes custom renderers per block type.
type NodeViewProvider interface {
	NodeViews() map[doc.BlockType]NodeViewFactory
}

// KeyHandler sees key messages before default editing. Returning true consumes
// the key.
type KeyHandler interface {
	HandleKey(e *Editor, msg tea.KeyMsg) bool
}

// Binder is called once the editor is fully constructed so the extension can
// subscribe to document and viewport changes.
type Binder interface {
	Bind(e *Editor)
}

// ToolbarProvider contributes toolbar buttons.
type ToolbarProvider interface {
	ToolbarButtons(e *Editor) []ToolbarButton
}

// Command runs against the editor's current selection and reports whether it
// applied.
type Command func(e *Editor, args ...any) bool
