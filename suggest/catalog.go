package suggest

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/iw2rmb/clausekit/editor"
)

// Item is one catalog entry bound to an editor command.
type Item struct {
	Title  string
	Detail string

	Command string
	Args    []any
}

// DefaultCatalog returns the built-in block and mark items.
func DefaultCatalog() []Item {
	return []Item{
		{Title: "Heading 1", Detail: "Large section heading", Command: editor.CmdToggleHeading, Args: []any{1}},
		{Title: "Heading 2", Detail: "Medium section heading", Command: editor.CmdToggleHeading, Args: []any{2}},
		{Title: "Heading 3", Detail: "Small section heading", Command: editor.CmdToggleHeading, Args: []any{3}},
		{Title: "Bold", Detail: "Make text bold", Command: editor.CmdToggleBold},
		{Title: "Italic", Detail: "Make text italic", Command: editor.CmdToggleItalic},
		{Title: "Underline", Detail: "Underline text", Command: editor.CmdToggleUnderline},
		{Title: "Strikethrough", Detail: "Strike text through", Command: editor.CmdToggleStrike},
		{Title: "Bullet List", Detail: "Unordered list", Command: editor.CmdToggleBulletList},
		{Title: "Numbered List", Detail: "Ordered list", Command: editor.CmdToggleOrderedList},
		{Title: "Quote", Detail: "Block quotation", Command: editor.CmdToggleBlockquote},
		{Title: "Code Block", Detail: "Preformatted code", Command: editor.CmdToggleCodeBlock},
	}
}

// Filter returns the items whose title contains query, ignoring case, in
// catalog order and capped at limit.
func Filter(items []Item, query string, limit int) []Item {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	out := make([]Item, 0, min(len(items), max(limit, 0)))
	for _, it := range items {
		if len(out) >= limit {
			break
		}
		if q == "" || strings.Contains(fold.String(it.Title), q) {
			out = append(out, it)
		}
	}
	return out
}
