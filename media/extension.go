package media

import (
	"github.com/charmbracelet/lipgloss"
	logging "github.com/ipfs/go-log/v2"

	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/editor"
)

var log = logging.Logger("clausekit/media")

// CmdSetImageSize resizes the selected image: setImageSize(width, height).
const CmdSetImageSize = "setImageSize"

// Styles controls how image boxes are drawn.
type Styles struct {
	Box      lipgloss.Style
	Selected lipgloss.Style
	Dragging lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Box:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Dragging: lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Faint(true),
	}
}

// Extension registers the image node view.
type Extension struct {
	loader Loader
	styles Styles
}

// New returns the extension. loader measures images that have no size yet;
// nil disables measuring.
func New(loader Loader) *Extension {
	return &Extension{loader: loader, styles: DefaultStyles()}
}

// WithStyles replaces the box styles.
func (x *Extension) WithStyles(s Styles) *Extension {
	x.styles = s
	return x
}

func (*Extension) Name() string { return "media" }

func (x *Extension) NodeViews() map[doc.BlockType]editor.NodeViewFactory {
	return map[doc.BlockType]editor.NodeViewFactory{
		doc.Image: func(ctx *editor.NodeViewContext) editor.NodeView {
			return NewView(ctx, x.loader, x.styles)
		},
	}
}

func (*Extension) Commands() map[string]editor.Command {
	return map[string]editor.Command{
		CmdSetImageSize: func(e *editor.Editor, args ...any) bool {
			w, ok1 := editor.IntArg(args, 0)
			h, ok2 := editor.IntArg(args, 1)
			if !ok1 || !ok2 || w <= 0 || h <= 0 {
				return false
			}
			id, ok := e.Document().SelectedNode()
			if !ok {
				return false
			}
			return e.Transact(CmdSetImageSize, func(tx *doc.Tx) bool {
				return tx.SetMediaAttrs(id, func(a *doc.MediaAttrs) {
					a.Width, a.Height = max(w, MinSize), max(h, MinSize)
				})
			})
		},
	}
}
