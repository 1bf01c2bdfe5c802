package fontsize

import (
	"strings"

	logging "github.com/ipfs/go-log/v2"

	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/editor"
)

var log = logging.Logger("clausekit/fontsize")

// Command names.
const (
	CmdSet      = "setFontSize"
	CmdUnset    = "unsetFontSize"
	CmdIncrease = "increaseFontSize"
	CmdDecrease = "decreaseFontSize"
)

// Extension registers the font size attribute, its commands and toolbar
// controls.
type Extension struct{}

func New() *Extension { return &Extension{} }

func (*Extension) Name() string { return "fontSize" }

func (*Extension) StyleAttrs() []doc.StyleAttr {
	return []doc.StyleAttr{{
		Name:     AttrName,
		Property: "font-size",
		Parse: func(v string) (string, bool) {
			v = strings.ToLower(strings.TrimSpace(v))
			return v, v != ""
		},
	}}
}

func (*Extension) Commands() map[string]editor.Command {
	return map[string]editor.Command{
		CmdSet: func(e *editor.Editor, args ...any) bool {
			var value string
			if n, ok := editor.IntArg(args, 0); ok && n > 0 {
				value = Px(n)
			} else if s, ok := editor.StringArg(args, 0); ok {
				value = strings.TrimSpace(s)
			}
			if value == "" {
				return false
			}
			return set(e, CmdSet, value)
		},
		CmdUnset: func(e *editor.Editor, _ ...any) bool {
			return e.Transact(CmdUnset, func(tx *doc.Tx) bool {
				return tx.RemoveStyleAttr(tx.Selection(), AttrName)
			})
		},
		CmdIncrease: func(e *editor.Editor, _ ...any) bool {
			return set(e, CmdIncrease, Step(Current(e), 1))
		},
		CmdDecrease: func(e *editor.Editor, _ ...any) bool {
			return set(e, CmdDecrease, Step(Current(e), -1))
		},
	}
}

func set(e *editor.Editor, label, value string) bool {
	ok := e.Transact(label, func(tx *doc.Tx) bool {
		return tx.SetStyleAttr(tx.Selection(), AttrName, value)
	})
	if !ok {
		log.Debugw("font size not applied", "command", label, "value", value)
	}
	return ok
}

// Current returns the font size active at the selection, or "" when unset.
func Current(e *editor.Editor) string {
	d := e.Document()
	return d.ActiveMarks(d.Selection()).Style(AttrName)
}

func (*Extension) ToolbarButtons(e *editor.Editor) []editor.ToolbarButton {
	label := Current(e)
	if label == "" {
		label = Px(DefaultSize)
	}
	enabled := !e.Config().ReadOnly
	return []editor.ToolbarButton{
		{ID: "fontSizeDown", Label: "A-", Enabled: enabled, Command: CmdDecrease},
		{ID: "fontSize", Label: label, Enabled: false},
		{ID: "fontSizeUp", Label: "A+", Enabled: enabled, Command: CmdIncrease},
	}
}
