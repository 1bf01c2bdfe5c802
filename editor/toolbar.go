package editor

import "github.com/iw2rmb/clausekit/doc"

// ToolbarButton is one host toolbar control bound to an editor command.
type ToolbarButton struct {
	ID      string
	Label   string
	Active  bool
	Enabled bool

	Command string
	Args    []any
}

// ButtonInsertVariable is the ID of the button bound to Config.InsertVariable.
const ButtonInsertVariable = "insertVariable"

// Toolbar returns the toolbar buttons with their state for the current
// selection: built-ins first, then extension buttons in registration order.
func (e *Editor) Toolbar() []ToolbarButton {
	sel := e.doc.Selection()
	d := e.doc
	enabled := !e.cfg.ReadOnly

	btn := func(id, label, cmd string, active bool, args ...any) ToolbarButton {
		return ToolbarButton{ID: id, Label: label, Active: active, Enabled: enabled && e.HasCommand(cmd), Command: cmd, Args: args}
	}

	buttons := []ToolbarButton{
		btn("bold", "B", CmdToggleBold, d.IsMarkActive(sel, doc.MarkBold)),
		btn("italic", "I", CmdToggleItalic, d.IsMarkActive(sel, doc.MarkItalic)),
		btn("underline", "U", CmdToggleUnderline, d.IsMarkActive(sel, doc.MarkUnderline)),
		btn("strike", "S", CmdToggleStrike, d.IsMarkActive(sel, doc.MarkStrike)),
		btn("h1", "H1", CmdToggleHeading, d.IsNodeActive(sel, doc.Heading, 1), 1),
		btn("h2", "H2", CmdToggleHeading, d.IsNodeActive(sel, doc.Heading, 2), 2),
		btn("h3", "H3", CmdToggleHeading, d.IsNodeActive(sel, doc.Heading, 3), 3),
		btn("bulletList", "•", CmdToggleBulletList, d.IsListActive(sel, doc.ListBullet)),
		btn("orderedList", "1.", CmdToggleOrderedList, d.IsListActive(sel, doc.ListOrdered)),
		btn("blockquote", "❝", CmdToggleBlockquote, d.IsNodeActive(sel, doc.Blockquote, 0)),
		btn("codeBlock", "</>", CmdToggleCodeBlock, d.IsNodeActive(sel, doc.CodeBlock, 0)),
		btn("alignLeft", "⇤", CmdSetTextAlign, e.alignActive("left"), "left"),
		btn("alignCenter", "↔", CmdSetTextAlign, e.alignActive("center"), "center"),
		btn("alignRight", "⇥", CmdSetTextAlign, e.alignActive("right"), "right"),
		btn("clearFormatting", "⌫", CmdUnsetAllMarks, false),
		btn("undo", "↶", CmdUndo, false),
		btn("redo", "↷", CmdRedo, false),
	}
	buttons[len(buttons)-2].Enabled = enabled && d.CanUndo()
	buttons[len(buttons)-1].Enabled = enabled && d.CanRedo()

	for _, ext := range e.exts {
		if p, ok := ext.(ToolbarProvider); ok {
			buttons = append(buttons, p.ToolbarButtons(e)...)
		}
	}
	if e.cfg.InsertVariable != nil {
		buttons = append(buttons, ToolbarButton{ID: ButtonInsertVariable, Label: "{x}", Enabled: enabled})
	}
	return buttons
}

func (e *Editor) alignActive(align string) bool {
	sel := e.doc.Selection()
	found := false
	for i := sel.From.Block; i <= sel.To.Block; i++ {
		b, ok := e.doc.Block(i)
		if !ok || !b.Alignable() {
			continue
		}
		if b.Align != align {
			return false
		}
		found = true
	}
	return found
}

// Press activates the toolbar button with id.
func (e *Editor) Press(id string) bool {
	for _, b := range e.Toolbar() {
		if b.ID != id {
			continue
		}
		if !b.Enabled {
			return false
		}
		if id == ButtonInsertVariable {
			e.cfg.InsertVariable(e)
			return true
		}
		return e.Run(b.Command, b.Args...)
	}
	return false
}
