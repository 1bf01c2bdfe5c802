package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/clausekit/doc"
)

// Init returns the commands queued by node views mounted during New.
func (e *Editor) Init() tea.Cmd {
	return e.takePending()
}

// Update handles one Bubble Tea message.
func (e *Editor) Update(msg tea.Msg) (*Editor, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if e.focused {
			e.HandleKey(msg)
		}
	case tea.MouseMsg:
		if e.focused {
			e.handleMouse(msg)
		}
	case NodeMsg:
		cmds = append(cmds, e.routeNodeMsg(msg))
	}
	cmds = append(cmds, e.takePending())
	return e, tea.Batch(cmds...)
}

// HandleKey offers msg to the key handlers in registration order, then to
// default editing. It reports whether anything consumed the key. Escape goes to
// the selected node view first so an in-progress interaction there is
// cancelled before extensions see the key.
func (e *Editor) HandleKey(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc && e.escapeNode() {
		return true
	}
	for _, h := range e.keyHandlers {
		if h.HandleKey(e, msg) {
			return true
		}
	}
	return e.defaultKey(msg)
}

func (e *Editor) defaultKey(msg tea.KeyMsg) bool {
	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		return e.InsertText(string(msg.Runes))
	}

	km := e.cfg.KeyMap
	switch {
	case msg.Type == tea.KeyEsc:
		return e.escapeNode()

	case key.Matches(msg, km.Left):
		e.moveHorizontal(-1, false)
	case key.Matches(msg, km.Right):
		e.moveHorizontal(1, false)
	case key.Matches(msg, km.Up):
		e.moveVertical(-1, false)
	case key.Matches(msg, km.Down):
		e.moveVertical(1, false)

	case key.Matches(msg, km.ShiftLeft):
		e.moveHorizontal(-1, true)
	case key.Matches(msg, km.ShiftRight):
		e.moveHorizontal(1, true)
	case key.Matches(msg, km.ShiftUp):
		e.moveVertical(-1, true)
	case key.Matches(msg, km.ShiftDown):
		e.moveVertical(1, true)

	case key.Matches(msg, km.Home):
		p := e.head()
		e.moveTo(doc.Pos{Block: p.Block}, false)
	case key.Matches(msg, km.End):
		p := e.head()
		b, _ := e.doc.Block(p.Block)
		e.moveTo(doc.Pos{Block: p.Block, Offset: b.Len()}, false)

	case key.Matches(msg, km.Backspace):
		return e.Transact("delete", func(tx *doc.Tx) bool { return tx.DeleteBackward() })
	case key.Matches(msg, km.Delete):
		return e.Transact("delete", func(tx *doc.Tx) bool { return tx.DeleteForward() })
	case key.Matches(msg, km.Enter):
		return e.Transact("split", func(tx *doc.Tx) bool { return tx.SplitBlock() })

	case key.Matches(msg, km.Undo):
		return e.Run("undo")
	case key.Matches(msg, km.Redo):
		return e.Run("redo")

	case key.Matches(msg, km.Copy):
		e.copySelection()
	case key.Matches(msg, km.Cut):
		if e.cfg.ReadOnly {
			e.copySelection()
		} else {
			e.cutSelection()
		}
	case key.Matches(msg, km.Paste):
		e.pasteClipboard()

	case key.Matches(msg, km.Bold):
		return e.Run("toggleBold")
	case key.Matches(msg, km.Italic):
		return e.Run("toggleItalic")
	case key.Matches(msg, km.Underline):
		return e.Run("toggleUnderline")

	default:
		if msg.Type == tea.KeyTab {
			return e.InsertText("\t")
		}
		if msg.Type == tea.KeySpace {
			return e.InsertText(" ")
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			return e.InsertText(string(msg.Runes))
		}
		return false
	}
	return true
}

// InsertText types text at the selection as one transaction.
func (e *Editor) InsertText(text string) bool {
	return e.Transact("type", func(tx *doc.Tx) bool { return tx.InsertText(text) })
}

// head is the moving end of the selection.
func (e *Editor) head() doc.Pos {
	sel := e.doc.Selection()
	if e.headAtFrom {
		return sel.From
	}
	return sel.To
}

func (e *Editor) anchor() doc.Pos {
	sel := e.doc.Selection()
	if e.headAtFrom {
		return sel.To
	}
	return sel.From
}

func (e *Editor) moveTo(p doc.Pos, extend bool) {
	if !extend {
		e.headAtFrom = false
		e.doc.SetSelection(doc.Caret(p))
		return
	}
	a := e.anchor()
	e.headAtFrom = doc.ComparePos(p, a) < 0
	e.doc.SetSelection(doc.Range{From: a, To: p})
}

func (e *Editor) moveHorizontal(dir int, extend bool) {
	sel := e.doc.Selection()
	if !extend && !sel.IsEmpty() {
		// Collapse toward the direction of travel.
		if dir < 0 {
			e.moveTo(sel.From, false)
		} else {
			e.moveTo(sel.To, false)
		}
		return
	}
	e.moveTo(e.step(e.head(), dir), extend)
}

// step moves p by one grapheme, crossing block boundaries.
func (e *Editor) step(p doc.Pos, dir int) doc.Pos {
	b, ok := e.doc.Block(p.Block)
	if !ok {
		return p
	}
	switch {
	case dir < 0 && p.Offset > 0:
		return doc.Pos{Block: p.Block, Offset: p.Offset - 1}
	case dir < 0 && p.Block > 0:
		prev, _ := e.doc.Block(p.Block - 1)
		if prev.Type == doc.Image {
			return doc.Pos{Block: p.Block - 1}
		}
		return doc.Pos{Block: p.Block - 1, Offset: prev.Len()}
	case dir > 0 && p.Offset < b.Len() && b.Type != doc.Image:
		return doc.Pos{Block: p.Block, Offset: p.Offset + 1}
	case dir > 0 && p.Block+1 < e.doc.Len():
		return doc.Pos{Block: p.Block + 1}
	}
	return p
}

func (e *Editor) moveVertical(dir int, extend bool) {
	l := e.buildLayout()
	row, x, ok := l.locate(e.head())
	if !ok {
		return
	}
	target := row + dir
	if target < 0 || target >= len(l.rows) {
		return
	}
	// Skip the remaining rows of a node so one press leaves it.
	for target > 0 && target < len(l.rows)-1 && l.rows[target].node && l.rows[target].block == l.rows[row].block {
		target += dir
	}
	p, ok := l.posAt(target, x)
	if !ok {
		return
	}
	if !extend {
		if b, _ := e.doc.Block(p.Block); b.Type == doc.Image {
			e.headAtFrom = false
			e.doc.SelectNode(p.Block)
			return
		}
	}
	e.moveTo(p, extend)
}

func (e *Editor) escapeNode() bool {
	id, ok := e.doc.SelectedNode()
	if !ok {
		return false
	}
	mv, ok := e.nodeViews[id]
	if !ok {
		return false
	}
	h, ok := mv.view.(EscapeHandler)
	return ok && h.HandleEscape()
}

func (e *Editor) handleMouse(msg tea.MouseMsg) {
	if id, ok := e.doc.SelectedNode(); ok {
		if mv, ok := e.nodeViews[id]; ok {
			if h, ok := mv.view.(MouseHandler); ok {
				if nx, ny, ok := e.NodeOrigin(id); ok && h.HandleMouse(msg, msg.X-nx, msg.Y-ny) {
					return
				}
			}
		}
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		e.Scroll(-1)
		return
	case tea.MouseButtonWheelDown:
		e.Scroll(1)
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	p, ok := e.PosAt(msg.X, msg.Y)
	if !ok {
		return
	}
	if b, _ := e.doc.Block(p.Block); b.Type == doc.Image {
		e.headAtFrom = false
		e.doc.SelectNode(p.Block)
		return
	}
	e.moveTo(p, false)
}

func (e *Editor) copySelection() {
	if e.cfg.Clipboard == nil {
		return
	}
	s := e.doc.TextBetween(e.doc.Selection())
	if s == "" {
		return
	}
	if err := e.cfg.Clipboard.WriteText(s); err != nil {
		log.Debugw("clipboard write failed", "err", err)
	}
}

func (e *Editor) cutSelection() {
	e.copySelection()
	e.Transact("cut", func(tx *doc.Tx) bool { return tx.DeleteRange(tx.Selection()) })
}

func (e *Editor) pasteClipboard() {
	if e.cfg.Clipboard == nil {
		return
	}
	s, err := e.cfg.Clipboard.ReadText()
	if err != nil {
		log.Debugw("clipboard read failed", "err", err)
		return
	}
	// Normalize newlines from external sources.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if s != "" {
		e.Transact("paste", func(tx *doc.Tx) bool { return tx.InsertText(s) })
	}
}
