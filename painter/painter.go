package painter

import (
	tea "github.com/charmbracelet/bubbletea"
	logging "github.com/ipfs/go-log/v2"

	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/editor"
)

var log = logging.Logger("clausekit/painter")

// Command names.
const (
	CmdToggle = "toggleFormatPainter"
	CmdDisarm = "disarmFormatPainter"
)

// Session is the state of an armed painter.
type Session struct {
	SourceRange doc.Range
	Descriptor  Descriptor

	LastApplied    doc.Range
	HasLastApplied bool
}

// Painter is the format painter bound to one editor.
type Painter struct {
	e *editor.Editor

	armed   bool
	sess    Session
	applies int
}

func New() *Painter { return &Painter{} }

func (*Painter) Name() string { return "formatPainter" }

func (p *Painter) Bind(e *editor.Editor) {
	p.e = e
	e.Document().Subscribe(p.onDocEvent)
}

func (p *Painter) Armed() bool { return p.armed }

// Session returns the armed session.
func (p *Painter) Session() (Session, bool) {
	return p.sess, p.armed
}

// Applied counts the apply transactions committed so far.
func (p *Painter) Applied() int { return p.applies }

// Arm captures the formatting of the current selection. Arming while armed
// disarms instead, and arming over an empty selection does nothing. It reports
// whether the painter is armed afterwards.
func (p *Painter) Arm() bool {
	if p.armed {
		p.Disarm()
		return false
	}
	d := p.e.Document()
	sel := d.Selection()
	if sel.IsEmpty() {
		log.Debugw("arm ignored on empty selection")
		return false
	}
	p.sess = Session{SourceRange: sel, Descriptor: Capture(d, sel)}
	p.armed = true
	log.Debugw("armed", "source", sel)
	return true
}

// Toggle is the single toolbar control: it arms or disarms.
func (p *Painter) Toggle() bool { return p.Arm() }

// Disarm drops the session. It is safe to call at any time.
func (p *Painter) Disarm() {
	p.armed = false
	p.sess = Session{}
}

func (p *Painter) onDocEvent(ev doc.Event) {
	if !p.armed {
		return
	}
	sel := ev.Change.SelectionAfter
	if sel == ev.Change.SelectionBefore || sel.IsEmpty() {
		return
	}
	if sel == p.sess.SourceRange || (p.sess.HasLastApplied && sel == p.sess.LastApplied) {
		return
	}
	p.ApplyTo(sel)
}

// ApplyTo replays the armed descriptor onto r in one transaction and records r
// as the last applied range.
func (p *Painter) ApplyTo(r doc.Range) bool {
	if !p.armed || r.IsEmpty() {
		return false
	}
	p.sess.LastApplied = r
	p.sess.HasLastApplied = true
	if !Apply(p.e, r, p.sess.Descriptor) {
		return false
	}
	p.applies++
	return true
}

// Apply replays desc onto r in one transaction and reports whether it changed
// the document. Block type, list and alignment are only touched when r covers
// whole text blocks.
func Apply(e *editor.Editor, r doc.Range, desc Descriptor) bool {
	d := e.Document()
	whole := d.CoversWholeBlocks(r)
	before := d.TxCount()
	e.Transact("formatPainter", func(tx *doc.Tx) bool {
		apply(tx, r, desc, whole)
		return true
	})
	return d.TxCount() != before
}

func (p *Painter) Commands() map[string]editor.Command {
	return map[string]editor.Command{
		CmdToggle: func(*editor.Editor, ...any) bool {
			was := p.armed
			p.Toggle()
			return p.armed != was
		},
		CmdDisarm: func(*editor.Editor, ...any) bool {
			was := p.armed
			p.Disarm()
			return was
		},
	}
}

// HandleKey disarms on Escape.
func (p *Painter) HandleKey(_ *editor.Editor, msg tea.KeyMsg) bool {
	if !p.armed || msg.Type != tea.KeyEsc {
		return false
	}
	p.Disarm()
	return true
}

func (p *Painter) ToolbarButtons(e *editor.Editor) []editor.ToolbarButton {
	return []editor.ToolbarButton{{
		ID:      "formatPainter",
		Label:   "🖌",
		Active:  p.armed,
		Enabled: p.armed || !e.Selection().IsEmpty(),
		Command: CmdToggle,
	}}
}
