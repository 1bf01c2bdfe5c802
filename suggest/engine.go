package suggest

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	logging "github.com/ipfs/go-log/v2"

	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/editor"
	"github.com/iw2rmb/clausekit/internal/grapheme"
)

var log = logging.Logger("clausekit/suggest")

// Engine is the suggestion state machine for one editor.
type Engine struct {
	cfg Config
	e   *editor.Editor

	state State
	sess  Session

	// The menu is withheld while the trigger has no screen coordinates.
	menuVisible bool
	placement   editor.PopupPlacement
}

func New(cfg Config) *Engine {
	return &Engine{cfg: normalizeConfig(cfg)}
}

func (*Engine) Name() string { return "suggest" }

func (x *Engine) Config() Config { return x.cfg }

// Bind subscribes the engine to the editor's document and viewport.
func (x *Engine) Bind(e *editor.Editor) {
	x.e = e
	e.Document().Subscribe(x.onDocEvent)
	e.OnViewport(func(editor.ViewportEvent) {
		if x.state == Active {
			x.reposition()
		}
	})
}

func (x *Engine) State() State { return x.state }

// Session returns a copy of the active session.
func (x *Engine) Session() (Session, bool) {
	if x.state != Active {
		return Session{}, false
	}
	return x.sess.clone(), true
}

// MenuPlacement returns where the menu is drawn. ok is false while the menu is
// withheld.
func (x *Engine) MenuPlacement() (editor.PopupPlacement, bool) {
	return x.placement, x.state == Active && x.menuVisible
}

type match struct {
	rng     doc.Range
	query   string
	blockID string
}

// findMatch looks back from the caret for the trigger character.
func (x *Engine) findMatch() (match, bool) {
	d := x.e.Document()
	sel := d.Selection()
	if !sel.IsEmpty() {
		return match{}, false
	}
	p := sel.To
	b, ok := d.Block(p.Block)
	if !ok || !b.IsText() || b.Type == doc.CodeBlock {
		return match{}, false
	}

	trigger := string(x.cfg.Char)
	before := grapheme.Split(grapheme.Slice(b.Text(), 0, p.Offset))
	for i := len(before) - 1; i >= 0; i-- {
		g := before[i]
		if g == trigger {
			if x.cfg.StartOfLine && i != 0 {
				return match{}, false
			}
			if i > 0 && !grapheme.IsSpace(before[i-1]) {
				return match{}, false
			}
			return match{
				rng:     doc.Range{From: doc.Pos{Block: p.Block, Offset: i}, To: p},
				query:   grapheme.Join(before[i+1:]),
				blockID: b.ID,
			}, true
		}
		if grapheme.IsSpace(g) && !x.cfg.AllowSpaces {
			return match{}, false
		}
	}
	return match{}, false
}

func (x *Engine) onDocEvent(ev doc.Event) {
	switch x.state {
	case Idle:
		if ev.Kind != doc.EventContent || ev.Change.Label != "type" {
			return
		}
		m, ok := x.findMatch()
		if !ok || m.query != "" {
			return
		}
		x.open(m)
	case Active:
		m, ok := x.findMatch()
		if !ok || m.blockID != x.sess.BlockID || m.rng.From.Offset != x.sess.TriggerRange.From.Offset {
			x.close("caret left the trigger span")
			return
		}
		x.update(m)
	}
	x.reposition()
}

func (x *Engine) open(m match) {
	x.state = Active
	x.sess = Session{BlockID: m.blockID}
	x.update(m)
	log.Debugw("session opened", "at", m.rng.From)
}

func (x *Engine) update(m match) {
	x.sess.Query = m.query
	x.sess.TriggerRange = m.rng
	x.sess.Candidates = Filter(x.cfg.Catalog, m.query, x.cfg.MaxItems)
	x.sess.Selected = clampSelected(x.sess.Selected, len(x.sess.Candidates))
}

func (x *Engine) close(reason string) {
	if x.state == Idle {
		return
	}
	x.state = Idle
	x.sess = Session{}
	x.menuVisible = false
	log.Debugw("session closed", "reason", reason)
}

// Cancel closes the session without touching the document.
func (x *Engine) Cancel() {
	x.close("cancelled")
}

// Move shifts the highlighted candidate by dir, wrapping around.
func (x *Engine) Move(dir int) {
	n := len(x.sess.Candidates)
	if x.state != Active || n == 0 {
		return
	}
	x.sess.Selected = ((x.sess.Selected+dir)%n + n) % n
}

// Commit deletes the trigger span in one transaction and runs the highlighted
// item's command. It reports false when there is nothing to commit.
func (x *Engine) Commit() bool {
	item, ok := x.sess.SelectedItem()
	if x.state != Active || !ok {
		return false
	}
	rng := x.sess.TriggerRange
	x.close("committed")

	x.e.Transact("suggest", func(tx *doc.Tx) bool {
		return tx.DeleteRange(rng)
	})
	if !x.e.Run(item.Command, item.Args...) {
		log.Debugw("item command not applied", "item", item.Title, "command", item.Command)
	}
	return true
}

// HandleKey consumes navigation keys while a session is active. Other keys
// pass through to editing.
func (x *Engine) HandleKey(_ *editor.Editor, msg tea.KeyMsg) bool {
	if x.state != Active {
		return false
	}
	km := x.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Up):
		x.Move(-1)
		return true
	case key.Matches(msg, km.Down):
		x.Move(1)
		return true
	case key.Matches(msg, km.Dismiss):
		x.Cancel()
		return true
	case key.Matches(msg, km.Select):
		if x.Commit() {
			return true
		}
		x.close("nothing to commit")
	}
	return false
}

// reposition recomputes the menu placement from the trigger's screen
// coordinates. Missing coordinates withhold the menu until the next update.
func (x *Engine) reposition() {
	if x.state != Active {
		x.menuVisible = false
		return
	}
	ax, ay, ok := x.e.CoordsAt(x.sess.TriggerRange.From)
	if !ok {
		x.menuVisible = false
		log.Debugw("trigger has no coordinates; menu withheld")
		return
	}
	m := x.menu(0)
	vp := x.e.Viewport()
	pl, ok := editor.PlacePopup(ax, ay, m.rowCount(), m.Width(), vp.Width, vp.Height)
	if !ok {
		x.menuVisible = false
		return
	}
	x.placement = pl
	x.menuVisible = true
}

func (x *Engine) menu(rows int) Menu {
	if rows <= 0 {
		rows = x.cfg.MaxItems
	}
	return Menu{
		Items:    x.sess.Candidates,
		Selected: x.sess.Selected,
		Rows:     rows,
		MaxWidth: x.cfg.MaxWidth,
		Style:    x.e.Config().Style,
	}
}

// View draws the menu over base, the editor's rendered view.
func (x *Engine) View(base string) string {
	pl, ok := x.MenuPlacement()
	if !ok {
		return base
	}
	return editor.Overlay(base, x.menu(pl.Rows).Render(), pl.X, pl.Y)
}
