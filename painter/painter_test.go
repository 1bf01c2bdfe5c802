package painter

import (
	"math/rand"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/editor"
	"github.com/iw2rmb/clausekit/fontsize"
)

func newEditor(t *testing.T, blocks ...doc.Block) (*editor.Editor, *Painter) {
	t.Helper()
	p := New()
	e, err := editor.New(editor.Config{
		Blocks:     blocks,
		Extensions: []editor.Extension{fontsize.New(), p},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, p
}

func rng(fb, fo, tb, to int) doc.Range {
	return doc.Range{From: doc.Pos{Block: fb, Offset: fo}, To: doc.Pos{Block: tb, Offset: to}}
}

func styledRun(text string) doc.Run {
	return doc.Run{Text: text, Marks: doc.Marks{
		Bold:      true,
		TextStyle: map[string]string{editor.AttrColor: "red", fontsize.AttrName: "20px"},
	}}
}

func TestScenario_ThreeRanges(t *testing.T) {
	e, p := newEditor(t, doc.P(styledRun("Boss")), doc.P(doc.T("one two three")))
	e.SetSelection(rng(0, 0, 0, 4))
	if !p.Arm() {
		t.Fatalf("Arm should arm over a non-empty selection")
	}

	before := e.Document().TxCount()
	targets := []doc.Range{rng(1, 0, 1, 3), rng(1, 4, 1, 7), rng(1, 8, 1, 13)}
	for _, r := range targets {
		e.SetSelection(r)
	}
	if got := e.Document().TxCount() - before; got != 3 {
		t.Fatalf("apply transactions=%d, want 3", got)
	}
	if got := p.Applied(); got != 3 {
		t.Fatalf("Applied=%d, want 3", got)
	}
	for _, r := range targets {
		m := e.Document().ActiveMarks(r)
		if !m.Bold || m.Style(editor.AttrColor) != "red" || m.Style(fontsize.AttrName) != "20px" {
			t.Fatalf("marks over %v=%+v, want bold red 20px", r, m)
		}
	}
	// The gaps between targets stay plain.
	if m := e.Document().ActiveMarks(rng(1, 3, 1, 4)); !m.IsZero() {
		t.Fatalf("gap marks=%+v, want none", m)
	}
}

func TestArm(t *testing.T) {
	e, p := newEditor(t, doc.P(doc.T("text")))
	if p.Arm() || p.Armed() {
		t.Fatalf("arming over an empty selection should be a no-op")
	}

	e.SetSelection(rng(0, 0, 0, 2))
	if !p.Arm() {
		t.Fatalf("Arm should arm")
	}
	s, ok := p.Session()
	if !ok || s.SourceRange != rng(0, 0, 0, 2) || s.HasLastApplied {
		t.Fatalf("session=%+v ok=%v", s, ok)
	}
	if p.Arm() || p.Armed() {
		t.Fatalf("arming while armed should disarm")
	}
	if _, ok := p.Session(); ok {
		t.Fatalf("session should be gone after disarm")
	}
	p.Disarm()
	if p.Armed() {
		t.Fatalf("Disarm should be safe when disarmed")
	}
}

func TestReapplyGuard(t *testing.T) {
	e, p := newEditor(t, doc.P(styledRun("src")), doc.P(doc.T("aaa bbb")))
	e.SetSelection(rng(0, 0, 0, 3))
	p.Arm()

	a, b := rng(1, 0, 1, 3), rng(1, 4, 1, 7)
	e.SetSelection(a)
	e.SetSelection(doc.Caret(doc.Pos{Block: 1, Offset: 1}))
	e.SetSelection(a)
	if got := p.Applied(); got != 1 {
		t.Fatalf("Applied=%d, want 1 for the same range twice in a row", got)
	}

	e.SetSelection(rng(0, 0, 0, 3))
	if got := p.Applied(); got != 1 {
		t.Fatalf("selecting the source range must not apply")
	}

	// Only the immediately preceding range is remembered, so alternating
	// reapplies. a already carries the formatting and commits nothing.
	e.SetSelection(b)
	if got := p.sess.LastApplied; got != b || p.Applied() != 2 {
		t.Fatalf("last applied=%v applied=%d, want %v 2", got, p.Applied(), b)
	}
	before := e.Document().TxCount()
	e.SetSelection(a)
	if got := p.sess.LastApplied; got != a {
		t.Fatalf("last applied=%v, want %v", got, a)
	}
	if e.Document().TxCount() != before || p.Applied() != 2 {
		t.Fatalf("reapplying identical formatting should not commit")
	}
}

func TestWholeBlockApply(t *testing.T) {
	src := doc.H(2, doc.T("Title"))
	src.List = doc.ListBullet
	src.Align = "center"
	e, p := newEditor(t, src, doc.Block{Type: doc.Blockquote, Runs: []doc.Run{doc.T("quoted")}}, doc.P(doc.T("partial")))

	e.SetSelection(rng(0, 0, 0, 5))
	p.Arm()
	e.SetSelection(rng(1, 0, 1, 6))
	b, _ := e.Document().Block(1)
	if b.Type != doc.Heading || b.Level != 2 || b.List != doc.ListBullet || b.Align != "center" {
		t.Fatalf("block=%+v, want centered bullet h2", b)
	}

	// A range inside a block only takes the marks.
	e.SetSelection(rng(2, 1, 2, 4))
	b, _ = e.Document().Block(2)
	if b.Type != doc.Paragraph || b.List != doc.ListNone || b.Align != "" {
		t.Fatalf("block=%+v, want untouched paragraph", b)
	}
}

func TestApply_ClearsExistingMarks(t *testing.T) {
	e, _ := newEditor(t, doc.P(doc.Run{Text: "styled", Marks: doc.Marks{Italic: true, Highlight: "yellow"}}))
	r := rng(0, 0, 0, 6)
	if !Apply(e, r, Descriptor{Bold: true}) {
		t.Fatalf("Apply should change the document")
	}
	m := e.Document().ActiveMarks(r)
	if !m.Bold || m.Italic || m.Highlight != "" {
		t.Fatalf("marks=%+v, want bold only", m)
	}
}

func TestApplyThenCaptureRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	type blockKind struct {
		t     doc.BlockType
		level int
	}
	kinds := []blockKind{{doc.Paragraph, 0}, {doc.Heading, 1}, {doc.Heading, 2}, {doc.Heading, 3}, {doc.Blockquote, 0}}
	pick := func(opts ...string) string { return opts[r.Intn(len(opts))] }

	for i := 0; i < 200; i++ {
		k := kinds[r.Intn(len(kinds))]
		want := Descriptor{
			HasBlockType: true,
			BlockType:    k.t,
			Level:        k.level,
			List:         doc.ListType(r.Intn(3)),
			Bold:         r.Intn(2) == 0,
			Italic:       r.Intn(2) == 0,
			Underline:    r.Intn(2) == 0,
			Strike:       r.Intn(2) == 0,
			Color:        pick("", "red", "#00ff00"),
			Highlight:    pick("", "yellow", "pink"),
			FontFamily:   pick("", "serif", "monospace"),
			FontSize:     pick("", "12px", "20px"),
		}

		e, _ := newEditor(t,
			doc.P(doc.Run{Text: "alpha", Marks: doc.Marks{Strike: true}}),
			doc.H(1, doc.T("beta")),
			doc.P(doc.T("gamma")),
		)
		whole := rng(0, 0, 1, 4)
		if r.Intn(2) == 0 {
			whole = rng(2, 0, 2, 5)
		}
		Apply(e, whole, want)
		got := Capture(e.Document(), whole)
		if got != want {
			t.Fatalf("case %d: captured %+v, want %+v", i, got, want)
		}

		partial := rng(2, 1, 2, 3)
		Apply(e, partial, want)
		gotMarks := Capture(e.Document(), partial)
		gotMarks.HasBlockType, gotMarks.BlockType, gotMarks.Level, gotMarks.List, gotMarks.TextAlign = want.HasBlockType, want.BlockType, want.Level, want.List, want.TextAlign
		if gotMarks != want {
			t.Fatalf("case %d: partial marks %+v, want %+v", i, gotMarks, want)
		}
	}
}

func TestEscapeAndToolbar(t *testing.T) {
	e, p := newEditor(t, doc.P(doc.T("text")))
	e.SetSelection(rng(0, 0, 0, 4))
	if !e.Press("formatPainter") || !p.Armed() {
		t.Fatalf("toolbar button should arm")
	}
	for _, b := range e.Toolbar() {
		if b.ID == "formatPainter" && !b.Active {
			t.Fatalf("button should be active while armed")
		}
	}
	if !e.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}) {
		t.Fatalf("escape should be consumed while armed")
	}
	if p.Armed() {
		t.Fatalf("escape should disarm")
	}
	if !e.Run(CmdToggle) || !p.Armed() {
		t.Fatalf("toggle command should arm")
	}
	if !e.Run(CmdDisarm) || p.Armed() {
		t.Fatalf("disarm command should disarm")
	}
}

func TestPaintersAreIndependent(t *testing.T) {
	e1, p1 := newEditor(t, doc.P(doc.T("one")))
	_, p2 := newEditor(t, doc.P(doc.T("two")))
	e1.SetSelection(rng(0, 0, 0, 3))
	p1.Arm()
	if p2.Armed() {
		t.Fatalf("arming one painter armed another")
	}
}
