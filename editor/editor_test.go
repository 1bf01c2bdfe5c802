package editor

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/clausekit/doc"
)

func newTestEditor(t *testing.T, cfg Config) *Editor {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func selectRange(e *Editor, b1, o1, b2, o2 int) {
	e.SetSelection(doc.Range{From: doc.Pos{Block: b1, Offset: o1}, To: doc.Pos{Block: b2, Offset: o2}})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_LoadsMarkupWithBuiltinStyleAttrs(t *testing.T) {
	e := newTestEditor(t, Config{Markup: `<p><span style="color: red; font-family: serif">x</span></p>`})
	b, _ := e.Document().Block(0)
	if got, want := b.Runs[0].Marks.Style(AttrColor), "red"; got != want {
		t.Fatalf("color=%q, want %q", got, want)
	}
	if got, want := b.Runs[0].Marks.Style(AttrFontFamily), "serif"; got != want {
		t.Fatalf("fontFamily=%q, want %q", got, want)
	}
}

func TestNew_LoadsMarkdown(t *testing.T) {
	e := newTestEditor(t, Config{Markdown: "# Title\n\nbody"})
	b, _ := e.Document().Block(0)
	if b.Type != doc.Heading || b.Level != 1 {
		t.Fatalf("block=%+v, want h1", b)
	}
}

func TestRun_BuiltinCommands(t *testing.T) {
	e := newTestEditor(t, Config{Blocks: []doc.Block{doc.P(doc.T("hello world"))}})
	selectRange(e, 0, 0, 0, 5)

	if !e.Run(CmdToggleBold) {
		t.Fatalf("toggleBold should apply")
	}
	if !e.Document().IsMarkActive(e.Selection(), doc.MarkBold) {
		t.Fatalf("expected bold active")
	}
	if !e.Run(CmdSetColor, "Red") {
		t.Fatalf("setColor should apply")
	}
	if got := e.Document().ActiveMarks(e.Selection()).Style(AttrColor); got != "Red" {
		t.Fatalf("color=%q, want %q", got, "Red")
	}
	if !e.Run(CmdToggleHeading, 2) {
		t.Fatalf("toggleHeading should apply")
	}
	if !e.Document().IsNodeActive(e.Selection(), doc.Heading, 2) {
		t.Fatalf("expected h2 active")
	}
	if e.Run(CmdToggleHeading, "2") {
		t.Fatalf("toggleHeading with a non-int level should not apply")
	}
	if e.Run("noSuchCommand") {
		t.Fatalf("unknown command should not apply")
	}

	before := e.Document().TxCount()
	if !e.Run(CmdUndo) {
		t.Fatalf("undo should apply")
	}
	if e.Document().IsNodeActive(e.Selection(), doc.Heading, 2) {
		t.Fatalf("undo should revert the heading")
	}
	if got := e.Document().TxCount(); got != before+1 {
		t.Fatalf("txCount=%d, want %d", got, before+1)
	}
}

func TestRun_ReadOnly(t *testing.T) {
	e := newTestEditor(t, Config{Blocks: []doc.Block{doc.P(doc.T("x"))}, ReadOnly: true})
	selectRange(e, 0, 0, 0, 1)
	if e.Run(CmdToggleBold) {
		t.Fatalf("read-only editor should reject commands")
	}
}

type recordingExt struct {
	keys  []string
	bound *Editor
}

func (r *recordingExt) Name() string { return "recording" }

func (r *recordingExt) HandleKey(_ *Editor, msg tea.KeyMsg) bool {
	r.keys = append(r.keys, msg.String())
	return msg.String() == "x"
}

func (r *recordingExt) Bind(e *Editor) { r.bound = e }

func (r *recordingExt) Commands() map[string]Command {
	return map[string]Command{
		"shout": func(e *Editor, _ ...any) bool { return e.InsertText("!") },
	}
}

func TestExtension_KeyHandlerAndBinder(t *testing.T) {
	ext := &recordingExt{}
	e := newTestEditor(t, Config{Extensions: []Extension{ext}})
	if ext.bound != e {
		t.Fatalf("Bind not called with the editor")
	}

	e.Update(keyRunes("x"))
	e.Update(keyRunes("y"))
	if got, want := strings.Join(ext.keys, ","), "x,y"; got != want {
		t.Fatalf("keys=%q, want %q", got, want)
	}
	b, _ := e.Document().Block(0)
	if got, want := b.Text(), "y"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}

	if !e.Run("shout") {
		t.Fatalf("extension command should run")
	}
	if _, ok := e.Extension("recording"); !ok {
		t.Fatalf("Extension lookup failed")
	}
}

func TestUpdate_Editing(t *testing.T) {
	e := newTestEditor(t, Config{})
	for _, msg := range []tea.KeyMsg{
		keyRunes("ab"),
		{Type: tea.KeyEnter},
		keyRunes("c"),
		{Type: tea.KeyLeft},
		{Type: tea.KeyBackspace},
	} {
		e.Update(msg)
	}
	// Backspace at the start of block 1 joins it into block 0.
	blocks := e.Document().Blocks()
	if len(blocks) != 1 || blocks[0].Text() != "abc" {
		t.Fatalf("blocks=%+v, want one block \"abc\"", blocks)
	}
	if got, want := e.Selection(), doc.Caret(doc.Pos{Block: 0, Offset: 2}); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}

	e.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	e.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	if got, want := e.Selection(), (doc.Range{From: doc.Pos{}, To: doc.Pos{Offset: 2}}); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
	e.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	if !e.Document().IsMarkActive(e.Selection(), doc.MarkBold) {
		t.Fatalf("ctrl+b should toggle bold")
	}
}

func TestClipboard_CopyCutPaste(t *testing.T) {
	cb := &MemoryClipboard{}
	e := newTestEditor(t, Config{Blocks: []doc.Block{doc.P(doc.T("hello"))}, Clipboard: cb})
	selectRange(e, 0, 1, 0, 3)
	e.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if got, want := cb.text, "el"; got != want {
		t.Fatalf("clipboard=%q, want %q", got, want)
	}
	e.Update(tea.KeyMsg{Type: tea.KeyEnd})
	e.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	b, _ := e.Document().Block(0)
	if got, want := b.Text(), "hloel"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestCoordsAt(t *testing.T) {
	e := newTestEditor(t, Config{
		Blocks: []doc.Block{
			doc.P(doc.T("abcdef")),
			{Type: doc.Paragraph, List: doc.ListBullet, Runs: []doc.Run{doc.T("item")}},
		},
		Width:  4,
		Height: 3,
	})

	cases := []struct {
		pos    doc.Pos
		x, y   int
		wantOK bool
	}{
		{pos: doc.Pos{Block: 0, Offset: 0}, x: 0, y: 0, wantOK: true},
		{pos: doc.Pos{Block: 0, Offset: 3}, x: 3, y: 0, wantOK: true},
		// Wraps at width 4.
		{pos: doc.Pos{Block: 0, Offset: 4}, x: 0, y: 1, wantOK: true},
		{pos: doc.Pos{Block: 0, Offset: 6}, x: 2, y: 1, wantOK: true},
		// Bullet prefix is two cells wide, leaving two cells per row.
		{pos: doc.Pos{Block: 1, Offset: 1}, x: 3, y: 2, wantOK: true},
		{pos: doc.Pos{Block: 1, Offset: 3}, wantOK: false},
	}
	for _, tc := range cases {
		x, y, ok := e.CoordsAt(tc.pos)
		if ok != tc.wantOK {
			t.Fatalf("CoordsAt(%v) ok=%v, want %v", tc.pos, ok, tc.wantOK)
		}
		if ok && (x != tc.x || y != tc.y) {
			t.Fatalf("CoordsAt(%v)=(%d,%d), want (%d,%d)", tc.pos, x, y, tc.x, tc.y)
		}
	}
}

func TestCoordsAt_NoViewport(t *testing.T) {
	e := newTestEditor(t, Config{})
	e.SetSize(0, 0)
	if _, _, ok := e.CoordsAt(doc.Pos{}); ok {
		t.Fatalf("expected ok=false without a viewport")
	}
}

func TestViewport_FollowsCursorAndNotifies(t *testing.T) {
	e := newTestEditor(t, Config{Width: 20, Height: 2})
	var events []ViewportEvent
	unsubscribe := e.OnViewport(func(ev ViewportEvent) { events = append(events, ev) })

	e.InsertText("a\nb\nc")
	if got := e.Viewport().YOffset; got != 1 {
		t.Fatalf("yOffset=%d, want 1", got)
	}
	if len(events) == 0 || events[len(events)-1].Reason != ViewportScroll {
		t.Fatalf("events=%+v, want a scroll event", events)
	}
	if _, y, ok := e.CoordsAt(e.Selection().To); !ok || y != 1 {
		t.Fatalf("cursor y=%d ok=%v, want 1 true", y, ok)
	}

	e.SetSize(30, 5)
	if got := events[len(events)-1]; got.Reason != ViewportResize || got.Viewport.Width != 30 {
		t.Fatalf("last event=%+v, want resize to width 30", got)
	}

	unsubscribe()
	n := len(events)
	e.Scroll(-1)
	if len(events) != n {
		t.Fatalf("unsubscribed handler was called")
	}
}

func TestPosAt_RoundTrip(t *testing.T) {
	e := newTestEditor(t, Config{Blocks: []doc.Block{doc.P(doc.T("hello")), doc.P(doc.T("world"))}})
	want := doc.Pos{Block: 1, Offset: 2}
	x, y, ok := e.CoordsAt(want)
	if !ok {
		t.Fatalf("CoordsAt failed")
	}
	got, ok := e.PosAt(x, y)
	if !ok || got != want {
		t.Fatalf("PosAt=%v ok=%v, want %v", got, ok, want)
	}
}

func TestView_RendersMarkersAndPadsHeight(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	e := newTestEditor(t, Config{
		Blocks: []doc.Block{
			doc.H(1, doc.T("Title")),
			{Type: doc.Paragraph, List: doc.ListOrdered, Runs: []doc.Run{doc.T("one")}},
			{Type: doc.Paragraph, List: doc.ListOrdered, Runs: []doc.Run{doc.T("two")}},
		},
		Width:  20,
		Height: 4,
	})
	e.Blur()
	lines := strings.Split(e.View(), "\n")
	want := []string{"Title", "1. one", "2. two", ""}
	if len(lines) != len(want) {
		t.Fatalf("lines=%q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d=%q, want %q", i, lines[i], want[i])
		}
	}
}

func TestToolbar_ReflectsStateAndPress(t *testing.T) {
	var called *Editor
	e := newTestEditor(t, Config{
		Blocks:         []doc.Block{doc.P(doc.T("text"))},
		InsertVariable: func(e *Editor) { called = e },
	})
	selectRange(e, 0, 0, 0, 4)

	if !e.Press("bold") {
		t.Fatalf("Press(bold) should apply")
	}
	buttons := map[string]ToolbarButton{}
	for _, b := range e.Toolbar() {
		buttons[b.ID] = b
	}
	if !buttons["bold"].Active {
		t.Fatalf("bold button should be active")
	}
	if buttons["italic"].Active {
		t.Fatalf("italic button should be inactive")
	}
	if !buttons["undo"].Enabled || buttons["redo"].Enabled {
		t.Fatalf("undo/redo enabled=%v/%v, want true/false", buttons["undo"].Enabled, buttons["redo"].Enabled)
	}

	if !e.Press("h2") || !buttons["h2"].Enabled {
		t.Fatalf("Press(h2) should apply")
	}
	if !e.Document().IsNodeActive(e.Selection(), doc.Heading, 2) {
		t.Fatalf("expected h2 after pressing the button")
	}

	if !e.Press(ButtonInsertVariable) || called != e {
		t.Fatalf("insert-variable callback not invoked")
	}
	if e.Press("missing") {
		t.Fatalf("unknown button should not apply")
	}
}
