package suggest

import (
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/editor"
)

func newEditor(t *testing.T, cfg Config, blocks ...doc.Block) (*editor.Editor, *Engine) {
	t.Helper()
	x := New(cfg)
	e, err := editor.New(editor.Config{
		Blocks:     blocks,
		Extensions: []editor.Extension{x},
		Width:      40,
		Height:     12,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, x
}

func typeText(e *editor.Editor, s string) {
	for _, r := range s {
		e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(e *editor.Editor, kt tea.KeyType) {
	e.Update(tea.KeyMsg{Type: kt})
}

func titles(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	got := titles(Filter(DefaultCatalog(), "HEAD", 10))
	if want := "Heading 1,Heading 2,Heading 3"; strings.Join(got, ",") != want {
		t.Fatalf("Filter=%q, want %q", got, want)
	}
	if got := Filter(DefaultCatalog(), "", 10); len(got) != 10 {
		t.Fatalf("len=%d, want the cap of 10", len(got))
	}
	if got := Filter(DefaultCatalog(), "list", 1); len(got) != 1 || got[0].Title != "Bullet List" {
		t.Fatalf("Filter=%q, want [Bullet List]", titles(got))
	}
	if got := Filter(DefaultCatalog(), "nothing", 10); len(got) != 0 {
		t.Fatalf("Filter=%q, want none", titles(got))
	}
}

func TestSlashHeadEnterHeading2(t *testing.T) {
	e, x := newEditor(t, Config{})

	typeText(e, "/")
	s, ok := x.Session()
	if !ok {
		t.Fatalf("typing the trigger should open a session")
	}
	want := titles(DefaultCatalog())[:DefaultMaxItems]
	if got := titles(s.Candidates); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("candidates=%q, want %q", got, want)
	}
	if _, ok := x.MenuPlacement(); !ok {
		t.Fatalf("menu should be placed")
	}

	typeText(e, "head")
	s, _ = x.Session()
	if got := strings.Join(titles(s.Candidates), ","); got != "Heading 1,Heading 2,Heading 3" {
		t.Fatalf("candidates=%q, want headings only", got)
	}
	if got, want := s.Query, "head"; got != want {
		t.Fatalf("query=%q, want %q", got, want)
	}
	if got, want := s.TriggerRange, (doc.Range{From: doc.Pos{}, To: doc.Pos{Offset: 5}}); got != want {
		t.Fatalf("trigger range=%v, want %v", got, want)
	}

	press(e, tea.KeyDown)
	before := e.Document().TxCount()
	press(e, tea.KeyEnter)

	if x.State() != Idle {
		t.Fatalf("state=%v, want idle after commit", x.State())
	}
	blocks := e.Document().Blocks()
	if len(blocks) != 1 {
		t.Fatalf("blocks=%d, want 1 (enter must not split)", len(blocks))
	}
	if blocks[0].Text() != "" || blocks[0].Type != doc.Heading || blocks[0].Level != 2 {
		t.Fatalf("block=%+v, want empty h2", blocks[0])
	}
	if got := e.Document().TxCount(); got != before+2 {
		t.Fatalf("txCount=%d, want %d (delete, then command)", got, before+2)
	}
}

func TestArrowsWrapAndAreConsumed(t *testing.T) {
	e, x := newEditor(t, Config{}, doc.P(doc.T("one")), doc.P(doc.T("two")))
	e.SetSelection(doc.Caret(doc.Pos{Block: 1, Offset: 3}))
	typeText(e, " /")

	press(e, tea.KeyUp)
	s, _ := x.Session()
	if got, want := s.Selected, len(s.Candidates)-1; got != want {
		t.Fatalf("selected=%d, want %d", got, want)
	}
	press(e, tea.KeyDown)
	s, _ = x.Session()
	if s.Selected != 0 {
		t.Fatalf("selected=%d, want 0", s.Selected)
	}
	if got, want := e.Selection(), doc.Caret(doc.Pos{Block: 1, Offset: 5}); got != want {
		t.Fatalf("arrows moved the caret to %v", got)
	}

	typeText(e, "zzz")
	press(e, tea.KeyUp)
	press(e, tea.KeyDown)
	if x.State() != Active {
		t.Fatalf("zero candidates should keep the session open")
	}
	if got, want := e.Selection(), doc.Caret(doc.Pos{Block: 1, Offset: 8}); got != want {
		t.Fatalf("arrows with zero candidates moved the caret to %v", got)
	}
}

func TestSelectedStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	queries := []string{"", "h", "he", "hea", "head", "heading", "heading 2"}
	for round := 0; round < 50; round++ {
		e, x := newEditor(t, Config{AllowSpaces: true})
		typeText(e, "/")
		for step := 0; step < 30; step++ {
			switch rng.Intn(3) {
			case 0:
				press(e, tea.KeyUp)
			case 1:
				press(e, tea.KeyDown)
			default:
				s, _ := x.Session()
				next := queries[rng.Intn(len(queries))]
				if strings.HasPrefix(next, s.Query) {
					typeText(e, strings.TrimPrefix(next, s.Query))
				} else if s.Query != "" {
					press(e, tea.KeyBackspace)
				}
			}
			s, ok := x.Session()
			if !ok {
				t.Fatalf("round %d step %d: session closed unexpectedly", round, step)
			}
			if n := len(s.Candidates); n > 0 && (s.Selected < 0 || s.Selected >= n) {
				t.Fatalf("round %d step %d: selected=%d outside [0,%d)", round, step, s.Selected, n)
			}
		}
	}
}

func TestEscapeCancelsWithoutMutation(t *testing.T) {
	e, x := newEditor(t, Config{})
	typeText(e, "/he")
	before := e.Document().TxCount()
	press(e, tea.KeyEsc)
	if x.State() != Idle {
		t.Fatalf("escape should close the session")
	}
	if got := e.Document().TxCount(); got != before {
		t.Fatalf("escape committed %d transactions", got-before)
	}
	typeText(e, "a")
	if x.State() != Idle {
		t.Fatalf("typing after escape should not reopen the session")
	}
	b, _ := e.Document().Block(0)
	if got, want := b.Text(), "/hea"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestLeavingTriggerSpanCloses(t *testing.T) {
	e, x := newEditor(t, Config{})
	typeText(e, "/b")
	press(e, tea.KeyLeft)
	if x.State() != Active {
		t.Fatalf("caret still inside the span")
	}
	press(e, tea.KeyLeft)
	if x.State() != Idle {
		t.Fatalf("caret before the trigger should close the session")
	}
	press(e, tea.KeyRight)
	if x.State() != Idle {
		t.Fatalf("moving back into the span must not reopen the session")
	}
}

func TestSpaceClosesUnlessAllowed(t *testing.T) {
	e, x := newEditor(t, Config{})
	typeText(e, "/bullet ")
	if x.State() != Idle {
		t.Fatalf("space should end the query")
	}

	e, x = newEditor(t, Config{AllowSpaces: true})
	typeText(e, "/bullet l")
	s, ok := x.Session()
	if !ok || len(s.Candidates) != 1 || s.Candidates[0].Title != "Bullet List" {
		t.Fatalf("session=%+v ok=%v, want Bullet List", s, ok)
	}
}

func TestTriggerPlacement(t *testing.T) {
	e, x := newEditor(t, Config{})
	typeText(e, "a/")
	if x.State() != Idle {
		t.Fatalf("trigger glued to a word should not open")
	}

	e, x = newEditor(t, Config{StartOfLine: true})
	typeText(e, "a /")
	if x.State() != Idle {
		t.Fatalf("StartOfLine should reject a mid-line trigger")
	}
	press(e, tea.KeyEnter)
	typeText(e, "/")
	if x.State() != Active {
		t.Fatalf("StartOfLine should accept a trigger at the block start")
	}
}

func TestEnterWithoutCandidatesPassesThrough(t *testing.T) {
	e, x := newEditor(t, Config{})
	typeText(e, "/zzz")
	press(e, tea.KeyEnter)
	if x.State() != Idle {
		t.Fatalf("state=%v, want idle", x.State())
	}
	if got := e.Document().Len(); got != 2 {
		t.Fatalf("blocks=%d, want enter to split the block", got)
	}
}

func TestMenuWithheldUntilCoordinatesReturn(t *testing.T) {
	e, x := newEditor(t, Config{})
	e.SetSize(0, 0)
	typeText(e, "/")
	if x.State() != Active {
		t.Fatalf("missing coordinates must not prevent the session")
	}
	if _, ok := x.MenuPlacement(); ok {
		t.Fatalf("menu should be withheld without coordinates")
	}
	if got := x.View("base"); got != "base" {
		t.Fatalf("View=%q, want the base untouched", got)
	}

	e.SetSize(40, 12)
	pl, ok := x.MenuPlacement()
	if !ok {
		t.Fatalf("menu should be placed after the resize")
	}
	if pl.Y != 1 || !pl.Below {
		t.Fatalf("placement=%+v, want below the first row", pl)
	}
}

func TestMenuRepositionsOnScroll(t *testing.T) {
	blocks := make([]doc.Block, 0, 20)
	for i := 0; i < 20; i++ {
		blocks = append(blocks, doc.P(doc.T("line")))
	}
	e, x := newEditor(t, Config{}, blocks...)
	e.SetSelection(doc.Caret(doc.Pos{Block: 5, Offset: 4}))
	typeText(e, " /")
	before, ok := x.MenuPlacement()
	if !ok {
		t.Fatalf("menu should be placed")
	}
	e.Scroll(2)
	after, ok := x.MenuPlacement()
	if !ok {
		t.Fatalf("menu should stay placed after scrolling")
	}
	if after.Y != before.Y-2 {
		t.Fatalf("y=%d, want %d", after.Y, before.Y-2)
	}
	if x.State() != Active {
		t.Fatalf("scrolling must not close the session")
	}
}

func TestMenuRender(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m := Menu{
		Items:    []Item{{Title: "Bold"}, {Title: "Italic"}, {Title: "Underline"}},
		Selected: 2,
		Rows:     2,
		Style:    editor.DefaultStyle(),
	}
	lines := strings.Split(m.Render(), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%q, want 2", lines)
	}
	if !strings.Contains(lines[0], "Italic") || !strings.Contains(lines[1], "Underline") {
		t.Fatalf("lines=%q, want the window scrolled to the selection", lines)
	}
	for _, ln := range lines {
		if got := lipgloss.Width(ln); got != m.Width() {
			t.Fatalf("row width=%d, want %d", got, m.Width())
		}
	}

	empty := Menu{Style: editor.DefaultStyle()}
	if got := empty.Render(); !strings.Contains(got, noResults) {
		t.Fatalf("empty menu=%q, want %q", got, noResults)
	}
}

func TestEnginesAreIndependent(t *testing.T) {
	e1, x1 := newEditor(t, Config{})
	_, x2 := newEditor(t, Config{})
	typeText(e1, "/")
	if x1.State() != Active || x2.State() != Idle {
		t.Fatalf("states=%v/%v, want active/idle", x1.State(), x2.State())
	}
}
