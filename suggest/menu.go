package suggest

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/iw2rmb/clausekit/editor"
)

const noResults = "No results"

// Menu renders a window of candidates. It holds no state of its own.
type Menu struct {
	Items    []Item
	Selected int
	// Rows caps the visible rows; the window scrolls to keep Selected in
	// view.
	Rows     int
	MaxWidth int
	Style    editor.Style
}

func (m Menu) rowCount() int {
	n := len(m.Items)
	if n == 0 {
		n = 1
	}
	if m.Rows > 0 && n > m.Rows {
		n = m.Rows
	}
	return n
}

func rowText(it Item) (title, detail string) {
	title = " " + it.Title
	if it.Detail != "" {
		detail = "  " + it.Detail
	}
	return title, detail + " "
}

// Width returns the menu width in cells.
func (m Menu) Width() int {
	w := runewidth.StringWidth(" " + noResults + " ")
	for _, it := range m.Items {
		title, detail := rowText(it)
		w = max(w, runewidth.StringWidth(title+detail))
	}
	if m.MaxWidth > 0 {
		w = min(w, m.MaxWidth)
	}
	return w
}

// window returns the [start, end) slice of Items shown.
func (m Menu) window() (int, int) {
	rows := m.rowCount()
	start := 0
	if m.Selected >= rows {
		start = m.Selected - rows + 1
	}
	return start, min(start+rows, len(m.Items))
}

func (m Menu) Render() string {
	width := m.Width()
	st := m.Style
	if len(m.Items) == 0 {
		text := runewidth.FillRight(runewidth.Truncate(" "+noResults, width, "…"), width)
		return st.MenuDetail.Inherit(st.MenuItem).Render(text)
	}

	start, end := m.window()
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		base := st.MenuItem
		if i == m.Selected {
			base = st.MenuItemSelected
		}
		title, detail := rowText(m.Items[i])
		title = runewidth.Truncate(title, width, "…")
		room := width - runewidth.StringWidth(title)
		detail = runewidth.FillRight(runewidth.Truncate(detail, room, ""), room)
		rows = append(rows, base.Render(title)+st.MenuDetail.Inherit(base).Render(detail))
	}
	return strings.Join(rows, "\n")
}
