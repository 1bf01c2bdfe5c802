package editor

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/internal/grapheme"
)

const tabWidth = 4

// glyph is one grapheme cluster of a text block with the marks it carries.
type glyph struct {
	Text  string
	Marks doc.Marks
}

func blockGlyphs(b doc.Block) []glyph {
	if !b.IsText() {
		return nil
	}
	out := make([]glyph, 0, b.Len())
	for _, r := range b.Runs {
		for _, g := range grapheme.Split(r.Text) {
			out = append(out, glyph{Text: g, Marks: r.Marks})
		}
	}
	return out
}

func graphemeCellWidth(text string, visualCol int) int {
	if text == "\t" {
		return tabAdvance(visualCol)
	}

	w := runewidth.StringWidth(text)
	if w < 0 {
		w = 0
	}
	if w == 0 {
		fallback := uniseg.StringWidth(text)
		if fallback > w {
			w = fallback
		}
	}
	return w
}

func tabAdvance(visualCol int) int {
	return tabWidth - visualCol%tabWidth
}

// stringCells returns the cell width of s starting at column 0.
func stringCells(s string) int {
	w := 0
	for _, g := range grapheme.Split(s) {
		w += graphemeCellWidth(g, w)
	}
	return w
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
