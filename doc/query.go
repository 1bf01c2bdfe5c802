package doc

import (
	"strings"

	"github.com/iw2rmb/clausekit/internal/grapheme"
)

// forEachRun calls fn for every non-empty run of a styleable block that
// overlaps r.
func forEachRun(blocks []Block, r Range, fn func(block int, run Run)) {
	for i := r.From.Block; i <= r.To.Block && i < len(blocks); i++ {
		b := blocks[i]
		if !b.Styleable() {
			continue
		}
		start, end := blockSpan(blocks, r, i)
		if start >= end {
			continue
		}
		pos := 0
		for _, run := range b.Runs {
			n := grapheme.Count(run.Text)
			if n > 0 && pos < end && pos+n > start {
				fn(i, run)
			}
			pos += n
			if pos >= end {
				break
			}
		}
	}
}

// marksBefore returns the marks an insertion at off inherits.
func marksBefore(b Block, off int) Marks {
	if len(b.Runs) == 0 {
		return Marks{}
	}
	if off <= 0 {
		return b.Runs[0].Marks.Clone()
	}
	pos := 0
	for _, run := range b.Runs {
		pos += grapheme.Count(run.Text)
		if off <= pos {
			return run.Marks.Clone()
		}
	}
	return b.Runs[len(b.Runs)-1].Marks.Clone()
}

// activeMarks returns the marks active over r. A boolean mark is active when
// every run in r carries it; highlight and inline-style attributes are read
// from the first run.
func activeMarks(blocks []Block, r Range, stored *Marks) Marks {
	if len(blocks) == 0 {
		return Marks{}
	}
	if r.IsEmpty() {
		if stored != nil {
			return stored.Clone()
		}
		b := blocks[r.From.Block]
		if !b.Styleable() {
			return Marks{}
		}
		return marksBefore(b, r.From.Offset)
	}

	out := Marks{Bold: true, Italic: true, Underline: true, Strike: true}
	found := false
	forEachRun(blocks, r, func(_ int, run Run) {
		if !found {
			out.Highlight = run.Marks.Highlight
			out.TextStyle = run.Marks.Clone().TextStyle
			found = true
		}
		out.Bold = out.Bold && run.Marks.Bold
		out.Italic = out.Italic && run.Marks.Italic
		out.Underline = out.Underline && run.Marks.Underline
		out.Strike = out.Strike && run.Marks.Strike
	})
	if !found {
		return Marks{}
	}
	return out
}

func isMarkActive(blocks []Block, r Range, mt MarkType) bool {
	return activeMarks(blocks, r, nil).Has(mt)
}

func isNodeActive(blocks []Block, r Range, t BlockType, level int) bool {
	found := false
	for i := r.From.Block; i <= r.To.Block && i < len(blocks); i++ {
		b := blocks[i]
		if t != Image && !b.IsText() {
			continue
		}
		if b.Type != t || (t == Heading && level > 0 && b.Level != level) {
			return false
		}
		found = true
	}
	return found
}

func isListActive(blocks []Block, r Range, l ListType) bool {
	found := false
	for i := r.From.Block; i <= r.To.Block && i < len(blocks); i++ {
		b := blocks[i]
		if !b.IsText() {
			continue
		}
		if b.List != l {
			return false
		}
		found = true
	}
	return found
}

func (d *Document) clamp(r Range) Range {
	return NormalizeRange(ClampRange(r, len(d.blocks), d.blockLen))
}

// ActiveMarks returns the marks active over r. On a caret it includes pending
// stored marks.
func (d *Document) ActiveMarks(r Range) Marks {
	r = d.clamp(r)
	if r.IsEmpty() && r == d.sel {
		return activeMarks(d.blocks, r, d.storedMarks)
	}
	return activeMarks(d.blocks, r, nil)
}

func (d *Document) IsMarkActive(r Range, mt MarkType) bool {
	return d.ActiveMarks(r).Has(mt)
}

// IsNodeActive reports whether every text block in r has type t. For headings
// a positive level must match too.
func (d *Document) IsNodeActive(r Range, t BlockType, level int) bool {
	return isNodeActive(d.blocks, d.clamp(r), t, level)
}

func (d *Document) IsListActive(r Range, l ListType) bool {
	return isListActive(d.blocks, d.clamp(r), l)
}

// CoversWholeBlocks reports whether r starts at the start of a text block and
// ends at the end of a text block.
func (d *Document) CoversWholeBlocks(r Range) bool {
	r = d.clamp(r)
	if r.IsEmpty() || r.From.Offset != 0 {
		return false
	}
	for i := r.From.Block; i <= r.To.Block; i++ {
		if !d.blocks[i].IsText() {
			return false
		}
	}
	return r.To.Offset == d.blocks[r.To.Block].Len()
}

// TextBetween returns the plain text of r with blocks joined by newlines.
func (d *Document) TextBetween(r Range) string {
	r = d.clamp(r)
	var sb strings.Builder
	for i := r.From.Block; i <= r.To.Block; i++ {
		if i > r.From.Block {
			sb.WriteByte('\n')
		}
		b := d.blocks[i]
		if !b.IsText() {
			continue
		}
		start, end := blockSpan(d.blocks, r, i)
		sb.WriteString(grapheme.Slice(b.Text(), start, end))
	}
	return sb.String()
}

// BlocksInRange returns copies of the blocks r touches.
func (d *Document) BlocksInRange(r Range) []Block {
	r = d.clamp(r)
	if len(d.blocks) == 0 {
		return nil
	}
	return cloneBlocks(d.blocks[r.From.Block : r.To.Block+1])
}
