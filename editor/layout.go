package editor

import (
	"strconv"
	"strings"

	"github.com/iw2rmb/clausekit/doc"
)

// layoutRow is one screen row of the document.
type layoutRow struct {
	block int
	last  bool

	prefix string
	indent int

	// Text rows cover offsets [from, to) with glyph i at column xs[i].
	from, to int
	glyphs   []glyph
	xs       []int
	end      int

	// Node rows carry one pre-rendered line of a node view.
	node     bool
	nodeLine string
}

type blockRows struct {
	first, count int
}

type layout struct {
	rows   []layoutRow
	blocks []blockRows
}

func (e *Editor) buildLayout() layout {
	width := e.viewport.Width
	if width <= 0 {
		width = defaultWidth
	}
	blocks := e.doc.Blocks()
	selectedID, _ := e.doc.SelectedNode()

	var l layout
	ordinal := 0
	for i, b := range blocks {
		if b.List == doc.ListOrdered {
			ordinal++
		} else {
			ordinal = 0
		}
		prefix := blockPrefix(b, ordinal)
		first := len(l.rows)
		if b.Type == doc.Image {
			l.rows = append(l.rows, e.nodeRows(i, b, prefix, b.ID == selectedID)...)
		} else {
			l.rows = append(l.rows, textRows(i, b, prefix, width)...)
		}
		l.rows[len(l.rows)-1].last = true
		l.blocks = append(l.blocks, blockRows{first: first, count: len(l.rows) - first})
	}
	return l
}

func blockPrefix(b doc.Block, ordinal int) string {
	var sb strings.Builder
	if b.Type == doc.Blockquote {
		sb.WriteString("│ ")
	}
	switch b.List {
	case doc.ListBullet:
		sb.WriteString("• ")
	case doc.ListOrdered:
		sb.WriteString(strconv.Itoa(ordinal) + ". ")
	}
	return sb.String()
}

func (e *Editor) nodeRows(i int, b doc.Block, prefix string, selected bool) []layoutRow {
	indent := stringCells(prefix)
	rendered := e.renderNode(b, selected)
	lines := strings.Split(rendered, "\n")
	rows := make([]layoutRow, 0, len(lines))
	for j, line := range lines {
		p := prefix
		if j > 0 {
			p = strings.Repeat(" ", indent)
		}
		rows = append(rows, layoutRow{
			block:    i,
			prefix:   p,
			indent:   indent,
			to:       1,
			end:      indent + stringCells(line),
			node:     true,
			nodeLine: line,
		})
	}
	return rows
}

func textRows(i int, b doc.Block, prefix string, width int) []layoutRow {
	indent := stringCells(prefix)
	avail := width - indent
	if avail < 1 {
		avail = 1
	}
	cont := strings.Repeat(" ", indent)

	var rows []layoutRow
	cur := layoutRow{block: i, prefix: prefix, indent: indent}
	x := 0
	flush := func(next int) {
		cur.end = indent + x
		rows = append(rows, cur)
		cur = layoutRow{block: i, prefix: cont, indent: indent, from: next, to: next}
		x = 0
	}

	for off, g := range blockGlyphs(b) {
		w := graphemeCellWidth(g.Text, x)
		if g.Text == "\n" {
			w = 0
		}
		if x+w > avail && len(cur.glyphs) > 0 {
			flush(off)
		}
		cur.glyphs = append(cur.glyphs, g)
		cur.xs = append(cur.xs, indent+x)
		cur.to = off + 1
		x += w
		if g.Text == "\n" {
			flush(off + 1)
		}
	}
	cur.end = indent + x
	rows = append(rows, cur)

	if b.Alignable() && (b.Align == "center" || b.Align == "right") {
		for j := range rows {
			alignRow(&rows[j], b.Align, indent+avail)
		}
	}
	return rows
}

func alignRow(r *layoutRow, align string, right int) {
	free := right - r.end
	if free <= 0 {
		return
	}
	shift := free
	if align == "center" {
		shift = free / 2
	}
	for k := range r.xs {
		r.xs[k] += shift
	}
	r.end += shift
	r.prefix += strings.Repeat(" ", shift)
	r.indent += shift
}

// locate returns the layout row and column of p.
func (l layout) locate(p doc.Pos) (row, x int, ok bool) {
	if p.Block < 0 || p.Block >= len(l.blocks) {
		return 0, 0, false
	}
	span := l.blocks[p.Block]
	first := l.rows[span.first]
	if first.node {
		if p.Offset <= 0 {
			return span.first, first.indent, true
		}
		lastIdx := span.first + span.count - 1
		return lastIdx, l.rows[lastIdx].end, true
	}
	for k := span.first; k < span.first+span.count; k++ {
		r := l.rows[k]
		if p.Offset >= r.from && p.Offset < r.to {
			return k, r.xs[p.Offset-r.from], true
		}
	}
	lastIdx := span.first + span.count - 1
	return lastIdx, l.rows[lastIdx].end, true
}

// posAt returns the document position closest to column x of layout row.
func (l layout) posAt(row, x int) (doc.Pos, bool) {
	if len(l.rows) == 0 {
		return doc.Pos{}, false
	}
	r := l.rows[clampInt(row, 0, len(l.rows)-1)]
	if r.node {
		return doc.Pos{Block: r.block}, true
	}
	off := r.from
	for k, cx := range r.xs {
		if cx <= x {
			off = r.from + k
		}
	}
	if x >= r.end {
		off = r.to
		if !r.last && r.to > r.from {
			off = r.to - 1
		}
	}
	return doc.Pos{Block: r.block, Offset: off}, true
}

// nodeOrigin returns the layout row and column of the node block's top-left
// cell.
func (l layout) nodeOrigin(block int) (row, x int, ok bool) {
	if block < 0 || block >= len(l.blocks) {
		return 0, 0, false
	}
	span := l.blocks[block]
	r := l.rows[span.first]
	if !r.node {
		return 0, 0, false
	}
	return span.first, r.indent, true
}
