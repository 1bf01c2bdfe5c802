package doc

import (
	"slices"
	"strings"

	"github.com/iw2rmb/clausekit/internal/grapheme"
)

// Tx is the working copy handed to Document.Transact. All edits made through a
// Tx commit together or not at all.
//
// Operations returning bool report whether they found something to act on;
// whether the document actually changed is decided at commit time.
type Tx struct {
	schema *Schema
	blocks []Block
	sel    Range

	storedMarks *Marks
	storedSet   bool

	dirty bool
}

func (tx *Tx) Schema() *Schema { return tx.schema }

func (tx *Tx) Len() int { return len(tx.blocks) }

func (tx *Tx) Block(i int) (Block, bool) {
	if i < 0 || i >= len(tx.blocks) {
		return Block{}, false
	}
	return tx.blocks[i].clone(), true
}

func (tx *Tx) Selection() Range { return tx.sel }

func (tx *Tx) SetSelection(r Range) {
	tx.sel = tx.clamp(r)
}

func (tx *Tx) ActiveMarks(r Range) Marks {
	return activeMarks(tx.blocks, tx.clamp(r), tx.storedMarks)
}

func (tx *Tx) blockLen(i int) int {
	if i < 0 || i >= len(tx.blocks) {
		return 0
	}
	return tx.blocks[i].Len()
}

func (tx *Tx) clamp(r Range) Range {
	return NormalizeRange(ClampRange(r, len(tx.blocks), tx.blockLen))
}

// blockSpan returns the local [start, end) of block i covered by r.
func blockSpan(blocks []Block, r Range, i int) (int, int) {
	start, end := 0, blocks[i].Len()
	if i == r.From.Block {
		start = r.From.Offset
	}
	if i == r.To.Block {
		end = r.To.Offset
	}
	return start, end
}

// splitRunAt ensures a run boundary at off and returns the index of the first
// run starting at or after it.
func splitRunAt(b *Block, off int) int {
	pos := 0
	for i := 0; i < len(b.Runs); i++ {
		if off <= pos {
			return i
		}
		n := grapheme.Count(b.Runs[i].Text)
		if off < pos+n {
			before, after := grapheme.Cut(b.Runs[i].Text, off-pos)
			r := Run{Text: after, Marks: b.Runs[i].Marks.Clone()}
			b.Runs[i].Text = before
			b.Runs = slices.Insert(b.Runs, i+1, r)
			return i + 1
		}
		pos += n
	}
	return len(b.Runs)
}

func runsBetween(b Block, start, end int) []Run {
	c := b.clone()
	s := splitRunAt(&c, start)
	e := splitRunAt(&c, end)
	return normalizeRuns(c.Runs[s:e])
}

// mapMarks calls fn for the marks of every run of a styleable block inside r.
func (tx *Tx) mapMarks(r Range, fn func(*Marks)) bool {
	r = tx.clamp(r)
	if r.IsEmpty() {
		return false
	}
	touched := false
	for i := r.From.Block; i <= r.To.Block; i++ {
		b := &tx.blocks[i]
		if !b.Styleable() {
			continue
		}
		start, end := blockSpan(tx.blocks, r, i)
		if start >= end {
			continue
		}
		touched = true
		s := splitRunAt(b, start)
		e := splitRunAt(b, end)
		for j := s; j < e; j++ {
			fn(&b.Runs[j].Marks)
		}
		b.Runs = normalizeRuns(b.Runs)
	}
	if touched {
		tx.dirty = true
	}
	return touched
}

// mapStored applies fn to the marks pending at an empty selection.
func (tx *Tx) mapStored(fn func(*Marks)) bool {
	p := tx.sel.To
	if p.Block < 0 || p.Block >= len(tx.blocks) || !tx.blocks[p.Block].Styleable() {
		return false
	}
	m := activeMarks(tx.blocks, tx.sel, tx.storedMarks)
	fn(&m)
	tx.storedMarks = &m
	tx.storedSet = true
	return true
}

func (tx *Tx) AddMark(r Range, mt MarkType) bool {
	return tx.mapMarks(r, func(m *Marks) { m.set(mt, true) })
}

func (tx *Tx) RemoveMark(r Range, mt MarkType) bool {
	return tx.mapMarks(r, func(m *Marks) { m.set(mt, false) })
}

// ToggleMark removes mt when every run in r has it and adds it otherwise. On an
// empty range it toggles the marks pending for the next insertion.
func (tx *Tx) ToggleMark(r Range, mt MarkType) bool {
	r = tx.clamp(r)
	if r.IsEmpty() {
		tx.sel = r
		return tx.mapStored(func(m *Marks) { m.set(mt, !m.Has(mt)) })
	}
	if isMarkActive(tx.blocks, r, mt) {
		return tx.RemoveMark(r, mt)
	}
	return tx.AddMark(r, mt)
}

// SetStyleAttr sets the inline-style attribute name over r. An empty value
// removes it. Unregistered attributes are ignored.
func (tx *Tx) SetStyleAttr(r Range, name, value string) bool {
	if _, ok := tx.schema.Attr(name); !ok {
		return false
	}
	r = tx.clamp(r)
	if r.IsEmpty() {
		tx.sel = r
		return tx.mapStored(func(m *Marks) { m.setStyle(name, value) })
	}
	return tx.mapMarks(r, func(m *Marks) { m.setStyle(name, value) })
}

func (tx *Tx) RemoveStyleAttr(r Range, name string) bool {
	return tx.SetStyleAttr(r, name, "")
}

// SetHighlight sets the highlight color over r. An empty color removes it.
func (tx *Tx) SetHighlight(r Range, color string) bool {
	r = tx.clamp(r)
	if r.IsEmpty() {
		tx.sel = r
		return tx.mapStored(func(m *Marks) { m.Highlight = color })
	}
	return tx.mapMarks(r, func(m *Marks) { m.Highlight = color })
}

// UnsetAllMarks removes every character mark over r.
func (tx *Tx) UnsetAllMarks(r Range) bool {
	r = tx.clamp(r)
	if r.IsEmpty() {
		tx.sel = r
		return tx.mapStored(func(m *Marks) { *m = Marks{} })
	}
	return tx.mapMarks(r, func(m *Marks) { *m = Marks{} })
}

// InsertText replaces the selection with text and moves the caret after it.
// Line breaks split the block.
func (tx *Tx) InsertText(text string) bool {
	if text == "" {
		return false
	}
	if !tx.sel.IsEmpty() {
		tx.DeleteRange(tx.sel)
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			tx.SplitBlock()
		}
		tx.insertLine(line)
	}
	return true
}

func (tx *Tx) insertLine(s string) {
	if s == "" {
		return
	}
	p := tx.sel.To
	if !tx.blocks[p.Block].IsText() {
		tx.blocks = slices.Insert(tx.blocks, p.Block+1, Block{ID: NewID(), Type: Paragraph})
		p = Pos{Block: p.Block + 1}
	}
	b := &tx.blocks[p.Block]

	marks := Marks{}
	if b.Styleable() {
		marks = activeMarks(tx.blocks, Caret(p), tx.storedMarks)
	}
	idx := splitRunAt(b, p.Offset)
	b.Runs = normalizeRuns(slices.Insert(b.Runs, idx, Run{Text: s, Marks: marks}))

	tx.sel = Caret(Pos{Block: p.Block, Offset: p.Offset + grapheme.Count(s)})
	tx.storedMarks = nil
	tx.storedSet = true
	tx.dirty = true
}

// DeleteRange removes the content of r and leaves a caret at its start.
func (tx *Tx) DeleteRange(r Range) bool {
	r = tx.clamp(r)
	if r.IsEmpty() {
		return false
	}
	fb, tb := r.From.Block, r.To.Block
	first, last := tx.blocks[fb], tx.blocks[tb]

	var mid []Block
	caret := r.From
	switch {
	case fb == tb && first.IsText():
		head := runsBetween(first, 0, r.From.Offset)
		tail := runsBetween(first, r.To.Offset, first.Len())
		first.Runs = normalizeRuns(append(head, tail...))
		mid = []Block{first}
	case fb == tb:
		caret = Pos{Block: fb}
	default:
		if first.IsText() {
			first.Runs = runsBetween(first, 0, r.From.Offset)
			if last.IsText() {
				first.Runs = normalizeRuns(append(first.Runs, runsBetween(last, r.To.Offset, last.Len())...))
				mid = []Block{first}
			} else {
				mid = []Block{first}
				if r.To.Offset == 0 {
					mid = append(mid, last)
				}
			}
			break
		}
		if r.From.Offset == 1 {
			mid = []Block{first}
			caret = Pos{Block: fb + 1}
		} else {
			caret = Pos{Block: fb}
		}
		if last.IsText() {
			last.Runs = runsBetween(last, r.To.Offset, last.Len())
			mid = append(mid, last)
		} else if r.To.Offset == 0 {
			mid = append(mid, last)
		}
	}

	out := make([]Block, 0, len(tx.blocks))
	out = append(out, tx.blocks[:fb]...)
	out = append(out, mid...)
	out = append(out, tx.blocks[tb+1:]...)
	tx.blocks = normalizeBlocks(out)
	tx.dirty = true
	tx.sel = tx.clamp(Caret(caret))
	return true
}

// DeleteBackward applies backspace semantics at the selection.
func (tx *Tx) DeleteBackward() bool {
	if !tx.sel.IsEmpty() {
		return tx.DeleteRange(tx.sel)
	}
	p := tx.sel.To
	if p.Offset > 0 {
		return tx.DeleteRange(Range{From: Pos{Block: p.Block, Offset: p.Offset - 1}, To: p})
	}
	return tx.JoinBackward()
}

// DeleteForward applies delete-key semantics at the selection.
func (tx *Tx) DeleteForward() bool {
	if !tx.sel.IsEmpty() {
		return tx.DeleteRange(tx.sel)
	}
	p := tx.sel.To
	if p.Offset < tx.blockLen(p.Block) {
		return tx.DeleteRange(Range{From: p, To: Pos{Block: p.Block, Offset: p.Offset + 1}})
	}
	if p.Block+1 >= len(tx.blocks) {
		return false
	}
	tx.sel = Caret(Pos{Block: p.Block + 1})
	return tx.JoinBackward()
}

// SplitBlock splits the block at the caret. The new block keeps the type,
// except that splitting a heading at its end yields a paragraph.
func (tx *Tx) SplitBlock() bool {
	if !tx.sel.IsEmpty() {
		tx.DeleteRange(tx.sel)
	}
	p := tx.sel.To
	b := tx.blocks[p.Block]
	if !b.IsText() {
		tx.blocks = slices.Insert(tx.blocks, p.Block+1, Block{ID: NewID(), Type: Paragraph})
		tx.sel = Caret(Pos{Block: p.Block + 1})
		tx.dirty = true
		return true
	}

	head := runsBetween(b, 0, p.Offset)
	tail := runsBetween(b, p.Offset, b.Len())
	second := Block{ID: NewID(), Type: b.Type, Level: b.Level, List: b.List, Align: b.Align, Runs: tail}
	if b.Type == Heading && len(tail) == 0 {
		second.Type = Paragraph
		second.Level = 0
	}
	b.Runs = head
	tx.blocks[p.Block] = b
	tx.blocks = slices.Insert(tx.blocks, p.Block+1, second)
	tx.sel = Caret(Pos{Block: p.Block + 1})
	tx.dirty = true
	return true
}

// JoinBackward merges the caret block into the previous one when the caret is
// at offset 0. A preceding image is removed instead.
func (tx *Tx) JoinBackward() bool {
	p := tx.sel.To
	if !tx.sel.IsEmpty() || p.Offset != 0 || p.Block == 0 {
		return false
	}
	prev, cur := tx.blocks[p.Block-1], tx.blocks[p.Block]
	switch {
	case !prev.IsText():
		tx.blocks = slices.Delete(tx.blocks, p.Block-1, p.Block)
		tx.sel = Caret(Pos{Block: p.Block - 1})
	case !cur.IsText():
		return false
	default:
		n := prev.Len()
		prev.Runs = normalizeRuns(append(prev.Runs, cur.Runs...))
		tx.blocks[p.Block-1] = prev
		tx.blocks = slices.Delete(tx.blocks, p.Block, p.Block+1)
		tx.sel = Caret(Pos{Block: p.Block - 1, Offset: n})
	}
	tx.dirty = true
	return true
}

// eachTextBlock calls fn for every text block touched by r.
func (tx *Tx) eachTextBlock(r Range, fn func(*Block)) bool {
	r = tx.clamp(r)
	touched := false
	for i := r.From.Block; i <= r.To.Block && i < len(tx.blocks); i++ {
		b := &tx.blocks[i]
		if !b.IsText() {
			continue
		}
		touched = true
		fn(b)
	}
	if touched {
		tx.dirty = true
	}
	return touched
}

// SetBlockType converts the text blocks in r. Converting to a code block drops
// character marks.
func (tx *Tx) SetBlockType(r Range, t BlockType, level int) bool {
	if t == Image {
		return false
	}
	return tx.eachTextBlock(r, func(b *Block) {
		b.Type = t
		b.Level = 0
		if t == Heading {
			b.Level = clampInt(level, 1, MaxHeadingLevel)
		}
		if t == CodeBlock {
			b.Runs = normalizeRuns([]Run{{Text: b.Text()}})
		}
		if !b.Alignable() {
			b.Align = ""
		}
	})
}

// ToggleBlockType sets t over r, or resets to paragraphs when every block in r
// already is t.
func (tx *Tx) ToggleBlockType(r Range, t BlockType, level int) bool {
	if isNodeActive(tx.blocks, tx.clamp(r), t, level) {
		return tx.SetBlockType(r, Paragraph, 0)
	}
	return tx.SetBlockType(r, t, level)
}

func (tx *Tx) SetList(r Range, l ListType) bool {
	return tx.eachTextBlock(r, func(b *Block) { b.List = l })
}

// ToggleList wraps r in l, or unwraps when every block in r already is in l.
func (tx *Tx) ToggleList(r Range, l ListType) bool {
	if isListActive(tx.blocks, tx.clamp(r), l) {
		return tx.SetList(r, ListNone)
	}
	return tx.SetList(r, l)
}

// SetAlign sets the alignment of paragraphs and headings in r. An empty value
// unsets it.
func (tx *Tx) SetAlign(r Range, align string) bool {
	r = tx.clamp(r)
	touched := false
	for i := r.From.Block; i <= r.To.Block; i++ {
		b := &tx.blocks[i]
		if !b.Alignable() {
			continue
		}
		touched = true
		b.Align = align
	}
	if touched {
		tx.dirty = true
	}
	return touched
}

// ClearNodes resets the text blocks in r to plain, unlisted paragraphs.
func (tx *Tx) ClearNodes(r Range) bool {
	return tx.eachTextBlock(r, func(b *Block) {
		if b.Type == CodeBlock {
			b.Runs = normalizeRuns(b.Runs)
		}
		b.Type = Paragraph
		b.Level = 0
		b.List = ListNone
	})
}

// SetMediaAttrs updates the attributes of the image block with id.
func (tx *Tx) SetMediaAttrs(id string, fn func(*MediaAttrs)) bool {
	for i := range tx.blocks {
		b := &tx.blocks[i]
		if b.ID != id || b.Type != Image {
			continue
		}
		if b.Media == nil {
			b.Media = &MediaAttrs{}
		}
		fn(b.Media)
		tx.dirty = true
		return true
	}
	return false
}

// InsertImage inserts an image block after the caret block, replacing it when
// it is an empty paragraph, and selects the new node.
func (tx *Tx) InsertImage(attrs MediaAttrs) bool {
	if !tx.sel.IsEmpty() {
		tx.DeleteRange(tx.sel)
	}
	p := tx.sel.To
	img := Img(attrs)
	cur := tx.blocks[p.Block]
	at := p.Block + 1
	if cur.Type == Paragraph && cur.Len() == 0 && cur.List == ListNone {
		tx.blocks[p.Block] = img
		at = p.Block
	} else {
		tx.blocks = slices.Insert(tx.blocks, at, img)
	}
	tx.sel = Range{From: Pos{Block: at}, To: Pos{Block: at, Offset: 1}}
	tx.dirty = true
	return true
}
