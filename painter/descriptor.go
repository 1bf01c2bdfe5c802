// Package painter implements the format painter: capture the formatting of
// one selection and replay it onto later selections.
package painter

import (
	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/editor"
	"github.com/iw2rmb/clausekit/fontsize"
)

// Descriptor is a value snapshot of the formatting over a range. Empty string
// fields mean the attribute is unset.
type Descriptor struct {
	// HasBlockType is false when the source mixes block types; the block
	// type is then left as-is on apply.
	HasBlockType bool
	BlockType    doc.BlockType
	Level        int
	List         doc.ListType

	Bold, Italic, Underline, Strike bool

	Color      string
	Highlight  string
	FontFamily string
	FontSize   string

	TextAlign string
}

var paintableBlocks = []doc.BlockType{doc.Paragraph, doc.Blockquote, doc.CodeBlock}

// Capture builds the descriptor for r from the document's active-mark and
// active-node queries.
func Capture(d *doc.Document, r doc.Range) Descriptor {
	var out Descriptor
	for level := 1; level <= doc.MaxHeadingLevel && !out.HasBlockType; level++ {
		if d.IsNodeActive(r, doc.Heading, level) {
			out.HasBlockType, out.BlockType, out.Level = true, doc.Heading, level
		}
	}
	for _, t := range paintableBlocks {
		if !out.HasBlockType && d.IsNodeActive(r, t, 0) {
			out.HasBlockType, out.BlockType = true, t
		}
	}

	switch {
	case d.IsListActive(r, doc.ListBullet):
		out.List = doc.ListBullet
	case d.IsListActive(r, doc.ListOrdered):
		out.List = doc.ListOrdered
	}

	m := d.ActiveMarks(r)
	out.Bold = m.Bold
	out.Italic = m.Italic
	out.Underline = m.Underline
	out.Strike = m.Strike
	out.Color = m.Style(editor.AttrColor)
	out.Highlight = m.Highlight
	out.FontFamily = m.Style(editor.AttrFontFamily)
	out.FontSize = m.Style(fontsize.AttrName)

	out.TextAlign = alignOf(d, r)
	return out
}

// alignOf returns the alignment of the first paragraph or heading in r.
func alignOf(d *doc.Document, r doc.Range) string {
	for _, b := range d.BlocksInRange(r) {
		if b.Alignable() {
			return b.Align
		}
	}
	return ""
}

func isDefaultAlign(align string) bool {
	return align == "" || align == "left"
}

// apply replays desc onto r inside tx. Block edits run before mark edits
// because changing the block type can drop inline marks.
func apply(tx *doc.Tx, r doc.Range, desc Descriptor, wholeBlocks bool) {
	if wholeBlocks && desc.HasBlockType {
		tx.ClearNodes(r)
		tx.SetBlockType(r, desc.BlockType, desc.Level)
		if desc.List != doc.ListNone {
			tx.SetList(r, desc.List)
		}
		tx.SetAlign(r, "")
		if !isDefaultAlign(desc.TextAlign) {
			tx.SetAlign(r, desc.TextAlign)
		}
	}

	tx.UnsetAllMarks(r)
	if desc.Color != "" {
		tx.SetStyleAttr(r, editor.AttrColor, desc.Color)
	}
	if desc.Highlight != "" {
		tx.SetHighlight(r, desc.Highlight)
	}
	if desc.FontFamily != "" {
		tx.SetStyleAttr(r, editor.AttrFontFamily, desc.FontFamily)
	}
	if desc.FontSize != "" {
		tx.SetStyleAttr(r, fontsize.AttrName, desc.FontSize)
	}
	for _, mt := range []struct {
		on bool
		mt doc.MarkType
	}{
		{desc.Bold, doc.MarkBold},
		{desc.Italic, doc.MarkItalic},
		{desc.Underline, doc.MarkUnderline},
		{desc.Strike, doc.MarkStrike},
	} {
		if mt.on {
			tx.ToggleMark(r, mt.mt)
		}
	}
}
