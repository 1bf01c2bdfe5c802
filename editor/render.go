package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/clausekit/doc"
)

// cssColors maps the named colors the toolbar offers to terminal colors.
var cssColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"pink":    "#ffc0cb",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
}

func terminalColor(v string) (lipgloss.Color, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if hex, ok := cssColors[v]; ok {
		return lipgloss.Color(hex), true
	}
	if strings.HasPrefix(v, "#") && (len(v) == 4 || len(v) == 7) {
		return lipgloss.Color(v), true
	}
	return "", false
}

// View renders the visible rows of the document, padded to the viewport
// height.
func (e *Editor) View() string {
	l := e.buildLayout()
	blocks := e.doc.Blocks()
	sel := e.doc.Selection()
	st := e.cfg.Style

	out := make([]string, 0, e.viewport.Height)
	for row := e.viewport.YOffset; row < len(l.rows) && len(out) < e.viewport.Height; row++ {
		r := l.rows[row]
		b := blocks[r.block]
		out = append(out, e.renderRow(st, r, b, sel))
	}
	for len(out) < e.viewport.Height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func (e *Editor) renderRow(st Style, r layoutRow, b doc.Block, sel doc.Range) string {
	var sb strings.Builder
	prefixStyle := st.ListMarker
	if b.Type == doc.Blockquote {
		prefixStyle = st.Quote
	}
	if r.prefix != "" {
		sb.WriteString(prefixStyle.Render(r.prefix))
	}
	if r.node {
		sb.WriteString(r.nodeLine)
		return sb.String()
	}

	base := blockStyle(st, b)
	caret, hasCaret := sel.To, e.focused && sel.IsEmpty() && sel.To.Block == r.block
	for k, g := range r.glyphs {
		off := r.from + k
		p := doc.Pos{Block: r.block, Offset: off}
		text := g.Text
		if text == "\n" {
			text = " "
		}
		style := markStyle(base, g.Marks)
		switch {
		case hasCaret && caret.Offset == off:
			style = st.Cursor.Inherit(style)
		case !sel.IsEmpty() && sel.Contains(p) && p != sel.To:
			style = st.Selection.Inherit(style)
		}
		sb.WriteString(style.Render(text))
	}
	if hasCaret && caret.Offset == r.to && r.last {
		sb.WriteString(st.Cursor.Render(" "))
	}
	return sb.String()
}

func blockStyle(st Style, b doc.Block) lipgloss.Style {
	switch b.Type {
	case doc.Heading:
		return st.Heading.Inherit(st.Text)
	case doc.Blockquote:
		return st.Quote.Inherit(st.Text)
	case doc.CodeBlock:
		return st.Code.Inherit(st.Text)
	}
	return st.Text
}

func markStyle(base lipgloss.Style, m doc.Marks) lipgloss.Style {
	s := base
	if m.Bold {
		s = s.Bold(true)
	}
	if m.Italic {
		s = s.Italic(true)
	}
	if m.Underline {
		s = s.Underline(true)
	}
	if m.Strike {
		s = s.Strikethrough(true)
	}
	if c, ok := terminalColor(m.Style(AttrColor)); ok {
		s = s.Foreground(c)
	}
	if m.Highlight != "" {
		if c, ok := terminalColor(m.Highlight); ok {
			s = s.Background(c)
		}
	}
	return s
}

// renderNode renders an image block through its node view, or as a one-line
// placeholder when no view is registered.
func (e *Editor) renderNode(b doc.Block, selected bool) string {
	if mv, ok := e.nodeViews[b.ID]; ok {
		return mv.view.Render(selected)
	}
	label := "[image]"
	if b.Media != nil && b.Media.Alt != "" {
		label = "[image: " + b.Media.Alt + "]"
	}
	if selected {
		return e.cfg.Style.Selection.Render(label)
	}
	return label
}
