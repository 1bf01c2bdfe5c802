package doc

import (
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/iw2rmb/clausekit/internal/grapheme"
)

// BlockType identifies the structural kind of a block.
type BlockType uint8

const (
	Paragraph BlockType = iota
	Heading
	Blockquote
	CodeBlock
	Image
)

func (t BlockType) String() string {
	switch t {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case Blockquote:
		return "blockquote"
	case CodeBlock:
		return "codeBlock"
	case Image:
		return "image"
	default:
		return "unknown"
	}
}

// ListType identifies the list wrapping of a block.
type ListType uint8

const (
	ListNone ListType = iota
	ListBullet
	ListOrdered
)

func (l ListType) String() string {
	switch l {
	case ListBullet:
		return "bullet"
	case ListOrdered:
		return "ordered"
	default:
		return "none"
	}
}

// MaxHeadingLevel is the deepest heading the engine models.
const MaxHeadingLevel = 6

// DefaultHighlight is the highlight color used for markup without an explicit one.
const DefaultHighlight = "yellow"

// MarkType names the boolean character marks.
type MarkType uint8

const (
	MarkBold MarkType = iota
	MarkItalic
	MarkUnderline
	MarkStrike
)

func (mt MarkType) String() string {
	switch mt {
	case MarkBold:
		return "bold"
	case MarkItalic:
		return "italic"
	case MarkUnderline:
		return "underline"
	case MarkStrike:
		return "strike"
	default:
		return "unknown"
	}
}

// Marks is the set of inline annotations carried by a run.
//
// TextStyle holds the attributes of the shared inline-style mark keyed by the
// registered attribute name (see Schema). An empty value means unset.
type Marks struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Highlight string
	TextStyle map[string]string
}

// Has reports whether the boolean mark mt is set.
func (m Marks) Has(mt MarkType) bool {
	switch mt {
	case MarkBold:
		return m.Bold
	case MarkItalic:
		return m.Italic
	case MarkUnderline:
		return m.Underline
	case MarkStrike:
		return m.Strike
	default:
		return false
	}
}

func (m *Marks) set(mt MarkType, on bool) {
	switch mt {
	case MarkBold:
		m.Bold = on
	case MarkItalic:
		m.Italic = on
	case MarkUnderline:
		m.Underline = on
	case MarkStrike:
		m.Strike = on
	}
}

// Style returns the inline-style attribute name, or "" when unset.
func (m Marks) Style(name string) string {
	return m.TextStyle[name]
}

func (m *Marks) setStyle(name, value string) {
	if value == "" {
		delete(m.TextStyle, name)
		if len(m.TextStyle) == 0 {
			m.TextStyle = nil
		}
		return
	}
	if m.TextStyle == nil {
		m.TextStyle = make(map[string]string, 1)
	}
	m.TextStyle[name] = value
}

// Clone returns a deep copy of m.
func (m Marks) Clone() Marks {
	if len(m.TextStyle) == 0 {
		m.TextStyle = nil
		return m
	}
	m.TextStyle = maps.Clone(m.TextStyle)
	return m
}

func (m Marks) Equal(o Marks) bool {
	return m.Bold == o.Bold &&
		m.Italic == o.Italic &&
		m.Underline == o.Underline &&
		m.Strike == o.Strike &&
		m.Highlight == o.Highlight &&
		maps.Equal(m.TextStyle, o.TextStyle)
}

func (m Marks) IsZero() bool {
	return m.Equal(Marks{})
}

// Run is a contiguous span of text sharing one set of marks.
type Run struct {
	Text  string
	Marks Marks
}

// MediaAttrs are the attributes of an image block. Zero Width/Height mean the
// size has not been measured or set yet.
type MediaAttrs struct {
	Src    string
	Alt    string
	Width  int
	Height int
}

// HasSize reports whether both dimensions are set.
func (a MediaAttrs) HasSize() bool {
	return a.Width > 0 && a.Height > 0
}

// Block is a structural document unit.
type Block struct {
	ID    string
	Type  BlockType
	Level int
	List  ListType
	Align string
	Runs  []Run
	Media *MediaAttrs
}

// NewID returns a fresh block identifier.
func NewID() string {
	return uuid.NewString()
}

// P builds a paragraph from runs.
func P(runs ...Run) Block {
	return Block{ID: NewID(), Type: Paragraph, Runs: normalizeRuns(runs)}
}

// H builds a heading of level from runs.
func H(level int, runs ...Run) Block {
	return Block{ID: NewID(), Type: Heading, Level: clampInt(level, 1, MaxHeadingLevel), Runs: normalizeRuns(runs)}
}

// Img builds an image block.
func Img(attrs MediaAttrs) Block {
	return Block{ID: NewID(), Type: Image, Media: &attrs}
}

// T builds an unmarked run.
func T(text string) Run {
	return Run{Text: text}
}

// Text returns the block's plain text. Image blocks have no text.
func (b Block) Text() string {
	if len(b.Runs) == 1 {
		return b.Runs[0].Text
	}
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len returns the block length in grapheme clusters. Image blocks have length 1.
func (b Block) Len() int {
	if b.Type == Image {
		return 1
	}
	n := 0
	for _, r := range b.Runs {
		n += grapheme.Count(r.Text)
	}
	return n
}

// IsText reports whether the block holds text.
func (b Block) IsText() bool {
	return b.Type != Image
}

// Styleable reports whether character marks may be applied inside the block.
func (b Block) Styleable() bool {
	switch b.Type {
	case Paragraph, Heading, Blockquote:
		return true
	default:
		return false
	}
}

// Alignable reports whether the block carries a text alignment.
func (b Block) Alignable() bool {
	return b.Type == Paragraph || b.Type == Heading
}

func (b Block) clone() Block {
	out := b
	if len(b.Runs) > 0 {
		out.Runs = make([]Run, len(b.Runs))
		for i, r := range b.Runs {
			out.Runs[i] = Run{Text: r.Text, Marks: r.Marks.Clone()}
		}
	} else {
		out.Runs = nil
	}
	if b.Media != nil {
		m := *b.Media
		out.Media = &m
	}
	return out
}

func (b Block) equal(o Block) bool {
	if b.ID != o.ID || b.Type != o.Type || b.Level != o.Level || b.List != o.List || b.Align != o.Align {
		return false
	}
	if (b.Media == nil) != (o.Media == nil) {
		return false
	}
	if b.Media != nil && *b.Media != *o.Media {
		return false
	}
	if len(b.Runs) != len(o.Runs) {
		return false
	}
	for i := range b.Runs {
		if b.Runs[i].Text != o.Runs[i].Text || !b.Runs[i].Marks.Equal(o.Runs[i].Marks) {
			return false
		}
	}
	return true
}

func cloneBlocks(in []Block) []Block {
	out := make([]Block, len(in))
	for i := range in {
		out[i] = in[i].clone()
	}
	return out
}

func blocksEqual(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}

// normalizeRuns drops empty runs and merges neighbours with equal marks.
func normalizeRuns(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks.Equal(r.Marks) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, Run{Text: r.Text, Marks: r.Marks.Clone()})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
