package doc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// styleValue restricts sanitized declaration and color values to plain CSS
// tokens.
var styleValue = regexp.MustCompile(`^[\w\s#%.,'"()\-]+$`)

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

func sanitizer(schema *Schema) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowDataURIImages()
	p.AllowImages()
	p.AllowElements(
		"p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "code",
		"ul", "ol", "li", "strong", "b", "em", "i", "u", "s", "strike", "del",
		"mark", "span", "br",
	)
	p.AllowAttrs("data-color").Matching(styleValue).OnElements("mark")
	p.AllowStyles("text-align").MatchingEnum("left", "right", "center", "justify").
		OnElements("p", "h1", "h2", "h3", "h4", "h5", "h6")
	if props := schema.Properties(); len(props) > 0 {
		p.AllowStyles(props...).Matching(styleValue).OnElements("span")
	}
	return p
}

// Parse reads an HTML fragment into blocks. Markup is sanitized first; unknown
// elements contribute their text only.
func Parse(schema *Schema, markup string) ([]Block, error) {
	if schema == nil {
		schema = NewSchema()
	}
	clean := sanitizer(schema).Sanitize(markup)

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(clean), body)
	if err != nil {
		return nil, errors.Wrap(err, "parse markup")
	}

	p := &parser{schema: schema}
	for _, n := range nodes {
		p.block(n, Block{Type: Paragraph})
	}
	p.flush()
	return normalizeBlocks(p.blocks), nil
}

// ParseDocument parses markup into a new document.
func ParseDocument(schema *Schema, markup string, opt Options) (*Document, error) {
	blocks, err := Parse(schema, markup)
	if err != nil {
		return nil, err
	}
	return New(schema, blocks, opt), nil
}

type parser struct {
	schema *Schema
	blocks []Block

	// cur collects inline content; tmpl is the shape of the next implicit block.
	cur  *Block
	tmpl Block
}

func (p *parser) flush() {
	if p.cur == nil {
		return
	}
	p.cur.Runs = normalizeRuns(p.cur.Runs)
	p.blocks = append(p.blocks, *p.cur)
	p.cur = nil
}

func (p *parser) open() {
	if p.cur != nil {
		return
	}
	b := p.tmpl
	b.ID = NewID()
	b.Runs = nil
	p.cur = &b
}

func (p *parser) children(n *html.Node, tmpl Block) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.block(c, tmpl)
	}
}

// block handles n in a block context; tmpl shapes implicit paragraphs.
func (p *parser) block(n *html.Node, tmpl Block) {
	switch n.Type {
	case html.TextNode:
		text := strings.Trim(n.Data, "\n")
		if strings.TrimSpace(text) == "" && p.cur == nil {
			return
		}
		p.tmpl = tmpl
		p.inline(&html.Node{Type: html.TextNode, Data: text}, Marks{})
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		p.flush()
		b := tmpl
		if level, ok := headingLevels[n.DataAtom]; ok {
			b.Type = Heading
			b.Level = level
		}
		if b.Alignable() {
			b.Align = ParseStyle(attr(n, "style"))["text-align"]
		}
		before := len(p.blocks)
		p.tmpl = b
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.inline(c, Marks{})
		}
		if p.cur == nil && len(p.blocks) == before {
			p.open()
		}
		p.flush()
		p.tmpl = tmpl
	case atom.Blockquote:
		p.flush()
		q := tmpl
		q.Type = Blockquote
		p.children(n, q)
		p.flush()
	case atom.Pre:
		p.flush()
		text := strings.TrimSuffix(textContent(n), "\n")
		p.blocks = append(p.blocks, Block{
			ID:   NewID(),
			Type: CodeBlock,
			List: tmpl.List,
			Runs: normalizeRuns([]Run{{Text: text}}),
		})
	case atom.Ul, atom.Ol:
		p.flush()
		item := tmpl
		item.List = ListBullet
		if n.DataAtom == atom.Ol {
			item.List = ListOrdered
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Li {
				p.children(c, item)
				p.flush()
				continue
			}
			p.block(c, item)
		}
		p.flush()
	case atom.Li:
		p.children(n, tmpl)
		p.flush()
	case atom.Img:
		p.flush()
		p.blocks = append(p.blocks, imageFromNode(n))
	default:
		p.tmpl = tmpl
		p.inline(n, Marks{})
	}
}

func (p *parser) inline(n *html.Node, marks Marks) {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return
		}
		p.open()
		if !p.cur.Styleable() {
			marks = Marks{}
		}
		p.cur.Runs = append(p.cur.Runs, Run{Text: n.Data, Marks: marks.Clone()})
		return
	case html.ElementNode:
	default:
		return
	}

	m := marks.Clone()
	switch n.DataAtom {
	case atom.Strong, atom.B:
		m.Bold = true
	case atom.Em, atom.I:
		m.Italic = true
	case atom.U:
		m.Underline = true
	case atom.S, atom.Strike, atom.Del:
		m.Strike = true
	case atom.Mark:
		m.Highlight = attr(n, "data-color")
		if m.Highlight == "" {
			m.Highlight = DefaultHighlight
		}
	case atom.Span:
		decls := ParseStyle(attr(n, "style"))
		for _, a := range p.schema.Attrs() {
			v, ok := decls[a.Property]
			if !ok {
				continue
			}
			if parsed, ok := a.parse(v); ok {
				m.setStyle(a.Name, parsed)
			}
		}
	case atom.Img:
		// Images are blocks: close the current block and continue after it
		// with the same shape.
		tmpl := p.tmpl
		if p.cur != nil {
			tmpl = *p.cur
			p.flush()
		}
		p.blocks = append(p.blocks, imageFromNode(n))
		p.tmpl = tmpl
		return
	case atom.Br:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.inline(c, m)
	}
}

func imageFromNode(n *html.Node) Block {
	attrs := MediaAttrs{
		Src: attr(n, "src"),
		Alt: attr(n, "alt"),
	}
	if w, err := strconv.Atoi(strings.TrimSpace(attr(n, "width"))); err == nil && w > 0 {
		attrs.Width = w
	}
	if h, err := strconv.Atoi(strings.TrimSpace(attr(n, "height"))); err == nil && h > 0 {
		attrs.Height = h
	}
	return Img(attrs)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
