package doc

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
	"golang.org/x/net/html"
)

// SerializeOptions controls markup output.
type SerializeOptions struct {
	// Minify compacts the markup. Runs of whitespace inside text collapse.
	Minify bool
}

// Serialize renders blocks as an HTML fragment. Inline-style attributes are
// written through the schema's render hooks; a style attribute is emitted only
// when at least one declaration renders.
func Serialize(schema *Schema, blocks []Block, opt SerializeOptions) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(blocks); {
		b := blocks[i]
		if b.List == ListNone || !b.IsText() {
			writeBlock(&sb, schema, b)
			i++
			continue
		}
		tag := "ul"
		if b.List == ListOrdered {
			tag = "ol"
		}
		sb.WriteString("<" + tag + ">")
		for i < len(blocks) && blocks[i].List == b.List && blocks[i].IsText() {
			sb.WriteString("<li>")
			writeBlock(&sb, schema, blocks[i])
			sb.WriteString("</li>")
			i++
		}
		sb.WriteString("</" + tag + ">")
	}

	out := sb.String()
	if !opt.Minify {
		return out, nil
	}
	m := minify.New()
	m.Add("text/html", &minhtml.Minifier{KeepEndTags: true, KeepQuotes: true})
	compact, err := m.String("text/html", out)
	if err != nil {
		return "", errors.Wrap(err, "minify markup")
	}
	return compact, nil
}

// Serialize renders the document's blocks.
func (d *Document) Serialize(opt SerializeOptions) (string, error) {
	return Serialize(d.schema, d.blocks, opt)
}

func writeBlock(sb *strings.Builder, schema *Schema, b Block) {
	switch b.Type {
	case Image:
		writeImage(sb, b.Media)
	case CodeBlock:
		sb.WriteString("<pre><code>")
		sb.WriteString(html.EscapeString(b.Text()))
		sb.WriteString("</code></pre>")
	case Blockquote:
		sb.WriteString("<blockquote><p>")
		writeRuns(sb, schema, b.Runs)
		sb.WriteString("</p></blockquote>")
	default:
		tag := "p"
		if b.Type == Heading {
			tag = "h" + strconv.Itoa(clampInt(b.Level, 1, MaxHeadingLevel))
		}
		sb.WriteString("<" + tag)
		if b.Align != "" {
			sb.WriteString(` style="text-align: ` + html.EscapeString(b.Align) + `"`)
		}
		sb.WriteString(">")
		writeRuns(sb, schema, b.Runs)
		sb.WriteString("</" + tag + ">")
	}
}

func writeImage(sb *strings.Builder, m *MediaAttrs) {
	if m == nil {
		m = &MediaAttrs{}
	}
	sb.WriteString(`<img src="` + html.EscapeString(m.Src) + `"`)
	if m.Alt != "" {
		sb.WriteString(` alt="` + html.EscapeString(m.Alt) + `"`)
	}
	if m.Width > 0 {
		sb.WriteString(` width="` + strconv.Itoa(m.Width) + `"`)
	}
	if m.Height > 0 {
		sb.WriteString(` height="` + strconv.Itoa(m.Height) + `"`)
	}
	sb.WriteString(">")
}

func writeRuns(sb *strings.Builder, schema *Schema, runs []Run) {
	for _, r := range runs {
		var opens, closes []string
		wrap := func(o, c string) {
			opens = append(opens, o)
			closes = append([]string{c}, closes...)
		}

		if style := renderTextStyle(schema, r.Marks); style != "" {
			wrap(`<span style="`+html.EscapeString(style)+`">`, "</span>")
		}
		if r.Marks.Highlight != "" {
			wrap(`<mark data-color="`+html.EscapeString(r.Marks.Highlight)+`">`, "</mark>")
		}
		if r.Marks.Bold {
			wrap("<strong>", "</strong>")
		}
		if r.Marks.Italic {
			wrap("<em>", "</em>")
		}
		if r.Marks.Underline {
			wrap("<u>", "</u>")
		}
		if r.Marks.Strike {
			wrap("<s>", "</s>")
		}

		sb.WriteString(strings.Join(opens, ""))
		sb.WriteString(html.EscapeString(r.Text))
		sb.WriteString(strings.Join(closes, ""))
	}
}

func renderTextStyle(schema *Schema, m Marks) string {
	if len(m.TextStyle) == 0 {
		return ""
	}
	decls := make(map[string]string, len(m.TextStyle))
	order := make([]string, 0, len(m.TextStyle))
	for _, a := range schema.Attrs() {
		v, ok := m.TextStyle[a.Name]
		if !ok {
			continue
		}
		out, ok := a.render(v)
		if !ok {
			continue
		}
		decls[a.Property] = out
		order = append(order, a.Property)
	}
	return FormatStyle(decls, order...)
}
