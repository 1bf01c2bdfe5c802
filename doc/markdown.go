package doc

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough),
)

// ParseMarkdown converts Markdown to markup and parses it into blocks.
func ParseMarkdown(schema *Schema, src string) ([]Block, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return nil, errors.Wrap(err, "convert markdown")
	}
	return Parse(schema, buf.String())
}
