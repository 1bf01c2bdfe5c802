package doc

import (
	"reflect"
	"strings"
	"testing"
)

func withoutIDs(blocks []Block) []Block {
	out := cloneBlocks(blocks)
	for i := range out {
		out[i].ID = ""
	}
	return out
}

func styled(text string, m Marks) Run {
	return Run{Text: text, Marks: m}
}

func TestSerialize_InlineStyleOnlyWhenPresent(t *testing.T) {
	schema := testSchema()
	blocks := []Block{
		P(styled("Hi", Marks{Bold: true, TextStyle: map[string]string{"fontSize": "20px", "color": "red"}}), T(" there")),
	}
	got, err := Serialize(schema, blocks, SerializeOptions{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := `<p><span style="color: red; font-size: 20px"><strong>Hi</strong></span> there</p>`
	if got != want {
		t.Fatalf("markup=%q, want %q", got, want)
	}

	plain, err := Serialize(schema, []Block{P(T("x"))}, SerializeOptions{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if strings.Contains(plain, "style") {
		t.Fatalf("unstyled markup should not carry a style attribute: %q", plain)
	}
}

func TestSerializeParse_RoundTrip(t *testing.T) {
	schema := testSchema()
	heading := H(2, T("Terms"))
	heading.Align = "center"
	item1, item2 := P(T("one")), P(T("two"))
	item1.List, item2.List = ListBullet, ListBullet
	quote := Block{Type: Blockquote, Runs: []Run{styled("quoted", Marks{Italic: true})}}
	code := Block{Type: CodeBlock, Runs: []Run{T("x < y")}}

	blocks := []Block{
		heading,
		P(
			styled("Bold red", Marks{Bold: true, TextStyle: map[string]string{"color": "red", "fontSize": "20px"}}),
			T(" plain "),
			styled("marked", Marks{Highlight: "#ffcc00", Underline: true, Strike: true}),
		),
		Img(MediaAttrs{Src: "logo.png", Alt: "Logo", Width: 320, Height: 240}),
		item1,
		item2,
		quote,
		code,
		Img(MediaAttrs{Src: "unsized.png"}),
	}

	markup, err := Serialize(schema, blocks, SerializeOptions{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	parsed, err := Parse(schema, markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, want := withoutIDs(parsed), withoutIDs(normalizeBlocks(cloneBlocks(blocks))); !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\nmarkup: %s\ngot:  %+v\nwant: %+v", markup, got, want)
	}
}

func TestParse_UnregisteredStyleDropped(t *testing.T) {
	schema := NewSchema(StyleAttr{Name: "fontSize", Property: "font-size"})
	blocks, err := Parse(schema, `<p><span style="color: red; font-size: 12px">x</span></p>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]string{"fontSize": "12px"}
	if got := blocks[0].Runs[0].Marks.TextStyle; !reflect.DeepEqual(got, want) {
		t.Fatalf("text style=%v, want %v", got, want)
	}
}

func TestParse_SanitizesScripts(t *testing.T) {
	blocks, err := Parse(testSchema(), `<p>safe<script>alert(1)</script></p>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, want := blocks[0].Text(), "safe"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestParse_EmptyParagraphKept(t *testing.T) {
	blocks, err := Parse(testSchema(), `<p>a</p><p></p><p>b</p>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := len(blocks); got != 3 {
		t.Fatalf("blocks=%d, want 3", got)
	}
}

func TestSerialize_Minify(t *testing.T) {
	blocks := []Block{P(T("a")), P(styled("b", Marks{Bold: true}))}
	got, err := Serialize(testSchema(), blocks, SerializeOptions{Minify: true})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !strings.Contains(got, "<strong>b</strong>") {
		t.Fatalf("minified markup lost marks: %q", got)
	}
	parsed, err := Parse(testSchema(), got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if gotLen := len(parsed); gotLen != 2 {
		t.Fatalf("blocks=%d, want 2", gotLen)
	}
}

func TestParseMarkdown(t *testing.T) {
	src := "# Title\n\nSome **bold** and ~~gone~~ text.\n\n- a\n- b\n\n![logo](logo.png)\n"
	blocks, err := ParseMarkdown(testSchema(), src)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	a, b := P(T("a")), P(T("b"))
	a.List, b.List = ListBullet, ListBullet
	want := []Block{
		H(1, T("Title")),
		P(T("Some "), styled("bold", Marks{Bold: true}), T(" and "), styled("gone", Marks{Strike: true}), T(" text.")),
		a,
		b,
		Img(MediaAttrs{Src: "logo.png", Alt: "logo"}),
	}
	if got := withoutIDs(blocks); !reflect.DeepEqual(got, withoutIDs(want)) {
		t.Fatalf("blocks=%+v\nwant %+v", got, withoutIDs(want))
	}
}

func TestParseStyle(t *testing.T) {
	got := ParseStyle("font-size: 20px; COLOR:red;font-family: 'Times New Roman', serif; /* c */ ; bogus")
	want := map[string]string{
		"font-size":   "20px",
		"color":       "red",
		"font-family": "'Times New Roman', serif",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("style=%v, want %v", got, want)
	}
}

func TestFormatStyle_StableOrder(t *testing.T) {
	got := FormatStyle(map[string]string{"b": "2", "a": "1", "c": "3", "z": ""}, "c")
	if want := "c: 3; a: 1; b: 2"; got != want {
		t.Fatalf("style=%q, want %q", got, want)
	}
}
