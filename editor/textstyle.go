package editor

import (
	"strings"

	"github.com/iw2rmb/clausekit/doc"
)

// Attribute names of the shared inline-style mark registered by the editor.
const (
	AttrColor      = "color"
	AttrFontFamily = "fontFamily"
)

// TextColor registers the color attribute and its commands.
type TextColor struct{}

func (TextColor) Name() string { return "color" }

func (TextColor) StyleAttrs() []doc.StyleAttr {
	return []doc.StyleAttr{{
		Name:     AttrColor,
		Property: "color",
		Parse: func(v string) (string, bool) {
			v = strings.ToLower(strings.TrimSpace(v))
			return v, v != ""
		},
	}}
}

func (TextColor) Commands() map[string]Command {
	return map[string]Command{
		CmdSetColor:   SetStyleAttrCommand(CmdSetColor, AttrColor),
		CmdUnsetColor: UnsetStyleAttrCommand(CmdUnsetColor, AttrColor),
	}
}

// FontFamily registers the font family attribute and its commands.
type FontFamily struct{}

func (FontFamily) Name() string { return "fontFamily" }

func (FontFamily) StyleAttrs() []doc.StyleAttr {
	return []doc.StyleAttr{{
		Name:     AttrFontFamily,
		Property: "font-family",
	}}
}

func (FontFamily) Commands() map[string]Command {
	return map[string]Command{
		CmdSetFontFamily:   SetStyleAttrCommand(CmdSetFontFamily, AttrFontFamily),
		CmdUnsetFontFamily: UnsetStyleAttrCommand(CmdUnsetFontFamily, AttrFontFamily),
	}
}
