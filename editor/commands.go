package editor

import (
	"strings"

	"github.com/iw2rmb/clausekit/doc"
)

// Built-in command names.
const (
	CmdToggleBold        = "toggleBold"
	CmdToggleItalic      = "toggleItalic"
	CmdToggleUnderline   = "toggleUnderline"
	CmdToggleStrike      = "toggleStrike"
	CmdToggleHeading     = "toggleHeading"
	CmdSetParagraph      = "setParagraph"
	CmdToggleBulletList  = "toggleBulletList"
	CmdToggleOrderedList = "toggleOrderedList"
	CmdToggleBlockquote  = "toggleBlockquote"
	CmdToggleCodeBlock   = "toggleCodeBlock"
	CmdSetTextAlign      = "setTextAlign"
	CmdUnsetTextAlign    = "unsetTextAlign"
	CmdSetColor          = "setColor"
	CmdUnsetColor        = "unsetColor"
	CmdSetHighlight      = "setHighlight"
	CmdUnsetHighlight    = "unsetHighlight"
	CmdSetFontFamily     = "setFontFamily"
	CmdUnsetFontFamily   = "unsetFontFamily"
	CmdUnsetAllMarks     = "unsetAllMarks"
	CmdClearNodes        = "clearNodes"
	CmdInsertImage       = "insertImage"
	CmdUndo              = "undo"
	CmdRedo              = "redo"
)

// StringArg returns args[i] when it is a string.
func StringArg(args []any, i int) (string, bool) {
	if i < 0 || i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

// IntArg returns args[i] when it is an int.
func IntArg(args []any, i int) (int, bool) {
	if i < 0 || i >= len(args) {
		return 0, false
	}
	n, ok := args[i].(int)
	return n, ok
}

type coreExtension struct{}

func (coreExtension) Name() string { return "core" }

func (coreExtension) Commands() map[string]Command {
	return map[string]Command{
		CmdToggleBold:      toggleMark(CmdToggleBold, doc.MarkBold),
		CmdToggleItalic:    toggleMark(CmdToggleItalic, doc.MarkItalic),
		CmdToggleUnderline: toggleMark(CmdToggleUnderline, doc.MarkUnderline),
		CmdToggleStrike:    toggleMark(CmdToggleStrike, doc.MarkStrike),

		CmdToggleHeading: func(e *Editor, args ...any) bool {
			level, ok := IntArg(args, 0)
			if !ok || level < 1 || level > doc.MaxHeadingLevel {
				return false
			}
			return e.Transact(CmdToggleHeading, func(tx *doc.Tx) bool {
				return tx.ToggleBlockType(tx.Selection(), doc.Heading, level)
			})
		},
		CmdSetParagraph: func(e *Editor, _ ...any) bool {
			return e.Transact(CmdSetParagraph, func(tx *doc.Tx) bool {
				return tx.SetBlockType(tx.Selection(), doc.Paragraph, 0)
			})
		},
		CmdToggleBlockquote: toggleBlock(CmdToggleBlockquote, doc.Blockquote),
		CmdToggleCodeBlock:  toggleBlock(CmdToggleCodeBlock, doc.CodeBlock),

		CmdToggleBulletList:  toggleList(CmdToggleBulletList, doc.ListBullet),
		CmdToggleOrderedList: toggleList(CmdToggleOrderedList, doc.ListOrdered),

		CmdSetTextAlign: func(e *Editor, args ...any) bool {
			align, _ := StringArg(args, 0)
			align = strings.ToLower(strings.TrimSpace(align))
			if align == "" {
				return false
			}
			return e.Transact(CmdSetTextAlign, func(tx *doc.Tx) bool {
				return tx.SetAlign(tx.Selection(), align)
			})
		},
		CmdUnsetTextAlign: func(e *Editor, _ ...any) bool {
			return e.Transact(CmdUnsetTextAlign, func(tx *doc.Tx) bool {
				return tx.SetAlign(tx.Selection(), "")
			})
		},

		CmdSetHighlight: func(e *Editor, args ...any) bool {
			color, ok := StringArg(args, 0)
			if !ok || strings.TrimSpace(color) == "" {
				color = doc.DefaultHighlight
			}
			return e.Transact(CmdSetHighlight, func(tx *doc.Tx) bool {
				return tx.SetHighlight(tx.Selection(), strings.TrimSpace(color))
			})
		},
		CmdUnsetHighlight: func(e *Editor, _ ...any) bool {
			return e.Transact(CmdUnsetHighlight, func(tx *doc.Tx) bool {
				return tx.SetHighlight(tx.Selection(), "")
			})
		},

		CmdUnsetAllMarks: func(e *Editor, _ ...any) bool {
			return e.Transact(CmdUnsetAllMarks, func(tx *doc.Tx) bool {
				return tx.UnsetAllMarks(tx.Selection())
			})
		},
		CmdClearNodes: func(e *Editor, _ ...any) bool {
			return e.Transact(CmdClearNodes, func(tx *doc.Tx) bool {
				return tx.ClearNodes(tx.Selection())
			})
		},

		CmdInsertImage: func(e *Editor, args ...any) bool {
			src, ok := StringArg(args, 0)
			if !ok || strings.TrimSpace(src) == "" {
				return false
			}
			alt, _ := StringArg(args, 1)
			return e.Transact(CmdInsertImage, func(tx *doc.Tx) bool {
				return tx.InsertImage(doc.MediaAttrs{Src: strings.TrimSpace(src), Alt: alt})
			})
		},

		CmdUndo: func(e *Editor, _ ...any) bool { return e.doc.Undo() },
		CmdRedo: func(e *Editor, _ ...any) bool { return e.doc.Redo() },
	}
}

func toggleMark(name string, mt doc.MarkType) Command {
	return func(e *Editor, _ ...any) bool {
		return e.Transact(name, func(tx *doc.Tx) bool {
			return tx.ToggleMark(tx.Selection(), mt)
		})
	}
}

func toggleBlock(name string, t doc.BlockType) Command {
	return func(e *Editor, _ ...any) bool {
		return e.Transact(name, func(tx *doc.Tx) bool {
			return tx.ToggleBlockType(tx.Selection(), t, 0)
		})
	}
}

func toggleList(name string, l doc.ListType) Command {
	return func(e *Editor, _ ...any) bool {
		return e.Transact(name, func(tx *doc.Tx) bool {
			return tx.ToggleList(tx.Selection(), l)
		})
	}
}

// SetStyleAttrCommand returns a command that sets the named inline-style
// attribute over the selection from its first string argument.
func SetStyleAttrCommand(label, attr string) Command {
	return func(e *Editor, args ...any) bool {
		v, ok := StringArg(args, 0)
		if !ok || strings.TrimSpace(v) == "" {
			return false
		}
		return e.Transact(label, func(tx *doc.Tx) bool {
			return tx.SetStyleAttr(tx.Selection(), attr, v)
		})
	}
}

// UnsetStyleAttrCommand returns a command that removes the named inline-style
// attribute from the selection.
func UnsetStyleAttrCommand(label, attr string) Command {
	return func(e *Editor, _ ...any) bool {
		return e.Transact(label, func(tx *doc.Tx) bool {
			return tx.RemoveStyleAttr(tx.Selection(), attr)
		})
	}
}

func builtinExtensions() []Extension {
	return []Extension{coreExtension{}, TextColor{}, FontFamily{}}
}
