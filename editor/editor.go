package editor

import (
	tea "github.com/charmbracelet/bubbletea"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"

	"github.com/iw2rmb/clausekit/doc"
)

var log = logging.Logger("clausekit/editor")

// Editor is one editing surface: a document, its viewport and the extensions
// bound to it.
type Editor struct {
	cfg    Config
	schema *doc.Schema
	doc    *doc.Document

	exts        []Extension
	commands    map[string]Command
	factories   map[doc.BlockType]NodeViewFactory
	nodeViews   map[string]*mountedView
	keyHandlers []KeyHandler

	viewport     Viewport
	viewportSubs []viewportSubscriber
	nextSub      int

	// headAtFrom records that the selection head sits at its From end, so
	// shift-extension keeps growing in the direction the user started.
	headAtFrom bool

	syncing bool
	resync  bool

	focused bool
	pending []tea.Cmd
}

// New builds an editor, registers built-in and configured extensions and
// parses the initial content.
func New(cfg Config) (*Editor, error) {
	cfg = normalizeConfig(cfg)
	e := &Editor{
		cfg:       cfg,
		schema:    doc.NewSchema(),
		commands:  make(map[string]Command),
		factories: make(map[doc.BlockType]NodeViewFactory),
		nodeViews: make(map[string]*mountedView),
		viewport:  Viewport{Width: cfg.Width, Height: cfg.Height},
		focused:   true,
	}

	exts := append(builtinExtensions(), cfg.Extensions...)
	for _, ext := range exts {
		e.register(ext)
	}

	blocks := cfg.Blocks
	var err error
	switch {
	case len(blocks) > 0:
	case cfg.Markup != "":
		blocks, err = doc.Parse(e.schema, cfg.Markup)
	case cfg.Markdown != "":
		blocks, err = doc.ParseMarkdown(e.schema, cfg.Markdown)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load initial content")
	}
	e.doc = doc.New(e.schema, blocks, doc.Options{HistoryLimit: cfg.HistoryLimit})
	e.doc.Subscribe(e.onDocEvent)

	for _, ext := range e.exts {
		if b, ok := ext.(Binder); ok {
			b.Bind(e)
		}
	}
	e.syncNodeViews()
	return e, nil
}

func (e *Editor) register(ext Extension) {
	if ext == nil {
		return
	}
	e.exts = append(e.exts, ext)
	if p, ok := ext.(StyleAttrProvider); ok {
		for _, a := range p.StyleAttrs() {
			e.schema.Register(a)
		}
	}
	if p, ok := ext.(CommandProvider); ok {
		for name, cmd := range p.Commands() {
			e.commands[name] = cmd
		}
	}
	if p, ok := ext.(NodeViewProvider); ok {
		for t, f := range p.NodeViews() {
			e.factories[t] = f
		}
	}
	if h, ok := ext.(KeyHandler); ok {
		e.keyHandlers = append(e.keyHandlers, h)
	}
	log.Debugw("extension registered", "name", ext.Name())
}

func (e *Editor) Document() *doc.Document { return e.doc }

func (e *Editor) Schema() *doc.Schema { return e.schema }

func (e *Editor) Config() Config { return e.cfg }

// Extension returns the first bound extension called name.
func (e *Editor) Extension(name string) (Extension, bool) {
	for _, ext := range e.exts {
		if ext.Name() == name {
			return ext, true
		}
	}
	return nil, false
}

func (e *Editor) Selection() doc.Range { return e.doc.Selection() }

func (e *Editor) SetSelection(r doc.Range) bool {
	e.headAtFrom = false
	return e.doc.SetSelection(r)
}

// Transact runs fn in one document transaction and returns fn's result.
func (e *Editor) Transact(label string, fn func(tx *doc.Tx) bool) bool {
	if e.cfg.ReadOnly {
		return false
	}
	ok := false
	e.doc.Transact(label, func(tx *doc.Tx) { ok = fn(tx) })
	return ok
}

// Run executes the named command.
func (e *Editor) Run(name string, args ...any) bool {
	cmd, ok := e.commands[name]
	if !ok {
		log.Debugw("unknown command", "name", name)
		return false
	}
	if e.cfg.ReadOnly {
		return false
	}
	return cmd(e, args...)
}

// HasCommand reports whether a command called name is registered.
func (e *Editor) HasCommand(name string) bool {
	_, ok := e.commands[name]
	return ok
}

// Serialize renders the document as markup.
func (e *Editor) Serialize(opt doc.SerializeOptions) (string, error) {
	return e.doc.Serialize(opt)
}

func (e *Editor) Focus() { e.focused = true }

func (e *Editor) Blur() { e.focused = false }

func (e *Editor) Focused() bool { return e.focused }

func (e *Editor) onDocEvent(ev doc.Event) {
	if ev.Kind == doc.EventContent {
		e.syncNodeViews()
	}
	e.followCursor()
}

func (e *Editor) takePending() tea.Cmd {
	if len(e.pending) == 0 {
		return nil
	}
	cmds := e.pending
	e.pending = nil
	return tea.Batch(cmds...)
}
