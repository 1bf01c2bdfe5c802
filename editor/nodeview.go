package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/clausekit/doc"
)

// NodeView renders one node and follows its attribute changes.
type NodeView interface {
	// Update is called with the fresh block after every content change.
	// Returning false discards the view and builds a new one.
	Update(b doc.Block) bool
	Render(selected bool) string
	Destroy()
}

// Mounter is implemented by node views that start work when created. The
// returned command is scheduled by the host program.
type Mounter interface {
	Mount() tea.Cmd
}

// MsgHandler receives messages addressed to the view's node.
type MsgHandler interface {
	HandleMsg(msg tea.Msg) tea.Cmd
}

// MouseHandler receives mouse events while its node is selected. x and y are
// relative to the node's top-left cell.
type MouseHandler interface {
	HandleMouse(msg tea.MouseMsg, x, y int) bool
}

// EscapeHandler lets a selected node view consume Escape.
type EscapeHandler interface {
	HandleEscape() bool
}

// NodeMsg is a message addressed to a node view by node ID.
type NodeMsg interface {
	NodeID() string
}

// NodeViewFactory builds a view for the node described by ctx.
type NodeViewFactory func(ctx *NodeViewContext) NodeView

// NodeViewContext is a node view's handle on its editor.
type NodeViewContext struct {
	e  *Editor
	id string
}

func (c *NodeViewContext) ID() string { return c.id }

func (c *NodeViewContext) Editor() *Editor { return c.e }

// Block returns the current state of the node.
func (c *NodeViewContext) Block() (doc.Block, bool) {
	_, b, ok := c.e.doc.BlockByID(c.id)
	return b, ok
}

// Selected reports whether the node is the active selection.
func (c *NodeViewContext) Selected() bool {
	id, ok := c.e.doc.SelectedNode()
	return ok && id == c.id
}

// UpdateAttrs persists new media attributes for the node in one transaction.
func (c *NodeViewContext) UpdateAttrs(fn func(*doc.MediaAttrs)) bool {
	return c.e.Transact("node-attrs", func(tx *doc.Tx) bool {
		return tx.SetMediaAttrs(c.id, fn)
	})
}

type mountedView struct {
	typ  doc.BlockType
	view NodeView
}

// NodeView returns the live view for the node with id.
func (e *Editor) NodeView(id string) (NodeView, bool) {
	mv, ok := e.nodeViews[id]
	if !ok {
		return nil, false
	}
	return mv.view, true
}

// syncNodeViews creates views for new nodes, updates existing ones and
// destroys views whose node is gone.
func (e *Editor) syncNodeViews() {
	if e.syncing {
		e.resync = true
		return
	}
	e.syncing = true
	defer func() { e.syncing = false }()

	for {
		e.resync = false
		e.syncOnce()
		if !e.resync {
			return
		}
	}
}

func (e *Editor) syncOnce() {
	seen := make(map[string]bool)
	for _, b := range e.doc.Blocks() {
		factory, ok := e.factories[b.Type]
		if !ok {
			continue
		}
		seen[b.ID] = true

		if mv, ok := e.nodeViews[b.ID]; ok && mv.typ == b.Type {
			if mv.view.Update(b) {
				continue
			}
			mv.view.Destroy()
		} else if ok {
			mv.view.Destroy()
		}

		view := factory(&NodeViewContext{e: e, id: b.ID})
		if view == nil {
			delete(e.nodeViews, b.ID)
			continue
		}
		e.nodeViews[b.ID] = &mountedView{typ: b.Type, view: view}
		if m, ok := view.(Mounter); ok {
			if cmd := m.Mount(); cmd != nil {
				e.pending = append(e.pending, cmd)
			}
		}
	}
	for id, mv := range e.nodeViews {
		if !seen[id] {
			mv.view.Destroy()
			delete(e.nodeViews, id)
		}
	}
}

// routeNodeMsg delivers msg to the view of the node it addresses.
func (e *Editor) routeNodeMsg(msg NodeMsg) tea.Cmd {
	mv, ok := e.nodeViews[msg.NodeID()]
	if !ok {
		log.Debugw("message for unknown node", "id", msg.NodeID())
		return nil
	}
	h, ok := mv.view.(MsgHandler)
	if !ok {
		return nil
	}
	return h.HandleMsg(msg)
}
