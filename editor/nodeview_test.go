package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/clausekit/doc"
)

type fakeView struct {
	ctx       *NodeViewContext
	updates   int
	destroyed bool
	msgs      int
}

func (v *fakeView) Update(doc.Block) bool { v.updates++; return true }

func (v *fakeView) Render(selected bool) string {
	if selected {
		return "[IMG]\n[IMG]"
	}
	return "[img]\n[img]"
}

func (v *fakeView) Destroy() { v.destroyed = true }

func (v *fakeView) Mount() tea.Cmd {
	id := v.ctx.ID()
	return func() tea.Msg { return fakeMsg{id: id} }
}

func (v *fakeView) HandleMsg(tea.Msg) tea.Cmd {
	v.msgs++
	v.ctx.UpdateAttrs(func(a *doc.MediaAttrs) { a.Width = 10 })
	return nil
}

type fakeMsg struct{ id string }

func (m fakeMsg) NodeID() string { return m.id }

type fakeViews struct {
	views []*fakeView
}

func (f *fakeViews) Name() string { return "fake" }

func (f *fakeViews) NodeViews() map[doc.BlockType]NodeViewFactory {
	return map[doc.BlockType]NodeViewFactory{
		doc.Image: func(ctx *NodeViewContext) NodeView {
			v := &fakeView{ctx: ctx}
			f.views = append(f.views, v)
			return v
		},
	}
}

func TestNodeViews_Lifecycle(t *testing.T) {
	ext := &fakeViews{}
	e := newTestEditor(t, Config{
		Blocks:     []doc.Block{doc.P(doc.T("a")), doc.Img(doc.MediaAttrs{Src: "x.png"})},
		Extensions: []Extension{ext},
	})
	if len(ext.views) != 1 {
		t.Fatalf("views=%d, want 1", len(ext.views))
	}
	v := ext.views[0]

	cmd := e.Init()
	if cmd == nil {
		t.Fatalf("Init should return the mount command")
	}
	msg := cmd()
	e.Update(msg)
	if v.msgs != 1 {
		t.Fatalf("msgs=%d, want 1", v.msgs)
	}
	_, b, _ := e.Document().BlockByID(v.ctx.ID())
	if b.Media.Width != 10 {
		t.Fatalf("width=%d, want 10", b.Media.Width)
	}
	if v.updates == 0 {
		t.Fatalf("view should be updated after the attribute change")
	}

	if v.ctx.Selected() {
		t.Fatalf("node should not be selected yet")
	}
	e.Document().SelectNode(1)
	if !v.ctx.Selected() {
		t.Fatalf("node should be selected")
	}
	if _, y, ok := e.NodeOrigin(v.ctx.ID()); !ok || y != 1 {
		t.Fatalf("node origin y=%d ok=%v, want 1 true", y, ok)
	}

	e.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if !v.destroyed {
		t.Fatalf("view should be destroyed with its node")
	}
	if _, ok := e.NodeView(v.ctx.ID()); ok {
		t.Fatalf("destroyed view still registered")
	}
}

func TestNodeViews_CoordsSpanRenderedHeight(t *testing.T) {
	e := newTestEditor(t, Config{
		Blocks:     []doc.Block{doc.Img(doc.MediaAttrs{Src: "x.png"}), doc.P(doc.T("after"))},
		Extensions: []Extension{&fakeViews{}},
	})
	if _, y, ok := e.CoordsAt(doc.Pos{Block: 1}); !ok || y != 2 {
		t.Fatalf("paragraph after a two-row node at y=%d ok=%v, want 2 true", y, ok)
	}
}
