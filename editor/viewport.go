package editor

import "github.com/iw2rmb/clausekit/doc"

// Viewport is the visible window over the laid-out document, in cells.
type Viewport struct {
	Width   int
	Height  int
	YOffset int
}

// ViewportReason tells subscribers what moved the viewport.
type ViewportReason uint8

const (
	ViewportScroll ViewportReason = iota
	ViewportResize
)

type ViewportEvent struct {
	Reason   ViewportReason
	Viewport Viewport
}

type viewportSubscriber struct {
	id int
	fn func(ViewportEvent)
}

func (e *Editor) Viewport() Viewport { return e.viewport }

// OnViewport subscribes fn to scroll and resize events.
func (e *Editor) OnViewport(fn func(ViewportEvent)) (unsubscribe func()) {
	e.nextSub++
	id := e.nextSub
	e.viewportSubs = append(e.viewportSubs, viewportSubscriber{id: id, fn: fn})
	return func() {
		for i, s := range e.viewportSubs {
			if s.id == id {
				e.viewportSubs = append(e.viewportSubs[:i:i], e.viewportSubs[i+1:]...)
				return
			}
		}
	}
}

func (e *Editor) emitViewport(reason ViewportReason) {
	subs := append([]viewportSubscriber(nil), e.viewportSubs...)
	ev := ViewportEvent{Reason: reason, Viewport: e.viewport}
	for _, s := range subs {
		s.fn(ev)
	}
}

// SetSize resizes the viewport.
func (e *Editor) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if e.viewport.Width == width && e.viewport.Height == height {
		return
	}
	e.viewport.Width = width
	e.viewport.Height = height
	e.clampYOffset(e.buildLayout())
	e.emitViewport(ViewportResize)
}

// Scroll moves the viewport by dy rows.
func (e *Editor) Scroll(dy int) {
	e.ScrollTo(e.viewport.YOffset + dy)
}

func (e *Editor) ScrollTo(y int) {
	prev := e.viewport.YOffset
	e.viewport.YOffset = y
	e.clampYOffset(e.buildLayout())
	if e.viewport.YOffset != prev {
		e.emitViewport(ViewportScroll)
	}
}

func (e *Editor) clampYOffset(l layout) {
	maxY := len(l.rows) - e.viewport.Height
	if maxY < 0 {
		maxY = 0
	}
	e.viewport.YOffset = clampInt(e.viewport.YOffset, 0, maxY)
}

// followCursor scrolls just enough to keep the selection head visible.
func (e *Editor) followCursor() {
	if e.viewport.Height <= 0 {
		return
	}
	l := e.buildLayout()
	row, _, ok := l.locate(e.head())
	if !ok {
		return
	}
	prev := e.viewport.YOffset
	switch {
	case row < e.viewport.YOffset:
		e.viewport.YOffset = row
	case row >= e.viewport.YOffset+e.viewport.Height:
		e.viewport.YOffset = row - e.viewport.Height + 1
	}
	e.clampYOffset(l)
	if e.viewport.YOffset != prev {
		e.emitViewport(ViewportScroll)
	}
}

// CoordsAt maps a document position to viewport cell coordinates. ok is false
// when the viewport has no size or p is scrolled out of view.
func (e *Editor) CoordsAt(p doc.Pos) (x, y int, ok bool) {
	if e.viewport.Width <= 0 || e.viewport.Height <= 0 {
		return 0, 0, false
	}
	row, x, ok := e.buildLayout().locate(p)
	if !ok {
		return 0, 0, false
	}
	y = row - e.viewport.YOffset
	if y < 0 || y >= e.viewport.Height {
		return 0, 0, false
	}
	return x, y, true
}

// PosAt maps viewport cell coordinates to the closest document position.
func (e *Editor) PosAt(x, y int) (doc.Pos, bool) {
	if e.viewport.Width <= 0 || e.viewport.Height <= 0 || x < 0 || y < 0 || y >= e.viewport.Height {
		return doc.Pos{}, false
	}
	l := e.buildLayout()
	row := y + e.viewport.YOffset
	if row >= len(l.rows) {
		return doc.Pos{}, false
	}
	return l.posAt(row, x)
}

// NodeOrigin returns the viewport coordinates of the top-left cell of the node
// with id.
func (e *Editor) NodeOrigin(id string) (x, y int, ok bool) {
	i, _, found := e.doc.BlockByID(id)
	if !found {
		return 0, 0, false
	}
	row, x, ok := e.buildLayout().nodeOrigin(i)
	if !ok {
		return 0, 0, false
	}
	return x, row - e.viewport.YOffset, true
}
