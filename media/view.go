package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/clausekit/doc"
	"github.com/iw2rmb/clausekit/editor"
)

// LoadTimeout bounds one image measurement.
const LoadTimeout = 10 * time.Second

// LoadedMsg carries the natural size of a node's image.
type LoadedMsg struct {
	ID   string
	Size Size
}

func (m LoadedMsg) NodeID() string { return m.ID }

// LoadErrorMsg reports a failed measurement.
type LoadErrorMsg struct {
	ID  string
	Err error
}

func (m LoadErrorMsg) NodeID() string { return m.ID }

type loadState uint8

const (
	loadIdle loadState = iota
	loadPending
	loadDone
	loadFailed
)

// RenderState is what the view shows for its current state.
type RenderState struct {
	Width, Height int
	// PointerEvents is false while dragging.
	PointerEvents bool
	// Transition is true when size changes may animate.
	Transition bool
	Handles    []Handle
	Dragging   bool
}

// View is the node view of one image node.
type View struct {
	ctx    *editor.NodeViewContext
	loader Loader
	styles Styles

	attrs  doc.MediaAttrs
	load   loadState
	cancel context.CancelFunc

	drag     drag
	dragging bool
}

// NewView builds a view for the node behind ctx. A nil loader skips the
// initial measurement.
func NewView(ctx *editor.NodeViewContext, loader Loader, styles Styles) *View {
	v := &View{ctx: ctx, loader: loader, styles: styles}
	if b, ok := ctx.Block(); ok && b.Media != nil {
		v.attrs = *b.Media
	}
	return v
}

// Mount starts the initial measurement when the node has no size.
func (v *View) Mount() tea.Cmd {
	if v.attrs.HasSize() || v.loader == nil || v.attrs.Src == "" || v.load != loadIdle {
		return nil
	}
	v.load = loadPending
	ctx, cancel := context.WithTimeout(context.Background(), LoadTimeout)
	v.cancel = cancel
	id, src, loader := v.ctx.ID(), v.attrs.Src, v.loader
	return func() tea.Msg {
		defer cancel()
		size, err := loader.Load(ctx, src)
		if err != nil {
			return LoadErrorMsg{ID: id, Err: err}
		}
		return LoadedMsg{ID: id, Size: size}
	}
}

func (v *View) HandleMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadedMsg:
		v.HandleLoad(msg.Size)
	case LoadErrorMsg:
		v.HandleLoadError(msg.Err)
	}
	return nil
}

// HandleLoad persists the initial size from the natural image size. It does
// nothing once the node has a size.
func (v *View) HandleLoad(natural Size) bool {
	if v.load == loadDone {
		return false
	}
	v.load = loadDone
	if v.attrs.HasSize() || !natural.valid() {
		return false
	}
	s := InitialSize(natural)
	log.Debugw("initial size", "id", v.ctx.ID(), "natural", natural, "size", s)
	return v.ctx.UpdateAttrs(func(a *doc.MediaAttrs) {
		if a.HasSize() {
			return
		}
		a.Width, a.Height = s.Width, s.Height
	})
}

// HandleLoadError leaves the size unset so the placeholder size is used.
func (v *View) HandleLoadError(err error) {
	if v.load == loadDone {
		return
	}
	v.load = loadFailed
	log.Debugw("image load failed", "id", v.ctx.ID(), "src", v.attrs.Src, "err", err)
}

// Size is the rendered size: the drag size while dragging, the persisted size
// otherwise, or the placeholder size when none is set.
func (v *View) Size() Size {
	if v.dragging {
		return v.drag.cur
	}
	if v.attrs.HasSize() {
		return Size{Width: v.attrs.Width, Height: v.attrs.Height}
	}
	return Size{Width: DefaultWidth, Height: DefaultHeight}
}

func (v *View) Dragging() bool { return v.dragging }

// PointerDown starts a drag on h at pixel coordinates (x, y).
func (v *View) PointerDown(h Handle, x, y int) {
	start := v.Size()
	v.drag = drag{handle: h, startX: x, startY: y, start: start, ratio: start.ratio(), cur: start}
	v.dragging = true
}

// PointerMove resizes from the drag start. It returns the new size.
func (v *View) PointerMove(x, y int) Size {
	if !v.dragging {
		return v.Size()
	}
	v.drag.cur = Resize(v.drag.handle, v.drag.start, v.drag.ratio, x-v.drag.startX, y-v.drag.startY)
	return v.drag.cur
}

// PointerUp ends the drag and persists the last computed size.
func (v *View) PointerUp() bool {
	if !v.dragging {
		return false
	}
	s := v.drag.cur
	v.dragging = false
	v.drag = drag{}
	if v.attrs.Width == s.Width && v.attrs.Height == s.Height {
		return false
	}
	return v.ctx.UpdateAttrs(func(a *doc.MediaAttrs) {
		a.Width, a.Height = s.Width, s.Height
	})
}

// Cancel drops an in-progress drag without persisting it.
func (v *View) Cancel() bool {
	if !v.dragging {
		return false
	}
	v.dragging = false
	v.drag = drag{}
	return true
}

func (v *View) HandleEscape() bool { return v.Cancel() }

// HandleMouse maps cell coordinates relative to the box onto the pointer
// protocol.
func (v *View) HandleMouse(msg tea.MouseMsg, x, y int) bool {
	px, py := x*PxPerCol, y*PxPerRow
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return false
		}
		h, ok := v.handleAt(x, y)
		if !ok {
			return false
		}
		v.PointerDown(h, px, py)
		return true
	case tea.MouseActionMotion:
		if !v.dragging {
			return false
		}
		v.PointerMove(px, py)
		return true
	case tea.MouseActionRelease:
		if !v.dragging {
			return false
		}
		v.PointerUp()
		return true
	}
	return false
}

// boxCells is the drawn box size: the image size in cells, narrowed to the
// viewport.
func (v *View) boxCells() (cols, rows int) {
	cols, rows = cells(v.Size())
	if vw := v.ctx.Editor().Viewport().Width; vw > 0 {
		cols = max(min(cols, vw), 3)
	}
	return cols, rows
}

func (v *View) handleAt(x, y int) (Handle, bool) {
	cols, rows := v.boxCells()
	for _, h := range Handles {
		hx, hy := handleCell(h, cols, rows)
		if hx == x && hy == y {
			return h, true
		}
	}
	return 0, false
}

func handleCell(h Handle, cols, rows int) (x, y int) {
	sx, sy := h.signs()
	switch sx {
	case -1:
		x = 0
	case 0:
		x = cols / 2
	case 1:
		x = cols - 1
	}
	switch sy {
	case -1:
		y = 0
	case 0:
		y = rows / 2
	case 1:
		y = rows - 1
	}
	return x, y
}

func (v *View) RenderState() RenderState {
	s := v.Size()
	rs := RenderState{
		Width:         s.Width,
		Height:        s.Height,
		PointerEvents: !v.dragging,
		Transition:    !v.dragging,
		Dragging:      v.dragging,
	}
	if v.ctx.Selected() {
		rs.Handles = Handles
	}
	return rs
}

func (v *View) Update(b doc.Block) bool {
	if b.Type != doc.Image {
		return false
	}
	if b.Media != nil {
		v.attrs = *b.Media
	}
	return true
}

// Render draws the image as a box scaled to cells, with handles when the node
// is selected.
func (v *View) Render(selected bool) string {
	cols, rows := v.boxCells()

	grid := make([][]string, rows)
	for y := range grid {
		grid[y] = make([]string, cols)
		for x := range grid[y] {
			grid[y][x] = boxRune(x, y, cols, rows)
		}
	}
	if selected || v.dragging {
		for _, h := range Handles {
			x, y := handleCell(h, cols, rows)
			grid[y][x] = "■"
		}
	}

	lines := make([]string, rows)
	for y := range grid {
		lines[y] = strings.Join(grid[y], "")
	}
	if cols > 2 && rows > 2 {
		mid := rows / 2
		placeLabel(lines, mid-1, cols, v.label())
		placeLabel(lines, mid, cols, v.status())
	}

	st := v.styles.Box
	switch {
	case v.dragging:
		st = v.styles.Dragging
	case selected:
		st = v.styles.Selected
	}
	return st.Render(strings.Join(lines, "\n"))
}

func boxRune(x, y, cols, rows int) string {
	top, bottom := y == 0, y == rows-1
	left, right := x == 0, x == cols-1
	switch {
	case top && left:
		return "┌"
	case top && right:
		return "┐"
	case bottom && left:
		return "└"
	case bottom && right:
		return "┘"
	case top || bottom:
		return "─"
	case left || right:
		return "│"
	}
	return " "
}

// placeLabel centers s between the side borders of line y.
func placeLabel(lines []string, y, cols int, s string) {
	if y <= 0 || y >= len(lines)-1 || s == "" {
		return
	}
	inner := cols - 2
	s = truncate(s, inner)
	w := lipgloss.Width(s)
	pad := (inner - w) / 2
	row := []rune(lines[y])
	body := strings.Repeat(" ", pad) + s + strings.Repeat(" ", inner-w-pad)
	lines[y] = string(row[0]) + body + string(row[len(row)-1])
}

func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > w {
		r = r[:len(r)-1]
	}
	return string(r)
}

func (v *View) label() string {
	if v.attrs.Alt != "" {
		return v.attrs.Alt
	}
	if v.attrs.Src != "" {
		return path.Base(v.attrs.Src)
	}
	return "image"
}

func (v *View) status() string {
	switch {
	case v.load == loadPending && !v.attrs.HasSize():
		return "loading"
	case v.load == loadFailed && !v.attrs.HasSize():
		return "unavailable"
	}
	s := v.Size()
	return fmt.Sprintf("%d×%d", s.Width, s.Height)
}

// Destroy stops a pending measurement.
func (v *View) Destroy() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.dragging = false
}
