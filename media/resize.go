package media

import "math"

// Handle is one of the eight resize handles.
type Handle uint8

const (
	HandleNW Handle = iota
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

// Handles lists every handle clockwise from the top-left corner.
var Handles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

func (h Handle) String() string {
	switch h {
	case HandleNW:
		return "nw"
	case HandleN:
		return "n"
	case HandleNE:
		return "ne"
	case HandleE:
		return "e"
	case HandleSE:
		return "se"
	case HandleS:
		return "s"
	case HandleSW:
		return "sw"
	case HandleW:
		return "w"
	default:
		return "unknown"
	}
}

func (h Handle) IsCorner() bool {
	return h == HandleNW || h == HandleNE || h == HandleSE || h == HandleSW
}

// signs returns how pointer motion on each axis grows the box. Zero means the
// axis is not driven by the handle.
func (h Handle) signs() (sx, sy int) {
	switch h {
	case HandleNW:
		return -1, -1
	case HandleN:
		return 0, -1
	case HandleNE:
		return 1, -1
	case HandleE:
		return 1, 0
	case HandleSE:
		return 1, 1
	case HandleS:
		return 0, 1
	case HandleSW:
		return -1, 1
	case HandleW:
		return -1, 0
	}
	return 0, 0
}

// Resize computes the size of a box dragged by h from start by (dx, dy)
// pixels. Edge handles change one axis. Corner handles keep ratio, taking
// the axis with the larger motion as the driver. Both axes are floored at
// MinSize.
func Resize(h Handle, start Size, ratio float64, dx, dy int) Size {
	sx, sy := h.signs()
	if !h.IsCorner() {
		out := start
		if sx != 0 {
			out.Width = max(start.Width+sx*dx, MinSize)
		}
		if sy != 0 {
			out.Height = max(start.Height+sy*dy, MinSize)
		}
		return out
	}

	if ratio <= 0 {
		ratio = start.ratio()
	}
	w := float64(start.Width + sx*dx)
	ht := float64(start.Height + sy*dy)
	if math.Abs(float64(dx)) >= math.Abs(float64(dy))*ratio {
		w = math.Max(w, MinSize)
		ht = math.Round(w / ratio)
		if ht < MinSize {
			ht = MinSize
			w = ht * ratio
		}
	} else {
		ht = math.Max(ht, MinSize)
		w = math.Round(ht * ratio)
		if w < MinSize {
			w = MinSize
			ht = w / ratio
		}
	}
	return Size{Width: int(math.Round(w)), Height: int(math.Round(ht))}
}

// drag is an in-progress resize.
type drag struct {
	handle Handle
	startX int
	startY int
	start  Size
	ratio  float64
	cur    Size
}
