// Package media renders image nodes as resizable boxes.
//
// A View measures its image once when the node has no size yet and lets the
// user drag one of eight handles to resize it. Sizes are kept in CSS pixels
// and mapped onto terminal cells for display.
package media

import "math"

const (
	// MaxInitialWidth caps the width persisted by the first measurement.
	MaxInitialWidth = 600
	// MinSize is the floor for both axes while resizing.
	MinSize = 50

	// Placeholder size used while an image has no persisted size.
	DefaultWidth  = 300
	DefaultHeight = 150

	// Pixels per terminal cell.
	PxPerCol = 8
	PxPerRow = 16
)

// Size is a pixel size.
type Size struct {
	Width, Height int
}

func (s Size) valid() bool { return s.Width > 0 && s.Height > 0 }

func (s Size) ratio() float64 {
	if !s.valid() {
		return 1
	}
	return float64(s.Width) / float64(s.Height)
}

// InitialSize scales a natural image size down to MaxInitialWidth, keeping its
// aspect ratio.
func InitialSize(natural Size) Size {
	if natural.Width <= MaxInitialWidth {
		return natural
	}
	h := int(math.Round(float64(natural.Height) * MaxInitialWidth / float64(natural.Width)))
	return Size{Width: MaxInitialWidth, Height: max(h, 1)}
}

// cells maps a pixel size onto terminal cells.
func cells(s Size) (cols, rows int) {
	cols = int(math.Round(float64(s.Width) / PxPerCol))
	rows = int(math.Round(float64(s.Height) / PxPerRow))
	return max(cols, 3), max(rows, 3)
}
