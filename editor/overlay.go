package editor

import (
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// PopupPlacement is where a popup of Rows rows lands relative to an anchor
// cell.
type PopupPlacement struct {
	X, Y  int
	Rows  int
	Below bool
}

// PlacePopup places a popup of up to rows rows and width cells under the
// anchor, flipping above it when the space below is short. ok is false when
// nothing fits.
func PlacePopup(anchorX, anchorY, rows, width, viewportWidth, viewportHeight int) (PopupPlacement, bool) {
	if viewportWidth <= 0 || viewportHeight <= 0 || rows <= 0 || width <= 0 {
		return PopupPlacement{}, false
	}

	belowAvail := max(viewportHeight-(anchorY+1), 0)
	aboveAvail := max(anchorY, 0)
	showBelow := true
	rowCount := rows
	if rowCount > belowAvail {
		if aboveAvail >= rowCount {
			showBelow = false
		} else if aboveAvail > belowAvail {
			showBelow = false
			rowCount = aboveAvail
		} else {
			rowCount = belowAvail
		}
	}
	if rowCount <= 0 {
		return PopupPlacement{}, false
	}

	y := anchorY + 1
	if !showBelow {
		y = anchorY - rowCount
	}
	y = clampInt(y, 0, max(viewportHeight-rowCount, 0))

	width = min(width, viewportWidth)
	x := clampInt(anchorX, 0, max(viewportWidth-width, 0))
	return PopupPlacement{X: x, Y: y, Rows: rowCount, Below: showBelow}, true
}

// Overlay draws fg over bg with its top-left cell at (x, y). Short lines of bg
// are padded so fg lands on the requested column.
func Overlay(bg, fg string, x, y int) string {
	if fg == "" {
		return bg
	}
	x, y = max(x, 0), max(y, 0)
	bg = lipgloss.PlaceHorizontal(max(lipgloss.Width(bg), x+lipgloss.Width(fg)), lipgloss.Left, bg)
	return overlay.Composite(fg, bg, overlay.Left, overlay.Top, x, y)
}
