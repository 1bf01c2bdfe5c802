// Package fontsize adds a font size attribute to the shared inline-style mark.
package fontsize

import (
	"fmt"
	"strconv"
	"strings"
)

// AttrName is the inline-style attribute the extension registers.
const AttrName = "fontSize"

// DefaultSize is the size an unset or unreadable value steps from.
const DefaultSize = 16

// Ladder is the ascending list of sizes, in px, that increase and decrease
// move along.
var Ladder = []int{8, 9, 10, 11, 12, 14, 16, 18, 20, 22, 24, 28, 36, 48}

// Px formats n as a px length.
func Px(n int) string {
	return fmt.Sprintf("%dpx", n)
}

// ParsePx reads a px length such as "16px", "16" or "12.5px".
func ParsePx(v string) (float64, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

// Step returns the ladder entry adjacent to current in direction dir (negative
// decreases). It clamps at the ends of the ladder. A value absent from the
// ladder moves to the nearest entry at or below it when decreasing and at or
// above it when increasing.
func Step(current string, dir int) string {
	size, ok := ParsePx(current)
	if !ok {
		size = DefaultSize
	}
	return Px(stepPx(size, dir))
}

func stepPx(size float64, dir int) int {
	last := len(Ladder) - 1
	for i, v := range Ladder {
		if float64(v) != size {
			continue
		}
		switch {
		case dir < 0:
			return Ladder[max(i-1, 0)]
		case dir > 0:
			return Ladder[min(i+1, last)]
		}
		return v
	}

	if dir < 0 {
		for i := last; i >= 0; i-- {
			if float64(Ladder[i]) <= size {
				return Ladder[i]
			}
		}
		return Ladder[0]
	}
	for _, v := range Ladder {
		if float64(v) >= size {
			return v
		}
	}
	return Ladder[last]
}
