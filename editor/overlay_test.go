package editor

import "testing"

func TestPlacePopup(t *testing.T) {
	cases := []struct {
		name                string
		ax, ay, rows, width int
		vw, vh              int
		want                PopupPlacement
		wantOK              bool
	}{
		{name: "below", ax: 2, ay: 0, rows: 3, width: 5, vw: 20, vh: 10,
			want: PopupPlacement{X: 2, Y: 1, Rows: 3, Below: true}, wantOK: true},
		{name: "flips above", ax: 2, ay: 8, rows: 3, width: 5, vw: 20, vh: 10,
			want: PopupPlacement{X: 2, Y: 5, Rows: 3, Below: false}, wantOK: true},
		{name: "shrinks above", ax: 0, ay: 6, rows: 10, width: 5, vw: 20, vh: 8,
			want: PopupPlacement{X: 0, Y: 0, Rows: 6, Below: false}, wantOK: true},
		{name: "clamps x", ax: 18, ay: 0, rows: 1, width: 5, vw: 20, vh: 10,
			want: PopupPlacement{X: 15, Y: 1, Rows: 1, Below: true}, wantOK: true},
		{name: "no viewport", rows: 1, width: 1, wantOK: false},
		{name: "no room", ax: 0, ay: 0, rows: 2, width: 3, vw: 10, vh: 1, wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PlacePopup(tc.ax, tc.ay, tc.rows, tc.width, tc.vw, tc.vh)
			if ok != tc.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("placement=%+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	bg := "abcdef\nghijkl\nmnopqr"
	cases := []struct {
		name string
		x, y int
		want string
	}{
		{name: "inside", x: 1, y: 1, want: "abcdef\ng12jkl\nm34pqr"},
		{name: "origin", x: 0, y: 0, want: "12cdef\n34ijkl\nmnopqr"},
		{name: "negative clamps", x: -3, y: -1, want: "12cdef\n34ijkl\nmnopqr"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlay(bg, "12\n34", tc.x, tc.y); got != tc.want {
				t.Fatalf("Overlay=%q, want %q", got, tc.want)
			}
		})
	}
	if got := Overlay("ab\n\ncd", "12", 1, 1); got != "ab \n 12\ncd " {
		t.Fatalf("Overlay over short lines=%q", got)
	}
	if got := Overlay(bg, "", 1, 1); got != bg {
		t.Fatalf("empty overlay changed the background: %q", got)
	}
}
