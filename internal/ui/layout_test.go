package ui

import "testing"

func TestCentered(t *testing.T) {
	tests := []struct {
		width, height, w, h int
		want                rect
	}{
		{100, 40, 74, 20, rect{13, 10, 74, 20}},
		{101, 41, 74, 20, rect{13, 10, 74, 20}},
		{50, 10, 74, 20, rect{0, 0, 74, 20}},
	}

	for _, tt := range tests {
		if got := centered(tt.width, tt.height, tt.w, tt.h); got != tt.want {
			t.Errorf("centered(%d, %d, %d, %d) = %+v, want %+v", tt.width, tt.height, tt.w, tt.h, got, tt.want)
		}
	}

	r := rect{2, 3, 4, 5}
	if !r.contains(2, 3) || !r.contains(5, 7) || r.contains(6, 3) || r.contains(2, 8) {
		t.Errorf("contains is not half-open on %+v", r)
	}
}

func TestCardWindow(t *testing.T) {
	tests := []struct {
		n, sel, size int
		from, to     int
	}{
		{3, 0, 4, 0, 3},
		{10, 0, 4, 0, 4},
		{10, 5, 4, 3, 7},
		{10, 9, 4, 6, 10},
	}

	for _, tt := range tests {
		from, to := cardWindow(tt.n, tt.sel, tt.size)
		if from != tt.from || to != tt.to {
			t.Errorf("cardWindow(%d, %d, %d) = [%d, %d), want [%d, %d)", tt.n, tt.sel, tt.size, from, to, tt.from, tt.to)
		}
	}
}
