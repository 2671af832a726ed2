package ui

// rect is a cell rectangle on screen.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// centered mirrors how lipgloss.Place splits leftover space around a centered block.
func centered(width, height, w, h int) rect {
	return rect{x: max(width-w, 0) / 2, y: max(height-h, 0) / 2, w: w, h: h}
}
