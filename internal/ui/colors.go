package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	muted lipgloss.Style

	zone       lipgloss.Style
	zoneActive lipgloss.Style
	zoneFocus  lipgloss.Style

	stepOn  lipgloss.Style
	stepOff lipgloss.Style

	pill     lipgloss.Style
	pillCued lipgloss.Style

	panel        lipgloss.Style
	card         lipgloss.Style
	cardSelected lipgloss.Style
	link         lipgloss.Style

	backdrop string
}

func NewPalette(t, s, e, w, h string) *Palette {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	pill := lipgloss.NewStyle().Padding(0, 1).MarginRight(1)

	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		muted: NewStyle(h),

		zone:       box.BorderForeground(lipgloss.Color(h)),
		zoneActive: box.BorderForeground(lipgloss.Color(s)),
		zoneFocus:  box.BorderForeground(lipgloss.Color(t)),

		stepOn:  NewBold(t),
		stepOff: NewStyle(h),

		pill:     pill.Background(lipgloss.Color(t)).Foreground(lipgloss.Color("#FFFFFF")),
		pillCued: pill.Background(lipgloss.Color(s)).Foreground(lipgloss.Color("#FFFFFF")).Bold(true),

		panel:        lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color(t)).Padding(0, 1),
		card:         lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(h)).Padding(0, 1),
		cardSelected: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(t)).Padding(0, 1),
		link:         NewStyle(t).Underline(true),

		backdrop: h,
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
