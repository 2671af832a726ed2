package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/dsx/internal/browse"
)

const panelTitle = "Available Datasets"

// renderPanel draws the overlay content: a header with the close control, a window of cards around the selection,
// then any pending refresh or status.
func (m *Model) renderPanel() string {
	width := min(max(m.width-8, 40), 72)
	inner := width - 2

	closeCtl := styles.err.Render("[✕]")
	gap := max(inner-lipgloss.Width(panelTitle)-lipgloss.Width(closeCtl), 1)
	header := styles.stepOn.Render(panelTitle) + strings.Repeat(" ", gap) + closeCtl

	body := []string{header, ""}
	cards := m.modal.Cards()
	if len(cards) == 0 {
		body = append(body, styles.muted.Render(browse.NoDatasets))
	} else {
		from, to := cardWindow(len(cards), m.modal.SelectedIndex(), m.visibleCards())
		for i := from; i < to; i++ {
			body = append(body, renderCard(cards[i], i == m.modal.SelectedIndex(), inner-2))
		}
		if to-from < len(cards) {
			body = append(body, styles.muted.Render(fmt.Sprintf("%d/%d", m.modal.SelectedIndex()+1, len(cards))))
		}
	}

	if m.modal.Loading() {
		body = append(body, "", fmt.Sprintf("%s Refreshing...", m.spin.View()))
	}
	if status := m.renderStatus(); status != "" {
		body = append(body, "", status)
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.download, m.keys.open, m.keys.refresh, m.keys.back}
	body = append(body, "", m.help.ShortHelpView(helpKeys))

	return styles.panel.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

// visibleCards is how many cards fit in the terminal at roughly five rows each.
func (m *Model) visibleCards() int {
	if m.height == 0 {
		return 4
	}
	return min(max((m.height-8)/5, 1), 6)
}

// cardWindow returns the [from, to) range of n cards that keeps sel visible.
func cardWindow(n, sel, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	from := max(sel-size/2, 0)
	to := from + size
	if to > n {
		to = n
		from = n - size
	}
	return from, to
}

func renderCard(c browse.Card, selected bool, width int) string {
	lines := []string{
		styles.stepOn.Render(c.Title),
		c.Description,
	}
	if len(c.Tags) > 0 {
		pills := make([]string, len(c.Tags))
		for i, t := range c.Tags {
			pills[i] = styles.pill.Render(t)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, pills...))
	}
	lines = append(lines, "⬇ "+styles.link.Render(c.DownloadURL))

	style := styles.card
	if selected {
		style = styles.cardSelected
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}
