package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	focus    key.Binding
	pick     key.Binding
	remove   key.Binding
	addTag   key.Binding
	upload   key.Binding
	submit   key.Binding
	browse   key.Binding
	up       key.Binding
	down     key.Binding
	download key.Binding
	open     key.Binding
	refresh  key.Binding
	back     key.Binding
	help     key.Binding
	exit     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		focus:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field")),
		pick:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose file")),
		remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove file")),
		addTag:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add tag")),
		upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "upload")),
		browse:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "browse")),
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		download: key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "download")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open link")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		exit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.pick, k.upload, k.browse, k.help, k.exit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.pick, k.remove, k.focus, k.addTag},
		{k.upload, k.submit, k.browse},
		{k.up, k.down, k.download, k.open, k.refresh},
		{k.back, k.exit, k.quit},
	}
}
