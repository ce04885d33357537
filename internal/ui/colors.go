package ui

import "github.com/charmbracelet/lipgloss"

var styles = newPalette()

// palette holds the lipgloss styles the sync views render with.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
}

func newPalette() palette {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return palette{
		title: fg("#7D56F4").Bold(true).MarginBottom(1),
		ok:    fg("#04B575").Bold(true),
		err:   fg("#FF0000").Bold(true),
		warn:  fg("#FFA500"),
	}
}
