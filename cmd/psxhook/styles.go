package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wnxd/psxhook/game"
)

type styles struct {
	detached   lipgloss.Style
	connecting lipgloss.Style
	connected  lipgloss.Style
	failed     lipgloss.Style
	event      lipgloss.Style
}

// ANSI colours: 1 red, 2 green, 3 yellow, 6 cyan, 8 grey
func newStyles() styles {
	return styles{
		detached:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(8)),
		connecting: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		connected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
		failed:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		event:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
	}
}

func (s styles) state(state game.ConnState) lipgloss.Style {
	switch state {
	case game.Connecting:
		return s.connecting
	case game.Connected:
		return s.connected
	case game.Failed:
		return s.failed
	}
	return s.detached
}
