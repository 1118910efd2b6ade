package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/dukerupert/userbook/internal/notify"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewTabs())
	b.WriteString("\n")

	if m.screen == ScreenGrocery {
		b.WriteString(m.viewGrocery())
	} else {
		b.WriteString(m.viewDirectory())
	}

	if m.alert != nil {
		style := m.theme.AlertInfo
		if m.alert.Level == notify.LevelError {
			style = m.theme.AlertError
		}
		b.WriteString(style.Render(m.alert.Title + ": " + m.alert.Message))
		b.WriteString("\n")
	}
	b.WriteString(m.viewHelp())
	return b.String()
}

func (m Model) viewTabs() string {
	tab := func(label string, s Screen) string {
		if m.screen == s {
			return m.theme.ActiveTab.Render(label)
		}
		return m.theme.Tab.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		tab("Directory", ScreenDirectory),
		tab("Groceries", ScreenGrocery),
	)
}

func (m Model) viewHelp() string {
	var bindings []key.Binding
	if m.screen == ScreenGrocery {
		bindings = []key.Binding{m.keys.NextField, m.keys.Submit}
		if m.focus == focusList {
			bindings = []key.Binding{m.keys.NextField, m.keys.Toggle, m.keys.Delete, m.keys.NextFilter, m.keys.NextSort}
		}
	} else {
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Refresh}
	}
	bindings = append(bindings, m.keys.SwitchScreen, m.keys.Quit)
	if m.alert != nil {
		bindings = append(bindings, m.keys.Dismiss)
	}

	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.Help.Render(strings.Join(parts, " · "))
}
