package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/userbook/internal/directory"
)

func (m Model) updateDirectory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, m.maybeLoadMore()
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
		return m, m.maybeLoadMore()
	case key.Matches(msg, m.keys.Refresh):
		m.loader.Reset()
		m.cursor, m.offset = 0, 0
		return m, m.loadPage()
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.loader.SetSearchText(m.search.Value())
	m.cursor, m.offset = 0, 0
	return m, tea.Batch(cmd, m.maybeLoadMore())
}

// maybeLoadMore asks for another page when the viewport is near the end of
// the filtered list.
func (m Model) maybeLoadMore() tea.Cmd {
	visible := len(m.loader.Visible())
	if directory.ShouldLoadMore(visible, m.offset, m.listHeight(), directory.DefaultEndThreshold) {
		return m.loadPage()
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampDirectoryCursor()
}

// clampDirectoryCursor keeps the cursor inside the filtered list and the
// viewport around the cursor.
func (m *Model) clampDirectoryCursor() {
	m.cursor, m.offset = clampWindow(m.cursor, m.offset, len(m.loader.Visible()), m.listHeight())
}

// clampWindow bounds cursor to n rows and scrolls offset so that a window of
// h rows contains the cursor.
func clampWindow(cursor, offset, n, h int) (int, int) {
	cursor = max(0, min(cursor, n-1))
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+h {
		offset = cursor - h + 1
	}
	offset = max(0, min(offset, n-h))
	return cursor, offset
}

func (m Model) viewDirectory() string {
	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n")

	st := m.loader.Snapshot()
	visible := directory.Search(st.Entries, st.SearchText)

	status := fmt.Sprintf("%d of %d loaded", len(visible), len(st.Entries))
	switch {
	case st.Loading:
		status += " " + m.spinner.View() + " loading"
	case !st.HasMore:
		status += " (end of directory)"
	}
	if st.LastError != "" {
		status += " · " + st.LastError
	}
	b.WriteString(m.theme.Faint.Render(status))
	b.WriteString("\n")

	if len(visible) == 0 && !st.Loading {
		b.WriteString(m.theme.Faint.Render("No users match."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(len(visible), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		e := visible[i]
		line := fmt.Sprintf("%-28s %s", e.FullName(), m.theme.Faint.Render(e.Email))
		if i == m.cursor {
			line = m.theme.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
