package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/userbook/internal/grocery"
	"github.com/dukerupert/userbook/internal/notify"
)

func (m Model) updateGrocery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.setFocus((m.focus + 1) % 3)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.setFocus((m.focus + 2) % 3)
		return m, nil
	}

	if m.focus == focusList {
		return m.updateGroceryList(msg)
	}

	if key.Matches(msg, m.keys.Submit) {
		m.submit()
		return m, nil
	}
	return m.updateInputs(msg)
}

func (m Model) updateGroceryList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.itemCursor--
		m.clampGroceryCursor()
	case key.Matches(msg, m.keys.Down):
		m.itemCursor++
		m.clampGroceryCursor()
	case key.Matches(msg, m.keys.PageUp):
		m.itemCursor -= m.listHeight()
		m.clampGroceryCursor()
	case key.Matches(msg, m.keys.PageDown):
		m.itemCursor += m.listHeight()
		m.clampGroceryCursor()
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.selectedItem(); ok {
			if _, err := m.manager.ToggleAcquired(id); err != nil {
				m.showError("Could not update item", err)
			}
			m.refreshItems()
		}
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selectedItem(); ok {
			if err := m.manager.DeleteItem(id); err != nil {
				m.showError("Could not delete item", err)
			}
			m.refreshItems()
		}
	case key.Matches(msg, m.keys.NextFilter):
		m.filter = m.filter.Next()
		m.refreshItems()
	case key.Matches(msg, m.keys.NextSort):
		m.sort = m.sort.Next()
		m.refreshItems()
	}
	return m, nil
}

func (m *Model) setFocus(f groceryFocus) {
	m.focus = f
	m.nameInput.Blur()
	m.qtyInput.Blur()
	switch f {
	case focusName:
		m.nameInput.Focus()
	case focusQuantity:
		m.qtyInput.Focus()
	}
}

// submit runs the add form. A rejected form keeps its inputs.
func (m *Model) submit() {
	m.form.Name = m.nameInput.Value()
	m.form.Quantity = m.qtyInput.Value()
	_, err := m.form.Submit(m.manager, m.alerts)
	m.takeAlerts()
	if err != nil {
		if !grocery.IsValidation(err) {
			m.showError("Could not add item", err)
		}
		return
	}
	m.nameInput.SetValue(m.form.Name)
	m.qtyInput.SetValue(m.form.Quantity)
	m.setFocus(focusName)
	m.refreshItems()
}

func (m Model) selectedItem() (string, bool) {
	if m.itemCursor < 0 || m.itemCursor >= len(m.items) {
		return "", false
	}
	return m.items[m.itemCursor].ID, true
}

func (m *Model) refreshItems() {
	if m.manager == nil {
		return
	}
	items, err := m.manager.View(m.filter, m.sort)
	if err != nil {
		m.showError("Could not list items", err)
		return
	}
	m.items = items
	m.clampGroceryCursor()
	if total, acquired, err := m.manager.Counts(); err == nil {
		m.total, m.acquired = total, acquired
	}
}

func (m *Model) clampGroceryCursor() {
	m.itemCursor, m.itemOffset = clampWindow(m.itemCursor, m.itemOffset, len(m.items), m.listHeight())
}

func (m *Model) showError(title string, err error) {
	msg := err.Error()
	if errors.Is(err, grocery.ErrItemNotFound) {
		msg = "The item no longer exists."
	} else {
		m.logger.Error(title, "error", err)
	}
	m.alert = &notify.Notification{Level: notify.LevelError, Title: title, Message: msg}
}

func (m Model) viewGrocery() string {
	var b strings.Builder

	mark := func(f groceryFocus) string {
		if m.focus == f {
			return m.theme.FocusedMark.Render("▸ ")
		}
		return "  "
	}
	b.WriteString(mark(focusName) + m.theme.InputLabel.Render("Name") + m.nameInput.View() + "\n")
	b.WriteString(mark(focusQuantity) + m.theme.InputLabel.Render("Quantity") + m.qtyInput.View() + "\n")

	summary := fmt.Sprintf("%d items, %d acquired · showing %s · sorted by %s",
		m.total, m.acquired, m.filter, m.sort)
	b.WriteString(m.theme.Header.Render(summary))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(m.theme.Faint.Render("Nothing here."))
		b.WriteString("\n")
		return b.String()
	}
	end := min(len(m.items), m.itemOffset+m.listHeight())
	for i := m.itemOffset; i < end; i++ {
		it := m.items[i]
		box := "[ ]"
		name := it.Name
		if it.Acquired {
			box = "[x]"
			name = m.theme.Acquired.Render(name)
		}
		line := fmt.Sprintf("%s %3d  %s", box, it.Quantity, name)
		if m.focus == focusList && i == m.itemCursor {
			line = m.theme.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
