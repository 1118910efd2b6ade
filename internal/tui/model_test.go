package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dukerupert/userbook/internal/grocery"
	"github.com/dukerupert/userbook/internal/logging"
	"github.com/dukerupert/userbook/internal/model"
)

type pageFetcher struct {
	pages [][]model.DirectoryEntry
	err   error
}

func (f *pageFetcher) FetchPage(ctx context.Context, page, size int) ([]model.DirectoryEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if page-1 < len(f.pages) {
		return f.pages[page-1], nil
	}
	return nil, nil
}

func people(prefix string, n int) []model.DirectoryEntry {
	out := make([]model.DirectoryEntry, n)
	for i := range out {
		out[i] = model.DirectoryEntry{
			FirstName: prefix,
			LastName:  fmt.Sprintf("Number%d", i),
			Email:     fmt.Sprintf("%s.%d@example.com", prefix, i),
		}
	}
	return out
}

func newTestModel(t *testing.T, f *pageFetcher) Model {
	t.Helper()
	mgr, err := grocery.NewManager(context.Background(), grocery.Config{
		Locale: language.English,
		Logger: logging.Discard(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	m := NewModel(Config{Fetcher: f, Manager: mgr, Logger: logging.Discard()})
	t.Cleanup(m.Close)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 17})
	return updated.(Model)
}

// runLoad performs one page load synchronously and feeds the result back.
func runLoad(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(m.loadPage()())
	return updated.(Model)
}

func press(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyF2    = tea.KeyMsg{Type: tea.KeyF2}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestDirectoryFirstPage(t *testing.T) {
	m := newTestModel(t, &pageFetcher{pages: [][]model.DirectoryEntry{people("Ada", 20)}})
	m = runLoad(t, m)

	st := m.loader.Snapshot()
	assert.Len(t, st.Entries, 20)
	assert.Equal(t, 2, st.NextPage)
	assert.Contains(t, m.View(), "20 of 20 loaded")
	assert.Contains(t, m.View(), "Ada Number0")
}

func TestDirectorySearchFilters(t *testing.T) {
	entries := append(people("Ada", 3), people("Grace", 2)...)
	m := newTestModel(t, &pageFetcher{pages: [][]model.DirectoryEntry{entries}})
	m = runLoad(t, m)

	m = typeText(m, "GRACE")
	assert.Equal(t, "GRACE", m.loader.Snapshot().SearchText)
	assert.Len(t, m.loader.Visible(), 2)
	assert.Contains(t, m.View(), "2 of 5 loaded")
	assert.NotContains(t, m.View(), "Ada Number0")
}

func TestDirectoryScrollNearEndLoadsMore(t *testing.T) {
	// Height 17 leaves a 10 row list; 12 entries puts the end in reach.
	m := newTestModel(t, &pageFetcher{pages: [][]model.DirectoryEntry{people("Ada", 12), people("Bob", 12)}})
	m = runLoad(t, m)

	updated, cmd := m.Update(keyDown)
	m = updated.(Model)
	require.NotNil(t, cmd, "moving near the end should request a page")
	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.Len(t, m.loader.Snapshot().Entries, 24)
}

func TestDirectoryScrollFarFromEndDoesNotLoad(t *testing.T) {
	m := newTestModel(t, &pageFetcher{pages: [][]model.DirectoryEntry{people("Ada", 40)}})
	m = runLoad(t, m)

	_, cmd := m.Update(keyDown)
	assert.Nil(t, cmd)
}

func TestDirectoryFailureShowsAlert(t *testing.T) {
	m := newTestModel(t, &pageFetcher{err: errors.New("no route to host")})
	m = runLoad(t, m)

	view := m.View()
	assert.Contains(t, view, "Error: Could not load users")
	assert.Contains(t, view, "Failed to fetch users")
	assert.True(t, m.loader.Snapshot().HasMore)

	m = press(m, keyEsc)
	assert.NotContains(t, m.View(), "Could not load users")
}

func TestDirectoryRefresh(t *testing.T) {
	m := newTestModel(t, &pageFetcher{pages: [][]model.DirectoryEntry{people("Ada", 5)}})
	m = runLoad(t, m)
	m = runLoad(t, m) // exhausts
	require.False(t, m.loader.Snapshot().HasMore)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)
	st := m.loader.Snapshot()
	assert.Empty(t, st.Entries)
	assert.True(t, st.HasMore)
	require.NotNil(t, cmd)

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.Len(t, m.loader.Snapshot().Entries, 5)
}

func TestGroceryAddToggleDelete(t *testing.T) {
	m := newTestModel(t, &pageFetcher{})
	m = press(m, keyF2)
	require.Equal(t, ScreenGrocery, m.screen)

	m = typeText(m, "Milk")
	m = press(m, keyTab)
	m = typeText(m, "2")
	m = press(m, keyEnter)

	require.Len(t, m.items, 1)
	assert.Equal(t, "Milk", m.items[0].Name)
	assert.Equal(t, 2, m.items[0].Quantity)
	assert.Empty(t, m.nameInput.Value())
	assert.Empty(t, m.qtyInput.Value())
	assert.Equal(t, focusName, m.focus)

	m = typeText(m, "Apples")
	m = press(m, keyTab)
	m = typeText(m, "6")
	m = press(m, keyEnter)
	require.Len(t, m.items, 2)
	assert.Equal(t, "Apples", m.items[0].Name, "default view sorts by name")

	// Focus the list and toggle Apples.
	m = press(m, keyTab, keyTab)
	require.Equal(t, focusList, m.focus)
	m = press(m, keySpace)
	assert.True(t, m.items[0].Acquired)
	assert.Equal(t, 1, m.acquired)

	// Sort by quantity, then filter to unacquired.
	m = typeText(m, "s")
	assert.Equal(t, model.SortByQuantity, m.sort)
	assert.Equal(t, "Milk", m.items[0].Name)
	m = typeText(m, "ff")
	assert.Equal(t, model.FilterUnacquired, m.filter)
	require.Len(t, m.items, 1)

	m = typeText(m, "d")
	assert.Empty(t, m.items)
	assert.Equal(t, 1, m.total)
	assert.Contains(t, m.View(), "Nothing here.")
}

func TestGroceryRejectedInputIsKept(t *testing.T) {
	m := newTestModel(t, &pageFetcher{})
	m = press(m, keyF2)

	m = typeText(m, "Bread")
	m = press(m, keyTab)
	m = typeText(m, "two")
	m = press(m, keyEnter)

	assert.Empty(t, m.items)
	assert.Equal(t, "Bread", m.nameInput.Value())
	assert.Equal(t, "two", m.qtyInput.Value())
	assert.Contains(t, m.View(), "Validation Error: Please enter valid name and quantity.")
}

func TestSwitchScreens(t *testing.T) {
	m := newTestModel(t, &pageFetcher{})
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, ScreenGrocery, m.screen)
	assert.True(t, m.nameInput.Focused())
	assert.False(t, m.search.Focused())

	m = press(m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, ScreenDirectory, m.screen)
	assert.True(t, m.search.Focused())
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, &pageFetcher{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestGroceryListScrollsWithCursor(t *testing.T) {
	m := newTestModel(t, &pageFetcher{})
	for i := 1; i <= 15; i++ {
		_, err := m.manager.AddItem(fmt.Sprintf("Item %02d", i), "1")
		require.NoError(t, err)
	}
	m.refreshItems()
	m = press(m, keyF2, keyTab, keyTab)
	require.Equal(t, focusList, m.focus)

	// Height 17 leaves a 10 row list.
	view := m.View()
	assert.Contains(t, view, "Item 10")
	assert.NotContains(t, view, "Item 11")

	for range 12 {
		m = press(m, keyDown)
	}
	assert.Equal(t, 12, m.itemCursor)
	assert.Equal(t, 3, m.itemOffset)
	view = m.View()
	assert.Contains(t, view, "> [ ]   1  Item 13")
	assert.NotContains(t, view, "Item 03")

	// Past the end the cursor stops on the last row.
	for range 5 {
		m = press(m, keyDown)
	}
	assert.Equal(t, 14, m.itemCursor)
	assert.Equal(t, 5, m.itemOffset)

	m = typeText(m, "d")
	assert.Len(t, m.items, 14)
	assert.Equal(t, 13, m.itemCursor)
	assert.Equal(t, 4, m.itemOffset)
}
