// Package tui is the terminal client: a directory screen and a grocery list
// screen in one bubbletea program, both running in-process against the
// directory loader and the grocery manager.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/userbook/internal/directory"
	"github.com/dukerupert/userbook/internal/grocery"
	"github.com/dukerupert/userbook/internal/model"
	"github.com/dukerupert/userbook/internal/notify"
)

// Screen identifies the visible screen.
type Screen int

const (
	ScreenDirectory Screen = iota
	ScreenGrocery
)

// groceryFocus is the grocery screen element receiving keys.
type groceryFocus int

const (
	focusName groceryFocus = iota
	focusQuantity
	focusList
)

const defaultListHeight = 20

// rows taken by tabs, search/form, status and help lines.
const chromeHeight = 7

// pageLoadedMsg is sent when a LoadNextPage call returns.
type pageLoadedMsg struct {
	outcome directory.Outcome
	err     error
}

// Config configures a Model.
type Config struct {
	Fetcher directory.Fetcher
	Manager *grocery.Manager
	Logger  *slog.Logger
	Keys    *KeyMap
	Theme   *Theme
}

// Model implements tea.Model.
type Model struct {
	keys   KeyMap
	theme  Theme
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	screen Screen
	width  int
	height int

	// alerts collects notifications from the loader and the add form.
	alerts *notify.Recorder
	alert  *notify.Notification

	// Directory screen.
	loader  *directory.Loader
	search  textinput.Model
	spinner spinner.Model
	cursor  int
	offset  int

	// Grocery screen.
	manager    *grocery.Manager
	form       grocery.Form
	nameInput  textinput.Model
	qtyInput   textinput.Model
	focus      groceryFocus
	filter     model.StatusFilter
	sort       model.SortKey
	items      []model.GroceryItem
	itemCursor int
	itemOffset int
	total      int
	acquired   int
}

func NewModel(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	keys := DefaultKeyMap
	if cfg.Keys != nil {
		keys = *cfg.Keys
	}
	theme := DefaultTheme
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}

	alerts := &notify.Recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	search := textinput.New()
	search.Placeholder = "Search by name or email"
	search.Prompt = "/ "
	search.Focus()

	name := textinput.New()
	name.Placeholder = "Item name"
	name.Prompt = ""
	qty := textinput.New()
	qty.Placeholder = "Quantity"
	qty.Prompt = ""
	qty.CharLimit = 9

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		keys:      keys,
		theme:     theme,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		alerts:    alerts,
		search:    search,
		spinner:   sp,
		manager:   cfg.Manager,
		nameInput: name,
		qtyInput:  qty,
		filter:    model.FilterAll,
		sort:      model.SortByName,
	}
	m.loader = directory.NewLoader(cfg.Fetcher,
		directory.WithNotifier(alerts),
		directory.WithLogger(logger.With("component", "directory")),
	)
	m.refreshItems()
	return m
}

// Close stops any page fetch in flight.
func (m Model) Close() {
	m.cancel()
	m.loader.Close()
}

// Init implements tea.Model. The first directory page is requested at once.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.loadPage())
}

// loadPage returns a command running one LoadNextPage call. The loader
// itself turns overlapping calls into no-ops.
func (m Model) loadPage() tea.Cmd {
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		outcome, err := loader.LoadNextPage(ctx)
		return pageLoadedMsg{outcome: outcome, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clampDirectoryCursor()
		m.clampGroceryCursor()
		return m, nil

	case pageLoadedMsg:
		if msg.err != nil {
			m.logger.Debug("page load", "outcome", msg.outcome.String(), "error", msg.err)
		}
		m.takeAlerts()
		m.clampDirectoryCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.DirectoryScreen):
			return m.showScreen(ScreenDirectory), nil
		case key.Matches(msg, m.keys.GroceryScreen):
			return m.showScreen(ScreenGrocery), nil
		case key.Matches(msg, m.keys.SwitchScreen):
			if m.screen == ScreenDirectory {
				return m.showScreen(ScreenGrocery), nil
			}
			return m.showScreen(ScreenDirectory), nil
		case key.Matches(msg, m.keys.Dismiss) && m.alert != nil:
			m.alert = nil
			return m, nil
		}
		if m.screen == ScreenGrocery {
			return m.updateGrocery(msg)
		}
		return m.updateDirectory(msg)
	}

	// Cursor blink and other input messages go to the focused input.
	return m.updateInputs(msg)
}

func (m Model) showScreen(s Screen) Model {
	m.screen = s
	m.search.Blur()
	m.nameInput.Blur()
	m.qtyInput.Blur()
	if s == ScreenDirectory {
		m.search.Focus()
	} else {
		m.setFocus(m.focus)
	}
	return m
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.screen == ScreenDirectory:
		m.search, cmd = m.search.Update(msg)
	case m.focus == focusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case m.focus == focusQuantity:
		m.qtyInput, cmd = m.qtyInput.Update(msg)
	}
	return m, cmd
}

// takeAlerts moves the newest pending notification to the status bar.
func (m *Model) takeAlerts() {
	pending := m.alerts.Drain()
	if len(pending) > 0 {
		n := pending[len(pending)-1]
		m.alert = &n
	}
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return defaultListHeight
	}
	return max(1, m.height-chromeHeight)
}
