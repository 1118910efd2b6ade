package grocery

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dukerupert/userbook/internal/database"
	"github.com/dukerupert/userbook/internal/model"
	"github.com/dukerupert/userbook/internal/store"
)

// Manager owns one grocery list. The list lives in a private in-memory
// database and is gone once the Manager is closed.
type Manager struct {
	db     *sql.DB
	store  *store.GroceryStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() (string, error)

	// collate.Collator keeps scratch buffers and is not safe for
	// concurrent use.
	mu       sync.Mutex
	collator *collate.Collator
}

// Config configures a Manager.
type Config struct {
	Locale language.Tag
	Logger *slog.Logger
}

// NewManager opens a fresh empty list.
func NewManager(ctx context.Context, cfg Config) (*Manager, error) {
	db, err := database.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open grocery list: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Locale == language.Und {
		cfg.Locale = language.English
	}
	return &Manager{
		db:       db,
		store:    store.NewGroceryStore(db),
		logger:   cfg.Logger,
		now:      time.Now,
		newID:    newItemID,
		collator: collate.New(cfg.Locale),
	}, nil
}

func newItemID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Close discards the list.
func (m *Manager) Close() error {
	return m.db.Close()
}

// ParseQuantity validates quantity text: an integer greater than zero,
// surrounding whitespace ignored.
func ParseQuantity(text string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &ValidationError{Field: "quantity", Message: "must be a whole number"}
	}
	if q <= 0 {
		return 0, &ValidationError{Field: "quantity", Message: "must be greater than zero"}
	}
	return q, nil
}

// AddItem validates the input and stores a new unacquired item. Invalid input
// returns a *ValidationError and changes nothing.
func (m *Manager) AddItem(name, quantityText string) (*model.GroceryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	qty, err := ParseQuantity(quantityText)
	if err != nil {
		return nil, err
	}

	id, err := m.newID()
	if err != nil {
		return nil, fmt.Errorf("new item id: %w", err)
	}
	item, err := m.store.CreateItem(id, name, qty, m.now())
	if err != nil {
		return nil, err
	}
	m.logger.Debug("item added", "id", item.ID, "name", item.Name, "quantity", item.Quantity)
	return item, nil
}

// ToggleAcquired flips the acquired flag of an item.
func (m *Manager) ToggleAcquired(id string) (*model.GroceryItem, error) {
	item, err := m.store.ToggleAcquired(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// DeleteItem removes an item.
func (m *Manager) DeleteItem(id string) error {
	deleted, err := m.store.DeleteItem(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItemNotFound
	}
	m.logger.Debug("item deleted", "id", id)
	return nil
}

// Counts returns the number of items and how many of them are acquired.
func (m *Manager) Counts() (total, acquired int, err error) {
	return m.store.CountItems()
}

// View returns the items passing filter, stably sorted by key. Items that
// compare equal keep insertion order.
func (m *Manager) View(filter model.StatusFilter, key model.SortKey) ([]model.GroceryItem, error) {
	items, err := m.store.ListItems(filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.GroceryItem{}
	}

	switch key {
	case model.SortByQuantity:
		slices.SortStableFunc(items, func(a, b model.GroceryItem) int {
			return cmp.Compare(a.Quantity, b.Quantity)
		})
	default:
		m.mu.Lock()
		slices.SortStableFunc(items, func(a, b model.GroceryItem) int {
			return m.collator.CompareString(a.Name, b.Name)
		})
		m.mu.Unlock()
	}
	return items, nil
}
