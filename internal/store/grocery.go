package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/userbook/internal/model"
)

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var acquired int

	err := scanner.Scan(&item.ID, &item.Name, &item.Quantity, &acquired, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Acquired = acquired != 0
	return &item, nil
}

const itemCols = `id, name, quantity, acquired, created_at`

func (s *GroceryStore) GetItemByID(id string) (*model.GroceryItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *GroceryStore) CreateItem(id, name string, quantity int, createdAt time.Time) (*model.GroceryItem, error) {
	_, err := s.db.Exec(
		`INSERT INTO grocery_items (id, name, quantity, acquired, created_at) VALUES (?, ?, ?, 0, ?)`,
		id, name, quantity, createdAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return s.GetItemByID(id)
}

// ListItems returns the items passing filter in insertion order.
func (s *GroceryStore) ListItems(filter model.StatusFilter) ([]model.GroceryItem, error) {
	query := `SELECT ` + itemCols + ` FROM grocery_items`
	var args []any
	switch filter {
	case model.FilterAcquired:
		query += ` WHERE acquired = ?`
		args = append(args, 1)
	case model.FilterUnacquired:
		query += ` WHERE acquired = ?`
		args = append(args, 0)
	}
	query += ` ORDER BY rowid ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ToggleAcquired flips the acquired flag. It returns nil, nil if no item has
// the given id.
func (s *GroceryStore) ToggleAcquired(id string) (*model.GroceryItem, error) {
	result, err := s.db.Exec(
		`UPDATE grocery_items SET acquired = CASE acquired WHEN 0 THEN 1 ELSE 0 END WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle acquired: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetItemByID(id)
}

// DeleteItem removes an item and reports whether it existed.
func (s *GroceryStore) DeleteItem(id string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// CountItems returns the total number of items and how many are acquired.
func (s *GroceryStore) CountItems() (total, acquired int, err error) {
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(acquired), 0) FROM grocery_items`,
	).Scan(&total, &acquired)
	if err != nil {
		return 0, 0, fmt.Errorf("count items: %w", err)
	}
	return total, acquired, nil
}
