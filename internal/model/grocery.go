package model

import (
	"fmt"
	"strings"
	"time"
)

type GroceryItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Acquired  bool      `json:"acquired"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusFilter selects which items a grocery view shows.
type StatusFilter string

const (
	FilterAll        StatusFilter = "all"
	FilterAcquired   StatusFilter = "acquired"
	FilterUnacquired StatusFilter = "unacquired"
)

// Matches reports whether an item passes the filter.
func (f StatusFilter) Matches(item GroceryItem) bool {
	switch f {
	case FilterAcquired:
		return item.Acquired
	case FilterUnacquired:
		return !item.Acquired
	default:
		return true
	}
}

// Next cycles all -> acquired -> unacquired -> all.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case FilterAll:
		return FilterAcquired
	case FilterAcquired:
		return FilterUnacquired
	default:
		return FilterAll
	}
}

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterAcquired, FilterUnacquired:
		return f, nil
	default:
		return "", fmt.Errorf("unknown status filter %q", s)
	}
}

// SortKey selects the field a grocery view is ordered by.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByQuantity SortKey = "quantity"
)

func (k SortKey) Next() SortKey {
	if k == SortByName {
		return SortByQuantity
	}
	return SortByName
}

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByName, nil
	case SortByName, SortByQuantity:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}
