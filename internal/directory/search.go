package directory

import (
	"strings"

	"github.com/dukerupert/userbook/internal/model"
)

// Search returns the entries whose "first last" name or email contains query,
// ignoring case. An empty query matches everything. The input is not modified.
func Search(entries []model.DirectoryEntry, query string) []model.DirectoryEntry {
	q := strings.ToLower(query)
	out := make([]model.DirectoryEntry, 0, len(entries))
	for _, e := range entries {
		if q == "" ||
			strings.Contains(strings.ToLower(e.FullName()), q) ||
			strings.Contains(strings.ToLower(e.Email), q) {
			out = append(out, e)
		}
	}
	return out
}
