package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dukerupert/userbook/internal/model"
)

// fakeFetcher serves pages from a fixed list. Pages past the end are empty.
// If gate is set, every call blocks until a value is received from it or the
// context is cancelled.
type fakeFetcher struct {
	mu    sync.Mutex
	pages [][]model.DirectoryEntry
	fail  map[int]error
	calls []int
	gate  chan struct{}
	began chan int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page, size int) ([]model.DirectoryEntry, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	err := f.fail[page]
	var out []model.DirectoryEntry
	if page-1 < len(f.pages) {
		out = f.pages[page-1]
	}
	gate, began := f.gate, f.began
	f.mu.Unlock()

	if began != nil {
		began <- page
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) setFail(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = map[int]error{}
	}
	if err == nil {
		delete(f.fail, page)
		return
	}
	f.fail[page] = err
}

func makePage(page, n int) []model.DirectoryEntry {
	out := make([]model.DirectoryEntry, n)
	for i := range out {
		out[i] = model.DirectoryEntry{
			FirstName: fmt.Sprintf("First%d", page),
			LastName:  fmt.Sprintf("Last%d_%d", page, i),
			Email:     fmt.Sprintf("user%d.%d@example.com", page, i),
			AvatarURL: fmt.Sprintf("https://example.com/%d/%d.jpg", page, i),
		}
	}
	return out
}
