package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukerupert/userbook/internal/model"
	"github.com/dukerupert/userbook/internal/notify"
)

// Messages recorded and surfaced when a page fails to load.
const (
	FetchErrorMessage = "Failed to fetch users"
	FetchAlertTitle   = "Error"
	FetchAlertMessage = "Could not load users"
)

// Outcome describes what a LoadNextPage call did.
type Outcome int

const (
	// OutcomeSkipped means a load was already running, the directory was
	// exhausted or the loader was closed. Nothing was requested.
	OutcomeSkipped Outcome = iota
	// OutcomeAppended means a non-empty page was appended.
	OutcomeAppended
	// OutcomeExhausted means an empty page was returned; no more pages will
	// be requested.
	OutcomeExhausted
	// OutcomeFailed means the request or decode failed.
	OutcomeFailed
	// OutcomeDiscarded means the loader was reset or closed while the
	// request was in flight and the response was thrown away.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeAppended:
		return "appended"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFailed:
		return "failed"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// FetchError wraps a failed page load.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Loader accumulates directory pages. It is safe for concurrent use; at most
// one fetch is in flight at any time.
type Loader struct {
	fetcher  Fetcher
	pageSize int
	notifier notify.Notifier
	logger   *slog.Logger
	onChange func()

	mu         sync.Mutex
	entries    []model.DirectoryEntry
	nextPage   int
	loading    bool
	hasMore    bool
	searchText string
	lastError  string
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	// fetching is closed when the most recently started FetchPage call
	// returns, stale or not. Nil when no call is running.
	fetching chan struct{}
}

// Option configures a Loader.
type Option func(*Loader)

// WithNotifier sets where fetch failures are announced.
func WithNotifier(n notify.Notifier) Option {
	return func(l *Loader) { l.notifier = n }
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithOnChange registers a function called, without the lock held, when a
// fetch starts and when a fetch result is applied.
func WithOnChange(fn func()) Option {
	return func(l *Loader) { l.onChange = fn }
}

// WithPageSize overrides PageSize.
func WithPageSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.pageSize = n
		}
	}
}

// NewLoader creates a loader positioned at page 1.
func NewLoader(f Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:  f,
		pageSize: PageSize,
		notifier: notify.Discard,
		logger:   slog.Default(),
		nextPage: 1,
		hasMore:  true,
		onChange: func() {},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadNextPage fetches the next page and applies the result. It returns
// immediately with OutcomeSkipped if a fetch is running or no pages remain.
// A failed fetch returns OutcomeFailed and a *FetchError; the same page may be
// requested again by a later call.
func (l *Loader) LoadNextPage(ctx context.Context) (Outcome, error) {
	l.mu.Lock()
	if l.loading || !l.hasMore || l.closed {
		l.mu.Unlock()
		return OutcomeSkipped, nil
	}
	l.loading = true
	page := l.nextPage
	gen := l.generation
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	prev := l.fetching
	done := make(chan struct{})
	l.fetching = done
	l.mu.Unlock()
	l.onChange()

	// A request abandoned by Reset may still be returning; never overlap it.
	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
		}
	}

	var entries []model.DirectoryEntry
	err := ctx.Err()
	if err == nil {
		l.logger.Debug("fetching page", "page", page, "size", l.pageSize)
		entries, err = l.fetcher.FetchPage(ctx, page, l.pageSize)
	}
	cancel()
	close(done)

	l.mu.Lock()
	if l.fetching == done {
		l.fetching = nil
	}
	if gen != l.generation {
		l.mu.Unlock()
		l.logger.Debug("discarding stale page", "page", page)
		return OutcomeDiscarded, nil
	}
	l.loading = false
	l.cancel = nil
	defer l.onChange()

	if err != nil {
		l.lastError = FetchErrorMessage
		l.mu.Unlock()
		l.logger.Warn("page fetch failed", "page", page, "error", err)
		l.notifier.Notify(notify.Notification{
			Level:   notify.LevelError,
			Title:   FetchAlertTitle,
			Message: FetchAlertMessage,
		})
		return OutcomeFailed, &FetchError{Page: page, Err: err}
	}

	l.lastError = ""
	if len(entries) == 0 {
		l.hasMore = false
		l.mu.Unlock()
		l.logger.Info("directory exhausted", "page", page)
		return OutcomeExhausted, nil
	}

	l.entries = append(l.entries, entries...)
	l.nextPage++
	total := len(l.entries)
	l.mu.Unlock()

	l.logger.Debug("page appended", "page", page, "count", len(entries), "total", total)
	return OutcomeAppended, nil
}

// SetSearchText sets the active filter used by Visible.
func (l *Loader) SetSearchText(q string) {
	l.mu.Lock()
	l.searchText = q
	l.mu.Unlock()
}

// Search filters the accumulated entries without changing the active filter.
func (l *Loader) Search(query string) []model.DirectoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Search(l.entries, query)
}

// Visible returns the accumulated entries filtered by the active search text.
func (l *Loader) Visible() []model.DirectoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Search(l.entries, l.searchText)
}

// Snapshot returns a copy of the loader's state.
func (l *Loader) Snapshot() model.DirectoryState {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]model.DirectoryEntry, len(l.entries))
	copy(entries, l.entries)
	return model.DirectoryState{
		Entries:    entries,
		NextPage:   l.nextPage,
		Loading:    l.loading,
		HasMore:    l.hasMore,
		SearchText: l.searchText,
		LastError:  l.lastError,
	}
}

// Reset drops every entry and starts again at page 1. A fetch in flight is
// cancelled and its response discarded; the next load does not issue its
// request until that fetch has returned. The search text is kept.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidate()
	l.entries = nil
	l.nextPage = 1
	l.hasMore = true
	l.lastError = ""
}

// Close cancels any fetch in flight and turns later loads into no-ops.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidate()
	l.closed = true
}

// invalidate must be called with mu held.
func (l *Loader) invalidate() {
	l.generation++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.loading = false
}
