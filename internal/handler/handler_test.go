package handler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/userbook/internal/logging"
	"github.com/dukerupert/userbook/internal/model"
	ws "github.com/dukerupert/userbook/internal/websocket"
)

// recorder is a ws.Sender that keeps every message.
type recorder struct {
	mu   sync.Mutex
	msgs []ws.Message
}

func (r *recorder) Send(m ws.Message) bool {
	r.mu.Lock()
	r.msgs = append(r.msgs, m)
	r.mu.Unlock()
	return true
}

func (r *recorder) all() []ws.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ws.Message(nil), r.msgs...)
}

func (r *recorder) last(typ string) (ws.Message, bool) {
	msgs := r.all()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == typ {
			return msgs[i], true
		}
	}
	return ws.Message{}, false
}

func (r *recorder) count(ok func(ws.Message) bool) int {
	n := 0
	for _, m := range r.all() {
		if ok(m) {
			n++
		}
	}
	return n
}

// waitFor polls until some recorded message satisfies ok.
func (r *recorder) waitFor(t *testing.T, desc string, ok func(ws.Message) bool) ws.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, m := range r.all() {
			if ok(m) {
				return m
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; got %+v", desc, r.all())
	return ws.Message{}
}

type pagedFetcher struct {
	mu    sync.Mutex
	pages map[int][]model.DirectoryEntry
	err   error
	calls int
}

func (f *pagedFetcher) FetchPage(ctx context.Context, page, size int) ([]model.DirectoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[page], nil
}

func (f *pagedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func entries(prefix string, n int) []model.DirectoryEntry {
	out := make([]model.DirectoryEntry, n)
	for i := range out {
		out[i] = model.DirectoryEntry{
			FirstName: prefix,
			LastName:  fmt.Sprintf("N%d", i),
			Email:     fmt.Sprintf("%s%d@example.com", prefix, i),
		}
	}
	return out
}

func stateWith(n int, loading bool) func(ws.Message) bool {
	return func(m ws.Message) bool {
		v, ok := m.Data.(directoryView)
		return ok && m.Type == "directory_state" && v.Total == n && v.Loading == loading
	}
}

func TestDirectoryScreenLoadsFirstPageOnStart(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]model.DirectoryEntry{1: entries("ada", 20)}}
	rec := &recorder{}
	s := NewDirectoryScreen(f, rec, logging.Discard())
	defer s.Close()

	s.Start(context.Background())
	m := rec.waitFor(t, "first page", stateWith(20, false))

	v := m.Data.(directoryView)
	if v.NextPage != 2 || !v.HasMore {
		t.Errorf("state = %+v, want next_page 2 and has_more", v)
	}
	if len(v.Entries) != 20 {
		t.Errorf("visible = %d, want 20", len(v.Entries))
	}
}

func TestDirectoryScreenSearchAndScroll(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]model.DirectoryEntry{
		1: entries("ada", 20),
		2: entries("bob", 20),
	}}
	rec := &recorder{}
	s := NewDirectoryScreen(f, rec, logging.Discard())
	defer s.Close()
	ctx := context.Background()

	s.Start(ctx)
	rec.waitFor(t, "first page", stateWith(20, false))

	// A filter matching nothing still lets scrolling pull more pages.
	s.Handle(ctx, ws.Command{Type: "search", Query: "BOB"})
	m, _ := rec.last("directory_state")
	if v := m.Data.(directoryView); len(v.Entries) != 0 || v.SearchText != "BOB" {
		t.Fatalf("after search: %+v", v)
	}

	s.Handle(ctx, ws.Command{Type: "scroll", Offset: 0, Viewport: 10})
	m = rec.waitFor(t, "second page", stateWith(40, false))
	if v := m.Data.(directoryView); len(v.Entries) != 20 {
		t.Errorf("visible after second page = %d, want 20 bob entries", len(v.Entries))
	}
}

func TestDirectoryScreenScrollAwayFromEndDoesNotLoad(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]model.DirectoryEntry{1: entries("ada", 20)}}
	rec := &recorder{}
	s := NewDirectoryScreen(f, rec, logging.Discard())
	defer s.Close()
	ctx := context.Background()

	s.Start(ctx)
	rec.waitFor(t, "first page", stateWith(20, false))

	s.Handle(ctx, ws.Command{Type: "scroll", Offset: 0, Viewport: 5})
	time.Sleep(20 * time.Millisecond)
	s.Close()
	if got := f.callCount(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestDirectoryScreenFailureAlerts(t *testing.T) {
	f := &pagedFetcher{err: errors.New("offline")}
	rec := &recorder{}
	s := NewDirectoryScreen(f, rec, logging.Discard())
	defer s.Close()

	s.Start(context.Background())
	rec.waitFor(t, "alert", func(m ws.Message) bool { return m.Type == "alert" })
	m := rec.waitFor(t, "error state", func(m ws.Message) bool {
		v, ok := m.Data.(directoryView)
		return ok && v.LastError != "" && !v.Loading
	})
	if v := m.Data.(directoryView); !v.HasMore {
		t.Error("failure must not end pagination")
	}
}

func TestDirectoryScreenRefresh(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]model.DirectoryEntry{1: entries("ada", 3)}}
	rec := &recorder{}
	s := NewDirectoryScreen(f, rec, logging.Discard())
	defer s.Close()
	ctx := context.Background()

	s.Start(ctx)
	rec.waitFor(t, "first page", stateWith(3, false))

	s.Handle(ctx, ws.Command{Type: "refresh"})
	deadline := time.Now().Add(2 * time.Second)
	for rec.count(stateWith(3, false)) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := rec.count(stateWith(3, false)); got != 2 {
		t.Fatalf("loaded states = %d, want 2", got)
	}
	if got := f.callCount(); got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}
	if st := s.loader.Snapshot(); len(st.Entries) != 3 || st.NextPage != 2 {
		t.Errorf("after refresh: %d entries, next page %d", len(st.Entries), st.NextPage)
	}
}

func TestDirectoryScreenUnknownCommand(t *testing.T) {
	rec := &recorder{}
	s := NewDirectoryScreen(&pagedFetcher{}, rec, logging.Discard())
	defer s.Close()

	s.Handle(context.Background(), ws.Command{Type: "jump"})
	if _, ok := rec.last("error"); !ok {
		t.Error("expected error message")
	}
}

// gatedFetcher blocks every fetch until gate is closed.
type gatedFetcher struct {
	gate  chan struct{}
	began chan struct{}
	page  []model.DirectoryEntry
}

func (f *gatedFetcher) FetchPage(ctx context.Context, page, size int) ([]model.DirectoryEntry, error) {
	f.began <- struct{}{}
	select {
	case <-f.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if page > 1 {
		return nil, nil
	}
	return f.page, nil
}

// holdingSender records messages like recorder but parks the first message
// matching hold until release is closed.
type holdingSender struct {
	recorder
	hold    func(ws.Message) bool
	held    chan struct{}
	release chan struct{}
	once    sync.Once
}

func (h *holdingSender) Send(m ws.Message) bool {
	if h.hold(m) {
		parked := false
		h.once.Do(func() { parked = true })
		if parked {
			close(h.held)
			<-h.release
		}
	}
	return h.recorder.Send(m)
}

func TestDirectoryScreenStateFramesFollowStateOrder(t *testing.T) {
	f := &gatedFetcher{
		gate:  make(chan struct{}),
		began: make(chan struct{}, 2),
		page:  entries("ada", 20),
	}
	out := &holdingSender{
		hold: func(m ws.Message) bool {
			v, ok := m.Data.(directoryView)
			return ok && v.SearchText == "ada"
		},
		held:    make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewDirectoryScreen(f, out, logging.Discard())
	defer s.Close()
	ctx := context.Background()

	s.Start(ctx)
	<-f.began

	// The search snapshot is taken while page 1 is loading and its send is
	// held back; the fetch then finishes and publishes its own state.
	searched := make(chan struct{})
	go func() {
		s.Handle(ctx, ws.Command{Type: "search", Query: "ada"})
		close(searched)
	}()
	<-out.held
	close(f.gate)
	time.Sleep(30 * time.Millisecond)
	close(out.release)
	<-searched
	s.Close()

	last, ok := out.last("directory_state")
	if !ok {
		t.Fatal("no directory_state sent")
	}
	v := last.Data.(directoryView)
	if v.Loading || v.Total != 20 || len(v.Entries) != 20 || v.SearchText != "ada" {
		t.Errorf("last state = total %d loading %v visible %d search %q; want the loaded page",
			v.Total, v.Loading, len(v.Entries), v.SearchText)
	}
}
