package handler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dukerupert/userbook/internal/directory"
	"github.com/dukerupert/userbook/internal/model"
	"github.com/dukerupert/userbook/internal/notify"
	ws "github.com/dukerupert/userbook/internal/websocket"
)

type directoryView struct {
	Entries    []model.DirectoryEntry `json:"entries"`
	Total      int                    `json:"total"`
	NextPage   int                    `json:"next_page"`
	Loading    bool                   `json:"loading"`
	HasMore    bool                   `json:"has_more"`
	SearchText string                 `json:"search_text"`
	LastError  string                 `json:"last_error,omitempty"`
}

// DirectoryScreen drives one directory loader for one websocket connection.
type DirectoryScreen struct {
	loader *directory.Loader
	out    ws.Sender
	logger *slog.Logger
	wg     sync.WaitGroup

	// sendMu keeps snapshot order and frame order the same when the read
	// loop and a fetch publish state at once.
	sendMu sync.Mutex
}

// NewDirectoryScreenFactory returns a factory building a fresh loader per
// connection.
func NewDirectoryScreenFactory(fetcher directory.Fetcher, logger *slog.Logger) ws.ScreenFactory {
	return func(ctx context.Context, out ws.Sender) (ws.Screen, error) {
		return NewDirectoryScreen(fetcher, out, logger), nil
	}
}

func NewDirectoryScreen(fetcher directory.Fetcher, out ws.Sender, logger *slog.Logger) *DirectoryScreen {
	s := &DirectoryScreen{out: out, logger: logger}
	s.loader = directory.NewLoader(fetcher,
		directory.WithLogger(logger),
		directory.WithNotifier(notify.Func(func(n notify.Notification) {
			out.Send(ws.Alert(n))
		})),
		directory.WithOnChange(s.sendState),
	)
	return s
}

// Start sends the empty state and requests the first page.
func (s *DirectoryScreen) Start(ctx context.Context) {
	s.sendState()
	s.loadAsync(ctx)
}

func (s *DirectoryScreen) Handle(ctx context.Context, cmd ws.Command) {
	switch cmd.Type {
	case "load_more":
		s.loadAsync(ctx)
	case "search":
		s.loader.SetSearchText(cmd.Query)
		s.sendState()
	case "scroll":
		visible := len(s.loader.Visible())
		if directory.ShouldLoadMore(visible, cmd.Offset, cmd.Viewport, directory.DefaultEndThreshold) {
			s.loadAsync(ctx)
		}
	case "refresh":
		s.loader.Reset()
		s.sendState()
		s.loadAsync(ctx)
	default:
		s.out.Send(ws.Error("unknown command %q", cmd.Type))
	}
}

// Close cancels any fetch in flight and waits for it to return.
func (s *DirectoryScreen) Close() error {
	s.loader.Close()
	s.wg.Wait()
	return nil
}

func (s *DirectoryScreen) loadAsync(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		out, err := s.loader.LoadNextPage(ctx)
		if err != nil {
			s.logger.Debug("load next page", "outcome", out.String(), "error", err)
		}
	}()
}

func (s *DirectoryScreen) sendState() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	st := s.loader.Snapshot()
	visible := directory.Search(st.Entries, st.SearchText)
	s.out.Send(ws.NewMessage("directory", "state", "", directoryView{
		Entries:    visible,
		Total:      len(st.Entries),
		NextPage:   st.NextPage,
		Loading:    st.Loading,
		HasMore:    st.HasMore,
		SearchText: st.SearchText,
		LastError:  st.LastError,
	}))
}
