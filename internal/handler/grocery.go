package handler

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/dukerupert/userbook/internal/grocery"
	"github.com/dukerupert/userbook/internal/model"
	"github.com/dukerupert/userbook/internal/notify"
	ws "github.com/dukerupert/userbook/internal/websocket"
)

type groceryView struct {
	Items    []model.GroceryItem `json:"items"`
	Filter   model.StatusFilter  `json:"filter"`
	Sort     model.SortKey       `json:"sort"`
	Total    int                 `json:"total"`
	Acquired int                 `json:"acquired"`
}

type rejectedInput struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// GroceryScreen owns one grocery list for one websocket connection. Commands
// arrive from a single read loop, so the screen needs no locking of its own.
type GroceryScreen struct {
	manager  *grocery.Manager
	out      ws.Sender
	notifier notify.Notifier
	logger   *slog.Logger
	filter   model.StatusFilter
	sort     model.SortKey
}

// NewGroceryScreenFactory returns a factory that opens an empty list per
// connection.
func NewGroceryScreenFactory(locale language.Tag, logger *slog.Logger) ws.ScreenFactory {
	return func(ctx context.Context, out ws.Sender) (ws.Screen, error) {
		m, err := grocery.NewManager(ctx, grocery.Config{Locale: locale, Logger: logger})
		if err != nil {
			return nil, err
		}
		return NewGroceryScreen(m, out, logger), nil
	}
}

func NewGroceryScreen(m *grocery.Manager, out ws.Sender, logger *slog.Logger) *GroceryScreen {
	return &GroceryScreen{
		manager: m,
		out:     out,
		notifier: notify.Func(func(n notify.Notification) {
			out.Send(ws.Alert(n))
		}),
		logger: logger,
		filter: model.FilterAll,
		sort:   model.SortByName,
	}
}

func (s *GroceryScreen) Start(ctx context.Context) {
	s.sendView()
}

func (s *GroceryScreen) Handle(ctx context.Context, cmd ws.Command) {
	switch cmd.Type {
	case "add":
		form := grocery.Form{Name: cmd.Name, Quantity: cmd.Quantity}
		item, err := form.Submit(s.manager, s.notifier)
		if err != nil {
			var ve *grocery.ValidationError
			if errors.As(err, &ve) {
				s.out.Send(ws.NewMessage("grocery", "rejected", "", rejectedInput{
					Field:    ve.Field,
					Message:  ve.Message,
					Name:     form.Name,
					Quantity: form.Quantity,
				}))
				return
			}
			s.fail("add item", err)
			return
		}
		s.out.Send(ws.NewMessage("grocery", "added", item.ID, item))
		s.sendView()
	case "toggle":
		if _, err := s.manager.ToggleAcquired(cmd.ID); err != nil {
			s.fail("toggle item", err)
			return
		}
		s.sendView()
	case "delete":
		if err := s.manager.DeleteItem(cmd.ID); err != nil {
			s.fail("delete item", err)
			return
		}
		s.sendView()
	case "view":
		filter, err := model.ParseStatusFilter(cmd.Filter)
		if err != nil {
			s.out.Send(ws.Error("%v", err))
			return
		}
		key, err := model.ParseSortKey(cmd.Sort)
		if err != nil {
			s.out.Send(ws.Error("%v", err))
			return
		}
		s.filter, s.sort = filter, key
		s.sendView()
	default:
		s.out.Send(ws.Error("unknown command %q", cmd.Type))
	}
}

func (s *GroceryScreen) Close() error {
	return s.manager.Close()
}

func (s *GroceryScreen) fail(op string, err error) {
	if errors.Is(err, grocery.ErrItemNotFound) {
		s.out.Send(ws.Error("%s: item not found", op))
		return
	}
	s.logger.Error(op, "error", err)
	s.out.Send(ws.Error("failed to %s", op))
}

func (s *GroceryScreen) sendView() {
	items, err := s.manager.View(s.filter, s.sort)
	if err != nil {
		s.fail("list items", err)
		return
	}
	total, acquired, err := s.manager.Counts()
	if err != nil {
		s.fail("count items", err)
		return
	}
	s.out.Send(ws.NewMessage("grocery", "view", "", groceryView{
		Items:    items,
		Filter:   s.filter,
		Sort:     s.sort,
		Total:    total,
		Acquired: acquired,
	}))
}
