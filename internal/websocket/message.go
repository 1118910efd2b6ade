package websocket

import "fmt"

// Message is a server-to-client frame.
type Message struct {
	Type   string `json:"type"`
	Entity string `json:"entity,omitempty"`
	Action string `json:"action,omitempty"`
	ID     string `json:"id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action, id string, data any) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Data:   data,
	}
}

// Alert wraps a user-facing notification.
func Alert(data any) Message {
	return Message{Type: "alert", Data: data}
}

// Error reports a rejected command back to the client.
func Error(format string, args ...any) Message {
	return Message{Type: "error", Data: map[string]string{"message": fmt.Sprintf(format, args...)}}
}

// Command is a client-to-server frame. Only the fields relevant to Type are
// set.
type Command struct {
	Type string `json:"type"`

	// directory
	Query    string `json:"query,omitempty"`
	Offset   int    `json:"offset,omitempty"`
	Viewport int    `json:"viewport,omitempty"`

	// grocery
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Quantity string `json:"quantity,omitempty"`
	Filter   string `json:"filter,omitempty"`
	Sort     string `json:"sort,omitempty"`
}
