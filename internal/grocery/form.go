package grocery

import (
	"errors"

	"github.com/dukerupert/userbook/internal/model"
	"github.com/dukerupert/userbook/internal/notify"
)

const (
	ValidationAlertTitle   = "Validation Error"
	ValidationAlertMessage = "Please enter valid name and quantity."
)

// Form holds the add-item inputs. Fields are cleared after a successful
// submit and kept after a rejected one so the user can correct them.
type Form struct {
	Name     string
	Quantity string
}

// Submit adds the form's item to m. Validation failures are announced on n.
func (f *Form) Submit(m *Manager, n notify.Notifier) (*model.GroceryItem, error) {
	item, err := m.AddItem(f.Name, f.Quantity)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) && n != nil {
			n.Notify(notify.Notification{
				Level:   notify.LevelError,
				Title:   ValidationAlertTitle,
				Message: ValidationAlertMessage,
			})
		}
		return nil, err
	}
	f.Name = ""
	f.Quantity = ""
	return item, nil
}
