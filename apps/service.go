// Package apps manages the top-level todo lists, which the backend
// exposes as "todo-apps".
package apps

import (
	"fmt"
	"strings"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/errors"
	"github.com/bobinette/todonet/ui"
)

// Gateway is the slice of the API client this manager needs.
type Gateway interface {
	Get(path string, v interface{}) error
	Create(path string, body, v interface{}) error
	Remove(path string) error
}

type Service struct {
	gateway   Gateway
	alerter   ui.Alerter
	confirmer ui.Confirmer
}

func NewService(gateway Gateway, alerter ui.Alerter, confirmer ui.Confirmer) *Service {
	return &Service{
		gateway:   gateway,
		alerter:   alerter,
		confirmer: confirmer,
	}
}

// listRecord is the raw backend shape: the name field becomes the
// list's title.
type listRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
}

// List fetches all lists visible to the current user.
func (s *Service) List() ([]todonet.TodoList, error) {
	var records []listRecord
	if err := s.gateway.Get("todo-apps", &records); err != nil {
		return nil, err
	}

	lists := make([]todonet.TodoList, len(records))
	for i, record := range records {
		lists[i] = todonet.TodoList{
			ID:      record.ID,
			Title:   record.Name,
			OwnerID: record.OwnerID,
		}
	}

	return lists, nil
}

// Create makes a new list and refetches the collection. There is no
// optimistic insert: the returned slice is the server's truth.
func (s *Service) Create(name string) ([]todonet.TodoList, error) {
	if strings.TrimSpace(name) == "" {
		err := errors.New("list name cannot be empty", errors.BadRequest())
		s.alerter.Errorf("Failed to create list: %v", err)
		return nil, err
	}

	payload := map[string]string{"name": name}
	if err := s.gateway.Create("todo-apps", payload, nil); err != nil {
		s.alerter.Errorf("Failed to create list: %v", err)
		return nil, err
	}

	s.alerter.Successf("New list created")
	return s.List()
}

// CanDelete reports whether userID may delete the list. Only the owner
// can; the backend enforces this too, this only drives the UI control.
func CanDelete(list todonet.TodoList, userID string) bool {
	return userID != "" && list.OwnerID == userID
}

// Delete removes a list after confirmation and refetches. A declined
// confirmation returns the lists unchanged, with no mutation issued.
func (s *Service) Delete(list todonet.TodoList, userID string) ([]todonet.TodoList, error) {
	if !CanDelete(list, userID) {
		err := errors.New(fmt.Sprintf("only the owner can delete %q", list.Title), errors.Forbidden())
		s.alerter.Errorf("Failed to delete list: %v", err)
		return nil, err
	}

	if ui.RequiresConfirmation(ui.OpDeleteList) {
		if !s.confirmer.Confirm(fmt.Sprintf("Delete list %q? You won't be able to revert this.", list.Title)) {
			return s.List()
		}
	}

	if err := s.gateway.Remove(fmt.Sprintf("todo-apps/%s", list.ID)); err != nil {
		s.alerter.Errorf("Failed to delete list: %v", err)
		return nil, err
	}

	s.alerter.Successf("List deleted")
	return s.List()
}
