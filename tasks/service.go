// Package tasks manages the tasks of a single list. The listing call
// returns the caller's effective role along with the tasks so the UI
// knows which controls to enable before anything is interactive, and
// every mutation refetches the collection.
package tasks

import (
	"fmt"
	"strings"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/errors"
	"github.com/bobinette/todonet/ui"
)

type Gateway interface {
	Get(path string, v interface{}) error
	Create(path string, body, v interface{}) error
	Patch(path string, body, v interface{}) error
	Remove(path string) error
}

// Listing is one fetch worth of state: the tasks and the effective role
// the backend computed for the caller on this list.
type Listing struct {
	Tasks []todonet.Task
	Role  todonet.Role
}

// Controls is the UI gating derived from the effective role. It is a
// hint: the backend stays the real gate.
type Controls struct {
	CanEdit   bool
	CanDelete bool
}

func ControlsFor(role todonet.Role) Controls {
	return Controls{
		CanEdit:   role.CanEdit(),
		CanDelete: role.CanDelete(),
	}
}

// Draft carries the editable fields of a task.
type Draft struct {
	Title    string
	Priority int
	DueDate  string
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

// List fetches the tasks of a list and the caller's access in a single
// payload.
func (s *Service) List(listID string) (Listing, error) {
	var res struct {
		Tasks  []todonet.Task `json:"tasks"`
		Access struct {
			Role string `json:"role"`
		} `json:"access"`
	}
	if err := s.gateway.Get(fmt.Sprintf("tasks/%s", listID), &res); err != nil {
		return Listing{}, err
	}

	return Listing{
		Tasks: res.Tasks,
		Role:  todonet.ParseRole(res.Access.Role),
	}, nil
}

// Create adds a task to the list and refetches. The title must be
// non-empty and the due date is promoted to a full timestamp before
// submission.
func (s *Service) Create(listID string, draft Draft) (Listing, error) {
	if strings.TrimSpace(draft.Title) == "" {
		err := errors.New("task title cannot be empty", errors.BadRequest())
		s.alerter.Errorf("Failed to add task: %v", err)
		return Listing{}, err
	}

	dueDate, err := NormalizeDueDate(draft.DueDate)
	if err != nil {
		s.alerter.Errorf("Failed to add task: %v", err)
		return Listing{}, err
	}

	payload := map[string]interface{}{
		"title":    draft.Title,
		"priority": draft.Priority,
		"dueDate":  dueDate,
	}
	if err := s.gateway.Create(fmt.Sprintf("tasks/%s", listID), payload, nil); err != nil {
		s.alerter.Errorf("Failed to add task: %v", err)
		return Listing{}, err
	}

	return s.List(listID)
}

// ToggleComplete flips a task's completion by patching only the status
// field: a completed task goes back to IN_PROGRESS, anything else
// becomes COMPLETED.
func (s *Service) ToggleComplete(listID, taskID string, currentlyCompleted bool) (Listing, error) {
	status := todonet.StatusCompleted
	if currentlyCompleted {
		status = todonet.StatusInProgress
	}

	payload := map[string]todonet.Status{"status": status}
	if err := s.gateway.Patch(fmt.Sprintf("tasks/%s/status", taskID), payload, nil); err != nil {
		s.alerter.Errorf("Failed to update task status: %v", err)
		return Listing{}, err
	}

	return s.List(listID)
}

// Update patches all editable fields of a task and refetches.
func (s *Service) Update(listID, taskID string, draft Draft) (Listing, error) {
	if strings.TrimSpace(draft.Title) == "" {
		err := errors.New("task title cannot be empty", errors.BadRequest())
		s.alerter.Errorf("Failed to update task: %v", err)
		return Listing{}, err
	}

	dueDate, err := NormalizeDueDate(draft.DueDate)
	if err != nil {
		s.alerter.Errorf("Failed to update task: %v", err)
		return Listing{}, err
	}

	payload := map[string]interface{}{
		"title":    draft.Title,
		"dueDate":  dueDate,
		"priority": draft.Priority,
	}
	if err := s.gateway.Patch(fmt.Sprintf("tasks/%s", taskID), payload, nil); err != nil {
		s.alerter.Errorf("Failed to update task: %v", err)
		return Listing{}, err
	}

	return s.List(listID)
}

// Delete removes a task after confirmation, then refetches. Declining
// the confirmation issues no mutation.
func (s *Service) Delete(listID, taskID string) (Listing, error) {
	if ui.RequiresConfirmation(ui.OpDeleteTask) {
		if !s.confirmer.Confirm("Delete this task? You won't be able to revert this.") {
			return s.List(listID)
		}
	}

	if err := s.gateway.Remove(fmt.Sprintf("tasks/%s", taskID)); err != nil {
		s.alerter.Errorf("Failed to delete task: %v", err)
		return Listing{}, err
	}

	s.alerter.Successf("Task deleted")
	return s.List(listID)
}
