// Package memberships manages the collaborators of a list and their
// roles. Every mutation is followed by a full refetch rather than a
// local patch: membership state gates further actions, so stale local
// state would be an authorization hazard, not a display glitch.
package memberships

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

// membershipRecord is the raw backend shape, with the user nested and
// the role upper-cased.
type membershipRecord struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// List fetches the collaborators of a list. Roles are normalized to
// lowercase, and when the backend provides no display name the local
// part of the email stands in.
func (s *Service) List(listID string) ([]todonet.Collaborator, error) {
	var records []membershipRecord
	if err := s.gateway.Get(fmt.Sprintf("memberships/%s", listID), &records); err != nil {
		return nil, err
	}

	collaborators := make([]todonet.Collaborator, len(records))
	for i, record := range records {
		name := record.User.Name
		if name == "" {
			name = localPart(record.User.Email)
		}

		collaborators[i] = todonet.Collaborator{
			MembershipID: record.ID,
			UserID:       record.User.ID,
			Name:         name,
			Email:        record.User.Email,
			Role:         todonet.ParseRole(record.Role),
		}
	}

	return collaborators, nil
}

// CanModify reports whether the collaborator's membership may be
// changed or removed through the client. Owner memberships are
// immutable here; the backend is still the authority.
func CanModify(c todonet.Collaborator) bool {
	return c.Role != todonet.RoleOwner
}

// Invite adds a user to the list by email with a role, then refetches.
func (s *Service) Invite(listID, email string, role todonet.Role) ([]todonet.Collaborator, error) {
	if strings.TrimSpace(email) == "" || role == "" {
		err := errors.New("email and role are required", errors.BadRequest())
		s.alerter.Errorf("Invitation failed: %v", err)
		return nil, err
	}

	payload := map[string]string{
		"email": email,
		"role":  role.Wire(),
	}
	if err := s.gateway.Create(fmt.Sprintf("memberships/%s", listID), payload, nil); err != nil {
		s.alerter.Errorf("Invitation failed: %v", err)
		return nil, err
	}

	s.alerter.Successf("User invited")
	return s.List(listID)
}

// ChangeRole moves a collaborator between editor and viewer. The owner
// role is never settable through this path.
func (s *Service) ChangeRole(listID, membershipID string, role todonet.Role) ([]todonet.Collaborator, error) {
	if role != todonet.RoleEditor && role != todonet.RoleViewer {
		err := errors.New(fmt.Sprintf("role must be editor or viewer, got %q", role), errors.BadRequest())
		s.alerter.Errorf("Failed to change role: %v", err)
		return nil, err
	}

	payload := map[string]string{"role": role.Wire()}
	if err := s.gateway.Patch(fmt.Sprintf("memberships/%s/%s", listID, membershipID), payload, nil); err != nil {
		s.alerter.Errorf("Failed to change role: %v", err)
		return nil, err
	}

	s.alerter.Successf("Role updated")
	return s.List(listID)
}

// Remove kicks a collaborator after confirmation, then refetches. A
// declined confirmation issues no mutation.
func (s *Service) Remove(listID, membershipID string) ([]todonet.Collaborator, error) {
	if ui.RequiresConfirmation(ui.OpRemoveCollaborator) {
		if !s.confirmer.Confirm("Remove this collaborator? You won't be able to revert this.") {
			return s.List(listID)
		}
	}

	if err := s.gateway.Remove(fmt.Sprintf("memberships/%s/%s", listID, membershipID)); err != nil {
		s.alerter.Errorf("Failed to remove collaborator: %v", err)
		return nil, err
	}

	s.alerter.Successf("Collaborator removed")
	return s.List(listID)
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
