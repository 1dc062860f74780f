package todonet

import "strings"

// Role is the permission level a user holds on a todo list. The backend
// computes it per request; the client only ever caches it for the lifetime
// of the current view.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ParseRole normalizes a role coming from the backend, which sends its
// enum upper-cased (OWNER, EDITOR, VIEWER).
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Wire returns the role as the backend expects it.
func (r Role) Wire() string {
	return strings.ToUpper(string(r))
}

// CanEdit reports whether the role allows edit-class actions on tasks:
// create, update, toggle completion.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// CanDelete reports whether the role allows delete-class actions: deleting
// tasks, deleting the list, managing collaborators.
func (r Role) CanDelete() bool {
	return r == RoleOwner
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TodoList is a named collection of tasks with one owner and zero or more
// collaborators. The backend calls these "todo apps".
type TodoList struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"ownerId"`
}

type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   Status `json:"status"`
	DueDate  string `json:"dueDate"`
	Priority int    `json:"priority"`
}

// Completed maps the status enum onto the boolean the UI reasons with.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Collaborator is a membership as the client sees it: the association
// between a user and a list, carrying a role.
type Collaborator struct {
	MembershipID string `json:"membershipId"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
}

// Access is the effective role the backend computed for the requesting
// user against a specific list, returned alongside task data.
type Access struct {
	Role Role `json:"role"`
}

// Mission is a record on the legacy surface, authenticated with the
// token + api-key header pair rather than a bearer token.
type Mission struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Description string `json:"description"`
	JoinLink    string `json:"joinLink"`
}

// Notification is an inbound event on the realtime channel.
type Notification struct {
	Text string `json:"text"`
}
