// Package ui holds the seams between the managers and whatever front-end
// drives them: transient alerts, interactive confirmation, and the
// policy saying which operations need confirming.
package ui

// Alerter surfaces transient, user-facing notifications. Every failure
// caught at a manager boundary goes through here; none propagate to a
// global handler.
type Alerter interface {
	Successf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Confirmer asks the user to confirm a destructive operation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Operation identifies a destructive action subject to the confirmation
// policy.
type Operation string

const (
	OpDeleteList         Operation = "delete-list"
	OpDeleteTask         Operation = "delete-task"
	OpRemoveCollaborator Operation = "remove-collaborator"
)

// RequiresConfirmation is the confirmation policy, kept separate from
// the mutations so it can be checked without a UI harness.
func RequiresConfirmation(op Operation) bool {
	switch op {
	case OpDeleteList, OpDeleteTask, OpRemoveCollaborator:
		return true
	}
	return false
}
