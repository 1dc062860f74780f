// Package token persists the bearer credential proving authenticated
// identity. It is the localStorage of the CLI: one opaque string under a
// fixed key, written at login, read on every authenticated request,
// cleared at logout. No expiry or refresh logic lives here.
package token

// Store holds at most one credential.
type Store interface {
	// Save overwrites the stored credential.
	Save(token string) error
	// Read returns the stored credential, or "" when absent.
	Read() (string, error)
	// Clear removes the stored credential. Clearing an empty store is
	// not an error.
	Clear() error
}
