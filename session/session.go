// Package session owns the authenticated identity for the lifetime of
// the program: an explicit object with an init/teardown lifecycle
// instead of ambient reads of the credential store.
package session

import (
	"strings"

	"github.com/bobinette/todonet/errors"
	"github.com/bobinette/todonet/jwt"
	"github.com/bobinette/todonet/token"
)

// State is where the guard's check stands. A fresh session is Checking
// until Init resolves it one way or the other.
type State int

const (
	Checking State = iota
	Authenticated
	Unauthenticated
)

// Authenticator is the slice of the legacy client the session needs.
type Authenticator interface {
	Login(email, password string) (string, error)
	Signup(name, email, password string) (string, error)
}

type Session struct {
	tokens token.Store

	state  State
	userID string
}

func New(tokens token.Store) *Session {
	return &Session{
		tokens: tokens,
		state:  Checking,
	}
}

// Init resolves the session state from the credential store. Only the
// presence of a credential is checked; expiry is not validated.
func (s *Session) Init() error {
	tok, err := s.tokens.Read()
	if err != nil {
		s.state = Unauthenticated
		return err
	}

	if tok == "" {
		s.state = Unauthenticated
		s.userID = ""
		return nil
	}

	s.state = Authenticated
	s.userID = jwt.Subject(tok)
	return nil
}

// Teardown forgets the in-memory identity without touching the stored
// credential.
func (s *Session) Teardown() {
	s.state = Checking
	s.userID = ""
}

func (s *Session) State() State {
	return s.state
}

// UserID is the subject derived from the credential, or "" when the
// token is absent or unreadable.
func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) Token() (string, error) {
	return s.tokens.Read()
}

// Login validates presence of both fields, exchanges them for a token
// and stores it. An empty token back from the authenticator counts as a
// failed login.
func (s *Session) Login(auth Authenticator, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return errors.New("email and password are required", errors.BadRequest())
	}

	tok, err := auth.Login(email, password)
	if err != nil {
		return err
	}
	if tok == "" {
		return errors.New("login failed", errors.Unauthenticated())
	}

	if err := s.tokens.Save(tok); err != nil {
		return err
	}

	s.state = Authenticated
	s.userID = jwt.Subject(tok)
	return nil
}

// Signup registers an account and opens a session with the returned
// token.
func (s *Session) Signup(auth Authenticator, name, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return errors.New("email and password are required", errors.BadRequest())
	}

	tok, err := auth.Signup(name, email, password)
	if err != nil {
		return err
	}
	if tok == "" {
		return errors.New("signup failed", errors.Unauthenticated())
	}

	if err := s.tokens.Save(tok); err != nil {
		return err
	}

	s.state = Authenticated
	s.userID = jwt.Subject(tok)
	return nil
}

// Logout clears the stored credential and the in-memory identity.
func (s *Session) Logout() error {
	if err := s.tokens.Clear(); err != nil {
		return err
	}

	s.state = Unauthenticated
	s.userID = ""
	return nil
}
