package token

import "sync"

// InMemStore keeps the credential in memory. It backs tests and
// short-lived sessions that should not touch the disk.
type InMemStore struct {
	mu    sync.Mutex
	token string
}

func NewInMemStore() *InMemStore {
	return &InMemStore{}
}

func (s *InMemStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *InMemStore) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *InMemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
