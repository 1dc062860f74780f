// Package users lists the user directory backing the invite picker.
package users

import (
	"github.com/bobinette/todonet"
)

type Gateway interface {
	Get(path string, v interface{}) error
}

type Service struct {
	gateway Gateway
}

func NewService(gateway Gateway) *Service {
	return &Service{
		gateway: gateway,
	}
}

// List returns all known users. An absent result (network failure at
// the gateway) comes back as an empty slice.
func (s *Service) List() ([]todonet.User, error) {
	var users []todonet.User
	if err := s.gateway.Get("users", &users); err != nil {
		return nil, err
	}

	return users, nil
}
