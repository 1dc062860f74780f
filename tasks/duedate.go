package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobinette/todonet/errors"
)

// NormalizeDueDate promotes a local date input (2006-01-02) to an ISO
// instant at midnight UTC. Full timestamps pass through re-rendered in
// UTC; an empty input stays empty.
func NormalizeDueDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}

	return "", errors.New(fmt.Sprintf("invalid due date %q", s), errors.BadRequest())
}
