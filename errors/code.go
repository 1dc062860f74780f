package errors

import (
	"net/http"
)

func BadRequest() ErrorEnricher      { return WithCode(http.StatusBadRequest) }
func Unauthenticated() ErrorEnricher { return WithCode(http.StatusUnauthorized) }
func Forbidden() ErrorEnricher       { return WithCode(http.StatusForbidden) }
func NotFound() ErrorEnricher        { return WithCode(http.StatusNotFound) }

// IsUnauthenticated reports whether err carries the pre-flight
// missing-credential code.
func IsUnauthenticated(err error) bool {
	return CodeOf(err) == http.StatusUnauthorized
}
