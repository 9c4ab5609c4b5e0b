package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is an unexpected HTTP status with the server's detail, if any.
type StatusError struct {
	Code   int
	Detail []string
}

func (e *StatusError) Error() string {
	if len(e.Detail) == 0 {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, strings.Join(e.Detail, "; "))
}
