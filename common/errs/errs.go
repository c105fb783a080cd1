package errs

import (
	"errors"
	"fmt"
)

// Core error kinds. Stores and guards return these (possibly wrapped) so the
// HTTP layer can map them to status codes without inspecting messages.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
)

type HttpError struct {
	Code    int
	Message string
	Data    any
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}
