package backend

import (
	"errors"
	"fmt"
)

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 512

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("backend http error: status=%d: %s", e.StatusCode, e.Message)
}

// SchemaError reports a response that does not match the expected schema.
// Index is the offending item of a list, or -1.
type SchemaError struct {
	Index int
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("backend schema error: item %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("backend schema error: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
