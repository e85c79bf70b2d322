package github

import (
	"errors"
	"fmt"
)

// ErrNetwork is matched by every failure to reach GitHub or to get a
// successful response from it.
var ErrNetwork = errors.New("github request failed")

// StatusError captures non-2xx responses from the GitHub API.
type StatusError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return fmt.Sprintf("%s request failed: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Is reports whether target is ErrNetwork.
func (e *StatusError) Is(target error) bool {
	return target == ErrNetwork
}
