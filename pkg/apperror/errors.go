package apperror

import (
	"errors"
	"fmt"
)

// ErrInvalidVote is returned when a vote value is outside {+1, -1}
var ErrInvalidVote = errors.New("vote value must be 1 or -1")

// ConfigurationError blocks a turn, e.g. when an app has no active semantic model
type ConfigurationError struct {
	AppID  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("app %d is not configured: %s", e.AppID, e.Reason)
}

// NotFoundError reports a missing registry row or conversation element
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

// PersistenceError wraps any durable store failure (bookmark, vote, log, registry)
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a *PersistenceError, keeping nil as nil
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
