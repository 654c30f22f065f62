package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned both for missing posts and for drafts the
	// caller may not see, so the two cases are indistinguishable.
	ErrNotFound = errors.New("post not found")
	// ErrForbidden is returned when the caller is not the post's author.
	ErrForbidden = errors.New("only the author may modify this post")
	// ErrConflict is returned when an update's expected updated_at no longer
	// matches the stored post.
	ErrConflict = errors.New("post was modified since it was read")
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

// BackendError wraps a failure of the underlying PostStore.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendError(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}
