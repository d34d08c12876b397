package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NotFoundError reports a missing post or comment.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Entity, e.ID)
}

// ValidationError maps field names to the reason each one was rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// InvalidOperationError is returned when a request is well formed but breaks
// a structural rule of the board.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string { return e.Reason }

// ConflictError is returned when a write collides with existing state.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// ErrReplyDepthExceeded rejects a reply to a reply.
var ErrReplyDepthExceeded = &InvalidOperationError{Reason: "reply depth exceeded"}

const (
	EntityPost    = "Post"
	EntityComment = "Comment"
)

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
