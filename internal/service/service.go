package service

import (
	"context"
	"errors"
	"time"

	"github.com/UkralStul/threaded-board/internal/domain"
	"github.com/UkralStul/threaded-board/internal/storage"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Options tunes the services. Zero values fall back to the defaults above and
// to time.Now.
type Options struct {
	Now              func() time.Time
	DefaultPageSize  int
	MaxPageSize      int
	StrictPostLookup bool
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = DefaultPageSize
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = MaxPageSize
	}
	if o.DefaultPageSize > o.MaxPageSize {
		o.DefaultPageSize = o.MaxPageSize
	}
	return o
}

// timestamp is the current time as stored: UTC, microsecond precision.
func (o Options) timestamp() time.Time {
	return o.Now().UTC().Truncate(time.Microsecond)
}

func postByID(ctx context.Context, tx storage.Tx, id int64) (*domain.Post, error) {
	p, err := tx.PostByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: EntityPost, ID: id}
	}
	return p, err
}

func commentByID(ctx context.Context, tx storage.Tx, id int64) (*domain.Comment, error) {
	c, err := tx.CommentByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Entity: EntityComment, ID: id}
	}
	return c, err
}

// storeError turns constraint violations into conflicts; everything else is
// returned untouched.
func storeError(err error) error {
	if errors.Is(err, storage.ErrConstraint) {
		return &ConflictError{Reason: "request conflicts with the current state of the board"}
	}
	return err
}
