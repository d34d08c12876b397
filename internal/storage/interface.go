package storage

import (
	"context"
	"errors"

	"github.com/UkralStul/threaded-board/internal/domain"
)

var (
	// ErrNotFound возвращается, если записи с таким id нет.
	ErrNotFound = errors.New("storage: record not found")
	// ErrConstraint возвращается, если запись нарушает ограничение хранилища.
	ErrConstraint = errors.New("storage: constraint violation")
)

// Storage открывает единицы работы. Единица работы фиксируется, если fn
// вернула nil, и откатывается в остальных случаях.
type Storage interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Tx - доступ к данным внутри одной единицы работы. Один и тот же id в
// пределах одного Tx всегда дает один и тот же указатель.
type Tx interface {
	PostByID(ctx context.Context, id int64) (*domain.Post, error)
	SavePost(ctx context.Context, post *domain.Post) error
	UpdatePost(ctx context.Context, post *domain.Post) error
	// DeletePost удаляет пост вместе со всеми комментариями.
	DeletePost(ctx context.Context, post *domain.Post) error
	ListPosts(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Post], error)

	CommentByID(ctx context.Context, id int64) (*domain.Comment, error)
	SaveComment(ctx context.Context, comment *domain.Comment) error
	UpdateComment(ctx context.Context, comment *domain.Comment) error
	// DeleteComment удаляет комментарий и ответы на него.
	DeleteComment(ctx context.Context, comment *domain.Comment) error

	// TopLevelCommentsByPost возвращает корневые комментарии поста по
	// (created_at, id), у каждого заполнены Replies в том же порядке.
	TopLevelCommentsByPost(ctx context.Context, postID int64) ([]*domain.Comment, error)
	// RepliesByParentIDs загружает ответы для всех родителей за один запрос.
	RepliesByParentIDs(ctx context.Context, parentIDs []int64) (map[int64][]*domain.Comment, error)
}
