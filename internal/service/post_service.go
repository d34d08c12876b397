package service

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/UkralStul/threaded-board/internal/domain"
	"github.com/UkralStul/threaded-board/internal/pkg/util"
	"github.com/UkralStul/threaded-board/internal/storage"
)

type PostService interface {
	Create(ctx context.Context, title, content, author string) (*domain.Post, error)
	List(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Post], error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, id int64, title, content string) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
}

type postServiceImpl struct {
	store storage.Storage
	opts  Options
}

func NewPostService(store storage.Storage, opts Options) PostService {
	return &postServiceImpl{store: store, opts: opts.withDefaults()}
}

func (s *postServiceImpl) Create(ctx context.Context, title, content, author string) (*domain.Post, error) {
	fields := make(map[string]string)
	util.ValidateField(fields, "title", title, "notblank,max=200")
	util.ValidateField(fields, "content", content, "notblank")
	util.ValidateField(fields, "author", author, "notblank,max=100")
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	now := s.opts.timestamp()
	post := &domain.Post{
		Title:     title,
		Content:   content,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		return tx.SavePost(ctx, post)
	})
	if err != nil {
		return nil, storeError(err)
	}

	log.InfoContext(ctx, "post created", "post_id", post.ID)
	return post, nil
}

// List clamps the request into range before querying: a negative page becomes
// 0, a non-positive size becomes the default and sizes above the maximum are
// cut down to it.
func (s *postServiceImpl) List(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Post], error) {
	if req.Page < 0 {
		req.Page = 0
	}
	if req.Size <= 0 {
		req.Size = s.opts.DefaultPageSize
	}
	if req.Size > s.opts.MaxPageSize {
		req.Size = s.opts.MaxPageSize
	}

	var page *domain.Page[*domain.Post]
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		page, err = tx.ListPosts(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *postServiceImpl) Get(ctx context.Context, id int64) (*domain.Post, error) {
	var post *domain.Post
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		post, err = postByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postServiceImpl) Update(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
	fields := make(map[string]string)
	util.ValidateField(fields, "title", title, "notblank,max=200")
	util.ValidateField(fields, "content", content, "notblank")
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var post *domain.Post
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		var err error
		post, err = postByID(ctx, tx, id)
		if err != nil {
			return err
		}

		post.Title = title
		post.Content = content
		// updatedAt never moves backwards
		if now := s.opts.timestamp(); now.After(post.UpdatedAt) {
			post.UpdatedAt = now
		}

		err = tx.UpdatePost(ctx, post)
		if errors.Is(err, storage.ErrNotFound) {
			return &NotFoundError{Entity: EntityPost, ID: id}
		}
		return err
	})
	if err != nil {
		return nil, storeError(err)
	}
	return post, nil
}

// Delete removes the post together with all of its comments and replies.
func (s *postServiceImpl) Delete(ctx context.Context, id int64) error {
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		post, err := postByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return tx.DeletePost(ctx, post)
	})
	if err != nil {
		return storeError(err)
	}

	log.InfoContext(ctx, "post deleted", "post_id", id)
	return nil
}
