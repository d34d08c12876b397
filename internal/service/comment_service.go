package service

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/UkralStul/threaded-board/internal/domain"
	"github.com/UkralStul/threaded-board/internal/pkg/util"
	"github.com/UkralStul/threaded-board/internal/storage"
)

type CommentService interface {
	CreateComment(ctx context.Context, postID int64, content, author string) (*domain.Comment, error)
	CreateReply(ctx context.Context, parentID int64, content, author string) (*domain.Comment, error)
	List(ctx context.Context, postID int64) ([]*domain.Comment, error)
	Update(ctx context.Context, id int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type commentServiceImpl struct {
	store storage.Storage
	opts  Options
}

func NewCommentService(store storage.Storage, opts Options) CommentService {
	return &commentServiceImpl{store: store, opts: opts.withDefaults()}
}

func validateComment(content, author string) error {
	fields := make(map[string]string)
	util.ValidateField(fields, "content", content, "notblank")
	util.ValidateField(fields, "author", author, "notblank,max=100")
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CreateComment adds a top-level comment to the post.
func (s *commentServiceImpl) CreateComment(ctx context.Context, postID int64, content, author string) (*domain.Comment, error) {
	if err := validateComment(content, author); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		Content:   content,
		Author:    author,
		CreatedAt: s.opts.timestamp(),
		PostID:    postID,
	}
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		if _, err := postByID(ctx, tx, postID); err != nil {
			return err
		}
		return tx.SaveComment(ctx, comment)
	})
	if err != nil {
		return nil, storeError(err)
	}

	comment.Replies = []*domain.Comment{}
	log.InfoContext(ctx, "comment created", "comment_id", comment.ID, "post_id", postID)
	return comment, nil
}

// CreateReply answers a top-level comment. Replies cannot be answered.
func (s *commentServiceImpl) CreateReply(ctx context.Context, parentID int64, content, author string) (*domain.Comment, error) {
	if err := validateComment(content, author); err != nil {
		return nil, err
	}

	var reply *domain.Comment
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		parent, err := commentByID(ctx, tx, parentID)
		if err != nil {
			return err
		}
		if !parent.IsTopLevel() {
			return ErrReplyDepthExceeded
		}

		pid := parent.ID
		reply = &domain.Comment{
			Content:   content,
			Author:    author,
			CreatedAt: s.opts.timestamp(),
			PostID:    parent.PostID,
			ParentID:  &pid,
		}
		return tx.SaveComment(ctx, reply)
	})
	if err != nil {
		return nil, storeError(err)
	}

	reply.Replies = []*domain.Comment{}
	log.InfoContext(ctx, "reply created", "comment_id", reply.ID, "parent_id", parentID)
	return reply, nil
}

// List returns the top-level comments of a post, oldest first, each carrying
// its replies in the same order. An unknown post yields an empty list unless
// StrictPostLookup is set.
func (s *commentServiceImpl) List(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	var roots []*domain.Comment
	err := s.store.View(ctx, func(tx storage.Tx) error {
		if s.opts.StrictPostLookup {
			if _, err := postByID(ctx, tx, postID); err != nil {
				return err
			}
		}
		var err error
		roots, err = tx.TopLevelCommentsByPost(ctx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// Update rewrites the content of a comment and returns it with its replies.
func (s *commentServiceImpl) Update(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	fields := make(map[string]string)
	util.ValidateField(fields, "content", content, "notblank")
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var comment *domain.Comment
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		var err error
		comment, err = commentByID(ctx, tx, id)
		if err != nil {
			return err
		}

		comment.Content = content
		err = tx.UpdateComment(ctx, comment)
		if errors.Is(err, storage.ErrNotFound) {
			return &NotFoundError{Entity: EntityComment, ID: id}
		}
		if err != nil {
			return err
		}

		comment.Replies = []*domain.Comment{}
		if !comment.IsTopLevel() {
			return nil
		}
		replies, err := tx.RepliesByParentIDs(ctx, []int64{comment.ID})
		if err != nil {
			return err
		}
		if r := replies[comment.ID]; r != nil {
			comment.Replies = r
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return comment, nil
}

// Delete removes a comment. Deleting a top-level comment removes its replies.
func (s *commentServiceImpl) Delete(ctx context.Context, id int64) error {
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		comment, err := commentByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return tx.DeleteComment(ctx, comment)
	})
	if err != nil {
		return storeError(err)
	}

	log.InfoContext(ctx, "comment deleted", "comment_id", id)
	return nil
}
