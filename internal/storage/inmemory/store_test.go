package inmemory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/UkralStul/threaded-board/internal/domain"
	"github.com/UkralStul/threaded-board/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestStore creates a store holding one post.
func newTestStore(t *testing.T) (*Store, *domain.Post) {
	store := New()
	post := &domain.Post{Title: "Test Post", Content: "Content", Author: "alice", CreatedAt: t0, UpdatedAt: t0}
	err := store.Update(context.Background(), func(tx storage.Tx) error {
		return tx.SavePost(context.Background(), post)
	})
	require.NoError(t, err)
	return store, post
}

func addComment(t *testing.T, store *Store, c *domain.Comment) *domain.Comment {
	err := store.Update(context.Background(), func(tx storage.Tx) error {
		return tx.SaveComment(context.Background(), c)
	})
	require.NoError(t, err)
	return c
}

func TestStore_CreateAndGetPost(t *testing.T) {
	store, post := newTestStore(t)
	ctx := context.Background()
	assert.Equal(t, int64(1), post.ID)

	err := store.View(ctx, func(tx storage.Tx) error {
		got, err := tx.PostByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test Post", got.Title)

		again, err := tx.PostByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Same(t, got, again)

		_, err = tx.PostByID(ctx, 999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ReturnedEntitiesAreCopies(t *testing.T) {
	store, post := newTestStore(t)
	ctx := context.Background()

	post.Title = "mutated outside"
	err := store.View(ctx, func(tx storage.Tx) error {
		got, err := tx.PostByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test Post", got.Title)
		got.Title = "mutated inside"
		return nil
	})
	require.NoError(t, err)

	err = store.View(ctx, func(tx storage.Tx) error {
		got, err := tx.PostByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test Post", got.Title)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_RollbackOnError(t *testing.T) {
	store, post := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Update(ctx, func(tx storage.Tx) error {
		p, err := tx.PostByID(ctx, post.ID)
		require.NoError(t, err)
		p.Title = "changed"
		require.NoError(t, tx.UpdatePost(ctx, p))
		require.NoError(t, tx.SaveComment(ctx, &domain.Comment{PostID: post.ID, Content: "c", Author: "bob", CreatedAt: t0}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.View(ctx, func(tx storage.Tx) error {
		p, err := tx.PostByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test Post", p.Title)

		roots, err := tx.TopLevelCommentsByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, roots)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_CancelledBeforeCommit(t *testing.T) {
	store, post := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := store.Update(ctx, func(tx storage.Tx) error {
		cancel()
		return tx.SavePost(ctx, &domain.Post{Title: "late", Content: "x", Author: "a", CreatedAt: t0, UpdatedAt: t0})
	})
	assert.ErrorIs(t, err, context.Canceled)

	err = store.View(context.Background(), func(tx storage.Tx) error {
		page, err := tx.ListPosts(context.Background(), domain.PageRequest{Size: 10})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, post.ID, page.Items[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_IDsAreNotReused(t *testing.T) {
	store, post := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx storage.Tx) error {
		return tx.DeletePost(ctx, post)
	}))

	next := &domain.Post{Title: "second", Content: "x", Author: "a", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, store.Update(ctx, func(tx storage.Tx) error {
		return tx.SavePost(ctx, next)
	}))
	assert.Equal(t, int64(2), next.ID)
}

func TestStore_ViewRejectsWrites(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.View(context.Background(), func(tx storage.Tx) error {
		return tx.SavePost(context.Background(), &domain.Post{Title: "x"})
	})
	assert.Error(t, err)
}

func TestStore_CreateComment_Constraints(t *testing.T) {
	store, post := newTestStore(t)
	ctx := context.Background()

	missingParent := int64(42)
	cases := []*domain.Comment{
		{PostID: 999, Content: "orphan", Author: "bob", CreatedAt: t0},
		{PostID: post.ID, ParentID: &missingParent, Content: "orphan", Author: "bob", CreatedAt: t0},
		{PostID: post.ID, Content: "long author", Author: strings.Repeat("a", 101), CreatedAt: t0},
	}
	for _, c := range cases {
		err := store.Update(ctx, func(tx storage.Tx) error {
			return tx.SaveComment(ctx, c)
		})
		assert.ErrorIs(t, err, storage.ErrConstraint)
	}
}

func TestStore_TopLevelCommentsWithReplies(t *testing.T) {
	store, post := newTestStore(t)
	ctx := context.Background()

	c1 := addComment(t, store, &domain.Comment{PostID: post.ID, Content: "C1", Author: "bob", CreatedAt: t0.Add(time.Minute)})
	c2 := addComment(t, store, &domain.Comment{PostID: post.ID, Content: "C2", Author: "bob", CreatedAt: t0})
	addComment(t, store, &domain.Comment{PostID: post.ID, ParentID: &c1.ID, Content: "R2", Author: "eve", CreatedAt: t0.Add(3 * time.Minute)})
	addComment(t, store, &domain.Comment{PostID: post.ID, ParentID: &c1.ID, Content: "R1", Author: "eve", CreatedAt: t0.Add(2 * time.Minute)})

	err := store.View(ctx, func(tx storage.Tx) error {
		roots, err := tx.TopLevelCommentsByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, roots, 2)
		assert.Equal(t, c2.ID, roots[0].ID)
		assert.Equal(t, c1.ID, roots[1].ID)

		assert.NotNil(t, roots[0].Replies)
		assert.Empty(t, roots[0].Replies)
		require.Len(t, roots[1].Replies, 2)
		assert.Equal(t, "R1", roots[1].Replies[0].Content)
		assert.Equal(t, "R2", roots[1].Replies[1].Content)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_DeletePostCascades(t *testing.T) {
	store, post := newTestStore(t)
	ctx := context.Background()

	c := addComment(t, store, &domain.Comment{PostID: post.ID, Content: "C", Author: "bob", CreatedAt: t0})
	r := addComment(t, store, &domain.Comment{PostID: post.ID, ParentID: &c.ID, Content: "R", Author: "bob", CreatedAt: t0})

	require.NoError(t, store.Update(ctx, func(tx storage.Tx) error {
		p, err := tx.PostByID(ctx, post.ID)
		if err != nil {
			return err
		}
		return tx.DeletePost(ctx, p)
	}))

	err := store.View(ctx, func(tx storage.Tx) error {
		_, err := tx.PostByID(ctx, post.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = tx.CommentByID(ctx, c.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = tx.CommentByID(ctx, r.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_DeleteCommentCascadesToReplies(t *testing.T) {
	store, post := newTestStore(t)
	ctx := context.Background()

	c := addComment(t, store, &domain.Comment{PostID: post.ID, Content: "C", Author: "bob", CreatedAt: t0})
	r := addComment(t, store, &domain.Comment{PostID: post.ID, ParentID: &c.ID, Content: "R", Author: "bob", CreatedAt: t0})
	other := addComment(t, store, &domain.Comment{PostID: post.ID, Content: "other", Author: "bob", CreatedAt: t0})

	require.NoError(t, store.Update(ctx, func(tx storage.Tx) error {
		got, err := tx.CommentByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if err := tx.DeleteComment(ctx, got); err != nil {
			return err
		}
		// evicted from the unit of work as well
		_, err = tx.CommentByID(ctx, r.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		return nil
	}))

	err := store.View(ctx, func(tx storage.Tx) error {
		roots, err := tx.TopLevelCommentsByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, roots, 1)
		assert.Equal(t, other.ID, roots[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ListPosts_Pagination(t *testing.T) {
	store := New()
	ctx := context.Background()

	titles := []string{"b", "a", "c", "e", "d"}
	require.NoError(t, store.Update(ctx, func(tx storage.Tx) error {
		for i, title := range titles {
			at := t0.Add(time.Duration(i) * time.Second)
			if err := tx.SavePost(ctx, &domain.Post{Title: title, Content: "x", Author: "a", CreatedAt: at, UpdatedAt: at}); err != nil {
				return err
			}
		}
		return nil
	}))

	err := store.View(ctx, func(tx storage.Tx) error {
		// default sort is newest id first
		page, err := tx.ListPosts(ctx, domain.PageRequest{Page: 0, Size: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.TotalElements)
		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, page.Items, 2)
		assert.Equal(t, int64(5), page.Items[0].ID)
		assert.Equal(t, int64(4), page.Items[1].ID)

		byTitle, err := tx.ListPosts(ctx, domain.PageRequest{Page: 1, Size: 2, Sort: []domain.SortOrder{{Property: "title", Direction: domain.Asc}}})
		require.NoError(t, err)
		require.Len(t, byTitle.Items, 2)
		assert.Equal(t, "c", byTitle.Items[0].Title)
		assert.Equal(t, "d", byTitle.Items[1].Title)

		beyond, err := tx.ListPosts(ctx, domain.PageRequest{Page: 10, Size: 2})
		require.NoError(t, err)
		assert.Empty(t, beyond.Items)
		assert.Equal(t, int64(5), beyond.TotalElements)

		// page*size does not fit an int
		huge, err := tx.ListPosts(ctx, domain.PageRequest{Page: 461168601842738791, Size: 20})
		require.NoError(t, err)
		assert.Empty(t, huge.Items)
		assert.Equal(t, int64(5), huge.TotalElements)
		return nil
	})
	require.NoError(t, err)
}
