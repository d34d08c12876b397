package dto

import (
	"testing"
	"time"

	"github.com/UkralStul/threaded-board/internal/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNewCommentResponse_RepliesAlwaysList(t *testing.T) {
	parentID := int64(1)
	c := &domain.Comment{
		ID: 1, Content: "root", Author: "bob", CreatedAt: t0,
		Replies: []*domain.Comment{{ID: 2, Content: "reply", Author: "eve", CreatedAt: t0, ParentID: &parentID}},
	}

	out := NewCommentResponse(c)
	assert.Equal(t, "root", out.Content)
	require.Len(t, out.Replies, 1)
	assert.Equal(t, int64(2), out.Replies[0].ID)
	assert.NotNil(t, out.Replies[0].Replies)

	raw, err := json.Marshal(out.Replies[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"replies":[]`)
}

func TestNewPostListResponse_OmitsContent(t *testing.T) {
	p := &domain.Post{ID: 3, Title: "t", Content: "secret body", Author: "a", CreatedAt: t0, UpdatedAt: t0}

	raw, err := json.Marshal(NewPostListResponse(p))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret body")
	assert.Contains(t, string(raw), `"title":"t"`)

	full := NewPostResponse(p)
	assert.Equal(t, "secret body", full.Content)
	assert.Equal(t, t0, full.UpdatedAt)
}

func TestNewPageResponse(t *testing.T) {
	page := domain.NewPage([]*domain.Post{{ID: 1}, {ID: 2}}, 5, domain.PageRequest{Page: 0, Size: 2})

	out := NewPageResponse(page, NewPostListResponse)
	assert.Len(t, out.Content, 2)
	assert.Equal(t, int64(5), out.TotalElements)
	assert.Equal(t, 3, out.TotalPages)
	assert.Equal(t, 2, out.Size)
}
