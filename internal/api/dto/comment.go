package dto

import (
	"time"

	"github.com/UkralStul/threaded-board/internal/domain"

	"github.com/jinzhu/copier"
)

type CreateCommentRequest struct {
	Content string `json:"content" validate:"notblank"`
	Author  string `json:"author" validate:"notblank,max=100"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"notblank"`
}

type CommentResponse struct {
	ID        int64              `json:"id"`
	Content   string             `json:"content"`
	Author    string             `json:"author"`
	CreatedAt time.Time          `json:"createdAt"`
	Replies   []*CommentResponse `json:"replies" copier:"-"`
}

// NewCommentResponse projects a comment and its replies. Replies is always a
// list, empty when there are none.
func NewCommentResponse(c *domain.Comment) *CommentResponse {
	out := &CommentResponse{}
	_ = copier.Copy(out, c)
	out.Replies = NewCommentResponses(c.Replies)
	return out
}

func NewCommentResponses(comments []*domain.Comment) []*CommentResponse {
	out := make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewCommentResponse(c))
	}
	return out
}
