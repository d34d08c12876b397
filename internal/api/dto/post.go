package dto

import (
	"time"

	"github.com/UkralStul/threaded-board/internal/domain"

	"github.com/jinzhu/copier"
)

type CreatePostRequest struct {
	Title   string `json:"title" validate:"notblank,max=200"`
	Content string `json:"content" validate:"notblank"`
	Author  string `json:"author" validate:"notblank,max=100"`
}

// UpdatePostRequest carries no author: the author of a post never changes.
type UpdatePostRequest struct {
	Title   string `json:"title" validate:"notblank,max=200"`
	Content string `json:"content" validate:"notblank"`
}

type PostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostListResponse is the listing view of a post, without its content.
type PostListResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewPostResponse(post *domain.Post) *PostResponse {
	out := &PostResponse{}
	_ = copier.Copy(out, post)
	return out
}

func NewPostListResponse(post *domain.Post) *PostListResponse {
	out := &PostListResponse{}
	_ = copier.Copy(out, post)
	return out
}
