package dto

import "github.com/UkralStul/threaded-board/internal/domain"

// PageResponse is the JSON view of one page of a listing.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// NewPageResponse maps every item of page through project.
func NewPageResponse[E, T any](page *domain.Page[E], project func(E) T) *PageResponse[T] {
	content := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		content = append(content, project(item))
	}
	return &PageResponse[T]{
		Content:       content,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Number:        page.Number,
		Size:          page.Size,
	}
}
