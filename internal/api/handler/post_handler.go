package handler

import (
	"net/http"

	"github.com/UkralStul/threaded-board/internal/api/dto"
	"github.com/UkralStul/threaded-board/internal/api/response"
	"github.com/UkralStul/threaded-board/internal/service"
)

type PostHandler struct {
	posts      service.PostService
	pagination Pagination
}

func NewPostHandler(posts service.PostService, pagination Pagination) *PostHandler {
	return &PostHandler{posts: posts, pagination: pagination}
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req dto.CreatePostRequest
	if err := bindJSON(w, r, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(r.Context(), req.Title, req.Content, req.Author)
	if err != nil {
		return err
	}
	response.JSON(w, http.StatusCreated, dto.NewPostResponse(post))
	return nil
}

// List handles GET /api/posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) error {
	pageReq, err := h.pagination.Bind(r)
	if err != nil {
		return err
	}

	page, err := h.posts.List(r.Context(), pageReq)
	if err != nil {
		return err
	}
	response.JSON(w, http.StatusOK, dto.NewPageResponse(page, dto.NewPostListResponse))
	return nil
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		return err
	}
	response.JSON(w, http.StatusOK, dto.NewPostResponse(post))
	return nil
}

// Update handles PUT /api/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePostRequest
	if err := bindJSON(w, r, &req); err != nil {
		return err
	}

	post, err := h.posts.Update(r.Context(), id, req.Title, req.Content)
	if err != nil {
		return err
	}
	response.JSON(w, http.StatusOK, dto.NewPostResponse(post))
	return nil
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := h.posts.Delete(r.Context(), id); err != nil {
		return err
	}
	response.NoContent(w)
	return nil
}
