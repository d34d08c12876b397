package handler

import (
	"net/http"

	"github.com/UkralStul/threaded-board/internal/api/dto"
	"github.com/UkralStul/threaded-board/internal/api/response"
	"github.com/UkralStul/threaded-board/internal/service"
)

type CommentHandler struct {
	comments service.CommentService
}

func NewCommentHandler(comments service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create handles POST /api/posts/{postId}/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) error {
	postID, err := pathID(r, "postId")
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := bindJSON(w, r, &req); err != nil {
		return err
	}

	comment, err := h.comments.CreateComment(r.Context(), postID, req.Content, req.Author)
	if err != nil {
		return err
	}
	response.JSON(w, http.StatusCreated, dto.NewCommentResponse(comment))
	return nil
}

// List handles GET /api/posts/{postId}/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) error {
	postID, err := pathID(r, "postId")
	if err != nil {
		return err
	}

	comments, err := h.comments.List(r.Context(), postID)
	if err != nil {
		return err
	}
	response.JSON(w, http.StatusOK, dto.NewCommentResponses(comments))
	return nil
}

// Reply handles POST /api/comments/{id}/replies.
func (h *CommentHandler) Reply(w http.ResponseWriter, r *http.Request) error {
	parentID, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := bindJSON(w, r, &req); err != nil {
		return err
	}

	reply, err := h.comments.CreateReply(r.Context(), parentID, req.Content, req.Author)
	if err != nil {
		return err
	}
	response.JSON(w, http.StatusCreated, dto.NewCommentResponse(reply))
	return nil
}

// Update handles PUT /api/comments/{id}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCommentRequest
	if err := bindJSON(w, r, &req); err != nil {
		return err
	}

	comment, err := h.comments.Update(r.Context(), id, req.Content)
	if err != nil {
		return err
	}
	response.JSON(w, http.StatusOK, dto.NewCommentResponse(comment))
	return nil
}

// Delete handles DELETE /api/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(r.Context(), id); err != nil {
		return err
	}
	response.NoContent(w)
	return nil
}
