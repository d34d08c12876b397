package api

import (
	"net/http"

	"github.com/UkralStul/threaded-board/internal/api/handler"
	"github.com/UkralStul/threaded-board/internal/api/middleware"
	"github.com/UkralStul/threaded-board/internal/api/response"
	"github.com/UkralStul/threaded-board/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Posts      service.PostService
	Comments   service.CommentService
	Health     handler.Pinger
	Pagination handler.Pagination
}

func NewRouter(d Deps) http.Handler {
	posts := handler.NewPostHandler(d.Posts, d.Pagination)
	comments := handler.NewCommentHandler(d.Comments)
	health := handler.NewHealthHandler(d.Health)

	router := chi.NewRouter()
	router.Use(middleware.Trace)
	router.Use(middleware.AccessLog)
	router.Use(chimw.Recoverer)

	router.Get("/health", response.Handle(health.Check))

	router.Route("/api", func(r chi.Router) {
		r.Use(chimw.AllowContentType("application/json"))

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", response.Handle(posts.Create))
			r.Get("/", response.Handle(posts.List))
			r.Get("/{id}", response.Handle(posts.Get))
			r.Put("/{id}", response.Handle(posts.Update))
			r.Delete("/{id}", response.Handle(posts.Delete))

			r.Post("/{postId}/comments", response.Handle(comments.Create))
			r.Get("/{postId}/comments", response.Handle(comments.List))
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/{id}/replies", response.Handle(comments.Reply))
			r.Put("/{id}", response.Handle(comments.Update))
			r.Delete("/{id}", response.Handle(comments.Delete))
		})
	})

	return router
}
