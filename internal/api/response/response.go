package response

import (
	"errors"
	log "log/slog"
	"net/http"

	"github.com/UkralStul/threaded-board/internal/service"

	"github.com/goccy/go-json"
)

// ErrorBody is the payload of every non-validation error.
type ErrorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// BadRequestError marks a request that could not be read at all, such as a
// malformed body or a non-numeric path id.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

// NoContent writes a 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Fail writes an ErrorBody.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
}

// Error maps err onto a status code and body. Unknown errors are logged and
// reported as a bare 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve  *service.ValidationError
		nf  *service.NotFoundError
		ioe *service.InvalidOperationError
		ce  *service.ConflictError
		bre *BadRequestError
	)
	switch {
	case errors.As(err, &ve):
		JSON(w, http.StatusBadRequest, ve.Fields)
	case errors.As(err, &bre):
		Fail(w, http.StatusBadRequest, bre.Message)
	case errors.As(err, &nf):
		Fail(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ioe):
		Fail(w, http.StatusConflict, ioe.Error())
	case errors.As(err, &ce):
		Fail(w, http.StatusConflict, ce.Error())
	default:
		log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		Fail(w, http.StatusInternalServerError, "internal server error")
	}
}

// HandlerFunc is an http.HandlerFunc that reports failure by returning it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts h, sending any returned error through Error.
func Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			Error(w, r, err)
		}
	}
}
