package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/UkralStul/threaded-board/internal/api/response"
	"github.com/UkralStul/threaded-board/internal/domain"
	"github.com/UkralStul/threaded-board/internal/pkg/util"
	"github.com/UkralStul/threaded-board/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// bindJSON decodes the request body into dst and validates it.
func bindJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &response.BadRequestError{Message: "request body is empty"}
		}
		return &response.BadRequestError{Message: "malformed request body"}
	}
	if fields := util.ValidateDTO(dst); fields != nil {
		return &service.ValidationError{Fields: fields}
	}
	return nil
}

// pathID reads a numeric path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, &response.BadRequestError{Message: name + " must be an integer"}
	}
	return id, nil
}

// Pagination binds page, size and sort query parameters.
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

// Bind reads a PageRequest from the query string. page defaults to 0 and is
// never negative; size defaults to DefaultSize and is kept in [1, MaxSize];
// unparsable numbers fall back to the defaults. Every sort value must name a
// sortable property.
func (p Pagination) Bind(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()
	req := domain.PageRequest{Size: p.DefaultSize}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		req.Page = page
	}
	if size, err := strconv.Atoi(q.Get("size")); err == nil {
		req.Size = min(max(size, 1), p.MaxSize)
	}

	for _, raw := range q["sort"] {
		if raw == "" {
			continue
		}
		order, err := domain.ParseSortOrder(raw)
		if err != nil {
			return domain.PageRequest{}, &service.ValidationError{Fields: map[string]string{"sort": err.Error()}}
		}
		req.Sort = append(req.Sort, order)
	}
	return req, nil
}
