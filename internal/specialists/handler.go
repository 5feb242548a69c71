package specialists

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domainerrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/httputil"
)

// Handler exposes the public find-a-specialist endpoint.
type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/directory/specialists", h.browse)
}

func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.Browse(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func parseQuery(r *http.Request) (Query, error) {
	values := r.URL.Query()

	q := Query{Search: values.Get("q"), Page: 1}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Query{}, domainerrors.New(domainerrors.CodeInvalidInput, "page must be a positive integer")
		}
		q.Page = page
	}
	if raw := values.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return Query{}, domainerrors.New(domainerrors.CodeInvalidInput, "page_size must be a positive integer")
		}
		q.PageSize = size
	}

	for _, key := range []string{"specialization", "country", "language"} {
		value := values.Get(key)
		if value == "" {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string, 3)
		}
		q.Filters[key] = value
	}
	return q, nil
}
