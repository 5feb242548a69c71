package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domainerrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/httputil"
)

// Handler exposes the public directory listing endpoints.
type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/directory/events", h.listEvents)
	r.Get("/directory/webinars", h.listWebinars)
	r.Get("/directory/publications", h.listPublications)
	r.Get("/directory/resources", h.listResources)
	r.Get("/directory/videos", h.listVideos)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, "category", "type", "location")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.ListEvents(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) listWebinars(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, "status", "tag")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.ListWebinars(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) listPublications(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, "year", "keyword")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.ListPublications(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) listResources(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, "type")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.ListResources(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) listVideos(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, "category")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.ListVideos(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// parseListQuery reads the shared browse parameters plus the filter keys the
// collection declares. Absent filter params are omitted; "all" passes through
// and is treated as inactive downstream.
func parseListQuery(r *http.Request, filterKeys ...string) (ListQuery, error) {
	values := r.URL.Query()

	q := ListQuery{Search: values.Get("q"), Page: 1}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ListQuery{}, domainerrors.New(domainerrors.CodeInvalidInput, "page must be a positive integer")
		}
		q.Page = page
	}
	if raw := values.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return ListQuery{}, domainerrors.New(domainerrors.CodeInvalidInput, "page_size must be a positive integer")
		}
		q.PageSize = size
	}

	for _, key := range filterKeys {
		value := values.Get(key)
		if value == "" {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string, len(filterKeys))
		}
		q.Filters[key] = value
	}
	return q, nil
}
