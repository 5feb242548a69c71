package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domainerrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/httputil"
)

// Handler exposes the recent-events listing for operators. Mount it behind
// authentication.
type Handler struct {
	store Store
	log   *slog.Logger
}

func NewHandler(store Store, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/audit/events", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.WriteError(w, domainerrors.New(domainerrors.CodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	events, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.log.ErrorContext(r.Context(), "audit list failed", "error", err)
		httputil.WriteError(w, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "audit log unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
