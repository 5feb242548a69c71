package payment

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "neuroportal/pkg/domain"
	"neuroportal/pkg/platform/httputil"
	"neuroportal/pkg/requestcontext"
)

// Handler exposes the dues payment flow.
type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/payments/sessions", h.start)
	r.Route("/payments/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.state)
		r.Post("/lookup", h.lookup)
		r.Post("/pay", h.pay)
		r.Post("/provider-callback", h.providerCallback)
		r.Post("/reset", h.reset)
	})
}

// RegisterAuthenticated mounts the member-scoped history listing; wire it
// behind the auth middleware.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Get("/payments/members/{memberID}", h.history)
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Start(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.State(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	payload, ok := httputil.DecodeAndPrepare[LookupPayload](w, r, h.log, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.service.Lookup(ctx, sessionID, payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	payload, ok := httputil.DecodeAndPrepare[PayPayload](w, r, h.log, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.service.Pay(ctx, sessionID, payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) providerCallback(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	event, ok := httputil.DecodeAndPrepare[ProviderEvent](w, r, h.log, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.service.CompleteFromProvider(ctx, sessionID, event)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Reset(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	memberID, err := id.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	payments, err := h.service.History(r.Context(), memberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (id.SessionID, bool) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SessionID{}, false
	}
	return sessionID, true
}
