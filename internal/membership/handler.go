package membership

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "neuroportal/pkg/domain"
	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/httputil"
	"neuroportal/pkg/requestcontext"
)

// Handler exposes the membership application flow. Sessions are anonymous
// until the application is submitted; the session ID in the path is the only
// credential, so it is an unguessable UUID minted by Start.
type Handler struct {
	service  *Service
	accounts AccountProvider
	log      *slog.Logger
}

func NewHandler(service *Service, accounts AccountProvider, log *slog.Logger) *Handler {
	return &Handler{service: service, accounts: accounts, log: log}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/membership/sessions", h.start)
	r.Post("/membership/verify-email", h.verifyEmail)
	r.Route("/membership/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.state)
		r.Post("/account", h.submitAccount)
		r.Post("/confirm-email", h.confirmEmail)
		r.Post("/resend-verification", h.resendVerification)
		r.Post("/details", h.submitDetails)
		r.Post("/back", h.back)
		r.Delete("/", h.cancel)
	})
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

func (h *Handler) submitAccount(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	payload, ok := httputil.DecodeAndPrepare[AccountCreationPayload](w, r, h.log, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.service.SubmitAccount(ctx, sessionID, payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) confirmEmail(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.ConfirmEmail(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.service.ResendVerification(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *Handler) submitDetails(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	payload, ok := httputil.DecodeAndPrepare[ApplicationDetailsPayload](w, r, h.log, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	view, err := h.service.SubmitDetails(ctx, sessionID, payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Back(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.service.Cancel(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

// verifyEmail consumes the token from the verification link. It lives outside
// the session scope because the link may be opened in a different browser.
func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[verifyEmailRequest](w, r, h.log, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if req.Token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "token is required"))
		return
	}
	if err := h.accounts.VerifyEmail(ctx, req.Token); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown or already-used verification token"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (id.SessionID, bool) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SessionID{}, false
	}
	return sessionID, true
}
