package membership

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"neuroportal/internal/audit"
	"neuroportal/internal/wizard"
	id "neuroportal/pkg/domain"
	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/sentinel"
	"neuroportal/pkg/requestcontext"
)

var tracer = otel.Tracer("neuroportal/internal/membership")

// StateView is the client-facing snapshot of an application session.
type StateView struct {
	SessionID   string            `json:"session_id"`
	Steps       []wizard.StepID   `json:"steps"`
	CurrentStep wizard.StepID     `json:"current_step"`
	Terminal    bool              `json:"terminal"`
	LastError   *wizard.StepError `json:"last_error,omitempty"`
}

// accountRecord is the step data persisted for the account step. The password
// is deliberately excluded; only its bcrypt hash lives in the account provider.
type accountRecord struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Service orchestrates the membership application wizard. Wizard instances are
// kept in an in-process registry for the lifetime of a flow so the engine's
// double-submit guard holds across concurrent requests; snapshots are
// persisted through the wizard store so a session survives a restart.
type Service struct {
	wizards      wizard.Store
	accounts     AccountProvider
	applications Store
	publisher    audit.Publisher
	log          *slog.Logger
	metrics      *Metrics

	mu     sync.Mutex
	active map[id.SessionID]*wizard.Wizard
}

func NewService(wizards wizard.Store, accounts AccountProvider, applications Store, publisher audit.Publisher, log *slog.Logger, metrics *Metrics) *Service {
	return &Service{
		wizards:      wizards,
		accounts:     accounts,
		applications: applications,
		publisher:    publisher,
		log:          log,
		metrics:      metrics,
		active:       make(map[id.SessionID]*wizard.Wizard),
	}
}

// Start opens a new application session positioned at account creation.
func (s *Service) Start(ctx context.Context) (StateView, error) {
	ctx, span := tracer.Start(ctx, "membership.start")
	defer span.End()

	sessionID := id.NewSessionID()
	w := wizard.New(Steps(), StepAccountCreation)

	s.mu.Lock()
	s.active[sessionID] = w
	s.mu.Unlock()

	if err := s.persist(ctx, sessionID, w); err != nil {
		return StateView{}, err
	}

	s.publisher.Publish(audit.Event{
		Type:      audit.EventApplicationStarted,
		SessionID: sessionID.String(),
		ClientIP:  requestcontext.ClientIP(ctx),
	})
	s.metrics.SessionStarted()
	s.log.InfoContext(ctx, "application session started", "session_id", sessionID)
	return s.view(sessionID, w), nil
}

// State returns the current snapshot of a session.
func (s *Service) State(ctx context.Context, sessionID id.SessionID) (StateView, error) {
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return StateView{}, err
	}
	return s.view(sessionID, w), nil
}

// SubmitAccount runs the account-creation step.
func (s *Service) SubmitAccount(ctx context.Context, sessionID id.SessionID, payload AccountCreationPayload) (StateView, error) {
	ctx, span := tracer.Start(ctx, "membership.submit_account")
	defer span.End()
	span.SetAttributes(attribute.String("membership.session_id", sessionID.String()))

	if err := payload.Validate(); err != nil {
		return StateView{}, err
	}
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return StateView{}, err
	}

	runErr := w.RunStep(ctx, StepAccountCreation, func(ctx context.Context) error {
		// Re-running this step after backward navigation must not invalidate
		// the account already created for this session.
		if existing, ok := s.existingAccountRecord(w); ok && existing.Email == payload.Email {
			return nil
		}
		return s.accounts.SignUp(ctx, payload.Email, payload.Password, payload.FullName)
	})
	if runErr == nil {
		record, _ := json.Marshal(accountRecord{Email: payload.Email, FullName: payload.FullName})
		w.SetStepData(StepAccountCreation, record)
	}
	return s.settle(ctx, sessionID, w, StepAccountCreation, runErr)
}

// ConfirmEmail re-checks the verification status with the account provider.
// This is the manually triggered "I've verified" action; there is no
// background polling.
func (s *Service) ConfirmEmail(ctx context.Context, sessionID id.SessionID) (StateView, error) {
	ctx, span := tracer.Start(ctx, "membership.confirm_email")
	defer span.End()

	w, err := s.load(ctx, sessionID)
	if err != nil {
		return StateView{}, err
	}
	record, err := s.accountRecord(w)
	if err != nil {
		return StateView{}, err
	}

	runErr := w.RunStep(ctx, StepEmailVerification, func(ctx context.Context) error {
		verified, err := s.accounts.IsEmailVerified(ctx, record.Email)
		if err != nil {
			return err
		}
		if !verified {
			return dErrors.New(dErrors.CodeInvalidInput, "email address is not verified yet")
		}
		return nil
	})
	return s.settle(ctx, sessionID, w, StepEmailVerification, runErr)
}

// ResendVerification asks the account provider to reissue the verification
// message for the session's email address.
func (s *Service) ResendVerification(ctx context.Context, sessionID id.SessionID) error {
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	record, err := s.accountRecord(w)
	if err != nil {
		return err
	}
	if err := s.accounts.ResendVerification(ctx, record.Email); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "no account found for this session")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "could not resend verification")
	}
	return nil
}

// SubmitDetails runs the application-details step; success lands the wizard on
// the terminal confirmation step.
func (s *Service) SubmitDetails(ctx context.Context, sessionID id.SessionID, payload ApplicationDetailsPayload) (StateView, error) {
	ctx, span := tracer.Start(ctx, "membership.submit_details")
	defer span.End()

	if err := payload.Validate(); err != nil {
		return StateView{}, err
	}
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return StateView{}, err
	}
	record, err := s.accountRecord(w)
	if err != nil {
		return StateView{}, err
	}

	application := Application{
		ID:             id.NewApplicationID(),
		Email:          record.Email,
		FullName:       record.FullName,
		Specialization: payload.Specialization,
		Country:        payload.Country,
		Institution:    payload.Institution,
		Category:       Category(payload.Category),
		Motivation:     payload.Motivation,
		SubmittedAt:    requestcontext.Now(ctx),
	}

	runErr := w.RunStep(ctx, StepApplicationDetails, func(ctx context.Context) error {
		if err := s.applications.Save(ctx, application); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "an application for this email was already submitted")
			}
			return err
		}
		return nil
	})
	if runErr == nil {
		data, _ := json.Marshal(payload)
		w.SetStepData(StepApplicationDetails, data)
		s.publisher.Publish(audit.Event{
			Type:      audit.EventApplicationSubmitted,
			SessionID: sessionID.String(),
			ClientIP:  requestcontext.ClientIP(ctx),
			Detail: map[string]string{
				"application_id": application.ID.String(),
				"category":       string(application.Category),
			},
		})
		s.log.InfoContext(ctx, "application submitted",
			"session_id", sessionID, "application_id", application.ID)
	}
	return s.settle(ctx, sessionID, w, StepApplicationDetails, runErr)
}

// Back moves from application details back to account creation. That is the
// only backward transition this flow offers; going back does not invalidate
// the already-created account.
func (s *Service) Back(ctx context.Context, sessionID id.SessionID) (StateView, error) {
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return StateView{}, err
	}
	if w.Current() != StepApplicationDetails {
		return StateView{}, dErrors.New(dErrors.CodeInvariantViolation,
			"backward navigation is only available from the application details step")
	}
	w.Back()
	// Email verification is already done; land on account creation for edits.
	w.Back()
	if err := s.persist(ctx, sessionID, w); err != nil {
		return StateView{}, err
	}
	return s.view(sessionID, w), nil
}

// Cancel abandons the session and discards its state.
func (s *Service) Cancel(ctx context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	delete(s.active, sessionID)
	s.mu.Unlock()

	if err := s.wizards.Delete(ctx, sessionID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "could not discard session")
	}
	s.log.InfoContext(ctx, "application session cancelled", "session_id", sessionID)
	return nil
}

func (s *Service) load(ctx context.Context, sessionID id.SessionID) (*wizard.Wizard, error) {
	s.mu.Lock()
	if w, ok := s.active[sessionID]; ok {
		s.mu.Unlock()
		return w, nil
	}
	s.mu.Unlock()

	state, err := s.wizards.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application session not found or expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "session store unavailable")
	}
	w := wizard.Restore(state)

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.active[sessionID]; ok {
		return cached, nil
	}
	s.active[sessionID] = w
	return w, nil
}

// settle persists the wizard after a step attempt and folds the outcome into
// the response: a recoverable step failure is reported through the view's
// LastError, not as a transport error.
func (s *Service) settle(ctx context.Context, sessionID id.SessionID, w *wizard.Wizard, step wizard.StepID, runErr error) (StateView, error) {
	if err := s.persist(ctx, sessionID, w); err != nil {
		return StateView{}, err
	}

	if runErr == nil {
		s.metrics.StepCompleted(step)
		return s.view(sessionID, w), nil
	}

	var stepErr *wizard.StepError
	if errors.As(runErr, &stepErr) {
		s.metrics.StepFailed(step)
		s.log.WarnContext(ctx, "application step failed",
			"session_id", sessionID, "step", step, "kind", stepErr.Kind)
		return s.view(sessionID, w), nil
	}
	// Double submit or wrong step.
	return StateView{}, runErr
}

func (s *Service) persist(ctx context.Context, sessionID id.SessionID, w *wizard.Wizard) error {
	state := w.Snapshot(requestcontext.Now(ctx))
	if err := s.wizards.Save(ctx, sessionID, state); err != nil {
		s.log.ErrorContext(ctx, "session snapshot save failed", "session_id", sessionID, "error", err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "session store unavailable")
	}
	return nil
}

func (s *Service) existingAccountRecord(w *wizard.Wizard) (accountRecord, bool) {
	record, err := s.accountRecord(w)
	return record, err == nil
}

func (s *Service) accountRecord(w *wizard.Wizard) (accountRecord, error) {
	raw := w.StepData(StepAccountCreation)
	if raw == nil {
		return accountRecord{}, dErrors.New(dErrors.CodeInvariantViolation, "account step has not completed")
	}
	var record accountRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return accountRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "corrupt session data")
	}
	return record, nil
}

func (s *Service) view(sessionID id.SessionID, w *wizard.Wizard) StateView {
	return StateView{
		SessionID:   sessionID.String(),
		Steps:       Steps(),
		CurrentStep: w.Current(),
		Terminal:    w.Terminal(),
		LastError:   w.LastError(),
	}
}
