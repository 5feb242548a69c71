package payment

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

var tracer = otel.Tracer("neuroportal/internal/payment")

// StateView is the client-facing snapshot of a payment session. Member is set
// once the lookup step has resolved; Receipt once payment settled.
type StateView struct {
	SessionID   string            `json:"session_id"`
	Steps       []wizard.StepID   `json:"steps"`
	CurrentStep wizard.StepID     `json:"current_step"`
	Terminal    bool              `json:"terminal"`
	LastError   *wizard.StepError `json:"last_error,omitempty"`
	Member      *Member           `json:"member,omitempty"`
	Receipt     string            `json:"receipt,omitempty"`
}

type receiptRecord struct {
	PaymentID string `json:"payment_id"`
	Receipt   string `json:"receipt"`
}

// ProviderEvent is a settlement notification delivered by the payment
// provider's callback rather than the member's own submit. It feeds the same
// step entry point as a form submission, so there is exactly one code path
// that toggles the submitting flag and records step errors.
type ProviderEvent struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
	Settled   bool   `json:"settled"`
	Receipt   string `json:"receipt"`
}

// Service orchestrates the dues payment wizard.
type Service struct {
	wizards   wizard.Store
	directory MemberDirectory
	provider  Provider
	payments  Store
	publisher audit.Publisher
	log       *slog.Logger
	metrics   *Metrics

	mu     sync.Mutex
	active map[id.SessionID]*wizard.Wizard
}

func NewService(wizards wizard.Store, directory MemberDirectory, provider Provider, payments Store, publisher audit.Publisher, log *slog.Logger, metrics *Metrics) *Service {
	return &Service{
		wizards:   wizards,
		directory: directory,
		provider:  provider,
		payments:  payments,
		publisher: publisher,
		log:       log,
		metrics:   metrics,
		active:    make(map[id.SessionID]*wizard.Wizard),
	}
}

// Start opens a new payment session positioned at member lookup.
func (s *Service) Start(ctx context.Context) (StateView, error) {
	ctx, span := tracer.Start(ctx, "payment.start")
	defer span.End()

	sessionID := id.NewSessionID()
	w := wizard.New(Steps(), StepMemberLookup)

	s.mu.Lock()
	s.active[sessionID] = w
	s.mu.Unlock()

	if err := s.persist(ctx, sessionID, w); err != nil {
		return StateView{}, err
	}
	s.log.InfoContext(ctx, "payment session started", "session_id", sessionID)
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

// Lookup runs the member resolution step. An empty search result is a
// NotFound step error, which the client renders as the dead-end panel; the
// payment step stays unreachable until a member resolves.
func (s *Service) Lookup(ctx context.Context, sessionID id.SessionID, payload LookupPayload) (StateView, error) {
	ctx, span := tracer.Start(ctx, "payment.lookup")
	defer span.End()
	span.SetAttributes(attribute.String("payment.session_id", sessionID.String()))

	if err := payload.Validate(); err != nil {
		return StateView{}, err
	}
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return StateView{}, err
	}

	runErr := w.RunStep(ctx, StepMemberLookup, func(ctx context.Context) error {
		member, err := s.directory.FindMember(ctx, payload.Query)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "no matching member record")
			}
			return err
		}
		record, _ := json.Marshal(member)
		w.SetStepData(StepMemberLookup, record)
		return nil
	})
	return s.settle(ctx, sessionID, w, StepMemberLookup, runErr)
}

// Pay runs the payment step for a form submission: create the intent, confirm
// with the branch's instrument, record the attempt.
func (s *Service) Pay(ctx context.Context, sessionID id.SessionID, payload PayPayload) (StateView, error) {
	ctx, span := tracer.Start(ctx, "payment.pay")
	defer span.End()
	span.SetAttributes(attribute.String("payment.method", payload.Method))

	if err := payload.Validate(); err != nil {
		return StateView{}, err
	}
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return StateView{}, err
	}
	member, err := s.resolvedMember(w)
	if err != nil {
		return StateView{}, err
	}

	method := id.PaymentMethod(payload.Method)
	runErr := w.RunStep(ctx, StepMethodSelection, func(ctx context.Context) error {
		intent, err := s.provider.CreatePaymentIntent(ctx, member.DuesAmount, member.Currency)
		if err != nil {
			return err
		}
		confirmation, err := s.provider.ConfirmPayment(ctx, intent.IntentID, payload.Reference())
		if err != nil {
			return err
		}
		return s.recordOutcome(ctx, sessionID, w, member, method, confirmation.Settled, confirmation.Receipt)
	})
	return s.settle(ctx, sessionID, w, StepMethodSelection, runErr)
}

// CompleteFromProvider applies a provider callback to the payment step. The
// redirect-style card flow lands here instead of Pay, but both share RunStep,
// so the submitting flag and lastError handling cannot diverge.
func (s *Service) CompleteFromProvider(ctx context.Context, sessionID id.SessionID, event ProviderEvent) (StateView, error) {
	ctx, span := tracer.Start(ctx, "payment.provider_callback")
	defer span.End()

	method, err := id.ParsePaymentMethod(event.Method)
	if err != nil {
		return StateView{}, err
	}
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return StateView{}, err
	}
	member, err := s.resolvedMember(w)
	if err != nil {
		return StateView{}, err
	}

	runErr := w.RunStep(ctx, StepMethodSelection, func(ctx context.Context) error {
		return s.recordOutcome(ctx, sessionID, w, member, method, event.Settled, event.Receipt)
	})
	return s.settle(ctx, sessionID, w, StepMethodSelection, runErr)
}

// Reset returns the session to the member lookup step, the "pay for another
// member" action on the success screen.
func (s *Service) Reset(ctx context.Context, sessionID id.SessionID) (StateView, error) {
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return StateView{}, err
	}
	w.Reset()
	if err := s.persist(ctx, sessionID, w); err != nil {
		return StateView{}, err
	}
	return s.view(sessionID, w), nil
}

// History lists recorded attempts for one member.
func (s *Service) History(ctx context.Context, memberID id.MemberID) ([]Payment, error) {
	payments, err := s.payments.ListByMember(ctx, memberID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "payment history unavailable")
	}
	return payments, nil
}

// recordOutcome persists the attempt and publishes the audit event. A
// non-settled outcome returns an error so the wizard stays on the payment step
// for retry.
func (s *Service) recordOutcome(ctx context.Context, sessionID id.SessionID, w *wizard.Wizard, member Member, method id.PaymentMethod, settled bool, receipt string) error {
	payment := Payment{
		ID:        id.NewPaymentID(),
		MemberID:  member.ID,
		Amount:    member.DuesAmount,
		Currency:  member.Currency,
		Method:    method,
		Status:    StatusSucceeded,
		Reference: receipt,
		CreatedAt: requestcontext.Now(ctx),
	}
	if !settled {
		payment.Status = StatusFailed
		payment.Reference = ""
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return err
	}

	eventType := audit.EventPaymentSucceeded
	if !settled {
		eventType = audit.EventPaymentFailed
	}
	s.publisher.Publish(audit.Event{
		Type:      eventType,
		SessionID: sessionID.String(),
		MemberID:  member.ID.String(),
		ClientIP:  requestcontext.ClientIP(ctx),
		Detail: map[string]string{
			"payment_id": payment.ID.String(),
			"method":     method.String(),
		},
	})

	if !settled {
		return dErrors.New(dErrors.CodeInvalidInput, "the payment was not completed, please try again")
	}
	record, _ := json.Marshal(receiptRecord{PaymentID: payment.ID.String(), Receipt: receipt})
	w.SetStepData(StepMethodSelection, record)
	s.log.InfoContext(ctx, "payment settled",
		"session_id", sessionID, "payment_id", payment.ID, "method", method)
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
			return nil, dErrors.New(dErrors.CodeNotFound, "payment session not found or expired")
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
		s.log.WarnContext(ctx, "payment step failed",
			"session_id", sessionID, "step", step, "kind", stepErr.Kind)
		return s.view(sessionID, w), nil
	}
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

func (s *Service) resolvedMember(w *wizard.Wizard) (Member, error) {
	raw := w.StepData(StepMemberLookup)
	if raw == nil {
		return Member{}, dErrors.New(dErrors.CodeInvariantViolation, "no member has been resolved for this session")
	}
	var member Member
	if err := json.Unmarshal(raw, &member); err != nil {
		return Member{}, dErrors.Wrap(err, dErrors.CodeInternal, "corrupt session data")
	}
	return member, nil
}

func (s *Service) view(sessionID id.SessionID, w *wizard.Wizard) StateView {
	view := StateView{
		SessionID:   sessionID.String(),
		Steps:       Steps(),
		CurrentStep: w.Current(),
		Terminal:    w.Terminal(),
		LastError:   w.LastError(),
	}
	if raw := w.StepData(StepMemberLookup); raw != nil {
		var member Member
		if err := json.Unmarshal(raw, &member); err == nil {
			view.Member = &member
		}
	}
	if raw := w.StepData(StepMethodSelection); raw != nil {
		var record receiptRecord
		if err := json.Unmarshal(raw, &record); err == nil {
			view.Receipt = record.Receipt
		}
	}
	return view
}
