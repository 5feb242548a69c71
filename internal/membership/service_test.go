package membership_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroportal/internal/audit"
	"neuroportal/internal/membership"
	"neuroportal/internal/wizard"
	id "neuroportal/pkg/domain"
	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/sentinel"
)

type fakeAccounts struct {
	mu        sync.Mutex
	signUpErr error
	verified  bool
	signUps   []string
	gate      chan struct{}
	started   chan struct{}
}

func (f *fakeAccounts) SignUp(_ context.Context, email, _, _ string) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signUpErr != nil {
		return f.signUpErr
	}
	f.signUps = append(f.signUps, email)
	return nil
}

func (f *fakeAccounts) IsEmailVerified(context.Context, string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verified, nil
}

func (f *fakeAccounts) ResendVerification(context.Context, string) error { return nil }
func (f *fakeAccounts) VerifyEmail(context.Context, string) error        { return nil }

func (f *fakeAccounts) setVerified(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = v
}

func (f *fakeAccounts) setSignUpErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUpErr = err
}

func (f *fakeAccounts) signUpCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.signUps)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *capturePublisher) Publish(event audit.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) byType(eventType audit.EventType) []audit.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []audit.Event
	for _, event := range p.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

type flowFixture struct {
	service      *membership.Service
	accounts     *fakeAccounts
	applications *membership.InMemoryStore
	wizards      *wizard.InMemoryStore
	publisher    *capturePublisher
}

func newFlow(t *testing.T) *flowFixture {
	t.Helper()
	f := &flowFixture{
		accounts:     &fakeAccounts{},
		applications: membership.NewInMemoryStore(),
		wizards:      wizard.NewInMemoryStore(time.Hour),
		publisher:    &capturePublisher{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = membership.NewService(f.wizards, f.accounts, f.applications, f.publisher, log, nil)
	return f
}

func accountPayload() membership.AccountCreationPayload {
	return membership.AccountCreationPayload{
		Email:    "amina@example.org",
		Password: "correct horse battery",
		FullName: "Amina Hassan",
	}
}

func detailsPayload() membership.ApplicationDetailsPayload {
	return membership.ApplicationDetailsPayload{
		Specialization: "pediatric-neurology",
		Country:        "Kenya",
		Institution:    "Kenyatta National Hospital",
		Category:       "full",
		Motivation:     "Joining the regional epilepsy working group.",
	}
}

func TestFlowHappyPath(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()

	view, err := f.service.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, membership.StepAccountCreation, view.CurrentStep)
	sessionID, err := id.ParseSessionID(view.SessionID)
	require.NoError(t, err)

	view, err = f.service.SubmitAccount(ctx, sessionID, accountPayload())
	require.NoError(t, err)
	assert.Equal(t, membership.StepEmailVerification, view.CurrentStep)
	assert.Nil(t, view.LastError)

	// Clicking "I've verified" before the mail link fails and stays put.
	view, err = f.service.ConfirmEmail(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, membership.StepEmailVerification, view.CurrentStep)
	require.NotNil(t, view.LastError)
	assert.Equal(t, wizard.OperationFailed, view.LastError.Kind)

	f.accounts.setVerified(true)
	view, err = f.service.ConfirmEmail(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, membership.StepApplicationDetails, view.CurrentStep)
	assert.Nil(t, view.LastError)

	view, err = f.service.SubmitDetails(ctx, sessionID, detailsPayload())
	require.NoError(t, err)
	assert.Equal(t, membership.StepConfirmation, view.CurrentStep)
	assert.True(t, view.Terminal)

	application, err := f.applications.FindByEmail(ctx, "amina@example.org")
	require.NoError(t, err)
	assert.Equal(t, "Amina Hassan", application.FullName)
	assert.Equal(t, membership.CategoryFull, application.Category)
	assert.False(t, application.SubmittedAt.IsZero())

	submitted := f.publisher.byType(audit.EventApplicationSubmitted)
	require.Len(t, submitted, 1)
	assert.Equal(t, sessionID.String(), submitted[0].SessionID)
}

func TestSubmitAccountEffectFailureIsRetryable(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()

	view, err := f.service.Start(ctx)
	require.NoError(t, err)
	sessionID, _ := id.ParseSessionID(view.SessionID)

	f.accounts.setSignUpErr(dErrors.New(dErrors.CodeUnavailable, "identity backend unreachable"))
	view, err = f.service.SubmitAccount(ctx, sessionID, accountPayload())
	require.NoError(t, err, "effect failures surface through the view, not as transport errors")
	assert.Equal(t, membership.StepAccountCreation, view.CurrentStep)
	require.NotNil(t, view.LastError)
	assert.Equal(t, wizard.OperationFailed, view.LastError.Kind)

	f.accounts.setSignUpErr(nil)
	view, err = f.service.SubmitAccount(ctx, sessionID, accountPayload())
	require.NoError(t, err)
	assert.Equal(t, membership.StepEmailVerification, view.CurrentStep)
	assert.Nil(t, view.LastError)
}

func TestSubmitAccountValidation(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()

	view, err := f.service.Start(ctx)
	require.NoError(t, err)
	sessionID, _ := id.ParseSessionID(view.SessionID)

	payload := accountPayload()
	payload.Email = "not-an-email"
	_, err = f.service.SubmitAccount(ctx, sessionID, payload)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	assert.Zero(t, f.accounts.signUpCount(), "validation failures never reach the provider")
}

func TestSubmitDetailsBeforeAccountStepRejected(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()

	view, err := f.service.Start(ctx)
	require.NoError(t, err)
	sessionID, _ := id.ParseSessionID(view.SessionID)

	_, err = f.service.SubmitDetails(ctx, sessionID, detailsPayload())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestBackOnlyFromDetailsStep(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()
	f.accounts.setVerified(true)

	view, err := f.service.Start(ctx)
	require.NoError(t, err)
	sessionID, _ := id.ParseSessionID(view.SessionID)

	_, err = f.service.Back(ctx, sessionID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = f.service.SubmitAccount(ctx, sessionID, accountPayload())
	require.NoError(t, err)
	_, err = f.service.ConfirmEmail(ctx, sessionID)
	require.NoError(t, err)

	view, err = f.service.Back(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, membership.StepAccountCreation, view.CurrentStep)

	// Re-running the account step with the same email must not attempt a
	// second sign-up.
	before := f.accounts.signUpCount()
	view, err = f.service.SubmitAccount(ctx, sessionID, accountPayload())
	require.NoError(t, err)
	assert.Equal(t, membership.StepEmailVerification, view.CurrentStep)
	assert.Equal(t, before, f.accounts.signUpCount())
}

func TestConcurrentSubmitRejected(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()
	f.accounts.gate = make(chan struct{})
	f.accounts.started = make(chan struct{}, 1)

	view, err := f.service.Start(ctx)
	require.NoError(t, err)
	sessionID, _ := id.ParseSessionID(view.SessionID)

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.service.SubmitAccount(ctx, sessionID, accountPayload())
		firstDone <- err
	}()

	<-f.accounts.started

	_, err = f.service.SubmitAccount(ctx, sessionID, accountPayload())
	require.Error(t, err, "second submit must be rejected while the first is in flight")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	close(f.accounts.gate)
	require.NoError(t, <-firstDone)
}

func TestSessionSurvivesServiceRestart(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()

	view, err := f.service.Start(ctx)
	require.NoError(t, err)
	sessionID, _ := id.ParseSessionID(view.SessionID)
	_, err = f.service.SubmitAccount(ctx, sessionID, accountPayload())
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	restarted := membership.NewService(f.wizards, f.accounts, f.applications, f.publisher, log, nil)

	view, err = restarted.State(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, membership.StepEmailVerification, view.CurrentStep)
}

func TestUnknownSession(t *testing.T) {
	f := newFlow(t)

	_, err := f.service.State(context.Background(), id.NewSessionID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCancelDiscardsSession(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()

	view, err := f.service.Start(ctx)
	require.NoError(t, err)
	sessionID, _ := id.ParseSessionID(view.SessionID)

	require.NoError(t, f.service.Cancel(ctx, sessionID))

	_, err = f.service.State(ctx, sessionID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = f.applications.FindByEmail(ctx, "amina@example.org")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
