package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"neuroportal/internal/audit"
	id "neuroportal/pkg/domain"
	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/sentinel"
	"neuroportal/pkg/requestcontext"
)

// PasswordChecker verifies credentials against the account provider.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, email, password string) error
}

// MemberResolver maps a verified email to its member record, if one exists.
// Accounts mid-application have no member record yet; that is not an error.
type MemberResolver func(ctx context.Context, email string) (id.MemberID, error)

// Session is an issued login.
type Session struct {
	Token     string      `json:"access_token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int64       `json:"expires_in"`
	MemberID  id.MemberID `json:"member_id,omitzero"`
}

// Service authenticates members and issues session tokens.
type Service struct {
	checker   PasswordChecker
	resolve   MemberResolver
	tokens    *TokenService
	publisher audit.Publisher
	lockout   *Lockout
	log       *slog.Logger
}

func NewService(checker PasswordChecker, resolve MemberResolver, tokens *TokenService, publisher audit.Publisher, log *slog.Logger) *Service {
	return &Service{
		checker:   checker,
		resolve:   resolve,
		tokens:    tokens,
		publisher: publisher,
		lockout:   NewLockout(5, 15*time.Minute, 15*time.Minute),
		log:       log,
	}
}

// Login verifies the credentials and issues a session token. Unknown emails,
// wrong passwords, and locked-out pairs all produce the same error so
// accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	clientIP := requestcontext.ClientIP(ctx)
	now := requestcontext.Now(ctx)
	if !s.lockout.Allowed(email, clientIP, now) {
		s.log.WarnContext(ctx, "login locked out", "client_ip", clientIP)
		return Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	if err := s.checker.CheckPassword(ctx, email, password); err != nil {
		s.lockout.RecordFailure(email, clientIP, now)
		s.log.WarnContext(ctx, "login rejected", "error", err)
		return Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	s.lockout.Clear(email, clientIP)

	var memberID id.MemberID
	if s.resolve != nil {
		resolved, err := s.resolve(ctx, email)
		switch {
		case err == nil:
			memberID = resolved
		case errors.Is(err, sentinel.ErrNotFound):
			// Applicant session, no member record yet.
		default:
			return Session{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "member lookup unavailable")
		}
	}

	sessionID := id.NewSessionID()
	token, err := s.tokens.Generate(memberID, sessionID, requestcontext.Now(ctx))
	if err != nil {
		return Session{}, err
	}

	event := audit.Event{
		Type:      audit.EventSessionStarted,
		SessionID: sessionID.String(),
		ClientIP:  requestcontext.ClientIP(ctx),
	}
	if !memberID.IsZero() {
		event.MemberID = memberID.String()
	}
	s.publisher.Publish(event)
	s.log.InfoContext(ctx, "session issued", "session_id", sessionID)

	return Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		MemberID:  memberID,
	}, nil
}
