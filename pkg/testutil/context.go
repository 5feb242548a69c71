package testutil

import (
	"net/http"

	id "neuroportal/pkg/domain"
	"neuroportal/pkg/requestcontext"
)

// WithMemberID adds a member ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the memberID is not a valid UUID, it will not be added to the context.
func WithMemberID(req *http.Request, memberID string) *http.Request {
	if parsed, err := id.ParseMemberID(memberID); err == nil {
		return req.WithContext(requestcontext.WithMemberID(req.Context(), parsed))
	}
	return req
}

// WithSessionID adds a session ID to the request context.
// If the sessionID is not a valid UUID, it will not be added to the context.
func WithSessionID(req *http.Request, sessionID string) *http.Request {
	if parsed, err := id.ParseSessionID(sessionID); err == nil {
		return req.WithContext(requestcontext.WithSessionID(req.Context(), parsed))
	}
	return req
}

// WithAuth adds both member ID and session ID to the request context.
// This is the typical state for an authenticated request.
// Invalid IDs are silently ignored.
func WithAuth(req *http.Request, memberID, sessionID string) *http.Request {
	req = WithMemberID(req, memberID)
	return WithSessionID(req, sessionID)
}
