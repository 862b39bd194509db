// Package access resolves the acting user of a request and enforces role
// requirements.  Every request walks the same states, computed fresh each
// time:
//
//	Unauthenticated -> TokenVerified -> UserResolved -> Authorized
//
// Any failure before UserResolved ends in Unauthenticated with the same
// client-facing message, so callers cannot tell a bad token from a vanished
// user.  A role mismatch after UserResolved ends in Forbidden.
package access

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/inventory-service/internal/apperr"
	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/repository"
)

// Status is the terminal state of an access check.
type Status int

const (
	Unauthenticated Status = iota
	Authenticated
	Forbidden
)

func (s Status) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Forbidden:
		return "forbidden"
	}
	return "unauthenticated"
}

// Client-facing reasons.
const (
	ReasonMissingToken   = "Not authenticated"
	ReasonBadCredentials = "Could not validate credentials"
	ReasonInsufficient   = "Insufficient permissions"
	ReasonAdminRequired  = "Admin privileges required"
)

// Result is the typed outcome of Authenticate/Authorize.  User is set for
// Authenticated and Forbidden.  Err is set only when the credential store
// itself failed; such a result must surface as an unexpected error.
type Result struct {
	Status Status
	User   *model.User
	Reason string
	Err    error
}

// Error converts a non-authenticated result into an apperr error, or nil.
func (r Result) Error() error {
	if r.Err != nil {
		return r.Err
	}
	switch r.Status {
	case Authenticated:
		return nil
	case Forbidden:
		return apperr.New(apperr.ErrForbidden, r.Reason)
	}
	return apperr.New(apperr.ErrUnauthenticated, r.Reason)
}

// TokenVerifier decodes a bearer token into its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder looks users up by the token subject.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// Guard holds the read-only collaborators of the access check and is safe
// for concurrent use.
type Guard struct {
	tokens TokenVerifier
	users  UserFinder
}

func NewGuard(tokens TokenVerifier, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate runs the state machine up to UserResolved for the value of an
// Authorization header.
func (g *Guard) Authenticate(ctx context.Context, authorization string) Result {
	raw, ok := BearerToken(authorization)
	if !ok {
		return Result{Status: Unauthenticated, Reason: ReasonMissingToken}
	}

	subject, err := g.tokens.Verify(raw)
	if err != nil {
		return Result{Status: Unauthenticated, Reason: ReasonBadCredentials}
	}

	u, err := g.users.FindByUsername(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return Result{Status: Unauthenticated, Reason: ReasonBadCredentials}
	}
	if err != nil {
		return Result{Status: Unauthenticated, Err: err}
	}
	if !u.IsActive {
		return Result{Status: Unauthenticated, Reason: ReasonBadCredentials}
	}
	return Result{Status: Authenticated, User: u}
}

// Authorize applies a flat role equality check to an authenticated result.
// Results that are not Authenticated pass through untouched.
func (g *Guard) Authorize(r Result, role model.Role) Result {
	if r.Status != Authenticated || r.Err != nil {
		return r
	}
	if r.User.Role != role {
		reason := ReasonInsufficient
		if role == model.RoleAdmin {
			reason = ReasonAdminRequired
		}
		return Result{Status: Forbidden, User: r.User, Reason: reason}
	}
	return r
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.  The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
