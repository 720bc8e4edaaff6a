package spacedock

import (
	"context"

	"github.com/spacedock/spacedock/kit/platform"
)

// Authorizer will authorize a permission.
type Authorizer interface {
	// Kind returns the kind of the authorizer. Used for differentiating token
	// and session based authorizers.
	Kind() string

	// GetUserID returns the user id of the authorizer.
	GetUserID() platform.ID
}

// AuthorizationKind is the kind of a token backed authorization.
const AuthorizationKind = "authorization"

// Authorization is an opaque API token bound to a user.
type Authorization struct {
	ID     platform.ID `json:"id"`
	Token  string      `json:"token"`
	UserID platform.ID `json:"userID,omitempty"`

	CRUDLog
}

// Kind returns the kind of the authorization.
func (a *Authorization) Kind() string {
	return AuthorizationKind
}

// GetUserID returns the user id of the authorization.
func (a *Authorization) GetUserID() platform.ID {
	return a.UserID
}

// AuthorizationService represents a service for managing authorization data.
type AuthorizationService interface {
	// FindAuthorizationByToken returns a single authorization by Token.
	FindAuthorizationByToken(ctx context.Context, t string) (*Authorization, error)

	// CreateAuthorization creates a new authorization and sets a.ID with the new identifier.
	CreateAuthorization(ctx context.Context, a *Authorization) error
}
