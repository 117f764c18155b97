package ports

import (
	"context"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

// IdentityStore is the read side of users and their role assignments.
type IdentityStore interface {
	// FindByUsername returns domain.ErrUserNotFound when no user has that username.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// SearchRoleAssignments returns one row per role held by username, or an
	// empty slice when the user does not exist.
	SearchRoleAssignments(ctx context.Context, username string) ([]domain.RoleAssignment, error)
}

// AuthContext exposes the caller identity attached to the current request.
type AuthContext interface {
	// CurrentUsername returns an error when no identity is attached or the
	// attached value is not a username.
	CurrentUsername(ctx context.Context) (string, error)
}

// Authenticator resolves the full record of the calling user. It is
// re-evaluated on every call.
type Authenticator interface {
	Authenticated(ctx context.Context) (*domain.User, error)
}

// PrincipalLoader folds role assignment rows into a Principal.
type PrincipalLoader interface {
	LoadByUsername(ctx context.Context, username string) (*domain.Principal, error)
}

// AccessGuard allows or denies access to data owned by targetID.
type AccessGuard interface {
	ValidateSelfOrAdmin(ctx context.Context, targetID int64) error
}

// UserService serves the caller's own profile.
type UserService interface {
	GetMe(ctx context.Context) (*domain.PublicProfile, error)
}
