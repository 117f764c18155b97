package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/commerce-system/internal/core/domain"
	"github.com/99minutos/commerce-system/internal/core/ports"
)

// IdentityService resolves principals from the identity store and the
// caller identity attached to the request.
type IdentityService struct {
	store   ports.IdentityStore
	authCtx ports.AuthContext
	log     zerolog.Logger
}

func NewIdentityService(store ports.IdentityStore, authCtx ports.AuthContext, log zerolog.Logger) *IdentityService {
	return &IdentityService{store: store, authCtx: authCtx, log: log}
}

// LoadByUsername folds the role assignment rows of username into a single
// Principal whose role set is the union of the row tags.
func (s *IdentityService) LoadByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	rows, err := s.store.SearchRoleAssignments(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load by username: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}

	p := &domain.Principal{
		ID:             rows[0].UserID,
		Username:       rows[0].Username,
		CredentialHash: rows[0].CredentialHash,
		Roles:          domain.NewRoleSet(),
	}
	for _, row := range rows {
		if row.UserID != p.ID || row.Username != p.Username || row.CredentialHash != p.CredentialHash {
			s.log.Error().
				Str("username", username).
				Int64("role_id", row.RoleID).
				Msg("identity rows disagree")
			return nil, fmt.Errorf("load by username %q: %w", username, domain.ErrCredentialMismatch)
		}
		role, err := domain.ParseRole(row.RoleTag)
		if err != nil {
			return nil, fmt.Errorf("load by username %q: %w", username, err)
		}
		p.Roles.Add(role)
	}
	return p, nil
}

// Authenticated returns the stored record of the calling user. A missing or
// malformed caller identity is reported as domain.ErrUnauthenticated.
func (s *IdentityService) Authenticated(ctx context.Context) (*domain.User, error) {
	username, err := s.authCtx.CurrentUsername(ctx)
	if err != nil || username == "" {
		s.log.Debug().AnErr("cause", err).Msg("no caller identity")
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user, nil
}

type userService struct {
	auth ports.Authenticator
}

// NewUserService returns the profile use cases backed by auth.
func NewUserService(auth ports.Authenticator) ports.UserService {
	return &userService{auth: auth}
}

// GetMe returns the caller's public profile.
func (s *userService) GetMe(ctx context.Context) (*domain.PublicProfile, error) {
	user, err := s.auth.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}
