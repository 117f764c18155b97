package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/commerce-system/internal/core/domain"
	"github.com/99minutos/commerce-system/internal/core/ports"
)

// AuthGuard enforces that only the owner of a resource or an admin reaches it.
type AuthGuard struct {
	auth ports.Authenticator
	log  zerolog.Logger
}

func NewAuthGuard(auth ports.Authenticator, log zerolog.Logger) *AuthGuard {
	return &AuthGuard{auth: auth, log: log}
}

// ValidateSelfOrAdmin returns nil when the caller is an admin or is targetID,
// and domain.ErrForbidden otherwise.
func (g *AuthGuard) ValidateSelfOrAdmin(ctx context.Context, targetID int64) error {
	user, err := g.auth.Authenticated(ctx)
	if err != nil {
		return err
	}
	if user.HasRole(domain.RoleAdmin) || user.ID == targetID {
		return nil
	}

	g.log.Warn().
		Int64("user_id", user.ID).
		Int64("target_id", targetID).
		Msg("access denied")
	return domain.ErrForbidden
}
