package ports

import (
	"context"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

// AuthService issues bearer tokens for valid credentials.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.Principal, error)
}
