// Package authctx carries the caller identity from the auth middleware to the
// core through the request context.
package authctx

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoPrincipal   = errors.New("no principal on context")
	ErrPrincipalType = errors.New("principal is not a username")
)

type principalKey struct{}

// WithPrincipal attaches the raw principal claim. It is stored untyped so a
// token carrying a non-string username is detected when it is read.
func WithPrincipal(ctx context.Context, principal any) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// RequestContext implements ports.AuthContext over request contexts.
type RequestContext struct{}

func (RequestContext) CurrentUsername(ctx context.Context) (string, error) {
	v := ctx.Value(principalKey{})
	if v == nil {
		return "", ErrNoPrincipal
	}
	username, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrPrincipalType, v)
	}
	return username, nil
}
