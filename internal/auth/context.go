package auth

import (
	"context"
	"errors"
)

// ErrForbidden is returned by Authorize when the token lacks the scope.
var ErrForbidden = errors.New("insufficient scope")

type claimsKey struct{}

// WithClaims stores claims on the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// FromContext retrieves claims stored by WithClaims.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// Authorize checks that the caller on ctx holds scope. A write scope also
// grants read.
func Authorize(ctx context.Context, scope string) (*Claims, error) {
	claims, ok := FromContext(ctx)
	if !ok {
		return nil, ErrMissingToken
	}
	if claims.HasScope(scope) || (scope == ScopeAppRead && claims.HasScope(ScopeAppWrite)) {
		return claims, nil
	}
	return claims, ErrForbidden
}
