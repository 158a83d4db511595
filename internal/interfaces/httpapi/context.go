package httpapi

import (
	"context"

	"github.com/melodiq/practice-league/internal/domain/account"
)

type contextKey string

const principalContextKey contextKey = "auth_principal"

func withPrincipal(ctx context.Context, p account.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (account.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(account.Principal)
	return p, ok
}
