package http

import (
	"context"

	"facility-admin-backend/internal/domain"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorFromContext returns the authenticated profile, or nil on public routes.
func ActorFromContext(ctx context.Context) *domain.Profile {
	actor, _ := ctx.Value(actorContextKey).(*domain.Profile)
	return actor
}

// ContextWithActor is used by the auth middleware and by tests.
func ContextWithActor(ctx context.Context, actor *domain.Profile) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}
