package middleware

import (
	"context"

	"github.com/oyilmaz/ratehub/internal/authz"
)

type actorKey struct{}

func WithActor(ctx context.Context, a authz.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the request actor; the zero Actor means anonymous.
func ActorFrom(ctx context.Context) authz.Actor {
	if v := ctx.Value(actorKey{}); v != nil {
		if a, ok := v.(authz.Actor); ok {
			return a
		}
	}
	return authz.Actor{}
}
