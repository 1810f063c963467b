package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/skinloft/texture-library/pkg/texturelib"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorContext extracts the acting user from the verified JWT, if any, and
// stores a texturelib.Actor in the request context. Requests without a
// valid token proceed as anonymous; handlers that require authentication
// wrap themselves in RequireUser.
//
// Claims: "uid" carries the user id, "admin" the admin flag.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := texturelib.AnonymousActor

		token, claims, err := jwtauth.FromContext(r.Context())
		if err == nil && token != nil {
			if raw, ok := claims["uid"].(string); ok {
				if id, perr := uuid.Parse(raw); perr == nil {
					actor = texturelib.Actor{ID: id}
					if admin, ok := claims["admin"].(bool); ok {
						actor.Admin = admin
					}
				}
			}
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromRequest returns the actor stored by ActorContext, or the
// anonymous actor when the middleware did not run.
func ActorFromRequest(r *http.Request) texturelib.Actor {
	if actor, ok := r.Context().Value(actorKey).(texturelib.Actor); ok {
		return actor
	}
	return texturelib.AnonymousActor
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ActorFromRequest(r).Anonymous {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
