package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/softpunk/emberfell/internal/api/apierr"
	"github.com/softpunk/emberfell/internal/model"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Header names set by the host platform's embedding layer. The platform
// terminates its own auth in front of this server, so the headers are
// trusted as-is.
const (
	HeaderPlayerID   = "X-Player-ID"
	HeaderPlayerName = "X-Player-Name"
)

// Identity creates middleware that requires host-platform identity headers
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := extractIdentity(r)
			if !ok {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, &identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractIdentity reads the platform identity headers from the request
func extractIdentity(r *http.Request) (model.Identity, bool) {
	id := strings.TrimSpace(r.Header.Get(HeaderPlayerID))
	if id == "" {
		return model.Identity{}, false
	}

	name := strings.TrimSpace(r.Header.Get(HeaderPlayerName))
	if name == "" {
		name = id
	}

	return model.Identity{
		ID:   model.PlayerID(id),
		Name: name,
	}, true
}

// GetIdentity returns the player identity from the request context
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

// MustGetIdentity returns the player identity or panics
func MustGetIdentity(ctx context.Context) *model.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - identity middleware not applied?")
	}
	return identity
}
