package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/huntworks/trailhunt/internal/api/apierr"
	"github.com/huntworks/trailhunt/internal/identity"
	"github.com/huntworks/trailhunt/internal/model"
)

type contextKey string

const participantContextKey contextKey = "participant"

// Auth creates authentication middleware that resolves the presented
// credential to a participant id
func Auth(resolver identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthenticatedError())
				return
			}

			participantID, err := resolver.Resolve(r.Context(), identity.Credential(token))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), participantContextKey, participantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the credential if one is present but doesn't require it.
// The events feed uses this so anonymous scoreboards can watch while
// authenticated participants still get labelled connections
func OptionalAuth(resolver identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				if participantID, err := resolver.Resolve(r.Context(), identity.Credential(token)); err == nil {
					ctx := context.WithValue(r.Context(), participantContextKey, participantID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken extracts the participant credential from the request.
// The access_token query parameter exists for EventSource clients, which
// cannot set request headers
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if token := r.URL.Query().Get("access_token"); token != "" {
		return token
	}

	// Fall back to cookie
	cookie, err := r.Cookie("trailhunt_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetParticipant returns the authenticated participant id from the request context
func GetParticipant(ctx context.Context) model.ParticipantID {
	id, _ := ctx.Value(participantContextKey).(model.ParticipantID)
	return id
}

// MustGetParticipant returns the authenticated participant id or panics
func MustGetParticipant(ctx context.Context) model.ParticipantID {
	id := GetParticipant(ctx)
	if id == "" {
		panic("no participant in context - auth middleware not applied?")
	}
	return id
}
