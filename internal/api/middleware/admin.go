package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/huntworks/trailhunt/internal/api/apierr"
)

// Admin creates middleware that guards operator endpoints with a shared token.
// The configured value is either the token itself or a bcrypt hash of it, so
// deployments can keep the credential hashed at rest. An empty configured
// value disables the admin surface entirely.
func Admin(configured string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := ExtractToken(r)
			if configured == "" || presented == "" || !adminTokenMatches(configured, presented) {
				apierr.WriteError(w, apierr.NewUnauthenticatedError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func adminTokenMatches(configured, presented string) bool {
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(presented)) == 1
}
