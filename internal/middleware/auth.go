package middleware

import (
	"net/http"
	"strings"

	"github.com/oyilmaz/ratehub/internal/api/httpx"
	"github.com/oyilmaz/ratehub/internal/auth"
	"github.com/oyilmaz/ratehub/internal/authz"
	"github.com/oyilmaz/ratehub/internal/models"
)

type AuthMiddleware struct {
	TM *auth.TokenManager
}

func NewAuthMiddleware(tm *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{TM: tm}
}

// Authenticate resolves the bearer token into the request actor. Requests
// without an Authorization header pass through anonymous — read endpoints are
// public and write authorization is decided per operation. A present but
// invalid token is a hard 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		claims, err := m.TM.Parse(token)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "invalid access token", nil)
			return
		}
		actor := authz.Actor{ID: claims.UserID, Role: models.Role(claims.Role)}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}
