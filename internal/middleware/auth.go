package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oakmill/taskman/internal/ctxkeys"
	"github.com/oakmill/taskman/internal/service"
)

// RequireAuth resolves the bearer token to a user and binds both to the
// request context. Decode failure, a bad signature, expiry, or a token no
// longer present in the user's token set all produce the same 401; no
// partial state reaches the handler.
func RequireAuth(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			user, err := authService.Authenticate(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithSessionToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "please authenticate"})
}
