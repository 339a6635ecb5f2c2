package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cardiolog/cardiolog-go/internal/crypto"
	"github.com/cardiolog/cardiolog-go/internal/model"
	"github.com/cardiolog/cardiolog-go/internal/service"
)

// Authenticator resolves a bearer token to the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Identity, error)
}

// AuthedHandlerFunc is a handler that receives the authenticated caller
// explicitly instead of reading it from the request context.
type AuthedHandlerFunc func(w http.ResponseWriter, r *http.Request, id model.Identity)

// Authenticated wraps next so that it only runs for requests carrying a valid
// bearer token. All authentication failures answer 401 with the same body;
// the reason is only logged.
func Authenticated(authn Authenticator, next AuthedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := authn.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			if isAuthFailure(err) {
				slog.DebugContext(r.Context(), "authentication failed", "reason", err)
				writeJSONError(w, http.StatusUnauthorized, "not authorized")
				return
			}
			slog.ErrorContext(r.Context(), "authentication lookup failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		next(w, r, id)
	}
}

func bearerToken(r *http.Request) string {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func isAuthFailure(err error) bool {
	return errors.Is(err, service.ErrMissingCredentials) ||
		errors.Is(err, service.ErrUnauthorized) ||
		errors.Is(err, crypto.ErrInvalidToken) ||
		errors.Is(err, crypto.ErrExpiredToken)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
