package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wishlyst/giftregistry/internal/auth"
	"github.com/wishlyst/giftregistry/internal/metrics"
)

type ctxKey int

const identityKey ctxKey = 0

// Identity returns the verified claims attached by Authenticator, or nil when
// the request did not pass through it. Handlers behind the gate can trust the
// result and must never re-parse raw token material.
func Identity(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(identityKey).(*auth.Claims)
	return claims
}

// Authenticator gates protected routes behind bearer-token verification. The
// verifier is injected rather than pulled from any shared registry. Every
// failure mode answers with the same 401 body; the concrete reason is only
// logged server-side so clients cannot probe which check failed.
func Authenticator(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				metrics.IncTokenRejected("missing")
				slog.Info("auth gate: no authorization header", "path", r.URL.Path)
				unauthenticated(w)
				return
			}

			scheme, tokenStr, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
				metrics.IncTokenRejected("malformed")
				slog.Info("auth gate: unsupported authorization scheme", "path", r.URL.Path)
				unauthenticated(w)
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				metrics.IncTokenRejected(rejectReason(err))
				slog.Info("auth gate: token rejected",
					"path", r.URL.Path,
					"reason", err.Error())
				unauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "signature"
	default:
		return "malformed"
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"})
}
