package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wishlyst/giftregistry/internal/auth"
	"github.com/wishlyst/giftregistry/internal/metrics"
	"github.com/wishlyst/giftregistry/internal/middleware"
	"github.com/wishlyst/giftregistry/internal/repo"
)

// AuthHandler owns registration, login, and token refresh. The hasher and
// token service are injected so nothing here reaches into shared state.
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Hasher   auth.Hasher
	Tokens   *auth.Tokens
}

// Register creates a user. The password is hashed before anything touches the
// store; a duplicate username answers 409.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string)
	if input.Username == "" {
		fields["username"] = "required"
	} else if input.Username != strings.TrimSpace(input.Username) {
		fields["username"] = "cannot start or end with whitespace"
	}
	if len(input.Password) < 10 {
		fields["password"] = "must be at least 10 characters"
	} else if len(input.Password) > 72 {
		fields["password"] = "must be at most 72 characters"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	digest, err := h.Hasher.Hash(input.Password)
	if err != nil {
		slog.Error("register: hash password", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.Username, digest)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateUsername) {
			JSONError(w, "username already taken", http.StatusConflict)
			return
		}
		slog.Error("register: create user", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and issues a session token. Unknown username and
// wrong password collapse into one client-visible outcome so the endpoint
// cannot be used to enumerate usernames.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), input.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			metrics.IncLogin("invalid_credentials")
			slog.Info("login rejected", "reason", "unknown username")
			JSONError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		// Store failures are infrastructure signals, not credential
		// mismatches; do not mask them as 401.
		metrics.IncLogin("error")
		slog.Error("login: lookup user", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if !h.Hasher.Verify(input.Password, user.PasswordHash) {
		metrics.IncLogin("invalid_credentials")
		slog.Info("login rejected", "reason", "password mismatch", "username", user.Username)
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	signed, err := h.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		metrics.IncLogin("error")
		slog.Error("login: issue token", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncLogin("ok")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": signed,
		"user":  user,
	})
}

// Refresh mints a fresh token for the already-verified subject. It sits
// behind the auth gate, so the identity in context is trusted.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	signed, err := h.Tokens.Issue(claims.UserID, claims.Subject)
	if err != nil {
		slog.Error("refresh: issue token", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}
