package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wishlyst/giftregistry/internal/middleware"
	"github.com/wishlyst/giftregistry/internal/models"
	"github.com/wishlyst/giftregistry/internal/repo"
)

// AccountHandler serves the assembled account view. The subject comes from
// the verified token, never from the URL.
type AccountHandler struct {
	UserRepo *repo.UserRepo
	ListRepo *repo.ListRepo
}

// GetAccount returns the current user plus their lists with gifts embedded.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	user, err := h.UserRepo.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// A valid token for a user that no longer exists.
			JSONError(w, "account not found", http.StatusNotFound)
			return
		}
		slog.Error("get account: lookup user", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	lists, err := h.ListRepo.ListByUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("get account: load lists", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if lists == nil {
		lists = []models.List{}
	}

	writeJSON(w, http.StatusOK, models.Account{User: *user, Lists: lists})
}
