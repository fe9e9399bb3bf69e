package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wishlyst/giftregistry/internal/middleware"
	"github.com/wishlyst/giftregistry/internal/models"
	"github.com/wishlyst/giftregistry/internal/repo"
)

// ListHandler serves a user's gift lists. Every route sits behind the auth
// gate, so the owner always comes from the verified identity, never from the
// request.
type ListHandler struct {
	Repo      *repo.ListRepo
	AuditRepo *repo.AuditRepo
}

// CreateList creates a list for the current user.
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	var input struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		JSONValidationError(w, "validation failed",
			map[string]string{"title": "required"}, http.StatusBadRequest)
		return
	}

	list, err := h.Repo.Create(r.Context(), claims.UserID, input.Title)
	if err != nil {
		slog.Error("create list", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), claims.UserID, "create", "list", list.ID, list.Title)
	}

	writeJSON(w, http.StatusCreated, list)
}

// GetLists returns all of the current user's lists with gifts embedded.
func (h *ListHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	lists, err := h.Repo.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("list lists", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if lists == nil {
		lists = []models.List{}
	}

	writeJSON(w, http.StatusOK, lists)
}

// GetList returns one of the current user's lists.
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid list id", http.StatusBadRequest)
		return
	}

	list, err := h.Repo.GetByID(r.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "list not found", http.StatusNotFound)
			return
		}
		slog.Error("get list", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// UpdateList renames one of the current user's lists.
func (h *ListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid list id", http.StatusBadRequest)
		return
	}

	var input struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		JSONValidationError(w, "validation failed",
			map[string]string{"title": "required"}, http.StatusBadRequest)
		return
	}

	list, err := h.Repo.Rename(r.Context(), claims.UserID, id, input.Title)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "list not found", http.StatusNotFound)
			return
		}
		slog.Error("update list", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), claims.UserID, "update", "list", id, list.Title)
	}

	writeJSON(w, http.StatusOK, list)
}

// DeleteList removes one of the current user's lists.
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid list id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "list not found", http.StatusNotFound)
			return
		}
		slog.Error("delete list", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), claims.UserID, "delete", "list", id, "")
	}

	w.WriteHeader(http.StatusNoContent)
}

// SaveGift attaches a catalog gift to one of the current user's lists and
// returns the updated list.
func (h *ListHandler) SaveGift(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	listID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid list id", http.StatusBadRequest)
		return
	}

	var input struct {
		GiftID int `json:"gift_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.GiftID <= 0 {
		JSONValidationError(w, "validation failed",
			map[string]string{"gift_id": "required"}, http.StatusBadRequest)
		return
	}

	if err := h.Repo.AddGift(r.Context(), claims.UserID, listID, input.GiftID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "list not found", http.StatusNotFound)
			return
		}
		slog.Error("save gift to list", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	list, err := h.Repo.GetByID(r.Context(), claims.UserID, listID)
	if err != nil {
		slog.Error("reload list after save", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), claims.UserID, "update", "list", listID, "gift added")
	}

	writeJSON(w, http.StatusOK, list)
}

// RemoveGift detaches a gift from one of the current user's lists by gift id.
func (h *ListHandler) RemoveGift(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	listID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid list id", http.StatusBadRequest)
		return
	}
	giftID, err := strconv.Atoi(chi.URLParam(r, "giftID"))
	if err != nil {
		JSONError(w, "invalid gift id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.RemoveGift(r.Context(), claims.UserID, listID, giftID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "list or gift not found", http.StatusNotFound)
			return
		}
		slog.Error("remove gift from list", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), claims.UserID, "update", "list", listID, "gift removed")
	}

	w.WriteHeader(http.StatusNoContent)
}
