package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"
	"github.com/wishlyst/giftregistry/internal/middleware"
	"github.com/wishlyst/giftregistry/internal/models"
	"github.com/wishlyst/giftregistry/internal/repo"
)

// ReminderHandler manages the current user's holiday reminder schedules.
type ReminderHandler struct {
	Repo *repo.ReminderRepo
}

func validReminderInput(holiday, cronExpr string) map[string]string {
	fields := make(map[string]string)
	if holiday == "" {
		fields["holiday"] = "required"
	}
	if cronExpr == "" {
		fields["cron_expr"] = "required"
	} else if _, err := cron.ParseStandard(cronExpr); err != nil {
		fields["cron_expr"] = "invalid cron expression"
	}
	return fields
}

// CreateReminder schedules a reminder for the current user.
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	var input struct {
		Holiday  string `json:"holiday"`
		CronExpr string `json:"cron_expr"`
		Enabled  *bool  `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if fields := validReminderInput(input.Holiday, input.CronExpr); len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	rem, err := h.Repo.Create(r.Context(), claims.UserID, input.Holiday, input.CronExpr, enabled)
	if err != nil {
		slog.Error("create reminder", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, rem)
}

// ListReminders returns the current user's reminders.
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	reminders, err := h.Repo.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("list reminders", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}

	writeJSON(w, http.StatusOK, reminders)
}

// UpdateReminder changes one of the current user's reminders.
func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid reminder id", http.StatusBadRequest)
		return
	}

	var input struct {
		Holiday  string `json:"holiday"`
		CronExpr string `json:"cron_expr"`
		Enabled  bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if fields := validReminderInput(input.Holiday, input.CronExpr); len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	rem, err := h.Repo.Update(r.Context(), claims.UserID, id, input.Holiday, input.CronExpr, input.Enabled)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "reminder not found", http.StatusNotFound)
			return
		}
		slog.Error("update reminder", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rem)
}

// DeleteReminder removes one of the current user's reminders.
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid reminder id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "reminder not found", http.StatusNotFound)
			return
		}
		slog.Error("delete reminder", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
