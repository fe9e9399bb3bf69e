package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wishlyst/giftregistry/internal/models"
	"github.com/wishlyst/giftregistry/internal/repo"
)

// AuditHandler exposes the recent audit trail.
type AuditHandler struct {
	Repo *repo.AuditRepo
}

// ListAudit returns recent audit entries, newest first.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		slog.Error("list audit", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":  entries,
		"limit":  limit,
		"offset": offset,
	})
}
