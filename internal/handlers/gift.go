package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wishlyst/giftregistry/internal/middleware"
	"github.com/wishlyst/giftregistry/internal/models"
	"github.com/wishlyst/giftregistry/internal/repo"
)

// GiftHandler serves the shared gift catalog: create, browse, search, and the
// carousel preview.
type GiftHandler struct {
	Repo      *repo.GiftRepo
	AuditRepo *repo.AuditRepo
}

// giftInput carries the seven fields a gift requires. Every one is mandatory.
type giftInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Price       string `json:"price" validate:"required,max=50"`
	Holiday     string `json:"holiday" validate:"required,max=100"`
	Recipient   string `json:"recipient" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
	Link        string `json:"link" validate:"required,url"`
	Image       string `json:"image" validate:"required,url"`
}

// CreateGift adds a gift to the catalog. Missing fields come back one by one in
// the validation response.
func (h *GiftHandler) CreateGift(w http.ResponseWriter, r *http.Request) {
	var input giftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Tag() {
				case "required":
					fields[fe.Field()] = "required"
				case "url":
					fields[fe.Field()] = "must be a valid URL"
				default:
					fields[fe.Field()] = "invalid"
				}
			}
		}
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	gift, err := h.Repo.Create(r.Context(), models.Gift{
		Name:        input.Name,
		Price:       input.Price,
		Holiday:     input.Holiday,
		Recipient:   input.Recipient,
		Description: input.Description,
		Link:        input.Link,
		Image:       input.Image,
	})
	if err != nil {
		slog.Error("create gift", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		if claims := middleware.Identity(r.Context()); claims != nil {
			_ = h.AuditRepo.Log(r.Context(), claims.UserID, "create", "gift", gift.ID, gift.Name)
		}
	}

	writeJSON(w, http.StatusCreated, gift)
}

// ListGifts returns gifts, paginated, with optional holiday/recipient/q filters.
func (h *GiftHandler) ListGifts(w http.ResponseWriter, r *http.Request) {
	limit := 10
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

	filter := repo.GiftFilter{
		Holiday:   r.URL.Query().Get("holiday"),
		Recipient: r.URL.Query().Get("recipient"),
		Query:     r.URL.Query().Get("q"),
	}

	gifts, err := h.Repo.Search(r.Context(), filter, limit, offset)
	if err != nil {
		slog.Error("list gifts", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if gifts == nil {
		gifts = []models.Gift{}
	}

	writeJSON(w, http.StatusOK, gifts)
}

// GetGift returns one gift by id.
func (h *GiftHandler) GetGift(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid gift id", http.StatusBadRequest)
		return
	}

	gift, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "gift not found", http.StatusNotFound)
			return
		}
		slog.Error("get gift", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, gift)
}

// DeleteGift removes a gift from the catalog.
func (h *GiftHandler) DeleteGift(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid gift id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "gift not found", http.StatusNotFound)
			return
		}
		slog.Error("delete gift", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		if claims := middleware.Identity(r.Context()); claims != nil {
			_ = h.AuditRepo.Log(r.Context(), claims.UserID, "delete", "gift", id, "")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchGifts filters the catalog by a posted holiday/recipient pair.
func (h *GiftHandler) SearchGifts(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Holiday   string `json:"holiday"`
		Recipient string `json:"recipient"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Holiday == "" && input.Recipient == "" {
		JSONValidationError(w, "validation failed",
			map[string]string{"holiday": "holiday or recipient required"}, http.StatusBadRequest)
		return
	}

	gifts, err := h.Repo.Search(r.Context(), repo.GiftFilter{
		Holiday:   input.Holiday,
		Recipient: input.Recipient,
	}, 50, 0)
	if err != nil {
		slog.Error("search gifts", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if gifts == nil {
		gifts = []models.Gift{}
	}

	writeJSON(w, http.StatusOK, gifts)
}

// Carousel assembles the preview for a holiday/recipient combination: the
// selection echoed back with the gifts that match it.
func (h *GiftHandler) Carousel(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Holiday   string `json:"holiday"`
		Recipient string `json:"recipient"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	if input.Holiday == "" {
		fields["holiday"] = "required"
	}
	if input.Recipient == "" {
		fields["recipient"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	gifts, err := h.Repo.Search(r.Context(), repo.GiftFilter{
		Holiday:   input.Holiday,
		Recipient: input.Recipient,
	}, 20, 0)
	if err != nil {
		slog.Error("carousel", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if gifts == nil {
		gifts = []models.Gift{}
	}

	writeJSON(w, http.StatusOK, models.Carousel{
		Holiday:   input.Holiday,
		Recipient: input.Recipient,
		Gifts:     gifts,
	})
}
