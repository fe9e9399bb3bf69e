package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wishlyst/giftregistry/internal/auth"
	"github.com/wishlyst/giftregistry/internal/config"
	"github.com/wishlyst/giftregistry/internal/handlers"
	"github.com/wishlyst/giftregistry/internal/middleware"
	"github.com/wishlyst/giftregistry/internal/repo"
)

// newRouter wires every repo, handler, and middleware into the API router.
// Tests build the same router against a sqlmock DB.
func newRouter(db *sql.DB, cfg config.Config) chi.Router {
	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokens([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)

	userRepo := repo.NewUserRepo(db)
	giftRepo := repo.NewGiftRepo(db)
	listRepo := repo.NewListRepo(db)
	auditRepo := repo.NewAuditRepo(db)
	reminderRepo := repo.NewReminderRepo(db)

	authHandler := &handlers.AuthHandler{UserRepo: userRepo, Hasher: hasher, Tokens: tokens}
	giftHandler := &handlers.GiftHandler{Repo: giftRepo, AuditRepo: auditRepo}
	listHandler := &handlers.ListHandler{Repo: listRepo, AuditRepo: auditRepo}
	accountHandler := &handlers.AccountHandler{UserRepo: userRepo, ListRepo: listRepo}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}
	reminderHandler := &handlers.ReminderHandler{Repo: reminderRepo}

	hsts := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(hsts))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Prometheus)
	r.Use(middleware.RequestLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Login and registration get the tight per-IP bucket.
	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
	})

	// Public catalog reads.
	r.Get("/gifts", giftHandler.ListGifts)
	r.Get("/gifts/{id}", giftHandler.GetGift)
	r.With(middleware.MaxBytes(middleware.DefaultMaxBodyBytes)).
		Post("/gifts/search", giftHandler.SearchGifts)
	r.With(middleware.MaxBytes(middleware.DefaultMaxBodyBytes)).
		Post("/carousel", giftHandler.Carousel)

	// Everything below requires a verified identity.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(tokens))
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

		r.Post("/auth/refresh", authHandler.Refresh)

		r.Get("/account", accountHandler.GetAccount)

		r.Post("/gifts", giftHandler.CreateGift)
		r.Delete("/gifts/{id}", giftHandler.DeleteGift)

		r.Get("/lists", listHandler.GetLists)
		r.Post("/lists", listHandler.CreateList)
		r.Get("/lists/{id}", listHandler.GetList)
		r.Put("/lists/{id}", listHandler.UpdateList)
		r.Delete("/lists/{id}", listHandler.DeleteList)
		r.Post("/lists/{id}/gifts", listHandler.SaveGift)
		r.Delete("/lists/{id}/gifts/{giftID}", listHandler.RemoveGift)

		r.Get("/audit", auditHandler.ListAudit)

		r.Get("/reminders", reminderHandler.ListReminders)
		r.Post("/reminders", reminderHandler.CreateReminder)
		r.Put("/reminders/{id}", reminderHandler.UpdateReminder)
		r.Delete("/reminders/{id}", reminderHandler.DeleteReminder)
	})

	return r
}
