package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vncsmyrnk/rabbitfarm/internal/metrics"
)

type Handlers struct {
	Auth     *AuthHandler
	Farms    *FarmHandler
	Hutches  *HutchHandler
	Rabbits  *RabbitHandler
	Breeding *BreedingHandler
	Earnings *EarningsHandler
	Alerts   *AlertHandler
	Migrate  *MigrateHandler
}

func NewHandler(h Handlers, authn *Authenticator, limiter *RateLimiter, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RecordPeer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Migrate-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Post("/migrate", h.Migrate.Migrate)

	r.Route("/auth", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/google", h.Auth.LoginWithGoogle)
		r.Get("/verify-email/{token}", h.Auth.VerifyEmail)
		r.Post("/resend-verification", h.Auth.ResendVerification)
		r.Get("/reset-password/{token}/validate", h.Auth.ValidateResetToken)
		r.Post("/forgot-password", h.Auth.ForgotPassword)
		r.Post("/reset-password/{token}", h.Auth.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authn.RequireUser)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
		})
	})

	r.Route("/farms", func(r chi.Router) {
		r.Use(authn.RequireUser)

		r.Post("/", h.Farms.Create)
		r.Get("/", h.Farms.GetAll)

		r.Route("/{farmId}", func(r chi.Router) {
			r.Use(authn.RequireFarm)

			r.Get("/", h.Farms.GetByID)
			r.Put("/", h.Farms.Update)
			r.Delete("/", h.Farms.Delete)

			r.Route("/hutches", func(r chi.Router) {
				r.Post("/", h.Hutches.Create)
				r.Get("/", h.Hutches.GetAll)
				r.Get("/{id}", h.Hutches.GetByID)
				r.Put("/{id}", h.Hutches.Update)
				r.Delete("/{id}", h.Hutches.Delete)
				r.Get("/{id}/history", h.Hutches.History)
			})

			r.Route("/rabbits", func(r chi.Router) {
				r.Post("/", h.Rabbits.Create)
				r.Get("/", h.Rabbits.GetAll)
				r.Get("/{id}", h.Rabbits.GetByID)
				r.Put("/{id}", h.Rabbits.Update)
				r.Delete("/{id}", h.Rabbits.Delete)
			})

			r.Route("/breeding-records", func(r chi.Router) {
				r.Post("/", h.Breeding.Create)
				r.Get("/", h.Breeding.GetAll)
				r.Get("/{id}", h.Breeding.GetByID)
				r.Put("/{id}", h.Breeding.Update)
				r.Delete("/{id}", h.Breeding.Delete)
				r.Post("/{id}/kits", h.Breeding.AddKits)
				r.Get("/{id}/kits", h.Breeding.GetKits)
				r.Put("/{id}/kits/{kitId}", h.Breeding.UpdateKit)
				r.Delete("/{id}/kits/{kitId}", h.Breeding.DeleteKit)
			})

			r.Route("/earnings", func(r chi.Router) {
				r.Post("/", h.Earnings.Create)
				r.Get("/", h.Earnings.GetAll)
				r.Get("/{id}", h.Earnings.GetByID)
				r.Put("/{id}", h.Earnings.Update)
				r.Delete("/{id}", h.Earnings.Delete)
			})

			r.Get("/alerts", h.Alerts.GetAll)
		})
	})

	return r
}
