package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obinnaeze/renthaven-backend/api/controllers"
	"github.com/obinnaeze/renthaven-backend/api/middleware"
	"github.com/obinnaeze/renthaven-backend/internal/accounttype"
	"github.com/obinnaeze/renthaven-backend/internal/analytics"
	"github.com/obinnaeze/renthaven-backend/internal/auth"
	"github.com/obinnaeze/renthaven-backend/internal/bookings"
	"github.com/obinnaeze/renthaven-backend/internal/favorites"
	"github.com/obinnaeze/renthaven-backend/internal/gate"
	"github.com/obinnaeze/renthaven-backend/internal/listings"
	"github.com/obinnaeze/renthaven-backend/internal/onboarding"
	paymentsvc "github.com/obinnaeze/renthaven-backend/internal/payments"
	"github.com/obinnaeze/renthaven-backend/internal/reminder"
	"github.com/obinnaeze/renthaven-backend/internal/support"
	"github.com/obinnaeze/renthaven-backend/internal/verification"
	"github.com/obinnaeze/renthaven-backend/pkg/auth/session"
	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
	"github.com/obinnaeze/renthaven-backend/pkg/metrics"
	pkgredis "github.com/obinnaeze/renthaven-backend/pkg/redis"
)

// Deps carries everything the router mounts. Optional integrations
// (payments, analytics) may be nil; their routes are skipped.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    pkgredis.Pinger
	Gatherer prometheus.Gatherer

	Sessions  session.AccessSessionChecker
	TypeStore *accounttype.Store

	HTTPMetrics *metrics.HTTPMetrics
	GateMetrics *metrics.GateMetrics

	Auth         auth.Service
	Onboarding   onboarding.Service
	Verification verification.Service
	Reminders    reminder.Service
	Listings     listings.Service
	Bookings     bookings.Service
	Favorites    favorites.Service
	Payments     paymentsvc.Service
	Support      support.Service
	Analytics    analytics.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.Gate(gate.DefaultRouteTable(), deps.GateMetrics, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(deps.Auth, logg))
		r.Post("/login", controllers.Login(deps.Auth, logg))
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
		r.Post("/logout", controllers.Logout(deps.Auth, cfg.JWT, logg))
	})

	// Browsing listings needs no session.
	r.Route("/api/v1/listings", func(r chi.Router) {
		r.Get("/", controllers.ListListings(deps.Listings, logg))
		r.Get("/{listingID}", controllers.GetListing(deps.Listings, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, deps.TypeStore, logg))
			r.Post("/", controllers.CreateListing(deps.Listings, logg))
			r.Put("/{listingID}", controllers.UpdateListing(deps.Listings, logg))
			r.Delete("/{listingID}", controllers.DeleteListing(deps.Listings, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, deps.TypeStore, logg))

		r.Route("/onboarding", func(r chi.Router) {
			r.Get("/", controllers.GetOnboarding(deps.Onboarding, logg))
			r.Post("/", controllers.SaveOnboarding(deps.Onboarding, logg))
			r.Put("/", controllers.SaveOnboarding(deps.Onboarding, logg))
			r.Post("/complete", controllers.CompleteOnboarding(deps.Onboarding, deps.TypeStore, logg))
			r.Get("/progress", controllers.OnboardingProgress(deps.Onboarding, logg))
		})

		// POST starts a challenge, PUT submits a code against it.
		r.Route("/verification", func(r chi.Router) {
			r.Post("/", controllers.StartVerification(deps.Verification, logg))
			r.Put("/", controllers.CheckVerification(deps.Verification, logg))
			r.Get("/", controllers.VerificationStatus(deps.Verification, logg))
		})

		r.Route("/user-preferences", func(r chi.Router) {
			r.Get("/", controllers.GetPreferences(deps.TypeStore, logg))
			r.Post("/", controllers.SetPreferences(deps.TypeStore, logg))
			r.Delete("/", controllers.ClearPreferences(deps.TypeStore, logg))
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Post("/evaluate", controllers.EvaluateReminder(deps.Reminders, logg))
			r.Post("/skip", controllers.SkipReminder(deps.Reminders, logg))
			r.Post("/dismiss", controllers.DismissReminder(deps.Reminders, logg))
			r.Delete("/dismiss", controllers.ClearReminderDismissal(deps.Reminders, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateBooking(deps.Bookings, logg))
			r.Get("/", controllers.ListMyBookings(deps.Bookings, logg))
			r.Post("/{bookingID}/cancel", controllers.CancelBooking(deps.Bookings, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.ListFavorites(deps.Favorites, logg))
			r.Post("/", controllers.AddFavorite(deps.Favorites, logg))
			r.Delete("/{listingID}", controllers.RemoveFavorite(deps.Favorites, logg))
		})

		if deps.Payments != nil {
			r.Route("/payments", func(r chi.Router) {
				r.Post("/init", controllers.PayForBooking(deps.Payments, logg))
				r.Get("/verify/{paymentID}", controllers.VerifyPayment(deps.Payments, logg))
			})
		}

		r.Route("/support", func(r chi.Router) {
			r.Get("/whatsapp-link", controllers.WhatsAppLink(cfg.Support, logg))
			r.Post("/messages", controllers.ContactSupport(deps.Support, logg))
			r.Get("/messages", controllers.SupportHistory(deps.Support, logg))
		})

		if deps.Analytics != nil {
			r.Post("/track", controllers.TrackInteraction(deps.Analytics, logg))
		}
	})

	return r
}
