package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/appnutry/nutry-backend/api/controllers"
	"github.com/appnutry/nutry-backend/api/middleware"
	"github.com/appnutry/nutry-backend/internal/auth"
	financesvc "github.com/appnutry/nutry-backend/internal/finance"
	notifsvc "github.com/appnutry/nutry-backend/internal/notifications"
	patientsvc "github.com/appnutry/nutry-backend/internal/patients"
	plansvc "github.com/appnutry/nutry-backend/internal/plans"
	"github.com/appnutry/nutry-backend/pkg/auth/session"
	"github.com/appnutry/nutry-backend/pkg/config"
	"github.com/appnutry/nutry-backend/pkg/db"
	"github.com/appnutry/nutry-backend/pkg/logger"
	"github.com/appnutry/nutry-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	SessionVerifier session.AccessSessionChecker
	AuthService     auth.Service
	RegisterService auth.RegisterService
	Patients        patientsvc.Service
	Plans           plansvc.Service
	Finance         financesvc.Service
	Notifications   notifsvc.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, p.SessionVerifier, logg)).Post("/logout", controllers.AuthLogout(p.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionVerifier, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/me", controllers.SessionMe(p.AuthService, logg))

		r.Route("/patients", func(r chi.Router) {
			r.Post("/", controllers.CreatePatient(p.Patients, logg))
			r.Get("/", controllers.ListPatients(p.Patients, logg))
			r.Get("/{patientID}", controllers.GetPatient(p.Patients, logg))
			r.Put("/{patientID}", controllers.UpdatePatient(p.Patients, logg))
			r.Delete("/{patientID}", controllers.DeletePatient(p.Patients, logg))
			r.Get("/{patientID}/plans", controllers.ListPatientPlans(p.Plans, logg))
			r.Post("/{patientID}/plans", controllers.CreatePlan(p.Plans, logg))
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/{planID}", controllers.GetPlan(p.Plans, logg))
			r.Patch("/{planID}", controllers.UpdatePlan(p.Plans, logg))
			r.Delete("/{planID}", controllers.DeletePlan(p.Plans, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.CreatePayment(p.Finance, logg))
			r.Get("/", controllers.ListPayments(p.Finance, logg))
			r.Delete("/{paymentID}", controllers.DeletePayment(p.Finance, logg))
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", controllers.CreateExpense(p.Finance, logg))
			r.Get("/", controllers.ListExpenses(p.Finance, logg))
			r.Delete("/{expenseID}", controllers.DeleteExpense(p.Finance, logg))
		})

		r.Get("/ledger", controllers.GetLedger(p.Finance, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(p.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(p.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(p.Notifications, logg))
		})
	})

	return r
}
