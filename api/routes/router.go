package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourhub-io/tourhub-backend/api/controllers"
	"github.com/tourhub-io/tourhub-backend/api/middleware"
	"github.com/tourhub-io/tourhub-backend/api/responses"
	authsvc "github.com/tourhub-io/tourhub-backend/internal/auth"
	resetsvc "github.com/tourhub-io/tourhub-backend/internal/passwordreset"
	toursvc "github.com/tourhub-io/tourhub-backend/internal/tours"
	usersvc "github.com/tourhub-io/tourhub-backend/internal/users"
	"github.com/tourhub-io/tourhub-backend/pkg/config"
	"github.com/tourhub-io/tourhub-backend/pkg/enums"
	"github.com/tourhub-io/tourhub-backend/pkg/logger"
	"github.com/tourhub-io/tourhub-backend/pkg/metrics"
	"github.com/tourhub-io/tourhub-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Nil limiter or metrics
// disables the corresponding middleware, which the tests rely on.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DBPinger     controllers.Pinger
	Redis        *redis.Client
	Metrics      *metrics.HTTPMetrics
	AuthService  authsvc.Service
	ResetService resetsvc.Service
	UserService  *usersvc.Service
	TourService  toursvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	wr := responses.Writer{Logger: logg, DevMode: cfg.App.IsDev()}
	secureCookies := !cfg.App.IsDev()

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(wr, logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	var limiter *redis.Client
	if deps.Redis != nil {
		limiter = deps.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, wr, map[string]controllers.Pinger{
			"postgres": deps.DBPinger,
			"redis":    redisPinger(deps.Redis),
		}))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if limiter != nil {
			r.Use(middleware.RateLimit(cfg.RateLimit, limiter, wr, logg))
		}

		r.Route("/users", func(r chi.Router) {
			if limiter != nil {
				r.With(middleware.AuthRateLimit(signupPolicy, limiter, wr, logg)).
					Post("/signup", controllers.Signup(deps.AuthService, cfg.JWT, secureCookies, wr))
				r.With(middleware.AuthRateLimit(loginPolicy, limiter, wr, logg)).
					Post("/login", controllers.Login(deps.AuthService, cfg.JWT, secureCookies, wr))
			} else {
				r.Post("/signup", controllers.Signup(deps.AuthService, cfg.JWT, secureCookies, wr))
				r.Post("/login", controllers.Login(deps.AuthService, cfg.JWT, secureCookies, wr))
			}
			r.Get("/logout", controllers.Logout())
			r.Post("/forgot-password", controllers.ForgotPassword(deps.ResetService, wr))
			r.Patch("/reset-password/{token}", controllers.ResetPassword(deps.ResetService, cfg.JWT, secureCookies, wr))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(deps.AuthService, wr, logg))

				r.Get("/me", controllers.GetMe(wr))
				r.Patch("/update-myself", controllers.UpdateMe(deps.UserService, wr))
				r.Delete("/delete-myself", controllers.DeleteMe(deps.UserService, wr))

				r.With(middleware.RequireRole(wr, enums.UserRoleAdmin)).
					Get("/", controllers.ListUsers(deps.UserService, wr))
				r.With(middleware.RequireRole(wr, enums.UserRoleAdmin)).
					Get("/{id}", controllers.GetUser(deps.UserService, wr))
				r.With(middleware.RequireRole(wr, enums.UserRoleAdmin, enums.UserRoleLeadGuide)).
					Delete("/{id}", controllers.DeleteUser(deps.UserService, wr))
			})
		})

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", controllers.ListTours(deps.TourService, wr))
			r.Get("/top-5", controllers.TopTours(deps.TourService, wr))
			r.Get("/stats", controllers.TourStats(deps.TourService, wr))
			r.Get("/{id}", controllers.GetTour(deps.TourService, wr))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(deps.AuthService, wr, logg))
				r.Use(middleware.RequireRole(wr, enums.UserRoleAdmin, enums.UserRoleLeadGuide))

				r.Post("/", controllers.CreateTour(deps.TourService, wr))
				r.Patch("/{id}", controllers.UpdateTour(deps.TourService, wr))
				r.Delete("/{id}", controllers.DeleteTour(deps.TourService, wr))
			})
		})
	})

	return r
}

// redisPinger keeps the readiness map free of typed-nil interface values.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
