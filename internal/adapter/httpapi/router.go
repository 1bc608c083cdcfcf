package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/carhub/car-inventory/internal/adapter/httpapi/middleware"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"github.com/carhub/car-inventory/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the REST surface. Everything under /api/cars and
// the profile/logout endpoints require a bearer credential; register
// and login are public.
func NewRouter(cars *CarHandler, users *UserHandler, m *metrics.MetricsManager, jwtSecret string, tokens middleware.TokenValidator, log *logger.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(instrument(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Post("/api/users/register", users.HandleRegister)
	r.Post("/api/users/login", users.HandleLogin)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.JWTAuth(jwtSecret, tokens, log))

		auth.Get("/api/users/profile", users.HandleGetProfile)
		auth.Post("/api/users/logout", users.HandleLogout)

		auth.Route("/api/cars", func(c chi.Router) {
			c.Post("/", cars.HandleCreateCar)
			c.Get("/", cars.HandleListCars)
			c.Get("/search", cars.HandleSearchCars)
			c.Get("/{id}", cars.HandleGetCar)
			c.Patch("/{id}", cars.HandleUpdateCar)
			c.Delete("/{id}", cars.HandleDeleteCar)
			c.Post("/{id}/photos", cars.HandleUploadPhoto)
		})
	})

	return r
}

// instrument records per-route latency and error counts.
func instrument(m *metrics.MetricsManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPLatencySecond.WithLabelValues(route).Observe(time.Since(start).Seconds())
			if ww.Status() >= http.StatusBadRequest {
				m.HTTPErrorsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			}
		})
	}
}
