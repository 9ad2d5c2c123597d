package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/bookmymovie/booking-service/internal/config"
	"github.com/bookmymovie/booking-service/internal/transport/http/handlers"
	authmw "github.com/bookmymovie/booking-service/internal/transport/http/middleware"
)

func New(
	bh *handlers.BookingsHandler,
	sh *handlers.SeatsHandler,
	z *handlers.HealthHandler,
	auth *authmw.AuthMiddleware,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(authmw.RequestID)
	r.Use(authmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authmw.AccessLog)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Healthz)

	r.Route("/booking/v1", func(r chi.Router) {
		r.Get("/showtimes/{showtime_id}/seats", sh.SeatMap)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Post("/bookings", bh.Create)
			r.Get("/bookings", bh.ListMine)
			r.Post("/bookings/{booking_id}/cancel", bh.Cancel)
			r.Patch("/bookings/{booking_id}/seats", bh.UpdateSeats)
		})
	})

	return r
}
