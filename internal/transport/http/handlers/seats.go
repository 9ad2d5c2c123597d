package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookmymovie/booking-service/internal/application/booking"
	"github.com/bookmymovie/booking-service/internal/domain"
	"github.com/bookmymovie/booking-service/internal/transport/http/dto"
	"github.com/bookmymovie/booking-service/internal/transport/http/response"
)

type SeatsHandler struct {
	store booking.Store
}

func NewSeatsHandler(store booking.Store) *SeatsHandler {
	return &SeatsHandler{store: store}
}

// SeatMap is the public seat map for one showtime. It is a read outside the
// showtime's queue, so a seat shown available here can still lose the race
// at booking time.
func (h *SeatsHandler) SeatMap(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := strconv.ParseInt(chi.URLParam(r, "showtime_id"), 10, 64)
	if err != nil || showtimeID <= 0 {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"showtime_id": "must be a positive integer",
		}))
		return
	}

	seats, err := h.store.GetSeatsForShowtime(r.Context(), showtimeID)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	out := make([]dto.SeatResp, 0, len(seats))
	for _, s := range seats {
		out = append(out, dto.ToSeatResp(s))
	}
	response.Data(w, http.StatusOK, out)
}
