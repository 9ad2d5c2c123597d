package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookmymovie/booking-service/internal/application/booking"
	"github.com/bookmymovie/booking-service/internal/domain"
	"github.com/bookmymovie/booking-service/internal/transport/http/dto"
	"github.com/bookmymovie/booking-service/internal/transport/http/middleware"
	"github.com/bookmymovie/booking-service/internal/transport/http/response"
	"github.com/bookmymovie/booking-service/internal/transport/http/validate"
)

type BookingsHandler struct {
	pool  *booking.Pool
	store booking.Store
}

func NewBookingsHandler(pool *booking.Pool, store booking.Store) *BookingsHandler {
	return &BookingsHandler{pool: pool, store: store}
}

// Create books seats on a showtime. The request is serialized behind every
// other request for the same showtime, so a 2xx here means the seats were
// committed in submission order.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid request body"))
		return
	}
	if req.ShowtimeID <= 0 {
		response.Err(w, r, domain.ErrValidationMeta("invalid request body", map[string]string{
			"showtime_id": "must be a positive integer",
		}))
		return
	}
	for _, id := range req.SeatIDs {
		if id <= 0 {
			response.Err(w, r, domain.ErrValidationMeta("invalid request body", map[string]string{
				"seat_ids": "must be positive integers",
			}))
			return
		}
	}

	// Cheap read-side check before the request enters the queue; the booking
	// protocol re-validates inside its transaction.
	if len(req.SeatIDs) > 0 {
		seats, err := h.store.GetSeatsForShowtime(r.Context(), req.ShowtimeID)
		if err != nil {
			response.Err(w, r, err)
			return
		}
		known := make(map[int64]bool, len(seats))
		for _, s := range seats {
			known[s.ID] = true
		}
		for _, id := range req.SeatIDs {
			if !known[id] {
				response.Err(w, r, domain.ErrNotFound(fmt.Sprintf("seat %d not found for this showtime", id)))
				return
			}
		}
	}

	res, err := h.pool.SubmitBooking(r.Context(), middleware.UserID(r), req.ShowtimeID, req.SeatIDs)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if !res.Success {
		failResult(w, r, res)
		return
	}
	response.Data(w, http.StatusCreated, res)
}

func (h *BookingsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListBookingsByBuyer(r.Context(), middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	out := make([]dto.BookingResp, 0, len(items))
	for _, b := range items {
		out = append(out, dto.ToBookingResp(b))
	}
	response.Data(w, http.StatusOK, out)
}

// Cancel releases a subset of the booking's seats back to the showtime.
func (h *BookingsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "booking_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"booking_id": "must be uuid",
		}))
		return
	}

	var req dto.CancelSeatsReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid request body"))
		return
	}

	res, err := h.pool.SubmitCancel(r.Context(), id, middleware.UserID(r), req.SeatIDs)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if !res.Success {
		failResult(w, r, res)
		return
	}
	response.Data(w, http.StatusOK, res)
}

// UpdateSeats replaces the booking's seat set with the requested one.
func (h *BookingsHandler) UpdateSeats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "booking_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"booking_id": "must be uuid",
		}))
		return
	}

	var req dto.UpdateSeatsReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid request body"))
		return
	}

	res, err := h.pool.SubmitUpdate(r.Context(), id, middleware.UserID(r), req.SeatIDs)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if !res.Success {
		failResult(w, r, res)
		return
	}
	response.Data(w, http.StatusOK, res)
}

// failResult turns a business failure back into the error shape the worker
// derived it from.
func failResult(w http.ResponseWriter, r *http.Request, res booking.Result) {
	response.Err(w, r, &domain.AppError{Code: res.Code, Message: res.Message})
}
