package booking

import (
	"context"
	"fmt"

	"github.com/bookmymovie/booking-service/internal/domain"
)

// processCancel releases a subset of a booking's seats back to available,
// shrinks the snapshot and marks the booking cancelled_partial, or refunded
// once the snapshot is emptied. The total amount is left as is: refund
// handling owns any money adjustment.
func (p *Pool) processCancel(ctx context.Context, showtimeID int64, in CancelIntent) (Result, error) {
	err := p.store.WithTx(ctx, func(tx TxStore) error {
		b, err := tx.GetBookingByID(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if b.BuyerID != in.BuyerID {
			return domain.ErrForbidden("not authorized to modify this booking")
		}
		if b.ShowtimeID != showtimeID {
			// Routing already pinned the showtime; this should never trigger.
			return domain.ErrInvalidState("booking/showtime mismatch")
		}
		if len(in.SeatIDs) == 0 {
			return domain.ErrValidation("no seats specified to cancel")
		}

		var invalid []int64
		for _, id := range in.SeatIDs {
			if !b.HasSeat(id) {
				invalid = append(invalid, id)
			}
		}
		if len(invalid) > 0 {
			return domain.ErrInvalidState(fmt.Sprintf("invalid seat ids: %v", invalid))
		}

		if err := tx.MarkSeatsAvailable(ctx, in.SeatIDs); err != nil {
			return err
		}

		release := make(map[int64]bool, len(in.SeatIDs))
		for _, id := range in.SeatIDs {
			release[id] = true
		}
		remaining := make([]domain.SeatSnapshot, 0, len(b.Seats))
		for _, s := range b.Seats {
			if !release[s.SeatID] {
				remaining = append(remaining, s)
			}
		}

		status := domain.BookingCancelledPartial
		if len(remaining) == 0 {
			status = domain.BookingRefunded
		}

		// Total stays untouched; only the snapshot and status change.
		return tx.UpdateBookingSeats(ctx, b.ID, remaining, b.TotalAmountCents, status, p.clock.Now())
	})
	if err != nil {
		return Result{}, err
	}

	p.notifySeats(ctx, showtimeID, in.SeatIDs, domain.SeatAvailable)
	p.publishEvent(ctx, "booking.cancelled", BookingCancelledPayload{
		BookingID:       in.BookingID,
		BuyerID:         in.BuyerID,
		ShowtimeID:      showtimeID,
		ReleasedSeatIDs: in.SeatIDs,
	})

	return Result{
		Success:   true,
		Message:   fmt.Sprintf("seats %v cancelled", in.SeatIDs),
		BookingID: in.BookingID,
	}, nil
}
