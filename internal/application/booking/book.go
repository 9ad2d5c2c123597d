package booking

import (
	"context"
	"fmt"

	"github.com/bookmymovie/booking-service/internal/domain"
)

// processBook drives the requested seats through available -> locked ->
// booked inside one transaction and records the booking with a price
// snapshot. If any requested seat is not available, nothing is persisted.
func (p *Pool) processBook(ctx context.Context, in BookIntent) (Result, error) {
	if len(in.SeatIDs) == 0 {
		return Result{}, domain.ErrValidation("no seats specified")
	}

	var created *domain.Booking
	err := p.store.WithTx(ctx, func(tx TxStore) error {
		until := p.clock.Now().Add(p.lockTTL)
		ok, err := tx.TryLockSeats(ctx, in.ShowtimeID, in.SeatIDs, in.BuyerID, until)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidState("some seats are no longer available")
		}

		// Re-read authoritative rows for the snapshot; the lock above proves
		// availability but not row/number/price.
		seats, err := tx.GetSeatsForShowtime(ctx, in.ShowtimeID)
		if err != nil {
			return err
		}
		byID := make(map[int64]domain.Seat, len(seats))
		for _, s := range seats {
			byID[s.ID] = s
		}

		snaps := make([]domain.SeatSnapshot, 0, len(in.SeatIDs))
		for _, id := range in.SeatIDs {
			s, ok := byID[id]
			if !ok {
				return domain.ErrNotFound(fmt.Sprintf("seat %d not found", id))
			}
			snaps = append(snaps, domain.SeatSnapshot{
				SeatID:     s.ID,
				Row:        s.Row,
				Number:     s.Number,
				PriceCents: s.PriceCents,
			})
		}

		created = domain.NewBooking(in.BuyerID, in.ShowtimeID, snaps, p.clock.Now())
		if err := tx.CreateBooking(ctx, created); err != nil {
			return err
		}
		return tx.MarkSeatsBooked(ctx, in.SeatIDs)
	})
	if err != nil {
		return Result{}, err
	}

	p.notifySeats(ctx, in.ShowtimeID, in.SeatIDs, domain.SeatBooked)
	p.publishEvent(ctx, "booking.confirmed", BookingConfirmedPayload{
		BookingID:        created.ID,
		BuyerID:          created.BuyerID,
		ShowtimeID:       created.ShowtimeID,
		SeatIDs:          created.SeatIDs(),
		TotalAmountCents: created.TotalAmountCents,
	})

	return Result{Success: true, Message: "booked", BookingID: created.ID}, nil
}
