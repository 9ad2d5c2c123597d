package booking

import (
	"context"
	"fmt"
	"sort"

	"github.com/bookmymovie/booking-service/internal/domain"
)

// processUpdate swaps a booking's seat set for a new one: seats dropped from
// the set are released, seats added are locked and booked, and both halves
// share one transaction so a failed lock rolls the releases back too.
func (p *Pool) processUpdate(ctx context.Context, showtimeID int64, in UpdateIntent) (Result, error) {
	var toRelease, toBook []int64
	var updated *domain.Booking

	err := p.store.WithTx(ctx, func(tx TxStore) error {
		b, err := tx.GetBookingByID(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if b.BuyerID != in.BuyerID {
			return domain.ErrForbidden("not authorized to modify this booking")
		}
		if b.ShowtimeID != showtimeID {
			return domain.ErrInvalidState("booking/showtime mismatch")
		}
		if len(in.SeatIDs) == 0 {
			return domain.ErrValidation("no seats specified")
		}

		oldSet := make(map[int64]bool, len(b.Seats))
		for _, s := range b.Seats {
			oldSet[s.SeatID] = true
		}
		newSet := make(map[int64]bool, len(in.SeatIDs))
		newIDs := make([]int64, 0, len(in.SeatIDs))
		for _, id := range in.SeatIDs {
			if !newSet[id] {
				newSet[id] = true
				newIDs = append(newIDs, id)
			}
		}

		if setsEqual(oldSet, newSet) {
			return domain.ErrValidation("no changes detected")
		}

		seats, err := tx.GetSeatsForShowtime(ctx, showtimeID)
		if err != nil {
			return err
		}
		byID := make(map[int64]domain.Seat, len(seats))
		for _, s := range seats {
			byID[s.ID] = s
		}

		// Added seats must resolve and be free before anything is touched.
		for _, id := range newIDs {
			if oldSet[id] {
				continue
			}
			s, ok := byID[id]
			if !ok {
				return domain.ErrNotFound(fmt.Sprintf("seat %d not found", id))
			}
			if s.Status != domain.SeatAvailable {
				return domain.ErrInvalidState(fmt.Sprintf("seat %d is not available", id))
			}
		}

		toRelease = diffIDs(oldSet, newSet)
		toBook = diffIDs(newSet, oldSet)

		if len(toRelease) > 0 {
			if err := tx.MarkSeatsAvailable(ctx, toRelease); err != nil {
				return err
			}
		}
		if len(toBook) > 0 {
			until := p.clock.Now().Add(p.lockTTL)
			ok, err := tx.TryLockSeats(ctx, showtimeID, toBook, in.BuyerID, until)
			if err != nil {
				return err
			}
			if !ok {
				// Rolls back the releases above as well.
				return domain.ErrInvalidState("some seats are no longer available")
			}
			if err := tx.MarkSeatsBooked(ctx, toBook); err != nil {
				return err
			}
		}

		snaps := make([]domain.SeatSnapshot, 0, len(newIDs))
		for _, id := range newIDs {
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

		total := domain.SnapshotTotal(snaps)
		if err := tx.UpdateBookingSeats(ctx, b.ID, snaps, total, b.Status, p.clock.Now()); err != nil {
			return err
		}

		b.Seats = snaps
		b.TotalAmountCents = total
		updated = b
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	// Released first, then booked, mirroring the order of the transitions.
	if len(toRelease) > 0 {
		p.notifySeats(ctx, showtimeID, toRelease, domain.SeatAvailable)
	}
	if len(toBook) > 0 {
		p.notifySeats(ctx, showtimeID, toBook, domain.SeatBooked)
	}
	p.publishEvent(ctx, "booking.updated", BookingUpdatedPayload{
		BookingID:        updated.ID,
		BuyerID:          updated.BuyerID,
		ShowtimeID:       showtimeID,
		SeatIDs:          updated.SeatIDs(),
		TotalAmountCents: updated.TotalAmountCents,
	})

	return Result{Success: true, Message: "booking updated", BookingID: in.BookingID}, nil
}

func setsEqual(a, b map[int64]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}

// diffIDs returns the ids in a that are not in b, sorted for deterministic
// SQL and notifications.
func diffIDs(a, b map[int64]bool) []int64 {
	var out []int64
	for id := range a {
		if !b[id] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
