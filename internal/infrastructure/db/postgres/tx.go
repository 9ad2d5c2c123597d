package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/bookmymovie/booking-service/internal/application/booking"
	"github.com/bookmymovie/booking-service/internal/domain"
)

func (r *Repo) WithTx(ctx context.Context, fn func(tr booking.TxStore) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
		ReadOnly:  false,
	})
	if err != nil {
		return err
	}

	tr := &txRepo{tx: tx}

	defer func() {
		// Safety: in case fn panics, rollback to avoid leaked tx.
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tr); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepo struct {
	tx *sql.Tx
}

// TryLockSeats row-locks the requested seats, then flips them to locked only
// when every one of them exists for the showtime and is still available. An
// id with no row at all is a not-found error rather than an availability
// conflict.
func (t *txRepo) TryLockSeats(ctx context.Context, showtimeID int64, seatIDs []int64, buyerID string, until time.Time) (bool, error) {
	rows, err := t.tx.QueryContext(ctx, selectSeatsForUpdateSQL, showtimeID, pq.Array(seatIDs))
	if err != nil {
		return false, fmt.Errorf("lock seat rows: %w", err)
	}
	defer rows.Close()

	taken := false
	found := make(map[int64]bool, len(seatIDs))
	for rows.Next() {
		var id int64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return false, err
		}
		if domain.SeatStatus(status) != domain.SeatAvailable {
			taken = true
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return false, err
	}
	for _, id := range seatIDs {
		if !found[id] {
			return false, domain.ErrNotFound(fmt.Sprintf("seat %d not found", id))
		}
	}
	if taken {
		return false, nil
	}

	if _, err := t.tx.ExecContext(ctx, lockSeatsSQL, buyerID, until.UTC(), pq.Array(seatIDs)); err != nil {
		return false, fmt.Errorf("lock seats: %w", err)
	}
	return true, nil
}

func (t *txRepo) MarkSeatsBooked(ctx context.Context, seatIDs []int64) error {
	if _, err := t.tx.ExecContext(ctx, markSeatsBookedSQL, pq.Array(seatIDs)); err != nil {
		return fmt.Errorf("mark seats booked: %w", err)
	}
	return nil
}

func (t *txRepo) MarkSeatsAvailable(ctx context.Context, seatIDs []int64) error {
	if _, err := t.tx.ExecContext(ctx, markSeatsAvailableSQL, pq.Array(seatIDs)); err != nil {
		return fmt.Errorf("mark seats available: %w", err)
	}
	return nil
}

func (t *txRepo) GetSeatsForShowtime(ctx context.Context, showtimeID int64) ([]domain.Seat, error) {
	return getSeatsForShowtime(ctx, t.tx, showtimeID)
}

func (t *txRepo) CreateBooking(ctx context.Context, b *domain.Booking) error {
	seats, err := marshalSnapshots(b.Seats)
	if err != nil {
		return fmt.Errorf("encode booking seats: %w", err)
	}
	_, err = t.tx.ExecContext(ctx, insertBookingSQL,
		b.ID, b.BuyerID, b.ShowtimeID, seats,
		b.TotalAmountCents, string(b.Status), b.CreatedAt.UTC(), b.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (t *txRepo) GetBookingByID(ctx context.Context, id string) (*domain.Booking, error) {
	return getBookingByID(ctx, t.tx, id)
}

func (t *txRepo) UpdateBookingSeats(ctx context.Context, id string, seats []domain.SeatSnapshot, totalCents int64, status domain.BookingStatus, updatedAt time.Time) error {
	encoded, err := marshalSnapshots(seats)
	if err != nil {
		return fmt.Errorf("encode booking seats: %w", err)
	}
	res, err := t.tx.ExecContext(ctx, updateBookingSeatsSQL, id, encoded, totalCents, string(status), updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("update booking seats: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("booking not found")
	}
	return nil
}
