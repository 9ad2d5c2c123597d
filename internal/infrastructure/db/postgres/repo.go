package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/bookmymovie/booking-service/internal/domain"
)

// Repo implements booking.Store on Postgres. Seat-state transitions only
// happen through the transactional view handed out by WithTx.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// queryer is satisfied by both *sql.DB and *sql.Tx so the scan helpers can
// serve the plain and the transactional repo alike.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repo) GetBookingByID(ctx context.Context, id string) (*domain.Booking, error) {
	return getBookingByID(ctx, r.db, id)
}

func (r *Repo) GetSeatsForShowtime(ctx context.Context, showtimeID int64) ([]domain.Seat, error) {
	return getSeatsForShowtime(ctx, r.db, showtimeID)
}

func (r *Repo) ListBookingsByBuyer(ctx context.Context, buyerID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsByBuyerSQL, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func getBookingByID(ctx context.Context, q queryer, id string) (*domain.Booking, error) {
	b, err := scanBooking(q.QueryRowContext(ctx, getBookingSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var seatsJSON []byte
	var status string
	if err := row.Scan(
		&b.ID, &b.BuyerID, &b.ShowtimeID, &seatsJSON,
		&b.TotalAmountCents, &status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(seatsJSON, &b.Seats); err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatus(status)
	return &b, nil
}

func getSeatsForShowtime(ctx context.Context, q queryer, showtimeID int64) ([]domain.Seat, error) {
	rows, err := q.QueryContext(ctx, seatsForShowtimeSQL, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		var status string
		var lockedBy sql.NullString
		var lockedUntil sql.NullTime
		if err := rows.Scan(
			&s.ID, &s.ShowtimeID, &s.Row, &s.Number,
			&status, &lockedBy, &lockedUntil, &s.PriceCents,
		); err != nil {
			return nil, err
		}
		s.Status = domain.SeatStatus(status)
		if !s.Status.Valid() {
			return nil, domain.ErrInvalidState("invalid seat status in db")
		}
		if lockedBy.Valid {
			v := lockedBy.String
			s.LockedBy = &v
		}
		if lockedUntil.Valid {
			v := lockedUntil.Time.UTC()
			s.LockedUntil = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func marshalSnapshots(seats []domain.SeatSnapshot) ([]byte, error) {
	if seats == nil {
		seats = []domain.SeatSnapshot{}
	}
	return json.Marshal(seats)
}
