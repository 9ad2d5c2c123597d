package booking

import (
	"context"
	"time"

	"github.com/bookmymovie/booking-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// Store is the transactional seat/booking persistence the pool runs on.
// Reads outside WithTx are used for routing and for the read endpoints;
// every mutation happens through a TxStore inside exactly one WithTx call.
type Store interface {
	WithTx(ctx context.Context, fn func(tx TxStore) error) error

	GetBookingByID(ctx context.Context, id string) (*domain.Booking, error)
	GetSeatsForShowtime(ctx context.Context, showtimeID int64) ([]domain.Seat, error)
	ListBookingsByBuyer(ctx context.Context, buyerID string) ([]domain.Booking, error)
}

// TxStore is the transaction-scoped view of the store. All calls made from
// one protocol run share one transaction; any error returned to WithTx rolls
// the whole transaction back.
type TxStore interface {
	// TryLockSeats transitions every listed seat from available to locked,
	// all-or-nothing: a seat that is locked or booked yields false with
	// nothing mutated, an id with no row yields a not-found error.
	TryLockSeats(ctx context.Context, showtimeID int64, seatIDs []int64, buyerID string, until time.Time) (bool, error)
	MarkSeatsBooked(ctx context.Context, seatIDs []int64) error
	MarkSeatsAvailable(ctx context.Context, seatIDs []int64) error
	GetSeatsForShowtime(ctx context.Context, showtimeID int64) ([]domain.Seat, error)

	CreateBooking(ctx context.Context, b *domain.Booking) error
	GetBookingByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateBookingSeats(ctx context.Context, id string, seats []domain.SeatSnapshot, totalCents int64, status domain.BookingStatus, updatedAt time.Time) error
}

// Notifier fans an inventory change out to everyone watching the showtime.
// Best-effort: the pool logs and swallows publish errors.
type Notifier interface {
	PublishSeatUpdate(ctx context.Context, u domain.SeatUpdate) error
}

// EventPublisher emits booking lifecycle events for downstream consumers
// (confirmation mails, analytics). messageID must be stable per message.
type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	return nil
}
