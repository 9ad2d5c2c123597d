package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingConfirmed        BookingStatus = "confirmed"
	BookingCancelledPartial BookingStatus = "cancelled_partial"
	BookingRefunded         BookingStatus = "refunded"
)

// SeatSnapshot is a denormalized copy of a seat taken at commit time. The
// snapshot is what the buyer paid for; later price changes on the seat row
// do not affect it.
type SeatSnapshot struct {
	SeatID     int64  `json:"seat_id"`
	Row        string `json:"row"`
	Number     int    `json:"number"`
	PriceCents int64  `json:"price_cents"`
}

type Booking struct {
	ID               string
	BuyerID          string
	ShowtimeID       int64
	Seats            []SeatSnapshot
	TotalAmountCents int64
	Status           BookingStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewBooking(buyerID string, showtimeID int64, seats []SeatSnapshot, now time.Time) *Booking {
	return &Booking{
		ID:               uuid.NewString(),
		BuyerID:          buyerID,
		ShowtimeID:       showtimeID,
		Seats:            seats,
		TotalAmountCents: SnapshotTotal(seats),
		Status:           BookingConfirmed,
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
	}
}

func SnapshotTotal(seats []SeatSnapshot) int64 {
	var total int64
	for _, s := range seats {
		total += s.PriceCents
	}
	return total
}

func (b Booking) SeatIDs() []int64 {
	ids := make([]int64, 0, len(b.Seats))
	for _, s := range b.Seats {
		ids = append(ids, s.SeatID)
	}
	return ids
}

func (b Booking) HasSeat(seatID int64) bool {
	for _, s := range b.Seats {
		if s.SeatID == seatID {
			return true
		}
	}
	return false
}
