package domain

import "time"

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatLocked    SeatStatus = "locked"
	SeatBooked    SeatStatus = "booked"
)

func (s SeatStatus) Valid() bool {
	switch s {
	case SeatAvailable, SeatLocked, SeatBooked:
		return true
	}
	return false
}

// Seat is one sellable seat of a showtime. (showtime_id, row, number) is
// unique. Lock fields are set iff status is locked; a booked or available
// seat carries neither a holder nor an expiry.
type Seat struct {
	ID          int64
	ShowtimeID  int64
	Row         string
	Number      int
	Status      SeatStatus
	LockedBy    *string
	LockedUntil *time.Time
	PriceCents  int64
}

// Lock transitions available -> locked for the given buyer.
func (s *Seat) Lock(buyerID string, until time.Time) error {
	if s.Status != SeatAvailable {
		return ErrInvalidState("seat is not available")
	}
	u := until.UTC()
	s.Status = SeatLocked
	s.LockedBy = &buyerID
	s.LockedUntil = &u
	return nil
}

// Book transitions locked -> booked and clears the lock fields.
func (s *Seat) Book() error {
	if s.Status != SeatLocked {
		return ErrInvalidState("seat is not locked")
	}
	s.Status = SeatBooked
	s.LockedBy = nil
	s.LockedUntil = nil
	return nil
}

// Release forces the seat back to available regardless of its current
// status and resets the lock fields.
func (s *Seat) Release() {
	s.Status = SeatAvailable
	s.LockedBy = nil
	s.LockedUntil = nil
}
