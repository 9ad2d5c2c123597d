package booking

import "time"

const (
	EventVersion  = 1
	EventProducer = "booking-service"
)

// EventEnvelope is the stable contract for booking lifecycle events.
// Consumers should rely on version/producer/message_id/occurred_at + payload.
type EventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// BookingConfirmedPayload is the business payload for routing key: booking.confirmed
type BookingConfirmedPayload struct {
	BookingID        string  `json:"booking_id"`
	BuyerID          string  `json:"buyer_id"`
	ShowtimeID       int64   `json:"showtime_id"`
	SeatIDs          []int64 `json:"seat_ids"`
	TotalAmountCents int64   `json:"total_amount_cents"`
}

// BookingCancelledPayload is the business payload for routing key: booking.cancelled
type BookingCancelledPayload struct {
	BookingID       string  `json:"booking_id"`
	BuyerID         string  `json:"buyer_id"`
	ShowtimeID      int64   `json:"showtime_id"`
	ReleasedSeatIDs []int64 `json:"released_seat_ids"`
}

// BookingUpdatedPayload is the business payload for routing key: booking.updated
type BookingUpdatedPayload struct {
	BookingID        string  `json:"booking_id"`
	BuyerID          string  `json:"buyer_id"`
	ShowtimeID       int64   `json:"showtime_id"`
	SeatIDs          []int64 `json:"seat_ids"`
	TotalAmountCents int64   `json:"total_amount_cents"`
}
