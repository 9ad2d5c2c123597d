package dto

import "time"

type CreateBookingReq struct {
	ShowtimeID int64   `json:"showtime_id"`
	SeatIDs    []int64 `json:"seat_ids"`
}

type CancelSeatsReq struct {
	SeatIDs []int64 `json:"seat_ids"`
}

type UpdateSeatsReq struct {
	SeatIDs []int64 `json:"seat_ids"`
}

type SeatResp struct {
	ID         int64  `json:"id"`
	Row        string `json:"row"`
	Number     int    `json:"number"`
	Status     string `json:"status"`
	PriceCents int64  `json:"price_cents"`
}

type BookingSeatResp struct {
	SeatID     int64  `json:"seat_id"`
	Row        string `json:"row"`
	Number     int    `json:"number"`
	PriceCents int64  `json:"price_cents"`
}

type BookingResp struct {
	ID               string            `json:"id"`
	ShowtimeID       int64             `json:"showtime_id"`
	Seats            []BookingSeatResp `json:"seats"`
	TotalAmountCents int64             `json:"total_amount_cents"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
