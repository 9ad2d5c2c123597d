package domain

// SeatUpdateType is the only notification type this service emits today.
const SeatUpdateType = "seats_updated"

// SeatUpdate is the inventory-change notification fanned out to viewers of a
// showtime after a successful commit. Delivery is best-effort: a failed
// publish never rolls back the commit it describes.
type SeatUpdate struct {
	Type       string     `json:"type"`
	ShowtimeID int64      `json:"showtime_id"`
	SeatIDs    []int64    `json:"seat_ids"`
	Status     SeatStatus `json:"status"`
}

func NewSeatUpdate(showtimeID int64, seatIDs []int64, status SeatStatus) SeatUpdate {
	return SeatUpdate{
		Type:       SeatUpdateType,
		ShowtimeID: showtimeID,
		SeatIDs:    seatIDs,
		Status:     status,
	}
}
