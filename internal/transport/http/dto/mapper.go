package dto

import "github.com/bookmymovie/booking-service/internal/domain"

func ToSeatResp(s domain.Seat) SeatResp {
	return SeatResp{
		ID:         s.ID,
		Row:        s.Row,
		Number:     s.Number,
		Status:     string(s.Status),
		PriceCents: s.PriceCents,
	}
}

func ToBookingResp(b domain.Booking) BookingResp {
	seats := make([]BookingSeatResp, 0, len(b.Seats))
	for _, s := range b.Seats {
		seats = append(seats, BookingSeatResp{
			SeatID:     s.SeatID,
			Row:        s.Row,
			Number:     s.Number,
			PriceCents: s.PriceCents,
		})
	}
	return BookingResp{
		ID:               b.ID,
		ShowtimeID:       b.ShowtimeID,
		Seats:            seats,
		TotalAmountCents: b.TotalAmountCents,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
