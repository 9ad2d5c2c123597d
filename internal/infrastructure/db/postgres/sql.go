package postgres

const (
	selectSeatsForUpdateSQL = `
SELECT id, status
FROM seats
WHERE showtime_id = $1 AND id = ANY($2)
FOR UPDATE`

	lockSeatsSQL = `
UPDATE seats
SET status = 'locked', locked_by = $1, locked_until = $2
WHERE id = ANY($3)`

	markSeatsBookedSQL = `
UPDATE seats
SET status = 'booked', locked_by = NULL, locked_until = NULL
WHERE id = ANY($1)`

	markSeatsAvailableSQL = `
UPDATE seats
SET status = 'available', locked_by = NULL, locked_until = NULL
WHERE id = ANY($1)`

	seatsForShowtimeSQL = `
SELECT id, showtime_id, row_label, seat_number, status, locked_by, locked_until, price_cents
FROM seats
WHERE showtime_id = $1
ORDER BY row_label, seat_number`

	insertBookingSQL = `
INSERT INTO bookings (id, buyer_id, showtime_id, seats, total_amount_cents, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getBookingSQL = `
SELECT id, buyer_id, showtime_id, seats, total_amount_cents, status, created_at, updated_at
FROM bookings
WHERE id = $1`

	listBookingsByBuyerSQL = `
SELECT id, buyer_id, showtime_id, seats, total_amount_cents, status, created_at, updated_at
FROM bookings
WHERE buyer_id = $1
ORDER BY created_at DESC`

	updateBookingSeatsSQL = `
UPDATE bookings
SET seats = $2, total_amount_cents = $3, status = $4, updated_at = $5
WHERE id = $1`
)
