package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmymovie/booking-service/internal/domain"
)

func mustBook(t *testing.T, pool *Pool, buyerID string, showtimeID int64, seatIDs []int64) string {
	t.Helper()
	res, err := pool.SubmitBooking(context.Background(), buyerID, showtimeID, seatIDs)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	return res.BookingID
}

func TestPool_Cancel_PartialRelease(t *testing.T) {
	store := newMemStore(
		seatRow(1, 7, "A", 1, 1000),
		seatRow(2, 7, "A", 2, 1000),
	)
	pool, notifier, pub := newTestPool(store)
	id := mustBook(t, pool, "buyer-1", 7, []int64{1, 2})

	res, err := pool.SubmitCancel(context.Background(), id, "buyer-1", []int64{1})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, id, res.BookingID)

	assert.Equal(t, domain.SeatAvailable, store.seatStatus(1))
	assert.Equal(t, domain.SeatBooked, store.seatStatus(2))

	b := store.booking(id)
	require.Len(t, b.Seats, 1)
	assert.Equal(t, int64(2), b.Seats[0].SeatID)
	assert.Equal(t, domain.BookingCancelledPartial, b.Status)

	updates := notifier.all()
	require.Len(t, updates, 2) // booked, then available
	assert.Equal(t, domain.SeatAvailable, updates[1].Status)
	assert.Equal(t, []int64{1}, updates[1].SeatIDs)

	assert.Equal(t, []string{"booking.confirmed", "booking.cancelled"}, pub.all())
}

// The booking's total is deliberately not recomputed on cancel; the refund
// flow owns money adjustments.
func TestPool_Cancel_TotalUnchanged(t *testing.T) {
	store := newMemStore(
		seatRow(1, 7, "A", 1, 1000),
		seatRow(2, 7, "A", 2, 1500),
	)
	pool, _, _ := newTestPool(store)
	id := mustBook(t, pool, "buyer-1", 7, []int64{1, 2})

	res, err := pool.SubmitCancel(context.Background(), id, "buyer-1", []int64{1})
	require.NoError(t, err)
	require.True(t, res.Success)

	b := store.booking(id)
	assert.Equal(t, int64(2500), b.TotalAmountCents)
	require.Len(t, b.Seats, 1)
}

// Releasing every seat empties the snapshot and moves the booking to
// refunded rather than leaving it confirmed.
func TestPool_Cancel_AllSeatsMarksRefunded(t *testing.T) {
	store := newMemStore(
		seatRow(1, 7, "A", 1, 1000),
		seatRow(2, 7, "A", 2, 1000),
	)
	pool, _, _ := newTestPool(store)
	id := mustBook(t, pool, "buyer-1", 7, []int64{1, 2})

	res, err := pool.SubmitCancel(context.Background(), id, "buyer-1", []int64{1, 2})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	assert.Equal(t, domain.SeatAvailable, store.seatStatus(1))
	assert.Equal(t, domain.SeatAvailable, store.seatStatus(2))

	b := store.booking(id)
	assert.Empty(t, b.Seats)
	assert.Equal(t, domain.BookingRefunded, b.Status)
}

func TestPool_Cancel_InvalidSeatIDs(t *testing.T) {
	store := newMemStore(
		seatRow(1, 7, "A", 1, 1000),
		seatRow(2, 7, "A", 2, 1000),
		seatRow(3, 7, "A", 3, 1000),
	)
	pool, notifier, _ := newTestPool(store)
	id := mustBook(t, pool, "buyer-1", 7, []int64{1, 2})
	booked := notifier.all()

	// Seat 3 is not part of the booking; nothing may be released.
	res, err := pool.SubmitCancel(context.Background(), id, "buyer-1", []int64{1, 3})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "invalid seat ids")

	assert.Equal(t, domain.SeatBooked, store.seatStatus(1))
	assert.Equal(t, domain.SeatBooked, store.seatStatus(2))
	assert.Len(t, store.booking(id).Seats, 2)
	assert.Equal(t, booked, notifier.all())
}

func TestPool_Cancel_Validation(t *testing.T) {
	store := newMemStore(seatRow(1, 7, "A", 1, 1000))
	pool, _, _ := newTestPool(store)
	id := mustBook(t, pool, "buyer-1", 7, []int64{1})

	t.Run("empty_seat_list", func(t *testing.T) {
		res, err := pool.SubmitCancel(context.Background(), id, "buyer-1", nil)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "no seats specified to cancel", res.Message)
	})

	t.Run("unknown_booking_fails_before_enqueue", func(t *testing.T) {
		before := store.txCount
		res, err := pool.SubmitCancel(context.Background(), "missing", "buyer-1", []int64{1})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "booking not found", res.Message)
		assert.Equal(t, before, store.txCount)
	})

	t.Run("foreign_booking_fails_before_enqueue", func(t *testing.T) {
		before := store.txCount
		res, err := pool.SubmitCancel(context.Background(), id, "buyer-2", []int64{1})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "not authorized to modify this booking", res.Message)
		assert.Equal(t, before, store.txCount)
	})
}
