package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bookmymovie/booking-service/internal/domain"
)

// --- Fakes shared by the pool/protocol tests ---

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

// memStore is an in-memory Store with real rollback semantics: WithTx
// snapshots the state up front and restores it when the closure errors,
// so all-or-nothing assertions mean something.
type memStore struct {
	mu       sync.Mutex
	seats    map[int64]*domain.Seat
	bookings map[string]*domain.Booking

	// failNextLock makes the next TryLockSeats report a conflict after any
	// earlier statements in the same transaction already ran.
	failNextLock bool

	txCount int
}

func newMemStore(seats ...domain.Seat) *memStore {
	s := &memStore{
		seats:    make(map[int64]*domain.Seat),
		bookings: make(map[string]*domain.Booking),
	}
	for _, seat := range seats {
		cp := seat
		s.seats[seat.ID] = &cp
	}
	return s
}

func seatRow(id, showtimeID int64, row string, number int, price int64) domain.Seat {
	return domain.Seat{
		ID:         id,
		ShowtimeID: showtimeID,
		Row:        row,
		Number:     number,
		Status:     domain.SeatAvailable,
		PriceCents: price,
	}
}

func (s *memStore) snapshot() (map[int64]*domain.Seat, map[string]*domain.Booking) {
	seats := make(map[int64]*domain.Seat, len(s.seats))
	for id, seat := range s.seats {
		cp := *seat
		seats[id] = &cp
	}
	bookings := make(map[string]*domain.Booking, len(s.bookings))
	for id, b := range s.bookings {
		cp := *b
		cp.Seats = append([]domain.SeatSnapshot(nil), b.Seats...)
		bookings[id] = &cp
	}
	return seats, bookings
}

func (s *memStore) WithTx(ctx context.Context, fn func(tx TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	seats, bookings := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.seats, s.bookings = seats, bookings
		return err
	}
	return nil
}

func (s *memStore) GetBookingByID(ctx context.Context, id string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getBooking(s.bookings, id)
}

func (s *memStore) GetSeatsForShowtime(ctx context.Context, showtimeID int64) ([]domain.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seatsForShowtime(s.seats, showtimeID), nil
}

func (s *memStore) ListBookingsByBuyer(ctx context.Context, buyerID string) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.BuyerID == buyerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) seatStatus(id int64) domain.SeatStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[id].Status
}

func (s *memStore) booking(id string) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.bookings[id]
}

func getBooking(m map[string]*domain.Booking, id string) (*domain.Booking, error) {
	b, ok := m[id]
	if !ok {
		return nil, domain.ErrNotFound("booking not found")
	}
	cp := *b
	cp.Seats = append([]domain.SeatSnapshot(nil), b.Seats...)
	return &cp, nil
}

func seatsForShowtime(m map[int64]*domain.Seat, showtimeID int64) []domain.Seat {
	var out []domain.Seat
	for _, s := range m {
		if s.ShowtimeID == showtimeID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Number < out[j].Number
	})
	return out
}

type memTx struct {
	s *memStore
}

func (t *memTx) TryLockSeats(ctx context.Context, showtimeID int64, seatIDs []int64, buyerID string, until time.Time) (bool, error) {
	if t.s.failNextLock {
		t.s.failNextLock = false
		return false, nil
	}
	for _, id := range seatIDs {
		seat, ok := t.s.seats[id]
		if !ok || seat.ShowtimeID != showtimeID {
			return false, domain.ErrNotFound(fmt.Sprintf("seat %d not found", id))
		}
		if seat.Status != domain.SeatAvailable {
			return false, nil
		}
	}
	for _, id := range seatIDs {
		_ = t.s.seats[id].Lock(buyerID, until)
	}
	return true, nil
}

func (t *memTx) MarkSeatsBooked(ctx context.Context, seatIDs []int64) error {
	for _, id := range seatIDs {
		if err := t.s.seats[id].Book(); err != nil {
			return err
		}
	}
	return nil
}

func (t *memTx) MarkSeatsAvailable(ctx context.Context, seatIDs []int64) error {
	for _, id := range seatIDs {
		t.s.seats[id].Release()
	}
	return nil
}

func (t *memTx) GetSeatsForShowtime(ctx context.Context, showtimeID int64) ([]domain.Seat, error) {
	return seatsForShowtime(t.s.seats, showtimeID), nil
}

func (t *memTx) CreateBooking(ctx context.Context, b *domain.Booking) error {
	cp := *b
	cp.Seats = append([]domain.SeatSnapshot(nil), b.Seats...)
	t.s.bookings[b.ID] = &cp
	return nil
}

func (t *memTx) GetBookingByID(ctx context.Context, id string) (*domain.Booking, error) {
	return getBooking(t.s.bookings, id)
}

func (t *memTx) UpdateBookingSeats(ctx context.Context, id string, seats []domain.SeatSnapshot, totalCents int64, status domain.BookingStatus, updatedAt time.Time) error {
	b, ok := t.s.bookings[id]
	if !ok {
		return domain.ErrNotFound("booking not found")
	}
	b.Seats = append([]domain.SeatSnapshot(nil), seats...)
	b.TotalAmountCents = totalCents
	b.Status = status
	b.UpdatedAt = updatedAt.UTC()
	return nil
}

// recNotifier records every published seat update in order.
type recNotifier struct {
	mu      sync.Mutex
	updates []domain.SeatUpdate
}

func (n *recNotifier) PublishSeatUpdate(ctx context.Context, u domain.SeatUpdate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, u)
	return nil
}

func (n *recNotifier) all() []domain.SeatUpdate {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.SeatUpdate(nil), n.updates...)
}

// recPublisher records lifecycle event routing keys in order.
type recPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recPublisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recPublisher) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}
