package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/bookmymovie/booking-service/internal/domain"
)

const (
	// DefaultLockTTL matches the hold window written to locked_until when a
	// booking attempt locks seats mid-transaction.
	DefaultLockTTL = 120 * time.Second

	// queueDepth bounds each per-showtime queue; a full queue blocks the
	// submitting caller rather than dropping the envelope.
	queueDepth = 256
)

// Pool serializes all booking, cancellation and update requests per showtime.
// Each showtime gets its own queue and worker goroutine, created lazily on
// first use and kept for the life of the process (no idle eviction; known
// limitation). Requests for the same showtime commit strictly in submission
// order; requests for different showtimes run fully concurrently.
type Pool struct {
	store    Store
	notifier Notifier
	pub      EventPublisher
	clock    Clock
	lockTTL  time.Duration

	mu     sync.Mutex
	queues map[int64]chan *envelope
}

func NewPool(store Store, clock Clock, notifier Notifier, pub EventPublisher, lockTTL time.Duration) *Pool {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &Pool{
		store:    store,
		notifier: notifier,
		pub:      pub,
		clock:    clock,
		lockTTL:  lockTTL,
		queues:   make(map[int64]chan *envelope),
	}
}

// SubmitBooking enqueues a booking request for the showtime and waits for the
// worker's verdict. The returned error is only ever a context error; business
// failures come back inside the Result.
func (p *Pool) SubmitBooking(ctx context.Context, buyerID string, showtimeID int64, seatIDs []int64) (Result, error) {
	return p.submit(ctx, showtimeID, BookIntent{BuyerID: buyerID, ShowtimeID: showtimeID, SeatIDs: seatIDs})
}

// SubmitCancel resolves the target showtime from the stored booking before
// enqueueing. Unknown or foreign bookings fail here without touching any
// queue.
func (p *Pool) SubmitCancel(ctx context.Context, bookingID, buyerID string, seatIDs []int64) (Result, error) {
	b, res, err := p.routeBooking(ctx, bookingID, buyerID)
	if b == nil {
		return res, err
	}
	return p.submit(ctx, b.ShowtimeID, CancelIntent{BookingID: bookingID, BuyerID: buyerID, SeatIDs: seatIDs})
}

// SubmitUpdate behaves like SubmitCancel but carries the full new seat set.
func (p *Pool) SubmitUpdate(ctx context.Context, bookingID, buyerID string, newSeatIDs []int64) (Result, error) {
	b, res, err := p.routeBooking(ctx, bookingID, buyerID)
	if b == nil {
		return res, err
	}
	return p.submit(ctx, b.ShowtimeID, UpdateIntent{BookingID: bookingID, BuyerID: buyerID, SeatIDs: newSeatIDs})
}

func (p *Pool) routeBooking(ctx context.Context, bookingID, buyerID string) (*domain.Booking, Result, error) {
	b, err := p.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		var ae *domain.AppError
		if errors.As(err, &ae) {
			return nil, Result{Success: false, Message: ae.Message, Code: ae.Code}, nil
		}
		return nil, Result{}, err
	}
	if b.BuyerID != buyerID {
		return nil, Result{Success: false, Message: "not authorized to modify this booking", Code: domain.CodeForbidden}, nil
	}
	return b, Result{}, nil
}

func (p *Pool) submit(ctx context.Context, showtimeID int64, it Intent) (Result, error) {
	env := newEnvelope(it)
	q := p.queue(showtimeID)

	select {
	case q <- env:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case res := <-env.done:
		return res, nil
	case <-ctx.Done():
		// The worker still finishes the envelope; done is buffered so its
		// single write never blocks.
		return Result{}, ctx.Err()
	}
}

// queue returns the showtime's queue, creating queue and worker exactly once
// on first access.
func (p *Pool) queue(showtimeID int64) chan *envelope {
	p.mu.Lock()
	defer p.mu.Unlock()

	q, ok := p.queues[showtimeID]
	if !ok {
		q = make(chan *envelope, queueDepth)
		p.queues[showtimeID] = q
		go p.worker(showtimeID, q)
	}
	return q
}

// worker drains one showtime's queue, one envelope at a time. It is the only
// goroutine that ever mutates that showtime's seats, which is what makes the
// protocols race-free without per-seat locks.
func (p *Pool) worker(showtimeID int64, q chan *envelope) {
	log := zlog.With().
		Str("component", "booking_worker").
		Int64("showtime_id", showtimeID).
		Logger()

	for env := range q {
		env.done <- p.process(showtimeID, env.intent, &log)
	}
}

// process dispatches one envelope and guarantees a Result on every path,
// including panics and unexpected store errors.
func (p *Pool) process(showtimeID int64, it Intent, log *zerolog.Logger) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("booking worker panicked")
			res = Result{Success: false, Message: "internal error"}
		}
	}()

	// The worker never abandons an envelope mid-flight; callers time out on
	// their own side, so protocol runs get a fresh context.
	ctx := context.Background()

	var err error
	switch v := it.(type) {
	case BookIntent:
		res, err = p.processBook(ctx, v)
	case CancelIntent:
		res, err = p.processCancel(ctx, showtimeID, v)
	case UpdateIntent:
		res, err = p.processUpdate(ctx, showtimeID, v)
	default:
		return Result{Success: false, Message: "unknown request type"}
	}

	if err != nil {
		var ae *domain.AppError
		if errors.As(err, &ae) {
			return Result{Success: false, Message: ae.Message, Code: ae.Code}
		}
		log.Error().Err(err).Msg("request failed")
		return Result{Success: false, Message: "internal error"}
	}
	return res
}

// notifySeats publishes one seats_updated notification. Failures are logged
// and swallowed: the transaction this notification describes has already
// committed.
func (p *Pool) notifySeats(ctx context.Context, showtimeID int64, seatIDs []int64, status domain.SeatStatus) {
	if p.notifier == nil {
		return
	}
	u := domain.NewSeatUpdate(showtimeID, seatIDs, status)
	if err := p.notifier.PublishSeatUpdate(ctx, u); err != nil {
		zlog.Warn().Err(err).
			Int64("showtime_id", showtimeID).
			Str("status", string(status)).
			Msg("seat update publish failed")
	}
}

// publishEvent emits a booking lifecycle event, best-effort.
func (p *Pool) publishEvent(ctx context.Context, routingKey string, payload any) {
	messageID := uuid.NewString()
	env := EventEnvelope[any]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  messageID,
		OccurredAt: p.clock.Now().UTC(),
		Payload:    payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		zlog.Warn().Err(err).Str("routing_key", routingKey).Msg("event marshal failed")
		return
	}
	if err := p.pub.PublishEvent(ctx, routingKey, messageID, body); err != nil {
		zlog.Warn().Err(err).Str("routing_key", routingKey).Msg("event publish failed")
	}
}
