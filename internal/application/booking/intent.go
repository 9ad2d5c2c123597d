package booking

import "github.com/bookmymovie/booking-service/internal/domain"

// Intent is the closed set of operations a caller can submit. The unexported
// method keeps the union sealed so the worker's dispatch stays exhaustive.
type Intent interface {
	intent()
}

type BookIntent struct {
	BuyerID    string
	ShowtimeID int64
	SeatIDs    []int64
}

type CancelIntent struct {
	BookingID string
	BuyerID   string
	SeatIDs   []int64
}

// UpdateIntent replaces the booking's seat set wholesale; SeatIDs is the full
// desired set, not a delta.
type UpdateIntent struct {
	BookingID string
	BuyerID   string
	SeatIDs   []int64
}

func (BookIntent) intent()   {}
func (CancelIntent) intent() {}
func (UpdateIntent) intent() {}

// Result is what a caller gets back for any submitted intent. Code is empty
// on success and mirrors the business error that produced a failure; it is
// for transport mapping, not for the wire body.
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID string `json:"booking_id,omitempty"`

	Code domain.ErrCode `json:"-"`
}

// envelope pairs an intent with its one-shot result slot. done is buffered so
// the worker's single send never blocks, even if the caller stopped waiting.
type envelope struct {
	intent Intent
	done   chan Result
}

func newEnvelope(it Intent) *envelope {
	return &envelope{intent: it, done: make(chan Result, 1)}
}
