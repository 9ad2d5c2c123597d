package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookmymovie/booking-service/internal/domain"
)

// Notifier broadcasts seat updates over redis pub/sub. Seat-map clients
// subscribe to the channel of the showtime they are looking at.
type Notifier struct {
	rdb *redis.Client
}

func New(url string) (*Notifier, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Notifier{rdb: rdb}, nil
}

// NewWithClient wires an already-constructed client, used by tests.
func NewWithClient(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

func (n *Notifier) Close() error {
	return n.rdb.Close()
}

// ChannelForShowtime names the pub/sub channel carrying updates for one
// showtime.
func ChannelForShowtime(showtimeID int64) string {
	return fmt.Sprintf("showtime:%d", showtimeID)
}

func (n *Notifier) PublishSeatUpdate(ctx context.Context, u domain.SeatUpdate) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, ChannelForShowtime(u.ShowtimeID), payload).Err()
}
