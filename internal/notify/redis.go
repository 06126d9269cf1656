package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	dueSetKey        = "notify:due"
	jobKeyPrefix     = "notify:job:"
	bookingKeyPrefix = "notify:booking:"

	// Reminders fire this long before the booking starts.
	reminderLead = 24 * time.Hour

	jobTTL = 45 * 24 * time.Hour
)

// RedisNotifier writes delivery jobs into redis: a hash per job, a
// due-time sorted set the delivery worker polls, and a per-booking set
// so cancellation can drop everything still pending.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) Publish(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventBookingCreated:
		if err := n.schedule(ctx, ev, "confirmation", time.Now()); err != nil {
			return err
		}
		reminderAt := ev.StartAt.Add(-reminderLead)
		if reminderAt.After(time.Now()) {
			return n.schedule(ctx, ev, "reminder", reminderAt)
		}
		return nil
	case EventBookingCanceled, EventWaitlistFulfilled:
		return n.schedule(ctx, ev, ev.Type, time.Now())
	default:
		return fmt.Errorf("notify: unknown event type %q", ev.Type)
	}
}

func (n *RedisNotifier) schedule(ctx context.Context, ev Event, kind string, dueAt time.Time) error {
	jobID := uuid.NewString()
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pipe := n.rdb.TxPipeline()
	pipe.HSet(ctx, jobKeyPrefix+jobID,
		"kind", kind,
		"booking_id", ev.BookingID,
		"payload", payload,
	)
	pipe.Expire(ctx, jobKeyPrefix+jobID, jobTTL)
	pipe.ZAdd(ctx, dueSetKey, &redis.Z{
		Score:  float64(dueAt.Unix()),
		Member: jobID,
	})
	pipe.SAdd(ctx, bookingKey(ev.BookingID), jobID)
	pipe.Expire(ctx, bookingKey(ev.BookingID), jobTTL)

	_, err = pipe.Exec(ctx)
	return err
}

func (n *RedisNotifier) CancelPending(ctx context.Context, bookingID uint) error {
	jobIDs, err := n.rdb.SMembers(ctx, bookingKey(bookingID)).Result()
	if err != nil {
		return err
	}
	if len(jobIDs) == 0 {
		return nil
	}

	pipe := n.rdb.TxPipeline()
	for _, jobID := range jobIDs {
		pipe.ZRem(ctx, dueSetKey, jobID)
		pipe.Del(ctx, jobKeyPrefix+jobID)
	}
	pipe.Del(ctx, bookingKey(bookingID))

	_, err = pipe.Exec(ctx)
	return err
}

func bookingKey(bookingID uint) string {
	return fmt.Sprintf("%s%d", bookingKeyPrefix, bookingID)
}

// Compile-time check
var _ Notifier = (*RedisNotifier)(nil)
