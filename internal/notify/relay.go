package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// RelayChannel carries notifications from worker processes to api processes.
const RelayChannel = "asset-notifications"

type relayMessage struct {
	UserID  uuid.UUID       `json:"userId"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// RedisRelay publishes notifications over Redis pub/sub so that a process
// without live sessions can reach the ones holding them.
type RedisRelay struct {
	client  *redis.Client
	channel string
}

// compile-time check
var _ port.Notifier = (*RedisRelay)(nil)

func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{client: client, channel: RelayChannel}
}

// Deliver publishes the event. Nobody listening is not an error.
func (r *RedisRelay) Deliver(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not encode %s payload: %w", event, err)
	}
	msg, err := json.Marshal(relayMessage{UserID: userID, Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("could not encode %s relay message: %w", event, err)
	}
	if err := r.client.Publish(ctx, r.channel, msg).Err(); err != nil {
		return fmt.Errorf("could not publish %s: %w", event, err)
	}
	return nil
}

// Run forwards relayed events to sink until ctx is done.
func (r *RedisRelay) Run(ctx context.Context, sink port.Notifier) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("could not subscribe to %s: %w", r.channel, err)
	}
	logger.Infof(ctx, "✅  Listening for notifications on %s", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg relayMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				logger.Warnf(ctx, "❌  Malformed relay message: %v", err)
				continue
			}
			if err := sink.Deliver(ctx, msg.UserID, msg.Event, msg.Payload); err != nil {
				logger.Warnf(ctx, "❌  Could not forward %s to user %s: %v", msg.Event, msg.UserID, err)
			}
		}
	}
}
