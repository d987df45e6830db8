package realtime

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisBridge extends a Hub across server instances via redis pub/sub.
// Local publishes fan out to local sessions immediately and are relayed on
// the redis channel; events from other instances are replayed into the local
// hub. The instance id keeps an instance from re-delivering its own relays.
type RedisBridge struct {
	hub      *Hub
	rdb      *redis.Client
	channel  string
	instance string
	logger   *zap.SugaredLogger
}

type envelope struct {
	Instance string `json:"instance"`
	Event    Event  `json:"event"`
}

func NewRedisBridge(hub *Hub, rdb *redis.Client, channel string, logger *zap.SugaredLogger) *RedisBridge {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return &RedisBridge{
		hub:      hub,
		rdb:      rdb,
		channel:  channel,
		instance: hex.EncodeToString(buf),
		logger:   logger,
	}
}

func (b *RedisBridge) Publish(event Event) {
	b.hub.Publish(event)

	payload, err := json.Marshal(envelope{Instance: b.instance, Event: event})
	if err != nil {
		b.logger.Errorw("encode relay event", "err", err)
		return
	}
	if err := b.rdb.Publish(context.Background(), b.channel, payload).Err(); err != nil {
		b.logger.Errorw("relay event", "channel", b.channel, "err", err)
	}
}

// Run consumes relayed events until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.logger.Errorw("decode relay event", "err", err)
				continue
			}
			if env.Instance == b.instance {
				continue
			}
			b.hub.Publish(env.Event)
		}
	}
}
