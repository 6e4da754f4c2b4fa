package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// TablesPubSub broadcasts table changes so floor-plan displays on other
// terminals can refresh without polling.
type TablesPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewTablesPubSub(rdb *redis.Client) *TablesPubSub {
	return &TablesPubSub{
		rdb:     rdb,
		channel: ChannelTablesChanged(),
	}
}

type tableChangedMsg struct {
	Type    string `json:"type"`
	TableID int64  `json:"table_id"`
	TsUnix  int64  `json:"ts_unix"`
}

func (p *TablesPubSub) PublishTableChanged(ctx context.Context, tableID int64) error {
	msg := tableChangedMsg{
		Type:    "table_changed",
		TableID: tableID,
		TsUnix:  time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *TablesPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, tableID int64)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev tableChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.TableID != 0 {
				handler(ctx, ev.TableID)
			}
		}
	}
}
