package internal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const notifyChannel = "notion-backup"

// RedisNotifier publishes run outcomes on a pub/sub channel.
type RedisNotifier struct {
	DB      *redis.Client
	Channel string
}

type notification struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

func (n *RedisNotifier) Init(urlStr string) error {
	opt, err := redis.ParseURL(urlStr)
	if err != nil {
		return err
	}

	n.DB = redis.NewClient(opt)
	if n.Channel == "" {
		n.Channel = notifyChannel
	}

	return nil
}

func (n *RedisNotifier) Notify(ctx context.Context, success bool, message string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	payload, err := json.Marshal(notification{Success: success, Message: message, Time: time.Now().UTC()})
	if err != nil {
		return err
	}
	return n.DB.Publish(ctx, n.Channel, payload).Err()
}

func (n *RedisNotifier) Close() error {
	return n.DB.Close()
}
