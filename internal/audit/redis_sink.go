package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/redis/go-redis/v9"
)

const DefaultStream = "audit:groups"

// RedisStreamSink публикует события в Redis Stream для внешних потребителей
type RedisStreamSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamSink создаёт приёмник по URL вида redis://host:port/db
func NewRedisStreamSink(redisURL, stream string, maxLen int64) (*RedisStreamSink, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStreamSinkWithClient(client, stream, maxLen), nil
}

func NewRedisStreamSinkWithClient(client *redis.Client, stream string, maxLen int64) *RedisStreamSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamSink{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

func (s *RedisStreamSink) Name() string {
	return "redis"
}

func (s *RedisStreamSink) Report(ctx context.Context, event *domain.AuditEvent) error {
	values := map[string]any{
		"id":         event.ID,
		"type":       string(event.Type),
		"domain":     event.Domain,
		"actor_id":   event.Actor.ID,
		"actor_name": event.Actor.Username,
		"target_id":  event.TargetID,
		"status":     string(event.Status),
		"created_at": event.CreatedAt.Format(time.RFC3339Nano),
	}
	if event.Error != "" {
		values["error"] = event.Error
	}
	if event.OldValue != nil {
		encoded, err := encodeGroup(event.OldValue)
		if err != nil {
			return err
		}
		values["old_value"] = encoded
	}
	if event.NewValue != nil {
		encoded, err := encodeGroup(event.NewValue)
		if err != nil {
			return err
		}
		values["new_value"] = encoded
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	return s.client.XAdd(ctx, args).Err()
}

func (s *RedisStreamSink) Close() error {
	return s.client.Close()
}

type groupPayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
	Roles       []string `json:"roles"`
	Version     int      `json:"version"`
}

func encodeGroup(group *domain.Group) (string, error) {
	data, err := json.Marshal(groupPayload{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Members:     group.Members,
		Roles:       group.Roles,
		Version:     group.Version,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
