package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"jce-assistant/internal/model"
)

const defaultHistoryTTL = 24 * time.Hour

// appendScript seeds the preamble on a missing key and appends in one step.
// KEYS[1] history; ARGV seed, message, limit, ttl seconds.
var appendScript = redisv9.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	redis.call("RPUSH", KEYS[1], ARGV[1])
end
redis.call("RPUSH", KEYS[1], ARGV[2])
redis.call("LTRIM", KEYS[1], -tonumber(ARGV[3]), -1)
redis.call("EXPIRE", KEYS[1], tonumber(ARGV[4]))
return 1
`)

// RedisStore keeps each session as a Redis list of JSON messages.
type RedisStore struct {
	client   *redisv9.Client
	preamble string
	limit    int
	ttl      time.Duration
}

func NewRedisStore(client *redisv9.Client, preamble string, limit int, ttl time.Duration) *RedisStore {
	if preamble == "" {
		preamble = DefaultPreamble
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if ttl <= 0 {
		ttl = defaultHistoryTTL
	}
	return &RedisStore{
		client:   client,
		preamble: preamble,
		limit:    limit,
		ttl:      ttl,
	}
}

func (s *RedisStore) Append(ctx context.Context, userID, role, content string) error {
	seed, err := json.Marshal(model.ChatMessage{Role: model.RoleSystem, Content: s.preamble})
	if err != nil {
		return fmt.Errorf("marshal preamble failed: %w", err)
	}
	payload, err := json.Marshal(model.ChatMessage{Role: role, Content: content})
	if err != nil {
		return fmt.Errorf("marshal history message failed: %w", err)
	}

	ttl := int64(s.ttl / time.Second)
	if ttl < 1 {
		ttl = 1
	}
	err = appendScript.Run(ctx, s.client, []string{s.historyKey(userID)}, seed, payload, s.limit, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis append history failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Messages(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	raw, err := s.client.LRange(ctx, s.historyKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get history failed: %w", err)
	}
	messages := make([]model.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("unmarshal cached history failed: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (s *RedisStore) Render(ctx context.Context, userID string) (string, error) {
	msgs, err := s.Messages(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderPrompt(msgs), nil
}

func (s *RedisStore) historyKey(userID string) string {
	return "assistant:history:" + userID
}
