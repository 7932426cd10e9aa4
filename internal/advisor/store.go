package advisor

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"pulse-node/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ConversationStore keeps the recent turns of each conversation.
type ConversationStore interface {
	Append(ctx context.Context, conversationID string, msgs ...domain.ConversationMessage) error
	Recent(ctx context.Context, conversationID string, limit int) ([]domain.ConversationMessage, error)
	Clear(ctx context.Context, conversationID string) error
}

const conversationTTL = 7 * 24 * time.Hour

// RedisConversationStore keeps each conversation as a capped redis list.
type RedisConversationStore struct {
	client *redis.Client
	max    int
}

func NewRedisConversationStore(client *redis.Client, maxLen int) *RedisConversationStore {
	if maxLen <= 0 {
		maxLen = 20
	}
	return &RedisConversationStore{client: client, max: maxLen}
}

func conversationKey(id string) string {
	return "pulse:advisor:conv:" + id
}

func (s *RedisConversationStore) Append(ctx context.Context, conversationID string, msgs ...domain.ConversationMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, b)
	}

	key := conversationKey(conversationID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-s.max), -1)
	pipe.Expire(ctx, key, conversationTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisConversationStore) Recent(ctx context.Context, conversationID string, limit int) ([]domain.ConversationMessage, error) {
	if limit <= 0 || limit > s.max {
		limit = s.max
	}
	raw, err := s.client.LRange(ctx, conversationKey(conversationID), int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ConversationMessage, 0, len(raw))
	for _, r := range raw {
		var m domain.ConversationMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *RedisConversationStore) Clear(ctx context.Context, conversationID string) error {
	return s.client.Del(ctx, conversationKey(conversationID)).Err()
}

// MemoryConversationStore is used when redis is not configured.
type MemoryConversationStore struct {
	mu    sync.Mutex
	max   int
	convs map[string][]domain.ConversationMessage
}

func NewMemoryConversationStore(maxLen int) *MemoryConversationStore {
	if maxLen <= 0 {
		maxLen = 20
	}
	return &MemoryConversationStore{max: maxLen, convs: make(map[string][]domain.ConversationMessage)}
}

func (s *MemoryConversationStore) Append(_ context.Context, conversationID string, msgs ...domain.ConversationMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := append(s.convs[conversationID], msgs...)
	if len(conv) > s.max {
		conv = append([]domain.ConversationMessage(nil), conv[len(conv)-s.max:]...)
	}
	s.convs[conversationID] = conv
	return nil
}

func (s *MemoryConversationStore) Recent(_ context.Context, conversationID string, limit int) ([]domain.ConversationMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.convs[conversationID]
	if limit > 0 && len(conv) > limit {
		conv = conv[len(conv)-limit:]
	}
	return append([]domain.ConversationMessage{}, conv...), nil
}

func (s *MemoryConversationStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, conversationID)
	return nil
}
