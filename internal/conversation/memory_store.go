package conversation

import (
	"context"
	"sync"

	"jce-assistant/internal/model"
)

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]model.ChatMessage
	preamble string
	limit    int
}

func NewMemoryStore(preamble string, limit int) *MemoryStore {
	if preamble == "" {
		preamble = DefaultPreamble
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{
		sessions: make(map[string][]model.ChatMessage),
		preamble: preamble,
		limit:    limit,
	}
}

func (s *MemoryStore) Append(_ context.Context, userID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, ok := s.sessions[userID]
	if !ok {
		msgs = []model.ChatMessage{{Role: model.RoleSystem, Content: s.preamble}}
	}
	msgs = append(msgs, model.ChatMessage{Role: role, Content: content})
	if len(msgs) > s.limit {
		msgs = append([]model.ChatMessage(nil), msgs[len(msgs)-s.limit:]...)
	}
	s.sessions[userID] = msgs
	return nil
}

func (s *MemoryStore) Messages(_ context.Context, userID string) ([]model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage(nil), s.sessions[userID]...), nil
}

func (s *MemoryStore) Render(ctx context.Context, userID string) (string, error) {
	msgs, err := s.Messages(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderPrompt(msgs), nil
}
