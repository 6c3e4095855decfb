package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

// MemoryStore is an in-process Store with the same partial-state semantics as
// RedisStore. Sessions do not survive a restart; intended for local
// development and tests.
type MemoryStore struct {
	mu     sync.Mutex
	user   map[string][]byte
	tokens map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		user:   make(map[string][]byte),
		tokens: make(map[string][]byte),
	}
}

func (s *MemoryStore) Save(_ context.Context, sid string, user *domain.User, tokens *domain.TokenPair) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user[sid] = userJSON
	s.tokens[sid] = tokensJSON
	return nil
}

func (s *MemoryStore) SaveTokens(_ context.Context, sid string, tokens *domain.TokenPair) error {
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sid] = tokensJSON
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sid string) (*domain.User, *domain.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userRaw, uok := s.user[sid]
	tokensRaw, tok := s.tokens[sid]
	if !uok || !tok {
		delete(s.user, sid)
		delete(s.tokens, sid)
		return nil, nil, nil
	}

	var user domain.User
	var tokens domain.TokenPair
	if json.Unmarshal(userRaw, &user) != nil || json.Unmarshal(tokensRaw, &tokens) != nil {
		delete(s.user, sid)
		delete(s.tokens, sid)
		return nil, nil, nil
	}

	return &user, &tokens, nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.user, sid)
	delete(s.tokens, sid)
	return nil
}

// CorruptUser overwrites the stored user snapshot with unparsable bytes.
// Test hook for the malformed-session recovery path.
func (s *MemoryStore) CorruptUser(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user[sid] = []byte("{not json")
}

// DropTokens removes the tokens key only, leaving the session half-present.
// Test hook for the partial-state recovery path.
func (s *MemoryStore) DropTokens(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sid)
}
