package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

// Store persists a browser session's user snapshot and token pair under two
// keys scoped to the session id. Loss of persistence is tolerable — the user
// logs in again — so callers treat write failures as degradation, not errors
// worth failing a request over.
type Store interface {
	// Save writes both keys. The pair is written together so the store never
	// holds a half-valid session.
	Save(ctx context.Context, sid string, user *domain.User, tokens *domain.TokenPair) error
	// SaveTokens overwrites the token pair only, leaving the user snapshot in
	// place. Used by the silent-refresh path, where the user is unchanged.
	SaveTokens(ctx context.Context, sid string, tokens *domain.TokenPair) error
	// Load reads both keys. If either is absent or malformed the store clears
	// both and reports no session: partial state must not survive.
	Load(ctx context.Context, sid string) (*domain.User, *domain.TokenPair, error)
	// Clear removes both keys. Idempotent.
	Clear(ctx context.Context, sid string) error
}

const defaultSessionTTL = 7 * 24 * time.Hour

// RedisStore is the production Store, keeping sessions in Redis so they
// survive portal restarts. Key format: portal:sess:<sid>:{user,tokens}.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, sid string, user *domain.User, tokens *domain.TokenPair) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.userKey(sid), userJSON, s.ttl)
	pipe.Set(ctx, s.tokensKey(sid), tokensJSON, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveTokens(ctx context.Context, sid string, tokens *domain.TokenPair) error {
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	if err := s.client.Set(ctx, s.tokensKey(sid), tokensJSON, s.ttl).Err(); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sid string) (*domain.User, *domain.TokenPair, error) {
	vals, err := s.client.MGet(ctx, s.userKey(sid), s.tokensKey(sid)).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}

	userRaw, uok := vals[0].(string)
	tokensRaw, tok := vals[1].(string)
	if !uok || !tok {
		// Half-present state is treated as no session and wiped.
		_ = s.Clear(ctx, sid)
		return nil, nil, nil
	}

	var user domain.User
	var tokens domain.TokenPair
	if json.Unmarshal([]byte(userRaw), &user) != nil || json.Unmarshal([]byte(tokensRaw), &tokens) != nil {
		_ = s.Clear(ctx, sid)
		return nil, nil, nil
	}

	return &user, &tokens, nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.client.Del(ctx, s.userKey(sid), s.tokensKey(sid)).Err()
}

func (s *RedisStore) userKey(sid string) string {
	return "portal:sess:" + sid + ":user"
}

func (s *RedisStore) tokensKey(sid string) string {
	return "portal:sess:" + sid + ":tokens"
}
