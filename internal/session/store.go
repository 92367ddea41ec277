package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sumire/leaveportal/internal/domain"
)

// Store persists the bearer token for each browser session. The token is
// the only durable piece of client state the portal keeps; everything else
// lives in memory and dies with the process.
type Store struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore creates a Store writing under the given key prefix.
func NewStore(rdb *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{rdb: rdb, prefix: prefix, ttl: ttl}
}

// NewSessionID mints the opaque cookie value identifying a browser session.
func NewSessionID() string {
	return uuid.NewString()
}

func (s *Store) key(sid string) string {
	return s.prefix + ":" + sid
}

// SetToken stores the raw token under the session key, prefixed for
// transport so it can be replayed on outbound API calls verbatim.
func (s *Store) SetToken(ctx context.Context, sid, raw string) error {
	if err := s.rdb.Set(ctx, s.key(sid), "Bearer "+raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when the session has none.
func (s *Store) Token(ctx context.Context, sid string) (string, error) {
	v, err := s.rdb.Get(ctx, s.key(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	return v, nil
}

// Claims re-decodes the stored token on every call; the decoded view is
// never cached across reads. An absent token yields (nil, nil).
func (s *Store) Claims(ctx context.Context, sid string) (*Claims, error) {
	tok, err := s.Token(ctx, sid)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, nil
	}
	return Decode(tok)
}

// Role returns the role claim, or "" when the session has no token.
func (s *Store) Role(ctx context.Context, sid string) (domain.Role, error) {
	claims, err := s.Claims(ctx, sid)
	if err != nil || claims == nil {
		return "", err
	}
	return claims.Role, nil
}

// Expiration returns the exp claim in epoch seconds, or 0 when the session
// has no token.
func (s *Store) Expiration(ctx context.Context, sid string) (int64, error) {
	claims, err := s.Claims(ctx, sid)
	if err != nil {
		return 0, err
	}
	return claims.Expiration(), nil
}

// Clear deletes every durable key belonging to the session. Callers are
// expected to expire the cookie and tear down any live notification
// channel alongside, so that no state survives the logout.
func (s *Store) Clear(ctx context.Context, sid string) error {
	iter := s.rdb.Scan(ctx, 0, s.key(sid)+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan session keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete session keys: %w", err)
	}
	return nil
}
