package helpers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStateNotFound is returned when the state token is unknown, expired or
// already consumed.
var ErrStateNotFound = errors.New("oauth state not found")

func keyOAuthState(s string) string { return "oauth:state:" + s }

// OAuthStateStore keeps OAuth state tokens in Redis, mapping each token to
// the post-login destination path. Tokens are single use and expire with TTL.
type OAuthStateStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewOAuthStateStore(rdb *redis.Client, ttl time.Duration) *OAuthStateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OAuthStateStore{RDB: rdb, TTL: ttl}
}

// Issue mints a random state token and stores the callback path under it.
func (s *OAuthStateStore) Issue(ctx context.Context, callback string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(b)
	if !isLocalPath(callback) {
		callback = "/"
	}
	if err := s.RDB.Set(ctx, keyOAuthState(state), callback, s.TTL).Err(); err != nil {
		return "", err
	}
	return state, nil
}

// Consume validates the state token and returns its callback path. The token
// is deleted so a replayed callback fails.
func (s *OAuthStateStore) Consume(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", ErrStateNotFound
	}
	callback, err := s.RDB.GetDel(ctx, keyOAuthState(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", err
	}
	return callback, nil
}

// isLocalPath accepts only same-site absolute paths. "//host" and "/\host"
// are protocol-relative URLs in browsers, not local paths.
func isLocalPath(p string) bool {
	if p == "" || !strings.HasPrefix(p, "/") {
		return false
	}
	return !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
