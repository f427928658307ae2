package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/frahmantamala/maintenance-management/internal/auth"
)

const (
	revokedPrefix = "auth:revoked:"
	resetPrefix   = "auth:reset:"
)

type TokenStore struct {
	client goredis.UniversalClient
}

func NewTokenStore(client goredis.UniversalClient) auth.TokenStore {
	return &TokenStore{client: client}
}

// Revoke stores the token id without expiry.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string) error {
	return s.client.Set(ctx, revokedPrefix+tokenID, 1, 0).Err()
}

func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *TokenStore) SaveResetToken(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, resetPrefix+auth.HashResetToken(token), userID, ttl).Err()
}

// ConsumeResetToken uses GETDEL so a token can be redeemed once.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (int64, bool, error) {
	raw, err := s.client.GetDel(ctx, resetPrefix+auth.HashResetToken(token)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return userID, true, nil
}
