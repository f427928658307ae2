package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// TokenStore keeps revoked token ids and one-time password reset tokens.
// Revocations are permanent.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	SaveResetToken(ctx context.Context, token string, userID int64, ttl time.Duration) error
	// ConsumeResetToken returns the owner of token and deletes it. ok is false
	// for unknown or expired tokens.
	ConsumeResetToken(ctx context.Context, token string) (userID int64, ok bool, err error)
}

// HashResetToken is the storage key of a reset token; the raw value is never kept.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

// MemoryTokenStore is a process-local TokenStore for single instance
// deployments without Redis.
type MemoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]struct{}
	resets  map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		revoked: make(map[string]struct{}),
		resets:  make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryTokenStore) Revoke(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = struct{}{}
	return nil
}

func (m *MemoryTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func (m *MemoryTokenStore) SaveResetToken(_ context.Context, token string, userID int64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[HashResetToken(token)] = memoryEntry{userID: userID, expiresAt: m.now().Add(ttl)}
	m.sweep()
	return nil
}

func (m *MemoryTokenStore) ConsumeResetToken(_ context.Context, token string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := HashResetToken(token)
	entry, ok := m.resets[key]
	if !ok {
		return 0, false, nil
	}
	delete(m.resets, key)
	if !m.now().Before(entry.expiresAt) {
		return 0, false, nil
	}
	return entry.userID, true, nil
}

// sweep drops expired reset tokens; callers hold mu.
func (m *MemoryTokenStore) sweep() {
	now := m.now()
	for key, entry := range m.resets {
		if !now.Before(entry.expiresAt) {
			delete(m.resets, key)
		}
	}
}
