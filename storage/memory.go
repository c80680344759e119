package storage

import (
	"context"
	"sync"
)

var _ TokenStore = &MemoryStore{}

// MemoryStore is an in-process TokenStore for tests and single-node setups.
type MemoryStore struct {
	mu      sync.Mutex
	tokens  map[int64]string
	expiry  map[int64]int64
	updates int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[int64]string),
		expiry: make(map[int64]int64),
	}
}

func (s *MemoryStore) GetTokenExpiry(ctx context.Context, userID int64) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	epoch, ok := s.expiry[userID]
	return epoch, ok, nil
}

func (s *MemoryStore) UpdateUserToken(ctx context.Context, userID int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID] = token
	delete(s.expiry, userID)
	s.updates++
	return nil
}

func (s *MemoryStore) GetUserToken(ctx context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[userID], nil
}

func (s *MemoryStore) SetTokenExpiry(ctx context.Context, userID int64, epoch int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiry[userID] = epoch
	return nil
}

// UpdateCount returns how many UpdateUserToken calls were made.
func (s *MemoryStore) UpdateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}
