package persistence

import (
	"context"
	"sync"

	"github.com/petrijr/caseflow/internal/accounts"
)

// InMemoryStore is a simple, goroutine-safe AccountStore backed by maps.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]accounts.Account
	notices  map[string][]accounts.Notice
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[string]accounts.Account),
		notices:  make(map[string][]accounts.Notice),
	}
}

// Ensure InMemoryStore implements the interface.
var _ AccountStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveAccount(ctx context.Context, acct accounts.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[acct.ID] = acct
	return nil
}

func (s *InMemoryStore) Account(ctx context.Context, id string) (accounts.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return accounts.Account{}, notFound("account", id)
	}
	return acct, nil
}

func (s *InMemoryStore) AddNotice(ctx context.Context, n accounts.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notices[n.AccountID] = append(s.notices[n.AccountID], n)
	return nil
}

// LatestNotice returns the notice with the newest PostedAt; ties go to
// the one added last.
func (s *InMemoryStore) LatestNotice(ctx context.Context, accountID string) (accounts.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.notices[accountID]
	if len(list) == 0 {
		return accounts.Notice{}, notFound("notice", accountID)
	}
	latest := list[0]
	for _, n := range list[1:] {
		if !n.PostedAt.Before(latest.PostedAt) {
			latest = n
		}
	}
	return latest, nil
}
