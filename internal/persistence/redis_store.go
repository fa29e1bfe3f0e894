package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/petrijr/caseflow/internal/accounts"
)

// CachedStore is a read-through Redis cache in front of another
// AccountStore. It uses a simple key structure:
//
//	<prefix>account:<id>  => gob-encoded accounts.Account
//	<prefix>notice:<id>   => gob-encoded latest accounts.Notice
//
// Entries expire after the configured TTL and are dropped on writes.
// Failed cache reads and invalidations are reported as StoreError and
// misses fall through to the backing store. A value loaded from the
// backing store is returned even when caching it fails; that failure is
// only logged.
type CachedStore struct {
	next   AccountStore
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

var _ AccountStore = (*CachedStore)(nil)

// NewCachedStore creates a CachedStore.
// prefix is optional but recommended (e.g. "caseflow:").
func NewCachedStore(next AccountStore, client *redis.Client, prefix string, ttl time.Duration) *CachedStore {
	if prefix == "" {
		prefix = "caseflow:"
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedStore{
		next:   next,
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    zerolog.Nop(),
	}
}

// WithLogger sets the logger used for cache write failures.
func (s *CachedStore) WithLogger(l zerolog.Logger) *CachedStore {
	s.log = l
	return s
}

func (s *CachedStore) keyAccount(id string) string {
	return s.prefix + "account:" + id
}

func (s *CachedStore) keyNotice(id string) string {
	return s.prefix + "notice:" + id
}

func (s *CachedStore) Account(ctx context.Context, id string) (accounts.Account, error) {
	return readThrough(ctx, s, s.keyAccount(id), func(ctx context.Context) (accounts.Account, error) {
		return s.next.Account(ctx, id)
	})
}

func (s *CachedStore) LatestNotice(ctx context.Context, accountID string) (accounts.Notice, error) {
	return readThrough(ctx, s, s.keyNotice(accountID), func(ctx context.Context) (accounts.Notice, error) {
		return s.next.LatestNotice(ctx, accountID)
	})
}

func (s *CachedStore) SaveAccount(ctx context.Context, acct accounts.Account) error {
	if err := s.next.SaveAccount(ctx, acct); err != nil {
		return err
	}
	return s.invalidate(ctx, s.keyAccount(acct.ID))
}

func (s *CachedStore) AddNotice(ctx context.Context, n accounts.Notice) error {
	if err := s.next.AddNotice(ctx, n); err != nil {
		return err
	}
	return s.invalidate(ctx, s.keyNotice(n.AccountID))
}

func (s *CachedStore) invalidate(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return storeError("cache invalidate", err)
	}
	return nil
}

func readThrough[T any](ctx context.Context, s *CachedStore, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		v, err := decodeValue[T](data)
		if err == nil {
			return v, nil
		}
		// Unreadable entries are treated as misses.
	case !errors.Is(err, redis.Nil):
		return zero, storeError("cache get", err)
	}

	v, err := load(ctx)
	if err != nil {
		return zero, err
	}

	payload, err := encodeValue(v)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return v, nil
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return v, nil
}
