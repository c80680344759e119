// Package userdata caches per-user records between evaluations. The cache is
// an explicit collaborator injected into the checks, never ambient state.
//
// Records are transient: the authoritative token expiry lives in storage and
// is re-read on every token check. The cached record carries what the checks
// need synchronously — the sudo flag and the last token value seen.
package userdata

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/aeonbot/accessgate/cache"
)

// Record is the cached state of one user.
type Record struct {
	UserID int64
	Sudo   bool
	// Token is empty iff the user has never been issued one. TokenTime is
	// only ever set together with Token.
	Token     string
	TokenTime int64
}

type CacheOption func(*Cache)

func WithBackend(c cache.Cache) CacheOption {
	return func(u *Cache) {
		u.local = c
	}
}

func WithLogger(logger log.Logger) CacheOption {
	return func(u *Cache) {
		u.logger = logger
	}
}

// Cache stores user records keyed by user id.
type Cache struct {
	local  cache.Cache
	logger log.Logger
}

func NewCache(opts ...CacheOption) *Cache {
	u := &Cache{
		logger: log.NewJSONLogger(log.NewSyncWriter(os.Stdout)),
	}

	for _, opt := range opts {
		opt(u)
	}

	if u.local == nil {
		u.local = cache.NewLocalCache(cache.Config{
			Expiry:          cache.NoExpiration,
			CleanupInterval: 0,
		})
	}

	return u
}

// Record returns the cached record for the user, or a zero record when none
// is cached. Decode failures are logged and treated as a miss.
func (u *Cache) Record(ctx context.Context, userID int64) Record {
	data, err := u.local.Get(ctx, recordKey(userID))
	if err != nil {
		return Record{UserID: userID}
	}

	var rec Record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		level.Warn(u.logger).Log("msg", "could not decode cached user record", "user", userID, "err", err)
		return Record{UserID: userID}
	}
	return rec
}

// Put stores the record. Encode failures are logged and dropped; the record
// will simply be re-derived on the next evaluation.
func (u *Cache) Put(ctx context.Context, rec Record) {
	buf := bytes.Buffer{}
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		level.Warn(u.logger).Log("msg", "could not encode user record", "user", rec.UserID, "err", err)
		return
	}

	if err := u.local.Set(ctx, recordKey(rec.UserID), buf.Bytes(), cache.NoExpiration); err != nil {
		level.Warn(u.logger).Log("msg", "could not cache user record", "user", rec.UserID, "err", err)
	}
}

// SetSudo seeds the privileged flag for a user, typically at bot startup.
func (u *Cache) SetSudo(ctx context.Context, userID int64, sudo bool) {
	rec := u.Record(ctx, userID)
	rec.Sudo = sudo
	u.Put(ctx, rec)
}

func recordKey(userID int64) string {
	return fmt.Sprintf("user-%d", userID)
}
