// Package tokens owns the time-boxed access-token lifecycle: expiry
// decisions, issuance, paid-channel bypass, and redemption.
package tokens

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/aeonbot/accessgate/button"
	"github.com/aeonbot/accessgate/shortener"
	"github.com/aeonbot/accessgate/storage"
	"github.com/aeonbot/accessgate/subscription"
	"github.com/aeonbot/accessgate/userdata"
)

const (
	expiredMsg   = "Your token has expired, please collect a new token"
	paidOfferMsg = " or subscribe to the paid channel for token-free access."
)

// Policy is the token subsystem configuration. TimeoutSeconds == 0 disables
// the subsystem entirely.
type Policy struct {
	TimeoutSeconds  int64
	OwnerID         int64
	PaidChannelID   int64
	PaidChannelLink string
	BotUsername     string
}

type LedgerOption func(*Ledger)

func WithLogger(logger log.Logger) LedgerOption {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

// Ledger decides token expiry and issues replacements.
type Ledger struct {
	policy   Policy
	store    storage.TokenStore
	users    *userdata.Cache
	verifier *subscription.Verifier
	short    shortener.Shortener
	singlef  singleflight.Group
	logger   log.Logger
	now      func() time.Time
}

func NewLedger(policy Policy, store storage.TokenStore, users *userdata.Cache, verifier *subscription.Verifier, short shortener.Shortener, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		policy:   policy,
		store:    store,
		users:    users,
		verifier: verifier,
		short:    short,
		logger:   log.NewJSONLogger(log.NewSyncWriter(os.Stdout)),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

type issuance struct {
	expired bool
	token   string
}

// Check verifies the user's token and issues a replacement when expired.
// The returned reason is empty when the token is valid, the subsystem is
// disabled, or the user is exempt; the passed button set is extended with
// collection buttons only on expiry and is otherwise returned untouched.
//
// Callers are expected to have excluded privileged identities already; the
// owner is re-checked here as a safety net.
func (l *Ledger) Check(ctx context.Context, userID int64, set *button.Set) (string, *button.Set) {
	if l.policy.TimeoutSeconds == 0 || userID == l.policy.OwnerID {
		return "", set
	}

	if l.policy.PaidChannelID != 0 && l.isPaid(ctx, userID) {
		return "", set
	}

	// Concurrent evaluations for the same user share one expiry decision
	// and mint, instead of racing to overwrite each other's token.
	res, _, _ := l.singlef.Do(fmt.Sprintf("%d", userID), func() (interface{}, error) {
		return l.checkAndIssue(ctx, userID), nil
	})
	iss := res.(issuance)

	if !iss.expired {
		return "", set
	}

	if set == nil {
		set = button.NewSet()
	}
	set.URL("Collect token", l.collectLink(ctx, userID, iss.token))

	msg := expiredMsg
	if l.policy.PaidChannelID != 0 && l.policy.PaidChannelLink != "" {
		msg += paidOfferMsg
		set.URL("Subscribe", l.policy.PaidChannelLink)
	}

	dur := ReadableDuration(time.Duration(l.policy.TimeoutSeconds) * time.Second)
	return msg + fmt.Sprintf("\n<b>It will expire after %s</b>!", dur), set
}

// checkAndIssue performs the expiry decision and, when expired, persists a
// token. The expiry epoch always comes from storage; the cached record is
// never trusted for it.
func (l *Ledger) checkAndIssue(ctx context.Context, userID int64) issuance {
	epoch, hasExpiry, err := l.store.GetTokenExpiry(ctx, userID)
	if err != nil {
		// Conservative: an unreadable expiry counts as none on record.
		level.Error(l.logger).Log("msg", "could not read token expiry", "user", userID, "err", err)
		hasExpiry = false
	}

	rec := l.users.Record(ctx, userID)
	rec.TokenTime = epoch

	expired := !hasExpiry || l.now().Unix()-epoch > l.policy.TimeoutSeconds
	if !expired {
		l.users.Put(ctx, rec)
		return issuance{}
	}

	// Preserve the token only in the transitional state where one was
	// issued but never redeemed (no expiry on record yet). Every other
	// expiry path mints a fresh one.
	token := rec.Token
	if hasExpiry || token == "" {
		token = uuid.NewString()
	}

	if err := l.store.UpdateUserToken(ctx, userID, token); err != nil {
		level.Error(l.logger).Log("msg", "could not persist token", "user", userID, "err", err)
	}

	rec.Token = token
	rec.TokenTime = 0
	l.users.Put(ctx, rec)

	return issuance{expired: true, token: token}
}

// isPaid reports whether the user is exempt through the paid channel. An
// unresolvable paid channel exempts everyone: that is a configuration
// problem, not a user problem.
func (l *Ledger) isPaid(ctx context.Context, userID int64) bool {
	meta := l.verifier.ResolveChannel(ctx, l.policy.PaidChannelID)
	if meta == nil {
		return true
	}
	return l.verifier.IsMember(ctx, meta, userID)
}

// collectLink builds the shortened token-collection deep link. Shortener
// failures fall back to the unshortened link.
func (l *Ledger) collectLink(ctx context.Context, userID int64, token string) string {
	long := fmt.Sprintf("https://telegram.me/%s?start=%d_%s", l.policy.BotUsername, userID, token)

	short, err := l.short.Shorten(ctx, long)
	if err != nil {
		level.Warn(l.logger).Log("msg", "could not shorten collect link", "user", userID, "err", err)
		return long
	}
	return short
}

// Redeem validates a collected start parameter ("<userId>_<token>") and
// records the expiry baseline, starting the user's access window.
func (l *Ledger) Redeem(ctx context.Context, userID int64, startParam string) error {
	id, token, ok := strings.Cut(startParam, "_")
	if !ok || id != fmt.Sprintf("%d", userID) {
		return ErrInvalidToken
	}

	stored, err := l.store.GetUserToken(ctx, userID)
	if err != nil {
		return err
	}
	if stored == "" || stored != token {
		return ErrInvalidToken
	}

	epoch := l.now().Unix()
	if err := l.store.SetTokenExpiry(ctx, userID, epoch); err != nil {
		return err
	}

	rec := l.users.Record(ctx, userID)
	rec.Token = token
	rec.TokenTime = epoch
	l.users.Put(ctx, rec)
	return nil
}
