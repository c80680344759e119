// Package storage owns durable token state. The core only talks to the
// TokenStore interface; the redis implementation is what deployments run.
package storage

import "context"

// TokenStore persists per-user token state.
//
// The expiry epoch is authoritative: the token ledger always re-reads it
// instead of trusting any cached copy. UpdateUserToken stores a token and
// clears any recorded expiry in the same operation; the expiry is only
// written back when the token is redeemed.
type TokenStore interface {
	// GetTokenExpiry returns the recorded expiry epoch for the user, with
	// ok=false when none is on record.
	GetTokenExpiry(ctx context.Context, userID int64) (epoch int64, ok bool, err error)

	// UpdateUserToken stores the user's token and clears the expiry field.
	UpdateUserToken(ctx context.Context, userID int64, token string) error

	// GetUserToken returns the stored token, empty when none was issued.
	GetUserToken(ctx context.Context, userID int64) (string, error)

	// SetTokenExpiry records the expiry baseline, normally at redemption.
	SetTokenExpiry(ctx context.Context, userID int64, epoch int64) error
}
