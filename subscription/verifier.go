// Package subscription implements the forced-subscription membership checks
// and the private-session bootstrap probe.
package subscription

import (
	"context"
	"errors"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/aeonbot/accessgate/platform"
)

type VerifierOption func(*Verifier)

func WithVerifierLogger(logger log.Logger) VerifierOption {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// Verifier resolves required channels and checks user membership in them.
// Channel metadata is resolved on every call: membership and invite links
// can change between evaluations.
type Verifier struct {
	client platform.ChatClient
	logger log.Logger
}

func NewVerifier(client platform.ChatClient, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		client: client,
		logger: log.NewJSONLogger(log.NewSyncWriter(os.Stdout)),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// ResolveChannel looks up channel metadata. Any failure is logged and
// yields nil: an unresolvable channel is a configuration problem, so the
// caller skips it rather than denying the user.
func (v *Verifier) ResolveChannel(ctx context.Context, chatID int64) *platform.ChannelMeta {
	meta, err := v.client.GetChatMeta(ctx, chatID)
	if err != nil {
		level.Error(v.logger).Log("msg", "could not resolve channel", "channel", chatID, "err", err)
		return nil
	}
	return meta
}

// IsMember reports whether the user belongs to the channel. A not-participant
// result is a normal false; any other failure is logged and treated as false
// (fail-closed).
func (v *Verifier) IsMember(ctx context.Context, meta *platform.ChannelMeta, userID int64) bool {
	if meta == nil {
		return false
	}

	_, err := v.client.GetMember(ctx, meta.ID, userID)
	if err == nil {
		return true
	}
	if !errors.Is(err, platform.ErrNotParticipant) {
		level.Error(v.logger).Log("msg", "membership lookup failed", "channel", meta.ID, "user", userID, "err", err)
	}
	return false
}
