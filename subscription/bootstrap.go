package subscription

import (
	"context"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/aeonbot/accessgate/platform"
)

const probeText = "<b>Checking Access...</b>"

type BootstrapperOption func(*Bootstrapper)

func WithBootstrapperLogger(logger log.Logger) BootstrapperOption {
	return func(b *Bootstrapper) {
		b.logger = logger
	}
}

// Bootstrapper verifies the bot can message a user privately.
type Bootstrapper struct {
	client platform.ChatClient
	logger log.Logger
}

func NewBootstrapper(client platform.ChatClient, opts ...BootstrapperOption) *Bootstrapper {
	b := &Bootstrapper{
		client: client,
		logger: log.NewJSONLogger(log.NewSyncWriter(os.Stdout)),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Probe sends a minimal private message to the user and deletes it right
// away. Success means a private session exists. Any failure of either call
// is swallowed and reported as false, never propagated.
func (b *Bootstrapper) Probe(ctx context.Context, userID int64) bool {
	ref, err := b.client.SendMessage(ctx, userID, probeText)
	if err != nil {
		level.Debug(b.logger).Log("msg", "bootstrap probe failed", "user", userID, "err", err)
		return false
	}

	if err := b.client.DeleteMessage(ctx, ref); err != nil {
		level.Warn(b.logger).Log("msg", "could not delete probe message", "user", userID, "err", err)
		return false
	}
	return true
}
