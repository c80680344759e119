package gate

import (
	"time"

	"github.com/aeonbot/accessgate/config"
	"github.com/aeonbot/accessgate/platform"
	"github.com/aeonbot/accessgate/shortener"
	"github.com/aeonbot/accessgate/storage"
	"github.com/aeonbot/accessgate/subscription"
	"github.com/aeonbot/accessgate/tokens"
	"github.com/aeonbot/accessgate/userdata"
)

// FromConfig wires a Gate from process configuration and the two injected
// collaborators the config cannot build: the platform client and the token
// store. The returned user cache is shared with the gate so the embedder can
// seed sudo flags.
func FromConfig(cfg *config.Config, client platform.ChatClient, store storage.TokenStore, opts ...GateOption) (*Gate, *userdata.Cache) {
	users := userdata.NewCache()
	verifier := subscription.NewVerifier(client)
	boot := subscription.NewBootstrapper(client)

	var short shortener.Shortener = shortener.Noop{}
	if cfg.Shortener.Endpoint != "" {
		short = shortener.NewClient(shortener.ClientCfg{
			Endpoint: cfg.Shortener.Endpoint,
			APIKey:   cfg.Shortener.APIKey,
			Timeout:  10 * time.Second,
		})
	}

	ledger := tokens.NewLedger(tokens.Policy{
		TimeoutSeconds:  cfg.Gate.TokenTimeout,
		OwnerID:         cfg.Gate.OwnerID,
		PaidChannelID:   cfg.Gate.PaidChannelID,
		PaidChannelLink: cfg.Gate.PaidChannelLink,
		BotUsername:     cfg.Bot.Username,
	}, store, users, verifier, short)

	gateCfg := Config{
		OwnerID:             cfg.Gate.OwnerID,
		ExemptChatID:        cfg.Gate.ExemptChatID,
		FSubChannelIDs:      cfg.Gate.FSubChannelIDs(),
		TokenTimeoutSeconds: cfg.Gate.TokenTimeout,
	}

	return New(gateCfg, verifier, boot, ledger, users, opts...), users
}
