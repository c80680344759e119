// Package gate composes the access checks into one pass/fail decision.
//
// Every eligible check runs; failures accumulate instead of short-circuiting,
// so a user sees every remediable issue at once and the rendered order is
// deterministic. No error ever escapes Evaluate: collaborator failures are
// logged and mapped to the conservative outcome of the single check involved.
package gate

import (
	"context"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/aeonbot/accessgate/button"
	"github.com/aeonbot/accessgate/subscription"
	"github.com/aeonbot/accessgate/tokens"
	"github.com/aeonbot/accessgate/userdata"
)

const (
	// MenuColumns is the fixed column count of the rendered button grid.
	MenuColumns = 2

	notJoinedMsg     = "You haven't joined our channel/group yet!"
	notInitiatedMsg  = "You haven't initiated the bot in a private message!"
	startCallbackFmt = "aeon %d private"
)

// Config is the gate's slice of the process configuration.
type Config struct {
	// OwnerID is the bot owner, exempt from the token policy.
	OwnerID int64
	// ExemptChatID bypasses every check when it equals the requester.
	ExemptChatID int64
	// FSubChannelIDs are the forced-subscription channels.
	FSubChannelIDs []int64
	// TokenTimeoutSeconds mirrors the token policy window; 0 disables it.
	TokenTimeoutSeconds int64
}

// Request describes one inbound interaction to evaluate.
type Request struct {
	UserID int64
	// Private is true for a 1:1 chat with the bot.
	Private bool
	// Username and FirstName personalize the denial greeting.
	Username  string
	FirstName string
}

type GateOption func(*Gate)

func WithTracer(tracer trace.Tracer) GateOption {
	return func(g *Gate) {
		g.tracer = tracer
	}
}

func WithLogger(logger log.Logger) GateOption {
	return func(g *Gate) {
		g.logger = logger
	}
}

// Gate is the evaluation entry point.
type Gate struct {
	cfg      Config
	verifier *subscription.Verifier
	boot     *subscription.Bootstrapper
	ledger   *tokens.Ledger
	users    *userdata.Cache
	tracer   trace.Tracer
	logger   log.Logger
}

func New(cfg Config, verifier *subscription.Verifier, boot *subscription.Bootstrapper, ledger *tokens.Ledger, users *userdata.Cache, opts ...GateOption) *Gate {
	g := &Gate{
		cfg:      cfg,
		verifier: verifier,
		boot:     boot,
		ledger:   ledger,
		users:    users,
		tracer:   noop.Tracer{},
		logger:   log.NewJSONLogger(log.NewSyncWriter(os.Stdout)),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// decision accumulates failing checks in evaluation order.
type decision struct {
	reasons []string
	buttons *button.Set
}

func (d *decision) addReason(reason string) {
	d.reasons = append(d.reasons, reason)
}

func (d *decision) set() *button.Set {
	if d.buttons == nil {
		d.buttons = button.NewSet()
	}
	return d.buttons
}

// Evaluate runs every eligible check for the request. An empty message means
// access is granted; otherwise the message lists each failing check and the
// button set carries its remediation links.
func (g *Gate) Evaluate(ctx context.Context, req Request) (string, *button.Set) {
	ctx, span := g.tracer.Start(ctx, "Gate.Evaluate")
	defer span.End()

	span.SetAttributes(attribute.Int64("user", req.UserID))
	span.SetAttributes(attribute.Bool("private", req.Private))

	// The exempt chat bypasses everything.
	if g.cfg.ExemptChatID != 0 && req.UserID == g.cfg.ExemptChatID {
		return "", nil
	}

	d := &decision{}
	rec := g.users.Record(ctx, req.UserID)

	if !req.Private {
		g.checkSubscriptions(ctx, req, d)

		// Only users the token check will wave through need the probe here;
		// everyone else is pushed to start the bot by the token flow itself.
		if g.cfg.TokenTimeoutSeconds == 0 || req.UserID == g.cfg.OwnerID || rec.Sudo {
			g.checkBootstrap(ctx, req, d)
		}
	}

	if req.UserID != g.cfg.OwnerID && req.UserID != g.cfg.ExemptChatID && !rec.Sudo {
		msg, set := g.ledger.Check(ctx, req.UserID, d.buttons)
		d.buttons = set
		if msg != "" {
			d.addReason(msg)
		}
	}

	span.SetAttributes(attribute.Int("reasons", len(d.reasons)))
	if len(d.reasons) == 0 {
		return "", nil
	}

	level.Debug(g.logger).Log("msg", "access denied", "user", req.UserID, "reasons", len(d.reasons))
	return render(req, d.reasons), d.buttons
}

// checkSubscriptions records a join prompt for every required channel the
// user has not joined, deduplicated by channel title. Unresolvable channels
// are skipped: a broken channel reference must not lock users out.
func (g *Gate) checkSubscriptions(ctx context.Context, req Request, d *decision) {
	type joinTarget struct {
		title string
		link  string
	}

	var missing []joinTarget
	seen := make(map[string]bool)
	for _, channelID := range g.cfg.FSubChannelIDs {
		meta := g.verifier.ResolveChannel(ctx, channelID)
		if meta == nil {
			continue
		}
		if g.verifier.IsMember(ctx, meta, req.UserID) {
			continue
		}
		if seen[meta.Title] {
			continue
		}
		seen[meta.Title] = true
		missing = append(missing, joinTarget{title: meta.Title, link: meta.InviteRef()})
	}

	if len(missing) == 0 {
		return
	}

	set := d.set()
	for _, m := range missing {
		set.URL("Join "+m.title, m.link, button.GroupFooter)
	}
	d.addReason(notJoinedMsg)
}

// checkBootstrap probes the private session and records a start prompt on
// failure.
func (g *Gate) checkBootstrap(ctx context.Context, req Request, d *decision) {
	if g.boot.Probe(ctx, req.UserID) {
		return
	}

	d.set().Callback("Start", fmt.Sprintf(startCallbackFmt, req.UserID), button.GroupHeader)
	d.addReason(notInitiatedMsg)
}

// render formats the denial: a personalized greeting, then each reason as a
// numbered quoted block in evaluation order.
func render(req Request, reasons []string) string {
	tag := mention(req)

	msg := fmt.Sprintf("Hey, <b>%s</b>!\n", tag)
	for i, reason := range reasons {
		msg += fmt.Sprintf("\n<blockquote><b>%d</b>: %s</blockquote>", i+1, reason)
	}
	return msg
}

func mention(req Request) string {
	if req.Username != "" {
		return "@" + req.Username
	}

	name := req.FirstName
	if name == "" {
		name = fmt.Sprintf("%d", req.UserID)
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, req.UserID, name)
}
