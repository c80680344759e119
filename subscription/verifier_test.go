package subscription

import (
	"context"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeonbot/accessgate/platform/platformtest"
)

func TestResolveChannel(t *testing.T) {
	ctx := context.Background()
	client := platformtest.NewFakeChatClient()
	client.AddChat(-100123, "Aeon News", "aeon_news", "")

	v := NewVerifier(client, WithVerifierLogger(log.NewNopLogger()))

	meta := v.ResolveChannel(ctx, -100123)
	require.NotNil(t, meta)
	assert.Equal(t, "Aeon News", meta.Title)
	assert.Equal(t, "https://t.me/aeon_news", meta.InviteRef())

	// Unknown channel resolves to nil, not an error.
	assert.Nil(t, v.ResolveChannel(ctx, -100999))
}

func TestResolveChannelBackendFailure(t *testing.T) {
	client := platformtest.NewFakeChatClient()
	client.MetaErr = platformtest.ErrBackend

	v := NewVerifier(client, WithVerifierLogger(log.NewNopLogger()))
	assert.Nil(t, v.ResolveChannel(context.Background(), -100123))
}

func TestIsMember(t *testing.T) {
	ctx := context.Background()
	client := platformtest.NewFakeChatClient()
	meta := client.AddChat(-100123, "Aeon News", "aeon_news", "")
	client.Join(-100123, 42)

	v := NewVerifier(client, WithVerifierLogger(log.NewNopLogger()))

	assert.True(t, v.IsMember(ctx, meta, 42))
	assert.False(t, v.IsMember(ctx, meta, 43))
	assert.False(t, v.IsMember(ctx, nil, 42))
}

func TestIsMemberFailsClosed(t *testing.T) {
	ctx := context.Background()
	client := platformtest.NewFakeChatClient()
	meta := client.AddChat(-100123, "Aeon News", "aeon_news", "")
	client.Join(-100123, 42)
	client.MemberErr = platformtest.ErrBackend

	v := NewVerifier(client, WithVerifierLogger(log.NewNopLogger()))
	assert.False(t, v.IsMember(ctx, meta, 42))
}

func TestProbe(t *testing.T) {
	ctx := context.Background()
	client := platformtest.NewFakeChatClient()

	b := NewBootstrapper(client, WithBootstrapperLogger(log.NewNopLogger()))

	require.True(t, b.Probe(ctx, 42))
	require.Len(t, client.Sent, 1)
	require.Len(t, client.Deleted, 1)
	assert.Equal(t, client.Sent[0], client.Deleted[0])
	assert.Equal(t, int64(42), client.Sent[0].ChatID)
}

func TestProbeSwallowsFailures(t *testing.T) {
	ctx := context.Background()

	client := platformtest.NewFakeChatClient()
	client.SendErr = platformtest.ErrBackend
	b := NewBootstrapper(client, WithBootstrapperLogger(log.NewNopLogger()))
	assert.False(t, b.Probe(ctx, 42))

	client = platformtest.NewFakeChatClient()
	client.DeleteErr = platformtest.ErrBackend
	b = NewBootstrapper(client, WithBootstrapperLogger(log.NewNopLogger()))
	assert.False(t, b.Probe(ctx, 42))
}
