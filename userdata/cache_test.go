package userdata

import (
	"context"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMissReturnsZeroRecord(t *testing.T) {
	u := NewCache(WithLogger(log.NewNopLogger()))

	rec := u.Record(context.Background(), 42)
	assert.Equal(t, int64(42), rec.UserID)
	assert.False(t, rec.Sudo)
	assert.Empty(t, rec.Token)
}

func TestPutRoundTrip(t *testing.T) {
	ctx := context.Background()
	u := NewCache(WithLogger(log.NewNopLogger()))

	u.Put(ctx, Record{UserID: 42, Token: "tok-1", TokenTime: 1700000000})

	rec := u.Record(ctx, 42)
	require.Equal(t, "tok-1", rec.Token)
	require.Equal(t, int64(1700000000), rec.TokenTime)

	// Other users are unaffected.
	other := u.Record(ctx, 43)
	assert.Empty(t, other.Token)
}

func TestSetSudoPreservesToken(t *testing.T) {
	ctx := context.Background()
	u := NewCache(WithLogger(log.NewNopLogger()))

	u.Put(ctx, Record{UserID: 42, Token: "tok-1"})
	u.SetSudo(ctx, 42, true)

	rec := u.Record(ctx, 42)
	assert.True(t, rec.Sudo)
	assert.Equal(t, "tok-1", rec.Token)
}
