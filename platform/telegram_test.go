package platform

import (
	"fmt"
	"testing"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeonbot/accessgate/button"
)

func TestInviteRef(t *testing.T) {
	public := &ChannelMeta{Username: "aeon_news", InviteLink: "https://t.me/+abc"}
	assert.Equal(t, "https://t.me/aeon_news", public.InviteRef())

	private := &ChannelMeta{InviteLink: "https://t.me/+abc"}
	assert.Equal(t, "https://t.me/+abc", private.InviteRef())
}

func TestParticipantStatus(t *testing.T) {
	for _, status := range []string{"creator", "administrator", "member", "restricted"} {
		assert.True(t, participantStatus(status), status)
	}
	for _, status := range []string{"left", "kicked", ""} {
		assert.False(t, participantStatus(status), status)
	}
}

func TestErrorClassification(t *testing.T) {
	notFound := &gotgbot.TelegramError{Code: 400, Description: "Bad Request: chat not found"}
	assert.True(t, isChatNotFound(notFound))
	assert.False(t, isUserNotParticipant(notFound))

	noUser := &gotgbot.TelegramError{Code: 400, Description: "Bad Request: user not found"}
	assert.True(t, isUserNotParticipant(noUser))
	assert.False(t, isChatNotFound(noUser))

	wrapped := fmt.Errorf("call failed: %w", notFound)
	assert.True(t, isChatNotFound(wrapped))

	assert.False(t, isChatNotFound(fmt.Errorf("plain error")))
}

func TestMenuMarkup(t *testing.T) {
	s := button.NewSet()
	s.Callback("Start", "aeon 42 private", button.GroupHeader)
	s.URL("Collect token", "https://sho.rt/abc")
	s.URL("Subscribe", "https://t.me/+paid")

	markup := MenuMarkup(s, 2)
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)

	assert.Equal(t, "Start", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "aeon 42 private", markup.InlineKeyboard[0][0].CallbackData)
	assert.Empty(t, markup.InlineKeyboard[0][0].Url)

	assert.Equal(t, "https://sho.rt/abc", markup.InlineKeyboard[1][0].Url)
	assert.Equal(t, "https://t.me/+paid", markup.InlineKeyboard[1][1].Url)

	assert.Nil(t, MenuMarkup(button.NewSet(), 2))
}
