package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/aeonbot/accessgate/button"
)

var _ ChatClient = &TelegramClient{}

// TelegramClient implements ChatClient on top of the Bot API via gotgbot.
//
// gotgbot's generated methods do not accept a context; the per-request
// timeout is configured on the bot itself. The passed context is only
// consulted for early cancellation.
type TelegramClient struct {
	bot *gotgbot.Bot
}

func NewTelegramClient(bot *gotgbot.Bot) *TelegramClient {
	return &TelegramClient{bot: bot}
}

func (c *TelegramClient) GetChatMeta(ctx context.Context, chatID int64) (*ChannelMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chat, err := c.bot.GetChat(chatID, nil)
	if err != nil {
		if isChatNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrChatNotFound, chatID)
		}
		return nil, fmt.Errorf("%w: get chat %d: %v", errPlatform, chatID, err)
	}

	return &ChannelMeta{
		ID:         chat.Id,
		Title:      chat.Title,
		Username:   chat.Username,
		InviteLink: chat.InviteLink,
	}, nil
}

func (c *TelegramClient) GetMember(ctx context.Context, chatID, userID int64) (*Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	member, err := c.bot.GetChatMember(chatID, userID, nil)
	if err != nil {
		if isUserNotParticipant(err) {
			return nil, ErrNotParticipant
		}
		return nil, fmt.Errorf("%w: get member %d of %d: %v", errPlatform, userID, chatID, err)
	}

	merged := member.MergeChatMember()
	if !participantStatus(merged.Status) {
		return nil, ErrNotParticipant
	}

	return &Member{UserID: userID, Status: merged.Status}, nil
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) (MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return MessageRef{}, err
	}

	msg, err := c.bot.SendMessage(chatID, text, &gotgbot.SendMessageOpts{ParseMode: "HTML"})
	if err != nil {
		return MessageRef{}, fmt.Errorf("%w: send to %d: %v", errPlatform, chatID, err)
	}

	return MessageRef{ChatID: msg.Chat.Id, MessageID: msg.MessageId}, nil
}

func (c *TelegramClient) DeleteMessage(ctx context.Context, ref MessageRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.bot.DeleteMessage(ref.ChatID, ref.MessageID, nil); err != nil {
		return fmt.Errorf("%w: delete %d in %d: %v", errPlatform, ref.MessageID, ref.ChatID, err)
	}
	return nil
}

// MenuMarkup converts a button set into inline-keyboard markup with the
// given number of columns. Returns nil for an empty set.
func MenuMarkup(s *button.Set, cols int) *gotgbot.InlineKeyboardMarkup {
	rows := s.Menu(cols)
	if rows == nil {
		return nil
	}

	keyboard := make([][]gotgbot.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]gotgbot.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btn := gotgbot.InlineKeyboardButton{Text: b.Label}
			switch b.Kind {
			case button.KindCallback:
				btn.CallbackData = b.Target
			default:
				btn.Url = b.Target
			}
			line = append(line, btn)
		}
		keyboard = append(keyboard, line)
	}

	return &gotgbot.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

// participantStatus reports whether a chat-member status counts as joined.
func participantStatus(status string) bool {
	switch status {
	case "creator", "administrator", "member", "restricted":
		return true
	}
	return false
}

func isChatNotFound(err error) bool {
	var tgErr *gotgbot.TelegramError
	if !errors.As(err, &tgErr) {
		return false
	}
	desc := strings.ToLower(tgErr.Description)
	return strings.Contains(desc, "chat not found") || strings.Contains(desc, "peer_id_invalid")
}

func isUserNotParticipant(err error) bool {
	var tgErr *gotgbot.TelegramError
	if !errors.As(err, &tgErr) {
		return false
	}
	desc := strings.ToLower(tgErr.Description)
	return strings.Contains(desc, "user not found") || strings.Contains(desc, "participant_id_invalid")
}
