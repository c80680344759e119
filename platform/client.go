// Package platform defines the chat-platform boundary consumed by the access
// checks, and ships a Telegram implementation of it. The rest of the module
// only ever sees the ChatClient interface.
package platform

import "context"

// ChannelMeta is the resolved metadata of a channel or group.
type ChannelMeta struct {
	ID         int64
	Title      string
	Username   string
	InviteLink string
}

// InviteRef returns the public reference users can follow to join the
// channel: the public t.me link when a username exists, otherwise the
// invite link.
func (m *ChannelMeta) InviteRef() string {
	if m.Username != "" {
		return "https://t.me/" + m.Username
	}
	return m.InviteLink
}

// Member is a user's membership record in a chat.
type Member struct {
	UserID int64
	Status string
}

// MessageRef identifies a sent message for later deletion.
type MessageRef struct {
	ChatID    int64
	MessageID int64
}

// ChatClient is the narrow platform surface the access checks depend on.
type ChatClient interface {
	// GetChatMeta resolves channel metadata. Returns ErrChatNotFound for an
	// invalid or unresolvable reference.
	GetChatMeta(ctx context.Context, chatID int64) (*ChannelMeta, error)

	// GetMember looks up a user's membership in a chat. Returns
	// ErrNotParticipant when the user is not a member; that is an expected
	// negative result, not a platform failure.
	GetMember(ctx context.Context, chatID, userID int64) (*Member, error)

	// SendMessage sends text to a chat and returns a reference to the sent
	// message.
	SendMessage(ctx context.Context, chatID int64, text string) (MessageRef, error)

	// DeleteMessage removes a previously sent message.
	DeleteMessage(ctx context.Context, ref MessageRef) error
}
