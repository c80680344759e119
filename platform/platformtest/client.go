// Package platformtest provides a configurable ChatClient fake for tests.
package platformtest

import (
	"context"
	"errors"
	"sync"

	"github.com/aeonbot/accessgate/platform"
)

var _ platform.ChatClient = &FakeChatClient{}

// FakeChatClient serves canned chats and memberships and records the
// messages it was asked to send or delete.
type FakeChatClient struct {
	mu sync.Mutex

	// Chats maps chat id to metadata. Missing ids resolve to ErrChatNotFound.
	Chats map[int64]*platform.ChannelMeta
	// Members maps chat id to the set of member user ids.
	Members map[int64]map[int64]bool

	// MetaErr, MemberErr, SendErr force failures when set.
	MetaErr   error
	MemberErr error
	SendErr   error
	DeleteErr error

	Sent    []platform.MessageRef
	Deleted []platform.MessageRef

	nextMessageID int64
}

func NewFakeChatClient() *FakeChatClient {
	return &FakeChatClient{
		Chats:   make(map[int64]*platform.ChannelMeta),
		Members: make(map[int64]map[int64]bool),
	}
}

// AddChat registers a chat and returns its metadata for further tweaking.
func (f *FakeChatClient) AddChat(id int64, title, username, inviteLink string) *platform.ChannelMeta {
	meta := &platform.ChannelMeta{ID: id, Title: title, Username: username, InviteLink: inviteLink}
	f.Chats[id] = meta
	return meta
}

// Join marks the user as a member of the chat.
func (f *FakeChatClient) Join(chatID, userID int64) {
	if f.Members[chatID] == nil {
		f.Members[chatID] = make(map[int64]bool)
	}
	f.Members[chatID][userID] = true
}

func (f *FakeChatClient) GetChatMeta(ctx context.Context, chatID int64) (*platform.ChannelMeta, error) {
	if f.MetaErr != nil {
		return nil, f.MetaErr
	}
	meta, ok := f.Chats[chatID]
	if !ok {
		return nil, platform.ErrChatNotFound
	}
	return meta, nil
}

func (f *FakeChatClient) GetMember(ctx context.Context, chatID, userID int64) (*platform.Member, error) {
	if f.MemberErr != nil {
		return nil, f.MemberErr
	}
	if !f.Members[chatID][userID] {
		return nil, platform.ErrNotParticipant
	}
	return &platform.Member{UserID: userID, Status: "member"}, nil
}

func (f *FakeChatClient) SendMessage(ctx context.Context, chatID int64, text string) (platform.MessageRef, error) {
	if f.SendErr != nil {
		return platform.MessageRef{}, f.SendErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMessageID++
	ref := platform.MessageRef{ChatID: chatID, MessageID: f.nextMessageID}
	f.Sent = append(f.Sent, ref)
	return ref, nil
}

func (f *FakeChatClient) DeleteMessage(ctx context.Context, ref platform.MessageRef) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, ref)
	return nil
}

// ErrBackend simulates a generic platform failure.
var ErrBackend = errors.New("backend unavailable")
