package platform

import (
	"errors"
	"fmt"
)

var (
	// Private error we wrap platform failures with.
	errPlatform = errors.New("platform error")

	// ErrChatNotFound marks an unresolvable chat reference. This is a
	// configuration problem, not a user problem: callers skip the chat.
	ErrChatNotFound = fmt.Errorf("%w: chat not found", errPlatform)

	// ErrNotParticipant is the expected negative result of a membership
	// lookup. Deliberately not wrapped in errPlatform.
	ErrNotParticipant = errors.New("not a participant")
)

func IsPlatformErr(err error) bool {
	return errors.Is(err, errPlatform)
}

func IsChatNotFoundErr(err error) bool {
	return errors.Is(err, ErrChatNotFound)
}
