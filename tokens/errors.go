package tokens

import "errors"

// ErrInvalidToken marks a redemption attempt whose start parameter does not
// match the stored token for the user.
var ErrInvalidToken = errors.New("invalid token")
