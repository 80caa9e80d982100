package token

import "errors"

var (
	// ErrTokenNotFound is returned when a token id does not resolve to a row
	// visible to the requesting actor.
	ErrTokenNotFound = errors.New("token not found")
)
