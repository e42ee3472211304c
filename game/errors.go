// game/errors.go
package game

import "errors"

// Every action failure maps to exactly one of these. They are answered to the
// originating session and never terminate the process.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrForbidden      = errors.New("action requires the room host")
	ErrAlreadyStarted = errors.New("game already started")
	ErrInvalidCell    = errors.New("cell coordinates out of range")
	ErrExhausted      = errors.New("all numbers have been called")
	ErrInvalidClaim   = errors.New("board has no winning line")
)

// ErrorCode returns the wire code for a taxonomy error, or "internal" for
// anything that escaped the taxonomy.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrPlayerNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, ErrInvalidCell):
		return "invalid_cell"
	case errors.Is(err, ErrExhausted):
		return "exhausted"
	case errors.Is(err, ErrInvalidClaim):
		return "invalid_claim"
	default:
		return "internal"
	}
}
