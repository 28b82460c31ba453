package model

import (
	"errors"

	"github.com/mcoot/chessgame-go/internal/chess"
)

// Common errors used across the application
var (
	// Validation errors
	ErrInvalidCommand = errors.New("invalid command")
	ErrInvalidMove    = errors.New("invalid move")
	ErrInvalidColor   = errors.New("invalid player color")
	ErrInvalidInput   = errors.New("invalid input")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotInGame    = errors.New("not in a game")
	ErrNotPlayer    = errors.New("not a player")
	ErrNotYourTurn  = errors.New("not your turn")

	// Not found errors
	ErrGameNotFound = errors.New("no such game")
	ErrUserNotFound = errors.New("user not found")

	// State conflict errors
	ErrSlotTaken      = errors.New("player slot already taken")
	ErrGameFinished   = errors.New("game is already finished")
	ErrUsernameExists = errors.New("username already exists")
)

// ErrorKind groups errors by how they are reported to clients
type ErrorKind string

const (
	KindValidation    ErrorKind = "VALIDATION"
	KindAuthorization ErrorKind = "AUTHORIZATION"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindConflict      ErrorKind = "STATE_CONFLICT"
	KindRuleViolation ErrorKind = "RULE_VIOLATION"
	KindInternal      ErrorKind = "INTERNAL"
)

// Classify maps an error onto its kind
func Classify(err error) ErrorKind {
	var rv *chess.RuleViolationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rv):
		return KindRuleViolation
	case errors.Is(err, ErrInvalidCommand), errors.Is(err, ErrInvalidMove), errors.Is(err, ErrInvalidColor),
		errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNotInGame),
		errors.Is(err, ErrNotPlayer), errors.Is(err, ErrNotYourTurn):
		return KindAuthorization
	case errors.Is(err, ErrGameNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrGameFinished), errors.Is(err, ErrUsernameExists):
		return KindConflict
	default:
		return KindInternal
	}
}
