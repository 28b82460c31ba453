package chess

import "errors"

// ErrInvalidEncoding is returned when a serialized board cannot be decoded
var ErrInvalidEncoding = errors.New("invalid board encoding")

// RuleViolationError reports a move rejected by the rules of chess
type RuleViolationError struct {
	Reason string
}

func (e *RuleViolationError) Error() string {
	return e.Reason
}

func violation(reason string) error {
	return &RuleViolationError{Reason: reason}
}
