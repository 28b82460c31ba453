package session

import (
	"errors"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/model"
)

// rejection is a command refusal with client-facing text. It unwraps to the
// model sentinel so callers can still classify it.
type rejection struct {
	kind error
	text string
}

func (e *rejection) Error() string { return e.text }
func (e *rejection) Unwrap() error { return e.kind }

func reject(kind error, text string) error {
	return &rejection{kind: kind, text: text}
}

var (
	errMoveNotInGame   = reject(model.ErrNotInGame, "Cannot make move if you are not in a game!")
	errMoveNotPlayer   = reject(model.ErrNotPlayer, "Cannot make move if you are not a player!")
	errMoveNotYourTurn = reject(model.ErrNotYourTurn, "Cannot make move if it is not your turn!")
	errMoveFinished    = reject(model.ErrGameFinished, "Cannot move after the completion of the game!")

	errLeaveNotInGame = reject(model.ErrNotInGame, "Cannot leave if you are not in a game!")
	errLeaveOtherGame = reject(model.ErrNotInGame, "Cannot leave a game you have not joined!")

	errResignNotInGame = reject(model.ErrNotInGame, "Cannot resign if you are not in a game!")
	errResignNotPlayer = reject(model.ErrNotPlayer, "Cannot resign if you are not a player!")
	errResignFinished  = reject(model.ErrGameFinished, "Cannot resign after the completion of the game!")
	errResignOtherGame = reject(model.ErrNotInGame, "Cannot resign from a game you have not joined!")

	errSaveFailed = reject(errors.New("save failed"), "could not save the game, move not applied")
)

// errorText renders err for an ERROR message. Internal failures are not echoed.
func errorText(err error) string {
	var (
		rv  *chess.RuleViolationError
		rej *rejection
	)
	switch {
	case errors.As(err, &rv):
		return rv.Reason
	case errors.As(err, &rej):
		return rej.text
	case errors.Is(err, model.ErrUnauthorized):
		return model.ErrUnauthorized.Error()
	case model.Classify(err) == model.KindInternal:
		return "internal server error"
	}
	return err.Error()
}
