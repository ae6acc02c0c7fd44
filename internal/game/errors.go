// internal/game/errors.go
//
// Error taxonomy for game transitions.
// Every expected failure is a value of type *Error carrying a stable Code
// string; callers branch on the code, the HTTP layer serializes it.
// Anything that is not a *Error is a contract violation and is treated as an
// internal server error upstream.

package game

import "strings"

// Code is a stable machine-readable identifier for a recoverable failure.
type Code string

const (
	CodeInvalidWord           Code = "INVALID_WORD"
	CodeAlreadyStarted        Code = "ALREADY_STARTED"
	CodeNotStarted            Code = "NOT_STARTED"
	CodeAlreadyFinished       Code = "ALREADY_FINISHED"
	CodeNotEnoughPlayers      Code = "NOT_ENOUGH_PLAYERS"
	CodePlayerNotRegistered   Code = "PLAYER_NOT_REGISTERED"
	CodePlayerAlreadyFinished Code = "PLAYER_ALREADY_FINISHED"
	CodeAlreadyGuessed        Code = "ALREADY_GUESSED"
	CodeGameNotFound          Code = "GAME_NOT_FOUND"
)

// Error is a recoverable game failure. It never wraps another error.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

func errInvalidWord(word string) *Error {
	return &Error{Code: CodeInvalidWord, Message: `"` + strings.ToUpper(word) + `" is not a valid word`}
}

func errAlreadyStarted() *Error {
	return &Error{Code: CodeAlreadyStarted, Message: "Game has already started"}
}

func errNotStarted() *Error {
	return &Error{Code: CodeNotStarted, Message: "Game has not started"}
}

func errAlreadyFinished() *Error {
	return &Error{Code: CodeAlreadyFinished, Message: "Game has already finished"}
}

func errNotEnoughPlayers() *Error {
	return &Error{Code: CodeNotEnoughPlayers, Message: "Not enough players to start"}
}

func errPlayerNotRegistered() *Error {
	return &Error{Code: CodePlayerNotRegistered, Message: "Player is not registered"}
}

func errPlayerAlreadyFinished() *Error {
	return &Error{Code: CodePlayerAlreadyFinished, Message: "Player is already finished"}
}

func errAlreadyGuessed() *Error {
	return &Error{Code: CodeAlreadyGuessed, Message: "Word has already been guessed"}
}

// ErrGameNotFound is returned by the registry for unknown game codes.
// It lives here so the whole error taxonomy shares one type.
var ErrGameNotFound = &Error{Code: CodeGameNotFound, Message: "Game not found"}
