package service

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/relaychess-backend/internal/model"
	"github.com/benbeisheim/relaychess-backend/internal/storage"
)

// Kind classifies a service failure.
type Kind string

const (
	KindAuthenticationFailed Kind = "authentication_failed"
	KindGameNotFound         Kind = "game_not_found"
	KindNotAPlayer           Kind = "not_a_player"
	KindWrongTurn            Kind = "wrong_turn"
	KindIllegalMove          Kind = "illegal_move"
	KindGameOver             Kind = "game_over"
	KindPersistence          Kind = "persistence_error"
	KindBadRequest           Kind = "bad_request"
	KindAlreadyTaken         Kind = "already_taken"
)

// Error is the service-level error. Message is safe to show to the client;
// Cause carries the underlying error for logs.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Sentinels for errors.Is checks.
var (
	ErrAuthenticationFailed = newError(KindAuthenticationFailed, "authentication failed")
	ErrGameNotFound         = newError(KindGameNotFound, "game not found")
	ErrNotAPlayer           = newError(KindNotAPlayer, "not a player in this game")
	ErrWrongTurn            = newError(KindWrongTurn, "it is not your turn")
	ErrIllegalMove          = newError(KindIllegalMove, "invalid move")
	ErrGameOver             = newError(KindGameOver, "the game is over")
	ErrPersistence          = newError(KindPersistence, "storage failure")
	ErrBadRequest           = newError(KindBadRequest, "bad request")
	ErrAlreadyTaken         = newError(KindAlreadyTaken, "already taken")
)

// KindOf returns the Kind of err, defaulting to KindPersistence for foreign errors.
// A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindPersistence
}

// Message returns the client-facing text for err.
func Message(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "internal error"
}

// fromRules maps a rules engine rejection to a service error.
func fromRules(err error) error {
	switch {
	case errors.Is(err, model.ErrGameOver):
		return wrapError(KindGameOver, "the game is over, no more moves can be made", err)
	case errors.Is(err, model.ErrWrongTurn):
		return wrapError(KindWrongTurn, "it is not your turn", err)
	case errors.Is(err, model.ErrNoPieceAtSource):
		return wrapError(KindIllegalMove, "invalid move: no piece at start position", err)
	default:
		return wrapError(KindIllegalMove, "invalid move", err)
	}
}

// fromStorage maps a storage failure on a game lookup.
func fromStorage(err error, action string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return wrapError(KindGameNotFound, "game not found", err)
	}
	return wrapError(KindPersistence, "could not "+action, err)
}
