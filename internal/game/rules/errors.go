package rules

import (
	"errors"
	"fmt"

	"github.com/thraizz/realms-server-go/internal/game/resources"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

// Code classifies a rejected action. Every rejection is recoverable.
type Code string

const (
	CodeNone                  Code = ""
	CodeIllegalPhaseAction    Code = "ILLEGAL_PHASE_ACTION"
	CodeNotPlayerTurn         Code = "NOT_PLAYER_TURN"
	CodeCardNotFound          Code = "CARD_NOT_FOUND"
	CodeZoneFull              Code = "ZONE_FULL"
	CodeInsufficientResources Code = "INSUFFICIENT_RESOURCES"
	CodeInsufficientCards     Code = "INSUFFICIENT_CARDS"
	CodeInvalidOption         Code = "INVALID_OPTION"
)

// Error is a rejection carrying its classification.
type Error struct {
	Code    Code
	Message string
}

// NewError creates a rules error.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *Error with the same code, so callers can write
// errors.Is(err, &rules.Error{Code: rules.CodeZoneFull}).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// CodeOf classifies any error returned by the core. Zone and resource
// sentinels map onto their codes; unknown errors are reported as invalid
// options.
func CodeOf(err error) Code {
	if err == nil {
		return CodeNone
	}
	var rulesErr *Error
	if errors.As(err, &rulesErr) {
		return rulesErr.Code
	}
	switch {
	case errors.Is(err, zone.ErrCardNotFound):
		return CodeCardNotFound
	case errors.Is(err, zone.ErrInsufficientCards):
		return CodeInsufficientCards
	case errors.Is(err, zone.ErrZoneFull):
		return CodeZoneFull
	case errors.Is(err, resources.ErrInsufficientGold):
		return CodeInsufficientResources
	default:
		return CodeInvalidOption
	}
}
