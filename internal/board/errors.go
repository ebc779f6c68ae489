package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// FENField names one of the six fields of a position descriptor.
type FENField int

const (
	FieldPlacement FENField = iota
	FieldSideToMove
	FieldCastling
	FieldEnPassant
	FieldHalfMoveClock
	FieldFullMoveNumber
	FieldCount // the descriptor as a whole (wrong number of fields)
)

func (f FENField) String() string {
	switch f {
	case FieldPlacement:
		return "piece placement"
	case FieldSideToMove:
		return "side to move"
	case FieldCastling:
		return "castling availability"
	case FieldEnPassant:
		return "en passant target"
	case FieldHalfMoveClock:
		return "halfmove clock"
	case FieldFullMoveNumber:
		return "fullmove number"
	default:
		return "field count"
	}
}

// FENError reports which descriptor field could not be accepted.
type FENError struct {
	Field FENField
	Value string
	Err   error
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid FEN %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FENError) Unwrap() error {
	return e.Err
}

func fenError(field FENField, value, format string, args ...interface{}) *FENError {
	return &FENError{Field: field, Value: value, Err: errors.Errorf(format, args...)}
}

// ErrBadNotation is wrapped by every coordinate-notation parse failure.
var ErrBadNotation = errors.New("malformed move notation")

// IllegalReason says which constraint rejected a well-formed move.
type IllegalReason int

const (
	ReasonEmptyOrigin IllegalReason = iota
	ReasonWrongSide
	ReasonUnreachable
	ReasonSelfCheck
	ReasonMissingPromotion
)

func (r IllegalReason) String() string {
	switch r {
	case ReasonEmptyOrigin:
		return "no piece on origin square"
	case ReasonWrongSide:
		return "piece belongs to the side not on move"
	case ReasonUnreachable:
		return "destination not reachable"
	case ReasonSelfCheck:
		return "move leaves own king in check"
	case ReasonMissingPromotion:
		return "promotion piece required"
	default:
		return "illegal"
	}
}

// IllegalMoveError is returned for well-formed notation that is not a legal move.
type IllegalMoveError struct {
	Notation string
	Reason   IllegalReason
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Notation, e.Reason)
}
