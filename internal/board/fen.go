package board

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
// The halfmove and fullmove fields may be omitted (defaults 0 and 1).
// Syntax errors stop at the first bad field; structural problems are
// collected and returned together. Every reported error is a *FENError.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, fenError(FieldCount, fen, "need 4 to 6 fields, got %d", len(parts))
	}

	pos := &Position{}
	pos.Clear()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fenError(FieldSideToMove, parts[1], "must be w or b")
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, &FENError{Field: FieldEnPassant, Value: parts[3], Err: err}
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, &FENError{Field: FieldHalfMoveClock, Value: parts[4], Err: errors.New("not a non-negative integer")}
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, &FENError{Field: FieldFullMoveNumber, Value: parts[5], Err: errors.New("not a positive integer")}
		}
		pos.FullMoveNumber = fmn
	}

	if err := pos.Validate(); err != nil {
		return nil, err
	}

	pos.Hash = pos.ComputeHash()
	return pos, nil
}

// MustParseFEN is ParseFEN for known-good literals; it panics on error.
func MustParseFEN(fen string) *Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fenError(FieldPlacement, placement, "need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return fenError(FieldPlacement, placement, "too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fenError(FieldPlacement, placement, "invalid piece character %q", c)
			}
			sq := NewSquare(file, rank)
			if piece.Type() == King && pos.KingSquare[piece.Color()] != NoSquare {
				return fenError(FieldPlacement, placement, "more than one %v king", piece.Color())
			}
			pos.setPiece(piece, sq)
			file++
		}

		if file != 8 {
			return fenError(FieldPlacement, placement, "rank %d has %d squares, want 8", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for i := 0; i < len(castling); i++ {
		var right CastlingRights
		switch castling[i] {
		case 'K':
			right = WhiteKingSideCastle
		case 'Q':
			right = WhiteQueenSideCastle
		case 'k':
			right = BlackKingSideCastle
		case 'q':
			right = BlackQueenSideCastle
		default:
			return fenError(FieldCastling, castling, "invalid castling character %q", castling[i])
		}
		if pos.CastlingRights&right != 0 {
			return fenError(FieldCastling, castling, "duplicate castling character %q", castling[i])
		}
		pos.CastlingRights |= right
	}

	return nil
}

// Validate checks the structural invariants of a position and reports
// every violation it finds.
func (p *Position) Validate() error {
	var result *multierror.Error
	placement := p.placementString()

	for c := White; c <= Black; c++ {
		if p.KingSquare[c] == NoSquare {
			result = multierror.Append(result, fenError(FieldPlacement, placement, "%v must have exactly one king", c))
		}
	}

	for file := 0; file < 8; file++ {
		for _, rank := range [2]int{0, 7} {
			if p.Board[NewSquare(file, rank)].Type() == Pawn {
				result = multierror.Append(result, fenError(FieldPlacement, placement, "pawn on rank %d", rank+1))
			}
		}
	}

	for _, cr := range []struct {
		right CastlingRights
		king  Square
		rook  Square
		color Color
	}{
		{WhiteKingSideCastle, E1, H1, White},
		{WhiteQueenSideCastle, E1, A1, White},
		{BlackKingSideCastle, E8, H8, Black},
		{BlackQueenSideCastle, E8, A8, Black},
	} {
		if p.CastlingRights&cr.right == 0 {
			continue
		}
		if p.Board[cr.king] != NewPiece(King, cr.color) || p.Board[cr.rook] != NewPiece(Rook, cr.color) {
			result = multierror.Append(result, fenError(FieldCastling, p.CastlingRights.String(),
				"%s needs king on %v and rook on %v", cr.right, cr.king, cr.rook))
		}
	}

	if p.EnPassant != NoSquare {
		if err := p.validateEnPassant(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if result == nil && p.IsKingAttacked(p.SideToMove.Other()) {
		result = multierror.Append(result, fenError(FieldSideToMove, p.SideToMove.String(),
			"%v king is in check but it is %v's move", p.SideToMove.Other(), p.SideToMove))
	}

	return result.ErrorOrNil()
}

// validateEnPassant checks that the target sits behind a pawn that could
// just have made a double push.
func (p *Position) validateEnPassant() error {
	ep := p.EnPassant
	mover := p.SideToMove.Other()
	if ep.RelativeRank(mover) != 2 {
		return fenError(FieldEnPassant, ep.String(), "target must be on rank %d", map[Color]int{White: 3, Black: 6}[mover])
	}
	if p.Board[ep] != NoPiece {
		return fenError(FieldEnPassant, ep.String(), "target square is occupied")
	}
	if p.Board[ep.Offset(pawnPush(mover))] != NewPiece(Pawn, mover) {
		return fenError(FieldEnPassant, ep.String(), "no %v pawn in front of target", mover)
	}
	return nil
}

// placementString encodes the piece placement field.
func (p *Position) placementString() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	sb.WriteString(p.placementString())

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
