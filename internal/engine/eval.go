// Package engine implements the chess AI search engine.
package engine

import (
	"github.com/hailam/chess88/internal/board"
)

// Evaluation constants, in centipawns.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
)

// Piece values indexed by board.PieceType. Kings are never captured and
// count for nothing.
var pieceValues = [7]int{0, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 0}

// PieceValue returns the material value of a piece type.
func PieceValue(pt board.PieceType) int {
	if int(pt) >= len(pieceValues) {
		return 0
	}
	return pieceValues[pt]
}

// Material returns the material balance from White's point of view.
func Material(pos *board.Position) int {
	score := 0
	for _, sq := range board.AllSquares {
		piece := pos.Board[sq]
		if piece == board.NoPiece {
			continue
		}
		if piece.Color() == board.White {
			score += pieceValues[piece.Type()]
		} else {
			score -= pieceValues[piece.Type()]
		}
	}
	return score
}

// Evaluate returns the static evaluation of a position from the side to
// move's perspective.
func Evaluate(pos *board.Position) int {
	score := Material(pos)
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}
