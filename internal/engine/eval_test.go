package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hailam/chess88/internal/board"
)

func TestEvaluateStartIsBalanced(t *testing.T) {
	pos := board.NewPosition()
	assert.Zero(t, Material(pos))
	assert.Zero(t, Evaluate(pos))
}

func TestMaterialValues(t *testing.T) {
	tests := []struct {
		fen  string
		want int
	}{
		{"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", PawnValue},
		{"4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", KnightValue},
		{"4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", BishopValue},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", RookValue},
		{"4k3/8/8/8/8/8/8/3QK3 w - - 0 1", QueenValue},
		{"3qk3/8/8/8/8/8/8/R3K3 w - - 0 1", RookValue - QueenValue},
	}
	for _, tc := range tests {
		pos := mustFEN(t, tc.fen)
		assert.Equal(t, tc.want, Material(pos), tc.fen)
	}
	assert.Zero(t, PieceValue(board.King))
	assert.Zero(t, PieceValue(board.NoPieceType))
}

func TestEvaluateSideRelative(t *testing.T) {
	white := mustFEN(t, "3qk3/8/8/8/8/8/8/R3K3 w - - 0 1")
	black := mustFEN(t, "3qk3/8/8/8/8/8/8/R3K3 b - - 0 1")

	assert.Equal(t, RookValue-QueenValue, Evaluate(white))
	assert.Equal(t, -Evaluate(white), Evaluate(black))
}

func TestEvaluateMirrorAntisymmetry(t *testing.T) {
	for _, fen := range []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"3qk3/8/8/8/8/8/8/R3K3 w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	} {
		pos := mustFEN(t, fen)
		mirror := pos.Mirror()

		// Colors swapped: the white-relative balance flips sign.
		assert.Equal(t, -Material(pos), Material(mirror), fen)
		// The mirror is the same game for the other side to move.
		assert.Equal(t, Evaluate(pos), Evaluate(mirror), fen)
	}
}
