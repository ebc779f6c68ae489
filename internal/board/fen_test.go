package board

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFENStartPosition(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	require.NoError(t, err)

	assert.Equal(t, White, pos.SideToMove)
	assert.Equal(t, AllCastling, pos.CastlingRights)
	assert.Equal(t, NoSquare, pos.EnPassant)
	assert.Equal(t, 0, pos.HalfMoveClock)
	assert.Equal(t, 1, pos.FullMoveNumber)
	assert.Equal(t, E1, pos.KingSquare[White])
	assert.Equal(t, E8, pos.KingSquare[Black])
	assert.Equal(t, WhiteQueen, pos.PieceAt(D1))
	assert.Equal(t, BlackKnight, pos.PieceAt(G8))
	assert.Equal(t, 8, pos.Count(BlackPawn))
	assert.Equal(t, pos.ComputeHash(), pos.Hash)

	for sq := Square(0); sq < BoardSize; sq++ {
		if !sq.OnBoard() {
			assert.Equal(t, NoPiece, pos.Board[sq], "padding slot %#x", uint8(sq))
		}
	}
}

func TestParseFENOptionalClocks(t *testing.T) {
	_, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 b -")
	require.Error(t, err, "three fields")

	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 b - -")
	require.NoError(t, err)
	assert.Equal(t, 0, pos.HalfMoveClock)
	assert.Equal(t, 1, pos.FullMoveNumber)
	assert.Equal(t, "4k3/8/8/8/8/8/8/4K3 b - - 0 1", pos.ToFEN())
}

func TestFENRoundTrip(t *testing.T) {
	fens := append([]string{
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"4k3/8/8/8/8/8/8/4K3 w - - 99 150",
	}, moveKindFENs...)

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		require.NoError(t, err, fen)
		assert.Equal(t, fen, pos.ToFEN())

		again, err := ParseFEN(pos.ToFEN())
		require.NoError(t, err)
		assert.Equal(t, *pos, *again)
	}
}

// Every position reached from the start serializes back to itself.
func TestFENRoundTripAlongGame(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6", "b1c3", "a7a6", "f1e2", "e7e5", "d4b3", "f8e7", "e1g1", "e8g8"} {
		m, err := pos.ParseMove(s)
		require.NoError(t, err, s)
		pos.Apply(m)

		again, err := ParseFEN(pos.ToFEN())
		require.NoError(t, err, pos.ToFEN())
		assert.Equal(t, *pos, *again, "after %s", s)
	}
	assert.Equal(t, "rnbq1rk1/1p2bppp/p2p1n2/4p3/4P3/1NN5/PPP1BPPP/R1BQ1RK1 w - - 4 9", pos.ToFEN())
}

func TestParseFENSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		field FENField
	}{
		{"empty", "", FieldCount},
		{"too many fields", StartFEN + " extra", FieldCount},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"long rank", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"overfull rank", "rnbqkbnrp/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"bad piece", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1", FieldPlacement},
		{"two white kings", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBKKBNR w - - 0 1", FieldPlacement},
		{"side", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", FieldSideToMove},
		{"castling letter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkx - 0 1", FieldCastling},
		{"castling duplicate", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KK - 0 1", FieldCastling},
		{"ep square", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1", FieldEnPassant},
		{"halfmove", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1", FieldHalfMoveClock},
		{"negative halfmove", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1", FieldHalfMoveClock},
		{"fullmove zero", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0", FieldFullMoveNumber},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			assert.Nil(t, pos)

			var fe *FENError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.field, fe.Field, err.Error())
		})
	}
}

func TestParseFENStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		fields []FENField
	}{
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1", []FENField{FieldPlacement}},
		{"no kings", "8/8/8/8/8/8/8/8 w - - 0 1", []FENField{FieldPlacement, FieldPlacement}},
		{"pawn on back rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1", []FENField{FieldPlacement}},
		{"castling without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1", []FENField{FieldCastling}},
		{"castling with moved king", "r3k2r/8/8/8/8/8/8/R2K3R w Qk - 0 1", []FENField{FieldCastling}},
		{"ep wrong rank", "4k3/8/8/8/3pP3/8/8/4K3 b - e4 0 1", []FENField{FieldEnPassant}},
		{"ep without pawn", "4k3/8/8/8/8/8/8/4K3 b - e3 0 1", []FENField{FieldEnPassant}},
		{"opponent in check", "4k3/8/8/8/8/8/8/4RK2 w - - 0 1", []FENField{FieldSideToMove}},
		{"several problems", "P3k3/8/8/8/8/8/8/8 w Kq - 0 1", []FENField{FieldPlacement, FieldPlacement, FieldCastling, FieldCastling}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			assert.Nil(t, pos)

			var merr *multierror.Error
			require.ErrorAs(t, err, &merr)

			var fields []FENField
			for _, e := range merr.Errors {
				fe, ok := e.(*FENError)
				require.True(t, ok, "%T", e)
				fields = append(fields, fe.Field)
			}
			assert.ElementsMatch(t, tc.fields, fields)
		})
	}
}

func TestFENErrorMessage(t *testing.T) {
	_, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "side to move")
	assert.Contains(t, err.Error(), `"x"`)
}
