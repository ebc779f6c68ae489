package board

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	pos := NewPosition()

	m, err := pos.ParseMove("e2e4")
	require.NoError(t, err)
	assert.Equal(t, Move{From: E2, To: E4, Piece: WhitePawn, Flags: FlagDoublePush}, m)

	m, err = pos.ParseMove("g1f3")
	require.NoError(t, err)
	assert.Equal(t, WhiteKnight, m.Piece)
	assert.True(t, m.IsQuiet())
}

func TestParseMoveMalformed(t *testing.T) {
	pos := NewPosition()
	before := *pos

	for _, s := range []string{"", "e2", "e2e", "e2e4e5", "i2i4", "e0e4", "e7e8x", "E2E4"} {
		_, err := pos.ParseMove(s)
		assert.True(t, errors.Is(err, ErrBadNotation), "%q: %v", s, err)
	}
	assert.Equal(t, before, *pos)
}

func TestParseMoveIllegal(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		move   string
		reason IllegalReason
	}{
		{"empty origin", StartFEN, "e3e4", ReasonEmptyOrigin},
		{"wrong side", StartFEN, "e7e5", ReasonWrongSide},
		{"unreachable", StartFEN, "e2e5", ReasonUnreachable},
		{"blocked slider", StartFEN, "a1a3", ReasonUnreachable},
		{"pinned piece", "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", "e2d3", ReasonSelfCheck},
		{"king into check", "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1", "e1e2", ReasonSelfCheck},
		{"missing promotion", "7k/P7/8/8/8/8/8/K7 w - - 0 1", "a7a8", ReasonMissingPromotion},
		{"promotion on quiet move", StartFEN, "e2e4q", ReasonUnreachable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			require.NoError(t, err)
			before := *pos

			m, err := pos.ParseMove(tc.move)
			assert.Equal(t, NoMove, m)

			var ime *IllegalMoveError
			require.ErrorAs(t, err, &ime)
			assert.Equal(t, tc.reason, ime.Reason)
			assert.Equal(t, tc.move, ime.Notation)
			assert.Equal(t, before, *pos, "rejected move mutated the position")
		})
	}
}

func TestParseMovePromotionLetters(t *testing.T) {
	pos, err := ParseFEN("7k/P7/8/8/8/8/8/K7 w - - 0 1")
	require.NoError(t, err)

	for s, want := range map[string]PieceType{"a7a8q": Queen, "a7a8R": Rook, "a7a8b": Bishop, "a7a8n": Knight} {
		m, err := pos.ParseMove(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, m.Promotion)
		assert.True(t, m.IsPromotion())
	}
}

func TestMoveString(t *testing.T) {
	assert.Equal(t, "0000", NoMove.String())
	assert.Equal(t, "e7e8q", Move{From: E7, To: E8, Piece: WhitePawn, Promotion: Queen, Flags: FlagPromotion}.String())
	assert.Equal(t, "e1g1", Move{From: E1, To: G1, Piece: WhiteKing, Flags: FlagCastleKingSide}.String())
}
