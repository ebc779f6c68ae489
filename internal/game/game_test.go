package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chess88/internal/board"
)

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, s := range moves {
		_, err := g.Play(s)
		require.NoError(t, err, "move %s", s)
	}
}

func TestPlayUndoRedo(t *testing.T) {
	g := New()
	start := *g.Position()

	play(t, g, "e2e4", "e7e5", "g1f3")
	afterThree := *g.Position()
	assert.Len(t, g.Moves(), 3)

	m, err := g.Undo()
	require.NoError(t, err)
	assert.Equal(t, "g1f3", m.String())
	m, err = g.Undo()
	require.NoError(t, err)
	assert.Equal(t, "e7e5", m.String())
	assert.True(t, g.CanRedo())

	m, err = g.Redo()
	require.NoError(t, err)
	assert.Equal(t, "e7e5", m.String())
	_, err = g.Redo()
	require.NoError(t, err)
	assert.Equal(t, afterThree, *g.Position())

	for g.CanUndo() {
		_, err := g.Undo()
		require.NoError(t, err)
	}
	assert.Equal(t, start, *g.Position())

	_, err = g.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestPlayClearsRedo(t *testing.T) {
	g := New()
	play(t, g, "e2e4")
	_, err := g.Undo()
	require.NoError(t, err)

	play(t, g, "d2d4")
	assert.False(t, g.CanRedo())
	_, err = g.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

func TestPlayRejectsIllegalMove(t *testing.T) {
	g := New()
	before := *g.Position()

	_, err := g.Play("e2e5")
	var ime *board.IllegalMoveError
	require.ErrorAs(t, err, &ime)
	assert.Equal(t, board.ReasonUnreachable, ime.Reason)
	assert.Equal(t, before, *g.Position())
	assert.Empty(t, g.Moves())

	err = g.PlayMove(board.Move{From: board.E2, To: board.E5, Piece: board.WhitePawn})
	assert.Error(t, err)
}

func TestPositionIsACopy(t *testing.T) {
	g := New()
	pos := g.Position()
	m, err := pos.ParseMove("e2e4")
	require.NoError(t, err)
	pos.Apply(m)

	assert.Equal(t, board.StartFEN, g.Position().ToFEN())
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		moves   []string
		status  Status
		outcome string
	}{
		{"start", board.StartFEN, nil, Ongoing, "*"},
		{"fool's mate", board.StartFEN, []string{"f2f3", "e7e5", "g2g4", "d8h4"}, Checkmate, "0-1"},
		{"scholar's mate", board.StartFEN, []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"}, Checkmate, "1-0"},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", nil, Stalemate, "1/2-1/2"},
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", nil, InsufficientMaterial, "1/2-1/2"},
		{"king takes last piece", "8/8/8/3k4/8/8/4r3/4K3 w - - 0 1", []string{"e1e2"}, InsufficientMaterial, "1/2-1/2"},
		{"fifty moves", "4k3/8/8/8/8/8/8/R3K3 w - - 99 80", []string{"a1a2"}, FiftyMoveRule, "1/2-1/2"},
		{"threefold", board.StartFEN, []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}, ThreefoldRepetition, "1/2-1/2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := FromFEN(tc.fen)
			require.NoError(t, err)
			play(t, g, tc.moves...)

			assert.Equal(t, tc.status, g.Status())
			assert.Equal(t, tc.status.IsOver(), tc.status != Ongoing)
			assert.Equal(t, tc.outcome, g.Outcome())
		})
	}
}

func TestRepetitionsResetByPawnMove(t *testing.T) {
	g := New()
	play(t, g, "g1f3", "g8f6", "f3g1", "f6g8")
	assert.Equal(t, 2, g.Repetitions())

	// Only positions after the last pawn move count.
	play(t, g, "e2e4", "e7e5", "g1f3", "g8f6", "f3g1", "f6g8")
	assert.Equal(t, 2, g.Repetitions())
	assert.Equal(t, Ongoing, g.Status())
}

func TestThreefoldCountsPositionAfterDoublePush(t *testing.T) {
	// No white pawn can take on e6, so the position after 1...e5 is the
	// one reached again after each knight cycle.
	g := New()
	play(t, g, "e2e4", "e7e5")
	play(t, g, "g1f3", "g8f6", "f3g1", "f6g8")
	assert.Equal(t, 2, g.Repetitions())
	assert.Equal(t, Ongoing, g.Status())

	play(t, g, "g1f3", "g8f6", "f3g1", "f6g8")
	assert.Equal(t, 3, g.Repetitions())
	assert.Equal(t, ThreefoldRepetition, g.Status())
	assert.Equal(t, "1/2-1/2", g.Outcome())
}

func TestPGN(t *testing.T) {
	g := New()
	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	pgn, err := g.PGN(map[string]string{"Event": "Test", "White": "a", "Black": "b"})
	require.NoError(t, err)

	assert.Contains(t, pgn, `[Event "Test"]`)
	assert.Contains(t, pgn, `[Result "0-1"]`)
	assert.Regexp(t, `1\.\s*f3\s+e5\s+2\.\s*g4\s+Qh4#`, pgn)

	// Caller tags come out in name order.
	black, event, white := strings.Index(pgn, `[Black "b"]`), strings.Index(pgn, `[Event "Test"]`), strings.Index(pgn, `[White "a"]`)
	require.True(t, black >= 0 && event >= 0 && white >= 0, pgn)
	assert.Less(t, black, event)
	assert.Less(t, event, white)
}

func TestPGNFromPosition(t *testing.T) {
	g, err := FromFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	play(t, g, "e2e4", "e8d7")

	pgn, err := g.PGN(nil)
	require.NoError(t, err)
	assert.Contains(t, pgn, `[FEN "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"]`)
	assert.Contains(t, pgn, "e4")
	assert.Contains(t, pgn, "Kd7")
}

func TestRecordRoundTrip(t *testing.T) {
	g := New()
	play(t, g, "e2e4", "c7c5", "g1f3")

	rec := g.Record("sicilian")
	assert.Equal(t, "sicilian", rec.Name)
	assert.Equal(t, []string{"e2e4", "c7c5", "g1f3"}, rec.Moves)
	assert.Equal(t, "*", rec.Result)
	assert.False(t, rec.SavedAt.IsZero())

	again, err := FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, *g.Position(), *again.Position())
	assert.Equal(t, g.Moves(), again.Moves())

	rec.Moves = append(rec.Moves, "e1e3")
	_, err = FromRecord(rec)
	assert.Error(t, err)
}
