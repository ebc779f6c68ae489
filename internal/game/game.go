// Package game tracks a game in progress: the move history with undo and
// redo, draw and mate detection, and PGN export.
package game

import (
	"time"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/hailam/chess88/internal/board"
)

var (
	ErrNothingToUndo = errors.New("game: nothing to undo")
	ErrNothingToRedo = errors.New("game: nothing to redo")
)

// Status describes whether and how a game has ended.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	FiftyMoveRule
	ThreefoldRepetition
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient material"
	case FiftyMoveRule:
		return "fifty-move rule"
	case ThreefoldRepetition:
		return "threefold repetition"
	default:
		return "ongoing"
	}
}

// IsOver reports whether the status ends the game.
func (s Status) IsOver() bool {
	return s != Ongoing
}

type ply struct {
	move board.Move
	undo board.Undo
}

// Game is a position plus the moves that led to it.
type Game struct {
	startFEN string
	pos      *board.Position
	history  []ply
	redo     []board.Move
	hashes   []uint64 // hashes[i] is the position before history[i]; last is current
}

// New starts a game from the standard position.
func New() *Game {
	g, err := FromFEN(board.StartFEN)
	if err != nil {
		panic(err)
	}
	return g
}

// FromFEN starts a game from an arbitrary position.
func FromFEN(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{
		startFEN: pos.ToFEN(),
		pos:      pos,
		hashes:   []uint64{pos.Hash},
	}, nil
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// StartFEN returns the position the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// Moves returns the moves played so far.
func (g *Game) Moves() []board.Move {
	moves := make([]board.Move, len(g.history))
	for i, p := range g.history {
		moves[i] = p.move
	}
	return moves
}

// Play resolves coordinate notation against the current position and
// plays it. Rejected input leaves the game unchanged.
func (g *Game) Play(notation string) (board.Move, error) {
	m, err := g.pos.ParseMove(notation)
	if err != nil {
		return board.NoMove, err
	}
	g.push(m)
	g.redo = g.redo[:0]
	return m, nil
}

// PlayMove plays a move produced by the generator or the engine.
func (g *Game) PlayMove(m board.Move) error {
	if !g.pos.GenerateLegalMoves().Contains(m) {
		return &board.IllegalMoveError{Notation: m.String(), Reason: board.ReasonUnreachable}
	}
	g.push(m)
	g.redo = g.redo[:0]
	return nil
}

func (g *Game) push(m board.Move) {
	undo := g.pos.Apply(m)
	g.history = append(g.history, ply{move: m, undo: undo})
	g.hashes = append(g.hashes, g.pos.Hash)
}

// Undo takes back the last move.
func (g *Game) Undo() (board.Move, error) {
	if len(g.history) == 0 {
		return board.NoMove, ErrNothingToUndo
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.hashes = g.hashes[:len(g.hashes)-1]

	g.pos.Unapply(last.move, last.undo)
	g.redo = append(g.redo, last.move)
	return last.move, nil
}

// Redo replays the most recently undone move.
func (g *Game) Redo() (board.Move, error) {
	if len(g.redo) == 0 {
		return board.NoMove, ErrNothingToRedo
	}
	m := g.redo[len(g.redo)-1]
	g.redo = g.redo[:len(g.redo)-1]
	g.push(m)
	return m, nil
}

// CanUndo reports whether there is a move to take back.
func (g *Game) CanUndo() bool { return len(g.history) > 0 }

// CanRedo reports whether there is an undone move to replay.
func (g *Game) CanRedo() bool { return len(g.redo) > 0 }

// Repetitions counts how often the current position has occurred,
// looking back only as far as the last capture or pawn move.
func (g *Game) Repetitions() int {
	current := g.pos.Hash
	oldest := len(g.hashes) - 1 - g.pos.HalfMoveClock
	if oldest < 0 {
		oldest = 0
	}

	n := 0
	for i := len(g.hashes) - 1; i >= oldest; i -= 2 {
		if g.hashes[i] == current {
			n++
		}
	}
	return n
}

// Status reports whether the game has ended.
func (g *Game) Status() Status {
	if !g.pos.HasLegalMoves() {
		if g.pos.InCheck() {
			return Checkmate
		}
		return Stalemate
	}
	switch {
	case g.pos.IsInsufficientMaterial():
		return InsufficientMaterial
	case g.pos.HalfMoveClock >= 100:
		return FiftyMoveRule
	case g.Repetitions() >= 3:
		return ThreefoldRepetition
	}
	return Ongoing
}

// Outcome returns the PGN result token.
func (g *Game) Outcome() string {
	switch g.Status() {
	case Ongoing:
		return "*"
	case Checkmate:
		if g.pos.SideToMove == board.White {
			return "0-1"
		}
		return "1-0"
	default:
		return "1/2-1/2"
	}
}

// PGN replays the game through notnil/chess and returns it as PGN with
// standard algebraic notation.
func (g *Game) PGN(tags map[string]string) (string, error) {
	opts := []func(*chess.Game){}
	if g.startFEN != board.StartFEN {
		fen, err := chess.FEN(g.startFEN)
		if err != nil {
			return "", errors.Wrap(err, "game: export start position")
		}
		opts = append(opts, fen)
	}
	cg := chess.NewGame(opts...)

	for i, p := range g.history {
		m, err := chess.UCINotation{}.Decode(cg.Position(), p.move.String())
		if err != nil {
			return "", errors.Wrapf(err, "game: export move %d %v", i+1, p.move)
		}
		if err := cg.Move(m); err != nil {
			return "", errors.Wrapf(err, "game: export move %d %v", i+1, p.move)
		}
	}

	switch g.Status() {
	case FiftyMoveRule:
		if err := cg.Draw(chess.FiftyMoveRule); err != nil {
			return "", errors.Wrap(err, "game: export fifty-move draw")
		}
	case ThreefoldRepetition:
		if err := cg.Draw(chess.ThreefoldRepetition); err != nil {
			return "", errors.Wrap(err, "game: export repetition draw")
		}
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		cg.AddTagPair(k, tags[k])
	}
	if g.startFEN != board.StartFEN {
		cg.AddTagPair("SetUp", "1")
		cg.AddTagPair("FEN", g.startFEN)
	}
	cg.AddTagPair("Result", g.Outcome())

	return cg.String(), nil
}

// Record is the storable form of a game.
type Record struct {
	Name     string    `json:"name"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"`
	Result   string    `json:"result"`
	SavedAt  time.Time `json:"saved_at"`
}

// Record captures the game under the given name.
func (g *Game) Record(name string) Record {
	moves := make([]string, len(g.history))
	for i, p := range g.history {
		moves[i] = p.move.String()
	}
	return Record{
		Name:     name,
		StartFEN: g.startFEN,
		Moves:    moves,
		Result:   g.Outcome(),
		SavedAt:  time.Now(),
	}
}

// FromRecord rebuilds a game by replaying a record's moves.
func FromRecord(rec Record) (*Game, error) {
	g, err := FromFEN(rec.StartFEN)
	if err != nil {
		return nil, errors.Wrapf(err, "game: record %q", rec.Name)
	}
	for i, s := range rec.Moves {
		if _, err := g.Play(s); err != nil {
			return nil, errors.Wrapf(err, "game: record %q move %d", rec.Name, i+1)
		}
	}
	return g, nil
}
