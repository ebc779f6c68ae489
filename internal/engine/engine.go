package engine

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hailam/chess88/internal/board"
)

// ErrNoLimit is returned when a search is started without any bound.
var ErrNoLimit = errors.New("engine: search needs a depth or a move time")

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// SearchLimits specifies constraints on the search. At least one must be
// set; with both, whichever triggers first ends the search.
type SearchLimits struct {
	Depth    int           // Maximum depth in plies (0 = no limit)
	MoveTime time.Duration // Soft time budget (0 = no limit)
}

// Result is the outcome of a search: the best move of the deepest
// completed iteration.
type Result struct {
	Move    board.Move // NoMove when the side to move has no legal move
	Score   int        // From the side to move's point of view
	Depth   int        // Last fully completed depth
	Nodes   uint64
	Elapsed time.Duration
	PV      []board.Move
	Stopped bool // Cancelled before the requested bound was reached
}

// HasMove reports whether the search produced a move to play.
func (r Result) HasMove() bool {
	return r.Move != board.NoMove
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 3 ply, 500ms
	Medium                   // 5 ply, 2s
	Hard                     // 7 ply, 5s
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 5, MoveTime: 2 * time.Second},
	Hard:   {Depth: 7, MoveTime: 5 * time.Second},
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses a difficulty name as printed by String.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return Medium, errors.Errorf("engine: unknown difficulty %q", s)
}

// Engine is the chess AI engine.
type Engine struct {
	searcher   *Searcher
	difficulty Difficulty
	log        zerolog.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine.
func NewEngine() *Engine {
	return &Engine{
		searcher:   NewSearcher(),
		difficulty: Medium,
		log:        zerolog.Nop(),
	}
}

// SetLogger sets the logger used for per-depth search diagnostics.
func (e *Engine) SetLogger(log zerolog.Logger) {
	e.log = log
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the engine difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// SearchDifficulty searches with the limits of the current difficulty.
func (e *Engine) SearchDifficulty(ctx context.Context, pos *board.Position) (Result, error) {
	return e.Search(ctx, pos, DifficultySettings[e.difficulty])
}

// Search finds the best move for pos by iterative deepening. pos is not
// modified.
//
// The time budget is soft: it is polled every few thousand nodes and,
// once spent, no new depth is started, but the depth in flight runs to
// completion. Cancelling ctx (or calling Stop) aborts the depth in flight
// and returns the result of the last completed depth.
func (e *Engine) Search(ctx context.Context, pos *board.Position, limits SearchLimits) (Result, error) {
	if limits.Depth < 0 || limits.MoveTime < 0 {
		return Result{}, errors.Errorf("engine: negative search limit %+v", limits)
	}
	if limits.Depth == 0 && limits.MoveTime == 0 {
		return Result{}, ErrNoLimit
	}

	startTime := time.Now()

	// Determine maximum depth
	maxDepth := MaxPly
	if limits.Depth > 0 && limits.Depth < MaxPly {
		maxDepth = limits.Depth
	}

	// Determine deadline
	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	e.searcher.Reset(ctx, pos, deadline)
	defer e.searcher.Finish()
	e.searcher.checkLimits()

	result := Result{}
	rootMoves := pos.GenerateLegalMoves()
	if rootMoves.Len() == 0 {
		if pos.InCheck() {
			result.Score = -MateScore
		}
		e.log.Debug().Str("fen", pos.ToFEN()).Int("score", result.Score).Msg("no legal moves")
		return result, nil
	}

	// Iterative deepening
	for depth := 1; depth <= maxDepth; depth++ {
		move, score := e.searcher.SearchDepth(depth)

		// A cancelled depth is incomplete; keep the previous one.
		if e.searcher.IsStopped() {
			result.Stopped = true
			break
		}

		result.Move = move
		result.Score = score
		result.Depth = depth
		result.PV = e.searcher.GetPV()

		elapsed := time.Since(startTime)
		e.log.Debug().
			Int("depth", depth).
			Int("score", score).
			Uint64("nodes", e.searcher.Nodes()).
			Dur("elapsed", elapsed).
			Str("pv", pvString(result.PV)).
			Msg("depth complete")

		// Report info
		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Score: score,
				Nodes: e.searcher.Nodes(),
				Time:  elapsed,
				PV:    result.PV,
			})
		}

		// A mate within the horizon will not change with more depth.
		if IsMateScore(score) {
			break
		}

		// Check time after iteration
		if e.searcher.OverBudget() || (!deadline.IsZero() && time.Now().After(deadline)) {
			break
		}
	}

	// Cancelled before depth 1 finished: still answer with a legal move.
	if result.Move == board.NoMove {
		result.Move = rootMoves.Get(0)
		result.PV = []board.Move{result.Move}
	}

	result.Nodes = e.searcher.Nodes()
	result.Elapsed = time.Since(startTime)

	e.log.Info().
		Str("move", result.Move.String()).
		Int("depth", result.Depth).
		Str("score", ScoreToString(result.Score)).
		Uint64("nodes", result.Nodes).
		Dur("elapsed", result.Elapsed).
		Bool("stopped", result.Stopped).
		Msg("search finished")

	return result, nil
}

// Stop stops the current search. Called while no search is running, it
// stops the next one as soon as it starts.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return pos.Perft(depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// MateDistance returns the number of full moves to mate encoded in score,
// positive when the side to move mates and negative (or zero, already
// mated) when it is mated. ok is false for scores that are not mates.
func MateDistance(score int) (moves int, ok bool) {
	switch {
	case score > MateScore-MaxPly:
		return (MateScore - score + 1) / 2, true
	case score < -MateScore+MaxPly:
		return -(MateScore + score + 1) / 2, true
	default:
		return 0, false
	}
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if n, ok := MateDistance(score); ok {
		if score > 0 {
			return "Mate in " + strconv.Itoa(n)
		}
		return "Mated in " + strconv.Itoa(-n)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
	}
	score = abs(score)

	return sign + strconv.Itoa(score/100) + "." + strconv.Itoa(score%100/10) + strconv.Itoa(score%10)
}

// pvString joins a principal variation in coordinate notation.
func pvString(pv []board.Move) string {
	parts := make([]string, len(pv))
	for i, m := range pv {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
