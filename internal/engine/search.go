package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hailam/chess88/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// Quiescence stops extending capture chains past this many plies.
const maxQuiescencePly = 32

// Limits are polled once every checkInterval nodes.
const checkInterval = 2048

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly + 1]int
	moves  [MaxPly + 1][MaxPly + 1]board.Move
}

// update makes m followed by the child's line the PV at ply.
func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for i := ply + 1; i < pv.length[ply+1]; i++ {
		pv.moves[ply][i] = pv.moves[ply+1][i]
	}
	pv.length[ply] = pv.length[ply+1]
}

// Searcher performs a fixed-depth alpha-beta search over one position.
// A Searcher owns its position and is not safe for concurrent use; only
// Stop may be called from another goroutine.
type Searcher struct {
	pos   *board.Position
	nodes uint64
	pv    PVTable

	ctx      context.Context
	deadline time.Time

	// stopFlag aborts the depth in flight. Its result must be discarded.
	stopFlag atomic.Bool
	// overBudget is set once the deadline passes; the driver reads it
	// between depths and the current depth still runs to completion.
	overBudget bool
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{ctx: context.Background()}
}

// Stop signals the search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// IsStopped returns true if the search has been stopped.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// OverBudget reports whether the soft time budget has run out.
func (s *Searcher) OverBudget() bool {
	return s.overBudget
}

// Reset prepares the searcher for a new search from pos. The position is
// copied; the caller's value is never touched. A pending Stop is kept so
// that it applies to this search; Finish clears it.
func (s *Searcher) Reset(ctx context.Context, pos *board.Position, deadline time.Time) {
	s.pos = pos.Copy()
	s.nodes = 0
	s.ctx = ctx
	s.deadline = deadline
	s.overBudget = false
}

// Finish clears the stop request once a search has returned.
func (s *Searcher) Finish() {
	s.stopFlag.Store(false)
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// SearchDepth runs one full-width search to depth and returns the best
// root move with its score. NoMove is returned for terminal positions.
func (s *Searcher) SearchDepth(depth int) (board.Move, int) {
	s.pv.length[0] = 0
	score := s.negamax(depth, 0, -Infinity, Infinity)

	if s.pv.length[0] == 0 {
		return board.NoMove, score
	}
	return s.pv.moves[0][0], score
}

// checkLimits polls the context and the clock.
func (s *Searcher) checkLimits() {
	if s.ctx.Err() != nil {
		s.stopFlag.Store(true)
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.overBudget = true
	}
}

// negamax searches the position to depth and returns its score from the
// side to move's point of view. Moves are tried in generation order.
func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	s.pv.length[ply] = ply

	if depth <= 0 || ply >= MaxPly {
		return s.quiescence(ply, 0, alpha, beta)
	}

	s.nodes++
	if s.nodes%checkInterval == 0 {
		s.checkLimits()
	}
	if s.stopFlag.Load() {
		return 0
	}

	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if s.pos.InCheck() {
			// Prefer the shortest mate.
			return -MateScore + ply
		}
		return 0
	}

	best := -Infinity
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)

		undo := s.pos.Apply(move)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.pos.Unapply(move, undo)

		if s.stopFlag.Load() {
			return 0
		}

		if score > best {
			best = score
			if score > alpha {
				alpha = score
				s.pv.update(ply, move)
			}
		}

		if alpha >= beta {
			break
		}
	}

	return best
}

// quiescence extends the search along captures only, starting from the
// static evaluation as a lower bound.
func (s *Searcher) quiescence(ply, qPly int, alpha, beta int) int {
	s.pv.length[ply] = ply

	if ply >= MaxPly || qPly > maxQuiescencePly {
		return Evaluate(s.pos)
	}

	s.nodes++
	if s.nodes%checkInterval == 0 {
		s.checkLimits()
	}
	if s.stopFlag.Load() {
		return 0
	}

	// Stand pat
	standPat := Evaluate(s.pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	best := standPat
	moves := s.pos.GenerateCaptures()
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)

		undo := s.pos.Apply(move)
		score := -s.quiescence(ply+1, qPly+1, -beta, -alpha)
		s.pos.Unapply(move, undo)

		if s.stopFlag.Load() {
			return 0
		}

		if score > best {
			best = score
			if score > alpha {
				alpha = score
			}
		}

		if alpha >= beta {
			break
		}
	}

	return best
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
