package engine

import (
	"time"

	"github.com/hailam/chess88/internal/board"
)

// ClockLimits contains clock-based time control parameters.
type ClockLimits struct {
	Time      [2]time.Duration // remaining time for each color
	Inc       [2]time.Duration // increment per move
	MovesToGo int              // moves until next time control (0 = sudden death)
}

// minMoveTime is the smallest budget ever handed to the search.
const minMoveTime = 10 * time.Millisecond

// AllocateMoveTime turns a game clock into a budget for one search.
// ply is the current game ply (half-move number).
//
// The search budget is soft: the depth in flight finishes after the
// budget is spent, and a depth costs several times the previous one. Only
// a fraction of the per-move share is therefore handed out.
func AllocateMoveTime(c ClockLimits, us board.Color, ply int) time.Duration {
	timeLeft := c.Time[us]
	inc := c.Inc[us]
	if timeLeft <= 0 {
		if inc > 0 {
			return inc / 2
		}
		return 0
	}

	// Estimate moves to go
	mtg := c.MovesToGo
	if mtg == 0 {
		// Sudden death: fewer moves expected as the game goes on
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
	}

	// Base time per move, plus most of the increment
	budget := timeLeft/time.Duration(mtg) + inc*3/4

	// Leave room for the overrun of the last depth
	budget /= 3

	// Never more than a tenth of what is left
	if ceiling := timeLeft / 10; budget > ceiling {
		budget = ceiling
	}
	if budget < minMoveTime {
		budget = minMoveTime
	}
	return budget
}
