package board

// Step offsets in 0x88 index space. One rank is 16 slots.
var (
	knightDeltas = [8]int{33, 31, 18, 14, -33, -31, -18, -14}
	kingDeltas   = [8]int{16, 1, -16, -1, 17, 15, -15, -17}
	rookDeltas   = [4]int{16, 1, -16, -1}
	bishopDeltas = [4]int{17, 15, -17, -15}
)

// pawnPush is the single-step direction for a pawn of the given color.
func pawnPush(c Color) int {
	if c == White {
		return 16
	}
	return -16
}

// pawnCaptureDeltas are the diagonal capture directions for a color.
func pawnCaptureDeltas(c Color) [2]int {
	if c == White {
		return [2]int{15, 17}
	}
	return [2]int{-15, -17}
}

// leaperHits reports whether any square one delta away from sq holds piece.
func (p *Position) leaperHits(sq Square, deltas []int, piece Piece) bool {
	for _, d := range deltas {
		to := sq.Offset(d)
		if to.OnBoard() && p.Board[to] == piece {
			return true
		}
	}
	return false
}

// sliderHits walks each ray from sq and reports whether the first occupied
// square holds one of the two given pieces.
func (p *Position) sliderHits(sq Square, deltas []int, a, b Piece) bool {
	for _, d := range deltas {
		for to := sq.Offset(d); to.OnBoard(); to = to.Offset(d) {
			occupant := p.Board[to]
			if occupant == NoPiece {
				continue
			}
			if occupant == a || occupant == b {
				return true
			}
			break
		}
	}
	return false
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
// It runs the move generator's stepping rules in reverse from the target,
// independent of whose turn it is.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	if !sq.OnBoard() {
		return false
	}

	// A pawn of color by attacks sq if it sits one capture step behind it.
	for _, d := range pawnCaptureDeltas(by) {
		from := sq.Offset(-d)
		if from.OnBoard() && p.Board[from] == NewPiece(Pawn, by) {
			return true
		}
	}

	if p.leaperHits(sq, knightDeltas[:], NewPiece(Knight, by)) {
		return true
	}
	if p.leaperHits(sq, kingDeltas[:], NewPiece(King, by)) {
		return true
	}

	queen := NewPiece(Queen, by)
	if p.sliderHits(sq, rookDeltas[:], NewPiece(Rook, by), queen) {
		return true
	}
	return p.sliderHits(sq, bishopDeltas[:], NewPiece(Bishop, by), queen)
}

// IsKingAttacked reports whether the king of color c is attacked.
func (p *Position) IsKingAttacked(c Color) bool {
	return p.IsSquareAttacked(p.KingSquare[c], c.Other())
}
