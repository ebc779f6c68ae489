package board

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	p.assertKings()
	ml := NewMoveList()
	p.generateMoves(ml, false)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateMoves(ml, false)
	return ml
}

// GenerateCaptures generates all legal capture moves, en passant and
// capturing promotions included.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generateMoves(ml, true)
	return p.filterLegalMoves(ml)
}

// generateMoves appends pseudo-legal moves for the side to move.
// With capturesOnly set, quiet moves, quiet promotions and castling are skipped.
func (p *Position) generateMoves(ml *MoveList, capturesOnly bool) {
	us := p.SideToMove

	for _, from := range AllSquares {
		piece := p.Board[from]
		if piece == NoPiece || piece.Color() != us {
			continue
		}

		switch piece.Type() {
		case Pawn:
			p.generatePawnMoves(ml, from, piece, capturesOnly)
		case Knight:
			p.generateLeaperMoves(ml, from, piece, knightDeltas[:], capturesOnly)
		case Bishop:
			p.generateSliderMoves(ml, from, piece, bishopDeltas[:], capturesOnly)
		case Rook:
			p.generateSliderMoves(ml, from, piece, rookDeltas[:], capturesOnly)
		case Queen:
			p.generateSliderMoves(ml, from, piece, rookDeltas[:], capturesOnly)
			p.generateSliderMoves(ml, from, piece, bishopDeltas[:], capturesOnly)
		case King:
			p.generateLeaperMoves(ml, from, piece, kingDeltas[:], capturesOnly)
		}
	}

	if !capturesOnly {
		p.generateCastlingMoves(ml, us)
	}
}

// generateLeaperMoves handles knights and kings: one step per delta.
func (p *Position) generateLeaperMoves(ml *MoveList, from Square, piece Piece, deltas []int, capturesOnly bool) {
	us := piece.Color()
	for _, d := range deltas {
		to := from.Offset(d)
		if !to.OnBoard() {
			continue
		}
		target := p.Board[to]
		switch {
		case target == NoPiece:
			if !capturesOnly {
				ml.Add(Move{From: from, To: to, Piece: piece})
			}
		case target.Color() != us:
			ml.Add(Move{From: from, To: to, Piece: piece, Captured: target, Flags: FlagCapture})
		}
	}
}

// generateSliderMoves walks each ray until it leaves the board or hits a piece.
func (p *Position) generateSliderMoves(ml *MoveList, from Square, piece Piece, deltas []int, capturesOnly bool) {
	us := piece.Color()
	for _, d := range deltas {
		for to := from.Offset(d); to.OnBoard(); to = to.Offset(d) {
			target := p.Board[to]
			if target == NoPiece {
				if !capturesOnly {
					ml.Add(Move{From: from, To: to, Piece: piece})
				}
				continue
			}
			if target.Color() != us {
				ml.Add(Move{From: from, To: to, Piece: piece, Captured: target, Flags: FlagCapture})
			}
			break
		}
	}
}

// generatePawnMoves generates pushes, captures, en passant and promotions
// for the pawn on from.
func (p *Position) generatePawnMoves(ml *MoveList, from Square, piece Piece, capturesOnly bool) {
	us := piece.Color()
	push := pawnPush(us)

	if !capturesOnly {
		one := from.Offset(push)
		if one.OnBoard() && p.Board[one] == NoPiece {
			if one.RelativeRank(us) == 7 {
				addPromotions(ml, Move{From: from, To: one, Piece: piece})
			} else {
				ml.Add(Move{From: from, To: one, Piece: piece})

				two := one.Offset(push)
				if from.RelativeRank(us) == 1 && p.Board[two] == NoPiece {
					ml.Add(Move{From: from, To: two, Piece: piece, Flags: FlagDoublePush})
				}
			}
		}
	}

	for _, d := range pawnCaptureDeltas(us) {
		to := from.Offset(d)
		if !to.OnBoard() {
			continue
		}

		target := p.Board[to]
		if target != NoPiece && target.Color() != us {
			m := Move{From: from, To: to, Piece: piece, Captured: target, Flags: FlagCapture}
			if to.RelativeRank(us) == 7 {
				addPromotions(ml, m)
			} else {
				ml.Add(m)
			}
			continue
		}

		if to == p.EnPassant && target == NoPiece {
			victim := p.Board[to.Offset(-push)]
			if victim == NewPiece(Pawn, us.Other()) {
				ml.Add(Move{From: from, To: to, Piece: piece, Captured: victim, Flags: FlagEnPassant})
			}
		}
	}
}

// addPromotions adds the four promotion variants of m.
func addPromotions(ml *MoveList, m Move) {
	m.Flags |= FlagPromotion
	for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
		m.Promotion = pt
		ml.Add(m)
	}
}

// generateCastlingMoves generates castling moves. The king may not start on,
// pass through or land on an attacked square.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	home := E1
	if us == Black {
		home = E8
	}
	king := NewPiece(King, us)
	rook := NewPiece(Rook, us)
	them := us.Other()

	if p.Board[home] != king {
		return
	}

	if p.CastlingRights.CanCastle(us, true) &&
		p.Board[home+3] == rook &&
		p.Board[home+1] == NoPiece && p.Board[home+2] == NoPiece &&
		!p.IsSquareAttacked(home, them) &&
		!p.IsSquareAttacked(home+1, them) &&
		!p.IsSquareAttacked(home+2, them) {
		ml.Add(Move{From: home, To: home + 2, Piece: king, Flags: FlagCastleKingSide})
	}

	if p.CastlingRights.CanCastle(us, false) &&
		p.Board[home-4] == rook &&
		p.Board[home-1] == NoPiece && p.Board[home-2] == NoPiece && p.Board[home-3] == NoPiece &&
		!p.IsSquareAttacked(home, them) &&
		!p.IsSquareAttacked(home-1, them) &&
		!p.IsSquareAttacked(home-2, them) {
		ml.Add(Move{From: home, To: home - 2, Piece: king, Flags: FlagCastleQueenSide})
	}
}

// filterLegalMoves keeps the moves that do not leave the mover's king attacked.
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.IsLegal(m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal applies a pseudo-legal move, tests the mover's king, and takes it back.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	undo := p.Apply(m)
	attacked := p.IsSquareAttacked(p.KingSquare[us], us.Other())
	p.Unapply(m, undo)
	return !attacked
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	var minors [2]int
	for _, sq := range AllSquares {
		piece := p.Board[sq]
		switch piece.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			minors[piece.Color()]++
		}
	}

	// K vs K, K+minor vs K
	if minors[White]+minors[Black] == 0 {
		return true
	}
	if minors[White] <= 1 && minors[Black] == 0 {
		return true
	}
	return minors[Black] <= 1 && minors[White] == 0
}
