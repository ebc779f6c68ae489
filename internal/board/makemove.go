package board

import "fmt"

// castlingMask[sq] holds the rights that survive a move touching sq.
// Moving from or capturing on a king or rook home square revokes rights.
var castlingMask = func() [BoardSize]CastlingRights {
	var mask [BoardSize]CastlingRights
	for i := range mask {
		mask[i] = AllCastling
	}
	mask[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	mask[H1] &^= WhiteKingSideCastle
	mask[A1] &^= WhiteQueenSideCastle
	mask[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
	mask[H8] &^= BlackKingSideCastle
	mask[A8] &^= BlackQueenSideCastle
	return mask
}()

// rookCastleSquares returns the rook's origin and destination for a castling move.
func rookCastleSquares(m Move) (from, to Square) {
	if m.Has(FlagCastleKingSide) {
		return m.From + 3, m.From + 1
	}
	return m.From - 4, m.From - 1
}

// capturedSquare is where the captured piece stands: the destination, or
// the square behind it for en passant.
func capturedSquare(m Move) Square {
	if m.IsEnPassant() {
		return m.To.Offset(-pawnPush(m.Piece.Color()))
	}
	return m.To
}

// Apply plays a move in place and returns what Unapply needs to reverse it.
// The move must come from this position's generator.
func (p *Position) Apply(m Move) Undo {
	us := p.SideToMove
	if p.Board[m.From] != m.Piece || m.Piece.Color() != us {
		panic(fmt.Sprintf("board: apply %v: %v on %v, %v to move", m, p.Board[m.From], m.From, us))
	}

	undo := Undo{
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Captured:       NoPiece,
		CapturedSquare: NoSquare,
	}

	// Clear en passant and castling from the hash; re-added below
	if p.epCapturable() {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare
	p.Hash ^= zobristCastling[p.CastlingRights]

	// Handle captures
	if m.IsCapture() {
		capSq := capturedSquare(m)
		undo.CapturedSquare = capSq
		undo.Captured = p.removePiece(capSq)
		p.Hash ^= zobristPiece[undo.Captured][capSq]
	}

	// Move the piece
	p.movePiece(m.From, m.To)
	p.Hash ^= zobristPiece[m.Piece][m.From] ^ zobristPiece[m.Piece][m.To]

	// Handle promotion
	if m.IsPromotion() {
		promoted := NewPiece(m.Promotion, us)
		p.Board[m.To] = promoted
		p.Hash ^= zobristPiece[m.Piece][m.To] ^ zobristPiece[promoted][m.To]
	}

	// Handle castling
	if m.IsCastling() {
		rookFrom, rookTo := rookCastleSquares(m)
		rook := p.Board[rookFrom]
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[rook][rookFrom] ^ zobristPiece[rook][rookTo]
	}

	p.CastlingRights &= castlingMask[m.From] & castlingMask[m.To]
	p.Hash ^= zobristCastling[p.CastlingRights]

	if m.Has(FlagDoublePush) {
		p.EnPassant = m.From.Offset(pawnPush(us))
	}

	if m.Piece.Type() == Pawn || undo.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = us.Other()
	p.Hash ^= zobristSideToMove
	if p.epCapturable() {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return undo
}

// Unapply reverses Apply. Afterwards the position equals the one Apply saw.
func (p *Position) Unapply(m Move, undo Undo) {
	us := p.SideToMove.Other()
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsCastling() {
		rookFrom, rookTo := rookCastleSquares(m)
		p.movePiece(rookTo, rookFrom)
	}

	p.removePiece(m.To)
	p.setPiece(m.Piece, m.From)

	if undo.Captured != NoPiece {
		p.setPiece(undo.Captured, undo.CapturedSquare)
	}

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
}
