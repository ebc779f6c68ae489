package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

// Swap exchanges the white and black rights.
func (cr CastlingRights) Swap() CastlingRights {
	return (cr&0x3)<<2 | (cr&0xC)>>2
}

func castleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// Position represents a complete chess position.
// Positions are plain values: == compares every field, which is what
// Apply/Unapply round trips are checked against.
type Position struct {
	// Squares indexed by 0x88 Square; off-board slots stay NoPiece.
	Board [BoardSize]Piece

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture (for 50-move rule)
	FullMoveNumber int    // Full move counter, starts at 1

	// King positions (cached for check detection)
	KingSquare [2]Square

	// Zobrist hash, maintained incrementally by Apply/Unapply
	Hash uint64
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty or off-board.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.OnBoard() {
		return NoPiece
	}
	return p.Board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq] == NoPiece
}

// setPiece places a piece on a square (does not update hash).
func (p *Position) setPiece(piece Piece, sq Square) {
	p.Board[sq] = piece
	if piece.Type() == King {
		p.KingSquare[piece.Color()] = sq
	}
}

// removePiece clears a square and returns what was there (does not update hash).
func (p *Position) removePiece(sq Square) Piece {
	piece := p.Board[sq]
	p.Board[sq] = NoPiece
	return piece
}

// movePiece moves a piece from one square to another (does not update hash).
func (p *Position) movePiece(from, to Square) {
	p.setPiece(p.removePiece(from), to)
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsSquareAttacked(p.KingSquare[p.SideToMove], p.SideToMove.Other())
}

// Count returns how many pieces of the given kind are on the board.
func (p *Position) Count(piece Piece) int {
	n := 0
	for _, sq := range AllSquares {
		if p.Board[sq] == piece {
			n++
		}
	}
	return n
}

// Mirror returns the position with colors swapped and ranks flipped.
// The mirrored position is the same game seen from the other side.
func (p *Position) Mirror() *Position {
	m := &Position{
		SideToMove:     p.SideToMove.Other(),
		CastlingRights: p.CastlingRights.Swap(),
		EnPassant:      p.EnPassant.Mirror(),
		HalfMoveClock:  p.HalfMoveClock,
		FullMoveNumber: p.FullMoveNumber,
	}
	for _, sq := range AllSquares {
		if piece := p.Board[sq]; piece != NoPiece {
			m.setPiece(piece.Swap(), sq.Mirror())
		}
	}
	m.Hash = m.ComputeHash()
	return m
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}

// assertKings panics when a king has gone missing. Only generator or
// apply/unapply bugs can get here.
func (p *Position) assertKings() {
	for c := White; c <= Black; c++ {
		ksq := p.KingSquare[c]
		if !ksq.OnBoard() || p.Board[ksq] != NewPiece(King, c) {
			panic(fmt.Sprintf("board: %v king missing (cached square %v)\n%v", c, ksq, p))
		}
	}
}
