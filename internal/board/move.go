package board

// MoveFlag describes what a move does besides relocating a piece.
type MoveFlag uint8

// Move flags. FlagCapture and FlagEnPassant never appear together.
const (
	FlagCapture MoveFlag = 1 << iota
	FlagDoublePush
	FlagEnPassant
	FlagCastleKingSide
	FlagCastleQueenSide
	FlagPromotion

	FlagNone MoveFlag = 0
)

// Move is a fully described move: the generator fills in the mover and
// any captured piece so Apply never has to look them up.
type Move struct {
	From      Square
	To        Square
	Piece     Piece     // the moving piece
	Captured  Piece     // NoPiece when nothing is taken
	Promotion PieceType // NoPieceType unless FlagPromotion
	Flags     MoveFlag
}

// NoMove represents an invalid or null move.
var NoMove = Move{}

// Has reports whether all bits of f are set.
func (m Move) Has(f MoveFlag) bool {
	return m.Flags&f == f
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool {
	return m.Flags&(FlagCapture|FlagEnPassant) != 0
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Flags&FlagPromotion != 0
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Flags&(FlagCastleKingSide|FlagCastleQueenSide) != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flags&FlagEnPassant != 0
}

// IsQuiet returns true if this is not a capture or promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns coordinate notation (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Strings returns the coordinate notation of every move, in list order.
func (ml *MoveList) Strings() []string {
	out := make([]string, ml.count)
	for i := 0; i < ml.count; i++ {
		out[i] = ml.moves[i].String()
	}
	return out
}

// Undo stores everything Apply changes that the Move itself cannot tell us.
type Undo struct {
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	Captured       Piece  // what was removed, NoPiece if nothing
	CapturedSquare Square // differs from Move.To for en passant
}
