package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [16][BoardSize]uint64 // [Piece][Square], off-board slots unused
	zobristEnPassant  [8]uint64             // One per file
	zobristCastling   [16]uint64            // All 16 castling combinations
	zobristSideToMove uint64                // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			piece := NewPiece(pt, c)
			for _, sq := range AllSquares {
				zobristPiece[piece][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// ComputeHash computes the Zobrist hash for the position from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for _, sq := range AllSquares {
		if piece := p.Board[sq]; piece != NoPiece {
			hash ^= zobristPiece[piece][sq]
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[p.CastlingRights]

	if p.epCapturable() {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}

// epCapturable reports whether a pawn of the side to move stands ready to
// capture on the en passant target. Only then is the target part of the
// key, so a position after a double push matches its later repeats.
func (p *Position) epCapturable() bool {
	if p.EnPassant == NoSquare {
		return false
	}
	pawn := NewPiece(Pawn, p.SideToMove)
	for _, d := range pawnCaptureDeltas(p.SideToMove) {
		from := p.EnPassant.Offset(-d)
		if from.OnBoard() && p.Board[from] == pawn {
			return true
		}
	}
	return false
}
