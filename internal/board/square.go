// Package board implements the chess board representation on a 0x88 layout.
package board

import "github.com/pkg/errors"

// Square is an index into the 128-slot 0x88 board.
// Layout: index = rank*16 + file. The right half of every row (files 8-15)
// is padding, so a square is on the board iff sq&0x88 == 0.
type Square uint8

// Rank 1.
const (
	A1 Square = iota + 0x00
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

// Rank 2.
const (
	A2 Square = iota + 0x10
	B2
	C2
	D2
	E2
	F2
	G2
	H2
)

// Rank 3.
const (
	A3 Square = iota + 0x20
	B3
	C3
	D3
	E3
	F3
	G3
	H3
)

// Rank 4.
const (
	A4 Square = iota + 0x30
	B4
	C4
	D4
	E4
	F4
	G4
	H4
)

// Rank 5.
const (
	A5 Square = iota + 0x40
	B5
	C5
	D5
	E5
	F5
	G5
	H5
)

// Rank 6.
const (
	A6 Square = iota + 0x50
	B6
	C6
	D6
	E6
	F6
	G6
	H6
)

// Rank 7.
const (
	A7 Square = iota + 0x60
	B7
	C7
	D7
	E7
	F7
	G7
	H7
)

// Rank 8.
const (
	A8 Square = iota + 0x70
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NoSquare marks an absent square (no en passant target, no capture).
// It fails the on-board test.
const NoSquare Square = 0xFF

// BoardSize is the number of slots in the 0x88 array.
const BoardSize = 128

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank<<4 | file)
}

// OnBoard reports whether the square is a real board square.
// Offsets applied through Offset wrap into the high bits, so one mask
// test covers both halves and both directions.
func (sq Square) OnBoard() bool {
	return sq&0x88 == 0
}

// Offset returns the square d steps away in index space.
func (sq Square) Offset(d int) Square {
	return Square(int(sq) + d)
}

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 4
}

// Mirror returns the square reflected across the board's horizontal axis.
func (sq Square) Mirror() Square {
	if !sq.OnBoard() {
		return sq
	}
	return NewSquare(sq.File(), 7-sq.Rank())
}

// RelativeRank returns the rank from a given color's perspective.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.OnBoard() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, errors.Errorf("invalid square: %q", s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, errors.Errorf("invalid square: %q", s)
	}

	return NewSquare(file, rank), nil
}

// AllSquares lists the 64 on-board squares from a1 to h8.
var AllSquares = func() []Square {
	squares := make([]Square, 0, 64)
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			squares = append(squares, NewSquare(file, rank))
		}
	}
	return squares
}()
