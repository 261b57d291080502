package board

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Piece kinds share their numbering with dragontoothmg so conversions are free.
type Piece uint8

const (
	NoPiece Piece = 0
	Pawn    Piece = Piece(dragontoothmg.Pawn)
	Knight  Piece = Piece(dragontoothmg.Knight)
	Bishop  Piece = Piece(dragontoothmg.Bishop)
	Rook    Piece = Piece(dragontoothmg.Rook)
	Queen   Piece = Piece(dragontoothmg.Queen)
	King    Piece = Piece(dragontoothmg.King)
)

var pieceLetters = [7]byte{'.', 'p', 'n', 'b', 'r', 'q', 'k'}

func (p Piece) String() string {
	if int(p) >= len(pieceLetters) {
		return "?"
	}
	return string(pieceLetters[p])
}

// Square indexes run a1=0 .. h1=7 .. h8=63.
type Square uint8

const (
	D4 Square = 27
	E4 Square = 28
	D5 Square = 35
	E5 Square = 36
)

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) String() string {
	if s > 63 {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(coord string) (Square, error) {
	if len(coord) != 2 || coord[0] < 'a' || coord[0] > 'h' || coord[1] < '1' || coord[1] > '8' {
		return 0, fmt.Errorf("board: invalid square %q", coord)
	}
	return Square((coord[1]-'1')*8 + (coord[0] - 'a')), nil
}

// MustSquare is ParseSquare for constant coordinates.
func MustSquare(coord string) Square {
	sq, err := ParseSquare(coord)
	if err != nil {
		panic(err)
	}
	return sq
}

// Status classifies a position for the side to move.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Move identifies source, destination and an optional promotion piece.
type Move dragontoothmg.Move

// NoMove is the zero move, printed as the UCI null move.
const NoMove Move = 0

func (m Move) From() Square {
	dm := dragontoothmg.Move(m)
	return Square(dm.From())
}

func (m Move) To() Square {
	dm := dragontoothmg.Move(m)
	return Square(dm.To())
}

// Promotion returns the promotion piece, or NoPiece.
func (m Move) Promotion() Piece {
	dm := dragontoothmg.Move(m)
	return Piece(dm.Promote())
}

// String renders the move in UCI long algebraic notation.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	dm := dragontoothmg.Move(m)
	return dm.String()
}
