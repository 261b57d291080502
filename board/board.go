// Package board wraps the dragontoothmg move generator behind an immutable
// position value.
package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrIllegalMove     = errors.New("board: illegal move")
	ErrInvalidPosition = errors.New("board: invalid position")
)

// Position is a chess position. Methods never modify the receiver; Apply
// returns a new value.
type Position struct {
	b dragontoothmg.Board
}

// ParseFEN validates fen and builds a position from it. The halfmove clock
// and fullmove number may be omitted. Each side needs exactly one king and
// the side that just moved must not be left in check.
func ParseFEN(fen string) (Position, error) {
	full, err := normalizeFEN(fen)
	if err != nil {
		return Position{}, err
	}
	if _, err := chess.FEN(full); err != nil {
		return Position{}, fmt.Errorf("board: invalid fen %q: %w", fen, err)
	}
	p := Position{b: dragontoothmg.ParseFen(full)}
	if err := p.validate(); err != nil {
		return Position{}, fmt.Errorf("board: invalid fen %q: %w", fen, err)
	}
	return p, nil
}

func (p Position) validate() error {
	for _, c := range [2]Color{White, Black} {
		bb := p.Bitboards(c)
		if n := bits.OnesCount64(bb.Kings); n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvalidPosition, c, n)
		}
	}
	if p.Pass().InCheck() {
		return fmt.Errorf("%w: %s to move can capture the king", ErrInvalidPosition, p.SideToMove())
	}
	return nil
}

// MustParseFEN is ParseFEN for known-good input. It panics on error.
func MustParseFEN(fen string) Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// Start returns the initial position.
func Start() Position {
	return MustParseFEN(StartFEN)
}

func normalizeFEN(fen string) (string, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 5:
		fields = append(fields, "1")
	case 6:
	default:
		return "", fmt.Errorf("board: invalid fen %q: want 4 to 6 fields, got %d", fen, len(fields))
	}
	return strings.Join(fields, " "), nil
}

func (p Position) SideToMove() Color {
	if p.b.Wtomove {
		return White
	}
	return Black
}

// Hash is the zobrist key maintained by the move generator.
func (p Position) Hash() uint64 {
	return p.b.Hash()
}

func (p Position) FEN() string {
	return p.b.ToFen()
}

func (p Position) String() string {
	return p.FEN()
}

// Bitboards returns the piece sets of color c.
func (p Position) Bitboards(c Color) dragontoothmg.Bitboards {
	if c == White {
		return p.b.White
	}
	return p.b.Black
}

// Occupancy is the set of all occupied squares.
func (p Position) Occupancy() uint64 {
	return p.b.White.All | p.b.Black.All
}

func (p Position) PieceAt(sq Square) (Piece, Color, bool) {
	mask := uint64(1) << sq
	if p.b.White.All&mask != 0 {
		return pieceIn(&p.b.White, mask), White, true
	}
	if p.b.Black.All&mask != 0 {
		return pieceIn(&p.b.Black, mask), Black, true
	}
	return NoPiece, White, false
}

func pieceIn(bb *dragontoothmg.Bitboards, mask uint64) Piece {
	switch {
	case bb.Pawns&mask != 0:
		return Pawn
	case bb.Knights&mask != 0:
		return Knight
	case bb.Bishops&mask != 0:
		return Bishop
	case bb.Rooks&mask != 0:
		return Rook
	case bb.Queens&mask != 0:
		return Queen
	case bb.Kings&mask != 0:
		return King
	}
	return NoPiece
}

// PieceCount counts every piece on the board, kings and pawns included.
func (p Position) PieceCount() int {
	return bits.OnesCount64(p.Occupancy())
}

func (p Position) LegalMoves() []Move {
	generated := p.b.GenerateLegalMoves()
	moves := make([]Move, len(generated))
	for i, m := range generated {
		moves[i] = Move(m)
	}
	return moves
}

func (p Position) InCheck() bool {
	return p.b.OurKingInCheck()
}

func (p Position) Status() Status {
	if len(p.b.GenerateLegalMoves()) > 0 {
		return Ongoing
	}
	if p.b.OurKingInCheck() {
		return Checkmate
	}
	return Stalemate
}

// Apply plays m on a copy of the position. m must be legal.
func (p Position) Apply(m Move) Position {
	next := p.b
	next.Apply(dragontoothmg.Move(m))
	return Position{b: next}
}

// GivesCheck reports whether playing m leaves the opponent in check.
func (p Position) GivesCheck(m Move) bool {
	return p.Apply(m).InCheck()
}

// IsCapture reports whether m takes a piece, en passant included.
func (p Position) IsCapture(m Move) bool {
	to := uint64(1) << m.To()
	them := p.Bitboards(p.SideToMove().Other())
	if them.All&to != 0 {
		return true
	}
	us := p.Bitboards(p.SideToMove())
	from := uint64(1) << m.From()
	return us.Pawns&from != 0 && m.From().File() != m.To().File()
}

// Pass returns the position with the other side to move. The en passant
// square is kept. The hash of the result is not updated, so it must not be
// used as a cache key.
func (p Position) Pass() Position {
	next := p.b
	next.Wtomove = !next.Wtomove
	return Position{b: next}
}

// FindMove resolves a UCI move string against the legal moves.
func (p Position) FindMove(uci string) (Move, error) {
	uci = strings.ToLower(uci)
	for _, m := range p.LegalMoves() {
		if m.String() == uci {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, uci, p.FEN())
}

// Mirror flips the board vertically and swaps the colors, side to move,
// castling rights and en passant square along with it.
func (p Position) Mirror() Position {
	fields := strings.Fields(p.FEN())
	for len(fields) < 6 {
		fields = append(fields, "0")
	}

	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	fields[0] = swapCase(strings.Join(ranks, "/"))

	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}

	if fields[2] != "-" {
		castling := []byte(swapCase(fields[2]))
		// keep the KQkq ordering
		var upper, lower []byte
		for _, c := range castling {
			if c >= 'A' && c <= 'Z' {
				upper = append(upper, c)
			} else {
				lower = append(lower, c)
			}
		}
		fields[2] = string(append(upper, lower...))
	}

	if fields[3] != "-" && len(fields[3]) == 2 {
		fields[3] = string([]byte{fields[3][0], '1' + '8' - fields[3][1]})
	}
	return MustParseFEN(strings.Join(fields, " "))
}

func swapCase(s string) string {
	out := []byte(s)
	for i, c := range out {
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z':
			out[i] = c - 'A' + 'a'
		}
	}
	return string(out)
}
