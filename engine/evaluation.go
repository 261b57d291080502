package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"

	"chessmind/board"
)

const (
	// LazyMargin is the most the positional terms are expected to swing a
	// roughly level position.
	LazyMargin = 80

	// Fewer non-pawn, non-king pieces than this switches the king table.
	endgamePieceLimit = 4

	centerBonus = 5
)

// Mobility weights per piece kind; pawns and kings do not count.
var mobilityWeight = [7]int{
	board.Knight: 3,
	board.Bishop: 5,
	board.Rook:   3,
	board.Queen:  1,
}

var positionalPieces = [4]board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen}

// Evaluator scores positions statically.
type Evaluator struct {
	// Lazy skips mobility and centre control when the material score is
	// outside the search window by more than Margin.
	Lazy   bool
	Margin int
}

func NewEvaluator() *Evaluator {
	return &Evaluator{Lazy: true, Margin: LazyMargin}
}

// Evaluate scores pos from the side to move's point of view.
func (e *Evaluator) Evaluate(pos board.Position, alpha, beta int) int {
	switch pos.Status() {
	case board.Checkmate:
		return -MateScore
	case board.Stalemate:
		return 0
	}
	return e.evaluate(pos, alpha, beta)
}

// evaluate assumes pos is not terminal.
func (e *Evaluator) evaluate(pos board.Position, alpha, beta int) int {
	score := MaterialScore(pos)
	if e.Lazy && !e.needsFullTerms(score, alpha, beta) {
		return score
	}
	positional := Mobility(pos, board.White) + CenterControl(pos, board.White) -
		Mobility(pos, board.Black) - CenterControl(pos, board.Black)
	if pos.SideToMove() == board.Black {
		positional = -positional
	}
	return score + positional
}

func (e *Evaluator) needsFullTerms(cheap, alpha, beta int) bool {
	return cheap > alpha-e.Margin && cheap < beta+e.Margin
}

// MaterialScore is material plus piece-square placement, kings included,
// from the side to move's point of view.
func MaterialScore(pos board.Position) int {
	endgame := isEndgame(pos)
	white := pos.Bitboards(board.White)
	black := pos.Bitboards(board.Black)
	score := sideMaterial(&white, board.White, endgame) - sideMaterial(&black, board.Black, endgame)
	if pos.SideToMove() == board.Black {
		return -score
	}
	return score
}

func sideMaterial(bb *dragontoothmg.Bitboards, c board.Color, endgame bool) (score int) {
	sets := [7]uint64{
		board.Pawn:   bb.Pawns,
		board.Knight: bb.Knights,
		board.Bishop: bb.Bishops,
		board.Rook:   bb.Rooks,
		board.Queen:  bb.Queens,
		board.King:   bb.Kings,
	}
	for p := board.Pawn; p <= board.King; p++ {
		for x := sets[p]; x != 0; x &= x - 1 {
			sq := board.Square(bits.TrailingZeros64(x))
			score += PieceValue[p] + placement(p, sq, c, endgame)
		}
	}
	return score
}

func isEndgame(pos board.Position) bool {
	pieces := 0
	for _, c := range [2]board.Color{board.White, board.Black} {
		bb := pos.Bitboards(c)
		pieces += bits.OnesCount64(bb.Knights | bb.Bishops | bb.Rooks | bb.Queens)
	}
	return pieces < endgamePieceLimit
}

func piecesOf(bb *dragontoothmg.Bitboards, p board.Piece) uint64 {
	switch p {
	case board.Knight:
		return bb.Knights
	case board.Bishop:
		return bb.Bishops
	case board.Rook:
		return bb.Rooks
	case board.Queen:
		return bb.Queens
	}
	return 0
}

// Mobility counts the pieces of color c that stand outside enemy pawn
// attacks and can reach at least one square outside them, weighted per
// kind. Only pseudo-attacks are used, so the result does not depend on
// whose turn it is.
func Mobility(pos board.Position, c board.Color) int {
	us := pos.Bitboards(c)
	them := pos.Bitboards(c.Other())
	pawnAttacks := board.PawnAttacks(them.Pawns, c.Other())
	occupancy := pos.Occupancy()

	score := 0
	for _, p := range positionalPieces {
		for x := piecesOf(&us, p) &^ pawnAttacks; x != 0; x &= x - 1 {
			sq := board.Square(bits.TrailingZeros64(x))
			if board.PieceAttacks(p, sq, occupancy)&^pawnAttacks != 0 {
				score += mobilityWeight[p]
			}
		}
	}
	return score
}

// CenterControl gives a bonus for each piece of color c attacking d4, d5,
// e4 or e5.
func CenterControl(pos board.Position, c board.Color) int {
	us := pos.Bitboards(c)
	occupancy := pos.Occupancy()
	score := 0
	for _, p := range positionalPieces {
		for x := piecesOf(&us, p); x != 0; x &= x - 1 {
			sq := board.Square(bits.TrailingZeros64(x))
			if board.PieceAttacks(p, sq, occupancy)&board.CenterBB != 0 {
				score += centerBonus
			}
		}
	}
	return score
}
