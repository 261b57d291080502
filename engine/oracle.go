package engine

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"

	"chessmind/board"
	"chessmind/tablebase"
)

// OraclePieceLimit is the piece count, kings included, below which the
// endgame oracle is asked.
const OraclePieceLimit = 6

// ErrUntranslatableMove is returned when the oracle recommends a move the
// adapter cannot express, such as castling.
var ErrUntranslatableMove = errors.New("engine: oracle move cannot be translated")

// Oracle adapts a tablebase.Prober to board positions and moves.
type Oracle struct {
	prober tablebase.Prober
}

func NewOracle(p tablebase.Prober) *Oracle {
	return &Oracle{prober: p}
}

// Consultable reports whether pos is small enough for the oracle to know.
func (o *Oracle) Consultable(pos board.Position) bool {
	if o == nil || o.prober == nil || !o.prober.Available() {
		return false
	}
	limit := Min(OraclePieceLimit, o.prober.MaxPieces()+1)
	return pos.PieceCount() < limit
}

// Probe returns the oracle's score for the side to move and its move.
func (o *Oracle) Probe(pos board.Position) (int, board.Move, error) {
	foreign, err := foreignPosition(pos)
	if err != nil {
		return 0, board.NoMove, err
	}
	wdl, err := o.prober.ProbeWDL(foreign)
	if err != nil {
		return 0, board.NoMove, err
	}
	fm, err := o.prober.BestMove(foreign)
	if err != nil {
		return 0, board.NoMove, err
	}
	m, err := translateMove(pos, fm)
	if err != nil {
		return 0, board.NoMove, err
	}
	return wdlScore(wdl, 0), m, nil
}

// ProbeScore is Probe without the move, scored for a node height plies
// below the root.
func (o *Oracle) ProbeScore(pos board.Position, height int) (int, error) {
	foreign, err := foreignPosition(pos)
	if err != nil {
		return 0, err
	}
	wdl, err := o.prober.ProbeWDL(foreign)
	if err != nil {
		return 0, err
	}
	return wdlScore(wdl, height), nil
}

func foreignPosition(pos board.Position) (*chess.Position, error) {
	foreign, err := tablebase.PositionFromFEN(pos.FEN())
	if err != nil {
		return nil, fmt.Errorf("engine: converting %s: %w", pos.FEN(), err)
	}
	return foreign, nil
}

// Only the sign of the verdict matters. Wins and losses count as mates at
// height.
func wdlScore(w tablebase.WDL, height int) int {
	switch {
	case w > 0:
		return MateScore - height
	case w < 0:
		return -MateScore + height
	}
	return 0
}

func translateMove(pos board.Position, fm *chess.Move) (board.Move, error) {
	if fm == nil {
		return board.NoMove, fmt.Errorf("%w: no move", ErrUntranslatableMove)
	}
	if fm.HasTag(chess.KingSideCastle) || fm.HasTag(chess.QueenSideCastle) {
		return board.NoMove, fmt.Errorf("%w: castling %s", ErrUntranslatableMove, fm)
	}
	from, to := board.Square(fm.S1()), board.Square(fm.S2())
	if p, _, ok := pos.PieceAt(from); ok && p == board.King && Abs(from.File()-to.File()) == 2 {
		return board.NoMove, fmt.Errorf("%w: castling %s", ErrUntranslatableMove, fm)
	}
	promo := foreignPiece(fm.Promo())
	for _, m := range pos.LegalMoves() {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m, nil
		}
	}
	return board.NoMove, fmt.Errorf("%w: %s is not legal in %s", ErrUntranslatableMove, fm, pos.FEN())
}

func foreignPiece(pt chess.PieceType) board.Piece {
	switch pt {
	case chess.Knight:
		return board.Knight
	case chess.Bishop:
		return board.Bishop
	case chess.Rook:
		return board.Rook
	case chess.Queen:
		return board.Queen
	}
	return board.NoPiece
}
