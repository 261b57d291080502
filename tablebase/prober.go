// Package tablebase answers endgame queries from precomputed verdicts.
// Positions and moves use the github.com/notnil/chess representation.
package tablebase

import (
	"errors"
	"strings"

	"github.com/notnil/chess"
)

var (
	// ErrNotFound means the position is not covered by the tables.
	ErrNotFound = errors.New("tablebase: position not found")
	// ErrUnavailable means no tables are loaded.
	ErrUnavailable = errors.New("tablebase: unavailable")
)

// WDL is the game-theoretic verdict for the side to move.
type WDL int

const (
	Loss        WDL = -2
	BlessedLoss WDL = -1 // loss, but saved by the 50-move rule
	Draw        WDL = 0
	CursedWin   WDL = 1 // win, but spoiled by the 50-move rule
	Win         WDL = 2
)

func (w WDL) String() string {
	switch w {
	case Loss:
		return "loss"
	case BlessedLoss:
		return "blessed-loss"
	case Draw:
		return "draw"
	case CursedWin:
		return "cursed-win"
	case Win:
		return "win"
	}
	return "unknown"
}

// Prober is the interface for tablebase lookups.
type Prober interface {
	// ProbeWDL returns the verdict for the side to move in pos.
	ProbeWDL(pos *chess.Position) (WDL, error)

	// BestMove returns a move that keeps the verdict of pos.
	BestMove(pos *chess.Position) (*chess.Move, error)

	// MaxPieces is the largest piece count, kings included, the tables cover.
	MaxPieces() int

	// Available reports whether any tables are loaded.
	Available() bool
}

// NoopProber never finds anything.
type NoopProber struct{}

func (NoopProber) ProbeWDL(*chess.Position) (WDL, error)      { return Draw, ErrUnavailable }
func (NoopProber) BestMove(*chess.Position) (*chess.Move, error) { return nil, ErrUnavailable }
func (NoopProber) MaxPieces() int                                { return 0 }
func (NoopProber) Available() bool                               { return false }

// Key identifies a position by placement, side to move, castling rights and
// en passant square. Move counters are ignored.
func Key(pos *chess.Position) string {
	return fenKey(pos.String())
}

func fenKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// CountPieces returns the number of pieces on the board, kings included.
func CountPieces(pos *chess.Position) int {
	return len(pos.Board().SquareMap())
}

// PositionFromFEN builds a foreign position. Missing move counters are
// filled in.
func PositionFromFEN(fen string) (*chess.Position, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 5:
		fields = append(fields, "1")
	}
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil, err
	}
	return chess.NewGame(opt).Position(), nil
}
