package engine

import (
	"context"
	"math/bits"
	"time"

	"chessmind/board"
)

// Game phase weights used to guess how many moves are left.
const (
	knightPhase = 1
	bishopPhase = 1
	rookPhase   = 2
	queenPhase  = 4
	totalPhase  = knightPhase*4 + bishopPhase*4 + rookPhase*4 + queenPhase*2
)

// TimeControl holds the clock values of a UCI go command, in milliseconds.
// Zero values mean "not given".
type TimeControl struct {
	WTime    int
	BTime    int
	WInc     int
	BInc     int
	MoveTime int
}

// Budget returns how long to think about pos. Zero means no limit.
func (tc TimeControl) Budget(pos board.Position) time.Duration {
	if tc.MoveTime > 0 {
		return time.Duration(tc.MoveTime) * time.Millisecond
	}
	rem, inc := tc.WTime, tc.WInc
	if pos.SideToMove() == board.Black {
		rem, inc = tc.BTime, tc.BInc
	}
	if rem <= 0 {
		return 0
	}

	movesLeft := estimateMovesRemaining(piecePhase(pos)) // 20..45

	const overheadMs = 30      // reserve for UCI/IO jitter
	const minMoveMs = 5        // never less than this
	const maxFrac = 0.7        // never spend >70% of remaining time
	const panicThreshMs = 1000 // bank the increment below this
	const panicFrac = 0.90

	var moveTime int
	if inc > 0 {
		if rem < panicThreshMs {
			moveTime = int(float64(inc) * panicFrac)
		} else {
			moveTime = rem/movesLeft + inc
		}
	} else {
		moveTime = rem / 40
	}

	moveTime = Min(moveTime, int(float64(rem)*maxFrac))
	moveTime = Min(moveTime, rem-overheadMs)
	moveTime = Max(moveTime, minMoveMs)
	return time.Duration(moveTime) * time.Millisecond
}

// Context derives a search context that expires when the budget for pos
// runs out.
func (tc TimeControl) Context(parent context.Context, pos board.Position) (context.Context, context.CancelFunc) {
	budget := tc.Budget(pos)
	if budget <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, budget)
}

func piecePhase(pos board.Position) (phase int) {
	w, b := pos.Bitboards(board.White), pos.Bitboards(board.Black)
	phase += bits.OnesCount64(w.Knights|b.Knights) * knightPhase
	phase += bits.OnesCount64(w.Bishops|b.Bishops) * bishopPhase
	phase += bits.OnesCount64(w.Rooks|b.Rooks) * rookPhase
	phase += bits.OnesCount64(w.Queens|b.Queens) * queenPhase
	return Min(phase, totalPhase)
}

func estimateMovesRemaining(phase int) int {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	return (phase*25)/totalPhase + 20
}
