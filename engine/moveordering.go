package engine

import (
	"sort"

	"chessmind/board"
)

// QuiescenceCheckPly bounds how deep quiescence keeps following checks.
const QuiescenceCheckPly = 10

const (
	quietKey   = 0
	captureKey = 1
	checkKey   = 2
)

type move struct {
	move  board.Move
	score int
}

type moveList struct {
	moves []move
}

func scoreMovesList(pos board.Position, moves []board.Move) (movesList moveList) {
	movesList.moves = make([]move, len(moves))
	for i, m := range moves {
		movesList.moves[i] = move{move: m, score: orderKey(pos, m)}
	}
	return movesList
}

func orderKey(pos board.Position, m board.Move) int {
	if pos.GivesCheck(m) {
		return checkKey
	}
	if pos.IsCapture(m) {
		return captureKey
	}
	return quietKey
}

// OrderMoves puts checks first, then captures, then quiet moves. Moves with
// the same key come out in reverse generation order.
func OrderMoves(pos board.Position, moves []board.Move) []board.Move {
	list := scoreMovesList(pos, moves)
	sort.SliceStable(list.moves, func(i, j int) bool {
		return list.moves[i].score < list.moves[j].score
	})

	ordered := make([]board.Move, len(list.moves))
	for i, m := range list.moves {
		ordered[len(ordered)-1-i] = m.move
	}
	return ordered
}

// FilterTactical keeps the moves quiescence search looks at: everything
// when in check, otherwise captures, plus checks while qply is below
// QuiescenceCheckPly.
func FilterTactical(pos board.Position, moves []board.Move, qply int) []board.Move {
	if pos.InCheck() {
		return moves
	}
	tactical := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		if pos.IsCapture(m) || (qply < QuiescenceCheckPly && pos.GivesCheck(m)) {
			tactical = append(tactical, m)
		}
	}
	return tactical
}
