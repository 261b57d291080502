package board

import (
	"github.com/dylhunn/dragontoothmg"
)

// File masks for shift-based attack generation
const (
	bitboardFileA uint64 = 0x0101010101010101
	bitboardFileB uint64 = 0x0202020202020202
	bitboardFileG uint64 = 0x4040404040404040
	bitboardFileH uint64 = 0x8080808080808080
)

// CenterBB holds d4, d5, e4 and e5.
const CenterBB uint64 = 1<<D4 | 1<<E4 | 1<<D5 | 1<<E5

var PositionBB [64]uint64
var KnightMasks [64]uint64
var KingMasks [64]uint64

func init() {
	initPositionBB()
}

func initPositionBB() {
	for i := 0; i < 64; i++ {
		sqBB := uint64(1) << uint(i)
		PositionBB[i] = sqBB

		// King moves lookup
		kingMoves := sqBB<<8 | sqBB>>8
		kingMoves |= (sqBB<<1 | sqBB<<9 | sqBB>>7) &^ bitboardFileA
		kingMoves |= (sqBB>>1 | sqBB>>9 | sqBB<<7) &^ bitboardFileH
		KingMasks[i] = kingMoves

		// Knight moves lookup
		knightMoves := (sqBB<<17 | sqBB>>15) &^ bitboardFileA
		knightMoves |= (sqBB<<15 | sqBB>>17) &^ bitboardFileH
		knightMoves |= (sqBB<<10 | sqBB>>6) &^ (bitboardFileA | bitboardFileB)
		knightMoves |= (sqBB<<6 | sqBB>>10) &^ (bitboardFileG | bitboardFileH)
		KnightMasks[i] = knightMoves
	}
}

// PawnAttacks returns every square attacked by the given pawns of color c.
func PawnAttacks(pawns uint64, c Color) uint64 {
	if c == White {
		return (pawns<<7)&^bitboardFileH | (pawns<<9)&^bitboardFileA
	}
	return (pawns>>9)&^bitboardFileH | (pawns>>7)&^bitboardFileA
}

// PieceAttacks returns the pseudo-attack set of a non-pawn piece on sq given
// the board occupancy.
func PieceAttacks(p Piece, sq Square, occupancy uint64) uint64 {
	switch p {
	case Knight:
		return KnightMasks[sq]
	case Bishop:
		return dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occupancy)
	case Rook:
		return dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occupancy)
	case Queen:
		return dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occupancy) |
			dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occupancy)
	case King:
		return KingMasks[sq]
	}
	return 0
}
