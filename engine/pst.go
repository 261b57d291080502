package engine

import "chessmind/board"

// Material values in centipawns. Pawns are valued above 100 since pawn
// mobility is not scored.
var PieceValue = [7]int{
	board.NoPiece: 0,
	board.Pawn:    115,
	board.Knight:  300,
	board.Bishop:  310,
	board.Rook:    500,
	board.Queen:   900,
	board.King:    0,
}

// Piece-square tables are written rank 8 first from White's point of view,
// so they read like a board diagram.
var PawnTable = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	20, 20, 25, 40, 40, 25, 20, 20,
	0, 0, 10, 30, 30, 10, 0, 0,
	-10, -20, 10, 30, 30, 10, -20, -10,
	-10, 0, 0, 20, 20, 0, 0, -10,
	10, 10, 0, -10, -10, 0, 10, 10,
	1, 0, 0, 0, 0, 0, 0, 0,
}

var KnightTable = [64]int{
	-40, -10, -10, -10, -10, -10, -10, -40,
	-10, 0, 10, 20, 20, 10, 0, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-20, 0, 0, 10, 10, 0, 0, -20,
	-20, 0, 0, 0, 0, 0, 0, -20,
	-20, -10, 10, 0, 0, 10, -10, -20,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-40, -30, -30, -30, -30, -30, -30, -40,
}

var BishopTable = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	0, 0, 0, 0, 0, 0, 0, 0,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	0, 0, 0, 0, 0, 0, 0, 0,
	-10, 10, 0, 0, 0, 0, 10, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var RookTable = [64]int{
	0, 10, 10, 10, 10, 10, 10, 0,
	10, 20, 20, 20, 20, 20, 20, 10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	0, 0, 0, 10, 10, 0, 0, 0,
}

var QueenTable = [64]int{
	-20, -10, -10, 0, 0, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 0, 5, 5, 0, 0, 0,
	0, 0, 0, 5, 5, 0, 0, -10,
	-10, 5, 0, 0, 0, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, 0, 0, 0, -10, -10, -20,
}

var KingTable = [64]int{
	-50, -50, -50, -50, -50, -50, -50, -50,
	-50, -50, -50, -50, -50, -50, -50, -50,
	-50, -50, -50, -80, -80, -50, -50, -50,
	-50, -50, -80, -100, -100, -80, -50, -50,
	-50, -50, -80, -100, -100, -80, -50, -50,
	-30, -50, -50, -80, -80, -50, -50, -30,
	-10, -10, -40, -40, -40, -40, -10, -10,
	20, 30, 20, -10, -10, -10, 30, 30,
}

var KingEndgameTable = [64]int{
	-50, -50, -50, -50, -50, -50, -50, -50,
	-50, -20, -20, -20, -20, -20, -20, -50,
	-50, -20, 20, 20, 20, 20, -20, -50,
	-50, -20, 20, 60, 60, 20, -20, -50,
	-50, -20, 20, 60, 60, 20, -20, -50,
	-50, -20, 20, 20, 20, 20, -20, -50,
	-50, -20, -20, -20, -20, -20, -20, -50,
	-50, -50, -50, -50, -50, -50, -50, -50,
}

// pstIndex maps a square to its table slot. White reads the tables flipped
// vertically; Black reads them as written, which mirrors them for Black.
func pstIndex(sq board.Square, c board.Color) int {
	if c == board.White {
		return (7-sq.Rank())*8 + sq.File()
	}
	return sq.Rank()*8 + sq.File()
}

func placement(p board.Piece, sq board.Square, c board.Color, endgame bool) int {
	idx := pstIndex(sq, c)
	switch p {
	case board.Pawn:
		return PawnTable[idx]
	case board.Knight:
		return KnightTable[idx]
	case board.Bishop:
		return BishopTable[idx]
	case board.Rook:
		return RookTable[idx]
	case board.Queen:
		return QueenTable[idx]
	case board.King:
		if endgame {
			return KingEndgameTable[idx]
		}
		return KingTable[idx]
	}
	return 0
}
