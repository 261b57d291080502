package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(p Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		next := p.b
		next.Apply(m)
		nodes += Perft(Position{b: next}, depth-1)
	}
	return nodes
}

// PerftDivide reports the perft count below each root move.
func PerftDivide(p Position, depth int) map[Move]uint64 {
	div := make(map[Move]uint64)
	if depth <= 0 {
		return div
	}
	for _, m := range p.LegalMoves() {
		div[m] = Perft(p.Apply(m), depth-1)
	}
	return div
}
