package board

import (
	"errors"
	"testing"
)

func TestParseFENPadsMissingCounters(t *testing.T) {
	p, err := ParseFEN("4k3/8/4K3/4P3/8/8/8/8 w - -")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if p.SideToMove() != White {
		t.Fatalf("expected white to move")
	}
	if got := p.PieceCount(); got != 3 {
		t.Fatalf("PieceCount: got %d want 3", got)
	}
}

func TestParseFENRejectsGarbage(t *testing.T) {
	for _, fen := range []string{"", "not a fen", "8/8/8 w - - 0 1 extra"} {
		if _, err := ParseFEN(fen); err == nil {
			t.Fatalf("expected error for %q", fen)
		}
	}
}

func TestParseFENRejectsIllegalPositions(t *testing.T) {
	cases := []struct {
		name string
		fen  string
	}{
		{"side not to move in check", "7k/8/6K1/8/8/8/8/R6R w - - 0 1"},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"two black kings", "k6k/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"no white king", "4k3/8/8/8/8/8/8/8 b - - 0 1"},
	}
	for _, tc := range cases {
		if _, err := ParseFEN(tc.fen); err == nil {
			t.Fatalf("%s: %s accepted", tc.name, tc.fen)
		}
	}
	if _, err := ParseFEN("7k/8/6K1/8/8/8/8/R6R w - - 0 1"); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	// the checked side to move is fine
	if _, err := ParseFEN("7k/8/6K1/8/8/8/8/R6R b - - 0 1"); err != nil {
		t.Fatalf("black to move in check: %v", err)
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want Status
	}{
		{"start", StartFEN, Ongoing},
		{"fools mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", Checkmate},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Stalemate},
	}
	for _, tc := range cases {
		p := MustParseFEN(tc.fen)
		if got := p.Status(); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestApplyMateDetected(t *testing.T) {
	// Qxg7 with the c3 bishop covering g7
	p := MustParseFEN("7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")
	m, err := p.FindMove("g6g7")
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	if !p.IsCapture(m) || !p.GivesCheck(m) {
		t.Fatalf("g6g7 should capture with check")
	}
	if got := p.Apply(m).Status(); got != Checkmate {
		t.Fatalf("after g6g7: got %v want %v", got, Checkmate)
	}
}

func TestApplyDoesNotModifyReceiver(t *testing.T) {
	p := Start()
	before := p.Hash()
	m, err := p.FindMove("e2e4")
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	next := p.Apply(m)
	if p.Hash() != before {
		t.Fatalf("Apply changed the receiver")
	}
	if next.Hash() == before {
		t.Fatalf("expected a different hash after e2e4")
	}
	if next.SideToMove() != Black {
		t.Fatalf("expected black to move after e2e4")
	}
}

func TestFindMoveIllegal(t *testing.T) {
	_, err := Start().FindMove("e2e5")
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

func TestCaptureAndCheckDetection(t *testing.T) {
	// e5xf6 is en passant, Bb5 is check.
	p := MustParseFEN("rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	cases := []struct {
		uci     string
		capture bool
		check   bool
	}{
		{"e5f6", true, false},
		{"f1b5", false, true},
		{"d2d4", false, false},
	}
	for _, tc := range cases {
		m, err := p.FindMove(tc.uci)
		if err != nil {
			t.Fatalf("FindMove(%s): %v", tc.uci, err)
		}
		if got := p.IsCapture(m); got != tc.capture {
			t.Fatalf("%s: IsCapture got %v want %v", tc.uci, got, tc.capture)
		}
		if got := p.GivesCheck(m); got != tc.check {
			t.Fatalf("%s: GivesCheck got %v want %v", tc.uci, got, tc.check)
		}
	}
}

func TestPassKeepsBoard(t *testing.T) {
	p := MustParseFEN("rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	passed := p.Pass()
	if passed.SideToMove() != Black {
		t.Fatalf("expected black to move after Pass")
	}
	if passed.Occupancy() != p.Occupancy() {
		t.Fatalf("Pass changed the occupancy")
	}
	if p.SideToMove() != White {
		t.Fatalf("Pass modified the receiver")
	}
}

func TestMirror(t *testing.T) {
	p := MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	m := p.Mirror()
	if m.SideToMove() != Black {
		t.Fatalf("expected black to move in mirrored position")
	}
	piece, color, ok := m.PieceAt(MustSquare("e8"))
	if !ok || piece != King || color != Black {
		t.Fatalf("expected black king on e8, got %v %v %v", piece, color, ok)
	}
	piece, color, ok = m.PieceAt(MustSquare("f6"))
	if !ok || piece != Queen || color != Black {
		t.Fatalf("expected black queen on f6, got %v %v %v", piece, color, ok)
	}
	if got, want := len(m.LegalMoves()), len(p.LegalMoves()); got != want {
		t.Fatalf("mirrored move count: got %d want %d", got, want)
	}
	if back := m.Mirror(); back.Hash() != p.Hash() {
		t.Fatalf("double mirror: got %s want %s", back.FEN(), p.FEN())
	}
}

func TestPerft(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		depth int
		want  uint64
	}{
		{"start d1", StartFEN, 1, 20},
		{"start d2", StartFEN, 2, 400},
		{"start d3", StartFEN, 3, 8902},
		{"kiwipete d2", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
	}
	for _, tc := range cases {
		if got := Perft(MustParseFEN(tc.fen), tc.depth); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	p := Start()
	var sum uint64
	for _, n := range PerftDivide(p, 3) {
		sum += n
	}
	if sum != Perft(p, 3) {
		t.Fatalf("divide sum %d != perft %d", sum, Perft(p, 3))
	}
}

func BenchmarkPerftStartD4(b *testing.B) {
	p := Start()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Perft(p, 4)
	}
}
