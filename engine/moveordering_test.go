package engine

import (
	"testing"

	"chessmind/board"
)

// Ra8 is the only check, exd5 the only capture.
const orderingFEN = "4k3/8/8/3p4/4P3/8/8/R3K3 w - - 0 1"

func TestOrderMovesPriority(t *testing.T) {
	p := board.MustParseFEN(orderingFEN)
	legal := p.LegalMoves()
	ordered := OrderMoves(p, legal)
	if len(ordered) != len(legal) {
		t.Fatalf("OrderMoves dropped moves: %d of %d", len(ordered), len(legal))
	}
	if got := ordered[0].String(); got != "a1a8" {
		t.Fatalf("first move: got %s want a1a8", got)
	}
	if got := ordered[1].String(); got != "e4d5" {
		t.Fatalf("second move: got %s want e4d5", got)
	}
	for i := 1; i < len(ordered); i++ {
		if orderKey(p, ordered[i]) > orderKey(p, ordered[i-1]) {
			t.Fatalf("keys not descending at %d: %s before %s", i, ordered[i-1], ordered[i])
		}
	}
}

func TestOrderMovesTiesReversed(t *testing.T) {
	p := board.MustParseFEN(orderingFEN)
	legal := p.LegalMoves()
	var quiet []board.Move
	for _, m := range legal {
		if orderKey(p, m) == quietKey {
			quiet = append(quiet, m)
		}
	}
	ordered := OrderMoves(p, legal)
	tail := ordered[len(ordered)-len(quiet):]
	for i, m := range tail {
		if want := quiet[len(quiet)-1-i]; m != want {
			t.Fatalf("quiet move %d: got %s want %s", i, m, want)
		}
	}
}

func TestFilterTactical(t *testing.T) {
	p := board.MustParseFEN(orderingFEN)
	legal := p.LegalMoves()

	got := FilterTactical(p, legal, 0)
	if len(got) != 2 {
		t.Fatalf("qply 0: got %v want the check and the capture", got)
	}
	got = FilterTactical(p, legal, QuiescenceCheckPly)
	if len(got) != 1 || got[0].String() != "e4d5" {
		t.Fatalf("qply %d: got %v want only e4d5", QuiescenceCheckPly, got)
	}

	// In check every evasion is kept, quiet or not.
	inCheck := board.MustParseFEN("R3k3/8/8/8/8/8/8/4K3 b - - 0 1")
	evasions := inCheck.LegalMoves()
	if got := FilterTactical(inCheck, evasions, QuiescenceCheckPly+5); len(got) != len(evasions) {
		t.Fatalf("in check: got %d moves want %d", len(got), len(evasions))
	}
}

func TestFilterTacticalEnPassant(t *testing.T) {
	p := board.MustParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	var found bool
	for _, m := range FilterTactical(p, p.LegalMoves(), QuiescenceCheckPly) {
		if m.String() == "e5d6" {
			found = true
		}
	}
	if !found {
		t.Fatalf("en passant capture missing from tactical moves")
	}
}
