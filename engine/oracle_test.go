package engine

import (
	"errors"
	"testing"

	"github.com/notnil/chess"

	"chessmind/board"
	"chessmind/tablebase"
)

func decodeForeign(t *testing.T, fen, uci string) *chess.Move {
	t.Helper()
	pos, err := tablebase.PositionFromFEN(fen)
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	m, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		t.Fatalf("Decode %s: %v", uci, err)
	}
	return m
}

func TestTranslateMove(t *testing.T) {
	cases := []struct {
		name    string
		fen     string
		uci     string
		promo   board.Piece
		capture bool
	}{
		{"normal", "4k3/8/4K3/4P3/8/8/8/8 w - - 0 1", "e6d6", board.NoPiece, false},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", board.NoPiece, true},
		{"promotion", "8/4P3/8/8/8/8/k7/4K3 w - - 0 1", "e7e8n", board.Knight, false},
	}
	for _, tc := range cases {
		pos := board.MustParseFEN(tc.fen)
		m, err := translateMove(pos, decodeForeign(t, tc.fen, tc.uci))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if m.String() != tc.uci {
			t.Fatalf("%s: got %s want %s", tc.name, m, tc.uci)
		}
		if m.Promotion() != tc.promo {
			t.Fatalf("%s: promotion got %v want %v", tc.name, m.Promotion(), tc.promo)
		}
		if pos.IsCapture(m) != tc.capture {
			t.Fatalf("%s: capture got %v want %v", tc.name, pos.IsCapture(m), tc.capture)
		}
	}
}

func TestTranslateMoveRejectsCastling(t *testing.T) {
	fen := "4k3/8/8/8/8/8/8/4K2R w K - 0 1"
	_, err := translateMove(board.MustParseFEN(fen), decodeForeign(t, fen, "e1g1"))
	if !errors.Is(err, ErrUntranslatableMove) {
		t.Fatalf("expected ErrUntranslatableMove, got %v", err)
	}
	if _, err := translateMove(board.MustParseFEN(fen), nil); !errors.Is(err, ErrUntranslatableMove) {
		t.Fatalf("expected ErrUntranslatableMove for nil move, got %v", err)
	}
}

func TestWDLScore(t *testing.T) {
	cases := map[tablebase.WDL]int{
		tablebase.Win:         MateScore,
		tablebase.CursedWin:   MateScore,
		tablebase.Draw:        0,
		tablebase.BlessedLoss: -MateScore,
		tablebase.Loss:        -MateScore,
	}
	for wdl, want := range cases {
		if got := wdlScore(wdl, 0); got != want {
			t.Fatalf("%v: got %d want %d", wdl, got, want)
		}
	}
	if got := wdlScore(tablebase.Win, 3); got != MateScore-3 {
		t.Fatalf("win at height 3: got %d want %d", got, MateScore-3)
	}
	if got := wdlScore(tablebase.Loss, 3); got != -MateScore+3 {
		t.Fatalf("loss at height 3: got %d want %d", got, -MateScore+3)
	}
}

func TestOracleConsultable(t *testing.T) {
	tb := tablebase.NewTable()
	kpk := board.MustParseFEN("4k3/8/4K3/4P3/8/8/8/8 w - - 0 1")
	five := board.MustParseFEN("4k3/8/4K3/4P3/8/8/2PP4/8 w - - 0 1")

	var none *Oracle
	if none.Consultable(kpk) {
		t.Fatalf("nil oracle should never be consulted")
	}
	if NewOracle(tb).Consultable(kpk) {
		t.Fatalf("empty table should never be consulted")
	}
	if NewOracle(tablebase.NoopProber{}).Consultable(kpk) {
		t.Fatalf("noop prober should never be consulted")
	}

	if err := tb.Add("4k3/8/4K3/4P3/8/8/8/8 w - -", tablebase.Win, "e6d6"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	o := NewOracle(tb)
	if !o.Consultable(kpk) {
		t.Fatalf("3 pieces with 3-piece tables should be consulted")
	}
	if o.Consultable(five) {
		t.Fatalf("5 pieces with 3-piece tables should not be consulted")
	}
	if o.Consultable(board.Start()) {
		t.Fatalf("start position should not be consulted")
	}

	score, m, err := o.Probe(kpk)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if score != MateScore || m.String() != "e6d6" {
		t.Fatalf("Probe: got %d %s", score, m)
	}
}

type fullProber struct{ tablebase.NoopProber }

func (fullProber) MaxPieces() int  { return 32 }
func (fullProber) Available() bool { return true }

func TestOraclePieceLimit(t *testing.T) {
	o := NewOracle(fullProber{})
	five := board.MustParseFEN("4k3/8/4K3/4P3/8/8/2PP4/8 w - - 0 1")
	six := board.MustParseFEN("4k3/8/4K3/4P3/8/8/1PPP4/8 w - - 0 1")
	if !o.Consultable(five) {
		t.Fatalf("5 pieces should be consulted")
	}
	if o.Consultable(six) {
		t.Fatalf("%d pieces should not be consulted", six.PieceCount())
	}
}
