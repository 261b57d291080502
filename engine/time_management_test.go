package engine

import (
	"context"
	"testing"
	"time"

	"chessmind/board"
)

func TestTimeControlBudget(t *testing.T) {
	start := board.Start()
	black := board.MustParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	cases := []struct {
		name string
		tc   TimeControl
		pos  board.Position
		want time.Duration
	}{
		{"no clock", TimeControl{}, start, 0},
		{"movetime", TimeControl{MoveTime: 500, WTime: 60000}, start, 500 * time.Millisecond},
		{"sudden death", TimeControl{WTime: 60000}, start, 1500 * time.Millisecond},
		{"increment", TimeControl{WTime: 60000, WInc: 1000}, start, (60000/45 + 1000) * time.Millisecond},
		{"panic", TimeControl{WTime: 800, WInc: 1000}, start, 560 * time.Millisecond},
		{"black clock", TimeControl{WTime: 60000, BTime: 4000}, black, 100 * time.Millisecond},
		{"floor", TimeControl{WTime: 20}, start, 5 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := tc.tc.Budget(tc.pos); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestTimeControlContext(t *testing.T) {
	ctx, cancel := TimeControl{MoveTime: 50}.Context(context.Background(), board.Start())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Fatalf("expected a deadline")
	}

	ctx, cancel = TimeControl{}.Context(context.Background(), board.Start())
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatalf("no clock should mean no deadline")
	}
}
