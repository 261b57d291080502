package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"chessmind/board"
	"chessmind/engine"
	"chessmind/tablebase"
)

func quietEngine(int) *engine.Engine {
	return engine.New(engine.WithLogger(zerolog.Nop()), engine.WithRand(nil), engine.WithCacheSizeMB(1))
}

func TestReadJobs(t *testing.T) {
	in := "# endgames\n\n" + board.StartFEN + "\n  4k3/8/8/8/8/8/8/3QK3 w - - 0 1  \n"
	jobs, err := readJobs(strings.NewReader(in))
	if err != nil {
		t.Fatalf("readJobs: %v", err)
	}
	if len(jobs) != 2 || jobs[1].fen != "4k3/8/8/8/8/8/8/3QK3 w - - 0 1" {
		t.Fatalf("got %+v", jobs)
	}
	if jobs[0].id == jobs[1].id {
		t.Fatalf("job ids must differ")
	}
}

func TestRunKeepsJobOrder(t *testing.T) {
	jobs := []job{
		{id: "a", fen: "6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1"},
		{id: "b", fen: "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"},
		{id: "c", fen: "garbage"},
		{id: "d", fen: board.StartFEN},
	}
	results, err := run(context.Background(), jobs, 2, 3, quietEngine)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.id != jobs[i].id {
			t.Fatalf("result %d belongs to job %s", i, r.id)
		}
	}
	if results[0].err != nil || results[0].res.Move.String() != "d1d8" {
		t.Fatalf("mate in one: %+v", results[0])
	}
	if !errors.Is(results[1].err, engine.ErrCheckmate) {
		t.Fatalf("checkmate: %v", results[1].err)
	}
	if results[2].err == nil {
		t.Fatalf("bad FEN should be reported")
	}
	if results[3].err != nil || results[3].res.Move == board.NoMove {
		t.Fatalf("start position: %+v", results[3])
	}
}

func TestRunStopsOnFatalError(t *testing.T) {
	tb := tablebase.NewTable()
	if err := tb.Add("4k3/8/8/8/8/8/8/4K2R w K -", tablebase.Win, "e1g1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	newEngine := func(int) *engine.Engine {
		return engine.New(engine.WithLogger(zerolog.Nop()), engine.WithCacheSizeMB(1), engine.WithOracle(tb))
	}
	jobs := []job{{id: "castle", fen: "4k3/8/8/8/8/8/8/4K2R w K - 0 1"}}
	if _, err := run(context.Background(), jobs, 2, 2, newEngine); !errors.Is(err, engine.ErrUntranslatableMove) {
		t.Fatalf("expected ErrUntranslatableMove, got %v", err)
	}
}
