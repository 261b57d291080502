package tablebase

import (
	"errors"
	"fmt"
	"sync"

	"github.com/notnil/chess"
)

// Entry is one stored verdict. Move is in UCI notation and may be empty.
type Entry struct {
	WDL  WDL
	Move string
}

// Table is an in-memory Prober. It is safe for concurrent reads once
// loading has finished.
type Table struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	maxPieces int
}

func NewTable() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Add stores a verdict for fen. A non-empty move must be legal in fen.
func (t *Table) Add(fen string, wdl WDL, move string) error {
	if wdl < Loss || wdl > Win {
		return fmt.Errorf("tablebase: wdl %d out of range", wdl)
	}
	pos, err := PositionFromFEN(fen)
	if err != nil {
		return fmt.Errorf("tablebase: %w", err)
	}
	if move != "" {
		if err := checkLegal(pos, move); err != nil {
			return fmt.Errorf("tablebase: move %q in %q: %w", move, fen, err)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[Key(pos)] = Entry{WDL: wdl, Move: move}
	if n := CountPieces(pos); n > t.maxPieces {
		t.maxPieces = n
	}
	return nil
}

func checkLegal(pos *chess.Position, move string) error {
	m, err := chess.UCINotation{}.Decode(pos, move)
	if err != nil {
		return err
	}
	for _, valid := range pos.ValidMoves() {
		if valid.S1() == m.S1() && valid.S2() == m.S2() && valid.Promo() == m.Promo() {
			return nil
		}
	}
	return errors.New("illegal move")
}

func (t *Table) lookup(pos *chess.Position) (Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.entries) == 0 {
		return Entry{}, ErrUnavailable
	}
	e, ok := t.entries[Key(pos)]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (t *Table) ProbeWDL(pos *chess.Position) (WDL, error) {
	e, err := t.lookup(pos)
	if err != nil {
		return Draw, err
	}
	return e.WDL, nil
}

func (t *Table) BestMove(pos *chess.Position) (*chess.Move, error) {
	e, err := t.lookup(pos)
	if err != nil {
		return nil, err
	}
	if e.Move == "" {
		return nil, fmt.Errorf("%w: no move stored for %s", ErrNotFound, Key(pos))
	}
	return chess.UCINotation{}.Decode(pos, e.Move)
}

func (t *Table) MaxPieces() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.maxPieces
}

func (t *Table) Available() bool {
	return t.Len() > 0
}

// Len is the number of stored positions.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
