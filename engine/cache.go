package engine

import (
	"unsafe"

	"chessmind/board"
)

// In MB
const DefaultCacheSizeMB = 64

type cacheEntry struct {
	hash  uint64
	score int32
	used  bool
}

// PositionCache maps position hashes to scores. It is direct-mapped: every
// hash has exactly one slot and a write always replaces what is there.
// Scores are kept from White's point of view so either side can read them.
//
// A hash collision between different positions returns the other
// position's score.
type PositionCache struct {
	entries []cacheEntry
	mask    uint64
	used    int
}

// NewPositionCache sizes the cache to the largest power-of-two entry count
// that fits in sizeMB. A size of 0 disables caching.
func NewPositionCache(sizeMB int) *PositionCache {
	c := &PositionCache{}
	if sizeMB <= 0 {
		return c
	}
	entrySize := uint64(unsafe.Sizeof(cacheEntry{}))
	count := uint64(sizeMB) * 1024 * 1024 / entrySize
	if count == 0 {
		count = 1
	}
	// round down to a power of two
	for count&(count-1) != 0 {
		count &= count - 1
	}
	c.entries = make([]cacheEntry, count)
	c.mask = count - 1
	return c
}

// Probe returns the stored score for pos from its side to move's view.
func (c *PositionCache) Probe(pos board.Position) (int, bool) {
	if len(c.entries) == 0 {
		return 0, false
	}
	hash := pos.Hash()
	entry := &c.entries[hash&c.mask]
	if !entry.used || entry.hash != hash {
		return 0, false
	}
	score := int(entry.score)
	if pos.SideToMove() == board.Black {
		score = -score
	}
	return score, true
}

// Record stores score, given from pos's side to move, for pos.
func (c *PositionCache) Record(pos board.Position, score int) {
	if len(c.entries) == 0 {
		return
	}
	if pos.SideToMove() == board.Black {
		score = -score
	}
	hash := pos.Hash()
	entry := &c.entries[hash&c.mask]
	if !entry.used {
		c.used++
	}
	entry.hash = hash
	entry.score = int32(score)
	entry.used = true
}

func (c *PositionCache) Clear() {
	for i := range c.entries {
		c.entries[i] = cacheEntry{}
	}
	c.used = 0
}

// Len is the number of occupied slots.
func (c *PositionCache) Len() int {
	return c.used
}

func (c *PositionCache) Capacity() int {
	return len(c.entries)
}
