package engine

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Stats counts what one root search did.
type Stats struct {
	Nodes           uint64
	QNodes          uint64
	BetaCutoffs     uint64
	StandPatCutoffs uint64
	QBetaCutoffs    uint64
	CacheHits       uint64
	CacheMisses     uint64
	OracleHits      uint64
	OracleFallbacks uint64
}

func (s *Stats) reset() {
	*s = Stats{}
}

// Total is main plus quiescence nodes.
func (s Stats) Total() uint64 {
	return s.Nodes + s.QNodes
}

func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("nodes", s.Nodes).
		Uint64("qnodes", s.QNodes).
		Uint64("beta_cutoffs", s.BetaCutoffs).
		Uint64("standpat_cutoffs", s.StandPatCutoffs).
		Uint64("qbeta_cutoffs", s.QBetaCutoffs).
		Uint64("cache_hits", s.CacheHits).
		Uint64("cache_misses", s.CacheMisses).
		Uint64("oracle_hits", s.OracleHits).
		Uint64("oracle_fallbacks", s.OracleFallbacks)
}

// WriteInfo dumps the counters as UCI info strings.
func (s Stats) WriteInfo(w io.Writer) {
	fmt.Fprintln(w, "info string Search statistics:")
	fmt.Fprintf(w, "info string   Nodes: %d\n", s.Nodes)
	fmt.Fprintf(w, "info string   Quiescence nodes: %d\n", s.QNodes)
	fmt.Fprintf(w, "info string   Beta cutoffs: %d\n", s.BetaCutoffs)
	fmt.Fprintf(w, "info string   QStandPat cutoffs: %d\n", s.StandPatCutoffs)
	fmt.Fprintf(w, "info string   QBeta cutoffs: %d\n", s.QBetaCutoffs)
	fmt.Fprintf(w, "info string   Cache hits: %d\n", s.CacheHits)
	fmt.Fprintf(w, "info string   Cache misses: %d\n", s.CacheMisses)
	fmt.Fprintf(w, "info string   Oracle hits: %d\n", s.OracleHits)
	fmt.Fprintf(w, "info string   Oracle fallbacks: %d\n", s.OracleFallbacks)
}
