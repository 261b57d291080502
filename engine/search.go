package engine

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chessmind/board"
	"chessmind/tablebase"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	// MateScore is the score of a side that has been mated, negated.
	MateScore = 99999
	// Infinity bounds the root window.
	Infinity = 999999
	// Scores beyond MateScore-MaxMatePly are mates, shortened by one per ply
	// from the root.
	MaxMatePly = 1000
)

// The context is polled once every abortCheckInterval nodes.
const abortCheckInterval = 1024

var (
	ErrCheckmate = errors.New("engine: side to move is checkmated")
	ErrStalemate = errors.New("engine: side to move is stalemated")
)

// Result describes the move chosen by a root search.
type Result struct {
	Move       board.Move
	Score      int
	Depth      int
	Status     board.Status
	FromOracle bool
	// Aborted is set when the context ended the search early; Move is then
	// the best fully searched root move.
	Aborted bool
	Stats   Stats
	Elapsed time.Duration
}

// Engine selects moves with a depth-limited negamax search. An Engine owns
// its cache and random source and must not be used from several goroutines
// at once.
type Engine struct {
	eval   *Evaluator
	cache  *PositionCache
	oracle *Oracle
	rng    *rand.Rand
	log    zerolog.Logger

	cacheSizeMB int
	stats       Stats
	ctx         context.Context
	aborted     bool
}

type Option func(*Engine)

// WithCacheSizeMB sets the position cache size. 0 disables the cache.
func WithCacheSizeMB(mb int) Option {
	return func(e *Engine) { e.cacheSizeMB = mb }
}

// WithOracle attaches an endgame tablebase.
func WithOracle(p tablebase.Prober) Option {
	return func(e *Engine) { e.oracle = NewOracle(p) }
}

// WithRand sets the source of the root tie-breaking jitter. nil turns the
// jitter off.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithEvaluator(ev *Evaluator) Option {
	return func(e *Engine) { e.eval = ev }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		eval:        NewEvaluator(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         log.Logger,
		cacheSizeMB: DefaultCacheSizeMB,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = NewPositionCache(e.cacheSizeMB)
	return e
}

func (e *Engine) Evaluator() *Evaluator   { return e.eval }
func (e *Engine) Cache() *PositionCache   { return e.cache }
func (e *Engine) Oracle() *Oracle         { return e.oracle }
func (e *Engine) Stats() Stats            { return e.stats }
func (e *Engine) Logger() *zerolog.Logger { return &e.log }

// SetLogger replaces the logger, e.g. to tag a new game.
func (e *Engine) SetLogger(l zerolog.Logger) { e.log = l }

// NewGame forgets every cached score.
func (e *Engine) NewGame() {
	e.cache.Clear()
}

// SelectMove searches pos to the given depth and returns the best move.
func (e *Engine) SelectMove(pos board.Position, depth int) (Result, error) {
	return e.SelectMoveContext(context.Background(), pos, depth)
}

// SelectMoveContext is SelectMove with cancellation. Depths below 1 are
// searched as depth 1. A position without legal moves returns ErrCheckmate
// or ErrStalemate.
func (e *Engine) SelectMoveContext(ctx context.Context, pos board.Position, depth int) (Result, error) {
	start := time.Now()
	if depth < 1 {
		e.log.Warn().Int("depth", depth).Msg("depth below 1, searching depth 1")
		depth = 1
	}
	e.stats.reset()
	e.ctx = ctx
	e.aborted = false

	result := Result{Depth: depth, Status: pos.Status()}
	switch result.Status {
	case board.Checkmate:
		return result, ErrCheckmate
	case board.Stalemate:
		return result, ErrStalemate
	}

	if e.oracle.Consultable(pos) {
		score, m, err := e.oracle.Probe(pos)
		switch {
		case err == nil:
			e.stats.OracleHits++
			result.Move, result.Score, result.FromOracle = m, score, true
			result.Stats, result.Elapsed = e.stats, time.Since(start)
			e.logResult(pos, result)
			return result, nil
		case errors.Is(err, ErrUntranslatableMove):
			e.log.Error().Err(err).Str("fen", pos.FEN()).Msg("oracle move not translatable")
			return result, err
		default:
			e.stats.OracleFallbacks++
			e.log.Debug().Err(err).Str("fen", pos.FEN()).Msg("oracle probe failed, searching")
		}
	}

	bestMove, bestScore := board.NoMove, -Infinity
	moves := OrderMoves(pos, pos.LegalMoves())
	for _, m := range moves {
		if ctx.Err() != nil {
			e.aborted = true
		}
		if e.aborted {
			break
		}
		score := -e.negamax(pos.Apply(m), -Infinity, Infinity, depth-1, 1)
		if e.aborted {
			// the move in flight was not fully searched
			break
		}
		if !IsMateScore(score) {
			score += e.jitter()
		}
		if bestMove == board.NoMove || score > bestScore {
			bestMove, bestScore = m, score
		}
	}
	if bestMove == board.NoMove {
		bestMove, bestScore = moves[0], 0
	}

	result.Move, result.Score, result.Aborted = bestMove, bestScore, e.aborted
	result.Stats, result.Elapsed = e.stats, time.Since(start)
	e.logResult(pos, result)
	return result, nil
}

func (e *Engine) logResult(pos board.Position, r Result) {
	e.log.Debug().
		Str("fen", pos.FEN()).
		Str("move", r.Move.String()).
		Int("score", r.Score).
		Int("depth", r.Depth).
		Bool("oracle", r.FromOracle).
		Bool("aborted", r.Aborted).
		Dur("elapsed", r.Elapsed).
		Object("stats", r.Stats).
		Msg("search finished")
}

// IsMateScore reports whether score announces a forced mate for either side.
func IsMateScore(score int) bool {
	return Abs(score) > MateScore-MaxMatePly
}

func (e *Engine) jitter() int {
	if e.rng == nil {
		return 0
	}
	return e.rng.Intn(3) - 1
}

// shouldStop polls the context every abortCheckInterval nodes. Once it
// fires the rest of the search unwinds returning 0.
func (e *Engine) shouldStop() bool {
	if e.aborted {
		return true
	}
	if e.ctx != nil && e.stats.Total()&(abortCheckInterval-1) == 0 && e.ctx.Err() != nil {
		e.aborted = true
	}
	return e.aborted
}

// negamax returns the best score for the side to move. The result is
// fail-soft: alpha is returned as raised by the children and may exceed beta.
// height is the distance from the root in plies.
func (e *Engine) negamax(pos board.Position, alpha, beta, depth, height int) int {
	e.stats.Nodes++
	if e.shouldStop() {
		return 0
	}
	if depth <= 0 {
		return e.quiesce(pos, alpha, beta, 0, height)
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return e.quiesce(pos, alpha, beta, 0, height)
	}

	if e.oracle.Consultable(pos) {
		score, err := e.oracle.ProbeScore(pos, height)
		if err == nil {
			e.stats.OracleHits++
			return score
		}
		e.stats.OracleFallbacks++
	}

	for _, m := range OrderMoves(pos, moves) {
		score := -e.negamax(pos.Apply(m), -beta, -alpha, depth-1, height+1)
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			e.stats.BetaCutoffs++
			break
		}
	}
	return alpha
}

// quiesce follows captures, and checks up to QuiescenceCheckPly, until the
// position is quiet. Cutoffs are fail-hard: beta is returned. ply counts
// quiescence plies, height plies from the root.
func (e *Engine) quiesce(pos board.Position, alpha, beta, ply, height int) int {
	e.stats.QNodes++
	if e.shouldStop() {
		return 0
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return -MateScore + height
		}
		return 0
	}

	standPat, ok := e.probeCache(pos, height)
	if ok {
		e.stats.CacheHits++
	} else {
		e.stats.CacheMisses++
		standPat = e.eval.evaluate(pos, alpha, beta)
		e.recordCache(pos, standPat, height)
	}
	if standPat >= beta {
		e.stats.StandPatCutoffs++
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	for _, m := range FilterTactical(pos, moves, ply) {
		score := -e.quiesce(pos.Apply(m), -beta, -alpha, ply+1, height+1)
		if score >= beta {
			e.stats.QBetaCutoffs++
			alpha = beta
			break
		}
		if score > alpha {
			alpha = score
		}
	}
	if !e.aborted {
		e.recordCache(pos, alpha, height)
	}
	return alpha
}

// Mate scores are cached as distance from pos rather than from the root,
// so a hit at another height still counts plies correctly.
func (e *Engine) recordCache(pos board.Position, score, height int) {
	switch {
	case score > MateScore-MaxMatePly:
		score += height
	case score < -MateScore+MaxMatePly:
		score -= height
	}
	e.cache.Record(pos, score)
}

func (e *Engine) probeCache(pos board.Position, height int) (int, bool) {
	score, ok := e.cache.Probe(pos)
	if !ok {
		return 0, false
	}
	switch {
	case score > MateScore-MaxMatePly:
		score -= height
	case score < -MateScore+MaxMatePly:
		score += height
	}
	return score, true
}
