package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chessmind/board"
	"chessmind/engine"
	"chessmind/tablebase"
)

const (
	engineName   = "chessmind"
	engineAuthor = "chessmind developers"
	maxDepth     = 64
	maxHashMB    = 4096
)

type uciOptions struct {
	Depth      int
	HashMB     int
	SyzygyPath string
	// Seed 0 seeds the root jitter from the clock.
	Seed int64
}

func main() {
	depth := flag.Int("depth", 2, "search depth in plies for go without depth")
	hash := flag.Int("hash", engine.DefaultCacheSizeMB, "position cache size in MB (0 disables it)")
	syzygy := flag.String("syzygy", "", "directory of *.epd endgame tables")
	seed := flag.Int64("seed", 0, "seed for root move jitter (0 = time based)")
	logLevel := flag.String("log-level", "info", "zerolog level: trace, debug, info, warn, error")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level: %v\n", err)
		os.Exit(2)
	}
	// stdout carries the protocol, logs go to stderr
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	opts := uciOptions{Depth: *depth, HashMB: *hash, SyzygyPath: *syzygy, Seed: *seed}
	if err := uciLoop(os.Stdin, os.Stdout, log.Logger, opts); err != nil {
		log.Fatal().Err(err).Msg("uci loop stopped")
	}
}

type uciSession struct {
	out    io.Writer
	base   zerolog.Logger
	log    zerolog.Logger
	opts   uciOptions
	eng    *engine.Engine
	oracle tablebase.Prober
	pos    board.Position
	debug  bool
}

// uciLoop reads UCI commands from in until quit or EOF. It only returns an
// error for failures the engine cannot recover from.
func uciLoop(in io.Reader, out io.Writer, logger zerolog.Logger, opts uciOptions) error {
	s := &uciSession{out: out, base: logger, log: logger, opts: opts, pos: board.Start()}
	if s.opts.Depth < 1 {
		s.opts.Depth = 1
	}
	if opts.SyzygyPath != "" {
		if err := s.loadTablebase(opts.SyzygyPath); err != nil {
			return err
		}
	}
	s.newGame()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			s.identify()
		case "isready":
			fmt.Fprintln(s.out, "readyok")
		case "debug":
			s.debug = len(tokens) > 1 && strings.EqualFold(tokens[1], "on")
		case "ucinewgame":
			s.pos = board.Start()
			s.newGame()
		case "setoption":
			s.setOption(tokens[1:])
		case "position":
			s.position(tokens[1:])
		case "go":
			if err := s.search(tokens[1:]); err != nil {
				return err
			}
		case "eval":
			s.eval()
		case "stop":
			// search runs synchronously, there is nothing to stop
		case "quit":
			return nil
		default:
			fmt.Fprintln(s.out, "info string Unknown command:", line)
		}
	}
	return scanner.Err()
}

func (s *uciSession) identify() {
	fmt.Fprintln(s.out, "id name", engineName)
	fmt.Fprintln(s.out, "id author", engineAuthor)
	fmt.Fprintf(s.out, "option name Depth type spin default %d min 1 max %d\n", s.opts.Depth, maxDepth)
	fmt.Fprintf(s.out, "option name Hash type spin default %d min 0 max %d\n", s.opts.HashMB, maxHashMB)
	fmt.Fprintln(s.out, "option name SyzygyPath type string default <empty>")
	fmt.Fprintf(s.out, "option name Seed type spin default %d min 0 max %d\n", s.opts.Seed, int64(1<<31-1))
	fmt.Fprintln(s.out, "uciok")
}

// newGame starts a new session id and rebuilds the engine from the
// current options.
func (s *uciSession) newGame() {
	id := uuid.NewString()
	s.log = s.base.With().Str("session", id).Logger()

	opts := []engine.Option{engine.WithCacheSizeMB(s.opts.HashMB), engine.WithLogger(s.log)}
	if s.opts.Seed != 0 {
		opts = append(opts, engine.WithSeed(s.opts.Seed))
	}
	if s.oracle != nil {
		opts = append(opts, engine.WithOracle(s.oracle))
	}
	if s.eng == nil {
		s.eng = engine.New(opts...)
	} else {
		s.eng.NewGame()
		s.eng.SetLogger(s.log)
	}
	s.log.Debug().Int("depth", s.opts.Depth).Int("hash_mb", s.opts.HashMB).Msg("new game")
}

func (s *uciSession) loadTablebase(path string) error {
	dir, err := tablebase.OpenDirectory(path, s.base)
	if err != nil {
		return err
	}
	s.oracle = dir
	return nil
}

// setOption handles "setoption name <id> [value <x>]".
func (s *uciSession) setOption(args []string) {
	var name, value []string
	target := &name
	for _, tok := range args {
		switch strings.ToLower(tok) {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, tok)
		}
	}
	key, val := strings.ToLower(strings.Join(name, " ")), strings.Join(value, " ")

	switch key {
	case "depth":
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 || n > maxDepth {
			fmt.Fprintln(s.out, "info string Malformed Depth value", val)
			return
		}
		s.opts.Depth = n
	case "hash":
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 || n > maxHashMB {
			fmt.Fprintln(s.out, "info string Malformed Hash value", val)
			return
		}
		s.opts.HashMB = n
		s.eng = nil
		s.newGame()
	case "seed":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil || n < 0 {
			fmt.Fprintln(s.out, "info string Malformed Seed value", val)
			return
		}
		s.opts.Seed = n
		s.eng = nil
		s.newGame()
	case "syzygypath":
		if val == "" || val == "<empty>" {
			s.opts.SyzygyPath, s.oracle = "", nil
		} else {
			if err := s.loadTablebase(val); err != nil {
				s.log.Error().Err(err).Str("path", val).Msg("tablebase not loaded")
				fmt.Fprintln(s.out, "info string Could not load tablebase:", err)
				return
			}
			s.opts.SyzygyPath = val
		}
		s.eng = nil
		s.newGame()
	default:
		fmt.Fprintln(s.out, "info string Unknown option", strings.Join(name, " "))
	}
}

// position handles "position [startpos | fen <fen>] [moves <m1> ...]".
func (s *uciSession) position(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "info string Malformed position command")
		return
	}
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		s.pos = board.Start()
	case "fen":
		var fields []string
		for len(rest) > 0 && !strings.EqualFold(rest[0], "moves") {
			fields, rest = append(fields, rest[0]), rest[1:]
		}
		pos, err := board.ParseFEN(strings.Join(fields, " "))
		if err != nil {
			fmt.Fprintln(s.out, "info string Invalid fen position:", err)
			return
		}
		s.pos = pos
	default:
		fmt.Fprintln(s.out, "info string Invalid position subcommand")
		return
	}

	if len(rest) == 0 || !strings.EqualFold(rest[0], "moves") {
		return
	}
	for _, uci := range rest[1:] {
		m, err := s.pos.FindMove(strings.ToLower(uci))
		if err != nil {
			fmt.Fprintln(s.out, "info string Move", uci, "not found for position", s.pos.FEN())
			return
		}
		s.pos = s.pos.Apply(m)
	}
}

// parseGo turns the arguments of a go command into a depth and a clock.
func (s *uciSession) parseGo(args []string) (int, engine.TimeControl) {
	depth := s.opts.Depth
	var tc engine.TimeControl
	for i := 0; i < len(args); i++ {
		key := strings.ToLower(args[i])
		var dst *int
		switch key {
		case "infinite":
			continue
		case "depth":
			dst = &depth
		case "wtime":
			dst = &tc.WTime
		case "btime":
			dst = &tc.BTime
		case "winc":
			dst = &tc.WInc
		case "binc":
			dst = &tc.BInc
		case "movetime":
			dst = &tc.MoveTime
		default:
			fmt.Fprintln(s.out, "info string Unknown go subcommand", key)
			continue
		}
		if i+1 >= len(args) {
			fmt.Fprintln(s.out, "info string Malformed go command option", key)
			break
		}
		i++
		n, err := strconv.Atoi(args[i])
		if err != nil {
			fmt.Fprintln(s.out, "info string Malformed go command option; could not convert", key)
			continue
		}
		*dst = n
	}
	return depth, tc
}

func (s *uciSession) search(args []string) error {
	depth, tc := s.parseGo(args)
	ctx, cancel := tc.Context(context.Background(), s.pos)
	defer cancel()

	res, err := s.eng.SelectMoveContext(ctx, s.pos, depth)
	switch {
	case errors.Is(err, engine.ErrCheckmate):
		fmt.Fprintln(s.out, "info string checkmate")
		fmt.Fprintln(s.out, "bestmove (none)")
		return nil
	case errors.Is(err, engine.ErrStalemate):
		fmt.Fprintln(s.out, "info string stalemate")
		fmt.Fprintln(s.out, "bestmove (none)")
		return nil
	case err != nil:
		return fmt.Errorf("search %s: %w", s.pos.FEN(), err)
	}

	fmt.Fprintf(s.out, "info depth %d score %s nodes %d time %d\n",
		res.Depth, uciScore(res.Score), res.Stats.Total(), res.Elapsed.Milliseconds())
	if s.debug {
		res.Stats.WriteInfo(s.out)
	}
	fmt.Fprintln(s.out, "bestmove", res.Move)
	return nil
}

// uciScore formats a score as "cp <n>", or "mate <moves>" for forced mates
// (negative when the engine is getting mated).
func uciScore(score int) string {
	if !engine.IsMateScore(score) {
		return fmt.Sprintf("cp %d", score)
	}
	if score > 0 {
		return fmt.Sprintf("mate %d", (engine.MateScore-score+1)/2)
	}
	return fmt.Sprintf("mate -%d", (engine.MateScore+score)/2)
}

func (s *uciSession) eval() {
	ev := s.eng.Evaluator()
	stm, opp := s.pos.SideToMove(), s.pos.SideToMove().Other()
	fmt.Fprintf(s.out, "info string eval %d material %d mobility %d center %d\n",
		ev.Evaluate(s.pos, -engine.Infinity, engine.Infinity),
		engine.MaterialScore(s.pos),
		engine.Mobility(s.pos, stm)-engine.Mobility(s.pos, opp),
		engine.CenterControl(s.pos, stm)-engine.CenterControl(s.pos, opp))
}
