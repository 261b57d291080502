package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"chessmind/board"
	"chessmind/engine"
	"chessmind/tablebase"
)

type job struct {
	id  string
	fen string
}

type outcome struct {
	job
	res engine.Result
	err error
}

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", 4, "search depth in plies")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	fileFlag := flag.String("file", "", "file with one FEN per line, searched instead of -fen")
	workersFlag := flag.Int("workers", runtime.NumCPU(), "concurrent engines in file mode")
	seedFlag := flag.Int64("seed", 0, "root jitter seed (0 = no jitter)")
	hashFlag := flag.Int("hash", 16, "position cache size per engine in MB")
	syzygyFlag := flag.String("syzygy", "", "directory of *.epd endgame tables")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.InfoLevel).With().Timestamp().Logger()

	if *depthFlag <= 0 {
		log.Fatal().Int("depth", *depthFlag).Msg("depth must be positive")
	}
	if *workersFlag <= 0 {
		*workersFlag = 1
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	var prober tablebase.Prober
	if *syzygyFlag != "" {
		dir, err := tablebase.OpenDirectory(*syzygyFlag, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load tablebase")
		}
		prober = dir
	}

	jobs := []job{{id: uuid.NewString(), fen: *fenFlag}}
	if *fenFlag == "" {
		jobs[0].fen = board.StartFEN
	}
	if *fileFlag != "" {
		f, err := os.Open(*fileFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open FEN file")
		}
		jobs, err = readJobs(f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", *fileFlag).Msg("could not read FEN file")
		}
	}

	newEngine := func(worker int) *engine.Engine {
		opts := []engine.Option{
			engine.WithCacheSizeMB(*hashFlag),
			engine.WithLogger(log.Logger.With().Int("worker", worker).Logger()),
			engine.WithRand(nil),
		}
		if *seedFlag != 0 {
			opts = append(opts, engine.WithSeed(*seedFlag+int64(worker)))
		}
		if prober != nil {
			opts = append(opts, engine.WithOracle(prober))
		}
		return engine.New(opts...)
	}

	log.Info().Int("positions", len(jobs)).Int("depth", *depthFlag).Int("workers", *workersFlag).Msg("searchbench")

	startAll := time.Now()
	results, err := run(context.Background(), jobs, *depthFlag, *workersFlag, newEngine)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}
	var nodes uint64
	for _, r := range results {
		nodes += r.res.Stats.Total()
		switch {
		case r.err != nil:
			fmt.Printf("%s  %-60s  %v\n", r.id[:8], r.fen, r.err)
		default:
			fmt.Printf("%s  %-60s  bestmove %s score %d nodes %d time %v\n",
				r.id[:8], r.fen, r.res.Move, r.res.Score, r.res.Stats.Total(), r.res.Elapsed)
		}
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total: %d positions, %d nodes, %v, %.0f nps\n",
		len(results), nodes, totalElapsed, float64(nodes)/totalElapsed.Seconds())

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}

// readJobs reads one FEN per line, skipping blank lines and '#' comments.
func readJobs(r io.Reader) ([]job, error) {
	var jobs []job
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		jobs = append(jobs, job{id: uuid.NewString(), fen: line})
	}
	return jobs, scanner.Err()
}

// run searches every job with a pool of workers, one engine each. Results
// keep the order of jobs. Terminal positions and bad FENs are reported per
// job; any other search error stops the whole run.
func run(ctx context.Context, jobs []job, depth, workers int, newEngine func(worker int) *engine.Engine) ([]outcome, error) {
	results := make([]outcome, len(jobs))
	queue := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(queue)
		for i := range jobs {
			select {
			case queue <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			e := newEngine(w)
			for i := range queue {
				results[i] = outcome{job: jobs[i]}
				pos, err := board.ParseFEN(jobs[i].fen)
				if err != nil {
					results[i].err = err
					continue
				}
				e.NewGame()
				res, err := e.SelectMoveContext(ctx, pos, depth)
				results[i].res, results[i].err = res, err
				if err != nil && !errors.Is(err, engine.ErrCheckmate) && !errors.Is(err, engine.ErrStalemate) {
					return fmt.Errorf("job %s: %w", jobs[i].id, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
