package tablebase

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Directory is a Table filled from the *.epd files of one directory.
//
// Each line holds a position and its operations:
//
//	4k3/8/4K3/4P3/8/8/8/8 w - - wdl 2; bm e6d6;
//
// Empty lines and lines starting with '#' are skipped.
type Directory struct {
	*Table
	Path  string
	Files []string
}

// OpenDirectory loads every *.epd file below path. A directory without
// tables is not an error; the result just reports Available() == false.
func OpenDirectory(path string, log zerolog.Logger) (*Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("tablebase: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tablebase: %s is not a directory", path)
	}

	files, err := filepath.Glob(filepath.Join(path, "*.epd"))
	if err != nil {
		return nil, fmt.Errorf("tablebase: %w", err)
	}
	sort.Strings(files)

	d := &Directory{Table: NewTable(), Path: path, Files: files}
	for _, name := range files {
		n, err := d.loadFile(name)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("file", name).Int("positions", n).Msg("tablebase file loaded")
	}
	log.Info().
		Str("path", path).
		Int("files", len(files)).
		Int("positions", d.Len()).
		Int("max_pieces", d.MaxPieces()).
		Msg("tablebase loaded")
	return d, nil
}

func (d *Directory) loadFile(name string) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, fmt.Errorf("tablebase: %w", err)
	}
	defer f.Close()
	n, err := LoadEPD(d.Table, f)
	if err != nil {
		return n, fmt.Errorf("tablebase: %s: %w", filepath.Base(name), err)
	}
	return n, nil
}

// LoadEPD adds every line of r to t and returns the number of positions read.
func LoadEPD(t *Table, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	lineNo, loaded := 0, 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fen, wdl, move, err := parseEPDLine(line)
		if err != nil {
			return loaded, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := t.Add(fen, wdl, move); err != nil {
			return loaded, fmt.Errorf("line %d: %w", lineNo, err)
		}
		loaded++
	}
	return loaded, sc.Err()
}

func parseEPDLine(line string) (fen string, wdl WDL, move string, err error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return "", 0, "", fmt.Errorf("want at least 4 fen fields, got %d", len(fields))
	}
	fen = strings.Join(fields[:4], " ")

	haveWDL := false
	for _, op := range strings.Split(strings.Join(fields[4:], " "), ";") {
		parts := strings.Fields(op)
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "wdl":
			if len(parts) != 2 {
				return "", 0, "", fmt.Errorf("malformed wdl operation %q", op)
			}
			v, convErr := strconv.Atoi(parts[1])
			if convErr != nil {
				return "", 0, "", fmt.Errorf("wdl: %w", convErr)
			}
			wdl, haveWDL = WDL(v), true
		case "bm":
			if len(parts) != 2 {
				return "", 0, "", fmt.Errorf("malformed bm operation %q", op)
			}
			move = parts[1]
		}
	}
	if !haveWDL {
		return "", 0, "", fmt.Errorf("missing wdl operation")
	}
	return fen, wdl, move, nil
}
