package egtb

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/mmap"

	bd "antichess-pns/board"
)

// Reader serves read-only lookups against a generated table file. The file
// is memory-mapped once at Open time (via golang.org/x/exp/mmap) and fully
// indexed into memory, so repeated lookups during a long search never pay
// a read syscall and the FEN string comparison happens against a real Go
// map rather than a linear scan of the mapped bytes.
type Reader struct {
	file  *mmap.ReaderAt
	index map[string]Entry
}

// Open memory-maps path and parses every line of the
// "fen|move|distance|winner" table format it expects to contain.
func Open(path string) (*Reader, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, f.Len())
	if _, err := f.ReadAt(buf, 0); err != nil {
		f.Close()
		return nil, err
	}

	r := &Reader{file: f, index: make(map[string]Entry)}
	scanner := bufio.NewScanner(bytes.NewReader(buf))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fen, entry, err := parseLine(line)
		if err != nil {
			f.Close()
			return nil, err
		}
		r.index[fen] = entry
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the memory mapping.
func (r *Reader) Close() error { return r.file.Close() }

// Lookup returns the table entry for the board's current position.
func (r *Reader) Lookup(b *bd.Board) (Entry, bool) {
	e, ok := r.index[b.ToFEN()]
	return e, ok
}

func parseLine(line string) (string, Entry, error) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) != 4 {
		return "", Entry{}, fmt.Errorf("egtb: malformed line %q", line)
	}
	fen := parts[0]

	distance, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", Entry{}, fmt.Errorf("egtb: malformed distance in %q: %w", line, err)
	}

	var winner Winner
	switch parts[3] {
	case "W":
		winner = WinnerWhite
	case "B":
		winner = WinnerBlack
	case "N":
		winner = WinnerNone
	default:
		return "", Entry{}, fmt.Errorf("egtb: invalid winner field %q", parts[3])
	}

	entry := Entry{Move: bd.NoMove, Distance: distance, Winner: winner}
	if parts[1] != "LOST" {
		if posBoard, err := bd.ParseFEN(fen); err == nil {
			if m, err := bd.ParseUCIMove(posBoard, parts[1]); err == nil {
				entry.Move = m
			}
		}
	}
	return fen, entry, nil
}
