// Package egtb implements the retrograde endgame-tablebase generator and
// the memory-mapped reader the PNS engine queries at search time (spec
// §3.3/4.4/4.5).
package egtb

import (
	"bufio"
	"fmt"
	"os"

	bd "antichess-pns/board"
)

// Winner names the side the position's entry favours, or WinnerNone for a
// draw. This is distinct from WIN/LOSS/DRAW relative-to-mover results: an
// Entry records an absolute winner, and callers compare it against the
// board's current side to move to get a relative verdict.
type Winner int

const (
	WinnerNone Winner = iota
	WinnerWhite
	WinnerBlack
)

func winnerFromSide(s bd.Side) Winner {
	if s == bd.White {
		return WinnerWhite
	}
	return WinnerBlack
}

// Entry is one classified position: the move that achieves Winner (NoMove
// for a position with no move, written "LOST" on disk), the distance to
// the end of the game along that line, and the winner.
type Entry struct {
	Move     bd.Move
	Distance int
	Winner   Winner
}

// Store is the in-memory fen -> entry map built during generation and
// consulted (read-only) at lookup time.
type Store struct {
	entries map[string]Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Get looks up a position by its FEN.
func (s *Store) Get(fen string) (Entry, bool) {
	e, ok := s.entries[fen]
	return e, ok
}

// Put records (or overwrites) a position's entry.
func (s *Store) Put(fen string, e Entry) {
	s.entries[fen] = e
}

// Len reports the number of classified positions.
func (s *Store) Len() int { return len(s.entries) }

// MergeFrom copies every entry of other into s, used to fold one
// fixed-point pass's additions into the master store before the next pass.
func (s *Store) MergeFrom(other *Store) {
	for fen, e := range other.entries {
		s.entries[fen] = e
	}
}

// Write emits the store in the "fen|move|distance|winner" text format
// (spec §6) that Reader.Open parses back.
func (s *Store) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for fen, e := range s.entries {
		moveStr := "LOST"
		if e.Move != bd.NoMove {
			moveStr = e.Move.String()
		}
		var winnerCh byte = 'N'
		switch e.Winner {
		case WinnerWhite:
			winnerCh = 'W'
		case WinnerBlack:
			winnerCh = 'B'
		}
		if _, err := fmt.Fprintf(w, "%s|%s|%d|%c\n", fen, moveStr, e.Distance, winnerCh); err != nil {
			return err
		}
	}
	return w.Flush()
}
