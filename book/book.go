// Package book declares the opening-book lookup interface the PNS engine's
// callers may consult before invoking a search. The book itself is out of
// scope (spec §1's Non-goals list it as an external collaborator); this
// package exists only to give callers a concrete, minimal type to wire in
// (cmd/pnsearch does not consult it), adapted loosely from the teacher's CSV
// opening-book reader.
package book

import bd "antichess-pns/board"

// Lookup is the consumed interface: given a position, return a
// recommended move and whether one was found.
type Lookup interface {
	Move(b *bd.Board) (bd.Move, bool)
}

// Empty is a Lookup that never recommends a move, used when no book file
// is configured.
type Empty struct{}

func (Empty) Move(*bd.Board) (bd.Move, bool) { return bd.NoMove, false }
