package egtb

import (
	"fmt"

	bd "antichess-pns/board"
	"antichess-pns/eval"
)

// MoveGenerator is the subset of the external move-generator interface
// (spec §6) the generator needs: pseudo-legal moves for the current
// position, observing but never mutating the board.
type MoveGenerator interface {
	Generate(b *bd.Board) []bd.Move
}

// Evaluator is the subset of the external evaluator interface (spec §6)
// the generator needs, to pre-classify the working set before the
// fixed-point loop.
type Evaluator interface {
	Result(b *bd.Board) eval.Result
}

// GenerateFromAll is the single-list overload: there is no separately
// seeded final_pos_list, so every terminal position must be discovered
// from the evaluator during the initial classification scan
// (original_source's EGTBGenerator::Generate(allPosList, winningSide)).
func GenerateFromAll(gen MoveGenerator, ev Evaluator, allPositions []string, winningSide bd.Side) (*Store, error) {
	return Generate(gen, ev, nil, allPositions, winningSide)
}

// Generate is the two-list overload (spec §4.4): finalPositions are
// positions where the game is already over, seeded at distance 0;
// allPositions is every other legal position for the fixed piece
// configuration, pre-filtered by static result and then classified by
// retrograde fixed-point iteration until a pass makes no changes.
func Generate(gen MoveGenerator, ev Evaluator, finalPositions, allPositions []string, winningSide bd.Side) (*Store, error) {
	store := NewStore()
	winner := winnerFromSide(winningSide)

	for _, fen := range finalPositions {
		store.Put(fen, Entry{Move: bd.NoMove, Distance: 0, Winner: winner})
	}

	working := make(map[string]*bd.Board)
	for _, fen := range allPositions {
		if _, seeded := store.Get(fen); seeded {
			continue
		}
		b, err := bd.ParseFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("egtb: parse %q: %w", fen, err)
		}
		switch ev.Result(b) {
		case eval.Win:
			store.Put(fen, Entry{Move: bd.NoMove, Distance: 0, Winner: winnerFromSide(b.SideToMove())})
		case eval.Loss:
			store.Put(fen, Entry{Move: bd.NoMove, Distance: 0, Winner: winnerFromSide(b.SideToMove().Opposite())})
		case eval.Draw:
			store.Put(fen, Entry{Move: bd.NoMove, Distance: 0, Winner: WinnerNone})
		default:
			working[fen] = b
		}
	}

	for pass := 1; len(working) > 0; pass++ {
		additions := NewStore()
		for fen, b := range working {
			if classifyPosition(gen, store, additions, b, fen, winningSide, winner) {
				delete(working, fen)
			}
		}
		if additions.Len() == 0 {
			break
		}
		store.MergeFrom(additions)
		fmt.Printf("# egtb pass %d: classified %d, %d remaining\n", pass, additions.Len(), len(working))
	}

	return store, nil
}

// classifyPosition applies one fixed-point step to a single working
// position, per spec §4.4: the side trying to win minimises
// distance-to-mate over its winning replies; the losing side is only
// classified once every reply is already a win for the winner, and takes
// the maximum (delaying) distance among them.
func classifyPosition(gen MoveGenerator, store, additions *Store, b *bd.Board, fen string, winningSide bd.Side, winner Winner) bool {
	moves := gen.Generate(b)

	if b.SideToMove() == winningSide {
		bestDist := -1
		var bestMove bd.Move
		for _, m := range moves {
			b.MakeMove(m)
			if e, ok := lookupEither(store, additions, b.ToFEN()); ok && e.Winner == winner {
				if bestDist == -1 || e.Distance < bestDist {
					bestDist, bestMove = e.Distance, m
				}
			}
			b.UnmakeMove()
		}
		if bestDist < 0 {
			return false
		}
		additions.Put(fen, Entry{Move: bestMove, Distance: bestDist + 1, Winner: winner})
		return true
	}

	if len(moves) == 0 {
		return false
	}
	worstDist := -1
	var worstMove bd.Move
	for _, m := range moves {
		b.MakeMove(m)
		e, ok := lookupEither(store, additions, b.ToFEN())
		b.UnmakeMove()
		if !ok || e.Winner != winner {
			return false
		}
		if e.Distance > worstDist {
			worstDist, worstMove = e.Distance, m
		}
	}
	additions.Put(fen, Entry{Move: worstMove, Distance: worstDist + 1, Winner: winner})
	return true
}

func lookupEither(store, additions *Store, fen string) (Entry, bool) {
	if e, ok := additions.Get(fen); ok {
		return e, true
	}
	return store.Get(fen)
}
