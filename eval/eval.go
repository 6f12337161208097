// Package eval implements the Suicide/Antichess static evaluator consumed
// by the PNS engine: result(board) -> {WIN, LOSS, DRAW, UNKNOWN}, relative
// to the side to move (spec §6).
package eval

import (
	bd "antichess-pns/board"
	"antichess-pns/movegen"
)

// Result codes, relative to the side to move. UNKNOWN means "ask the search
// to keep expanding"; the PNS engine never treats Result's return value as
// anything but one of these four.
type Result int

const (
	Unknown Result = iota
	Win
	Loss
	Draw
)

func (r Result) String() string {
	switch r {
	case Win:
		return "WIN"
	case Loss:
		return "LOSS"
	case Draw:
		return "DRAW"
	default:
		return "UNKNOWN"
	}
}

// SuicideEvaluator implements the Evaluator interface consumed by the PNS
// engine (pns.Evaluator) for the Suicide/Antichess variant.
type SuicideEvaluator struct{}

// Result reports the terminal status of the position from the side to
// move's perspective. A side with no legal move has achieved the Suicide
// win condition (it has been stalemated, or has no pieces left) and so
// Result reports Win for that side. Two bishops of opposite board color and
// nothing else is a textbook Antichess draw by insufficient mating material
// (neither side can ever be forced to move into capture range of the
// other's bishop), reported as Draw regardless of whose turn it is.
func (SuicideEvaluator) Result(b *bd.Board) Result {
	if isOppositeColoredBishopsOnly(b) {
		return Draw
	}
	if movegen.CountMoves(b) == 0 {
		return Win
	}
	return Unknown
}

func isOppositeColoredBishopsOnly(b *bd.Board) bool {
	all := b.BitBoardAll()
	whiteBishops := b.BitBoardPiece(bd.White, bd.TypeBishop)
	blackBishops := b.BitBoardPiece(bd.Black, bd.TypeBishop)
	if all != whiteBishops|blackBishops {
		return false
	}
	if countBits(whiteBishops) != 1 || countBits(blackBishops) != 1 {
		return false
	}
	return squareColor(firstSquare(whiteBishops)) != squareColor(firstSquare(blackBishops))
}

func squareColor(sq int) int { return (sq/8 + sq%8) % 2 }

func countBits(x uint64) int {
	n := 0
	for x != 0 {
		n++
		x &= x - 1
	}
	return n
}

func firstSquare(x uint64) int {
	sq := 0
	for x&1 == 0 {
		x >>= 1
		sq++
	}
	return sq
}
