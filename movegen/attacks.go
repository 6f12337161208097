// Package movegen implements the Suicide/Antichess move generator consumed
// by the PNS engine and the EGTB generator: generate(board), count_moves,
// is_valid, per spec §6. It generates pseudo-legal moves — there is no
// check concept in Suicide — and then applies the variant's one legality
// rule: captures are mandatory whenever at least one is available.
package movegen

import (
	"math/bits"

	bd "antichess-pns/board"
)

var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	pawnAttacks   [2][64]uint64 // [side][square] squares a pawn of that side attacks
)

func init() {
	for sq := 0; sq < 64; sq++ {
		knightAttacks[sq] = knightAttacksFrom(sq)
		kingAttacks[sq] = kingAttacksFrom(sq)
		pawnAttacks[bd.White][sq] = pawnAttacksFrom(sq, bd.White)
		pawnAttacks[bd.Black][sq] = pawnAttacksFrom(sq, bd.Black)
	}
}

func sqRC(sq int) (r, c int) { return sq / 8, sq % 8 }

func onBoard(r, c int) bool { return r >= 0 && r < 8 && c >= 0 && c < 8 }

func knightAttacksFrom(sq int) uint64 {
	r, c := sqRC(sq)
	deltas := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	var mask uint64
	for _, d := range deltas {
		nr, nc := r+d[0], c+d[1]
		if onBoard(nr, nc) {
			mask |= 1 << uint(nr*8+nc)
		}
	}
	return mask
}

func kingAttacksFrom(sq int) uint64 {
	r, c := sqRC(sq)
	var mask uint64
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := r+dr, c+dc
			if onBoard(nr, nc) {
				mask |= 1 << uint(nr*8+nc)
			}
		}
	}
	return mask
}

func pawnAttacksFrom(sq int, side bd.Side) uint64 {
	r, c := sqRC(sq)
	dr := 1
	if side == bd.Black {
		dr = -1
	}
	var mask uint64
	for _, dc := range [2]int{-1, 1} {
		nr, nc := r+dr, c+dc
		if onBoard(nr, nc) {
			mask |= 1 << uint(nr*8+nc)
		}
	}
	return mask
}

// rayDirs are the eight compass directions as (dr, dc) pairs; the first four
// are the rook directions, the last four the bishop directions.
var rayDirs = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// slidingAttacks scans outward from sq along the given direction indices
// (0-3 rook, 4-7 bishop) until it hits a piece or the board edge, stopping
// after including the first occupied square (a capture target or a block).
func slidingAttacks(sq int, occ uint64, dirIdx []int) uint64 {
	r, c := sqRC(sq)
	var mask uint64
	for _, di := range dirIdx {
		dr, dc := rayDirs[di][0], rayDirs[di][1]
		nr, nc := r+dr, c+dc
		for onBoard(nr, nc) {
			to := nr*8 + nc
			mask |= 1 << uint(to)
			if occ&(1<<uint(to)) != 0 {
				break
			}
			nr += dr
			nc += dc
		}
	}
	return mask
}

var rookDirs = []int{0, 1, 2, 3}
var bishopDirs = []int{4, 5, 6, 7}
var queenDirs = []int{0, 1, 2, 3, 4, 5, 6, 7}

func rookAttacks(sq int, occ uint64) uint64   { return slidingAttacks(sq, occ, rookDirs) }
func bishopAttacks(sq int, occ uint64) uint64 { return slidingAttacks(sq, occ, bishopDirs) }
func queenAttacks(sq int, occ uint64) uint64  { return slidingAttacks(sq, occ, queenDirs) }

func popLSB(mask *uint64) int {
	sq := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return sq
}
