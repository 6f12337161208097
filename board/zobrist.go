package board

import "math/rand"

// Zobrist nonce tables, one per (piece, square), one per castling-rights
// state (16 combinations), one per en-passant file, and one for side to
// move. Seeded once at init() with a fixed seed so that two processes using
// this package compute identical keys (required for determinism, spec §5).
var (
	zobristPiece   [16][numSquares]uint64
	zobristCastle  [16]uint64
	zobristEP      [8]uint64
	zobristSideKey uint64
)

func init() {
	rnd := rand.New(rand.NewSource(0xC0FFEE))
	for p := 0; p < 16; p++ {
		for sq := 0; sq < numSquares; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEP[f] = rnd.Uint64()
	}
	zobristSideKey = rnd.Uint64()
}

// GenerateZobristKey recomputes the Zobrist key from scratch: piece on every
// square, side to move, castling rights, en-passant file. Call only after
// squares[]/sideToMove/epTarget/castlingRights have been set. MakeMove calls
// it once per move (the key is not updated incrementally) and stores the
// result in the new history entry; UnmakeMove restores the previous key by
// popping that entry.
func (b *Board) GenerateZobristKey() uint64 {
	var key uint64
	for sq := Square(0); sq < numSquares; sq++ {
		if p := b.squares[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}
	if b.sideToMove == Black {
		key ^= zobristSideKey
	}
	key ^= zobristCastle[b.castlingRights]
	if b.epTarget != NoSquare {
		key ^= zobristEP[int(b.epTarget)%8]
	}
	return key
}
