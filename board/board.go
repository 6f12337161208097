// Package board implements the Suicide/Antichess board: a 64-square array
// kept in sync with per-side and per-piece bitboards, plus a Zobrist key
// stored per move on a fixed-capacity move-history stack.
package board

import "math/bits"

// Piece encodes a colored piece. Color is the high bit (8); the low three
// bits are the piece type, matching the layout used throughout this package
// so that Type() and Color() are single masks.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is the colorless piece kind, used for bitboard indexing.
type PieceType uint8

const (
	TypeNone   PieceType = 0
	TypePawn   PieceType = 1
	TypeKnight PieceType = 2
	TypeBishop PieceType = 3
	TypeRook   PieceType = 4
	TypeQueen  PieceType = 5
	TypeKing   PieceType = 6
)

// Type returns the colorless type of the piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side owning the piece. NoPiece is reported as White.
func (p Piece) Color() Side {
	if p&8 != 0 {
		return Black
	}
	return White
}

// PieceFromType combines a side and a colorless type into a concrete Piece.
func PieceFromType(side Side, pt PieceType) Piece {
	if pt == TypeNone {
		return NoPiece
	}
	p := Piece(pt)
	if side == Black {
		p |= 8
	}
	return p
}

// Side identifies the player to move.
type Side uint8

const (
	White Side = 0
	Black Side = 1
)

// Opposite returns the other side.
func (s Side) Opposite() Side { return 1 - s }

// CastlingRights is a 4-bit mask: white king/queen side, black king/queen
// side. Suicide disables castling entirely, but the field and its Zobrist
// nonces are retained so the same Board type could serve a castling variant.
type CastlingRights uint8

const (
	CastleWhiteK CastlingRights = 1 << iota
	CastleWhiteQ
	CastleBlackK
	CastleBlackQ
)

// Square is a 0..63 board index, row*8+col (row 0 = rank 1, col 0 = file a).
type Square int8

// NoSquare marks the absence of an en-passant target.
const NoSquare Square = -1

// numSquares is the board size (spec 3.1).
const numSquares = 64

// historyEntry is one move-stack record: exactly the state needed to reverse
// one call to MakeMove. prevCastle/prevEP hold the PRE-move rights/target
// (what Unmake must restore); zobristKey holds the key AFTER this entry's
// move, so ZobristKey() is always "top of stack" with no recomputation.
type historyEntry struct {
	move       Move
	captured   Piece
	prevCastle CastlingRights
	prevEP     Square
	zobristKey uint64
}

// maxHistory bounds the move stack (spec: up to 1000 entries) and doubles,
// in the PNS engine, as the de-facto maximum search depth.
const maxHistory = 1000

// Board is a Suicide/Antichess position: array representation, per-side and
// per-piece bitboards, and a move-history stack whose entries carry the
// Zobrist key of the position after each move.
type Board struct {
	squares [numSquares]Piece

	bySide  [2]uint64
	byPiece [12]uint64 // index = pieceIndex(side, type)

	sideToMove      Side
	castlingRights  CastlingRights
	castlingAllowed bool
	epTarget        Square

	history [maxHistory]historyEntry
	size    int // number of valid entries in history, including the depth-0 sentinel
}

func pieceIndex(p Piece) int {
	side := 0
	if p&8 != 0 {
		side = 1
	}
	return side*6 + int(p.Type()) - 1
}

// NewBoard constructs an empty board with White to move, with castling
// permanently disabled (the Suicide variant).
func NewBoard() *Board {
	b := &Board{castlingAllowed: false, epTarget: NoSquare}
	b.history[0] = historyEntry{prevEP: NoSquare}
	b.size = 1
	return b
}

// PieceAt returns the piece occupying a square (NoPiece if empty).
func (b *Board) PieceAt(sq Square) Piece { return b.squares[sq] }

// BitBoardSide returns the occupancy bitboard for one side.
func (b *Board) BitBoardSide(side Side) uint64 { return b.bySide[side] }

// BitBoardAll returns the occupancy bitboard for both sides combined.
func (b *Board) BitBoardAll() uint64 { return b.bySide[White] | b.bySide[Black] }

// BitBoardPiece returns the bitboard for one (side, piece-type) pair.
func (b *Board) BitBoardPiece(side Side, pt PieceType) uint64 {
	return b.byPiece[int(side)*6+int(pt)-1]
}

// NumPieces counts the set bits of a side's occupancy bitboard.
func (b *Board) NumPieces(side Side) int { return bits.OnesCount64(b.bySide[side]) }

// SideToMove reports whose turn it is.
func (b *Board) SideToMove() Side { return b.sideToMove }

// EnpassantTarget returns the current en-passant target square, or NoSquare.
func (b *Board) EnpassantTarget() Square { return b.epTarget }

// ZobristKey returns the Zobrist key of the current position in O(1).
func (b *Board) ZobristKey() uint64 { return b.history[b.size-1].zobristKey }

// Ply reports the number of moves made since the board was constructed.
func (b *Board) Ply() int { return b.size - 1 }

// CanCastle reports whether the side to move may currently castle on the
// side named by 'piece' (King or Queen). Always false when the variant
// disables castling, regardless of the rights mask.
func (b *Board) CanCastle(piece PieceType) bool {
	if !b.castlingAllowed {
		return false
	}
	var bit CastlingRights
	if b.sideToMove == White {
		if piece == TypeKing {
			bit = CastleWhiteK
		} else {
			bit = CastleWhiteQ
		}
	} else {
		if piece == TypeKing {
			bit = CastleBlackK
		} else {
			bit = CastleBlackQ
		}
	}
	return b.castlingRights&bit != 0
}

func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	bit := uint64(1) << uint(sq)
	b.squares[sq] = p
	b.bySide[p.Color()] |= bit
	b.byPiece[pieceIndex(p)] |= bit
}

func (b *Board) removePiece(sq Square) Piece {
	p := b.squares[sq]
	if p == NoPiece {
		return NoPiece
	}
	bit := ^(uint64(1) << uint(sq))
	b.squares[sq] = NoPiece
	b.bySide[p.Color()] &= bit
	b.byPiece[pieceIndex(p)] &= bit
	return p
}

// RecentMove returns the move played 'agoPly' plies before the current
// position (0 = the most recently played move), or false if the history
// doesn't go back that far. Used by the PNS engine's redundant-move cycle
// check, which only ever looks back four plies.
func (b *Board) RecentMove(agoPly int) (Move, bool) {
	idx := b.size - 1 - agoPly
	if idx < 1 || idx >= b.size {
		return NoMove, false
	}
	return b.history[idx].move, true
}

// Validate cross-checks squares[] against the bitboards and the Zobrist key
// against a from-scratch recomputation; used by tests, not the hot path.
func (b *Board) Validate() bool {
	var bySide [2]uint64
	var byPiece [12]uint64
	for sq := Square(0); sq < numSquares; sq++ {
		p := b.squares[sq]
		if p == NoPiece {
			continue
		}
		bit := uint64(1) << uint(sq)
		bySide[p.Color()] |= bit
		byPiece[pieceIndex(p)] |= bit
	}
	if bySide != b.bySide || byPiece != b.byPiece {
		return false
	}
	return b.ZobristKey() == b.GenerateZobristKey()
}
