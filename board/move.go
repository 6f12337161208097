package board

import "strings"

// Move packs a move into a 32-bit value: from (6 bits), to (6 bits), moved
// piece (4 bits), captured piece (4 bits), promotion piece (4 bits), flag
// (2 bits).
type Move uint32

const (
	moveFromShift    = 0
	moveToShift      = 6
	movePieceShift   = 12
	moveCaptureShift = 16
	movePromoteShift = 20
	moveFlagShift    = 24
)

// Move flags. Castling is retained for a non-Suicide variant built on the
// same Board type; movegen never emits it for Suicide.
const (
	FlagNone      uint8 = 0
	FlagCastle    uint8 = 1
	FlagEnPassant uint8 = 2
)

// NoMove is the zero value, used as "no move" (e.g. a PNS root or EGTB
// distance-0 terminal).
const NoMove Move = 0

var promotionLetter = map[PieceType]byte{
	TypeKnight: 'n',
	TypeBishop: 'b',
	TypeRook:   'r',
	TypeQueen:  'q',
	TypeKing:   'k',
}

// NewMove packs a move's components.
func NewMove(from, to Square, moved, captured, promotion Piece, flag uint8) Move {
	return Move(uint32(from&0x3F) |
		(uint32(to&0x3F) << moveToShift) |
		(uint32(moved&0xF) << movePieceShift) |
		(uint32(captured&0xF) << moveCaptureShift) |
		(uint32(promotion&0xF) << movePromoteShift) |
		(uint32(flag&0x3) << moveFlagShift))
}

func (m Move) From() Square           { return Square((uint32(m) >> moveFromShift) & 0x3F) }
func (m Move) To() Square             { return Square((uint32(m) >> moveToShift) & 0x3F) }
func (m Move) MovedPiece() Piece      { return Piece((uint32(m) >> movePieceShift) & 0xF) }
func (m Move) CapturedPiece() Piece   { return Piece((uint32(m) >> moveCaptureShift) & 0xF) }
func (m Move) PromotionPiece() Piece  { return Piece((uint32(m) >> movePromoteShift) & 0xF) }
func (m Move) Flags() uint8           { return uint8((uint32(m) >> moveFlagShift) & 0x3) }
func (m Move) IsCapture() bool        { return m.CapturedPiece() != NoPiece || m.Flags() == FlagEnPassant }

// String renders the move in UCI notation (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "--"
	}
	from, to := m.From(), m.To()
	var sb strings.Builder
	sb.WriteByte('a' + byte(from%8))
	sb.WriteByte('1' + byte(from/8))
	sb.WriteByte('a' + byte(to%8))
	sb.WriteByte('1' + byte(to/8))
	if promo := m.PromotionPiece(); promo != NoPiece {
		sb.WriteByte(promotionLetter[promo.Type()])
	}
	return sb.String()
}
