package board

import (
	"errors"
	"strings"
)

// StartFEN is the standard chess initial position; Suicide games are
// usually set up from a custom endgame or midgame FEN, but the starting
// array is still a valid (if unreachable-by-forced-capture) Suicide root.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

func pieceFromChar(ch byte) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

func charFromPiece(p Piece) byte {
	letters := "?PNBRQK??pnbrqk?"
	return letters[p]
}

// ParseFEN parses Forsyth-Edwards Notation into a new Board. Castling rights
// in the FEN are parsed (so the same string round-trips) but have no effect
// on legality: Suicide disables castling outright.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, errors.New("board: invalid FEN: not enough fields")
	}
	b := NewBoard()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, errors.New("board: invalid FEN: expected 8 ranks")
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := pieceFromChar(ch)
			if p == NoPiece {
				return nil, errors.New("board: invalid FEN: unrecognized piece character")
			}
			if file >= 8 {
				return nil, errors.New("board: invalid FEN: too many squares in rank")
			}
			b.addPiece(Square(rank*8+file), p)
			file++
		}
		if file != 8 {
			return nil, errors.New("board: invalid FEN: rank does not span 8 files")
		}
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, errors.New("board: invalid FEN: side to move must be 'w' or 'b'")
	}

	if len(fields) > 2 && fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				b.castlingRights |= CastleWhiteK
			case 'Q':
				b.castlingRights |= CastleWhiteQ
			case 'k':
				b.castlingRights |= CastleBlackK
			case 'q':
				b.castlingRights |= CastleBlackQ
			default:
				return nil, errors.New("board: invalid FEN: invalid castling rights character")
			}
		}
	}

	b.epTarget = NoSquare
	if len(fields) > 3 && fields[3] != "-" {
		if len(fields[3]) != 2 {
			return nil, errors.New("board: invalid FEN: invalid en passant square")
		}
		file := fields[3][0] - 'a'
		rank := fields[3][1] - '1'
		if file > 7 || rank > 7 {
			return nil, errors.New("board: invalid FEN: en passant square out of range")
		}
		b.epTarget = Square(int(rank)*8 + int(file))
	}

	b.history[0] = historyEntry{prevEP: NoSquare, prevCastle: 0, zobristKey: b.GenerateZobristKey()}
	b.size = 1
	return b, nil
}

// ToFEN renders the current position as Forsyth-Edwards Notation. Halfmove
// clock and fullmove number are not tracked by this board (Suicide has no
// fifty-move rule in the reference implementation this is grounded on), so
// both are emitted as the FEN defaults "0 1".
func (b *Board) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[Square(rank*8+file)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece(p))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights&CastleWhiteK != 0 {
			sb.WriteByte('K')
		}
		if b.castlingRights&CastleWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if b.castlingRights&CastleBlackK != 0 {
			sb.WriteByte('k')
		}
		if b.castlingRights&CastleBlackQ != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')
	if b.epTarget == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteByte('a' + byte(b.epTarget%8))
		sb.WriteByte('1' + byte(b.epTarget/8))
	}
	sb.WriteString(" 0 1")
	return sb.String()
}

// ParseSquare converts algebraic notation (e.g. "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, errors.New("board: invalid square")
	}
	file := s[0] - 'a'
	rank := s[1] - '1'
	if file > 7 || rank > 7 {
		return NoSquare, errors.New("board: invalid square")
	}
	return Square(int(rank)*8 + int(file)), nil
}

// ParseUCIMove decodes a UCI-style move string ("e2e4", "e7e8q") against the
// board's current position, filling in moved/captured piece and flags by
// inspecting the board. Returns an error if the squares don't form a move a
// piece on the board could plausibly make (this does not validate legality,
// only that 'from' holds a piece belonging to the side to move).
func ParseUCIMove(b *Board, s string) (Move, error) {
	if len(s) < 4 {
		return NoMove, errors.New("board: invalid move string")
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	moved := b.PieceAt(from)
	if moved == NoPiece || moved.Color() != b.sideToMove {
		return NoMove, errors.New("board: no movable piece on source square")
	}
	var promo Piece
	if len(s) == 5 {
		promo = PieceFromType(b.sideToMove, typeFromChar(s[4]))
	}
	captured := b.PieceAt(to)
	flag := FlagNone
	if moved.Type() == TypePawn && to == b.epTarget && captured == NoPiece {
		flag = FlagEnPassant
	}
	return NewMove(from, to, moved, captured, promo, flag), nil
}

func typeFromChar(ch byte) PieceType {
	switch ch {
	case 'n', 'N':
		return TypeKnight
	case 'b', 'B':
		return TypeBishop
	case 'r', 'R':
		return TypeRook
	case 'q', 'Q':
		return TypeQueen
	case 'k', 'K':
		return TypeKing
	default:
		return TypeNone
	}
}
