package movegen

import bd "antichess-pns/board"

// promotionPieces lists every kind a pawn may promote to. Suicide has no
// royalty rule, so a pawn may even promote to a second king.
var promotionPieces = []bd.PieceType{bd.TypeQueen, bd.TypeRook, bd.TypeBishop, bd.TypeKnight, bd.TypeKing}

// GenerateMoves returns every legal move for the side to move: all
// pseudo-legal moves if none of them is a capture, otherwise only the
// captures (captures are mandatory in Suicide/Antichess).
func GenerateMoves(b *bd.Board) []bd.Move {
	pseudo := generatePseudoMoves(b)
	captures := pseudo[:0:0]
	for _, m := range pseudo {
		if m.IsCapture() {
			captures = append(captures, m)
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return pseudo
}

// CountMoves reports len(GenerateMoves(b)), building the full move list to
// count it, matching the external interface count_moves(board) -> int from
// spec §6.
func CountMoves(b *bd.Board) int { return len(GenerateMoves(b)) }

// IsValid reports whether m is among the legal moves for the current
// position (spec §6's is_valid(board, move) -> bool).
func IsValid(b *bd.Board, m bd.Move) bool {
	for _, cand := range GenerateMoves(b) {
		if cand == m {
			return true
		}
	}
	return false
}

func generatePseudoMoves(b *bd.Board) []bd.Move {
	side := b.SideToMove()
	moves := make([]bd.Move, 0, 48)
	occAll := b.BitBoardAll()
	occUs := b.BitBoardSide(side)

	moves = genPawnMoves(b, side, moves)

	knights := b.BitBoardPiece(side, bd.TypeKnight)
	for knights != 0 {
		from := popLSB(&knights)
		targets := knightAttacks[from] &^ occUs
		moves = genTargets(b, bd.Square(from), bd.PieceFromType(side, bd.TypeKnight), targets, moves)
	}

	bishops := b.BitBoardPiece(side, bd.TypeBishop)
	for bishops != 0 {
		from := popLSB(&bishops)
		targets := bishopAttacks(from, occAll) &^ occUs
		moves = genTargets(b, bd.Square(from), bd.PieceFromType(side, bd.TypeBishop), targets, moves)
	}

	rooks := b.BitBoardPiece(side, bd.TypeRook)
	for rooks != 0 {
		from := popLSB(&rooks)
		targets := rookAttacks(from, occAll) &^ occUs
		moves = genTargets(b, bd.Square(from), bd.PieceFromType(side, bd.TypeRook), targets, moves)
	}

	queens := b.BitBoardPiece(side, bd.TypeQueen)
	for queens != 0 {
		from := popLSB(&queens)
		targets := queenAttacks(from, occAll) &^ occUs
		moves = genTargets(b, bd.Square(from), bd.PieceFromType(side, bd.TypeQueen), targets, moves)
	}

	kings := b.BitBoardPiece(side, bd.TypeKing)
	for kings != 0 {
		from := popLSB(&kings)
		targets := kingAttacks[from] &^ occUs
		moves = genTargets(b, bd.Square(from), bd.PieceFromType(side, bd.TypeKing), targets, moves)
	}

	return moves
}

// genTargets expands a from-square and a target bitboard into moves,
// reading the captured piece (if any) off the board.
func genTargets(b *bd.Board, from bd.Square, moved bd.Piece, targets uint64, moves []bd.Move) []bd.Move {
	for targets != 0 {
		to := popLSB(&targets)
		captured := b.PieceAt(bd.Square(to))
		moves = append(moves, bd.NewMove(from, bd.Square(to), moved, captured, bd.NoPiece, bd.FlagNone))
	}
	return moves
}

func genPawnMoves(b *bd.Board, side bd.Side, moves []bd.Move) []bd.Move {
	pawns := b.BitBoardPiece(side, bd.TypePawn)
	occAll := b.BitBoardAll()
	forward := 8
	startRank, promoRank := 1, 7
	if side == bd.Black {
		forward = -8
		startRank, promoRank = 6, 0
	}
	ep := b.EnpassantTarget()

	for pawns != 0 {
		from := popLSB(&pawns)
		rank := from / 8
		moved := bd.PieceFromType(side, bd.TypePawn)

		// Captures, including en passant.
		attacks := pawnAttacks[side][from]
		theirs := b.BitBoardSide(side.Opposite())
		captureTargets := attacks & theirs
		for captureTargets != 0 {
			to := popLSB(&captureTargets)
			moves = appendPawnMove(moves, from, to, moved, b.PieceAt(bd.Square(to)), promoRank, bd.FlagNone)
		}
		if ep != bd.NoSquare && attacks&(uint64(1)<<uint(ep)) != 0 {
			var capSq int
			if side == bd.White {
				capSq = int(ep) - 8
			} else {
				capSq = int(ep) + 8
			}
			moves = appendPawnMove(moves, from, int(ep), moved, b.PieceAt(bd.Square(capSq)), promoRank, bd.FlagEnPassant)
		}

		// Single push.
		to := from + forward
		if to >= 0 && to < 64 && occAll&(uint64(1)<<uint(to)) == 0 {
			moves = appendPawnMove(moves, from, to, moved, bd.NoPiece, promoRank, bd.FlagNone)
			// Double push from the start rank.
			if rank == startRank {
				to2 := from + 2*forward
				if occAll&(uint64(1)<<uint(to2)) == 0 {
					moves = append(moves, bd.NewMove(bd.Square(from), bd.Square(to2), moved, bd.NoPiece, bd.NoPiece, bd.FlagNone))
				}
			}
		}
	}
	return moves
}

func appendPawnMove(moves []bd.Move, from, to int, moved, captured bd.Piece, promoRank int, flag uint8) []bd.Move {
	if to/8 == promoRank {
		side := moved.Color()
		for _, pt := range promotionPieces {
			promo := bd.PieceFromType(side, pt)
			moves = append(moves, bd.NewMove(bd.Square(from), bd.Square(to), moved, captured, promo, flag))
		}
		return moves
	}
	return append(moves, bd.NewMove(bd.Square(from), bd.Square(to), moved, captured, bd.NoPiece, flag))
}

// Generator adapts the package-level functions to the MoveGenerator
// interface consumed by the PNS engine and the EGTB generator (spec §6).
type Generator struct{}

func (Generator) Generate(b *bd.Board) []bd.Move      { return GenerateMoves(b) }
func (Generator) CountMoves(b *bd.Board) int          { return CountMoves(b) }
func (Generator) IsValid(b *bd.Board, m bd.Move) bool { return IsValid(b, m) }
