package board

// MakeMove applies a move to the board. Per the spec this performs no
// legality check at all — Suicide has no check/pin concept, and the move
// generator is responsible for only ever emitting pseudo-legal moves that
// respect mandatory capture. MakeMove pushes one history entry; the caller
// must eventually call UnmakeMove to reverse it.
func (b *Board) MakeMove(m Move) {
	if b.size >= maxHistory {
		panic("board: move stack exhausted")
	}
	entry := historyEntry{
		move:       m,
		prevCastle: b.castlingRights,
		prevEP:     b.epTarget,
	}

	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	promo := m.PromotionPiece()
	flag := m.Flags()

	b.epTarget = NoSquare

	if flag == FlagEnPassant {
		var capSq Square
		if b.sideToMove == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		entry.captured = b.removePiece(capSq)
	} else if captured := b.PieceAt(to); captured != NoPiece {
		entry.captured = b.removePiece(to)
	}

	b.removePiece(from)
	if promo != NoPiece {
		b.addPiece(to, promo)
	} else {
		b.addPiece(to, moved)
	}

	if flag == FlagCastle {
		b.moveCastleRook(moved, to)
	}

	b.updateCastlingRights(moved, from, to, entry.captured)

	if moved.Type() == TypePawn {
		fromRank, toRank := int(from)/8, int(to)/8
		if abs(toRank-fromRank) == 2 {
			if b.sideToMove == White {
				b.epTarget = from + 8
			} else {
				b.epTarget = from - 8
			}
		}
	}

	b.sideToMove = b.sideToMove.Opposite()

	entry.zobristKey = b.GenerateZobristKey()
	b.history[b.size] = entry
	b.size++
}

// UnmakeMove pops and reverses the most recent move. Returns false iff the
// history stack holds only the depth-0 sentinel (nothing left to unmake).
func (b *Board) UnmakeMove() bool {
	if b.size <= 1 {
		return false
	}
	entry := b.history[b.size-1]
	b.size--

	m := entry.move
	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	flag := m.Flags()

	b.sideToMove = b.sideToMove.Opposite()

	if flag == FlagCastle {
		b.unmoveCastleRook(moved, to)
	}

	// Clears the promoted piece too: 'moved' is always the original piece
	// (a pawn, for a promotion), so adding it back at 'from' is correct
	// regardless of whether this move promoted.
	b.removePiece(to)
	b.addPiece(from, moved)

	if entry.captured != NoPiece {
		if flag == FlagEnPassant {
			var capSq Square
			if b.sideToMove == White {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
			b.addPiece(capSq, entry.captured)
		} else {
			b.addPiece(to, entry.captured)
		}
	}

	b.castlingRights = entry.prevCastle
	b.epTarget = entry.prevEP
	return true
}

func (b *Board) moveCastleRook(moved Piece, to Square) {
	var rookFrom, rookTo Square
	var rook Piece
	switch {
	case moved == WhiteKing && to == 6:
		rookFrom, rookTo, rook = 7, 5, WhiteRook
	case moved == WhiteKing && to == 2:
		rookFrom, rookTo, rook = 0, 3, WhiteRook
	case moved == BlackKing && to == 62:
		rookFrom, rookTo, rook = 63, 61, BlackRook
	case moved == BlackKing && to == 58:
		rookFrom, rookTo, rook = 56, 59, BlackRook
	default:
		return
	}
	b.removePiece(rookFrom)
	b.addPiece(rookTo, rook)
}

func (b *Board) unmoveCastleRook(moved Piece, to Square) {
	var rookFrom, rookTo Square
	var rook Piece
	switch {
	case moved == WhiteKing && to == 6:
		rookFrom, rookTo, rook = 7, 5, WhiteRook
	case moved == WhiteKing && to == 2:
		rookFrom, rookTo, rook = 0, 3, WhiteRook
	case moved == BlackKing && to == 62:
		rookFrom, rookTo, rook = 63, 61, BlackRook
	case moved == BlackKing && to == 58:
		rookFrom, rookTo, rook = 56, 59, BlackRook
	default:
		return
	}
	b.removePiece(rookTo)
	b.addPiece(rookFrom, rook)
}

func (b *Board) updateCastlingRights(moved Piece, from, to Square, captured Piece) {
	cr := b.castlingRights
	switch moved {
	case WhiteKing:
		cr &^= CastleWhiteK | CastleWhiteQ
	case BlackKing:
		cr &^= CastleBlackK | CastleBlackQ
	case WhiteRook:
		if from == 0 {
			cr &^= CastleWhiteQ
		} else if from == 7 {
			cr &^= CastleWhiteK
		}
	case BlackRook:
		if from == 56 {
			cr &^= CastleBlackQ
		} else if from == 63 {
			cr &^= CastleBlackK
		}
	}
	if captured.Type() == TypeRook {
		switch to {
		case 0:
			cr &^= CastleWhiteQ
		case 7:
			cr &^= CastleWhiteK
		case 56:
			cr &^= CastleBlackQ
		case 63:
			cr &^= CastleBlackK
		}
	}
	b.castlingRights = cr
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
