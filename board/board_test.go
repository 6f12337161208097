package board

import "testing"

func mustFEN(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	b := mustFEN(t, StartFEN)
	moves := []Move{
		NewMove(12, 28, WhitePawn, NoPiece, NoPiece, FlagNone),  // e2e4
		NewMove(52, 36, BlackPawn, NoPiece, NoPiece, FlagNone),  // e7e5
		NewMove(6, 21, WhiteKnight, NoPiece, NoPiece, FlagNone), // g1f3
	}
	wantSquares := b.squares
	wantBySide := b.bySide
	wantByPiece := b.byPiece
	wantSide := b.sideToMove
	wantEP := b.epTarget
	wantCastle := b.castlingRights
	wantKey := b.ZobristKey()

	for _, m := range moves {
		b.MakeMove(m)
	}
	for range moves {
		if !b.UnmakeMove() {
			t.Fatalf("UnmakeMove returned false before stack emptied")
		}
	}

	if b.squares != wantSquares {
		t.Fatalf("squares mismatch after round trip")
	}
	if b.bySide != wantBySide || b.byPiece != wantByPiece {
		t.Fatalf("bitboards mismatch after round trip")
	}
	if b.sideToMove != wantSide {
		t.Fatalf("side to move mismatch after round trip")
	}
	if b.epTarget != wantEP {
		t.Fatalf("en passant target mismatch after round trip")
	}
	if b.castlingRights != wantCastle {
		t.Fatalf("castling rights mismatch after round trip")
	}
	if b.ZobristKey() != wantKey {
		t.Fatalf("zobrist key mismatch after round trip: got %x want %x", b.ZobristKey(), wantKey)
	}
}

func TestZobristConsistency(t *testing.T) {
	b := mustFEN(t, StartFEN)
	check := func(label string) {
		if got, want := b.ZobristKey(), b.GenerateZobristKey(); got != want {
			t.Fatalf("%s: stored key %x != recomputed key %x", label, got, want)
		}
	}
	check("initial")
	m1 := NewMove(12, 28, WhitePawn, NoPiece, NoPiece, FlagNone)
	b.MakeMove(m1)
	check("after make")
	b.UnmakeMove()
	check("after unmake")
}

func TestBitboardArrayAgreement(t *testing.T) {
	b := mustFEN(t, StartFEN)
	b.MakeMove(NewMove(12, 28, WhitePawn, NoPiece, NoPiece, FlagNone))
	for sq := Square(0); sq < numSquares; sq++ {
		p := b.PieceAt(sq)
		bit := uint64(1) << uint(sq)
		if p == NoPiece {
			if b.BitBoardAll()&bit != 0 {
				t.Fatalf("square %d empty in array but set in occupancy bitboard", sq)
			}
			continue
		}
		if b.bySide[p.Color()]&bit == 0 {
			t.Fatalf("square %d holds %v but side bitboard bit is clear", sq, p)
		}
		if b.byPiece[pieceIndex(p)]&bit == 0 {
			t.Fatalf("square %d holds %v but piece bitboard bit is clear", sq, p)
		}
	}
}

func TestEnPassantCapture(t *testing.T) {
	b := mustFEN(t, "8/1p6/8/P7/8/8/8/8 b - - 0 1")
	b.MakeMove(NewMove(49, 33, BlackPawn, NoPiece, NoPiece, FlagNone)) // b7b5, double push
	if b.EnpassantTarget() != 41 {                                    // b6, the jumped-over square
		t.Fatalf("unexpected EP target %d", b.EnpassantTarget())
	}
	m, err := ParseUCIMove(b, "a5b6")
	if err != nil {
		t.Fatalf("ParseUCIMove: %v", err)
	}
	if m.Flags() != FlagEnPassant {
		t.Fatalf("expected en passant flag, got %d", m.Flags())
	}
	b.MakeMove(m)
	if b.PieceAt(33) != NoPiece { // b5, the captured black pawn's actual square
		t.Fatalf("en passant capture did not clear the jumped pawn's square")
	}
	if !b.UnmakeMove() {
		t.Fatalf("UnmakeMove failed")
	}
	if b.PieceAt(33) != BlackPawn {
		t.Fatalf("unmake did not restore the captured pawn")
	}
}

func TestPromotion(t *testing.T) {
	b := mustFEN(t, "8/P7/8/8/8/8/8/7k w - - 0 1")
	m := NewMove(48, 56, WhitePawn, NoPiece, WhiteKing, FlagNone) // a7a8, promote to king
	b.MakeMove(m)
	if b.PieceAt(56) != WhiteKing {
		t.Fatalf("promotion did not place the promoted piece")
	}
	if !b.UnmakeMove() {
		t.Fatalf("UnmakeMove failed")
	}
	if b.PieceAt(48) != WhitePawn || b.PieceAt(56) != NoPiece {
		t.Fatalf("unmake did not restore the pre-promotion pawn")
	}
}

func TestFENRoundTrip(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	b := mustFEN(t, fen)
	if got := b.ToFEN(); got != fen {
		t.Fatalf("round trip mismatch: got %q want %q", got, fen)
	}
}

func TestUnmakeEmptyStackReturnsFalse(t *testing.T) {
	b := NewBoard()
	if b.UnmakeMove() {
		t.Fatalf("UnmakeMove on a fresh board should return false")
	}
}
