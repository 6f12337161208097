package movegen

import (
	"testing"

	bd "antichess-pns/board"
)

func mustFEN(t *testing.T, fen string) *bd.Board {
	t.Helper()
	b, err := bd.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func TestMandatoryCapture(t *testing.T) {
	// White rook can capture the black pawn, and also has quiet moves
	// available; mandatory capture must filter the quiet moves out.
	b := mustFEN(t, "8/8/8/8/3p4/8/3R4/8 w - - 0 1")
	moves := GenerateMoves(b)
	if len(moves) == 0 {
		t.Fatalf("expected at least one move")
	}
	for _, m := range moves {
		if !m.IsCapture() {
			t.Fatalf("mandatory capture violated: non-capturing move %s present alongside a capture", m)
		}
	}
}

func TestNoCapturesAvailableGeneratesQuietMoves(t *testing.T) {
	b := mustFEN(t, "8/8/8/8/8/8/3R4/8 w - - 0 1")
	moves := GenerateMoves(b)
	if len(moves) == 0 {
		t.Fatalf("expected quiet moves when no capture is available")
	}
	for _, m := range moves {
		if m.IsCapture() {
			t.Fatalf("unexpected capture %s with no enemy pieces on the board", m)
		}
	}
}

func TestPromotionIncludesKing(t *testing.T) {
	b := mustFEN(t, "8/P7/8/8/8/8/8/8 w - - 0 1")
	moves := GenerateMoves(b)
	sawKing := false
	for _, m := range moves {
		if m.PromotionPiece().Type() == bd.TypeKing {
			sawKing = true
		}
	}
	if !sawKing {
		t.Fatalf("expected a promotion-to-king move among %v", moves)
	}
}

func TestIsValid(t *testing.T) {
	b := mustFEN(t, "8/8/8/8/8/8/3R4/8 w - - 0 1")
	moves := GenerateMoves(b)
	if len(moves) == 0 {
		t.Fatalf("expected moves")
	}
	if !IsValid(b, moves[0]) {
		t.Fatalf("IsValid rejected a move GenerateMoves produced")
	}
	bogus := bd.NewMove(0, 63, bd.WhiteRook, bd.NoPiece, bd.NoPiece, bd.FlagNone)
	if IsValid(b, bogus) {
		t.Fatalf("IsValid accepted a move that was never generated")
	}
}

func TestCountMovesMatchesGenerateLength(t *testing.T) {
	b := mustFEN(t, "8/8/8/8/3p4/8/3R4/8 w - - 0 1")
	if CountMoves(b) != len(GenerateMoves(b)) {
		t.Fatalf("CountMoves disagreed with len(GenerateMoves)")
	}
}
