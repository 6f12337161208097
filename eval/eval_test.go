package eval

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

func TestNoMovesIsWin(t *testing.T) {
	// White to move has no pieces at all, hence no legal move: a Suicide
	// win for white.
	b := mustFEN(t, "8/8/8/8/8/8/8/7k w - - 0 1")
	if got := (SuicideEvaluator{}).Result(b); got != Win {
		t.Fatalf("expected Win for a side to move with no pieces, got %v", got)
	}
}

func TestOppositeColoredBishopsIsDraw(t *testing.T) {
	// a1 is a dark square ((0+0)%2==0), b1 is a light square ((1+0)%2==1):
	// opposite-colored bishops and nothing else on the board.
	b := mustFEN(t, "8/8/8/8/8/8/8/Bb6 w - - 0 1")
	if got := (SuicideEvaluator{}).Result(b); got != Draw {
		t.Fatalf("expected Draw for opposite-colored bishops only, got %v", got)
	}
}

func TestSameColoredBishopsIsNotDraw(t *testing.T) {
	// a1 and c1 are both dark squares: same-colored bishops, not an
	// automatic draw.
	b := mustFEN(t, "8/8/8/8/8/8/8/B1b5 w - - 0 1")
	if got := (SuicideEvaluator{}).Result(b); got == Draw {
		t.Fatalf("same-colored bishops should not be reported as an automatic draw")
	}
}

func TestUnknownWhenMaterialRemains(t *testing.T) {
	b := mustFEN(t, "8/8/8/8/8/8/3R4/7k w - - 0 1")
	if got := (SuicideEvaluator{}).Result(b); got != Unknown {
		t.Fatalf("expected Unknown with a rook and moves available, got %v", got)
	}
}
