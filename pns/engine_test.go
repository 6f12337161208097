package pns

import (
	"testing"

	bd "antichess-pns/board"
	"antichess-pns/eval"
	"antichess-pns/movegen"
	"antichess-pns/timer"
)

func mustFEN(t *testing.T, fen string) *bd.Board {
	t.Helper()
	b, err := bd.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func newTestEngine(b *bd.Board, params Params) *Engine {
	return NewEngine(b, movegen.Generator{}, eval.SuicideEvaluator{}, nil, params)
}

func TestPnNodesWithinBudget(t *testing.T) {
	params := Params{MaxNodes: 100000, PN2MaxNodesFractionA: 0.1, PN2MaxNodesFractionB: 0.03}
	got := PnNodes(params, 500)
	if got > 500 {
		t.Fatalf("PnNodes(500) = %d, want <= 500", got)
	}
	if got <= 0 {
		t.Fatalf("PnNodes(500) = %d, want > 0", got)
	}
}

func TestPnNodesFullSearchUsesRemainder(t *testing.T) {
	params := Params{MaxNodes: 1000, PN2FullSearch: true}
	if got := PnNodes(params, 200); got != 800 {
		t.Fatalf("PnNodes with full search = %d, want 800", got)
	}
}

func TestOppositeBishopsRootIsImmediatelyDraw(t *testing.T) {
	b := mustFEN(t, "8/8/8/8/8/8/8/Bb6 w - - 0 1")
	orig := b.ZobristKey()
	e := newTestEngine(b, Params{MaxNodes: 16})
	results := e.Search(timer.Unbounded())
	if len(results) != 0 {
		t.Fatalf("a terminal root should have no root children, got %d", len(results))
	}
	if b.ZobristKey() != orig {
		t.Fatalf("board was not restored to its root position")
	}
}

func TestForcedCaptureOfLastPieceIsLabelledWin(t *testing.T) {
	// White has a single mandatory capture (rook takes the only black
	// piece). Afterward it's black's move with zero pieces and zero legal
	// moves, which the Suicide no-moves rule labels a WIN for black — the
	// side to move at that child node.
	b := mustFEN(t, "8/8/8/8/8/8/3p4/3R4 w - - 0 1")
	e := newTestEngine(b, Params{MaxNodes: 64})
	results := e.Search(timer.Unbounded())
	if len(results) != 1 {
		t.Fatalf("expected exactly one root move (the mandatory capture), got %d", len(results))
	}
	if results[0].Result != ResultWin {
		t.Fatalf("expected the sole root move to be labelled WIN, got %v", results[0].Result)
	}
}

func TestRedundantMovesDetectsShuffle(t *testing.T) {
	// The white rook and the black king shuffle back and forth: white
	// d1-d5-d1, black h8-h4-h8 (MakeMove does not check that the king step
	// is legal). The 4th ply reproduces the position from before ply 1, so
	// RedundantMoves should fire on the next expansion.
	b := mustFEN(t, "7k/8/8/8/8/8/8/3R3K w - - 0 1")
	b.MakeMove(bd.NewMove(3, 35, bd.WhiteRook, bd.NoPiece, bd.NoPiece, bd.FlagNone))   // d1d5
	b.MakeMove(bd.NewMove(63, 31, bd.BlackKing, bd.NoPiece, bd.NoPiece, bd.FlagNone)) // h8h4
	b.MakeMove(bd.NewMove(35, 3, bd.WhiteRook, bd.NoPiece, bd.NoPiece, bd.FlagNone))   // d5d1
	b.MakeMove(bd.NewMove(31, 63, bd.BlackKing, bd.NoPiece, bd.NoPiece, bd.FlagNone)) // h4h8
	e := newTestEngine(b, Params{MaxNodes: 4})
	if !e.redundantMoves() {
		t.Fatalf("expected RedundantMoves to detect the A-B-A-B shuffle")
	}
}

func TestBudgetCancellationRestoresBoard(t *testing.T) {
	b := mustFEN(t, bd.StartFEN)
	orig := b.ZobristKey()
	e := newTestEngine(b, Params{MaxNodes: 50})
	results := e.Search(timer.Unbounded())
	_ = results
	if b.ZobristKey() != orig {
		t.Fatalf("board was not restored to its root position after budget exhaustion")
	}
}

func TestDepthGuardOnAlreadyExpandedNodeDoesNotPanic(t *testing.T) {
	// Build a node that already has children (as if expanded in an earlier
	// PN² sub-search iteration), then force findMPNFrom's depth guard to
	// land on it. expand() must treat it as the draw the guard assigned,
	// not panic on the stale children.
	b := mustFEN(t, bd.StartFEN)
	e := newTestEngine(b, Params{MaxNodes: 64})
	e.arena.Reset()
	rootOff := e.arena.Alloc(1)
	root := e.arena.Node(rootOff)
	*root = Node{Parent: noParent, Proof: 1, Disproof: 1, TreeSize: 1}
	e.numNodes = 1

	childOff := e.arena.Alloc(1)
	child := e.arena.Node(childOff)
	*child = Node{Move: bd.NewMove(12, 28, bd.WhitePawn, bd.NoPiece, bd.NoPiece, bd.FlagNone), Parent: rootOff, Proof: 1, Disproof: 1, TreeSize: 1}
	root.ChildrenOffset = childOff
	root.ChildrenSize = 1
	e.numNodes = 2

	grandchildOff := e.arena.Alloc(1)
	*e.arena.Node(grandchildOff) = Node{Parent: childOff, Proof: 1, Disproof: 1, TreeSize: 1}
	child.ChildrenOffset = grandchildOff
	child.ChildrenSize = 1
	e.numNodes = 3

	e.depth = maxDepth
	mpn := e.findMPNFrom(rootOff)
	if mpn != childOff {
		t.Fatalf("expected the depth guard to stop at the already-expanded child, got offset %d", mpn)
	}
	if got := terminalResult(child.Proof, child.Disproof); got != ResultDraw {
		t.Fatalf("depth guard should mark the node drawn, got %v", got)
	}
	if child.ChildrenSize != 0 {
		t.Fatalf("depth guard should detach the node from its stale subtree, got ChildrenSize=%d", child.ChildrenSize)
	}

	e.expand(mpn) // must not panic
	if got := terminalResult(child.Proof, child.Disproof); got != ResultDraw {
		t.Fatalf("expand() must leave a forced draw untouched, got %v", got)
	}

	e.backPropagateTo(mpn, rootOff)
	if child.ChildrenSize != 0 {
		t.Fatalf("backPropagateTo must not recompute a forced-terminal node from its old children")
	}
}

func TestPN2SearchCompletesWithoutUnboundedRecursion(t *testing.T) {
	// A smoke test for the PN² sub-search loop: if expandPN2 ever routed a
	// never-before-seen node back through the Type-dispatching expand(),
	// the very first sub-search iteration would call itself forever.
	b := mustFEN(t, bd.StartFEN)
	e := newTestEngine(b, Params{
		Type:                 PN2,
		MaxNodes:             300,
		PN2MaxNodesFractionA: 0.1,
		PN2MaxNodesFractionB: 0.03,
	})
	orig := b.ZobristKey()
	results := e.Search(timer.Unbounded())
	if len(results) == 0 {
		t.Fatalf("expected root moves from the starting position")
	}
	if b.ZobristKey() != orig {
		t.Fatalf("board was not restored to its root position")
	}
}
