package pns

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	bd "antichess-pns/board"
	"antichess-pns/egtb"
	"antichess-pns/eval"
	"antichess-pns/timer"
)

// maxDepth is the PNS engine's own depth guard (spec §4.2 step 1), set
// comfortably inside the board's 1000-entry move stack.
const maxDepth = 600

// arenaHeadroom pads the arena beyond MaxNodes: the main loop only checks
// the node budget between expansions, so a single expansion can add up to
// one position's worth of legal moves past the checkpoint before the loop
// notices the budget is exhausted. Capacity must absorb that overshoot or
// Arena.Alloc's contract-violation panic (spec §7) would fire on ordinary
// budget exhaustion instead of only on a genuine caller mis-sizing.
const arenaHeadroom = 4096

// Type selects between single-level and two-level proof-number search.
type Type int

const (
	PN1 Type = iota
	PN2
)

// Params bundles the PNS invocation parameters of spec §4.2's public
// contract, mirroring original_source's PNSParams.
type Params struct {
	Type Type
	// MaxNodes is the node budget for a top-level Search call; the arena
	// is sized at MaxNodes plus arenaHeadroom.
	MaxNodes int
	// PN2TreeLimit additionally caps every PN² sub-search's node budget,
	// independent of the logistic ramp below.
	PN2TreeLimit int
	PN2MaxNodesFractionA float64
	PN2MaxNodesFractionB float64
	// PN2FullSearch overrides the logistic ramp: every sub-search gets the
	// entire remaining budget.
	PN2FullSearch bool
	// SaveProgress, if nonzero, writes a tree snapshot file whenever the
	// node count after a main-loop iteration is an exact multiple of N (PN²
	// only, per spec §4.2 step 5). An iteration whose node count steps over
	// a multiple without landing on it writes no snapshot.
	SaveProgress int
	// LogProgress, if nonzero, prints a progress line at most every N
	// deciseconds.
	LogProgress int
}

// MoveGenerator is the external move generator (spec §6) the engine
// consumes; it observes but never mutates the board.
type MoveGenerator interface {
	Generate(b *bd.Board) []bd.Move
	CountMoves(b *bd.Board) int
	IsValid(b *bd.Board, m bd.Move) bool
}

// Evaluator is the external static evaluator (spec §6) the engine
// consumes.
type Evaluator interface {
	Result(b *bd.Board) eval.Result
}

// EGTBReader is the external tablebase lookup (spec §6) the engine
// consumes when exactly one piece remains on each side.
type EGTBReader interface {
	Lookup(b *bd.Board) (egtb.Entry, bool)
}

// RootMove is one entry of Search's result: a root child's move, its sort
// score, its subtree size, and its terminal label if solved.
type RootMove struct {
	Move     bd.Move
	Score    float64
	TreeSize uint32
	Result   Result
}

// Engine owns the board, the arena, and the external collaborators for one
// family of searches. The board is mutated only by make/unmake on the
// current search path and is always returned to its root position before
// Search returns (spec §4.2's "side effects" clause).
type Engine struct {
	board     *bd.Board
	gen       MoveGenerator
	evaluator Evaluator
	egtbr     EGTBReader // nil: no tablebase consulted
	arena     *Arena
	params    Params

	deadline *timer.Deadline
	numNodes int
	depth    int
	lastLog  time.Time
}

// NewEngine constructs an engine bound to board b. egtbr may be nil.
func NewEngine(b *bd.Board, gen MoveGenerator, evaluator Evaluator, egtbr EGTBReader, params Params) *Engine {
	return &Engine{
		board:     b,
		gen:       gen,
		evaluator: evaluator,
		egtbr:     egtbr,
		arena:     NewArena(params.MaxNodes + arenaHeadroom),
		params:    params,
	}
}

// Search runs the PNS main loop from the board's current position until
// the root is solved, the node budget is exhausted, or deadline expires
// (spec §4.2). The board is restored to its starting position before
// returning, and the result is sorted ascending by disproof/proof.
func (e *Engine) Search(deadline *timer.Deadline) []RootMove {
	e.deadline = deadline
	e.arena.Reset()
	rootOff := e.arena.Alloc(1)
	root := e.arena.Node(rootOff)
	*root = Node{Parent: noParent, Proof: 1, Disproof: 1, TreeSize: 1}
	e.numNodes = 1
	e.depth = 0
	e.lastLog = time.Now()

	for terminalResult(root.Proof, root.Disproof) == ResultUnknown && e.numNodes < e.params.MaxNodes {
		if e.deadline != nil && e.deadline.Expired() {
			break
		}
		mpn := e.findMPNFrom(rootOff)
		e.expand(mpn)
		e.backPropagate(mpn)
		e.logProgress()
		e.maybeSaveTree(rootOff)
	}

	for e.depth > 0 {
		e.board.UnmakeMove()
		e.depth--
	}

	return e.rootMoves(rootOff)
}

// findMPNFrom descends from 'start' to the most-proving frontier node,
// playing each descended move on the board (spec §4.2 step 1).
func (e *Engine) findMPNFrom(start int32) int32 {
	cur := start
	for {
		n := e.arena.Node(cur)
		if n.ChildrenSize == 0 {
			return cur
		}
		child := e.selectChild(n)
		cn := e.arena.Node(child)
		e.board.MakeMove(cn.Move)
		e.depth++
		cur = child
		if e.depth > maxDepth {
			// cur may already be an internal node reached via a repeated
			// line through an earlier PN² sub-search; detach it from its old
			// subtree so the forced draw sticks instead of being overwritten
			// by the next recomputeNode call up the backpropagation chain.
			forced := e.arena.Node(cur)
			setTerminal(forced, ResultDraw)
			forced.ChildrenOffset = 0
			forced.ChildrenSize = 0
			forced.TreeSize = 1
			return cur
		}
	}
}

// selectChild picks the child whose disproof equals the parent's proof, or
// the first child with nonzero proof when the parent's proof is ∞. Ties
// break in insertion (move-generator emission) order.
func (e *Engine) selectChild(n *Node) int32 {
	for i := int32(0); i < n.ChildrenSize; i++ {
		c := n.ChildrenOffset + i
		child := e.arena.Node(c)
		if n.Proof == InfNodes {
			if child.Proof > 0 {
				return c
			}
			continue
		}
		if child.Disproof == n.Proof {
			return c
		}
	}
	return n.ChildrenOffset
}

// expand turns a frontier node into an internal node, or solves it
// directly as a terminal (spec §4.2 step 2, §4.2 step 3).
func (e *Engine) expand(off int32) {
	n := e.arena.Node(off)
	// A forced depth-cutoff draw (findMPNFrom) stays terminal for good, even
	// though it may carry a stale ChildrenOffset/ChildrenSize from before it
	// was detached; check that before the already-expanded panic below.
	if terminalResult(n.Proof, n.Disproof) != ResultUnknown {
		return
	}
	if n.ChildrenSize > 0 {
		panic("pns: node already expanded")
	}
	if e.params.Type == PN2 {
		e.expandPN2(off, n)
	} else {
		e.expandNode(off, n)
	}
}

// expandNode runs the leaf checks (redundant-move cycle, static/tablebase
// result) and, failing both, a plain PN1 expansion. This is the step every
// never-before-seen frontier node goes through once, whether it sits under
// ordinary PN1 or inside a PN² sub-search (spec §4.2 step 2, step 3).
func (e *Engine) expandNode(off int32, n *Node) {
	if e.redundantMoves() {
		setTerminal(n, ResultDraw)
		n.TreeSize = 1
		return
	}
	if r := e.positionResult(); r != eval.Unknown {
		setTerminal(n, convertResult(r))
		n.TreeSize = 1
		return
	}
	e.expandPN1(off, n)
}

// positionResult evaluates the board's current position, falling back to
// the tablebase when exactly one piece remains on each side (spec §4.2
// step 2, §4.5).
func (e *Engine) positionResult() eval.Result {
	r := e.evaluator.Result(e.board)
	if r == eval.Unknown && e.egtbr != nil &&
		e.board.NumPieces(bd.White) == 1 && e.board.NumPieces(bd.Black) == 1 {
		if entry, ok := e.egtbr.Lookup(e.board); ok {
			r = relativeResult(entry, e.board.SideToMove())
		}
	}
	return r
}

func relativeResult(entry egtb.Entry, toMove bd.Side) eval.Result {
	switch entry.Winner {
	case egtb.WinnerNone:
		return eval.Draw
	case egtb.WinnerWhite:
		if toMove == bd.White {
			return eval.Win
		}
		return eval.Loss
	default:
		if toMove == bd.Black {
			return eval.Win
		}
		return eval.Loss
	}
}

func convertResult(r eval.Result) Result {
	switch r {
	case eval.Win:
		return ResultWin
	case eval.Loss:
		return ResultLoss
	case eval.Draw:
		return ResultDraw
	default:
		return ResultUnknown
	}
}

// expandPN1 generates every legal move, evaluates each resulting child,
// and links the children block contiguously in the arena (spec §4.2
// step 2, PN1).
func (e *Engine) expandPN1(off int32, n *Node) {
	moves := e.gen.Generate(e.board)
	base := e.arena.Alloc(len(moves))
	n = e.arena.Node(off)
	n.ChildrenOffset = base
	n.ChildrenSize = int32(len(moves))
	e.numNodes += len(moves)

	for i, m := range moves {
		child := e.arena.Node(base + int32(i))
		*child = Node{Move: m, Parent: off}
		e.board.MakeMove(m)
		if r := e.positionResult(); r != eval.Unknown {
			setTerminal(child, convertResult(r))
		} else {
			child.Proof = 1
			child.Disproof = uint32(e.gen.CountMoves(e.board))
		}
		child.TreeSize = 1
		e.board.UnmakeMove()
	}
}

// expandPN2 substitutes a bounded recursive PN1 sub-search for ordinary
// leaf scoring (spec §4.2 step 2, PN2; §9's "Delayed PN² evaluation"). The
// sub-search's own frontier nodes go through expandNode, never back through
// expand: off has no children of its own yet, so findMPNFrom(off) would
// otherwise just hand off straight back to us before any descent happens.
func (e *Engine) expandPN2(off int32, n *Node) {
	savedOffset := e.arena.Len()
	savedNumNodes := e.numNodes

	e.expandNode(off, n)
	n = e.arena.Node(off)
	if terminalResult(n.Proof, n.Disproof) != ResultUnknown {
		// expandNode solved it outright (redundant-move draw or a
		// static/tablebase result): no children were ever created.
		return
	}

	budget := PnNodes(e.params, e.numNodes)
	if e.params.PN2TreeLimit > 0 && budget > e.params.PN2TreeLimit {
		budget = e.params.PN2TreeLimit
	}
	if budget < 1 {
		budget = 1
	}
	limit := e.numNodes + budget

	for {
		cur := e.arena.Node(off)
		if terminalResult(cur.Proof, cur.Disproof) != ResultUnknown {
			break
		}
		if e.numNodes >= limit {
			break
		}
		if e.deadline != nil && e.deadline.Expired() {
			break
		}
		mpn := e.findMPNFrom(off)
		if mpn == off {
			break
		}
		e.expandNode(mpn, e.arena.Node(mpn))
		e.backPropagateTo(mpn, off)
	}

	n = e.arena.Node(off)
	if terminalResult(n.Proof, n.Disproof) != ResultUnknown {
		// The sub-search solved the node: discard its whole subtree,
		// including the immediate children expandNode gave it above.
		e.arena.Rewind(savedOffset)
		e.numNodes = savedNumNodes
		n.ChildrenOffset = 0
		n.ChildrenSize = 0
		n.TreeSize = 1
		return
	}

	// Retain only the node's immediate children; discard everything below
	// them (spec §4.2 step 2, PN2's "otherwise" branch).
	keepEnd := n.ChildrenOffset + n.ChildrenSize
	for i := int32(0); i < n.ChildrenSize; i++ {
		c := e.arena.Node(n.ChildrenOffset + i)
		c.ChildrenOffset = 0
		c.ChildrenSize = 0
		c.TreeSize = 1
	}
	e.arena.Rewind(keepEnd)
	e.numNodes = savedNumNodes + int(n.ChildrenSize)
	recomputeNode(n, e.arena)
}

// PnNodes implements the PN² logistic node-budget ramp (spec §4.2):
// pn_nodes(x) = min(ceil(max(x,1) * f(x)), max_nodes - x), f(x) =
// 1/(1+exp((a-x)/b)), with a = fractionA*max_nodes, b = fractionB*max_nodes.
// pn2_full_search overrides this with the entire remaining budget.
func PnNodes(p Params, numNodes int) int {
	remaining := p.MaxNodes - numNodes
	if remaining <= 0 {
		return 0
	}
	if p.PN2FullSearch {
		return remaining
	}
	a := p.PN2MaxNodesFractionA * float64(p.MaxNodes)
	b := p.PN2MaxNodesFractionB * float64(p.MaxNodes)
	x := float64(numNodes)
	f := 1.0 / (1.0 + math.Exp((a-x)/b))
	n := math.Ceil(math.Max(x, 1) * f)
	if n > float64(remaining) {
		n = float64(remaining)
	}
	return int(n)
}

// redundantMoves implements the cycle heuristic (spec §4.2 step 3): the
// four most recent plies form "A->B, B->A" for both players.
func (e *Engine) redundantMoves() bool {
	m1, ok1 := e.board.RecentMove(3)
	m2, ok2 := e.board.RecentMove(2)
	m3, ok3 := e.board.RecentMove(1)
	m4, ok4 := e.board.RecentMove(0)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return m1.From() == m3.To() && m1.To() == m3.From() &&
		m2.From() == m4.To() && m2.To() == m4.From()
}

// backPropagate walks from the just-expanded node toward the root,
// recomputing proof/disproof/tree_size and unmaking one move per step,
// stopping the recomputation early once a step leaves its parent unchanged
// (spec §4.2 step 4). The board always ends at the root position, where the
// next findMPNFrom descent starts.
func (e *Engine) backPropagate(cur int32) {
	e.backPropagateTo(cur, noParent)
}

// backPropagateTo is backPropagate bounded to stop at (and not recompute
// past) the node at offset 'stop', used by PN² sub-searches so they never
// touch ancestors above the node they were asked to expand.
func (e *Engine) backPropagateTo(cur, stop int32) {
	n := e.arena.Node(cur)
	recomputeNode(n, e.arena)
	for n.Parent != noParent && cur != stop {
		parentOff := n.Parent
		e.board.UnmakeMove()
		e.depth--
		parent := e.arena.Node(parentOff)
		oldProof, oldDisproof, oldSize := parent.Proof, parent.Disproof, parent.TreeSize
		recomputeNode(parent, e.arena)
		if parent.Proof == oldProof && parent.Disproof == oldDisproof && parent.TreeSize == oldSize {
			// Nothing above is affected, but the caller's next descent starts
			// at 'stop' (or the root), so unwind the board to that node.
			for parent.Parent != noParent && parentOff != stop {
				parentOff = parent.Parent
				e.board.UnmakeMove()
				e.depth--
				parent = e.arena.Node(parentOff)
			}
			break
		}
		cur = parentOff
		n = parent
	}
}

func (e *Engine) rootMoves(rootOff int32) []RootMove {
	root := e.arena.Node(rootOff)
	out := make([]RootMove, 0, root.ChildrenSize)
	for i := int32(0); i < root.ChildrenSize; i++ {
		c := e.arena.Node(root.ChildrenOffset + i)
		out = append(out, RootMove{
			Move:     c.Move,
			Score:    scoreOf(c),
			TreeSize: c.TreeSize,
			Result:   terminalResult(c.Proof, c.Disproof),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

// scoreOf is the root sort key: disproof/proof, with proof=0 special-cased
// to the largest representable score (spec §4.2's sort key: proof=0 is a
// proven win for the opponent, the worst possible root move).
func scoreOf(c *Node) float64 {
	if c.Proof == 0 {
		return math.MaxFloat64
	}
	return float64(c.Disproof) / float64(c.Proof)
}

func (e *Engine) logProgress() {
	if e.params.LogProgress <= 0 {
		return
	}
	if time.Since(e.lastLog) < time.Duration(e.params.LogProgress)*100*time.Millisecond {
		return
	}
	fmt.Printf("# Progress: nodes=%d depth=%d arena=%d\n", e.numNodes, e.depth, e.arena.Len())
	e.lastLog = time.Now()
}

func (e *Engine) maybeSaveTree(rootOff int32) {
	if e.params.SaveProgress <= 0 || e.params.Type != PN2 {
		return
	}
	if e.numNodes%e.params.SaveProgress != 0 {
		return
	}
	e.SaveTree(rootOff)
}

// SaveTree writes a diagnostic snapshot of the tree rooted at rootOff to
// "pns_progress_<pid>_<nodes>" (spec §6's save-tree file format).
func (e *Engine) SaveTree(rootOff int32) {
	name := fmt.Sprintf("pns_progress_%d_%d", os.Getpid(), e.numNodes)
	f, err := os.Create(name)
	if err != nil {
		return
	}
	defer f.Close()
	e.saveTreeHelper(f, rootOff)
}

func (e *Engine) saveTreeHelper(f *os.File, off int32) {
	n := e.arena.Node(off)
	fen := e.board.ToFEN()
	fmt.Fprintf(f, "# %s\n", fen)
	for i := int32(0); i < n.ChildrenSize; i++ {
		c := e.arena.Node(n.ChildrenOffset + i)
		fmt.Fprintf(f, "%s|%s|%v|%d|%d|%d\n", fen, c.Move.String(), scoreOf(c), c.Proof, c.Disproof, c.TreeSize)
	}
	for i := int32(0); i < n.ChildrenSize; i++ {
		childOff := n.ChildrenOffset + i
		c := e.arena.Node(childOff)
		e.board.MakeMove(c.Move)
		e.saveTreeHelper(f, childOff)
		e.board.UnmakeMove()
	}
}
