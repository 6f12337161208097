// Command pnsearch loads a position and runs the PNS/PN² engine against
// it, printing the ordered root-move list (spec §4.2, §6).
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	bd "antichess-pns/board"
	"antichess-pns/egtb"
	"antichess-pns/eval"
	"antichess-pns/movegen"
	"antichess-pns/pns"
	"antichess-pns/timer"
)

func main() {
	fen := flag.String("fen", bd.StartFEN, "FEN of the position to search")
	maxNodes := flag.Int("nodes", 50000, "node budget for the search")
	pn2 := flag.Bool("pn2", false, "use two-level PN2 search instead of plain PN1")
	pn2TreeLimit := flag.Int("pn2-tree-limit", 0, "cap on every PN2 sub-search's node budget (0 = no extra cap)")
	fractionA := flag.Float64("pn2-fraction-a", 0.1, "PN2 logistic ramp parameter a, as a fraction of max-nodes")
	fractionB := flag.Float64("pn2-fraction-b", 0.03, "PN2 logistic ramp parameter b, as a fraction of max-nodes")
	fullSearch := flag.Bool("pn2-full-search", false, "give every PN2 sub-search the entire remaining budget")
	saveProgress := flag.Int("save-progress", 0, "write a tree snapshot file whenever the node count is a multiple of N (PN2 only, 0 = never)")
	logProgress := flag.Int("log-progress", 0, "print a progress line every N deciseconds (0 = never)")
	egtbPath := flag.String("egtb", "", "path to a generated EGTB table file (optional)")
	timeLimit := flag.Duration("time", 0, "wall-clock search limit (0 = unbounded)")
	flag.Parse()

	board, err := bd.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("pnsearch: %v", err)
	}

	var reader pns.EGTBReader
	if *egtbPath != "" {
		r, err := egtb.Open(*egtbPath)
		if err != nil {
			log.Fatalf("pnsearch: opening EGTB: %v", err)
		}
		defer r.Close()
		reader = r
	}

	pnsType := pns.PN1
	if *pn2 {
		pnsType = pns.PN2
	}
	params := pns.Params{
		Type:                 pnsType,
		MaxNodes:             *maxNodes,
		PN2TreeLimit:         *pn2TreeLimit,
		PN2MaxNodesFractionA: *fractionA,
		PN2MaxNodesFractionB: *fractionB,
		PN2FullSearch:        *fullSearch,
		SaveProgress:         *saveProgress,
		LogProgress:          *logProgress,
	}

	engine := pns.NewEngine(board, movegen.Generator{}, eval.SuicideEvaluator{}, reader, params)

	var deadline *timer.Deadline
	if *timeLimit > 0 {
		deadline = timer.NewDeadline(*timeLimit)
	} else {
		deadline = timer.Unbounded()
	}

	start := time.Now()
	results := engine.Search(deadline)
	elapsed := time.Since(start)

	fmt.Printf("# Move, score, tree_size, result (%s, %v elapsed):\n", *fen, elapsed)
	for _, rm := range results {
		fmt.Printf("%s %v %d %s\n", rm.Move.String(), rm.Score, rm.TreeSize, rm.Result)
	}
}
