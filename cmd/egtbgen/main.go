// Command egtbgen runs the retrograde EGTB generator over two FEN-list
// files and writes the resulting table (spec §4.4, §6).
package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	bd "antichess-pns/board"
	"antichess-pns/egtb"
	"antichess-pns/eval"
	"antichess-pns/movegen"
)

func main() {
	finalPath := flag.String("final", "", "file of FEN lines for already-decided positions (one per line)")
	allPath := flag.String("all", "", "file of FEN lines for every remaining legal position in the configuration")
	winningSideFlag := flag.String("winning-side", "w", "side trying to win: 'w' or 'b'")
	outPath := flag.String("out", "egtb.table", "output table file path")
	flag.Parse()

	if *allPath == "" {
		log.Fatal("egtbgen: -all is required")
	}

	var winningSide bd.Side
	switch *winningSideFlag {
	case "w":
		winningSide = bd.White
	case "b":
		winningSide = bd.Black
	default:
		log.Fatalf("egtbgen: -winning-side must be 'w' or 'b', got %q", *winningSideFlag)
	}

	allPositions, err := readLines(*allPath)
	if err != nil {
		log.Fatalf("egtbgen: %v", err)
	}

	var finalPositions []string
	if *finalPath != "" {
		finalPositions, err = readLines(*finalPath)
		if err != nil {
			log.Fatalf("egtbgen: %v", err)
		}
	}

	store, err := egtb.Generate(movegen.Generator{}, eval.SuicideEvaluator{}, finalPositions, allPositions, winningSide)
	if err != nil {
		log.Fatalf("egtbgen: %v", err)
	}

	log.Printf("egtbgen: classified %d positions", store.Len())
	if err := store.Write(*outPath); err != nil {
		log.Fatalf("egtbgen: writing %s: %v", *outPath, err)
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
