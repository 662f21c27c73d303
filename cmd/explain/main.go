// Command explain builds a query tree for a single query against a small
// fixture index, evaluates it, and prints the tree, the evaluation trace,
// and the per-alternative match counts. Useful for inspecting how a query
// is interpreted without running the full service.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/evaluator"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/index"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/query"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/synonym"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/tokenizer"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/config"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/logger"
)

func main() {
	rawQuery := flag.String("q", "hello world", "query to explain")
	seed := flag.Int64("seed", 102, "seed for the fixture postings")
	flag.Parse()

	logger.Setup("warn", "text")

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading defaults: %v\n", err)
		os.Exit(1)
	}

	mem := fixtureIndex(*seed)
	synonyms := fixtureSynonyms()

	planner := query.NewPlanner(mem, synonyms, cfg.Query)
	ctx := context.Background()

	words := tokenizer.Tokenize(*rawQuery)
	tree, err := planner.Build(ctx, words)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building query tree: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(query.Render(tree))
	fmt.Println("---------------------------------")

	eval := evaluator.New(mem, nil, cfg.Query.MaxEvalParallelism)
	result, err := eval.Evaluate(ctx, tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evaluating query tree: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.Trace.Render())
	fmt.Printf("found %d documents\n", len(result.Docs))
	fmt.Printf("distinct postings fetches %d\n", result.DistinctFetches)

	_, stats := evaluator.Reduce(result.Docs, result.Matches)
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("%s gives %d matches\n", id, stats[id])
	}
}

// fixtureIndex builds an in-memory index with synthetic postings whose
// document frequencies roughly mimic a corpus where "world" is common,
// "helloworld" is rare, and compound fragments like "hell" and "o" exist.
func fixtureIndex(seed int64) *index.Memory {
	rng := rand.New(rand.NewSource(seed))
	mem := index.NewMemory()

	freqs := []struct {
		term string
		docs int
	}{
		{"hello", 1500},
		{"helloworld", 100},
		{"hi", 4000},
		{"hell", 2500},
		{"o", 400},
		{"worl", 1400},
		{"world", 15000},
		{"earth", 8000},
		{"2020", 100},
		{"2019", 500},
		{"is", 50000},
		{"this", 50000},
		{"good", 1250},
		{"morning", 125},
	}
	for _, f := range freqs {
		seen := make(map[int]struct{}, f.docs)
		for len(seen) < f.docs {
			seen[rng.Intn(1<<16)] = struct{}{}
		}
		for id := range seen {
			positions := make([]int, rng.Intn(9)+1)
			for i := range positions {
				positions[i] = rng.Intn(1000)
			}
			mem.AddPosting(f.term, fmt.Sprintf("doc-%05d", id), positions)
		}
	}
	return mem
}

func fixtureSynonyms() *synonym.Static {
	dict := synonym.NewStatic()
	dict.Add([]string{"hello"}, []string{"hi"}, []string{"good", "morning"})
	dict.Add([]string{"world"}, []string{"earth"}, []string{"nature"})
	dict.Add([]string{"hello", "world"}, []string{"bonjour", "monde"})
	dict.Add([]string{"nyc"}, []string{"new", "york"}, []string{"new", "york", "city"})
	dict.Add([]string{"new", "york"}, []string{"nyc"}, []string{"new", "york", "city"})
	dict.Add([]string{"new", "york", "city"}, []string{"nyc"}, []string{"new", "york"})
	return dict
}
