//go:build ignore

// generate_bundle.go creates a synthetic movie bundle for manual testing
// of the player.
// Usage: go run scripts/generate_bundle.go [-trees N] [-leaves M] [-o path]
//
// The bundle contains N anchor trees over M leaves with one DOWN_PHASE
// and one SNAP_PHASE step between consecutive anchors, random branch
// lengths, and a small alignment payload.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

type node struct {
	Name     string  `json:"name,omitempty"`
	Length   float64 `json:"length"`
	Children []node  `json:"children,omitempty"`
}

type meta struct {
	GlobalTreeIndex int    `json:"global_tree_index"`
	TreeName        string `json:"tree_name"`
	TreePairKey     string `json:"tree_pair_key,omitempty"`
	StepInPair      int    `json:"step_in_pair,omitempty"`
	Phase           string `json:"phase"`
}

func main() {
	nTrees := flag.Int("trees", 5, "Number of anchor trees")
	nLeaves := flag.Int("leaves", 16, "Number of leaves")
	seed := flag.Int64("seed", 42, "Random seed")
	out := flag.String("o", "bundle_synthetic.json", "Output path")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	leaves := make([]string, *nLeaves)
	for i := range leaves {
		leaves[i] = fmt.Sprintf("taxon_%c_%02d", 'A'+i%4, i)
	}

	var trees []node
	var metadata []meta
	treesPerSEdge := map[string]int{}

	appendTree := func(name, pairKey, phase string, step int) {
		trees = append(trees, randomTree(rng, leaves))
		metadata = append(metadata, meta{
			GlobalTreeIndex: len(trees) - 1,
			TreeName:        name,
			TreePairKey:     pairKey,
			StepInPair:      step,
			Phase:           phase,
		})
	}

	for i := 0; i < *nTrees; i++ {
		appendTree(fmt.Sprintf("T%d", i), "", "ORIGINAL", 0)
		if i == *nTrees-1 {
			break
		}
		pair := fmt.Sprintf("pair_%d_%d", i, i+1)
		appendTree(fmt.Sprintf("T%d_down_1", i), pair, "DOWN_PHASE", 1)
		appendTree(fmt.Sprintf("T%d_snap_2", i), pair, "SNAP_PHASE", 2)
		treesPerSEdge[pair] = 2
	}

	sequences := map[string]string{}
	for _, l := range leaves {
		sequences[l] = randomSequence(rng, 200)
	}

	bundle := map[string]any{
		"file_name":          "synthetic.json",
		"sorted_leaves":      leaves,
		"interpolated_trees": trees,
		"tree_metadata":      metadata,
		"s_edge_metadata": map[string]any{
			"s_edge_count":             *nTrees - 1,
			"trees_per_s_edge":         treesPerSEdge,
			"total_interpolated_trees": 2 * (*nTrees - 1),
		},
		"tree_pair_solutions": map[string]any{},
		"msa": map[string]any{
			"alignment_length": 200,
			"window_size":      50,
			"step_size":        1,
			"sequences":        sequences,
		},
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s: %d trees, %d leaves\n", *out, len(trees), len(leaves))
}

// randomTree builds a random binary topology by repeatedly joining two
// subtrees until one remains.
func randomTree(rng *rand.Rand, leaves []string) node {
	pool := make([]node, len(leaves))
	for i, l := range leaves {
		pool[i] = node{Name: l, Length: 0.1 + rng.Float64()}
	}
	for len(pool) > 2 {
		i := rng.Intn(len(pool))
		a := pool[i]
		pool = append(pool[:i], pool[i+1:]...)
		j := rng.Intn(len(pool))
		b := pool[j]
		pool[j] = node{
			Length:   0.1 + rng.Float64(),
			Children: []node{a, b},
		}
	}
	return node{Children: pool}
}

func randomSequence(rng *rand.Rand, n int) string {
	const alphabet = "ACGT"
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}
