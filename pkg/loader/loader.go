// Package loader reads and validates movie bundles: the JSON payload
// produced by the interpolation pipeline, holding the tree sequence,
// per-pair solutions, distance series, and optional MSA data.
package loader

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/debug"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/distance"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/metrics"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// bundleWire mirrors the bundle JSON, including the legacy aliases older
// pipeline versions emitted alongside the canonical fields.
type bundleWire struct {
	InterpolatedTrees   []model.TreeInput             `json:"interpolated_trees"`
	TreeList            []model.TreeInput             `json:"tree_list"` // legacy alias
	TreeMetadata        []model.TreeMeta              `json:"tree_metadata"`
	SEdgeMetadata       model.SEdgeMetadata           `json:"s_edge_metadata"`
	TreePairSolutions   map[string]model.PairSolution `json:"tree_pair_solutions"`
	LatticeEdgeTracking []model.EdgeRef               `json:"lattice_edge_tracking"`
	RFDList             []float64                     `json:"rfd_list"`
	WRFDList            []float64                     `json:"wrfd_list"`
	ScaleList           []float64                     `json:"scaleList"`
	SortedLeaves        []string                      `json:"sorted_leaves"`
	MSA                 *model.MSAData                `json:"msa"`
	FileName            string                        `json:"file_name"`
}

// Load reads a movie bundle from disk.
func Load(path string) (*model.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading movie bundle: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes, normalizes, and validates a movie bundle. The returned
// movie is ready for layout: trees are arena-built with canonical splits,
// missing metadata is derived, and absent distance series are recomputed
// from the anchor trees.
func Parse(data []byte, fileName string) (*model.Movie, error) {
	defer metrics.Timer(metrics.BundleParse)()
	start := time.Now()
	var wire bundleWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidMovie, err)
	}

	inputs := wire.InterpolatedTrees
	if len(inputs) == 0 {
		inputs = wire.TreeList
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no trees in sequence", model.ErrInvalidMovie)
	}

	leaves := wire.SortedLeaves
	if len(leaves) == 0 {
		leaves = leafNamesDFS(inputs[0])
	}

	movie := &model.Movie{
		Metadata:            wire.TreeMetadata,
		SEdge:               wire.SEdgeMetadata,
		PairSolutions:       wire.TreePairSolutions,
		LatticeEdgeTracking: wire.LatticeEdgeTracking,
		RFDList:             wire.RFDList,
		WRFDList:            wire.WRFDList,
		ScaleList:           wire.ScaleList,
		SortedLeaves:        leaves,
		MSA:                 wire.MSA,
		FileName:            wire.FileName,
	}
	if movie.FileName == "" {
		movie.FileName = fileName
	}

	movie.Trees = make([]*model.Tree, 0, len(inputs))
	for i, in := range inputs {
		tree, err := model.BuildTree(in, leaves)
		if err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", model.ErrInvalidMovie, i, err)
		}
		movie.Trees = append(movie.Trees, tree)
	}

	if len(movie.Metadata) == 0 {
		movie.Metadata = syntheticMetadata(len(movie.Trees))
	}
	movie.EnsureDerived()
	if err := movie.Validate(); err != nil {
		return nil, err
	}
	fillDistances(movie)

	debug.LogTiming("loader.Parse", time.Since(start))
	debug.Log("loaded %q: %d trees, %d leaves, %d pairs",
		movie.FileName, len(movie.Trees), len(movie.SortedLeaves), len(movie.PairSolutions))
	return movie, nil
}

// syntheticMetadata treats every tree as an anchor when the bundle carries
// no metadata at all (plain tree-list input).
func syntheticMetadata(n int) []model.TreeMeta {
	out := make([]model.TreeMeta, n)
	for i := range out {
		out[i] = model.TreeMeta{
			GlobalTreeIndex: i,
			TreeName:        fmt.Sprintf("T%d", i),
			Phase:           model.PhaseOriginal,
		}
	}
	return out
}

// fillDistances recomputes the RF and weighted RF series over consecutive
// anchors when the bundle omits them.
func fillDistances(m *model.Movie) {
	var anchors []*model.Tree
	for i, meta := range m.Metadata {
		if meta.Phase.IsAnchor() {
			anchors = append(anchors, m.Trees[i])
		}
	}
	if len(anchors) < 2 {
		return
	}
	if len(m.RFDList) == 0 {
		m.RFDList = distance.RelativeRFSeries(anchors)
	}
	if len(m.WRFDList) == 0 {
		m.WRFDList = distance.WeightedRFSeries(anchors)
	}
}

func leafNamesDFS(in model.TreeInput) []string {
	var out []string
	var walk func(model.TreeInput)
	walk = func(n model.TreeInput) {
		if len(n.Children) == 0 {
			out = append(out, n.Name)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(in)
	return out
}
