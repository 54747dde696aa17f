// pmsnap renders movie frames to SVG or PNG files without the
// interactive player, for figures and pipeline checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/config"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/export"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/layout"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/loader"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/player"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/version"
)

func main() {
	out := flag.String("o", "", "Output path (default: <bundle>_<pos>.svg)")
	format := flag.String("format", "", "Output format: svg or png (default: from extension)")
	pos := flag.Int("position", 0, "Sequence position to render")
	anchors := flag.Bool("anchors", false, "Export every full tree instead of one position")
	width := flag.Float64("width", 0, "Canvas width in px")
	height := flag.Float64("height", 0, "Canvas height in px")
	factor := flag.Float64("factor", 1, "Zoom factor")
	transform := flag.String("transform", "none", "Branch length transform (none, log, sqrt, ignore, power-K, linear-scale-K)")
	uniform := flag.Bool("uniform", false, "Uniform scaling across all trees")
	mono := flag.Bool("monophyletic", false, "Color monophyletic groups")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("pmsnap %s\n", version.Version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: pmsnap [options] <bundle.json>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	bundlePath := flag.Arg(0)

	movie, err := loader.Load(bundlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bundle: %v\n", err)
		os.Exit(1)
	}

	tr, err := layout.ParseTransform(*transform)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	w, h := *width, *height
	if w <= 0 {
		w = cfg.Export.Width
	}
	if h <= 0 {
		h = cfg.Export.Height
	}

	session := player.NewSession(movie)
	err = session.BuildLayouts(context.Background(), player.LayoutParams{
		Width:          w,
		Height:         h,
		Margin:         40,
		Factor:         *factor,
		Transform:      tr,
		UniformScaling: *uniform,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing layouts: %v\n", err)
		os.Exit(1)
	}

	style := player.StyleParams{
		MonophyleticColoring: *mono,
		StrokeWidth:          cfg.Style.StrokeWidth,
		FontSize:             cfg.Style.FontSize,
		ShowLabels:           true,
	}

	if *anchors {
		exportAnchors(session, bundlePath, *out, *format, style)
		return
	}

	path := *out
	if path == "" {
		path = defaultPath(bundlePath, *pos, *format)
	}
	err = export.SaveFrameSnapshot(session, export.FrameSnapshotOptions{
		Path:     path,
		Format:   *format,
		Position: *pos,
		Style:    style,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(path)
}

// exportAnchors writes one file per full tree into a directory.
func exportAnchors(s *player.Session, bundlePath, outDir, format string, style player.StyleParams) {
	if outDir == "" {
		outDir = strings.TrimSuffix(bundlePath, filepath.Ext(bundlePath)) + "_frames"
	}
	ext := format
	if ext == "" {
		ext = "svg"
	}

	failed := 0
	for _, pos := range s.Timeline.FullTreeIndices() {
		path := filepath.Join(outDir, fmt.Sprintf("tree_%04d.%s", pos, ext))
		err := export.SaveFrameSnapshot(s, export.FrameSnapshotOptions{
			Path:     path,
			Format:   format,
			Position: pos,
			Style:    style,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Println(path)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func defaultPath(bundlePath string, pos int, format string) string {
	ext := format
	if ext == "" {
		ext = "svg"
	}
	base := strings.TrimSuffix(filepath.Base(bundlePath), filepath.Ext(bundlePath))
	return fmt.Sprintf("%s_%04d.%s", base, pos, ext)
}
