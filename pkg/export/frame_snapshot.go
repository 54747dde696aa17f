// Package export writes single movie frames to SVG or PNG files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/player"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/render"
)

// FrameSnapshotOptions controls frame export behaviour.
type FrameSnapshotOptions struct {
	Path     string // output path; format inferred from extension when Format empty
	Format   string // "svg" or "png" (case-insensitive)
	Position int    // sequence position to export
	Style    player.StyleParams
}

// SaveFrameSnapshot renders one tree of the sequence to a file. The
// session must already have layouts built; width and height default to
// the session's layout size.
func SaveFrameSnapshot(s *player.Session, opts FrameSnapshotOptions) error {
	if s == nil {
		return fmt.Errorf("no session")
	}
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	frame, err := s.FrameAt(opts.Position)
	if err != nil {
		return err
	}
	opts.Style.ShowLabels = true

	switch format {
	case "svg":
		file, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer file.Close()
		return s.Render(render.NewSVG(file), frame, opts.Position, opts.Style)
	default:
		return s.Render(render.NewPNG(opts.Path), frame, opts.Position, opts.Style)
	}
}
