package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/enesBerkSakalli/phylo-movies-sub007/internal/datasource"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/config"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/debug"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/loader"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/ui"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/version"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	noWatch := flag.Bool("no-watch", false, "Disable live reload when the bundle changes")
	forcePoll := flag.Bool("poll", false, "Use stat polling instead of fsnotify for live reload")
	noResume := flag.Bool("no-resume", false, "Ignore the stored session and start at the first tree")
	position := flag.Int("position", -1, "Start at a specific sequence position")
	flag.Parse()

	if *help {
		fmt.Println("Usage: phylomovies [options] <bundle.json>")
		fmt.Println("\nAn interactive terminal player for phylogenetic tree movies.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("phylomovies %s\n", version.Version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: phylomovies [options] <bundle.json>")
		os.Exit(2)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "phylomovies needs an interactive terminal (use pmsnap for file output)")
		os.Exit(1)
	}

	bundlePath, err := filepath.Abs(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid bundle path: %v\n", err)
		os.Exit(1)
	}

	movie, err := loader.Load(bundlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bundle: %v\n", err)
		os.Exit(1)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults
		cfg = config.DefaultConfig()
	}

	// Live reload watcher; errors only reach the debug log.
	var w *watcher.Watcher
	if !*noWatch {
		w, err = watcher.New(bundlePath,
			watcher.WithForcePoll(*forcePoll),
			watcher.WithOnError(func(err error) {
				debug.Warn("watcher: %v", err)
			}),
		)
		if err == nil {
			if startErr := w.Start(); startErr != nil {
				debug.Warn("watcher start: %v", startErr)
				w = nil
			}
		} else {
			debug.Warn("watcher: %v", err)
			w = nil
		}
	}
	if w != nil {
		defer w.Stop()
	}

	// Stored sessions live in the XDG state directory.
	var sessions *datasource.SessionDB
	if dir := config.StateDir(); dir != "" {
		sessions, err = datasource.Open(filepath.Join(dir, "sessions.db"))
		if err != nil {
			debug.Warn("session db: %v", err)
			sessions = nil
		}
	}
	if sessions != nil {
		defer sessions.Close()
	}

	m := ui.New(cfg, movie, bundlePath, w)
	if sessions != nil && !*noResume {
		if stored, err := sessions.Load(bundlePath); err == nil {
			m = m.WithSession(stored)
		}
	}
	if *position >= 0 {
		m = m.WithPosition(*position)
	}

	final, err := runTUIProgram(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running player: %v\n", err)
		os.Exit(1)
	}

	// Persist the session and the recent-files list.
	if fm, ok := final.(ui.Model); ok {
		if sessions != nil {
			if err := sessions.Save(fm.SessionRecord()); err != nil {
				debug.Warn("session save: %v", err)
			}
			if err := sessions.Prune(50); err != nil {
				debug.Warn("session prune: %v", err)
			}
		}
		cfg.RememberRecent(bundlePath)
		if err := config.Save(cfg); err != nil {
			debug.Warn("config save: %v", err)
		}
	}
}

func runTUIProgram(m ui.Model) (tea.Model, error) {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	final, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return final, nil
	}
	return final, err
}
