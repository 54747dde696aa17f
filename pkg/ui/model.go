// Package ui is the interactive terminal player: a bubbletea model that
// drives playback over a loaded movie, renders the radial tree into the
// terminal, and exposes the view toggles on keybindings.
package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"

	"github.com/enesBerkSakalli/phylo-movies-sub007/internal/datasource"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/anim"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/config"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/export"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/layout"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/loader"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/newick"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/player"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/render"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/store"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/watcher"
)

// tickMsg advances the animation clock.
type tickMsg time.Time

// FileChangedMsg is sent when the bundle changes on disk.
type FileChangedMsg struct{}

// reloadedMsg carries the result of re-reading the bundle.
type reloadedMsg struct {
	movie *model.Movie
	err   error
}

// layoutBuiltMsg reports completion of a background layout build.
type layoutBuiltMsg struct{ err error }

// Reserved rows around the tree pane: header, timeline, chart, msa,
// status, plus the pane border.
const chromeRows = 7

// Model is the top-level bubbletea model of the player.
type Model struct {
	store   *store.Store
	nav     *store.Navigator
	session *player.Session
	driver  *anim.Driver
	term    *render.TermRenderer
	keys    keyMap
	cfg     config.Config

	bundlePath string
	watch      *watcher.Watcher

	cur     anim.FramePos
	playDir anim.PlayDirection

	width    int
	height   int
	building bool
	ready    bool
	showHelp bool
	helpText string
	status   string
	err      error
}

// New builds the player model over an already loaded movie. The watcher
// is optional; pass nil to disable live reload.
func New(cfg config.Config, m *model.Movie, bundlePath string, w *watcher.Watcher) Model {
	st := store.New()
	st.Initialize(m)
	st.SetSpeed(cfg.Playback.Speed)
	st.SetFactor(cfg.Style.Factor)
	st.SetFontSize(cfg.Style.FontSize)
	st.SetStrokeWidth(cfg.Style.StrokeWidth)
	if tr, err := layout.ParseTransform(cfg.Style.BranchTransform); err == nil {
		st.SetBranchTransform(tr)
	}
	st.SetUniformScaling(cfg.Style.UniformScaling)
	st.SetMonophyleticColoring(cfg.Style.MonophyleticColoring)

	return Model{
		store:      st,
		nav:        store.NewNavigator(st),
		session:    player.NewSession(m),
		driver:     anim.NewDriver(m.TreeCount(), st.Get().Speed),
		term:       render.NewTerm(0, 0),
		keys:       defaultKeyMap(),
		cfg:        cfg,
		bundlePath: bundlePath,
		watch:      w,
		playDir:    anim.Forward,
	}
}

// WithSession restores a previously persisted viewing session on top of
// the config defaults. Out-of-range positions are clamped by the store.
func (m Model) WithSession(sess *datasource.Session) Model {
	if sess == nil {
		return m
	}
	m.store.GoToPosition(sess.Position)
	m.store.SetSpeed(sess.Speed)
	m.store.SetFactor(sess.Factor)
	if tr, err := layout.ParseTransform(sess.BranchTransform); err == nil {
		m.store.SetBranchTransform(tr)
	}
	m.store.SetUniformScaling(sess.UniformScaling)
	m.store.SetMonophyleticColoring(sess.MonophyleticColoring)
	m.store.SetDimInactive(sess.DimInactive)
	m.store.SetDimMarked(sess.DimMarked)
	m.store.SetMSAWindowSize(sess.MSAWindowSize)
	m.store.SetMSAStepSize(sess.MSAStepSize)
	switch opt := store.BarOption(sess.BarOption); opt {
	case store.BarRFD, store.BarWRFD, store.BarScale:
		m.store.SetBarOption(opt)
	}

	nLeaves := len(m.store.Get().Movie.SortedLeaves)
	for _, ordinals := range sess.ManualMarks {
		set := model.NewLeafSet(nLeaves)
		for _, o := range ordinals {
			set = set.Add(o)
		}
		m.store.ToggleManualMark(set)
	}
	return m
}

// WithPosition sets the starting sequence position, clamped by the store.
func (m Model) WithPosition(pos int) Model {
	m.store.GoToPosition(pos)
	return m
}

// SessionRecord captures the current state for persistence.
func (m Model) SessionRecord() datasource.Session {
	st := m.store.Get()
	marks := make([][]int, 0, len(st.ManualMarks))
	for _, set := range st.ManualMarks {
		marks = append(marks, set.Indices())
	}
	return datasource.Session{
		BundlePath:           m.bundlePath,
		FileName:             st.FileName,
		Position:             st.Position,
		Speed:                st.Speed,
		Factor:               st.Factor,
		BranchTransform:      st.BranchTransform.String(),
		UniformScaling:       st.UniformScaling,
		MonophyleticColoring: st.MonophyleticColoring,
		DimInactive:          st.DimInactive,
		DimMarked:            st.DimMarked,
		MSAWindowSize:        st.MSAWindowSize,
		MSAStepSize:          st.MSAStepSize,
		BarOption:            string(st.BarOption),
		ManualMarks:          marks,
	}
}

// StoreState exposes the final state for session persistence after the
// program exits.
func (m Model) StoreState() store.State {
	return m.store.Get()
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	ch := m.watch.Changed()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return FileChangedMsg{}
	}
}

func (m Model) reloadBundle() tea.Cmd {
	path := m.bundlePath
	return func() tea.Msg {
		mv, err := loader.Load(path)
		return reloadedMsg{movie: mv, err: err}
	}
}

func (m *Model) layoutParams() player.LayoutParams {
	st := m.store.Get()
	cols, rows := m.treePaneSize()
	// Terminal cells are roughly twice as tall as wide.
	return player.LayoutParams{
		Width:          float64(cols),
		Height:         float64(rows) * 2,
		Margin:         2,
		Factor:         st.Factor,
		Transform:      st.BranchTransform,
		UniformScaling: st.UniformScaling,
	}
}

func (m *Model) treePaneSize() (cols, rows int) {
	cols = m.width - 2
	rows = m.height - chromeRows
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return cols, rows
}

func (m *Model) rebuildLayouts() tea.Cmd {
	m.building = true
	s := m.session
	params := m.layoutParams()
	return func() tea.Msg {
		err := s.BuildLayouts(context.Background(), params)
		return layoutBuiltMsg{err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(anim.DefaultFPSCap), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.store.SetWindowSize(msg.Width, msg.Height)
		cols, rows := m.treePaneSize()
		m.term.Resize(cols, rows)
		m.helpText = renderHelp(msg.Width - 6)
		return m, m.rebuildLayouts()

	case tickMsg:
		if !m.driver.Playing() {
			return m, nil
		}
		if fp, ok := m.driver.FrameAt(time.Time(msg)); ok {
			m.cur = fp
			// Batch the per-frame commits; subscribers see one
			// notification with the settled state.
			m.store.PauseSubscriptions()
			m.store.SetAnimationProgress(fp.From, fp.Progress)
			if fp.Done {
				m.store.Stop()
				m.store.GoToPosition(fp.To)
			}
			m.store.ResumeSubscriptions()
			if fp.Done {
				return m, nil
			}
		}
		return m, tickCmd()

	case FileChangedMsg:
		m.status = "bundle changed, reloading"
		return m, tea.Batch(m.reloadBundle(), m.waitForChange())

	case reloadedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("reload failed: %w", msg.err)
			return m, nil
		}
		m.err = nil
		m.status = "bundle reloaded"
		m.driver.Stop()
		m.store.Stop()
		m.store.Initialize(msg.movie)
		m.session = player.NewSession(msg.movie)
		m.driver = anim.NewDriver(msg.movie.TreeCount(), m.store.Get().Speed)
		return m, m.rebuildLayouts()

	case layoutBuiltMsg:
		m.building = false
		if msg.err != nil {
			m.err = fmt.Errorf("layout failed: %w", msg.err)
			return m, nil
		}
		m.err = nil
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		default:
			m.showHelp = false
			return m, nil
		}
	}

	st := m.store.Get()
	tl := m.session.Timeline

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.PlayPause):
		if m.driver.Playing() {
			m.driver.Stop()
			m.store.Stop()
			return m, nil
		}
		if st.Movie.TreeCount() < 2 || !m.ready {
			return m, nil
		}
		now := time.Now()
		m.driver.SetSpeed(now, st.Speed)
		m.driver.Start(now, st.Position)
		m.store.Play()
		m.playDir = anim.Forward
		return m, tickCmd()

	case key.Matches(msg, m.keys.StepForward):
		if m.nav.Forward() {
			m.playDir = anim.Forward
			m.nav.Done()
		}
		return m, nil

	case key.Matches(msg, m.keys.StepBackward):
		if m.nav.Backward() {
			m.playDir = anim.Backward
			m.nav.Done()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextAnchor):
		m.jumpTo(tl.NextAnchor(st.Position))
		return m, nil

	case key.Matches(msg, m.keys.PrevAnchor):
		m.jumpTo(tl.PrevAnchor(st.Position))
		return m, nil

	case key.Matches(msg, m.keys.NextConsensus):
		m.jumpTo(tl.NextConsensus(st.Position))
		return m, nil

	case key.Matches(msg, m.keys.PrevConsensus):
		m.jumpTo(tl.PrevConsensus(st.Position))
		return m, nil

	case key.Matches(msg, m.keys.NextSEdge):
		m.jumpTo(tl.NextSEdgeFirstTreeIndex(tl.PairKeyAt(st.Position)))
		return m, nil

	case key.Matches(msg, m.keys.PrevSEdge):
		m.jumpTo(tl.PrevSEdgeFirstTreeIndex(tl.PairKeyAt(st.Position)))
		return m, nil

	case key.Matches(msg, m.keys.First):
		m.jumpTo(0)
		return m, nil

	case key.Matches(msg, m.keys.Last):
		m.jumpTo(st.Movie.TreeCount() - 1)
		return m, nil

	case key.Matches(msg, m.keys.SpeedUp):
		return m.changeSpeed(st.Speed * 2)

	case key.Matches(msg, m.keys.SpeedDown):
		return m.changeSpeed(st.Speed / 2)

	case key.Matches(msg, m.keys.CopyNewick):
		m.copyNewick(st.Position)
		return m, nil

	case key.Matches(msg, m.keys.Snapshot):
		m.saveSnapshot(st.Position)
		return m, nil

	case key.Matches(msg, m.keys.Monophyletic):
		m.store.SetMonophyleticColoring(!st.MonophyleticColoring)
		return m, nil

	case key.Matches(msg, m.keys.DimInactive):
		m.store.SetDimInactive(!st.DimInactive)
		return m, nil

	case key.Matches(msg, m.keys.DimMarked):
		m.store.SetDimMarked(!st.DimMarked)
		return m, nil

	case key.Matches(msg, m.keys.Uniform):
		m.store.SetUniformScaling(!st.UniformScaling)
		return m, m.rebuildLayouts()

	case key.Matches(msg, m.keys.Transform):
		m.store.SetBranchTransform(nextTransform(st.BranchTransform))
		return m, m.rebuildLayouts()

	case key.Matches(msg, m.keys.BarOption):
		m.store.SetBarOption(nextBarOption(st.BarOption))
		return m, nil
	}

	return m, nil
}

func (m *Model) jumpTo(pos int) {
	if pos < 0 {
		return
	}
	if m.driver.Playing() {
		m.driver.Stop()
		m.store.Stop()
	}
	if m.nav.JumpTo(pos) {
		m.playDir = anim.Jump
	}
}

func (m Model) changeSpeed(speed float64) (tea.Model, tea.Cmd) {
	if speed < 0.125 {
		speed = 0.125
	}
	if speed > 8 {
		speed = 8
	}
	m.store.SetSpeed(speed)
	m.driver.SetSpeed(time.Now(), speed)
	m.status = fmt.Sprintf("speed %gx", speed)
	return m, nil
}

// copyNewick serializes the nearest full tree at or before pos.
func (m *Model) copyNewick(pos int) {
	anchor := m.session.Timeline.SourceAnchorPos(pos)
	st := m.store.Get()
	if anchor < 0 || anchor >= st.Movie.TreeCount() {
		return
	}
	text := newick.Write(st.Movie.Trees[anchor])
	if err := clipboard.WriteAll(text); err != nil {
		m.err = fmt.Errorf("clipboard: %w", err)
		return
	}
	m.store.SetClipboardTreeIndex(anchor)
	m.status = fmt.Sprintf("copied tree %s", treeName(st.Movie, anchor))
}

func (m *Model) saveSnapshot(pos int) {
	dir := m.cfg.Export.Dir
	if dir == "" {
		dir, _ = os.Getwd()
	}
	st := m.store.Get()
	path := filepath.Join(dir, fmt.Sprintf("frame_%04d.svg", pos))
	err := export.SaveFrameSnapshot(m.session, export.FrameSnapshotOptions{
		Path:     path,
		Position: pos,
		Style:    styleParams(st),
	})
	if err != nil {
		m.err = fmt.Errorf("snapshot: %w", err)
		return
	}
	m.err = nil
	m.status = "saved " + path
}

func styleParams(st store.State) player.StyleParams {
	return player.StyleParams{
		MonophyleticColoring: st.MonophyleticColoring,
		DimInactive:          st.DimInactive,
		DimMarked:            st.DimMarked,
		ManualMarks:          st.ManualMarks,
		StrokeWidth:          st.StrokeWidth,
		FontSize:             st.FontSize,
		ShowLabels:           true,
	}
}

func treeName(mv *model.Movie, pos int) string {
	if pos >= 0 && pos < len(mv.Metadata) && mv.Metadata[pos].TreeName != "" {
		return mv.Metadata[pos].TreeName
	}
	return fmt.Sprintf("#%d", pos)
}

func nextTransform(tr layout.Transform) layout.Transform {
	switch tr.Mode {
	case layout.TransformNone:
		return layout.Transform{Mode: layout.TransformLog}
	case layout.TransformLog:
		return layout.Transform{Mode: layout.TransformSqrt}
	case layout.TransformSqrt:
		return layout.Transform{Mode: layout.TransformIgnore}
	default:
		return layout.Transform{Mode: layout.TransformNone}
	}
}

func nextBarOption(opt store.BarOption) store.BarOption {
	switch opt {
	case store.BarRFD:
		return store.BarWRFD
	case store.BarWRFD:
		return store.BarScale
	default:
		return store.BarRFD
	}
}
