package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/anim"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/chart"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/distance"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/layout"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/msa"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/store"
	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/timeline"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	if m.showHelp {
		return helpOverlayStyle.Width(m.width - 4).Render(m.helpText)
	}

	st := m.store.Get()

	var b strings.Builder
	b.WriteString(m.headerLine(st))
	b.WriteString("\n")
	b.WriteString(m.treePane(st))
	b.WriteString("\n")
	b.WriteString(m.timelineLine(st))
	b.WriteString("\n")
	b.WriteString(m.chartLine(st))
	b.WriteString("\n")
	b.WriteString(m.msaLine(st))
	b.WriteString("\n")
	b.WriteString(m.statusLine(st))
	return b.String()
}

func (m Model) headerLine(st store.State) string {
	name := st.FileName
	if name == "" {
		name = "untitled"
	}
	pos := st.Position
	total := st.Movie.TreeCount()

	phase := ""
	if p := st.Movie.Phase(pos); p != model.PhaseOriginal && p != "" {
		phase = " " + badgeStyle.Render(string(p))
	}
	playing := ""
	if st.Playing {
		playing = " " + badgeStyle.Render("▶")
	}

	left := headerStyle.Render(name) +
		statusStyle.Render(fmt.Sprintf("  %s  %d/%d", treeName(st.Movie, pos), pos+1, total)) +
		phase + playing
	right := statusStyle.Render(fmt.Sprintf("%gx  ?: help", st.Speed))

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func (m Model) treePane(st store.State) string {
	cols, rows := m.treePaneSize()
	if cols <= 0 || rows <= 0 {
		return ""
	}
	if !m.ready || m.building {
		empty := lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center,
			statusStyle.Render("computing layout..."))
		return treePaneStyle.Render(empty)
	}

	frame, err := m.currentFrame(st)
	if err != nil {
		return treePaneStyle.Render(lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center,
			errorStyle.Render(err.Error())))
	}

	if renderErr := m.session.Render(m.term, frame, st.Position, styleParams(st)); renderErr != nil {
		return treePaneStyle.Render(lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center,
			errorStyle.Render("frame dropped")))
	}
	return treePaneStyle.Render(m.term.View())
}

func (m Model) currentFrame(st store.State) (*anim.Frame, error) {
	if st.Playing && m.cur.To > m.cur.From {
		return m.session.FrameBetween(m.cur.From, m.cur.To, m.cur.T, anim.Forward)
	}
	if m.playDir == anim.Jump {
		return m.session.FrameAt(st.Position)
	}
	// A completed step keeps its direction so staging matches the way
	// the position was reached.
	prev := st.Position - 1
	if m.playDir == anim.Backward {
		prev = st.Position + 1
	}
	if prev >= 0 && prev < st.Movie.TreeCount() {
		return m.session.FrameBetween(prev, st.Position, 1, m.playDir)
	}
	return m.session.FrameAt(st.Position)
}

func (m Model) timelineLine(st store.State) string {
	total := st.Movie.TreeCount()
	prog := timeline.Progress(st.Position, total, st.Playing, st.AnimationProgress)
	return renderTimeline(m.width, prog, m.session.Timeline.AnchorTicks())
}

func (m Model) chartLine(st store.State) string {
	var series []float64
	var label string
	switch st.BarOption {
	case store.BarWRFD:
		series, label = st.Movie.WRFDList, "w-rfd"
	case store.BarScale:
		series, label = st.Movie.ScaleList, "scale"
	default:
		series, label = st.Movie.RFDList, "rfd"
	}

	cursor := m.session.Timeline.DistanceIndex(st.Position)
	props := chart.Build(series, label, cursor)

	sum := distance.Summarize(series)
	tail := fmt.Sprintf("  mean %.3g  max %.3g", sum.Mean, sum.Max)
	width := m.width - len(label) - len(tail) - 2
	if width < 4 || len(series) == 0 {
		return statusStyle.Render(label)
	}
	line, _ := props.Sparkline(width)
	return statusStyle.Render(label+" ") + line + statusStyle.Render(tail)
}

func (m Model) msaLine(st store.State) string {
	if st.Movie.MSA == nil {
		return statusStyle.Render("no alignment")
	}
	frame := m.session.Timeline.MSAFrameIndex(st.Position)
	w := msa.WindowFor(st.Movie, frame, st.MSAWindowSize, st.MSAStepSize)
	line := fmt.Sprintf("alignment %d-%d (mid %d)", w.Start, w.End, w.Mid)
	if st.MSARegion != nil {
		line += fmt.Sprintf("  region %d-%d", st.MSARegion.Start, st.MSARegion.End)
	}
	return statusStyle.Render(line)
}

func (m Model) statusLine(st store.State) string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	parts := []string{}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if st.MonophyleticColoring {
		parts = append(parts, "mono")
	}
	if st.DimInactive {
		parts = append(parts, "dim")
	}
	if st.UniformScaling {
		parts = append(parts, "uniform")
	}
	if st.BranchTransform.Mode != "" && st.BranchTransform.Mode != layout.TransformNone {
		parts = append(parts, "transform: "+st.BranchTransform.String())
	}
	if len(parts) == 0 {
		return statusStyle.Render("space: play  ←/→: step  q: quit")
	}
	return statusStyle.Render(strings.Join(parts, "  "))
}
