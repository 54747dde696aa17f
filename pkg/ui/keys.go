package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all player keybindings.
type keyMap struct {
	PlayPause     key.Binding
	StepForward   key.Binding
	StepBackward  key.Binding
	NextAnchor    key.Binding
	PrevAnchor    key.Binding
	NextConsensus key.Binding
	PrevConsensus key.Binding
	NextSEdge     key.Binding
	PrevSEdge     key.Binding
	First         key.Binding
	Last          key.Binding
	SpeedUp       key.Binding
	SpeedDown     key.Binding
	CopyNewick    key.Binding
	Snapshot      key.Binding
	Monophyletic  key.Binding
	DimInactive   key.Binding
	DimMarked     key.Binding
	Uniform       key.Binding
	Transform     key.Binding
	BarOption     key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		StepForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "step forward"),
		),
		StepBackward: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "step backward"),
		),
		NextAnchor: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("shift+→", "next full tree"),
		),
		PrevAnchor: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("shift+←", "previous full tree"),
		),
		NextConsensus: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next consensus"),
		),
		PrevConsensus: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous consensus"),
		),
		NextSEdge: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next s-edge"),
		),
		PrevSEdge: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous s-edge"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "first tree"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "last tree"),
		),
		SpeedUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		SpeedDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		CopyNewick: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy newick"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save snapshot"),
		),
		Monophyletic: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "monophyletic colors"),
		),
		DimInactive: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dim inactive"),
		),
		DimMarked: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "dim marked"),
		),
		Uniform: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "uniform scaling"),
		),
		Transform: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "branch transform"),
		),
		BarOption: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "chart series"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
