package tui

import "github.com/charmbracelet/bubbles/key"

type composeKeyMap struct {
	Next             key.Binding
	Prev             key.Binding
	PerspectiveLeft  key.Binding
	PerspectiveRight key.Binding
	ImproveProblem   key.Binding
	ImproveSolution  key.Binding
	Generate         key.Binding
	Quit             key.Binding
}

func (k composeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.ImproveProblem, k.ImproveSolution, k.Generate, k.Quit}
}

func (k composeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.PerspectiveLeft, k.PerspectiveRight},
		{k.ImproveProblem, k.ImproveSolution, k.Generate, k.Quit},
	}
}

var composeKeys = composeKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev field"),
	),
	PerspectiveLeft: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "prev perspective"),
	),
	PerspectiveRight: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next perspective"),
	),
	ImproveProblem: key.NewBinding(
		key.WithKeys("alt+p"),
		key.WithHelp("alt+p", "improve problem"),
	),
	ImproveSolution: key.NewBinding(
		key.WithKeys("alt+s"),
		key.WithHelp("alt+s", "improve solution"),
	),
	Generate: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "generate final view"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

type presentKeyMap struct {
	Download key.Binding
	Copy     key.Binding
	Share    key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func (k presentKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Download, k.Copy, k.Share, k.Quit}
}

func (k presentKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var presentKeys = presentKeyMap{
	Download: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "download"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Share: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "share"),
	),
	Back: key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b", "back to edit"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
