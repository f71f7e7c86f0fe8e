package input

import "github.com/charmbracelet/bubbles/key"

// KeyMap is every binding of the take screen. It satisfies help.KeyMap.
type KeyMap struct {
	Record   key.Binding
	Complete key.Binding
	Cancel   key.Binding
	Retake   key.Binding
	Preview  key.Binding

	PlayPause key.Binding
	Rewind    key.Binding

	KindNext key.Binding
	KindPrev key.Binding
	NewGroup key.Binding
	NewMovie key.Binding

	Up         key.Binding
	Down       key.Binding
	NudgeLeft  key.Binding
	NudgeRight key.Binding
	Anchor     key.Binding

	ZoomIn   key.Binding
	ZoomOut  key.Binding
	JogLeft  key.Binding
	JogRight key.Binding
	View     key.Binding

	Help key.Binding
	Quit key.Binding
}

var Keys = KeyMap{
	Record:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record take")),
	Complete: key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("enter", "complete take")),
	Cancel:   key.NewBinding(key.WithKeys("esc", "x"), key.WithHelp("esc", "cancel take")),
	Retake:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "re-record selected")),
	Preview:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle preview")),

	PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
	Rewind:    key.NewBinding(key.WithKeys("0", "home"), key.WithHelp("0", "rewind")),

	KindNext: key.NewBinding(key.WithKeys("tab", "k"), key.WithHelp("tab", "next kind")),
	KindPrev: key.NewBinding(key.WithKeys("shift+tab", "K"), key.WithHelp("shift+tab", "previous kind")),
	NewGroup: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "new group")),
	NewMovie: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new movie")),

	Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "select track")),
	Down:       key.NewBinding(key.WithKeys("down")),
	NudgeLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "nudge offset")),
	NudgeRight: key.NewBinding(key.WithKeys("right")),
	Anchor:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "anchor at playhead")),

	ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom timeline")),
	ZoomOut:  key.NewBinding(key.WithKeys("-")),
	JogLeft:  key.NewBinding(key.WithKeys("shift+left", "["), key.WithHelp("[/]", "scroll timeline")),
	JogRight: key.NewBinding(key.WithKeys("shift+right", "]")),
	View:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "takes/timeline")),

	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit: key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c", "q"), key.WithHelp("q", "quit")),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Complete, k.Cancel, k.PlayPause, k.KindNext, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Complete, k.Cancel, k.Retake, k.Preview},
		{k.PlayPause, k.Rewind, k.NewGroup, k.NewMovie, k.KindNext},
		{k.Up, k.NudgeLeft, k.Anchor, k.ZoomIn, k.JogLeft, k.View},
		{k.Help, k.Quit},
	}
}
