package tui

import "github.com/charmbracelet/bubbles/key"

// viewKeyMap defines key bindings for the dashboard outside edit mode
type viewKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Toggle         key.Binding
	BrightnessUp   key.Binding
	BrightnessDown key.Binding
	PrevDashboard  key.Binding
	NextDashboard  key.Binding
	Refresh        key.Binding
	Edit           key.Binding
	Add            key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.BrightnessUp, k.NextDashboard, k.Refresh, k.Edit, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.BrightnessUp, k.BrightnessDown},
		{k.PrevDashboard, k.NextDashboard, k.Refresh},
		{k.Edit, k.Help, k.Quit},
	}
}

// editKeyMap defines key bindings for edit mode, with or without a held tile
type editKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	PickDrop   key.Binding
	Add        key.Binding
	Remove     key.Binding
	Rename     key.Binding
	Dashboards key.Binding
	Edit       key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PickDrop, k.Add, k.Remove, k.Rename, k.Dashboards, k.Cancel, k.Help}
}

// FullHelp returns keybindings for the expanded help view
func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PickDrop, k.Add, k.Remove, k.Rename},
		{k.Dashboards, k.Edit, k.Cancel},
		{k.Help, k.Quit},
	}
}

// modalKeyMap is shown under the browser, name editor and dashboard manager
type modalKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k modalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k modalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

var (
	keyUp    = key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up"))
	keyDown  = key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down"))
	keyLeft  = key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left"))
	keyRight = key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right"))
	keyHelp  = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more"))
	keyQuit  = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	keyForce = key.NewBinding(key.WithKeys("ctrl+c"))
)

func newViewKeyMap() viewKeyMap {
	return viewKeyMap{
		Up:    keyUp,
		Down:  keyDown,
		Left:  keyLeft,
		Right: keyRight,
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		BrightnessUp: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("ctrl+↑", "brighter"),
		),
		BrightnessDown: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("ctrl+↓", "dimmer"),
		),
		PrevDashboard: key.NewBinding(
			key.WithKeys("ctrl+left"),
			key.WithHelp("ctrl+←", "prev dashboard"),
		),
		NextDashboard: key.NewBinding(
			key.WithKeys("ctrl+right"),
			key.WithHelp("ctrl+→", "next dashboard"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
		),
		Help: keyHelp,
		Quit: keyQuit,
	}
}

func newEditKeyMap() editKeyMap {
	return editKeyMap{
		Up:    keyUp,
		Down:  keyDown,
		Left:  keyLeft,
		Right: keyRight,
		PickDrop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "pick/drop"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Remove: key.NewBinding(
			key.WithKeys("delete"),
			key.WithHelp("del", "remove"),
		),
		Rename: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "rename"),
		),
		Dashboards: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dashboards"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "exit edit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: keyHelp,
		Quit: keyQuit,
	}
}

func newModalKeyMap() modalKeyMap {
	return modalKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
