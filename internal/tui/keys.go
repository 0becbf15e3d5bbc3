package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Search    key.Binding
	Blur      key.Binding
	Toggle    key.Binding
	New       key.Binding
	Edit      key.Binding
	Favorite  key.Binding
	Delete    key.Binding
	Back      key.Binding
	Forward   key.Binding
	About     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	// edit form
	NextField key.Binding
	PrevField key.Binding
	Save      key.Binding
	Cancel    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Blur:      key.NewBinding(key.WithKeys("esc", "down"), key.WithHelp("esc", "leave search")),
		Toggle:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Back:      key.NewBinding(key.WithKeys("[", "alt+left"), key.WithHelp("[", "back")),
		Forward:   key.NewBinding(key.WithKeys("]", "alt+right"), key.WithHelp("]", "forward")),
		About:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "about")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),

		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// listKeys is the help.KeyMap shown while the contact list has focus.
type listKeys struct{ keyMap }

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Open, k.New, k.Edit, k.Delete, k.Back, k.Help, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Toggle},
		{k.Search, k.New, k.Edit, k.Favorite, k.Delete},
		{k.Back, k.Forward, k.About, k.Help, k.Quit},
	}
}

type searchKeys struct{ keyMap }

func (k searchKeys) ShortHelp() []key.Binding { return []key.Binding{k.Blur, k.Toggle} }
func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type formKeys struct{ keyMap }

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Save, k.Cancel}
}
func (k formKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
