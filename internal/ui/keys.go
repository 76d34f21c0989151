package ui

import "charm.land/bubbles/v2/key"

// keyMap holds the form's global bindings. Editing keys belong to the
// focused textarea and are not listed here.
type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Copy   key.Binding
	Press  key.Binding
	Usage  key.Binding
	Close  key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "uncss"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy output"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("enter", "press button"),
		),
		Usage: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "usage"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "f1", "q"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Copy, k.Usage, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Press},
		{k.Submit, k.Copy},
		{k.Usage, k.Close, k.Quit},
	}
}
