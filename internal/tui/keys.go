package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Pick     key.Binding
	Search   key.Binding
	Refresh  key.Binding
	Scope    key.Binding
	Install  key.Binding
	SignIn   key.Binding
	SignOut  key.Binding
	Close    key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("", "")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "page")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("", "")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "versions")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "collapse")),
		Pick:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick version")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Scope:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scope")),
		Install:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "install/remove")),
		SignIn:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign in")),
		SignOut:  key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sign out")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Expand, k.Search, k.Refresh, k.Scope, k.Install, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.PageUp, k.Expand, k.Collapse, k.Pick},
		{k.Search, k.Refresh, k.Scope, k.Install, k.SignIn, k.SignOut, k.Quit},
	}
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, boldKey(help.Key)+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}

func boldKey(text string) string {
	if text == "" {
		return ""
	}
	return "\x1b[1m" + text + "\x1b[22m"
}
