// Package selector provides the dictionary target selector used by the search form.
package selector

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/mattn/go-runewidth"
)

// AllLabel is shown for dict.AllTarget and for targets not in the list.
const AllLabel = "All"

// TargetSelectedMsg reports that the user picked a different target.
type TargetSelectedMsg struct {
	Target dict.Target
}

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 1)

	boxFocusedStyle = boxStyle.
			BorderForeground(lipgloss.Color("#ffe66d"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// KeyMap defines the selector key bindings.
type KeyMap struct {
	Next key.Binding
	Prev key.Binding
}

// DefaultKeyMap returns the default selector bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next dictionary"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous dictionary"),
		),
	}
}

// Option is one selectable target.
type Option struct {
	Target dict.Target
	Label  string
}

// TargetSelector picks a target from the dictionary list. It keeps no
// selection state of its own: the owner passes the current target in and
// applies TargetSelectedMsg.
type TargetSelector struct {
	keys KeyMap
}

// New creates a target selector with the default key map.
func New() TargetSelector {
	return TargetSelector{keys: DefaultKeyMap()}
}

// KeyMap returns the selector bindings.
func (s TargetSelector) KeyMap() KeyMap {
	return s.keys
}

// Options returns the "All" option followed by one option per dictionary.
func Options(dicts []dict.Dictionary) []Option {
	opts := make([]Option, 0, len(dicts)+1)
	opts = append(opts, Option{Target: dict.AllTarget, Label: AllLabel})
	for _, d := range dicts {
		opts = append(opts, Option{Target: d.Target(), Label: d.Label()})
	}
	return opts
}

// Index returns the position of target in opts, treating unknown targets as "All".
func Index(opts []Option, target dict.Target) int {
	for i, o := range opts {
		if o.Target == target {
			return i
		}
	}
	return 0
}

// Update cycles the selection on next/prev keys and emits TargetSelectedMsg
// when the target changes. Other messages are ignored.
func (s TargetSelector) Update(target dict.Target, dicts []dict.Dictionary, msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	opts := Options(dicts)
	i := Index(opts, target)

	switch {
	case key.Matches(km, s.keys.Next):
		i = (i + 1) % len(opts)
	case key.Matches(km, s.keys.Prev):
		i = (i - 1 + len(opts)) % len(opts)
	default:
		return nil
	}

	next := opts[i].Target
	if next == target {
		return nil
	}
	return func() tea.Msg {
		return TargetSelectedMsg{Target: next}
	}
}

// View renders the selector in a column of the given width. When focused, all
// options are listed with the selected one marked.
func (s TargetSelector) View(target dict.Target, dicts []dict.Dictionary, focused bool, width int) string {
	opts := Options(dicts)
	selected := Index(opts, target)

	inner := width - 4 // border and padding
	if inner < 4 {
		inner = 4
	}

	var lines []string
	if focused {
		for i, o := range opts {
			if i == selected {
				lines = append(lines, selectedStyle.Render(fit("▸ "+o.Label, inner)))
			} else {
				lines = append(lines, optionStyle.Render(fit("  "+o.Label, inner)))
			}
		}
	} else {
		lines = append(lines, selectedStyle.Render(fit("▾ "+opts[selected].Label, inner)))
	}

	style := boxStyle
	if focused {
		style = boxFocusedStyle
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Target"),
		style.Width(width-2).Render(strings.Join(lines, "\n")),
	)
}

func fit(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
