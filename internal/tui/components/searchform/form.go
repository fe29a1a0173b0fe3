// Package searchform renders the search form: a target selector beside a
// query input, submitted with enter.
//
// The form owns no data. Every Update and View takes Props from the owner,
// which stays the source of truth for the target and the query text.
package searchform

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dsearch/internal/dict"
)

const (
	// Placeholder is shown in the empty query input.
	Placeholder = "Enter Query"
	// QueryLabel is rendered above the query input.
	QueryLabel = "Query"

	defaultWidth   = 72
	minSelectorCol = 14
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 1)

	inputBoxFocusedStyle = inputBoxStyle.
				BorderForeground(lipgloss.Color("#ffe66d"))
)

// Selector is the child component that chooses the search target. It gets
// the current target and options on every call and reports changes through
// the returned command.
type Selector interface {
	Update(target dict.Target, dicts []dict.Dictionary, msg tea.Msg) tea.Cmd
	View(target dict.Target, dicts []dict.Dictionary, focused bool, width int) string
}

// Binding is a two-way binding to a text value owned elsewhere.
type Binding struct {
	Get func() string
	Set func(string)
}

// SubmitEvent is passed to the submit handler.
type SubmitEvent struct {
	Target dict.Target
	Query  string
}

// Props are supplied by the owner on every Update and View.
type Props struct {
	HandleSubmit func(SubmitEvent) tea.Cmd
	Target       dict.Target
	Dicts        []dict.Dictionary
	Query        Binding
}

// Area identifies which child has keyboard focus.
type Area int

const (
	AreaInput Area = iota
	AreaSelector
)

// KeyMap defines the form key bindings.
type KeyMap struct {
	Submit    key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
}

// DefaultKeyMap returns the default form bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch field"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "switch field"),
		),
	}
}

// Model holds only presentational state: focus, cursor position and width.
type Model struct {
	selector Selector
	input    textinput.Model
	keys     KeyMap
	focus    Area
	width    int

	// synced is the owner value last copied into the input. The input may
	// hold a normalized form of it (tabs and newlines become spaces).
	synced string
}

// New creates a form with the query input focused.
func New(sel Selector) Model {
	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))
	// A static cursor keeps View a function of props and focus only.
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	m := Model{
		selector: sel,
		input:    ti,
		keys:     DefaultKeyMap(),
		focus:    AreaInput,
	}
	m.SetWidth(defaultWidth)
	return m
}

// SetWidth sets the total form width.
func (m *Model) SetWidth(width int) {
	m.width = width
	_, inputCol := m.columns()
	// border, padding and prompt
	m.input.Width = max(inputCol-4-lipgloss.Width(m.input.Prompt), 1)
}

// Focused returns the focused area.
func (m Model) Focused() Area {
	return m.focus
}

// KeyMap returns the form bindings.
func (m Model) KeyMap() KeyMap {
	return m.keys
}

// Update handles a message. Enter invokes p.HandleSubmit; edits to the input
// are written back through p.Query.Set.
func (m Model) Update(p Props, msg tea.Msg) (Model, tea.Cmd) {
	m.sync(p)

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Submit):
			return m, p.HandleSubmit(SubmitEvent{Target: p.Target, Query: p.Query.Get()})
		case key.Matches(km, m.keys.NextFocus), key.Matches(km, m.keys.PrevFocus):
			m.toggleFocus()
			return m, nil
		}
		if m.focus == AreaSelector {
			return m, m.selector.Update(p.Target, p.Dicts, msg)
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.synced = v
		p.Query.Set(v)
	}
	return m, cmd
}

// View renders the selector and the query input side by side.
func (m Model) View(p Props) string {
	m.sync(p)

	selectorCol, inputCol := m.columns()

	left := m.selector.View(p.Target, p.Dicts, m.focus == AreaSelector, selectorCol)

	box := inputBoxStyle
	if m.focus == AreaInput {
		box = inputBoxFocusedStyle
	}
	right := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(QueryLabel),
		box.Width(inputCol-2).Render(m.input.View()),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// columns splits the width 2:10 between selector and input.
func (m Model) columns() (selector, input int) {
	selector = max(m.width*2/12, minSelectorCol)
	input = max(m.width-selector-1, minSelectorCol)
	return selector, input
}

func (m *Model) toggleFocus() {
	if m.focus == AreaInput {
		m.focus = AreaSelector
		m.input.Blur()
		return
	}
	m.focus = AreaInput
	m.input.Focus()
}

// sync copies the owner's query into the input when the owner changed it.
func (m *Model) sync(p Props) {
	if v := p.Query.Get(); v != m.synced {
		m.synced = v
		m.input.SetValue(v)
	}
}
