package searchform

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/f3rmion/dsearch/internal/tui/components/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// owner plays the part of the component that owns the form's data.
type owner struct {
	target  dict.Target
	dicts   []dict.Dictionary
	query   string
	sets    int
	submits []SubmitEvent
}

type submittedMsg struct{ ev SubmitEvent }

func newOwner() *owner {
	return &owner{
		target: "zh-en",
		dicts: []dict.Dictionary{
			{ID: "zh-en", Name: "Chinese"},
			{ID: "en-en", Name: "English"},
		},
	}
}

func (o *owner) props() Props {
	return Props{
		HandleSubmit: func(ev SubmitEvent) tea.Cmd {
			o.submits = append(o.submits, ev)
			return func() tea.Msg { return submittedMsg{ev: ev} }
		},
		Target: o.target,
		Dicts:  o.dicts,
		Query: Binding{
			Get: func() string { return o.query },
			Set: func(s string) {
				o.sets++
				o.query = s
			},
		},
	}
}

func typeText(m Model, o *owner, s string) Model {
	for _, r := range s {
		m, _ = m.Update(o.props(), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestView_ShowsSelectedTarget(t *testing.T) {
	o := newOwner()
	m := New(selector.New())

	out := m.View(o.props())
	assert.Contains(t, out, "▾ Chinese")

	o.target = "en-en"
	out = m.View(o.props())
	assert.Contains(t, out, "▾ English")
}

func TestView_ShowsBoundQuery(t *testing.T) {
	o := newOwner()
	o.query = "hello world"
	m := New(selector.New())

	out := m.View(o.props())
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, QueryLabel)
	assert.NotContains(t, out, Placeholder)
}

func TestView_ShowsPlaceholderWhenEmpty(t *testing.T) {
	o := newOwner()
	m := New(selector.New())

	assert.Contains(t, m.View(o.props()), Placeholder)
}

func TestUpdate_SubmitInvokesHandlerOnce(t *testing.T) {
	o := newOwner()
	o.query = "ni hao"
	m := New(selector.New())

	m, cmd := m.Update(o.props(), tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, o.submits, 1)
	want := SubmitEvent{Target: "zh-en", Query: "ni hao"}
	assert.Equal(t, want, o.submits[0])
	require.NotNil(t, cmd)
	assert.Equal(t, submittedMsg{ev: want}, cmd())
	assert.Equal(t, 0, o.sets)
	assert.Equal(t, AreaInput, m.Focused())
}

func TestUpdate_SubmitFromSelectorFocus(t *testing.T) {
	o := newOwner()
	m := New(selector.New())

	m, _ = m.Update(o.props(), tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, AreaSelector, m.Focused())

	_, _ = m.Update(o.props(), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, o.submits, 1)
}

func TestUpdate_TypingUpdatesBindingWithoutSubmit(t *testing.T) {
	o := newOwner()
	m := New(selector.New())

	m = typeText(m, o, "run")
	assert.Equal(t, "run", o.query)
	assert.Empty(t, o.submits)

	m, _ = m.Update(o.props(), tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ru", o.query)
	assert.Empty(t, o.submits)
	assert.Contains(t, m.View(o.props()), "ru")
}

func TestUpdate_OwnerChangesQuery(t *testing.T) {
	o := newOwner()
	m := New(selector.New())
	m = typeText(m, o, "abc")

	// The owner replaces the value; the form follows it.
	o.query = "xyz"
	m = typeText(m, o, "!")
	assert.Equal(t, "xyz!", o.query)
}

func TestView_Idempotent(t *testing.T) {
	o := newOwner()
	o.query = "same"
	m := New(selector.New())

	first := m.View(o.props())
	second := m.View(o.props())
	assert.Equal(t, first, second)

	m, _ = m.Update(o.props(), tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, m.View(o.props()), m.View(o.props()))
}

func TestView_NoSideEffects(t *testing.T) {
	o := newOwner()
	o.query = "quiet"
	m := New(selector.New())

	for i := 0; i < 3; i++ {
		_ = m.View(o.props())
	}
	m.SetWidth(40)
	_ = m.View(o.props())

	assert.Equal(t, 0, o.sets)
	assert.Empty(t, o.submits)
	assert.Equal(t, "quiet", o.query)
}

type tickMsg struct{}

func TestUpdate_NonEditingMessagesLeaveQueryAlone(t *testing.T) {
	tests := []struct {
		name  string
		query string
		msgs  []tea.Msg
	}{
		{
			name:  "long query and cursor keys",
			query: strings.Repeat("a", 300),
			msgs:  []tea.Msg{tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyHome}},
		},
		{
			name:  "tab in query and unrelated message",
			query: "a\tb",
			msgs:  []tea.Msg{tickMsg{}, tea.WindowSizeMsg{Width: 80, Height: 24}},
		},
		{
			name:  "newline in query and focus changes",
			query: "line one\nline two",
			msgs:  []tea.Msg{tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyRight}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOwner()
			o.query = tt.query
			m := New(selector.New())

			for _, msg := range tt.msgs {
				m, _ = m.Update(o.props(), msg)
			}

			assert.Equal(t, 0, o.sets)
			assert.Equal(t, tt.query, o.query)
		})
	}
}

func TestUpdate_LongQueryIsEditable(t *testing.T) {
	o := newOwner()
	o.query = strings.Repeat("a", 300)
	m := New(selector.New())

	m, _ = m.Update(o.props(), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	assert.Equal(t, 1, o.sets)
	assert.Equal(t, strings.Repeat("a", 300)+"b", o.query)
}

func TestUpdate_SelectorFocusEmitsTargetChange(t *testing.T) {
	o := newOwner()
	m := New(selector.New())

	m, _ = m.Update(o.props(), tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, AreaSelector, m.Focused())

	m, cmd := m.Update(o.props(), tea.KeyMsg{Type: tea.KeyDown})
	require.NotNil(t, cmd)
	assert.Equal(t, selector.TargetSelectedMsg{Target: "en-en"}, cmd())

	// Typing while the selector is focused does not touch the query.
	m = typeText(m, o, "ab")
	assert.Equal(t, "", o.query)

	m, _ = m.Update(o.props(), tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, AreaInput, m.Focused())
	_ = typeText(m, o, "ab")
	assert.Equal(t, "ab", o.query)
}

func TestView_ExpandsSelectorWhenFocused(t *testing.T) {
	o := newOwner()
	m := New(selector.New())

	m, _ = m.Update(o.props(), tea.KeyMsg{Type: tea.KeyTab})
	out := m.View(o.props())
	assert.Contains(t, out, "▸ Chinese")
	assert.Contains(t, out, "English")
}

func TestColumns_SplitTwoToTen(t *testing.T) {
	m := New(selector.New())

	m.SetWidth(120)
	sel, in := m.columns()
	assert.Equal(t, 20, sel)
	assert.Equal(t, 99, in)

	m.SetWidth(30)
	sel, _ = m.columns()
	assert.Equal(t, minSelectorCol, sel)
}
