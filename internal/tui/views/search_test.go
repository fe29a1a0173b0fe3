package views

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/f3rmion/dsearch/internal/tui/components/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchCall struct {
	target dict.Target
	query  string
}

type fakeSearcher struct {
	calls   []searchCall
	results []dict.Result
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, target dict.Target, query string) ([]dict.Result, error) {
	f.calls = append(f.calls, searchCall{target: target, query: query})
	return f.results, f.err
}

type fakeClipboard struct {
	written []string
	err     error
}

func (f *fakeClipboard) Write(text string) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, text)
	return nil
}

func testDicts() []dict.Dictionary {
	return []dict.Dictionary{
		{ID: "zh-en", Name: "Chinese", Language: "zh", Gloss: "en"},
		{ID: "en-en", Name: "English", Language: "en", Gloss: "en"},
	}
}

func testResults() []dict.Result {
	return []dict.Result{
		{Entry: dict.Entry{ID: 1, DictID: "en-en", Headword: "run", Definition: "move swiftly; operate"}},
		{Entry: dict.Entry{ID: 2, DictID: "en-en", Headword: "runner", Definition: "a person who runs", Tags: "noun,common"}},
	}
}

func typeRunes(m SearchModel, s string) SearchModel {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// submitAndRun presses enter and feeds the search result back into the model.
func submitAndRun(t *testing.T, m SearchModel) SearchModel {
	t.Helper()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.Searching())
	m, _ = m.Update(cmd())
	return m
}

func TestSearchModel_SubmitRunsSearch(t *testing.T) {
	s := &fakeSearcher{results: testResults()}
	m := NewSearchModel(s, testDicts(), "en-en", nil, nil)

	m = typeRunes(m, "  run ")
	assert.Equal(t, "  run ", m.Query())

	m = submitAndRun(t, m)

	require.Len(t, s.calls, 1)
	assert.Equal(t, searchCall{target: "en-en", query: "run"}, s.calls[0])
	assert.False(t, m.Searching())
	assert.NoError(t, m.Err())
	assert.Len(t, m.Results(), 2)

	out := m.View()
	assert.Contains(t, out, `2 results for "run"`)
	assert.Contains(t, out, "runner")
	assert.Contains(t, out, "1. move swiftly")
	assert.Contains(t, out, "2. operate")
}

func TestSearchModel_EmptyQueryDoesNotSearch(t *testing.T) {
	s := &fakeSearcher{}
	m := NewSearchModel(s, testDicts(), "en-en", nil, nil)

	m = typeRunes(m, "   ")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, s.calls)
	assert.ErrorIs(t, m.Err(), errNoQuery)
	assert.Contains(t, m.View(), errNoQuery.Error())
}

func TestSearchModel_SearchError(t *testing.T) {
	s := &fakeSearcher{err: errors.New("database locked")}
	m := NewSearchModel(s, testDicts(), "en-en", nil, nil)

	m = typeRunes(m, "run")
	m = submitAndRun(t, m)

	assert.EqualError(t, m.Err(), "database locked")
	assert.Contains(t, m.View(), "database locked")
}

func TestSearchModel_IgnoresStaleResults(t *testing.T) {
	s := &fakeSearcher{results: testResults()}
	m := NewSearchModel(s, testDicts(), "en-en", nil, nil)
	m = typeRunes(m, "run")

	m, first := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, first)
	require.NotNil(t, second)

	stale := first().(searchResultMsg)
	stale.results = nil
	m, _ = m.Update(stale)
	assert.True(t, m.Searching())

	m, _ = m.Update(second())
	assert.False(t, m.Searching())
	assert.Len(t, m.Results(), 2)
}

func TestSearchModel_TargetSelection(t *testing.T) {
	s := &fakeSearcher{}
	m := NewSearchModel(s, testDicts(), "zh-en", nil, nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.NotNil(t, cmd)

	m, _ = m.Update(cmd())
	assert.Equal(t, dict.Target("en-en"), m.Target())
	assert.Contains(t, m.View(), "▸ English")

	m, _ = m.Update(selector.TargetSelectedMsg{Target: dict.AllTarget})
	assert.Equal(t, dict.AllTarget, m.Target())
}

func TestSearchModel_ResultNavigationAndCopy(t *testing.T) {
	s := &fakeSearcher{results: testResults()}
	clip := &fakeClipboard{}
	m := NewSearchModel(s, testDicts(), dict.AllTarget, nil, clip)

	m = typeRunes(m, "run")
	m = submitAndRun(t, m)
	assert.Contains(t, m.View(), "[en-en]")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})

	require.NotNil(t, cmd)
	assert.Equal(t, []string{"runner: a person who runs"}, clip.written)
	assert.Contains(t, m.View(), "Copied!")
	assert.Contains(t, m.View(), "noun · common")

	m, _ = m.Update(clearCopiedMsg{})
	assert.NotContains(t, m.View(), "Copied!")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "run: move swiftly; operate", clip.written[1])
}

func TestSearchModel_CopyError(t *testing.T) {
	s := &fakeSearcher{results: testResults()}
	clip := &fakeClipboard{err: errors.New("no xclip")}
	m := NewSearchModel(s, testDicts(), "en-en", nil, clip)

	m = typeRunes(m, "run")
	m = submitAndRun(t, m)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})

	assert.Nil(t, cmd)
	assert.ErrorContains(t, m.Err(), "copying: no xclip")
}

func TestSearchModel_ArrowsGoToSelectorWhenFocused(t *testing.T) {
	s := &fakeSearcher{results: testResults()}
	m := NewSearchModel(s, testDicts(), "en-en", nil, nil)
	m = typeRunes(m, "run")
	m = submitAndRun(t, m)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyUp})

	require.NotNil(t, cmd)
	assert.Equal(t, selector.TargetSelectedMsg{Target: "zh-en"}, cmd())
}

func TestWordWrap(t *testing.T) {
	assert.Equal(t, "one two\nthree", wordWrap("one two three", 8))
	assert.Equal(t, "", wordWrap("", 8))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "move swiftly", firstLine("move swiftly; operate"))
	assert.Equal(t, "single", firstLine(" single "))
}
