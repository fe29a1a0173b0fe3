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

type fakeCounter struct {
	counts map[string]int
	err    error
	calls  int
}

func (f *fakeCounter) Counts(context.Context) (map[string]int, error) {
	f.calls++
	return f.counts, f.err
}

func TestDictionariesModel_Counts(t *testing.T) {
	c := &fakeCounter{counts: map[string]int{"zh-en": 120, "en-en": 30}}
	m := NewDictionariesModel(c, testDicts(), "/tmp/dsearch", "zh-en")

	assert.Contains(t, m.View(), "…")

	cmd := m.Init()
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	out := m.View()
	assert.Equal(t, 1, c.calls)
	assert.Contains(t, out, "Config: /tmp/dsearch")
	assert.Contains(t, out, "150")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "zh→en")
	assert.Contains(t, out, "● zh-en")
}

func TestDictionariesModel_CountError(t *testing.T) {
	c := &fakeCounter{err: errors.New("no such table")}
	m := NewDictionariesModel(c, testDicts(), "", dict.AllTarget)

	m, _ = m.Update(m.Init()())
	assert.Contains(t, m.View(), "counting entries: no such table")
}

func TestDictionariesModel_SelectTarget(t *testing.T) {
	m := NewDictionariesModel(nil, testDicts(), "", dict.AllTarget)
	assert.Nil(t, m.Init())

	tests := []struct {
		name string
		keys []string
		want dict.Target
	}{
		{name: "first row is all", keys: nil, want: dict.AllTarget},
		{name: "down once", keys: []string{"j"}, want: "zh-en"},
		{name: "clamped at end", keys: []string{"j", "j", "j", "j"}, want: "en-en"},
		{name: "back up", keys: []string{"j", "j", "k"}, want: "zh-en"},
		{name: "top", keys: []string{"j", "j", "g"}, want: dict.AllTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mm := m
			for _, k := range tt.keys {
				mm, _ = mm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
			}
			_, cmd := mm.Update(tea.KeyMsg{Type: tea.KeyEnter})
			require.NotNil(t, cmd)
			assert.Equal(t, selector.TargetSelectedMsg{Target: tt.want}, cmd())
		})
	}
}

func TestDictionariesModel_Refresh(t *testing.T) {
	c := &fakeCounter{counts: map[string]int{}}
	m := NewDictionariesModel(c, testDicts(), "", dict.AllTarget)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, c.calls)
}

func TestDictionariesModel_Empty(t *testing.T) {
	m := NewDictionariesModel(nil, nil, "", dict.AllTarget)
	assert.Contains(t, m.View(), "No dictionaries configured")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, selector.TargetSelectedMsg{Target: dict.AllTarget}, cmd())
}

func TestDictionariesModel_ImportRequest(t *testing.T) {
	m := NewDictionariesModel(nil, testDicts(), "", dict.AllTarget)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	assert.Nil(t, cmd, "All row has nothing to import into")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	require.NotNil(t, cmd)
	assert.Equal(t, ImportRequestMsg{Dictionary: testDicts()[0]}, cmd())
}

func TestDictionariesModel_Imported(t *testing.T) {
	c := &fakeCounter{counts: map[string]int{"en-en": 2}}
	m := NewDictionariesModel(c, testDicts(), "", dict.AllTarget)

	m, cmd := m.Update(ImportedMsg{DictID: "en-en", Stats: dict.ImportStats{Read: 3, Imported: 2, Skipped: 1}})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Imported 2 entries into en-en (1 skipped)")

	m, _ = m.Update(cmd())
	assert.Equal(t, 1, c.calls)

	m, cmd = m.Update(ImportedMsg{DictID: "en-en", Err: errors.New("bad file")})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "importing en-en: bad file")
	assert.NotContains(t, m.View(), "Imported 2 entries")
}

func TestDictionariesModel_ImportRequestCarriesCount(t *testing.T) {
	c := &fakeCounter{counts: map[string]int{"en-en": 30}}
	m := NewDictionariesModel(c, testDicts(), "", dict.AllTarget)
	m, _ = m.Update(m.Init()())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	require.NotNil(t, cmd)
	assert.Equal(t, ImportRequestMsg{Dictionary: testDicts()[1], Existing: 30}, cmd())
}
