package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/f3rmion/dsearch/internal/tui/components/selector"
	"github.com/mattn/go-runewidth"
)

// Dictionaries view styles
var (
	dictsTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	dictsPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	dictsHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc"))

	dictsRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	dictsSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436"))

	dictsMutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Counter reports entry counts per dictionary.
type Counter interface {
	Counts(ctx context.Context) (map[string]int, error)
}

type countsLoadedMsg struct {
	counts map[string]int
	err    error
}

// ImportRequestMsg asks for a file to import into Dictionary, which holds
// Existing entries.
type ImportRequestMsg struct {
	Dictionary dict.Dictionary
	Existing   int
}

// ImportedMsg reports the outcome of an import.
type ImportedMsg struct {
	DictID string
	Stats  dict.ImportStats
	Err    error
}

// DictionariesModel lists the registered dictionaries.
type DictionariesModel struct {
	counter   Counter
	dicts     []dict.Dictionary
	configDir string

	counts   map[string]int
	loaded   bool
	err      error
	status   string
	target   dict.Target
	selected int

	width  int
	height int
}

// NewDictionariesModel creates the dictionaries view.
func NewDictionariesModel(counter Counter, dicts []dict.Dictionary, configDir string, target dict.Target) DictionariesModel {
	return DictionariesModel{
		counter:   counter,
		dicts:     dicts,
		configDir: configDir,
		target:    target,
	}
}

// Init loads entry counts.
func (m DictionariesModel) Init() tea.Cmd {
	return m.loadCounts()
}

// SetSize updates the view dimensions.
func (m *DictionariesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetTarget marks the current search target.
func (m *DictionariesModel) SetTarget(t dict.Target) {
	m.target = t
}

func (m DictionariesModel) loadCounts() tea.Cmd {
	if m.counter == nil {
		return nil
	}
	counter := m.counter
	return func() tea.Msg {
		counts, err := counter.Counts(context.Background())
		return countsLoadedMsg{counts: counts, err: err}
	}
}

// Update handles messages.
func (m DictionariesModel) Update(msg tea.Msg) (DictionariesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case countsLoadedMsg:
		m.loaded = true
		m.counts = msg.counts
		m.err = nil
		if msg.err != nil {
			m.err = fmt.Errorf("counting entries: %w", msg.err)
		}
		return m, nil

	case ImportedMsg:
		if msg.Err != nil {
			m.status = ""
			m.err = fmt.Errorf("importing %s: %w", msg.DictID, msg.Err)
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Imported %d entries into %s (%d skipped)", msg.Stats.Imported, msg.DictID, msg.Stats.Skipped)
		return m, m.loadCounts()

	case tea.KeyMsg:
		opts := selector.Options(m.dicts)
		switch msg.String() {
		case "j", "down":
			if m.selected < len(opts)-1 {
				m.selected++
			}
			return m, nil
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "g":
			m.selected = 0
			return m, nil
		case "r":
			return m, m.loadCounts()
		case "i":
			if m.selected == 0 {
				return m, nil
			}
			d := m.dicts[m.selected-1]
			existing := m.counts[d.ID]
			return m, func() tea.Msg {
				return ImportRequestMsg{Dictionary: d, Existing: existing}
			}
		case "enter":
			t := opts[m.selected].Target
			return m, func() tea.Msg {
				return selector.TargetSelectedMsg{Target: t}
			}
		}
	}
	return m, nil
}

// View renders the dictionaries view.
func (m DictionariesModel) View() string {
	var b strings.Builder

	b.WriteString(dictsTitleStyle.Render("Dictionaries"))
	b.WriteString("\n")
	if m.configDir != "" {
		b.WriteString(dictsPathStyle.Render("Config: " + m.configDir))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
	} else if m.status != "" {
		b.WriteString(copiedStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	b.WriteString(dictsHeaderStyle.Render(fmt.Sprintf("  %-10s %-24s %-8s %8s", "ID", "Name", "Lang", "Entries")))
	b.WriteString("\n")

	for i, o := range selector.Options(m.dicts) {
		marker := " "
		if o.Target == m.target {
			marker = "●"
		}

		var lang string
		var count int
		if o.Target == dict.AllTarget {
			for _, n := range m.counts {
				count += n
			}
		} else {
			d := m.dicts[i-1]
			lang = d.Language + "→" + d.Gloss
			count = m.counts[d.ID]
		}

		countText := "…"
		if m.loaded {
			countText = fmt.Sprintf("%d", count)
		}

		row := fmt.Sprintf("%s %-10s %s %-8s %8s",
			marker,
			runewidth.Truncate(string(o.Target), 10, "…"),
			runewidth.FillRight(runewidth.Truncate(o.Label, 24, "…"), 24),
			lang,
			countText,
		)

		if i == m.selected {
			b.WriteString(dictsSelectedStyle.Render(row))
		} else {
			b.WriteString(dictsRowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if len(m.dicts) == 0 {
		b.WriteString(dictsMutedStyle.Render("  No dictionaries configured. Run 'dsearch init'."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: navigate • enter: search this dictionary • i: import file • r: refresh counts"))
	return b.String()
}
