// Package views provides the individual views for the TUI.
package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dsearch/internal/clipboard"
	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/f3rmion/dsearch/internal/tui/bigchar"
	"github.com/f3rmion/dsearch/internal/tui/components/searchform"
	"github.com/f3rmion/dsearch/internal/tui/components/selector"
	"github.com/mattn/go-runewidth"
)

const searchTimeout = 5 * time.Second

// errNoQuery is shown when enter is pressed on an empty query.
var errNoQuery = errors.New("type something to search for")

var (
	headwordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true)

	readingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Italic(true)

	definitionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	dictTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc"))

	rowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	rowSelectedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 1)

	glyphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d"))

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)
)

// Searcher runs a query against a target.
type Searcher interface {
	Search(ctx context.Context, target dict.Target, query string) ([]dict.Result, error)
}

type searchResultMsg struct {
	seq     int
	results []dict.Result
	err     error
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// SearchModel owns the search target and query and shows the results.
type SearchModel struct {
	searcher Searcher
	glyphs   *bigchar.Renderer
	clip     clipboard.Writer

	form   searchform.Model
	dicts  []dict.Dictionary
	target dict.Target
	query  string

	results   []dict.Result
	selected  int
	lastQuery string
	searching bool
	seq       int
	err       error
	copied    bool

	width  int
	height int
}

// NewSearchModel creates the search view.
func NewSearchModel(searcher Searcher, dicts []dict.Dictionary, target dict.Target, glyphs *bigchar.Renderer, clip clipboard.Writer) SearchModel {
	return SearchModel{
		searcher: searcher,
		glyphs:   glyphs,
		clip:     clip,
		form:     searchform.New(selector.New()),
		dicts:    dicts,
		target:   target,
	}
}

// SetSize updates the view dimensions.
func (m *SearchModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form.SetWidth(width)
}

// SetTarget changes the search target.
func (m *SearchModel) SetTarget(t dict.Target) {
	m.target = t
}

// Target returns the current search target.
func (m SearchModel) Target() dict.Target {
	return m.target
}

// Query returns the current query text.
func (m SearchModel) Query() string {
	return m.query
}

// Results returns the results of the last completed search.
func (m SearchModel) Results() []dict.Result {
	return m.results
}

// Err returns the error shown in the view, if any.
func (m SearchModel) Err() error {
	return m.err
}

// Searching reports whether a search is in flight.
func (m SearchModel) Searching() bool {
	return m.searching
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case selector.TargetSelectedMsg:
		m.target = msg.Target
		return m, nil

	case searchResultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.searching = false
		m.err = msg.err
		m.results = msg.results
		m.selected = 0
		return m, nil

	case clearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		if m.form.Focused() == searchform.AreaInput {
			switch msg.String() {
			case "up":
				if m.selected > 0 {
					m.selected--
				}
				return m, nil
			case "down":
				if m.selected < len(m.results)-1 {
					m.selected++
				}
				return m, nil
			case "ctrl+y":
				return m, m.copySelected()
			}
		}
	}

	query := m.query
	var submitted *searchform.SubmitEvent
	props := searchform.Props{
		HandleSubmit: func(ev searchform.SubmitEvent) tea.Cmd {
			submitted = &ev
			return nil
		},
		Target: m.target,
		Dicts:  m.dicts,
		Query: searchform.Binding{
			Get: func() string { return query },
			Set: func(s string) { query = s },
		},
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(props, msg)
	m.query = query

	if submitted != nil {
		return m, m.submit(*submitted)
	}
	return m, cmd
}

// submit validates the event and starts a search.
func (m *SearchModel) submit(ev searchform.SubmitEvent) tea.Cmd {
	q := strings.TrimSpace(ev.Query)
	if q == "" {
		m.err = errNoQuery
		return nil
	}

	m.seq++
	m.searching = true
	m.err = nil
	m.lastQuery = q

	seq := m.seq
	searcher := m.searcher
	target := ev.Target
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		results, err := searcher.Search(ctx, target, q)
		if err != nil {
			slog.Default().Warn("search failed", "target", string(target), "query", q, "error", err)
		}
		return searchResultMsg{seq: seq, results: results, err: err}
	}
}

func (m *SearchModel) copySelected() tea.Cmd {
	if m.clip == nil || m.selected >= len(m.results) {
		return nil
	}
	r := m.results[m.selected]
	text := r.Headword
	if r.Definition != "" {
		text += ": " + r.Definition
	}
	if err := m.clip.Write(text); err != nil {
		m.err = fmt.Errorf("copying: %w", err)
		return nil
	}
	m.copied = true
	return clearCopiedAfter(2 * time.Second)
}

func (m SearchModel) props() searchform.Props {
	query := m.query
	return searchform.Props{
		HandleSubmit: func(searchform.SubmitEvent) tea.Cmd { return nil },
		Target:       m.target,
		Dicts:        m.dicts,
		Query: searchform.Binding{
			Get: func() string { return query },
			Set: func(string) {},
		},
	}
}

// View renders the search view.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(m.form.View(m.props()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case m.searching:
		b.WriteString(statusStyle.Render(fmt.Sprintf("Searching for %q…", m.lastQuery)))
		b.WriteString("\n")
	case m.lastQuery != "":
		b.WriteString(statusStyle.Render(m.statusLine()))
		b.WriteString("\n")
	}

	if len(m.results) > 0 {
		b.WriteString(m.renderResults())
		b.WriteString("\n")
		b.WriteString(m.renderDetail(m.results[m.selected]))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m SearchModel) statusLine() string {
	noun := "results"
	if len(m.results) == 1 {
		noun = "result"
	}
	return fmt.Sprintf("%d %s for %q", len(m.results), noun, m.lastQuery)
}

func (m SearchModel) helpLine() string {
	keys := m.form.KeyMap()
	parts := []string{
		keys.Submit.Help().Key + ": " + keys.Submit.Help().Desc,
		keys.NextFocus.Help().Key + ": " + keys.NextFocus.Help().Desc,
	}
	if m.form.Focused() == searchform.AreaSelector {
		parts = append(parts, "↑/↓: change dictionary")
	} else if len(m.results) > 0 {
		parts = append(parts, "↑/↓: results")
		if m.clip != nil {
			parts = append(parts, "ctrl+y: copy")
		}
	}
	return strings.Join(parts, " • ")
}

// visibleRows returns how many result rows fit above the detail pane.
func (m SearchModel) visibleRows() int {
	if m.height <= 0 {
		return 8
	}
	return max(m.height/3, 3)
}

func (m SearchModel) renderResults() string {
	rows := m.visibleRows()
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(start+rows, len(m.results))

	width := m.width
	if width <= 0 {
		width = 72
	}

	var lines []string
	for i := start; i < end; i++ {
		r := m.results[i]
		line := headwordStyle.Render(r.Headword)
		if r.Reading != "" && r.Reading != r.Headword {
			line += " " + readingStyle.Render(r.Reading)
		}
		if m.target == dict.AllTarget {
			line += " " + dictTagStyle.Render("["+r.DictID+"]")
		}
		used := lipgloss.Width(line) + 3
		if def := firstLine(r.Definition); def != "" && width-used > 4 {
			line += "  " + definitionStyle.Render(runewidth.Truncate(def, width-used, "…"))
		}

		if i == m.selected {
			lines = append(lines, rowSelectedStyle.Render("▸ "+line))
		} else {
			lines = append(lines, rowStyle.Render("  "+line))
		}
	}

	if end < len(m.results) {
		lines = append(lines, helpStyle.Render(fmt.Sprintf("  … %d more", len(m.results)-end)))
	}
	return strings.Join(lines, "\n")
}

func (m SearchModel) renderDetail(r dict.Result) string {
	var sections []string

	if art := m.glyphArt(r.Headword); art != "" {
		sections = append(sections, glyphStyle.Render(art))
	}

	title := headwordStyle.Render(r.Headword)
	if r.Reading != "" && r.Reading != r.Headword {
		title += "  " + readingStyle.Render(r.Reading)
	}
	if m.copied {
		title += "  " + copiedStyle.Render("Copied!")
	}
	sections = append(sections, title)

	wrap := 60
	if m.width > 10 {
		wrap = m.width - 8
	}
	if r.Definition != "" {
		var senses []string
		for i, s := range strings.Split(r.Definition, "; ") {
			senses = append(senses, wordWrap(fmt.Sprintf("%d. %s", i+1, s), wrap))
		}
		sections = append(sections, definitionStyle.Render(strings.Join(senses, "\n")))
	}

	meta := dictTagStyle.Render(r.DictID)
	if r.Tags != "" {
		meta += "  " + helpStyle.Render(strings.ReplaceAll(r.Tags, ",", " · "))
	}
	sections = append(sections, meta)

	return boxStyle.Render(strings.Join(sections, "\n\n"))
}

// glyphArt renders the first character of CJK headwords when a font is available.
func (m SearchModel) glyphArt(headword string) string {
	if !m.glyphs.Available() || headword == "" {
		return ""
	}
	if []rune(headword)[0] < 0x2E80 {
		return ""
	}
	return m.glyphs.Render(headword, 24, 12)
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\n;"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

func wordWrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	for _, word := range strings.Fields(s) {
		wordWidth := runewidth.StringWidth(word)
		if currentWidth+wordWidth+1 > width && currentWidth > 0 {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			currentLine.WriteString(" ")
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += wordWidth
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	return strings.Join(lines, "\n")
}
