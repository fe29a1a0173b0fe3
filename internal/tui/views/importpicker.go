package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/mattn/go-runewidth"
)

// importExtensions are the file types offered for import.
var importExtensions = []string{".jsonl", ".json"}

var (
	pickDirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	pickWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffb347"))

	pickPreviewStyle = boxStyle.
				MarginTop(1)
)

// FileSelectedMsg carries the file chosen for import into Dictionary.
type FileSelectedMsg struct {
	Dictionary dict.Dictionary
	Path       string
}

type filePreviewMsg struct {
	path    string
	preview dict.FilePreview
	err     error
}

// pickItem is one row of the listing.
type pickItem struct {
	name  string
	path  string
	dir   bool
	bytes int64
}

// ImportPickerModel browses the filesystem for a JSONL file to load into one
// dictionary and previews the highlighted file before it replaces anything.
type ImportPickerModel struct {
	target   dict.Dictionary
	existing int

	dir    string
	items  []pickItem
	cursor int
	err    error

	preview     dict.FilePreview
	previewPath string
	previewErr  error

	width  int
	height int
}

// NewImportPickerModel starts browsing in dir, or the home directory when dir
// does not exist. existing is the number of entries the import will replace.
func NewImportPickerModel(target dict.Dictionary, existing int, dir string) ImportPickerModel {
	if fi, err := os.Stat(dir); dir == "" || err != nil || !fi.IsDir() {
		dir, _ = os.UserHomeDir()
		if dir == "" {
			dir = string(filepath.Separator)
		}
	}

	m := ImportPickerModel{target: target, existing: existing}
	m.chdir(dir)
	return m
}

// Init previews the highlighted file, if any.
func (m ImportPickerModel) Init() tea.Cmd {
	return m.previewCmd()
}

// SetSize updates the view dimensions.
func (m *ImportPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Dir returns the directory being browsed.
func (m ImportPickerModel) Dir() string {
	return m.dir
}

// Target returns the dictionary the file will be imported into.
func (m ImportPickerModel) Target() dict.Dictionary {
	return m.target
}

func (m *ImportPickerModel) chdir(dir string) {
	m.dir = dir
	m.items = nil
	m.cursor = 0
	m.err = nil

	entries, err := os.ReadDir(dir)
	if err != nil {
		m.err = err
		return
	}

	if parent := filepath.Dir(dir); parent != dir {
		m.items = append(m.items, pickItem{name: "..", path: parent, dir: true})
	}

	var dirs, files []pickItem
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		it := pickItem{name: e.Name(), path: filepath.Join(dir, e.Name()), dir: e.IsDir()}
		switch {
		case it.dir:
			dirs = append(dirs, it)
		case importable(it.name):
			if info, err := e.Info(); err == nil {
				it.bytes = info.Size()
			}
			files = append(files, it)
		}
	}
	byName := func(s []pickItem) {
		sort.Slice(s, func(i, j int) bool { return strings.ToLower(s[i].name) < strings.ToLower(s[j].name) })
	}
	byName(dirs)
	byName(files)

	m.items = append(m.items, dirs...)
	m.items = append(m.items, files...)
}

func (m ImportPickerModel) hasFiles() bool {
	for _, it := range m.items {
		if !it.dir {
			return true
		}
	}
	return false
}

func importable(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range importExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// previewCmd scans the highlighted file in the background.
func (m ImportPickerModel) previewCmd() tea.Cmd {
	if m.cursor >= len(m.items) || m.items[m.cursor].dir {
		return nil
	}
	path := m.items[m.cursor].path
	if path == m.previewPath {
		return nil
	}
	return func() tea.Msg {
		p, err := dict.PreviewFile(path)
		return filePreviewMsg{path: path, preview: p, err: err}
	}
}

func (m *ImportPickerModel) move(to int) tea.Cmd {
	m.cursor = max(min(to, len(m.items)-1), 0)
	return m.previewCmd()
}

// Update handles messages.
func (m ImportPickerModel) Update(msg tea.Msg) (ImportPickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case filePreviewMsg:
		m.previewPath = msg.path
		m.preview = msg.preview
		m.previewErr = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			return m, m.move(m.cursor + 1)
		case "k", "up":
			return m, m.move(m.cursor - 1)
		case "g":
			return m, m.move(0)
		case "G":
			return m, m.move(len(m.items) - 1)
		case "backspace", "h":
			if parent := filepath.Dir(m.dir); parent != m.dir {
				m.chdir(parent)
			}
			return m, m.previewCmd()
		case "enter", "l", "right":
			if m.cursor >= len(m.items) {
				return m, nil
			}
			it := m.items[m.cursor]
			if it.dir {
				m.chdir(it.path)
				return m, m.previewCmd()
			}
			target := m.target
			return m, func() tea.Msg {
				return FileSelectedMsg{Dictionary: target, Path: it.path}
			}
		}
	}
	return m, nil
}

func (m ImportPickerModel) listHeight() int {
	return max(m.height-14, 5)
}

// View renders the picker.
func (m ImportPickerModel) View() string {
	var b strings.Builder

	b.WriteString(dictsTitleStyle.Render("Import into " + m.target.Label()))
	b.WriteString("\n")
	b.WriteString(dictsPathStyle.Render(fmt.Sprintf("%s  %s→%s", m.target.ID, m.target.Language, m.target.Gloss)))
	b.WriteString("\n")
	if m.existing > 0 {
		b.WriteString(pickWarnStyle.Render(fmt.Sprintf("Replaces the %d entries already in %s", m.existing, m.target.ID)))
	} else {
		b.WriteString(dictsMutedStyle.Render("Replaces any entries already in " + m.target.ID))
	}
	b.WriteString("\n\n")

	b.WriteString(dictsPathStyle.Render(m.dir))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	if !m.hasFiles() {
		b.WriteString(dictsMutedStyle.Render("  (no .jsonl or .json files here)"))
		b.WriteString("\n")
	}

	visible := m.listHeight()
	start := max(m.cursor-visible+1, 0)
	end := min(start+visible, len(m.items))
	nameWidth := max(min(m.width-16, 48), 16)

	for i := start; i < end; i++ {
		it := m.items[i]

		var row string
		if it.dir {
			row = "  " + runewidth.Truncate(it.name+"/", nameWidth, "…")
		} else {
			row = fmt.Sprintf("  %s %9s",
				runewidth.FillRight(runewidth.Truncate(it.name, nameWidth, "…"), nameWidth),
				humanize.Bytes(uint64(it.bytes)))
		}

		switch {
		case i == m.cursor:
			b.WriteString(dictsSelectedStyle.Render(row))
		case it.dir:
			b.WriteString(pickDirStyle.Render(row))
		default:
			b.WriteString(dictsRowStyle.Render(row))
		}
		b.WriteString("\n")
	}
	if end < len(m.items) {
		b.WriteString(dictsMutedStyle.Render(fmt.Sprintf("  … %d more", len(m.items)-end)))
		b.WriteString("\n")
	}

	if p := m.previewText(); p != "" {
		b.WriteString(pickPreviewStyle.Render(p))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: navigate • enter: import file / open dir • backspace: parent • esc: cancel"))
	return b.String()
}

// previewText describes the highlighted file once its preview has arrived.
func (m ImportPickerModel) previewText() string {
	if m.cursor >= len(m.items) || m.items[m.cursor].path != m.previewPath {
		return ""
	}
	if m.previewErr != nil {
		return errorStyle.Render(m.previewErr.Error())
	}

	p := m.preview
	if p.Lines == 0 {
		return pickWarnStyle.Render("Empty file: importing it clears " + m.target.ID)
	}

	text := fmt.Sprintf("%s entries", humanize.Comma(int64(p.Lines-p.Malformed)))
	if p.Malformed > 0 {
		text += pickWarnStyle.Render(fmt.Sprintf("  (%d lines will be skipped)", p.Malformed))
	}
	if p.First != "" {
		text += "\n" + dictsMutedStyle.Render("first:") + " " + headwordStyle.Render(p.First)
	}
	return text
}
