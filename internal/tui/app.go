package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dsearch/internal/clipboard"
	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/f3rmion/dsearch/internal/tui/bigchar"
	"github.com/f3rmion/dsearch/internal/tui/components/selector"
	"github.com/f3rmion/dsearch/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewSearch ViewType = iota
	ViewDictionaries
	ViewImport
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// ViewSwitchMsg requests a view change
type ViewSwitchMsg struct {
	View ViewType
}

// Backend answers searches, reports entry counts and imports files.
type Backend interface {
	views.Searcher
	views.Counter
	Import(ctx context.Context, dictID, path string, replace bool) (dict.ImportStats, error)
}

// Options configures the application.
type Options struct {
	Dictionaries []dict.Dictionary
	Target       dict.Target
	ConfigDir    string
	Glyphs       *bigchar.Renderer
	Clipboard    clipboard.Writer
}

// AppModel is the main TUI model
type AppModel struct {
	backend   Backend
	configDir string

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	searchView views.SearchModel
	dictsView  views.DictionariesModel
	importView views.ImportPickerModel

	// Help overlay
	showHelp bool
}

// NewApp creates the TUI application.
func NewApp(backend Backend, opts Options) AppModel {
	menuItems := []MenuItem{
		{Label: "Search", View: ViewSearch, Shortcut: "1"},
		{Label: "Dictionaries", View: ViewDictionaries, Shortcut: "2"},
	}

	return AppModel{
		backend:      backend,
		configDir:    opts.ConfigDir,
		sidebarWidth: 20,
		currentView:  ViewSearch,
		menuItems:    menuItems,

		searchView: views.NewSearchModel(backend, opts.Dictionaries, opts.Target, opts.Glyphs, opts.Clipboard),
		dictsView:  views.NewDictionariesModel(backend, opts.Dictionaries, opts.ConfigDir, opts.Target),
	}
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.dictsView.Init())
}

// CurrentView returns the active view.
func (m AppModel) CurrentView() ViewType {
	return m.currentView
}

// Target returns the current search target.
func (m AppModel) Target() dict.Target {
	return m.searchView.Target()
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.currentView == ViewImport {
				m.switchTo(ViewDictionaries)
				return m, nil
			}
			if m.sidebarActive {
				return m, tea.Quit
			}
			m.sidebarActive = true
			return m, nil
		}

		if m.sidebarActive {
			return m.updateSidebar(msg)
		}

		// The search view owns every other key so typing is never intercepted.
		if m.currentView != ViewSearch {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.searchView.SetSize(contentWidth, contentHeight)
		m.dictsView.SetSize(contentWidth, contentHeight)
		m.importView.SetSize(contentWidth, contentHeight)
		return m, nil

	case ViewSwitchMsg:
		m.switchTo(msg.View)
		return m, nil

	case selector.TargetSelectedMsg:
		m.searchView.SetTarget(msg.Target)
		m.dictsView.SetTarget(msg.Target)
		if m.currentView == ViewDictionaries {
			m.switchTo(ViewSearch)
		}
		return m, nil

	case views.ImportRequestMsg:
		m.importView = views.NewImportPickerModel(msg.Dictionary, msg.Existing, m.configDir)
		m.importView.SetSize(m.width-m.sidebarWidth-4, m.height-2)
		m.currentView = ViewImport
		m.sidebarActive = false
		return m, m.importView.Init()

	case views.FileSelectedMsg:
		m.switchTo(ViewDictionaries)
		return m, m.importFile(msg.Dictionary.ID, msg.Path)
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		var cmd tea.Cmd
		switch m.currentView {
		case ViewSearch:
			m.searchView, cmd = m.searchView.Update(msg)
		case ViewDictionaries:
			m.dictsView, cmd = m.dictsView.Update(msg)
		case ViewImport:
			m.importView, cmd = m.importView.Update(msg)
		}
		return m, cmd
	}

	// Async results go to every view so a search finishing in the background is not lost.
	var searchCmd, dictsCmd, importCmd tea.Cmd
	m.searchView, searchCmd = m.searchView.Update(msg)
	m.dictsView, dictsCmd = m.dictsView.Update(msg)
	m.importView, importCmd = m.importView.Update(msg)
	return m, tea.Batch(searchCmd, dictsCmd, importCmd)
}

func (m AppModel) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "tab":
		m.sidebarActive = false
	case "1", "2":
		for _, item := range m.menuItems {
			if item.Shortcut == msg.String() {
				m.switchTo(item.View)
			}
		}
	case "j", "down":
		if m.selectedMenu < len(m.menuItems)-1 {
			m.selectedMenu++
		}
	case "k", "up":
		if m.selectedMenu > 0 {
			m.selectedMenu--
		}
	case "enter", "l", "right":
		m.switchTo(m.menuItems[m.selectedMenu].View)
	}
	return m, nil
}

// importFile loads path into the dictionary and reports back with an ImportedMsg.
func (m AppModel) importFile(dictID, path string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		stats, err := backend.Import(context.Background(), dictID, path, true)
		return views.ImportedMsg{DictID: dictID, Stats: stats, Err: err}
	}
}

// switchTo activates a view and hands focus back to the content area.
func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	m.sidebarActive = false
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewSearch:
		content = m.searchView.View()
	case ViewDictionaries:
		content = m.dictsView.View()
	case ViewImport:
		content = m.importView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render(" dsearch "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}

		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4
	if m.height > usedHeight {
		for i := 0; i < m.height-usedHeight-2; i++ {
			items = append(items, "")
		}
	}

	help := "esc Menu"
	if m.sidebarActive {
		help = "? Help  q Quit"
	}
	items = append(items, SidebarHelpStyle.Render(help))

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(ColorText)

	helpText := titleStyle.Render("dsearch - dictionary search") + "\n\n"

	helpText += sectionStyle.Render("Global Keys") + "\n"
	helpText += keyStyle.Render("esc") + descStyle.Render("Focus menu / quit from menu") + "\n"
	helpText += keyStyle.Render("1-2") + descStyle.Render("Switch views (menu)") + "\n"
	helpText += keyStyle.Render("?") + descStyle.Render("Show this help") + "\n"
	helpText += keyStyle.Render("ctrl+c") + descStyle.Render("Quit") + "\n"

	helpText += sectionStyle.Render("Search View") + "\n"
	helpText += keyStyle.Render("enter") + descStyle.Render("Search") + "\n"
	helpText += keyStyle.Render("tab") + descStyle.Render("Switch query / dictionary") + "\n"
	helpText += keyStyle.Render("↑/↓") + descStyle.Render("Results or dictionary") + "\n"
	helpText += keyStyle.Render("ctrl+y") + descStyle.Render("Copy selected entry") + "\n"

	helpText += sectionStyle.Render("Dictionaries View") + "\n"
	helpText += keyStyle.Render("j/k ↑/↓") + descStyle.Render("Navigate") + "\n"
	helpText += keyStyle.Render("enter") + descStyle.Render("Search this dictionary") + "\n"
	helpText += keyStyle.Render("i") + descStyle.Render("Import a JSONL file") + "\n"
	helpText += keyStyle.Render("r") + descStyle.Render("Refresh counts") + "\n"

	helpText += sectionStyle.Render("Import") + "\n"
	helpText += keyStyle.Render("enter") + descStyle.Render("Select file/enter dir") + "\n"
	helpText += keyStyle.Render("backspace") + descStyle.Render("Go to parent dir") + "\n"
	helpText += keyStyle.Render("esc") + descStyle.Render("Cancel") + "\n"

	helpText += "\n" + lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true).
		Render("Press any key to close")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(1, 2).
		Width(50)

	helpBox := boxStyle.Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}
