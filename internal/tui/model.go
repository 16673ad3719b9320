// Package tui provides a read-only terminal browser for a user directory.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/usermgr/internal/directory"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// headerHeight is the number of lines used by the title and filter lines.
const headerHeight = 2

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the Bubble Tea model for the directory browser. The list pane
// shows the records that match the current filter; the detail pane shows
// the record under the cursor.
type Model struct {
	dir       *directory.Directory
	source    string
	visible   []directory.Record
	cursor    int
	filter    textinput.Model
	filtering bool
	filterErr error
	width     int
	height    int
	viewport  viewport.Model
	help      help.Model
	keys      browseKeys
	fkeys     filterKeys
}

// NewModel creates a browser over dir. source names where the records came
// from and is shown in the title.
func NewModel(dir *directory.Directory, source string) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "regex on name or email"

	m := Model{
		dir:      dir,
		source:   source,
		visible:  dir.List(),
		filter:   ti,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     BrowseKeyMap(),
		fkeys:    FilterKeyMap(),
	}
	m.syncDetail()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selected returns the record under the cursor.
func (m Model) Selected() (directory.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return directory.Record{}, false
	}
	return m.visible[m.cursor], true
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, rightWidth := PaneWidths(msg.Width)
		vpWidth := rightWidth - borderChrome
		if vpWidth < 0 {
			vpWidth = 0
		}
		m.viewport.Width = vpWidth
		m.viewport.Height = m.contentHeight()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes keys while navigating the list.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.syncDetail()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.syncDetail()
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		m.filter.SetValue("")
		m.applyFilter()
	}
	return m, nil
}

// handleFilterKey routes keys to the filter input, re-filtering on every edit.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.fkeys.Apply):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case key.Matches(msg, m.fkeys.Cancel):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter recomputes the visible records from the filter text. An invalid
// pattern keeps the previous results and is reported in the header.
func (m *Model) applyFilter() {
	pattern := m.filter.Value()
	if pattern == "" {
		m.visible = m.dir.List()
		m.filterErr = nil
	} else {
		found, err := m.dir.FindByNameOrEmail(pattern)
		if err != nil {
			m.filterErr = err
			return
		}
		m.visible = found
		m.filterErr = nil
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.syncDetail()
}

// syncDetail loads the selected record into the detail viewport.
func (m *Model) syncDetail() {
	r, ok := m.Selected()
	if !ok {
		m.viewport.SetContent("No user selected.")
		return
	}
	m.viewport.SetContent(r.String())
	m.viewport.GotoTop()
}

// contentHeight returns the usable height for pane content,
// accounting for header, border chrome and the help bar.
func (m Model) contentHeight() int {
	h := m.height - headerHeight - borderChrome - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the header, the list and detail panes, and the help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	leftPane := FocusedBorder().
		Width(leftWidth - borderChrome).
		Height(contentHeight).
		Render(m.viewList(contentHeight))
	rightPane := UnfocusedBorder().
		Width(rightWidth - borderChrome).
		Height(contentHeight).
		Render(m.viewport.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	var helpView string
	if m.filtering {
		helpView = m.help.View(m.fkeys)
	} else {
		helpView = m.help.View(m.keys)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), m.viewFilter(), panes, helpView)
}

func (m Model) viewHeader() string {
	title := fmt.Sprintf("Users: %s", m.source)
	count := fmt.Sprintf(" (%d of %d)", len(m.visible), m.dir.Len())
	return titleStyle.Render(title) + dimStyle.Render(count)
}

func (m Model) viewFilter() string {
	if m.filterErr != nil {
		return errorStyle.Render(m.filterErr.Error())
	}
	if m.filtering || m.filter.Value() != "" {
		return m.filter.View()
	}
	return ""
}

// viewList renders one line per visible record, scrolled to keep the cursor
// within height rows.
func (m Model) viewList(height int) string {
	if m.dir.Len() == 0 {
		return dimStyle.Render("NO USERS HERE!")
	}
	if len(m.visible) == 0 {
		return dimStyle.Render("User not found.")
	}

	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := start + height
	if end > len(m.visible) {
		end = len(m.visible)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.visible[i]
		line := fmt.Sprintf("%s, %s", r.LastName, r.FirstName)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
