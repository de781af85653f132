// Package tui implements a read-only two-pane terminal browser for a phone
// book: a filterable contact list on the left and the selected contact's
// details on the right.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/phonebook/internal/contact"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Focus represents which pane has keyboard focus.
type Focus int

const (
	PaneLeft  Focus = iota // Contact list has focus.
	PaneRight              // Detail viewport has focus.
)

// item adapts a contact to list.Item.
type item struct {
	c contact.Contact
}

func (i item) Title() string { return i.c.Name }

// Description shows the first phone number that is set.
func (i item) Description() string {
	switch {
	case i.c.Mobile != "":
		return "mobile " + i.c.Mobile
	case i.c.Home != "":
		return "home " + i.c.Home
	case i.c.Work != "":
		return "work " + i.c.Work
	default:
		return "no phone"
	}
}

func (i item) FilterValue() string { return i.c.Name }

// Model is the Bubble Tea model for the contact browser.
type Model struct {
	list     list.Model
	viewport viewport.Model
	help     help.Model
	keys     browseKeys
	focus    Focus
	width    int
	height   int
	quitting bool
}

// NewModel creates a browser over contacts, shown in the given order.
func NewModel(contacts []contact.Contact) Model {
	items := make([]list.Item, len(contacts))
	for i, c := range contacts {
		items[i] = item{c: c}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Contacts (%d)", len(contacts))
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	m := Model{
		list:     l,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     BrowseKeyMap(),
		focus:    PaneLeft,
	}
	m.viewport.SetContent(m.detail())
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selected returns the highlighted contact, if any.
func (m Model) Selected() (contact.Contact, bool) {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return contact.Contact{}, false
	}
	return it.c, true
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		leftWidth, rightWidth := PaneWidths(msg.Width)
		m.list.SetSize(max(leftWidth-borderChrome, 0), m.contentHeight())
		m.viewport.Width = max(rightWidth-borderChrome, 0)
		m.viewport.Height = m.contentHeight()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Filter results arrive asynchronously and may change the selection.
	return m.updateList(msg)
}

// handleKey routes keys to the focused pane. While the filter input is
// active every key belongs to the list.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		if m.focus == PaneLeft {
			m.focus = PaneRight
		} else {
			m.focus = PaneLeft
		}
		return m, nil
	}

	if m.focus == PaneRight {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m.updateList(msg)
}

// updateList forwards msg to the list and refreshes the detail pane when the
// selection may have moved.
func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.viewport.SetContent(m.detail())
	m.viewport.GotoTop()
	return m, cmd
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// detail renders the selected contact's fields.
func (m Model) detail() string {
	c, ok := m.Selected()
	if !ok {
		return emptyStyle.Render("No contacts.")
	}
	var b strings.Builder
	for i, v := range c.Fields() {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(contact.FieldNames[i]+":"), v)
	}
	return b.String()
}

// View renders the two-pane layout with help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var leftStyle, rightStyle lipgloss.Style
	if m.focus == PaneLeft {
		leftStyle = FocusedBorder()
		rightStyle = UnfocusedBorder()
	} else {
		leftStyle = UnfocusedBorder()
		rightStyle = FocusedBorder()
	}

	leftStyle = leftStyle.
		Width(max(leftWidth-borderChrome, 0)).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(max(rightWidth-borderChrome, 0)).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.list.View())
	rightPane := rightStyle.Render(m.viewport.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	return lipgloss.JoinVertical(lipgloss.Left, panes, m.help.View(m.keys))
}
