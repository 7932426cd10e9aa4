package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab represents a screen tab in the console.
type Tab int

const (
	TabNode Tab = iota
	TabMarkets
	TabChat
)

var tabNames = []string{"1:Node", "2:Markets", "3:Chat"}

// AppModel is the root Bubble Tea model that manages tab navigation and child screens.
type AppModel struct {
	services  Services
	activeTab Tab
	node      NodeModel
	markets   MarketsModel
	chat      ChatModel
	width     int
	height    int
	quitting  bool
}

// NewAppModel creates the root application model with all child screens.
func NewAppModel(svc Services) AppModel {
	return AppModel{
		services:  svc,
		activeTab: TabNode,
		node:      NewNodeModel(svc),
		markets:   NewMarketsModel(svc),
		chat:      NewChatModel(svc),
	}
}

// Init initializes all child models.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.node.Init(),
		m.markets.Init(),
		m.chat.Init(),
	)
}

// Update handles incoming messages, routing to the active tab.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.propagateSize()
		return m, nil

	case tea.KeyMsg:
		// Chat keeps typed characters; only navigation and ctrl+c pass through.
		if m.activeTab != TabChat || msg.Type == tea.KeyTab || msg.Type == tea.KeyShiftTab ||
			msg.String() == "ctrl+c" {

			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				m.quitting = true
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Tab):
				m.switchTab(Tab((int(m.activeTab) + 1) % len(tabNames)))
				return m, nil

			case key.Matches(msg, DefaultKeyMap.ShiftTab):
				next := int(m.activeTab) - 1
				if next < 0 {
					next = len(tabNames) - 1
				}
				m.switchTab(Tab(next))
				return m, nil

			case msg.String() == "1":
				m.switchTab(TabNode)
				return m, nil
			case msg.String() == "2":
				m.switchTab(TabMarkets)
				return m, nil
			case msg.String() == "3":
				m.switchTab(TabChat)
				return m, nil
			}
		}
	}

	var cmds []tea.Cmd

	switch msg.(type) {
	case nodeSnapshotMsg, nodeTickMsg:
		var cmd tea.Cmd
		m.node, cmd = m.node.Update(msg)
		cmds = append(cmds, cmd)

	case coinsMsg, coinsErrMsg, marketsTickMsg:
		var cmd tea.Cmd
		m.markets, cmd = m.markets.Update(msg)
		cmds = append(cmds, cmd)

	case chatReplyMsg, chatHistoryMsg, chatClearedMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)

	default:
		// Keyboard and other messages go to the active tab only.
		switch m.activeTab {
		case TabNode:
			var cmd tea.Cmd
			m.node, cmd = m.node.Update(msg)
			cmds = append(cmds, cmd)
		case TabMarkets:
			var cmd tea.Cmd
			m.markets, cmd = m.markets.Update(msg)
			cmds = append(cmds, cmd)
		case TabChat:
			var cmd tea.Cmd
			m.chat, cmd = m.chat.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the tab bar and active screen.
func (m AppModel) View() string {
	if m.quitting {
		return "Node stopped.\n"
	}

	var content string
	switch m.activeTab {
	case TabNode:
		content = m.node.View()
	case TabMarkets:
		content = m.markets.View()
	case TabChat:
		content = m.chat.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabBar(), content)
}

// SetSize updates dimensions on the root model and propagates to children.
func (m *AppModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.propagateSize()
}

// ActiveTab returns the currently active tab (for testing).
func (m AppModel) ActiveTab() Tab { return m.activeTab }

func (m *AppModel) switchTab(tab Tab) {
	if tab == TabChat && m.activeTab != TabChat {
		m.chat.Focus()
	} else if m.activeTab == TabChat && tab != TabChat {
		m.chat.Blur()
	}
	m.activeTab = tab
}

func (m *AppModel) propagateSize() {
	contentHeight := m.height - 2 // tab bar
	m.node.SetSize(m.width, contentHeight)
	m.markets.SetSize(m.width, contentHeight)
	m.chat.SetSize(m.width, contentHeight)
}

func (m AppModel) renderTabBar() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
