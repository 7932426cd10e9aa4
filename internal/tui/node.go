package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pulse-node/internal/domain"
	"pulse-node/internal/mt5"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	nodeRefresh  = 3 * time.Second
	logTailLines = 12
)

// Node tab message types.
type nodeSnapshotMsg struct {
	status    mt5.Status
	account   *domain.AccountSnapshot
	positions []domain.Position
	logs      []string
	serverErr error
}
type nodeTickMsg time.Time

// NodeModel shows the HTTP node, the MT5 session and recent log lines.
type NodeModel struct {
	services Services
	snapshot nodeSnapshotMsg
	loaded   bool
	width    int
	height   int
}

// NewNodeModel creates the node status model.
func NewNodeModel(svc Services) NodeModel {
	return NodeModel{services: svc}
}

// Init fires the first snapshot and the refresh ticker.
func (m NodeModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd())
}

// Update handles incoming messages.
func (m NodeModel) Update(msg tea.Msg) (NodeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case nodeSnapshotMsg:
		m.snapshot = msg
		m.loaded = true
		return m, nil

	case nodeTickMsg:
		return m, tea.Batch(m.fetchCmd(), m.tickCmd())

	case tea.KeyMsg:
		if key.Matches(msg, DefaultKeyMap.Refresh) {
			return m, m.fetchCmd()
		}
	}
	return m, nil
}

// View renders the node tab.
func (m NodeModel) View() string {
	if !m.loaded {
		return SubtextStyle.Render("Starting node...")
	}

	half := m.width/2 - 2
	if half < 30 {
		half = 30
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		BorderStyle.Width(half).Render(m.renderServer()),
		BorderStyle.Width(half).Render(m.renderSession()),
	)

	full := m.width - 2
	if full < 40 {
		full = 40
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		BorderStyle.Width(full).Render(m.renderPositions()),
		BorderStyle.Width(full).Render(m.renderLogs()),
	)
}

// SetSize updates the model dimensions.
func (m *NodeModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Status returns the last session status (for testing).
func (m NodeModel) Status() mt5.Status { return m.snapshot.status }

// Positions returns the last positions (for testing).
func (m NodeModel) Positions() []domain.Position { return m.snapshot.positions }

func (m NodeModel) renderServer() string {
	lines := []string{HeaderStyle.Render("  Node")}
	if m.snapshot.serverErr != nil {
		lines = append(lines, "  "+ErrorStyle.Render("stopped: "+m.snapshot.serverErr.Error()))
	} else {
		lines = append(lines, "  "+OnlineStyle.Render("serving"))
	}
	url := m.services.NodeURL
	if url == "" {
		url = "-"
	}
	lines = append(lines, "  "+SubtextStyle.Render("url ")+url)
	return strings.Join(lines, "\n")
}

func (m NodeModel) renderSession() string {
	s := m.snapshot.status
	lines := []string{HeaderStyle.Render("  MT5 Session")}
	if s.State != domain.SessionConnected {
		lines = append(lines, "  "+OfflineStyle.Render("disconnected"))
		lines = append(lines, SubtextStyle.Render("  connect from the app to see the account"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "  "+OnlineStyle.Render("connected")+fmt.Sprintf("  %d @ %s", s.Login, s.Server))
	totals := domain.TotalsOf(m.snapshot.account)
	currency := ""
	if m.snapshot.account != nil {
		currency = m.snapshot.account.Currency
	}
	lines = append(lines, fmt.Sprintf("  Balance %.2f %s", totals.Balance, currency))
	lines = append(lines, fmt.Sprintf("  Equity  %.2f %s", totals.Equity, currency))
	lines = append(lines, "  Profit  "+formatProfit(totals.Profit))
	return strings.Join(lines, "\n")
}

func (m NodeModel) renderPositions() string {
	lines := []string{HeaderStyle.Render(fmt.Sprintf("  Open Positions (%d)", len(m.snapshot.positions)))}
	for _, p := range m.snapshot.positions {
		lines = append(lines, "  "+FormatPosition(p))
	}
	if len(m.snapshot.positions) == 0 {
		lines = append(lines, SubtextStyle.Render("  No open positions"))
	}
	return strings.Join(lines, "\n")
}

func (m NodeModel) renderLogs() string {
	lines := []string{HeaderStyle.Render("  Recent Log")}
	for _, l := range m.snapshot.logs {
		lines = append(lines, SubtextStyle.Render("  "+strings.TrimRight(l, "\n")))
	}
	if len(m.snapshot.logs) == 0 {
		lines = append(lines, SubtextStyle.Render("  (empty)"))
	}
	return strings.Join(lines, "\n")
}

func formatProfit(v float64) string {
	switch {
	case v > 0:
		return PriceUpStyle.Render(signedMoney(v))
	case v < 0:
		return PriceDownStyle.Render(signedMoney(v))
	default:
		return PriceZeroStyle.Render(signedMoney(v))
	}
}

func (m NodeModel) fetchCmd() tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		var snap nodeSnapshotMsg
		if svc.Session != nil {
			ctx := context.Background()
			snap.status = svc.Session.Status()
			snap.account = svc.Session.AccountInfo(ctx)
			snap.positions = svc.Session.Positions(ctx)
		}
		if svc.Logs != nil {
			snap.logs = svc.Logs.Tail(logTailLines)
		}
		if svc.ServerErr != nil {
			snap.serverErr = svc.ServerErr()
		}
		return snap
	}
}

func (m NodeModel) tickCmd() tea.Cmd {
	return tea.Tick(nodeRefresh, func(t time.Time) tea.Msg {
		return nodeTickMsg(t)
	})
}
