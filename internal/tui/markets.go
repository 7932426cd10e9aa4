package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pulse-node/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	marketsPerPage = 20
	marketsRefresh = 30 * time.Second
)

// Markets tab message types.
type coinsMsg []domain.CoinMarket
type coinsErrMsg struct{ err error }
type marketsTickMsg time.Time

// MarketsModel lists the top coins with a 24h heat map.
type MarketsModel struct {
	services Services
	coins    []domain.CoinMarket
	loading  bool
	err      error
	width    int
	height   int
}

// NewMarketsModel creates the markets model.
func NewMarketsModel(svc Services) MarketsModel {
	return MarketsModel{services: svc, loading: true}
}

// Init fires the first fetch and the refresh ticker.
func (m MarketsModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd())
}

// Update handles incoming messages.
func (m MarketsModel) Update(msg tea.Msg) (MarketsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case coinsMsg:
		m.coins = []domain.CoinMarket(msg)
		m.loading = false
		m.err = nil
		return m, nil

	case coinsErrMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case marketsTickMsg:
		return m, tea.Batch(m.fetchCmd(), m.tickCmd())

	case tea.KeyMsg:
		if key.Matches(msg, DefaultKeyMap.Refresh) {
			return m, m.fetchCmd()
		}
	}
	return m, nil
}

// View renders the markets tab.
func (m MarketsModel) View() string {
	if m.loading && len(m.coins) == 0 {
		return SubtextStyle.Render("Loading prices...")
	}
	if m.err != nil && len(m.coins) == 0 {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableWidth := m.width*2/3 - 2
	if tableWidth < 60 {
		tableWidth = 60
	}
	heatWidth := m.width - tableWidth - 4
	if heatWidth < 15 {
		heatWidth = 15
	}

	table := BorderStyle.Width(tableWidth).Render(m.renderTable())
	heat := BorderStyle.Width(heatWidth).Render(HeaderStyle.Render("  24h Heat Map") + "\n" + RenderHeatMap(m.coins, heatWidth))
	return lipgloss.JoinHorizontal(lipgloss.Top, table, heat)
}

// SetSize updates the model dimensions.
func (m *MarketsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Coins returns the current listing (for testing).
func (m MarketsModel) Coins() []domain.CoinMarket { return m.coins }

func (m MarketsModel) renderTable() string {
	lines := []string{
		HeaderStyle.Render("  Top Coins"),
		SubtextStyle.Render("    #  Symbol        Price       1h      24h  Volume"),
		SubtextStyle.Render("  " + rule(56)),
	}
	for _, c := range m.coins {
		lines = append(lines, "  "+FormatCoin(c))
	}
	if len(m.coins) == 0 {
		lines = append(lines, SubtextStyle.Render("  No price data available"))
	}
	if m.err != nil {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("  stale: %v", m.err)))
	}
	return strings.Join(lines, "\n")
}

func (m MarketsModel) fetchCmd() tea.Cmd {
	market := m.services.Market
	return func() tea.Msg {
		if market == nil {
			return coinsErrMsg{err: fmt.Errorf("market service not available")}
		}
		coins, err := market.Prices(context.Background(), "usd", marketsPerPage)
		if err != nil {
			return coinsErrMsg{err: err}
		}
		return coinsMsg(coins)
	}
}

func (m MarketsModel) tickCmd() tea.Cmd {
	return tea.Tick(marketsRefresh, func(t time.Time) tea.Msg {
		return marketsTickMsg(t)
	})
}
