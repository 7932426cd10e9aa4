package tui

import (
	"fmt"
	"strings"
	"time"

	"pulse-node/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

// FormatCoin renders a market row as a single line.
func FormatCoin(c domain.CoinMarket) string {
	return fmt.Sprintf("%3d  %-6s %12s  %s  %s  Vol: %s",
		c.MarketCapRank,
		c.Symbol,
		formatUSD(c.CurrentPrice),
		formatChange(c.PriceChangePercentage1h),
		formatChange(c.PriceChangePercentage24h),
		formatVolume(c.TotalVolume),
	)
}

// FormatPosition renders an open position as a single line.
func FormatPosition(p domain.Position) string {
	sideStyle := SideShortStyle
	if p.Side == domain.SideLong {
		sideStyle = SideLongStyle
	}

	pnl := p.PnL.InexactFloat64()
	pnlStyle := PriceZeroStyle
	if pnl > 0 {
		pnlStyle = PriceUpStyle
	} else if pnl < 0 {
		pnlStyle = PriceDownStyle
	}

	return fmt.Sprintf("#%-10s %-10s %s %8s @ %-10s now %-10s %s  %s",
		p.ID,
		p.Symbol,
		sideStyle.Render(fmt.Sprintf("%-5s", p.Side)),
		p.Qty.String(),
		p.EntryPrice.String(),
		p.CurrentPrice.String(),
		pnlStyle.Render(signedMoney(pnl)),
		SubtextStyle.Render(time.UnixMilli(p.OpenedAt).Format("2006-01-02 15:04")),
	)
}

// RenderHeatMap renders a colored grid showing 24h change for each coin.
func RenderHeatMap(coins []domain.CoinMarket, width int) string {
	if len(coins) == 0 {
		return SubtextStyle.Render("No price data")
	}

	cellWidth := 8
	cols := width / cellWidth
	if cols < 1 {
		cols = 1
	}

	var rows []string
	var row []string
	for i, c := range coins {
		change := c.PriceChangePercentage24h
		bg := HeatNeutral
		if change > 0 {
			bg = heatColorScale(change, 10, HeatGreen)
		} else if change < 0 {
			bg = heatColorScale(-change, 10, HeatRed)
		}

		cell := lipgloss.NewStyle().
			Background(bg).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Width(cellWidth - 1).
			Align(lipgloss.Center).
			Render(c.Symbol)

		row = append(row, cell)
		if (i+1)%cols == 0 || i == len(coins)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}

	return strings.Join(rows, "\n")
}

// heatColorScale produces a color scaled by magnitude.
func heatColorScale(magnitude, maxMagnitude float64, baseColor lipgloss.Color) lipgloss.Color {
	intensity := magnitude / maxMagnitude
	if intensity > 1 {
		intensity = 1
	}
	if intensity < 0.1 {
		return HeatNeutral
	}
	return baseColor
}

func formatChange(pct float64) string {
	style := PriceZeroStyle
	sign := ""
	if pct > 0 {
		style = PriceUpStyle
		sign = "+"
	} else if pct < 0 {
		style = PriceDownStyle
	}
	return style.Render(fmt.Sprintf("%7s", fmt.Sprintf("%s%.1f%%", sign, pct)))
}

func signedMoney(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func formatUSD(v float64) string {
	if v >= 1000 {
		return "$" + addCommas(fmt.Sprintf("%.0f", v))
	}
	if v >= 1 {
		return fmt.Sprintf("$%.2f", v)
	}
	return fmt.Sprintf("$%.4f", v)
}

func addCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var result strings.Builder
	for i, ch := range s {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(ch)
	}
	return result.String()
}

func formatVolume(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.1fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

func rule(width int) string {
	if width < 1 {
		width = 1
	}
	return strings.Repeat("─", width)
}
