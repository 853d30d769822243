// Package ui renders the live terminal dashboard: a pools table, the
// watched positions and a rolling alerts feed.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eldarkhamitov/levermon/internal/amm"
	"github.com/eldarkhamitov/levermon/internal/events"
)

const maxAlertLines = 8

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("211")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	profitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// Dashboard is the bubbletea model for watch mode.
type Dashboard struct {
	pools     table.Model
	metrics   map[string]events.MetricsUpdatedEvent // keyed by pool label
	positions map[string]events.PositionUpdatedEvent
	alerts    []string
	quitting  bool
}

// NewDashboard builds the model with an empty pools table.
func NewDashboard() *Dashboard {
	columns := []table.Column{
		{Title: "Pool", Width: 14},
		{Title: "Price (SOL)", Width: 14},
		{Title: "Market Cap", Width: 12},
		{Title: "Liquidity", Width: 12},
		{Title: "Funding/day", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)

	return &Dashboard{
		pools:     t,
		metrics:   make(map[string]events.MetricsUpdatedEvent),
		positions: make(map[string]events.PositionUpdatedEvent),
	}
}

func (d *Dashboard) Init() tea.Cmd {
	return nil
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			d.quitting = true
			return d, tea.Quit
		}

	case MetricsMsg:
		d.metrics[msg.Event.Label] = msg.Event
		d.refreshRows()
		return d, nil

	case PositionMsg:
		key := fmt.Sprintf("%s/%v/%d", msg.Event.Pool, msg.Event.Position.IsLong, msg.Event.Position.Size)
		d.positions[key] = msg.Event
		return d, nil

	case FundingAlertMsg:
		d.pushAlert(fmt.Sprintf("%s funding %.4f%%/day (limit %.2f%%)",
			msg.Event.Label, msg.Event.FundingPerDay, msg.Event.Threshold))
		return d, nil

	case PriceAlertMsg:
		d.pushAlert(fmt.Sprintf("%s moved %+.2f%% to %.9f SOL",
			msg.Event.Label, msg.Event.MovePercent, msg.Event.Price))
		return d, nil
	}

	var cmd tea.Cmd
	d.pools, cmd = d.pools.Update(msg)
	return d, cmd
}

func (d *Dashboard) View() string {
	if d.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("levermon - lever pool monitor"))
	b.WriteString("\n")
	b.WriteString(baseStyle.Render(d.pools.View()))
	b.WriteString("\n\n")

	if len(d.positions) > 0 {
		b.WriteString(sectionStyle.Render("Positions"))
		b.WriteString("\n")
		for _, key := range sortedKeys(d.positions) {
			ev := d.positions[key]
			side := "SHORT"
			if ev.Position.IsLong {
				side = "LONG"
			}
			line := fmt.Sprintf("  %-5s %.1fx  entry $%.6f  pnl %+.2f%%",
				side, ev.Position.Leverage, ev.EntryPrice, ev.PnLPercent)
			if ev.PnLPercent >= 0 {
				b.WriteString(profitStyle.Render(line))
			} else {
				b.WriteString(lossStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(d.alerts) > 0 {
		b.WriteString(sectionStyle.Render("Alerts"))
		b.WriteString("\n")
		for _, a := range d.alerts {
			b.WriteString(alertStyle.Render("  " + a))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n  q to quit\n")
	return b.String()
}

func (d *Dashboard) refreshRows() {
	rows := make([]table.Row, 0, len(d.metrics))
	for _, label := range sortedKeys(d.metrics) {
		ev := d.metrics[label]
		rows = append(rows, table.Row{
			label,
			fmt.Sprintf("%.9f", ev.Price),
			amm.FormatUSD(ev.MarketCap),
			amm.FormatUSD(ev.Liquidity),
			fmt.Sprintf("%.4f%%", ev.Funding.PerDay),
		})
	}
	d.pools.SetRows(rows)
}

func (d *Dashboard) pushAlert(line string) {
	d.alerts = append(d.alerts, line)
	if len(d.alerts) > maxAlertLines {
		d.alerts = d.alerts[len(d.alerts)-maxAlertLines:]
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
