package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/m-reyes/broadcastify-calls-tui/internal/ui/components"
	"github.com/m-reyes/broadcastify-calls-tui/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	if m.loading {
		return m.renderLoading()
	}
	if m.errorMsg != "" {
		return m.renderError()
	}
	if m.historyData == nil || !m.historyData.HasData() {
		return m.renderEmpty()
	}

	var sections []string

	sections = append(sections,
		m.renderHeader(),
		m.renderVolumeChart(),
		m.renderTalkgroups(),
		m.renderFeeds(),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading call history..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("No call history yet."),
		styles.HelpStyle.Render("Data will appear as calls are recorded."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Call History")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange.String()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	var subtitle string
	if !m.historyData.FirstCall.IsZero() {
		dataRange := fmt.Sprintf("%d calls · %s → %s",
			m.historyData.TotalCalls,
			m.historyData.FirstCall.Format("Jan 2 15:04"),
			m.historyData.LastCall.Format("Jan 2 15:04"),
		)
		subtitle = styles.HelpStyle.Render(dataRange)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderVolumeChart() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("▁▃▅")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Call Volume")), "")

	volume := m.historyData.HourlyVolume
	if len(volume) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No volume data available"))
	} else {
		data := make([]float64, len(volume))
		for i, bucket := range volume {
			data[i] = float64(bucket.Count)
		}

		chartWidth := max(cardWidth-12, 30)
		chartHeight := 8

		chart := components.RenderLineChart(data, chartWidth, chartHeight,
			fmt.Sprintf("Calls per hour (%s)", m.timeRange.String()))

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderTalkgroups() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◎")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Busiest Talkgroups")),
		"",
	)

	talkgroups := m.historyData.Talkgroups
	if len(talkgroups) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No talkgroup data available"))
	} else {
		values := make([]float64, len(talkgroups))
		labels := make([]string, len(talkgroups))
		for i, tg := range talkgroups {
			values[i] = float64(tg.Count)
			label := tg.Talkgroup
			if len(label) > 20 {
				label = label[:17] + "..."
			}
			labels[i] = label
		}

		chartWidth := max(cardWidth-12, 30)

		barChart := components.RenderBarChart(values, labels, chartWidth)
		for _, line := range strings.Split(barChart, "\n") {
			rows = append(rows, "  "+line)
		}

		if busiest := m.historyData.BusiestTalkgroup(); busiest != nil {
			rows = append(rows,
				"",
				fmt.Sprintf("  Busiest: %s (%d calls, last heard %s)",
					lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(busiest.Talkgroup),
					busiest.Count,
					busiest.LastHeard.Format("Jan 2 15:04"),
				),
			)
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderFeeds() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("≋")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Calls per Feed")),
		"",
	)

	feeds := m.historyData.Feeds
	if len(feeds) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No per-feed data available"))
	} else {
		for _, fs := range feeds {
			id := fs.FeedID
			if id == "" {
				id = "(unknown)"
			}
			rows = append(rows, fmt.Sprintf("  %-16s %5d calls   last %s",
				id, fs.Count, fs.LastHeard.Format("Jan 2 15:04")))
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
