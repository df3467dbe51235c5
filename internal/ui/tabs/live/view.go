package live

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
	"github.com/m-reyes/broadcastify-calls-tui/internal/services/player"
	"github.com/m-reyes/broadcastify-calls-tui/internal/ui/components"
	"github.com/m-reyes/broadcastify-calls-tui/internal/ui/styles"
)

// View renders the live tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderLatestCallCard())
	sections = append(sections, m.renderPlayerStatus())
	sections = append(sections, m.renderRecentCalls())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the live tab title with the poll status line.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Broadcastify Calls")

	var status string
	if stats := m.state.GetStats(); stats != nil {
		feedWord := "feeds"
		if stats.FeedCount == 1 {
			feedWord = "feed"
		}
		status = fmt.Sprintf("%d %s monitored · %d cycles · %d calls seen",
			stats.FeedCount, feedWord, stats.Cycles, stats.CallsSeen)
		if stats.LastError != "" {
			status += "  " + styles.ErrorTextStyle.Render("last poll failed")
		}
	}
	subtitle := styles.HelpStyle.Render(status)

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderLatestCallCard renders the highlighted current-call card.
func (m *Model) renderLatestCallCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Latest Call")))

	latest := m.state.GetLatestCall()
	if latest == nil {
		rows = append(rows, "")
		emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
		rows = append(rows, fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render("No calls observed yet")))

		return styles.LatestCallCardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	rows = append(rows, "")
	rows = append(rows, "  "+styles.TalkgroupStyle.Render(latest.Talkgroup))
	rows = append(rows, "  "+latest.Description)
	rows = append(rows, "")
	rows = append(rows, "  "+styles.HelpStyle.Render(formatCallTime(latest)))

	return styles.LatestCallCardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderPlayerStatus renders a one-line player state indicator.
func (m *Model) renderPlayerStatus() string {
	state, playing := m.state.GetPlayer()

	var line string
	if state == player.StatePlaying && playing != nil {
		line = styles.PlayerPlayingStyle.Render("▶ playing") + "  " + playing.Title()
	} else {
		line = styles.PlayerIdleStyle.Render("■ idle")
	}

	return line + "\n"
}

// renderRecentCalls renders the scrollable recent call list.
func (m *Model) renderRecentCalls() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("≋")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Recent Calls")))
	rows = append(rows, "")

	calls := m.state.GetRecentCalls()
	if len(calls) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Nothing heard yet"))
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	for i, call := range calls {
		rows = append(rows, m.renderCallRow(call, i == m.selectedIndex, cardWidth-4))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderCallRow(call models.Call, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = styles.SelectedListItemStyle.Render("")
	}

	timeStr := shortCallTime(&call)
	ageStyle := styles.GetAgeStyle(callAgeMinutes(&call))

	talkgroup := call.Talkgroup
	if len(talkgroup) > 24 {
		talkgroup = talkgroup[:21] + "..."
	}

	desc := call.Description
	maxDesc := max(width-40, 10)
	if len(desc) > maxDesc {
		desc = desc[:maxDesc-3] + "..."
	}

	return fmt.Sprintf("%s%s  %s  %s",
		prefix,
		ageStyle.Render(timeStr),
		styles.TalkgroupStyle.Render(fmt.Sprintf("%-24s", talkgroup)),
		desc,
	)
}

func formatCallTime(call *models.Call) string {
	if t, ok := call.Time(); ok {
		return fmt.Sprintf("%s (%s ago)",
			t.Local().Format("15:04:05 Jan 2"),
			formatAge(time.Since(t)))
	}
	return call.Timestamp
}

func shortCallTime(call *models.Call) string {
	if t, ok := call.Time(); ok {
		return t.Local().Format("15:04:05")
	}
	s := call.Timestamp
	if len(s) > 8 {
		s = s[:8]
	}
	return fmt.Sprintf("%-8s", s)
}

func callAgeMinutes(call *models.Call) float64 {
	if t, ok := call.Time(); ok {
		return time.Since(t).Minutes()
	}
	return 0
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
