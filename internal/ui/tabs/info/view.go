package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/m-reyes/broadcastify-calls-tui/internal/ui/styles"
	"github.com/m-reyes/broadcastify-calls-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderFeedsCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		rows = append(rows, m.renderConfigRow("API Base URL", m.config.APIBaseURL))
		rows = append(rows, m.renderConfigRow("Scan Interval", m.config.ScanInterval.String()))
		rows = append(rows, m.renderConfigRow("Feeds File", m.config.FeedsPath))
		rows = append(rows, m.renderConfigRow("Database", m.config.DatabasePath))

		playerCmd := m.config.PlayerCommand
		if playerCmd == "" {
			playerCmd = "(none, state-only)"
		}
		rows = append(rows, m.renderConfigRow("Player Command", playerCmd))
		rows = append(rows, m.renderConfigRow("Auto Play", fmt.Sprintf("%t", m.config.AutoPlay)))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderFeedsCard renders the monitored feeds card.
func (m *Model) renderFeedsCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Monitored Feeds"))
	rows = append(rows, "")

	feeds := m.state.GetFeeds()
	if len(feeds) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No feeds configured"))
		rows = append(rows, styles.InfoTextStyle.Render("╰─▶ Set FEED_IDS or edit the feeds file"))
	} else {
		for _, feed := range feeds {
			label := feed.Label()
			if label != feed.ID {
				rows = append(rows, fmt.Sprintf("  %s  %s",
					styles.TalkgroupStyle.Render(feed.ID),
					strings.TrimSpace(label)))
			} else {
				rows = append(rows, "  "+styles.TalkgroupStyle.Render(feed.ID))
			}
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About Broadcastify Calls TUI"))
	rows = append(rows, "")

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
	rows = append(rows, "")

	if stats := m.state.GetStats(); stats != nil {
		rows = append(rows, fmt.Sprintf("Stored calls: %s",
			styles.InfoTextStyle.Render(fmt.Sprintf("%d", stats.StoredCalls))))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
